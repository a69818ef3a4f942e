// Package httputil provides HTTP client helpers shared by components that
// talk to external servers: bounded retry with exponential backoff and a
// file-based response cache.
//
// The image loader uses both: transient fetch failures (timeouts, 5xx) are
// wrapped in [RetryableError] and retried, and successfully fetched image
// bytes are cached on disk keyed by a hash of the source URL so repeated
// adds of the same image skip the network.
package httputil
