package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan = lipgloss.Color("36")  // Teal - primary
	colorBlue = lipgloss.Color("75")  // Light blue - links
	colorDim  = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLink  = lipgloss.NewStyle().Foreground(colorBlue)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
)

// printBanner writes the serve startup banner.
func printBanner(w io.Writer, addr string, version string) {
	fmt.Fprintf(w, "%s %s\n", styleTitle.Render("canvasd"), styleDim.Render(version))
	fmt.Fprintf(w, "listening on %s\n", styleLink.Render(addr))
}
