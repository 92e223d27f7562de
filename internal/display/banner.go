package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art centred for the current terminal
// width, with the version under it.
func RenderBanner(version string) string {
	art := BannerStyle.Render(strings.TrimRight(bannerRaw, "\n"))
	if version != "" {
		art = lipgloss.JoinVertical(lipgloss.Right, art, secondaryStyle.Render(version))
	}
	return lipgloss.PlaceHorizontal(termWidth(), lipgloss.Center, art) + "\n"
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
