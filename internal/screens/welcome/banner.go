package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyz/internal/ui/theme"
)

const bannerArt = `
 ███████╗████████╗██╗   ██╗██████╗ ██╗   ██╗███████╗
 ██╔════╝╚══██╔══╝██║   ██║██╔══██╗╚██╗ ██╔╝╚══███╔╝
 ███████╗   ██║   ██║   ██║██║  ██║ ╚████╔╝   ███╔╝
 ╚════██║   ██║   ██║   ██║██║  ██║  ╚██╔╝   ███╔╝
 ███████║   ██║   ╚██████╔╝██████╔╝   ██║   ███████╗
 ╚══════╝   ╚═╝    ╚═════╝ ╚═════╝    ╚═╝   ╚══════╝`

const bannerCompact = "S T U D Y Z"

// RenderBanner returns the block-letter banner, or a compact fallback for
// terminals narrower than 56 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 56 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
