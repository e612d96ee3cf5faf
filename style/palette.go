package style

import "github.com/charmbracelet/lipgloss"

var (
	Text   = lipgloss.Color("#cdd6f4")
	Accent = lipgloss.Color("#cba6f7")
	Alert  = lipgloss.Color("#f38ba8")
)
