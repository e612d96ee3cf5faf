package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Warn
	Download
	Browser
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "x",
		kaomoji: "(×_×)",
		squares: "▇",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "▇",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・ヾ",
		squares: "▇",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(°ロ°)",
		squares: "▇",
	},
	Download: {
		emoji:   "📥",
		nerd:    "",
		plain:   "↓",
		kaomoji: "(っ˘ڡ˘ς)",
		squares: "▇",
	},
	Browser: {
		emoji:   "🌐",
		nerd:    "",
		plain:   "@",
		kaomoji: "(⌐■_■)",
		squares: "▇",
	},
}
