package ui

import (
	"fmt"
	"strings"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Pending                                string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	SymFolder, SymItem, SymPhoto, SymHome  string

	// lipgloss color names for the interactive views
	AccentColor, MutedColor, ErrorColor string
}

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymFolder: "▸", SymItem: "•", SymPhoto: "▣", SymHome: "⌂",
		AccentColor: "12", MutedColor: "8", ErrorColor: "9",
	}
}

// SetTheme switches the current theme. Unknown names are an error and leave
// the theme unchanged.
func SetTheme(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		disableColor = false
		current = classic()
	case "neon":
		disableColor = false
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymFolder: "◆", SymItem: "◇", SymPhoto: "◼", SymHome: "⌂",
			AccentColor: "14", MutedColor: "8", ErrorColor: "13",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:     "mono",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymFolder: "+", SymItem: "-", SymPhoto: "[img]", SymHome: "#",
		}
	default:
		return fmt.Errorf("unknown theme %q", name)
	}
	applyStyles(current)
	return nil
}

// Expose what renderers need
func Current() Theme { return current }
