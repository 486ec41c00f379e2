package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown on interactive commands.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Indigo to rose gradient, top to bottom.
	s1 := termenv.String("  ___ _   _ _ __   __ _ _ __  ___  ___ ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" / __| | | | '_ \\ / _` | '_ \\/ __|/ _ \\").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" \\__ \\ |_| | | | | (_| | |_) \\__ \\  __/").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" |___/\\__, |_| |_|\\__,_| .__/|___/\\___|").Foreground(p.Color("#e879f9"))
	s5 := termenv.String("      |___/            |_|             ").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
