package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for the chat session.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Warm green-to-amber scheme, fitting for a nutrition coach.
	s1 := termenv.String("   _____      _       ____        _   ").Foreground(p.Color("#4ade80"))
	s2 := termenv.String("  / ____|    | |     |  _ \\      | |  ").Foreground(p.Color("#86efac"))
	s3 := termenv.String(" | |     __ _| | ___ | |_) | ___ | |_ ").Foreground(p.Color("#bef264"))
	s4 := termenv.String(" | |    / _` | |/ _ \\|  _ < / _ \\| __|").Foreground(p.Color("#fde047"))
	s5 := termenv.String(" | |___| (_| | | (_) | |_) | (_) | |_ ").Foreground(p.Color("#fbbf24"))
	s6 := termenv.String("  \\_____\\__,_|_|\\___/|____/ \\___/ \\__|").Foreground(p.Color("#f97316"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
