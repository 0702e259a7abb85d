package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the startup banner for the serve command.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Indigo-to-pink gradient, one color per line
	s1 := termenv.String("      _                   __ _               ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("  ___| |_ ___  _ __ _   _/ _| | _____      __").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" / __| __/ _ \\| '__| | | | |_| |/ _ \\ \\ /\\ / /").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" \\__ \\ || (_) | |  | |_| |  _| | (_) \\ V  V / ").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" |___/\\__\\___/|_|   \\__, |_| |_|\\___/ \\_/\\_/  ").Foreground(p.Color("#f472b6"))
	s6 := termenv.String("                    |___/                     ").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Printf("  v%s\n\n", version)
}
