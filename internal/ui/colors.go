package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Escape codes of the current theme, by role.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorBlue() string      { return GetCurrentTheme().Primary }
func ColorMagenta() string   { return GetCurrentTheme().Info }
func ColorCyan() string      { return GetCurrentTheme().Secondary }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }

// Value renders a computed result in bold green. The output is plain when
// the no-color theme is active.
func Value(format string, a ...any) string {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return fmt.Sprintf(format, a...)
	}
	c := color.New(color.Bold, color.FgHiGreen)
	c.EnableColor()
	return c.Sprintf(format, a...)
}
