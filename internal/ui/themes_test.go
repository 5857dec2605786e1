package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

// These tests mutate process-wide theme state and so do not run in parallel.

func TestSetTheme(t *testing.T) {
	originalTheme := GetCurrentTheme()
	defer SetCurrentTheme(originalTheme)

	testCases := []struct {
		name          string
		themeName     string
		expectedTheme Theme
	}{
		{"Set dark theme", "dark", DarkTheme},
		{"Set light theme", "light", LightTheme},
		{"Set none theme", "none", NoColorTheme},
		{"Unknown theme defaults to dark", "unknown", DarkTheme},
		{"Empty string defaults to dark", "", DarkTheme},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			SetTheme(tc.themeName)
			if got := GetCurrentTheme().Name; got != tc.expectedTheme.Name {
				t.Errorf("SetTheme(%q): got theme %q, want %q", tc.themeName, got, tc.expectedTheme.Name)
			}
			if color.NoColor != (tc.expectedTheme.Name == "none") {
				t.Errorf("SetTheme(%q): color.NoColor = %v", tc.themeName, color.NoColor)
			}
		})
	}
}

func TestInitTheme(t *testing.T) {
	originalTheme := GetCurrentTheme()
	defer SetCurrentTheme(originalTheme)

	t.Run("noColor flag disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		InitTheme(true)
		if got := GetCurrentTheme(); got.Name != "none" || got.Primary != "" {
			t.Errorf("InitTheme(true): got theme %q", got.Name)
		}
	})

	t.Run("NO_COLOR set disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if got := GetCurrentTheme().Name; got != "none" {
			t.Errorf("InitTheme with NO_COLOR=1: got theme %q, want none", got)
		}
	})
}

func TestThemeColors(t *testing.T) {
	for _, theme := range []Theme{DarkTheme, LightTheme} {
		if theme.Primary == "" || theme.Success == "" || theme.Error == "" || theme.Reset == "" {
			t.Errorf("%s theme has empty colors: %+v", theme.Name, theme)
		}
	}
	if NoColorTheme != (Theme{Name: "none"}) {
		t.Errorf("NoColorTheme should carry no escape codes: %+v", NoColorTheme)
	}
}

func TestColorFunctions(t *testing.T) {
	originalTheme := GetCurrentTheme()
	defer SetCurrentTheme(originalTheme)

	SetTheme("dark")
	if ColorReset() != DarkTheme.Reset || ColorGreen() != DarkTheme.Success || ColorRed() != DarkTheme.Error {
		t.Error("color functions should return the dark theme codes")
	}
	if ColorBlue() != DarkTheme.Primary || ColorYellow() != DarkTheme.Warning || ColorMagenta() != DarkTheme.Info {
		t.Error("color functions should return the dark theme codes")
	}
	if got := Value("%.3f", 0.5); !strings.Contains(got, "0.500") || !strings.Contains(got, "\x1b[") {
		t.Errorf("Value() = %q, want colored 0.500", got)
	}

	SetTheme("none")
	if ColorReset() != "" || ColorGreen() != "" || ColorCyan() != "" || ColorBold() != "" || ColorUnderline() != "" {
		t.Error("color functions with none theme should be empty")
	}
	if got := Value("%.3f", 0.5); got != "0.500" {
		t.Errorf("Value() = %q, want plain 0.500", got)
	}
}
