package cli

import apperrors "github.com/agbru/besselj/internal/errors"

// Ensure CLIColorProvider implements apperrors.ColorProvider at compile time.
var _ apperrors.ColorProvider = CLIColorProvider{}

// CLIColorProvider implements apperrors.ColorProvider using the CLI theme,
// so error reports from other packages follow --no-color.
type CLIColorProvider struct{}

// Yellow returns the warning color from the current theme.
func (c CLIColorProvider) Yellow() string { return ColorYellow() }

// Reset returns the reset escape code from the current theme.
func (c CLIColorProvider) Reset() string { return ColorReset() }
