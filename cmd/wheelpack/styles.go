// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wheelpack/wheelpack/internal/config"
)

// Color palette - shared hex colors for consistent theming across all CLI output.
const (
	// ColorPrimary is purple - used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for secondary text such as paths.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for satisfied dependencies and written files.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for errors and missing dependencies.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for commands and links.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray - used for verbose output.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names, code, and links.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for verbose output and supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)
)

// applyColorScheme points the default lipgloss renderer at the configured
// scheme. "auto" keeps terminal detection.
func applyColorScheme(scheme config.ColorScheme) {
	switch scheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	case config.ColorSchemeNoTTY:
		lipgloss.SetColorProfile(termenv.Ascii)
	case config.ColorSchemeAuto:
	}
}

// glamourStyle returns the glamour standard style for issue pages.
func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight, config.ColorSchemeNoTTY:
		return string(scheme)
	default:
		return "auto"
	}
}
