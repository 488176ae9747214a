package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarning   = lipgloss.Color("214") // Amber
	colorDanger    = lipgloss.Color("196") // Red
)

// TabActive style for the selected tab label.
var TabActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// TabInactive style for unselected tab labels.
var TabInactive = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// InfoBar style for the per-tab summary line under the tabs.
var InfoBar = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// InfoBarValue style for the numbers inside the summary line.
var InfoBarValue = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// KindBadge is the base style for message-kind badges; the background is
// filled in per kind.
var KindBadge = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1).
	MarginRight(1)

// SenderName style for chat sender names.
var SenderName = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// SystemSender style for synthetic senders (Join, Quit, Death, ...).
var SystemSender = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Bold(true)

// BodyText style for message bodies.
var BodyText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// BoldWord style for the emphasized leading word of system messages.
var BoldWord = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// Timestamp style for right-aligned relative times.
var Timestamp = lipgloss.NewStyle().
	Foreground(colorMuted)

// SearchMatch style wraps search hits inside rendered rows.
var SearchMatch = lipgloss.NewStyle().
	Foreground(lipgloss.Color("232")).
	Background(colorHighlight)

// Detail style for secondary card lines (bios, founding dates, coords).
var Detail = lipgloss.NewStyle().
	Foreground(colorSecondary)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in the status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in the status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Status light styles, one per connectivity state.
var (
	LightGreen = lipgloss.NewStyle().Foreground(colorSuccess)
	LightRed   = lipgloss.NewStyle().Foreground(colorDanger)
	LightGray  = lipgloss.NewStyle().Foreground(colorMuted)
)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// RankStyle for leaderboard rank numbers.
var RankStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// MonoValue style for numeric stat values.
var MonoValue = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))
