package twin

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

//DefaultEmoji is shown for absent or unrecognized availability values
const DefaultEmoji = "⚪"

//UnknownLabel is shown when no availability value is present
const UnknownLabel = "Unknown"

var availabilityEmoji = map[Availability]string{
	AvailabilityOpen:        "🟢",
	AvailabilityFocused:     "🟡",
	AvailabilityBusy:        "🔴",
	AvailabilityWindingDown: "🟠",
}

//AvailabilityEmoji returns the badge glyph for a, or DefaultEmoji if a is not recognized
func AvailabilityEmoji(a Availability) string {
	if e, ok := availabilityEmoji[a]; ok {
		return e
	}
	return DefaultEmoji
}

//AvailabilityLabel upper-cases the first character of a and leaves the rest alone,
//so "winding_down" becomes "Winding_down". An empty a returns UnknownLabel.
func AvailabilityLabel(a Availability) string {
	s := string(a)
	if s == "" {
		return UnknownLabel
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

//Panel is everything the presentation layer needs to draw the status panel
type Panel struct {
	Known             bool   `json:"known"`
	Emoji             string `json:"emoji"`
	Label             string `json:"label"`
	Banner            bool   `json:"banner"`
	Energy            string `json:"energy"`
	ContactMethod     string `json:"contact_method"`
	Wait              string `json:"wait"`
	Summary           string `json:"summary"`
	MeetingCount      int    `json:"meeting_count"`
	MeetingsRemaining int    `json:"meetings_remaining"`
}

//DescribeStatus maps s to a Panel. A nil s produces an unknown Panel.
func DescribeStatus(s *StatusSnapshot) Panel {
	if s == nil {
		return Panel{Emoji: DefaultEmoji, Label: UnknownLabel}
	}
	return Panel{
		Known:             true,
		Emoji:             AvailabilityEmoji(s.Availability),
		Label:             AvailabilityLabel(s.Availability),
		Banner:            s.InMeeting,
		Energy:            s.EnergyEstimate,
		ContactMethod:     s.BestContactMethod,
		Wait:              s.SuggestedWaitTime,
		Summary:           s.ContextSummary,
		MeetingCount:      s.MeetingCount,
		MeetingsRemaining: s.MeetingsRemaining,
	}
}

//Badge returns the emoji and label joined for display
func (p Panel) Badge() string {
	return p.Emoji + " " + p.Label
}

//MeetingsLine renders the remaining meeting count
func (p Panel) MeetingsLine() string {
	return fmt.Sprintf("%d meetings remaining", p.MeetingsRemaining)
}

//TotalLine renders the day's meeting count
func (p Panel) TotalLine() string {
	return fmt.Sprintf("%d meetings today", p.MeetingCount)
}
