package twin

//Availability is a calendar-derived availability state. Values outside the
//known set are allowed and must be handled by every consumer.
type Availability string

//Availabilities
const (
	AvailabilityOpen        Availability = "open"
	AvailabilityFocused     Availability = "focused"
	AvailabilityBusy        Availability = "busy"
	AvailabilityWindingDown Availability = "winding_down"
)

//StatusSnapshot is the status backend's current view of the owner's day
type StatusSnapshot struct {
	Availability      Availability `json:"availability"`
	EnergyEstimate    string       `json:"energy_estimate"`
	BestContactMethod string       `json:"best_contact_method"`
	SuggestedWaitTime string       `json:"suggested_wait_time"`
	ContextSummary    string       `json:"context_summary"`
	MeetingCount      int          `json:"meeting_count"`
	MeetingsRemaining int          `json:"meetings_remaining"`
	InMeeting         bool         `json:"in_meeting"`
}
