package lookup

import "github.com/rendis/pinpoint/internal/model"

// OutcomeKind tells how a lookup ended.
type OutcomeKind int

const (
	OutcomeFound OutcomeKind = iota
	OutcomeNoMatch
	OutcomeInvalidCoordinates
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeInvalidCoordinates:
		return "invalid_coordinates"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of resolving one Ticket.
type Outcome struct {
	Seq    uint64
	Kind   OutcomeKind
	Result model.Result // set when Kind == OutcomeFound
	Err    error        // set when Kind == OutcomeFailed
}
