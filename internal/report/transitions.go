package report

import (
	"fmt"
	"strings"

	"brgyalert/backend/internal/models"
)

// Transitions selects which status changes an official may make.
type Transitions int

const (
	// Free allows any status to follow any other.
	Free Transitions = iota
	// Forward only moves away from pending, then into a terminal state.
	// resolved and rejected are final.
	Forward
)

var forwardEdges = map[models.ReportStatus][]models.ReportStatus{
	models.ReportPending:    {models.ReportInProgress, models.ReportResolved, models.ReportRejected},
	models.ReportInProgress: {models.ReportResolved, models.ReportRejected},
}

func ParseTransitions(s string) (Transitions, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free":
		return Free, nil
	case "forward":
		return Forward, nil
	}
	return Free, fmt.Errorf("unknown report transition policy %q", s)
}

func (t Transitions) String() string {
	if t == Forward {
		return "forward"
	}
	return "free"
}

// Allowed reports whether a report in from may be set to to. Keeping the same
// status is always allowed so officials can edit their response.
func (t Transitions) Allowed(from, to models.ReportStatus) bool {
	if from == to || t == Free {
		return true
	}
	for _, next := range forwardEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}
