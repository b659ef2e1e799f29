package appointment

import (
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return st, nil
	}
	return "", httperr.ErrBusiness(CodeInvalidInput)
}

// BlocksSlot reports whether an appointment in this status occupies its time.
func (s Status) BlocksSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition validates a provider-initiated status change.
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusiness(CodeInvalidTransition)
}

func InitialStatus() Status {
	return StatusPending
}

// ActiveStatuses are the statuses that make a slot unavailable.
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}
