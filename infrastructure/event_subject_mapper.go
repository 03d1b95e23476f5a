package infrastructure

import (
	"fmt"

	"casino/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeDeposit:
		return "bankroll.deposited"
	case events.EventTypeWithdrawal:
		return "bankroll.withdrawn"
	case events.EventTypeBetResolved:
		return "betting.resolved"
	case events.EventTypePrizeClaimed:
		return "prizes.claimed"
	case events.EventTypeRoundStarted:
		return "crash.round_started"
	case events.EventTypeBettingClosed:
		return "crash.betting_closed"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "bankroll.deposited":
		return events.EventTypeDeposit
	case "bankroll.withdrawn":
		return events.EventTypeWithdrawal
	case "betting.resolved":
		return events.EventTypeBetResolved
	case "prizes.claimed":
		return events.EventTypePrizeClaimed
	case "crash.round_started":
		return events.EventTypeRoundStarted
	case "crash.betting_closed":
		return events.EventTypeBettingClosed
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"bankroll.deposited",
		"bankroll.withdrawn",
		"betting.resolved",
		"prizes.claimed",
		"crash.round_started",
		"crash.betting_closed",
	}
}
