package services

import (
	"log"
)

type EventKind string

const (
	EventOnboarded        EventKind = "onboarding.completed"
	EventWeightLogged     EventKind = "weight.logged"
	EventChecklistUpdated EventKind = "checklist.updated"
	EventDiaryLogged      EventKind = "diary.logged"
)

type DomainEvent struct {
	Kind   EventKind
	UserID uint
}

type eventDeps struct {
	ach *AchievementService
	rt  *RealtimeHub
}

var _events eventDeps

func InitEventBus(ach *AchievementService, rt *RealtimeHub) {
	_events = eventDeps{ach: ach, rt: rt}
}

// Emit runs achievement evaluation for the patient behind a mutation and
// returns whatever unlocked. Safe to call anywhere; a missed call only delays
// an unlock until the next event for the same patient.
func Emit(ev DomainEvent) []Achievement {
	if _events.ach == nil {
		return nil
	}

	newly, err := _events.ach.Evaluate(ev.UserID)
	if err != nil {
		log.Printf("event %s: achievement evaluation for user %d: %v", ev.Kind, ev.UserID, err)
		return nil
	}

	if len(newly) > 0 && _events.rt != nil {
		_events.rt.Broadcast(ev.UserID, map[string]any{
			"kind":         "achievements.unlocked",
			"achievements": newly,
		})
	}
	return newly
}
