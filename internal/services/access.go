package services

import "iftargather/internal/domain"

// CanViewEvent is the visibility predicate applied at delivery call sites:
// an event is viewable by its host, by anyone when it is public, or by
// anyone who reached it through its share code. The share-code path
// bypasses the public flag entirely, so private events are unlisted, not
// access-controlled.
func CanViewEvent(event *domain.Event, requesterID string, viaShareCode bool) bool {
	if event == nil {
		return false
	}
	if viaShareCode {
		return true
	}
	if event.IsPublic {
		return true
	}
	return requesterID != "" && event.HostID == requesterID
}

// IsHost reports whether the requester owns the event. Mutations require it.
func IsHost(event *domain.Event, requesterID string) bool {
	return event != nil && requesterID != "" && event.HostID == requesterID
}
