// Package store holds the per-session state containers the UI layer reads
// from: the events store (hosted events, invitations, catalog, attendance)
// and the debounced session cache. A store is built once per session and
// disposed with Close; it is not a shared singleton.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"iftargather/internal/domain"
)

// ViewMode selects how the event list is presented.
type ViewMode string

const (
	ViewModeCard     ViewMode = "card"
	ViewModeList     ViewMode = "list"
	ViewModeCalendar ViewMode = "calendar"
)

// Flavor records which fetch a merged event came from; it decides the
// badge a duplicate event displays.
type Flavor string

const (
	FlavorHosted    Flavor = "hosted"
	FlavorPublic    Flavor = "public"
	FlavorAttending Flavor = "attending"
)

// EventListItem is one entry of the merged "all events" view.
type EventListItem struct {
	Event  *domain.Event
	Flavor Flavor
}

// animationDuration is how long a fired animation flag stays set.
const animationDuration = 500 * time.Millisecond

// EventsStore caches the session user's events, the invitations addressed
// to them, the public catalog and their attendance, and exposes the merged
// views the UI renders from. All state is guarded by one mutex; committed
// mutations notify subscribers.
type EventsStore struct {
	events      domain.EventService
	invitations domain.InvitationService
	logger      *slog.Logger
	userID      string
	userName    string

	mu              sync.Mutex
	hosted          []*domain.EventWithAttendees
	userInvitations []*domain.InvitationWithEvent
	publicEvents    []*domain.Event
	attendingEvents []*domain.Event
	selectedEvent   *domain.Event
	viewMode        ViewMode
	animation       string
	animTimer       *time.Timer
	loading         bool
	lastErr         error
	closed          bool

	subs    map[int]func()
	nextSub int
}

// NewEventsStore builds a store for one session.
func NewEventsStore(events domain.EventService, invitations domain.InvitationService, logger *slog.Logger, userID, userName string) *EventsStore {
	return &EventsStore{
		events:      events,
		invitations: invitations,
		logger:      logger,
		userID:      userID,
		userName:    userName,
		viewMode:    ViewModeCard,
		subs:        make(map[int]func()),
	}
}

// Subscribe registers a callback invoked after every committed mutation.
// The returned function unsubscribes.
func (s *EventsStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notifyLocked snapshots the subscriber list; callers invoke the returned
// callbacks after releasing the mutex.
func (s *EventsStore) notifyLocked() []func() {
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// Close disposes the store. Fetches resolving after Close are discarded.
func (s *EventsStore) Close() {
	s.mu.Lock()
	s.closed = true
	if s.animTimer != nil {
		s.animTimer.Stop()
		s.animTimer = nil
	}
	s.mu.Unlock()
}

func (s *EventsStore) setLoading(loading bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.loading = loading
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
}

// FetchUserEvents loads the session user's hosted events and attaches each
// event's attendees. This is deliberately one list call plus one attendees
// call per event; the request count is part of the observable behavior and
// is the store's scalability bound at large event counts.
func (s *EventsStore) FetchUserEvents(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	events, err := s.events.ListEventsByHost(ctx, s.userID)
	if err != nil {
		s.recordErr(err)
		return err
	}
	hosted := make([]*domain.EventWithAttendees, 0, len(events))
	for _, ev := range events {
		attendees, err := s.events.ListEventAttendees(ctx, ev.ID)
		if err != nil {
			s.logger.Warn("attendees fetch failed", "event_id", ev.ID, "err", err)
			attendees = []*domain.Attendee{}
		}
		hosted = append(hosted, &domain.EventWithAttendees{Event: ev, Attendees: attendees})
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.hosted = hosted
	s.lastErr = nil
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
	return nil
}

// FetchPublicEvents loads the catalog and keeps the public slice. The
// catalog itself is unfiltered; the IsPublic filter is applied here, on
// the caller side.
func (s *EventsStore) FetchPublicEvents(ctx context.Context) error {
	events, err := s.events.ListCatalogEvents(ctx)
	if err != nil {
		s.recordErr(err)
		return err
	}
	public := make([]*domain.Event, 0, len(events))
	for _, ev := range events {
		if ev.IsPublic {
			public = append(public, ev)
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.publicEvents = public
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
	return nil
}

// FetchAttendingEvents loads the events the session user is confirmed for.
func (s *EventsStore) FetchAttendingEvents(ctx context.Context) error {
	events, err := s.events.ListAttendingEvents(ctx, s.userID)
	if err != nil {
		s.recordErr(err)
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.attendingEvents = events
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
	return nil
}

// FetchUserInvitations loads the invitations addressed to the session user.
func (s *EventsStore) FetchUserInvitations(ctx context.Context) error {
	invitations, err := s.invitations.ListUserInvitations(ctx, s.userID)
	if err != nil {
		s.recordErr(err)
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.userInvitations = invitations
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
	return nil
}

// RefreshAll fans out the four fetches concurrently. Each branch commits
// only the state it owns, so one failed branch never blocks the others;
// the first branch error is returned after all branches settle.
func (s *EventsStore) RefreshAll(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var g errgroup.Group
	g.Go(func() error { return s.FetchUserEvents(ctx) })
	g.Go(func() error { return s.FetchPublicEvents(ctx) })
	g.Go(func() error { return s.FetchAttendingEvents(ctx) })
	g.Go(func() error { return s.FetchUserInvitations(ctx) })
	return g.Wait()
}

// RespondToInvitation forwards the response, optimistically patches the
// local copy by ID, and then refetches the full invitation list. Both the
// optimistic patch and the refetch happen; the redundancy costs one extra
// request and keeps the list authoritative.
func (s *EventsStore) RespondToInvitation(ctx context.Context, inv *domain.InvitationWithEvent, status domain.InvitationStatus) error {
	if inv == nil || inv.Invitation == nil {
		return domain.ErrInvalidInput
	}
	hostID := ""
	if inv.Event != nil {
		hostID = inv.Event.HostID
	}
	if _, err := s.invitations.RespondToInvitation(ctx, inv.Invitation.ID, status, s.userID, s.userName, inv.Invitation.EventID, hostID); err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	for _, item := range s.userInvitations {
		if item.Invitation.ID == inv.Invitation.ID {
			item.Invitation.Status = status
			break
		}
	}
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)

	return s.FetchUserInvitations(ctx)
}

// ToggleViewMode flips card <-> list. Calendar is never part of the
// toggle; it is reached through SetViewMode by navigation.
func (s *EventsStore) ToggleViewMode() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.viewMode == ViewModeCard {
		s.viewMode = ViewModeList
	} else {
		s.viewMode = ViewModeCard
	}
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
}

// SetViewMode sets the view mode directly.
func (s *EventsStore) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.viewMode = mode
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
}

// TriggerAnimation fires a one-shot animation flag that clears itself
// after 500ms.
func (s *EventsStore) TriggerAnimation(name string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.animation = name
	if s.animTimer != nil {
		s.animTimer.Stop()
	}
	s.animTimer = time.AfterFunc(animationDuration, func() {
		s.mu.Lock()
		if s.closed || s.animation != name {
			s.mu.Unlock()
			return
		}
		s.animation = ""
		fns := s.notifyLocked()
		s.mu.Unlock()
		runAll(fns)
	})
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
}

// SelectEvent sets the selected event (nil clears it).
func (s *EventsStore) SelectEvent(event *domain.Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.selectedEvent = event
	fns := s.notifyLocked()
	s.mu.Unlock()
	runAll(fns)
}

// AllEvents merges the three fetched slices into the combined view:
// hosted events are included first, public events fill in IDs not already
// present, and attending events are appended when absent but replace the
// existing entry when present, so a conflicted event shows its attending
// flavor.
func (s *EventsStore) AllEvents() []EventListItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]EventListItem, 0, len(s.hosted)+len(s.publicEvents)+len(s.attendingEvents))
	index := make(map[string]int)

	for _, h := range s.hosted {
		index[h.Event.ID] = len(items)
		items = append(items, EventListItem{Event: h.Event, Flavor: FlavorHosted})
	}
	for _, ev := range s.publicEvents {
		if _, ok := index[ev.ID]; ok {
			continue
		}
		index[ev.ID] = len(items)
		items = append(items, EventListItem{Event: ev, Flavor: FlavorPublic})
	}
	for _, ev := range s.attendingEvents {
		if i, ok := index[ev.ID]; ok {
			items[i] = EventListItem{Event: ev, Flavor: FlavorAttending}
			continue
		}
		index[ev.ID] = len(items)
		items = append(items, EventListItem{Event: ev, Flavor: FlavorAttending})
	}
	return items
}

// Events returns the hosted events with their attendees.
func (s *EventsStore) Events() []*domain.EventWithAttendees {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.EventWithAttendees, len(s.hosted))
	copy(out, s.hosted)
	return out
}

// Invitations returns the invitations addressed to the session user.
func (s *EventsStore) Invitations() []*domain.InvitationWithEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.InvitationWithEvent, len(s.userInvitations))
	copy(out, s.userInvitations)
	return out
}

// PublicEvents returns the public slice of the catalog.
func (s *EventsStore) PublicEvents() []*domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Event, len(s.publicEvents))
	copy(out, s.publicEvents)
	return out
}

// AttendingEvents returns the events the session user is confirmed for.
func (s *EventsStore) AttendingEvents() []*domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Event, len(s.attendingEvents))
	copy(out, s.attendingEvents)
	return out
}

// SelectedEvent returns the selected event, if any.
func (s *EventsStore) SelectedEvent() *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedEvent
}

// CurrentViewMode returns the active view mode.
func (s *EventsStore) CurrentViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

// Animation returns the active animation flag, or "".
func (s *EventsStore) Animation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animation
}

// IsLoading reports whether a batch fetch is in flight.
func (s *EventsStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error, if any.
func (s *EventsStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *EventsStore) recordErr(err error) {
	s.mu.Lock()
	if !s.closed {
		s.lastErr = fmt.Errorf("store fetch: %w", err)
	}
	s.mu.Unlock()
}
