package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iftargather/internal/delivery/http/controllers"
	"iftargather/internal/delivery/http/helpers"
	"iftargather/internal/docstore/memory"
	"iftargather/internal/domain"
	docstorerepo "iftargather/internal/repository/docstore"
	"iftargather/internal/services"
)

// identityIssuer hands back the user ID as the token, so router tests can
// authenticate as any user with "Bearer <userID>".
type identityIssuer struct{}

func (identityIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return userID, nil
}

type identityVerifier struct{}

func (identityVerifier) Verify(token string) (string, error) {
	return token, nil
}

type testEnv struct {
	router       *http.ServeMux
	users        domain.UserRepository
	events       domain.EventService
	attendeeRepo domain.AttendeeRepository
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ds := memory.New()
	eventRepo := docstorerepo.NewEventRepository(ds)
	attendeeRepo := docstorerepo.NewAttendeeRepository(ds)
	invitationRepo := docstorerepo.NewInvitationRepository(ds)
	userRepo := docstorerepo.NewUserRepository(ds)

	eventSvc := services.NewEventService(eventRepo, attendeeRepo, invitationRepo, logger)
	invitationSvc := services.NewInvitationService(invitationRepo, eventRepo, userRepo, eventSvc, nil, "https://iftar.example.com", logger)
	authSvc := services.NewAuthService(userRepo, identityIssuer{}, time.Hour)
	calendarSvc := services.NewCalendarService(eventSvc, logger)

	router := NewRouter(
		logger,
		identityVerifier{},
		controllers.NewAuthController(logger, authSvc),
		controllers.NewEventController(logger, eventSvc, authSvc),
		controllers.NewInvitationController(logger, invitationSvc, eventSvc, authSvc),
		controllers.NewCalendarController(logger, calendarSvc),
	)
	return &testEnv{router: router, users: userRepo, events: eventSvc, attendeeRepo: attendeeRepo}
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "http://test"+path, reader)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+userID)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data  T                 `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	return envelope.Data
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

func (e *testEnv) createUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": email, "password": "ramadan-2026", "name": name,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	data := decodeData[controllers.AuthResponse](t, rr)
	return data.User
}

func (e *testEnv) createEvent(t *testing.T, hostID, title string, isPublic bool) *domain.Event {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/events", hostID, map[string]any{
		"title": title, "date": "2026-03-01", "time": "18:30",
		"location": "Masjid Al-Noor", "is_public": isPublic,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	return decodeData[*domain.Event](t, rr)
}

func TestSignUpLoginAndMe(t *testing.T) {
	e := newTestEnv()

	user := e.createUser(t, "Amina", "amina@example.com")
	require.NotEmpty(t, user.ID)

	rr := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "amina@example.com", "password": "ramadan-2026",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	login := decodeData[controllers.AuthResponse](t, rr)
	assert.Equal(t, user.ID, login.User.ID)
	assert.Equal(t, "Bearer", login.TokenType)

	rr = e.do(t, http.MethodGet, "/auth/me", user.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decodeData[*domain.User](t, rr)
	assert.Equal(t, "Amina", me.Name)
}

func TestSignUp_DuplicateEmailConflicts(t *testing.T) {
	e := newTestEnv()
	e.createUser(t, "Amina", "amina@example.com")

	rr := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": "amina@example.com", "password": "ramadan-2026", "name": "Amina",
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, helpers.ErrCodeConflict, errorCode(t, rr))
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newTestEnv()
	e.createUser(t, "Amina", "amina@example.com")

	rr := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "amina@example.com", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateAndGetEvent(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")

	event := e.createEvent(t, host.ID, "Family Iftar", false)
	assert.Equal(t, host.ID, event.HostID)
	assert.Equal(t, "Amina", event.HostName)
	assert.NotEmpty(t, event.ShareCode)

	rr := e.do(t, http.MethodGet, "/events/"+event.ID, host.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeData[*domain.Event](t, rr)
	assert.Equal(t, event.ID, got.ID)
}

func TestGetEvent_PrivateForbiddenForStranger(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	stranger := e.createUser(t, "Bilal", "bilal@example.com")
	event := e.createEvent(t, host.ID, "Family Iftar", false)

	rr := e.do(t, http.MethodGet, "/events/"+event.ID, stranger.ID, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, helpers.ErrCodeForbidden, errorCode(t, rr))
}

func TestShareLink_AnonymousReachesPrivateEvent(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	event := e.createEvent(t, host.ID, "Family Iftar", false)

	rr := e.do(t, http.MethodGet, "/share/"+event.ShareCode, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeData[*domain.Event](t, rr)
	assert.Equal(t, event.ID, got.ID)
	assert.False(t, got.IsPublic)
}

func TestUpdateEvent_HostOnly(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	stranger := e.createUser(t, "Bilal", "bilal@example.com")
	event := e.createEvent(t, host.ID, "Family Iftar", false)

	rr := e.do(t, http.MethodPatch, "/events/"+event.ID, stranger.ID, map[string]any{"title": "Hijacked"})
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = e.do(t, http.MethodPatch, "/events/"+event.ID, host.ID, map[string]any{"title": "Family Iftar Night"})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decodeData[*domain.Event](t, rr)
	assert.Equal(t, "Family Iftar Night", updated.Title)
	// Share code survives the rename.
	assert.Equal(t, event.ShareCode, updated.ShareCode)
}

func TestDeleteEvent_CascadeReported(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	guest := e.createUser(t, "Bilal", "bilal@example.com")
	event := e.createEvent(t, host.ID, "Family Iftar", true)

	rr := e.do(t, http.MethodPost, "/events/"+event.ID+"/rsvp", guest.ID, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = e.do(t, http.MethodDelete, "/events/"+event.ID, host.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	result := decodeData[*domain.CascadeDeleteResult](t, rr)
	assert.Equal(t, 1, result.AttendeesDeleted)
	assert.True(t, result.EventDeleted)

	rr = e.do(t, http.MethodGet, "/events/"+event.ID, host.ID, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRSVPAndAttendanceStatus(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	guest := e.createUser(t, "Bilal", "bilal@example.com")
	event := e.createEvent(t, host.ID, "Open Iftar", true)

	rr := e.do(t, http.MethodPost, "/events/"+event.ID+"/rsvp", guest.ID, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rr.Code)
	att := decodeData[*domain.Attendee](t, rr)
	assert.Equal(t, "Bilal", att.Name)
	assert.Equal(t, domain.AttendanceConfirmed, att.Status)

	rr = e.do(t, http.MethodGet, "/events/"+event.ID+"/attendance", guest.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	status := decodeData[controllers.AttendanceStatusResponse](t, rr)
	assert.Equal(t, domain.AttendanceConfirmed, status.Status)

	// Opting out removes the record; the response carries no ID.
	rr = e.do(t, http.MethodPost, "/events/"+event.ID+"/rsvp", guest.ID, map[string]string{"status": "not-attending"})
	require.Equal(t, http.StatusOK, rr.Code)
	att = decodeData[*domain.Attendee](t, rr)
	assert.Empty(t, att.ID)

	rr = e.do(t, http.MethodGet, "/events/"+event.ID+"/attendees", host.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	attendees := decodeData[[]*domain.Attendee](t, rr)
	assert.Empty(t, attendees)
}

func TestRSVP_InvalidStatusRejected(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	event := e.createEvent(t, host.ID, "Open Iftar", true)

	rr := e.do(t, http.MethodPost, "/events/"+event.ID+"/rsvp", host.ID, map[string]string{"status": "maybe"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInvitationFlow(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	guest := e.createUser(t, "Bilal", "bilal@example.com")
	event := e.createEvent(t, host.ID, "Family Iftar", false)

	rr := e.do(t, http.MethodPost, "/events/"+event.ID+"/invitations", host.ID, map[string]string{"email": "bilal@example.com"})
	require.Equal(t, http.StatusCreated, rr.Code)
	inv := decodeData[*domain.Invitation](t, rr)
	assert.Equal(t, guest.ID, inv.InviteeID)
	assert.Equal(t, domain.InvitationPending, inv.Status)

	rr = e.do(t, http.MethodGet, "/invitations", guest.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeData[[]*domain.InvitationWithEvent](t, rr)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Event)
	assert.Equal(t, event.ID, list[0].Event.ID)

	rr = e.do(t, http.MethodPost, "/invitations/"+inv.ID+"/respond", guest.ID, map[string]string{
		"status": "confirmed", "event_id": event.ID, "event_host_id": event.HostID,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decodeData[*domain.Invitation](t, rr)
	assert.Equal(t, domain.InvitationConfirmed, updated.Status)

	// Confirming the invitation produced an attendee record.
	att, err := e.attendeeRepo.GetByEventAndUser(context.Background(), event.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceConfirmed, att.Status)
}

func TestInvitation_NonHostForbidden(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	stranger := e.createUser(t, "Bilal", "bilal@example.com")
	event := e.createEvent(t, host.ID, "Family Iftar", false)

	rr := e.do(t, http.MethodPost, "/events/"+event.ID+"/invitations", stranger.ID, map[string]string{"email": "x@example.com"})
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCatalogAndMineAndAttending(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	guest := e.createUser(t, "Bilal", "bilal@example.com")
	open := e.createEvent(t, host.ID, "Open Iftar", true)
	e.createEvent(t, host.ID, "Family Iftar", false)

	// The catalog carries private events too; clients filter.
	rr := e.do(t, http.MethodGet, "/events/catalog", guest.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	catalog := decodeData[[]*domain.Event](t, rr)
	assert.Len(t, catalog, 2)

	rr = e.do(t, http.MethodGet, "/events/mine", host.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	mine := decodeData[[]*domain.Event](t, rr)
	assert.Len(t, mine, 2)

	rr = e.do(t, http.MethodPost, "/events/"+open.ID+"/rsvp", guest.ID, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = e.do(t, http.MethodGet, "/events/attending", guest.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	attending := decodeData[[]*domain.Event](t, rr)
	require.Len(t, attending, 1)
	assert.Equal(t, open.ID, attending[0].ID)
}

func TestCalendarFeed(t *testing.T) {
	e := newTestEnv()
	host := e.createUser(t, "Amina", "amina@example.com")
	e.createEvent(t, host.ID, "Family Iftar", false)

	rr := e.do(t, http.MethodGet, "/calendar.ics", host.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rr.Body.String(), "SUMMARY:Family Iftar")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	e := newTestEnv()

	for _, path := range []string{"/events/mine", "/events/catalog", "/invitations", "/calendar.ics"} {
		rr := e.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}
