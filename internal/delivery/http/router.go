package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"iftargather/internal/delivery/http/controllers"
	"iftargather/internal/delivery/http/middleware"
	"iftargather/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	invitationController *controllers.InvitationController,
	calendarController *controllers.CalendarController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /auth/me", requireAuth(authController.Me))

	// Events
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/mine", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/catalog", requireAuth(eventController.ListCatalog))
	mux.HandleFunc("GET /events/attending", requireAuth(eventController.ListAttending))
	mux.HandleFunc("GET /events/{eventID}", requireAuth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))
	mux.HandleFunc("GET /events/{eventID}/attendees", requireAuth(eventController.ListAttendees))
	mux.HandleFunc("POST /events/{eventID}/rsvp", requireAuth(eventController.RSVP))
	mux.HandleFunc("GET /events/{eventID}/attendance", requireAuth(eventController.GetAttendanceStatus))

	// Share links resolve without a session.
	mux.HandleFunc("GET /share/{shareCode}", optionalAuth(eventController.GetByShareCode))

	// Invitations
	mux.HandleFunc("POST /events/{eventID}/invitations", requireAuth(invitationController.CreateInvitation))
	mux.HandleFunc("GET /invitations", requireAuth(invitationController.ListInvitations))
	mux.HandleFunc("POST /invitations/{invitationID}/respond", requireAuth(invitationController.RespondToInvitation))

	// Calendar
	mux.HandleFunc("GET /calendar.ics", requireAuth(calendarController.GetCalendar))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
