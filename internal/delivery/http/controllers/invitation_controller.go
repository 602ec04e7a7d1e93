package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"iftargather/internal/delivery/http/helpers"
	"iftargather/internal/delivery/http/middleware"
	"iftargather/internal/domain"
	"iftargather/internal/services"
)

// CreateInvitationRequest is the request body for POST /events/{eventID}/invitations.
type CreateInvitationRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (c CreateInvitationRequest) Validate() []string {
	email := strings.TrimSpace(strings.ToLower(c.Email))
	if email == "" {
		return []string{"email is required"}
	}
	if !emailRegexp.MatchString(email) {
		return []string{"email must be a valid email address"}
	}
	return nil
}

// RespondToInvitationRequest is the request body for POST /invitations/{invitationID}/respond.
// EventID and EventHostID are caller-supplied; the invitation carries the
// event ID too, but the client already holds both and the write path trusts
// them the way the rest of the attendance flow does.
type RespondToInvitationRequest struct {
	Status      string `json:"status"`
	EventID     string `json:"event_id"`
	EventHostID string `json:"event_host_id"`
}

// Validate implements Validator.
func (r RespondToInvitationRequest) Validate() []string {
	var errs []string
	status := domain.InvitationStatus(r.Status)
	if !status.Valid() || status == domain.InvitationPending {
		errs = append(errs, "status must be \"confirmed\" or \"declined\"")
	}
	if strings.TrimSpace(r.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	return errs
}

// CreateInvitationSuccessResponse is the success response envelope for POST /events/{eventID}/invitations (201).
type CreateInvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListInvitationsSuccessResponse is the success response envelope for GET /invitations (200).
type ListInvitationsSuccessResponse struct {
	Data  []*domain.InvitationWithEvent `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
	Events  domain.EventService
	Users   domain.AuthService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService, events domain.EventService, users domain.AuthService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
		Events:  events,
		Users:   users,
	}
}

// CreateInvitation godoc
// @Summary Invite a guest by email
// @Description Creates an invitation for the given email and sends the invitation email with the share link. The invitation is created whether or not a registered account matches the email. Only the host can invite.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body CreateInvitationRequest true "Invitee email"
// @Success 201 {object} controllers.CreateInvitationSuccessResponse "data contains the created invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not host)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations [post]
func (c *InvitationController) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Events.GetEventByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if !services.IsHost(event, userID) {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		return
	}
	inv, err := c.Service.CreateInvitation(r.Context(), eventID, userID, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// ListInvitations godoc
// @Summary List the caller's invitations
// @Description Returns the invitations addressed to the authenticated user, each with its parent event embedded when it still resolves. Invitations whose event is gone are kept without the embed.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListInvitationsSuccessResponse "data is an array of invitations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invitations, err := c.Service.ListUserInvitations(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if invitations == nil {
		invitations = []*domain.InvitationWithEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invitations)
}

// RespondToInvitation godoc
// @Summary Respond to an invitation
// @Description Sets the invitation status to confirmed or declined. Confirming also writes a confirmed attendee record for the event; the two writes are not transactional, so a failed attendee write leaves the invitation confirmed.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param body body RespondToInvitationRequest true "Response"
// @Success 200 {object} helpers.APIResponse "data contains the updated invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/respond [post]
func (c *InvitationController) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("invitationID")
	if invitationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing invitationID")
		return
	}
	var req RespondToInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	userName := ""
	if user, err := c.Users.GetByID(r.Context(), userID); err == nil {
		userName = user.Name
	}
	inv, err := c.Service.RespondToInvitation(r.Context(), invitationID, domain.InvitationStatus(req.Status), userID, userName, req.EventID, req.EventHostID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}
