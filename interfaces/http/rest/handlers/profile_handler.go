package handlers

import (
	"net/http"

	"astroguia-backend/application/commands"
	"astroguia-backend/application/commands/bus"
	"astroguia-backend/application/queries"
	querybus "astroguia-backend/application/queries/bus"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/pkg/common"
	pkgerrors "astroguia-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileHandler handles the caller's profile, onboarding and favorites
type ProfileHandler struct {
	base
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{base: newBase(commandBus, queryBus, errorHandler, logger)}
}

// UpdateProfileRequest represents the request body for PUT /me
type UpdateProfileRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=100"`
	PhotoURL    *string `json:"photoURL,omitempty" validate:"omitempty,url"`
}

// OnboardingRequest represents the request body for POST /me/onboarding
type OnboardingRequest struct {
	BirthDetailsRequest
	Preferences *entities.Preferences `json:"preferences,omitempty"`
}

// OnboardingResponse is the profile and first chart created by onboarding
type OnboardingResponse struct {
	User  *entities.User          `json:"user"`
	Chart *entities.ChartDocument `json:"chart,omitempty"`
}

// GetProfile handles GET /me
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetProfileQuery{UserID: user.UserID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, result, h.meta(r))
}

// UpdateProfile handles PUT /me
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	email := req.Email
	if email == nil && user.Email != "" {
		email = &user.Email
	}
	h.send(w, r, http.StatusOK, commands.UpdateProfileCommand{
		UserID:      user.UserID,
		Email:       email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
}

// UpdateBirthDetails handles PUT /me/birth-details
func (h *ProfileHandler) UpdateBirthDetails(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req BirthDetailsRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.send(w, r, http.StatusOK, commands.UpdateBirthDetailsCommand{
		UserID: user.UserID,
		Email:  user.Email,
		Birth:  req.input(),
	})
}

// UpdatePreferences handles PUT /me/preferences
func (h *ProfileHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var prefs entities.Preferences
	if !h.decode(w, r, &prefs) {
		return
	}

	h.send(w, r, http.StatusOK, commands.UpdatePreferencesCommand{
		UserID:      user.UserID,
		Email:       user.Email,
		Preferences: prefs,
	})
}

// OnboardingStatus handles GET /me/onboarding
func (h *ProfileHandler) OnboardingStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetOnboardingStatusQuery{UserID: user.UserID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, result, h.meta(r))
}

// CompleteOnboarding handles POST /me/onboarding
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req OnboardingRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.CompleteOnboardingCommand{
		UserID:      user.UserID,
		Email:       user.Email,
		Birth:       req.input(),
		Preferences: req.Preferences,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	onboarded := result.(*commands.OnboardingResult)
	resp := OnboardingResponse{User: onboarded.User}
	meta := h.meta(r)
	if onboarded.Chart != nil {
		doc := onboarded.Chart.ToDocument()
		resp.Chart = &doc
		meta.Synced = &doc.Synced
	}
	common.RespondWithMeta(w, http.StatusCreated, resp, meta)
}

// SaveFavorite handles PUT /me/favorites/{itemType}/{itemID}
func (h *ProfileHandler) SaveFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	h.send(w, r, http.StatusOK, commands.SaveFavoriteCommand{
		UserID:   user.UserID,
		ItemType: chi.URLParam(r, "itemType"),
		ItemID:   chi.URLParam(r, "itemID"),
	})
}

// RemoveFavorite handles DELETE /me/favorites/{itemType}/{itemID}
func (h *ProfileHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	_, err := h.commandBus.Send(r.Context(), commands.RemoveFavoriteCommand{
		UserID:   user.UserID,
		ItemType: chi.URLParam(r, "itemType"),
		ItemID:   chi.URLParam(r, "itemID"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

// ListFavorites handles GET /me/favorites/{itemType}
func (h *ProfileHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListFavoritesQuery{
		UserID:   user.UserID,
		ItemType: chi.URLParam(r, "itemType"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, result, h.meta(r))
}

func (h *ProfileHandler) send(w http.ResponseWriter, r *http.Request, status int, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, status, result, h.meta(r))
}
