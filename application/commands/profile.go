package commands

import (
	"context"
	"time"

	"astroguia-backend/application/ports"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/events"
	pkgerrors "astroguia-backend/pkg/errors"
	"astroguia-backend/pkg/utils"

	"go.uber.org/zap"
)

// UpdateProfileCommand upserts the editable identity fields of a profile
type UpdateProfileCommand struct {
	UserID      string  `validate:"required"`
	Email       *string `validate:"omitempty,email"`
	DisplayName *string
	PhotoURL    *string `validate:"omitempty,url"`
}

// Validate validates the command
func (c UpdateProfileCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// UpdateBirthDetailsCommand stores birth details and derives the sun sign
type UpdateBirthDetailsCommand struct {
	UserID string
	Email  string
	Birth  valueobjects.BirthDetailsInput
}

// Validate validates the command
func (c UpdateBirthDetailsCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// UpdatePreferencesCommand replaces a user's preferences
type UpdatePreferencesCommand struct {
	UserID      string
	Email       string
	Preferences entities.Preferences
}

// Validate validates the command
func (c UpdatePreferencesCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// ProfileHandler handles the profile write commands
type ProfileHandler struct {
	users     ports.UserRepository
	publisher ports.EventPublisher
	cfg       *config.DomainConfig
	now       ports.Clock
	logger    *zap.Logger
}

// NewProfileHandler creates a new handler instance
func NewProfileHandler(
	users ports.UserRepository,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	now ports.Clock,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		users:     users,
		publisher: publisher,
		cfg:       cfg,
		now:       now,
		logger:    logger,
	}
}

// HandleUpdateProfile upserts identity fields
func (h *ProfileHandler) HandleUpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*entities.User, error) {
	email := ""
	if cmd.Email != nil {
		email = *cmd.Email
	}
	user, err := loadOrCreateUser(ctx, h.users, cmd.UserID, email, h.now())
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(cmd.DisplayName, cmd.PhotoURL, cmd.Email, h.cfg, h.now()); err != nil {
		return nil, err
	}
	if err := h.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// HandleUpdateBirthDetails stores birth details and the derived sun sign
func (h *ProfileHandler) HandleUpdateBirthDetails(ctx context.Context, cmd UpdateBirthDetailsCommand) (*entities.User, error) {
	birth, err := valueobjects.NewBirthDetails(cmd.Birth)
	if err != nil {
		return nil, err
	}
	user, err := loadOrCreateUser(ctx, h.users, cmd.UserID, cmd.Email, h.now())
	if err != nil {
		return nil, err
	}
	sign, err := user.SetBirthDetails(birth, h.now())
	if err != nil {
		return nil, err
	}
	if err := h.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := h.publisher.Publish(ctx, events.NewBirthDetailsUpdated(user.ID, string(sign), h.now())); err != nil {
		h.logger.Error("Failed to publish birth details event", zap.String("user_id", user.ID), zap.Error(err))
	}
	return user, nil
}

// HandleUpdatePreferences replaces preferences
func (h *ProfileHandler) HandleUpdatePreferences(ctx context.Context, cmd UpdatePreferencesCommand) (*entities.User, error) {
	user, err := loadOrCreateUser(ctx, h.users, cmd.UserID, cmd.Email, h.now())
	if err != nil {
		return nil, err
	}
	if err := user.SetPreferences(cmd.Preferences, h.cfg, h.now()); err != nil {
		return nil, err
	}
	if err := h.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// loadOrCreateUser returns the stored profile, or a fresh one when the
// user has none yet.
func loadOrCreateUser(ctx context.Context, users ports.UserRepository, userID, email string, now time.Time) (*entities.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}
	return entities.NewUser(userID, email, now)
}
