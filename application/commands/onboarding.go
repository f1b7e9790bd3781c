package commands

import (
	"context"

	"astroguia-backend/application/ports"
	"astroguia-backend/application/sagas"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/entities"
	"astroguia-backend/domain/core/valueobjects"
	"astroguia-backend/domain/events"
	pkgerrors "astroguia-backend/pkg/errors"

	"go.uber.org/zap"
)

// CompleteOnboardingCommand saves a new user's birth data and preferences
// and generates their first chart.
type CompleteOnboardingCommand struct {
	UserID      string
	Email       string
	Birth       valueobjects.BirthDetailsInput
	Preferences *entities.Preferences
}

// Validate validates the command
func (c CompleteOnboardingCommand) Validate() error {
	if c.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// OnboardingResult is the profile and chart produced by onboarding
type OnboardingResult struct {
	User  *entities.User
	Chart *entities.ChartRecord
}

type onboardingState struct {
	cmd      CompleteOnboardingCommand
	birth    valueobjects.BirthDetails
	previous *entities.User
	created  bool
	user     *entities.User
	chart    *entities.ChartRecord
}

// CompleteOnboardingHandler runs the onboarding saga
type CompleteOnboardingHandler struct {
	users     ports.UserRepository
	charts    *GenerateChartHandler
	publisher ports.EventPublisher
	cfg       *config.DomainConfig
	now       ports.Clock
	logger    *zap.Logger
}

// NewCompleteOnboardingHandler creates a new handler instance
func NewCompleteOnboardingHandler(
	users ports.UserRepository,
	charts *GenerateChartHandler,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	now ports.Clock,
	logger *zap.Logger,
) *CompleteOnboardingHandler {
	return &CompleteOnboardingHandler{
		users:     users,
		charts:    charts,
		publisher: publisher,
		cfg:       cfg,
		now:       now,
		logger:    logger,
	}
}

// Handle saves the profile, generates the first chart and marks the
// user onboarded. Any later failure restores the previous profile, or
// removes it when onboarding created it. A chart that was already
// generated is kept: it is a valid chart owned by the user and stays
// listed under their charts.
func (h *CompleteOnboardingHandler) Handle(ctx context.Context, cmd CompleteOnboardingCommand) (*OnboardingResult, error) {
	birth, err := valueobjects.NewBirthDetails(cmd.Birth)
	if err != nil {
		return nil, err
	}
	state := &onboardingState{cmd: cmd, birth: birth}

	saga := sagas.New[onboardingState]("onboarding", h.logger).
		CompensableStep("save-profile", h.saveProfile, h.restoreProfile).
		Step("generate-chart", h.generateChart).
		Step("complete-onboarding", h.completeOnboarding)

	if err := saga.Execute(ctx, state); err != nil {
		return nil, err
	}

	chart := state.chart
	evt := events.NewOnboardingCompleted(
		state.user.ID,
		chart.ID().String(),
		string(chart.SunSign()),
		string(chart.MoonSign()),
		string(chart.RisingSign()),
		h.now(),
	)
	if err := h.publisher.Publish(ctx, evt); err != nil {
		h.logger.Error("Failed to publish onboarding event", zap.String("user_id", state.user.ID), zap.Error(err))
	}

	return &OnboardingResult{User: state.user, Chart: chart}, nil
}

func (h *CompleteOnboardingHandler) saveProfile(ctx context.Context, s *onboardingState) error {
	user, err := h.users.GetByID(ctx, s.cmd.UserID)
	switch {
	case err == nil:
		s.previous = user.Clone()
	case pkgerrors.IsNotFound(err):
		if user, err = entities.NewUser(s.cmd.UserID, s.cmd.Email, h.now()); err != nil {
			return err
		}
		s.created = true
	default:
		return err
	}

	if _, err := user.SetBirthDetails(s.birth, h.now()); err != nil {
		return err
	}
	if s.cmd.Preferences != nil {
		if err := user.SetPreferences(*s.cmd.Preferences, h.cfg, h.now()); err != nil {
			return err
		}
	}
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}
	s.user = user
	return nil
}

func (h *CompleteOnboardingHandler) restoreProfile(ctx context.Context, s *onboardingState) error {
	if s.created {
		return h.users.Delete(ctx, s.cmd.UserID)
	}
	if s.previous == nil {
		return nil
	}
	return h.users.Save(ctx, s.previous)
}

func (h *CompleteOnboardingHandler) generateChart(ctx context.Context, s *onboardingState) error {
	chart, err := h.charts.Handle(ctx, GenerateChartCommand{OwnerID: s.user.ID, Birth: s.cmd.Birth})
	if err != nil {
		return err
	}
	s.chart = chart
	return nil
}

func (h *CompleteOnboardingHandler) completeOnboarding(ctx context.Context, s *onboardingState) error {
	s.user.CompleteOnboarding(s.chart, h.now())
	return h.users.Save(ctx, s.user)
}
