package handlers

import (
	"context"

	"astroguia-backend/application/ports"
	"astroguia-backend/application/queries"
	"astroguia-backend/domain/core/entities"
	pkgerrors "astroguia-backend/pkg/errors"
)

// ProfileQueryHandler serves profile and favorites reads
type ProfileQueryHandler struct {
	users     ports.UserRepository
	favorites ports.FavoriteRepository
}

// NewProfileQueryHandler creates a new profile query handler
func NewProfileQueryHandler(users ports.UserRepository, favorites ports.FavoriteRepository) *ProfileQueryHandler {
	return &ProfileQueryHandler{users: users, favorites: favorites}
}

// HandleGetProfile returns the caller's profile or a NOT_FOUND error
func (h *ProfileQueryHandler) HandleGetProfile(ctx context.Context, query queries.GetProfileQuery) (*entities.User, error) {
	return h.users.GetByID(ctx, query.UserID)
}

// HandleOnboardingStatus reports onboarding completion. A missing
// profile has not completed onboarding.
func (h *ProfileQueryHandler) HandleOnboardingStatus(ctx context.Context, query queries.GetOnboardingStatusQuery) (*queries.OnboardingStatus, error) {
	user, err := h.users.GetByID(ctx, query.UserID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return &queries.OnboardingStatus{}, nil
		}
		return nil, err
	}
	return &queries.OnboardingStatus{
		Completed:    user.HasCompletedOnboarding,
		NatalChartID: user.NatalChartID,
	}, nil
}

// HandleListFavorites returns live favorites of one type, newest first
func (h *ProfileQueryHandler) HandleListFavorites(ctx context.Context, query queries.ListFavoritesQuery) ([]*entities.Favorite, error) {
	favorites, err := h.favorites.ListByType(ctx, query.UserID, query.ItemType)
	if err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []*entities.Favorite{}
	}
	return favorites, nil
}
