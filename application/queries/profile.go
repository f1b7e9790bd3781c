package queries

import pkgerrors "astroguia-backend/pkg/errors"

// GetProfileQuery gets the caller's profile
type GetProfileQuery struct {
	UserID string
}

// Validate validates the GetProfileQuery
func (q GetProfileQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// GetOnboardingStatusQuery reports whether the caller finished onboarding
type GetOnboardingStatusQuery struct {
	UserID string
}

// Validate validates the GetOnboardingStatusQuery
func (q GetOnboardingStatusQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	return nil
}

// OnboardingStatus is the result of GetOnboardingStatusQuery
type OnboardingStatus struct {
	Completed    bool   `json:"completed"`
	NatalChartID string `json:"natalChartId,omitempty"`
}

// ListFavoritesQuery lists the caller's live favorites of one type
type ListFavoritesQuery struct {
	UserID   string
	ItemType string
}

// Validate validates the ListFavoritesQuery
func (q ListFavoritesQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	if q.ItemType == "" {
		return pkgerrors.NewValidationError("item type is required")
	}
	return nil
}
