package queries

import (
	"astroguia-backend/domain/core/entities"
	pkgerrors "astroguia-backend/pkg/errors"
)

// Sourced is a read result tagged with the tier that served it
type Sourced[T any] struct {
	Data   T
	Source string
}

// GetChartQuery represents a query to get a single chart
type GetChartQuery struct {
	UserID  string
	ChartID string
}

// Validate validates the GetChartQuery
func (q GetChartQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	if q.ChartID == "" {
		return pkgerrors.NewValidationError("chart ID is required")
	}
	return nil
}

// GetChartResult is nil when no chart is visible to the caller
type GetChartResult = Sourced[*entities.ChartRecord]

// ListUserChartsQuery lists the caller's charts, newest first
type ListUserChartsQuery struct {
	UserID   string
	Page     int
	PageSize int
}

// Validate validates the ListUserChartsQuery
func (q ListUserChartsQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user ID is required")
	}
	if q.Page < 1 || q.PageSize < 1 {
		return pkgerrors.NewValidationError("page and page size must be positive")
	}
	return nil
}

// ListUserChartsResult is one page of charts
type ListUserChartsResult struct {
	Charts   []*entities.ChartRecord
	Total    int
	Page     int
	PageSize int
	// Partial is set when the remote store could not be listed and only
	// locally held charts are included.
	Partial bool
}
