package events

import (
	"time"

	"astroguia-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

const (
	TypeChartGenerated      = "chart.generated"
	TypeChartSyncDeferred   = "chart.sync_deferred"
	TypeChartSynced         = "chart.synced"
	TypeBirthDetailsUpdated = "user.birth_details_updated"
	TypeOnboardingCompleted = "user.onboarding_completed"
	TypeFavoriteSaved       = "favorite.saved"
	TypeFavoriteRemoved     = "favorite.removed"
)

// Chart Events

// ChartGenerated is raised when the pipeline produces a new chart
type ChartGenerated struct {
	BaseEvent
	ChartID valueobjects.ChartID `json:"chart_id"`
	OwnerID string               `json:"owner_id"`
	SunSign string               `json:"sun_sign"`
	Synced  bool                 `json:"synced"`
}

// NewChartGenerated creates a ChartGenerated event
func NewChartGenerated(chartID valueobjects.ChartID, ownerID, sunSign string, synced bool, timestamp time.Time) ChartGenerated {
	return ChartGenerated{
		BaseEvent: BaseEvent{
			AggregateID: chartID.String(),
			EventType:   TypeChartGenerated,
			Timestamp:   timestamp,
			Version:     1,
		},
		ChartID: chartID,
		OwnerID: ownerID,
		SunSign: sunSign,
		Synced:  synced,
	}
}

// ChartSyncDeferred is raised when a chart could not be written remotely
// and was kept in the local store instead
type ChartSyncDeferred struct {
	BaseEvent
	ChartID valueobjects.ChartID `json:"chart_id"`
	OwnerID string               `json:"owner_id"`
	Reason  string               `json:"reason"`
}

// NewChartSyncDeferred creates a ChartSyncDeferred event
func NewChartSyncDeferred(chartID valueobjects.ChartID, ownerID, reason string, timestamp time.Time) ChartSyncDeferred {
	return ChartSyncDeferred{
		BaseEvent: BaseEvent{
			AggregateID: chartID.String(),
			EventType:   TypeChartSyncDeferred,
			Timestamp:   timestamp,
			Version:     1,
		},
		ChartID: chartID,
		OwnerID: ownerID,
		Reason:  reason,
	}
}

// ChartSynced is raised when a deferred chart reaches the remote store
type ChartSynced struct {
	BaseEvent
	ChartID  valueobjects.ChartID `json:"chart_id"`
	OwnerID  string               `json:"owner_id"`
	Attempts int                  `json:"attempts"`
}

// NewChartSynced creates a ChartSynced event
func NewChartSynced(chartID valueobjects.ChartID, ownerID string, attempts int, timestamp time.Time) ChartSynced {
	return ChartSynced{
		BaseEvent: BaseEvent{
			AggregateID: chartID.String(),
			EventType:   TypeChartSynced,
			Timestamp:   timestamp,
			Version:     1,
		},
		ChartID:  chartID,
		OwnerID:  ownerID,
		Attempts: attempts,
	}
}

// User Events

// BirthDetailsUpdated is raised when a user stores new birth details
type BirthDetailsUpdated struct {
	BaseEvent
	UserID  string `json:"user_id"`
	SunSign string `json:"sun_sign"`
}

// NewBirthDetailsUpdated creates a BirthDetailsUpdated event
func NewBirthDetailsUpdated(userID, sunSign string, timestamp time.Time) BirthDetailsUpdated {
	return BirthDetailsUpdated{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   TypeBirthDetailsUpdated,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:  userID,
		SunSign: sunSign,
	}
}

// OnboardingCompleted is raised once a user finishes onboarding
type OnboardingCompleted struct {
	BaseEvent
	UserID     string `json:"user_id"`
	ChartID    string `json:"chart_id"`
	SunSign    string `json:"sun_sign"`
	MoonSign   string `json:"moon_sign"`
	RisingSign string `json:"rising_sign"`
}

// NewOnboardingCompleted creates an OnboardingCompleted event
func NewOnboardingCompleted(userID, chartID, sun, moon, rising string, timestamp time.Time) OnboardingCompleted {
	return OnboardingCompleted{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   TypeOnboardingCompleted,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:     userID,
		ChartID:    chartID,
		SunSign:    sun,
		MoonSign:   moon,
		RisingSign: rising,
	}
}

// Favorite Events

// FavoriteChanged is raised when a favorite is saved or removed
type FavoriteChanged struct {
	BaseEvent
	UserID   string `json:"user_id"`
	ItemType string `json:"item_type"`
	ItemID   string `json:"item_id"`
}

// NewFavoriteChanged creates a FavoriteChanged event of the given type
func NewFavoriteChanged(eventType, userID, itemType, itemID string, timestamp time.Time) FavoriteChanged {
	return FavoriteChanged{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   eventType,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:   userID,
		ItemType: itemType,
		ItemID:   itemID,
	}
}
