package config

import (
	"fmt"
	"time"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Chart generation
	RetrogradeProbability float64
	AspectProbability     float64
	MaxGeneratedOrb       float64
	ChartSchemaVersion    int

	// Profile constraints
	MaxDisplayNameLength int
	MaxInterests         int
	MaxPlaceLength       int
	SupportedLanguages   []string
	SupportedThemes      []string

	// Favorites
	FavoriteItemTypes   []string
	MaxFavoritesPerType int

	// Content
	FeaturedArticleLimit int
	ArticlesPerPage      int

	// Unsynced chart handling
	MaxSyncAttempts int
	SyncInterval    time.Duration
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		RetrogradeProbability: 0.3,
		AspectProbability:     0.4,
		MaxGeneratedOrb:       5.0,
		ChartSchemaVersion:    1,

		MaxDisplayNameLength: 80,
		MaxInterests:         20,
		MaxPlaceLength:       200,
		SupportedLanguages:   []string{"en", "es", "pt"},
		SupportedThemes:      []string{"light", "dark", "system"},

		FavoriteItemTypes:   []string{"article", "horoscope", "chart"},
		MaxFavoritesPerType: 200,

		FeaturedArticleLimit: 5,
		ArticlesPerPage:      20,

		MaxSyncAttempts: 5,
		SyncInterval:    time.Minute,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.SyncInterval = 5 * time.Minute
	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.SyncInterval = 10 * time.Second
	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.RetrogradeProbability < 0 || c.RetrogradeProbability > 1 {
		return fmt.Errorf("retrograde probability must be within [0,1], got %v", c.RetrogradeProbability)
	}
	if c.AspectProbability < 0 || c.AspectProbability > 1 {
		return fmt.Errorf("aspect probability must be within [0,1], got %v", c.AspectProbability)
	}
	if c.MaxGeneratedOrb <= 0 || c.MaxGeneratedOrb > 6 {
		return fmt.Errorf("max generated orb must be within (0,6], got %v", c.MaxGeneratedOrb)
	}
	if c.MaxSyncAttempts < 1 {
		return fmt.Errorf("max sync attempts must be positive")
	}
	return nil
}

// IsSupportedLanguage reports whether lang is one of the supported UI languages
func (c *DomainConfig) IsSupportedLanguage(lang string) bool {
	return contains(c.SupportedLanguages, lang)
}

// IsSupportedTheme reports whether theme is one of the supported UI themes
func (c *DomainConfig) IsSupportedTheme(theme string) bool {
	return contains(c.SupportedThemes, theme)
}

// IsFavoriteItemType reports whether itemType may be saved as a favorite
func (c *DomainConfig) IsFavoriteItemType(itemType string) bool {
	return contains(c.FavoriteItemTypes, itemType)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
