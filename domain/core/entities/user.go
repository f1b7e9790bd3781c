package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"astroguia-backend/domain/astrology"
	"astroguia-backend/domain/config"
	"astroguia-backend/domain/core/valueobjects"
	pkgerrors "astroguia-backend/pkg/errors"
)

// NotificationSettings toggles push notification topics
type NotificationSettings struct {
	DailyHoroscope bool `json:"dailyHoroscope" dynamodbav:"daily_horoscope"`
	CosmicEvents   bool `json:"cosmicEvents" dynamodbav:"cosmic_events"`
}

// Preferences holds a user's app settings and derived signs
type Preferences struct {
	Language      string               `json:"language" dynamodbav:"language"`
	Theme         string               `json:"theme" dynamodbav:"theme"`
	Notifications NotificationSettings `json:"notifications" dynamodbav:"notifications"`
	Interests     []string             `json:"interests" dynamodbav:"interests"`
	ZodiacSign    astrology.Sign       `json:"zodiacSign,omitempty" dynamodbav:"zodiac_sign,omitempty"`
	RisingSign    astrology.Sign       `json:"risingSign,omitempty" dynamodbav:"rising_sign,omitempty"`
	MoonSign      astrology.Sign       `json:"moonSign,omitempty" dynamodbav:"moon_sign,omitempty"`
}

// DefaultPreferences is what a new profile starts with
func DefaultPreferences() Preferences {
	return Preferences{
		Language:      "en",
		Theme:         "system",
		Notifications: NotificationSettings{DailyHoroscope: true, CosmicEvents: true},
		Interests:     []string{},
	}
}

// Validate checks preferences against the configured vocabularies
func (p Preferences) Validate(cfg *config.DomainConfig) error {
	if !cfg.IsSupportedLanguage(p.Language) {
		return pkgerrors.NewValidationErrorf("unsupported language %q", p.Language)
	}
	if !cfg.IsSupportedTheme(p.Theme) {
		return pkgerrors.NewValidationErrorf("unsupported theme %q", p.Theme)
	}
	if len(p.Interests) > cfg.MaxInterests {
		return pkgerrors.NewValidationErrorf("at most %d interests are allowed", cfg.MaxInterests)
	}
	for _, s := range []astrology.Sign{p.ZodiacSign, p.RisingSign, p.MoonSign} {
		if s != "" && !s.Valid() {
			return pkgerrors.NewValidationErrorf("unknown zodiac sign %q", s)
		}
	}
	return nil
}

// User is a profile document keyed by the identity provider's subject
type User struct {
	ID                     string                     `json:"id" dynamodbav:"user_id"`
	Email                  string                     `json:"email" dynamodbav:"email"`
	DisplayName            string                     `json:"displayName,omitempty" dynamodbav:"display_name,omitempty"`
	PhotoURL               string                     `json:"photoURL,omitempty" dynamodbav:"photo_url,omitempty"`
	CreatedAt              time.Time                  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt              time.Time                  `json:"updatedAt" dynamodbav:"updated_at"`
	BirthDetails           *valueobjects.BirthDetails `json:"birthDetails,omitempty" dynamodbav:"birth_details,omitempty"`
	Preferences            *Preferences               `json:"preferences,omitempty" dynamodbav:"preferences,omitempty"`
	HasCompletedOnboarding bool                       `json:"hasCompletedOnboarding" dynamodbav:"has_completed_onboarding"`
	NatalChartID           string                     `json:"natalChartId,omitempty" dynamodbav:"natal_chart_id,omitempty"`
}

// NewUser creates an empty profile for an authenticated subject
func NewUser(id, email string, now time.Time) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidationError("user ID cannot be empty")
	}
	return &User{
		ID:        id,
		Email:     strings.TrimSpace(email),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// UpdateProfile changes the editable identity fields. Nil leaves a field unchanged.
func (u *User) UpdateProfile(displayName, photoURL, email *string, cfg *config.DomainConfig, now time.Time) error {
	if displayName != nil {
		name := strings.TrimSpace(*displayName)
		if utf8.RuneCountInString(name) > cfg.MaxDisplayNameLength {
			return pkgerrors.NewValidationErrorf("display name exceeds %d characters", cfg.MaxDisplayNameLength)
		}
		u.DisplayName = name
	}
	if photoURL != nil {
		u.PhotoURL = strings.TrimSpace(*photoURL)
	}
	if email != nil {
		u.Email = strings.TrimSpace(*email)
	}
	u.UpdatedAt = now.UTC()
	return nil
}

// SetBirthDetails stores birth details and derives the sun sign into
// preferences, creating default preferences if none exist yet.
func (u *User) SetBirthDetails(bd valueobjects.BirthDetails, now time.Time) (astrology.Sign, error) {
	month, day := bd.MonthDay()
	sign, err := astrology.SignForDate(month, day)
	if err != nil {
		return "", err
	}
	u.BirthDetails = &bd
	if u.Preferences == nil {
		p := DefaultPreferences()
		u.Preferences = &p
	}
	u.Preferences.ZodiacSign = sign
	u.UpdatedAt = now.UTC()
	return sign, nil
}

// SetPreferences replaces preferences while keeping derived signs the
// caller did not supply.
func (u *User) SetPreferences(p Preferences, cfg *config.DomainConfig, now time.Time) error {
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if u.Preferences != nil {
		if p.ZodiacSign == "" {
			p.ZodiacSign = u.Preferences.ZodiacSign
		}
		if p.RisingSign == "" {
			p.RisingSign = u.Preferences.RisingSign
		}
		if p.MoonSign == "" {
			p.MoonSign = u.Preferences.MoonSign
		}
	}
	if err := p.Validate(cfg); err != nil {
		return err
	}
	u.Preferences = &p
	u.UpdatedAt = now.UTC()
	return nil
}

// CompleteOnboarding records the first chart's signs and flips the flag
func (u *User) CompleteOnboarding(chart *ChartRecord, now time.Time) {
	if u.Preferences == nil {
		p := DefaultPreferences()
		u.Preferences = &p
	}
	u.Preferences.ZodiacSign = chart.SunSign()
	u.Preferences.MoonSign = chart.MoonSign()
	u.Preferences.RisingSign = chart.RisingSign()
	u.NatalChartID = chart.ID().String()
	u.HasCompletedOnboarding = true
	u.UpdatedAt = now.UTC()
}

// Clone returns a deep copy
func (u *User) Clone() *User {
	cp := *u
	if u.BirthDetails != nil {
		bd := *u.BirthDetails
		cp.BirthDetails = &bd
	}
	if u.Preferences != nil {
		p := *u.Preferences
		p.Interests = append([]string(nil), u.Preferences.Interests...)
		cp.Preferences = &p
	}
	return &cp
}
