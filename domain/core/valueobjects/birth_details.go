package valueobjects

import (
	"strings"
	"time"
	"unicode/utf8"

	pkgerrors "astroguia-backend/pkg/errors"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04"
	DefaultTimezone = "UTC"
	maxPlaceLength  = 200
)

// BirthDetails is the normalised pipeline input. Construct it with
// NewBirthDetails; the zero value is not a valid birth record.
type BirthDetails struct {
	Date      string  `json:"date" dynamodbav:"date"`
	Time      string  `json:"time,omitempty" dynamodbav:"time,omitempty"`
	Place     string  `json:"place" dynamodbav:"place"`
	Latitude  float64 `json:"latitude" dynamodbav:"latitude"`
	Longitude float64 `json:"longitude" dynamodbav:"longitude"`
	Timezone  string  `json:"timezone" dynamodbav:"timezone"`
}

// BirthDetailsInput carries the optional fields as supplied by a client
type BirthDetailsInput struct {
	Date      string
	Time      string
	Place     string
	Latitude  *float64
	Longitude *float64
	Timezone  string
}

// NewBirthDetails validates input and fills defaults: coordinates become 0
// and the timezone "UTC" when absent.
func NewBirthDetails(in BirthDetailsInput) (BirthDetails, error) {
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return BirthDetails{}, pkgerrors.NewValidationError("birth date is required")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return BirthDetails{}, pkgerrors.NewValidationErrorf("birth date %q must be a valid YYYY-MM-DD date", date).WithCause(err)
	}

	clock := strings.TrimSpace(in.Time)
	if clock != "" {
		if _, err := time.Parse(TimeLayout, clock); err != nil {
			return BirthDetails{}, pkgerrors.NewValidationErrorf("birth time %q must be HH:MM", clock).WithCause(err)
		}
	}

	place := strings.TrimSpace(in.Place)
	if utf8.RuneCountInString(place) > maxPlaceLength {
		return BirthDetails{}, pkgerrors.NewValidationErrorf("birth place exceeds %d characters", maxPlaceLength)
	}

	bd := BirthDetails{
		Date:     date,
		Time:     clock,
		Place:    place,
		Timezone: strings.TrimSpace(in.Timezone),
	}
	if in.Latitude != nil {
		if *in.Latitude < -90 || *in.Latitude > 90 {
			return BirthDetails{}, pkgerrors.NewValidationError("latitude must be within [-90, 90]")
		}
		bd.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		if *in.Longitude < -180 || *in.Longitude > 180 {
			return BirthDetails{}, pkgerrors.NewValidationError("longitude must be within [-180, 180]")
		}
		bd.Longitude = *in.Longitude
	}
	if bd.Timezone == "" {
		bd.Timezone = DefaultTimezone
	}
	return bd, nil
}

// BirthDate returns the parsed calendar date at midnight UTC
func (b BirthDetails) BirthDate() time.Time {
	t, _ := time.Parse(DateLayout, b.Date)
	return t
}

// MonthDay returns the calendar month and day of birth
func (b BirthDetails) MonthDay() (int, int) {
	t := b.BirthDate()
	return int(t.Month()), t.Day()
}

// IsZero reports whether the value was never populated
func (b BirthDetails) IsZero() bool {
	return b.Date == ""
}
