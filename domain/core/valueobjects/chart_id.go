package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ChartID is a value object representing a unique chart identifier.
// Every generation gets a fresh one; charts are never updated in place.
type ChartID struct {
	value string
}

// NewChartID creates a new random ChartID
func NewChartID() ChartID {
	return ChartID{value: uuid.New().String()}
}

// ChartIDFromString parses an existing identifier
func ChartIDFromString(id string) (ChartID, error) {
	if id == "" {
		return ChartID{}, errors.New("chart ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return ChartID{}, errors.New("chart ID must be a valid UUID")
	}
	return ChartID{value: id}, nil
}

// String returns the string representation of the ChartID
func (id ChartID) String() string {
	return id.value
}

// Equals checks if two ChartIDs are equal
func (id ChartID) Equals(other ChartID) bool {
	return id.value == other.value
}

// IsZero checks if the ChartID is the zero value
func (id ChartID) IsZero() bool {
	return id.value == ""
}

// MarshalText implements encoding.TextMarshaler
func (id ChartID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ChartID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*id = ChartID{}
		return nil
	}
	parsed, err := ChartIDFromString(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IDSource produces chart identifiers. Tests substitute a fixed sequence.
type IDSource func() ChartID
