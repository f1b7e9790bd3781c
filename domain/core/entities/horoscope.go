package entities

import (
	"time"

	"astroguia-backend/domain/astrology"
)

// Rating scores a day from 1 to 5 per life area
type Rating struct {
	Love     int `json:"love" dynamodbav:"love"`
	Career   int `json:"career" dynamodbav:"career"`
	Wellness int `json:"wellness" dynamodbav:"wellness"`
	Overall  int `json:"overall" dynamodbav:"overall"`
}

// DailyHoroscope is a sign's reading for one calendar day
type DailyHoroscope struct {
	Sign          astrology.Sign `json:"sign" dynamodbav:"sign"`
	Date          string         `json:"date" dynamodbav:"date"`
	Description   string         `json:"description" dynamodbav:"description"`
	Mood          string         `json:"mood" dynamodbav:"mood"`
	Color         string         `json:"color" dynamodbav:"color"`
	LuckyNumber   int            `json:"luckyNumber" dynamodbav:"lucky_number"`
	Compatibility astrology.Sign `json:"compatibility" dynamodbav:"compatibility"`
	Rating        Rating         `json:"rating" dynamodbav:"rating"`
}

// CosmicEventType classifies a sky event
type CosmicEventType string

const (
	EventRetrograde CosmicEventType = "retrograde"
	EventFullMoon   CosmicEventType = "fullMoon"
	EventNewMoon    CosmicEventType = "newMoon"
	EventEclipse    CosmicEventType = "eclipse"
	EventTransit    CosmicEventType = "transit"
	EventOther      CosmicEventType = "other"
)

// CosmicEvent is a dated sky event affecting some signs
type CosmicEvent struct {
	ID            string           `json:"id" dynamodbav:"event_id"`
	Title         string           `json:"title" dynamodbav:"title"`
	Description   string           `json:"description" dynamodbav:"description"`
	StartDate     time.Time        `json:"startDate" dynamodbav:"start_date"`
	EndDate       time.Time        `json:"endDate" dynamodbav:"end_date"`
	Type          CosmicEventType  `json:"type" dynamodbav:"type"`
	AffectedSigns []astrology.Sign `json:"affectedSigns" dynamodbav:"affected_signs"`
	Impact        string           `json:"impact" dynamodbav:"impact"`
	ImageURL      string           `json:"imageUrl,omitempty" dynamodbav:"image_url,omitempty"`
}

// LunarPhase is one of the eight named moon phases
type LunarPhase string

const (
	PhaseNew            LunarPhase = "new"
	PhaseWaxingCrescent LunarPhase = "waxingCrescent"
	PhaseFirstQuarter   LunarPhase = "firstQuarter"
	PhaseWaxingGibbous  LunarPhase = "waxingGibbous"
	PhaseFull           LunarPhase = "full"
	PhaseWaningGibbous  LunarPhase = "waningGibbous"
	PhaseLastQuarter    LunarPhase = "lastQuarter"
	PhaseWaningCrescent LunarPhase = "waningCrescent"
)

// LunarPhases lists the phases in cycle order
var LunarPhases = []LunarPhase{
	PhaseNew, PhaseWaxingCrescent, PhaseFirstQuarter, PhaseWaxingGibbous,
	PhaseFull, PhaseWaningGibbous, PhaseLastQuarter, PhaseWaningCrescent,
}

// MoonPhase is the lunar phase for one date
type MoonPhase struct {
	Date         string     `json:"date" dynamodbav:"date"`
	Phase        LunarPhase `json:"phase" dynamodbav:"phase"`
	Illumination int        `json:"illumination" dynamodbav:"illumination"`
	Description  string     `json:"description" dynamodbav:"description"`
}

// CompatibilityDetails breaks a pairing's score down by area
type CompatibilityDetails struct {
	Love          int `json:"love" dynamodbav:"love"`
	Friendship    int `json:"friendship" dynamodbav:"friendship"`
	Communication int `json:"communication" dynamodbav:"communication"`
	Trust         int `json:"trust" dynamodbav:"trust"`
}

// Compatibility scores a pair of signs from 0 to 100
type Compatibility struct {
	Sign1       astrology.Sign       `json:"sign1" dynamodbav:"sign1"`
	Sign2       astrology.Sign       `json:"sign2" dynamodbav:"sign2"`
	Overall     int                  `json:"overall" dynamodbav:"overall"`
	Details     CompatibilityDetails `json:"details" dynamodbav:"details"`
	Description string               `json:"description" dynamodbav:"description"`
	Advice      string               `json:"advice" dynamodbav:"advice"`
}

// CompatibilityKey orders the pair so both directions share one document
func CompatibilityKey(a, b astrology.Sign) string {
	if a > b {
		a, b = b, a
	}
	return string(a) + "_" + string(b)
}
