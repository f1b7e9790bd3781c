package astrology

import "fmt"

// Body is a point tracked by a chart: the two luminaries, the planets,
// and two reference points (Chiron and the North Node).
type Body string

const (
	Sun       Body = "sun"
	Moon      Body = "moon"
	Mercury   Body = "mercury"
	Venus     Body = "venus"
	Mars      Body = "mars"
	Jupiter   Body = "jupiter"
	Saturn    Body = "saturn"
	Uranus    Body = "uranus"
	Neptune   Body = "neptune"
	Pluto     Body = "pluto"
	Chiron    Body = "chiron"
	NorthNode Body = "northNode"
)

// PrimaryLuminary is the body whose sign comes from the birth date.
const PrimaryLuminary = Sun

// SecondaryLuminary is never flagged retrograde.
const SecondaryLuminary = Moon

type bodyInfo struct {
	symbol      string
	label       string
	domain      string
	description string // %s is replaced with the sign name
}

var bodyOrder = [...]Body{
	Sun, Moon, Mercury, Venus, Mars, Jupiter,
	Saturn, Uranus, Neptune, Pluto, Chiron, NorthNode,
}

var bodyTable = map[Body]bodyInfo{
	Sun:       {"☉", "Sun", "core identity and purpose", "Your Sun in %s represents your core identity and ego. It reflects how you express your individuality and vitality."},
	Moon:      {"☽", "Moon", "emotional nature", "Your Moon in %s represents your emotional nature, subconscious, and intuitive self."},
	Mercury:   {"☿", "Mercury", "communication style", "Mercury in %s shapes how you think, communicate, and process information."},
	Venus:     {"♀", "Venus", "approach to love and values", "Venus in %s influences your approach to love, beauty, and what you value."},
	Mars:      {"♂", "Mars", "drive and assertion", "Mars in %s determines how you assert yourself, take action, and express desires."},
	Jupiter:   {"♃", "Jupiter", "growth and expansion", "Jupiter in %s affects your philosophy, growth opportunities, and how you experience abundance."},
	Saturn:    {"♄", "Saturn", "discipline and responsibility", "Saturn in %s relates to your sense of responsibility, limitations, and life lessons."},
	Uranus:    {"♅", "Uranus", "innovation and individuality", "Uranus in %s influences how you express individuality and where you seek freedom."},
	Neptune:   {"♆", "Neptune", "spirituality and inspiration", "Neptune in %s shapes your spirituality, dreams, and where boundaries may be blurred."},
	Pluto:     {"♇", "Pluto", "transformation and power", "Pluto in %s represents areas of transformation, power dynamics, and rebirth."},
	Chiron:    {"⚷", "Chiron", "wounds and healing process", "Chiron in %s points to your deepest wounds and greatest healing potential."},
	NorthNode: {"☊", "North Node", "life path and purpose", "Your North Node in %s indicates your soul's growth direction in this lifetime."},
}

// Bodies returns the tracked bodies in chart order.
func Bodies() []Body {
	out := make([]Body, len(bodyOrder))
	copy(out, bodyOrder[:])
	return out
}

// BodyCount is the number of tracked bodies.
func BodyCount() int { return len(bodyOrder) }

func (b Body) Valid() bool {
	_, ok := bodyTable[b]
	return ok
}

func (b Body) Symbol() string { return bodyTable[b].symbol }

// Label is the display name, e.g. "North Node".
func (b Body) Label() string {
	if info, ok := bodyTable[b]; ok {
		return info.label
	}
	return string(b)
}

// Domain is the life area the body governs, used in aspect sentences.
func (b Body) Domain() string {
	if info, ok := bodyTable[b]; ok {
		return info.domain
	}
	return string(b)
}

// Describe renders the body's placement sentence for sign s.
func (b Body) Describe(s Sign) string {
	info, ok := bodyTable[b]
	if !ok {
		return ""
	}
	return fmt.Sprintf(info.description, s)
}

// IsLuminary reports whether b is the Sun or the Moon.
func (b Body) IsLuminary() bool {
	return b == PrimaryLuminary || b == SecondaryLuminary
}

func (b Body) String() string { return string(b) }
