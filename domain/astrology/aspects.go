package astrology

// AspectKind names the angular relationship between two bodies.
type AspectKind string

const (
	Conjunction    AspectKind = "conjunction"
	Opposition     AspectKind = "opposition"
	Trine          AspectKind = "trine"
	Square         AspectKind = "square"
	Sextile        AspectKind = "sextile"
	Quincunx       AspectKind = "quincunx"
	Semisextile    AspectKind = "semisextile"
	Semisquare     AspectKind = "semisquare"
	Sesquiquadrate AspectKind = "sesquiquadrate"
)

// MaxOrb is the exclusive upper bound on an aspect's deviation.
const MaxOrb = 6.0

type aspectInfo struct {
	symbol string
	phrase string
	major  bool
	hard   bool
}

var aspectOrder = [...]AspectKind{
	Conjunction, Opposition, Trine, Square, Sextile,
	Quincunx, Semisextile, Semisquare, Sesquiquadrate,
}

var aspectTable = map[AspectKind]aspectInfo{
	Conjunction:    {"☌", "merges and intensifies these energies, creating a powerful focus", true, true},
	Opposition:     {"☍", "creates tension and awareness between these areas, requiring balance", true, true},
	Trine:          {"△", "allows these energies to flow harmoniously, creating natural talents", true, false},
	Square:         {"□", "creates dynamic tension and challenges that motivate growth", true, true},
	Sextile:        {"⚹", "offers opportunities for these energies to cooperate with some effort", true, false},
	Quincunx:       {"⚻", "requires adjustment between these seemingly unrelated areas", false, false},
	Semisextile:    {"⚺", "creates a subtle connection requiring awareness to utilize", false, false},
	Semisquare:     {"∠", "produces mild irritation that can motivate small adjustments", false, false},
	Sesquiquadrate: {"⚼", "creates persistent tension that demands creative resolution", false, false},
}

// AspectKinds returns all nine kinds.
func AspectKinds() []AspectKind {
	out := make([]AspectKind, len(aspectOrder))
	copy(out, aspectOrder[:])
	return out
}

// MajorAspectKinds returns the five kinds the generator draws from.
func MajorAspectKinds() []AspectKind {
	var out []AspectKind
	for _, k := range aspectOrder {
		if aspectTable[k].major {
			out = append(out, k)
		}
	}
	return out
}

func (k AspectKind) Valid() bool {
	_, ok := aspectTable[k]
	return ok
}

func (k AspectKind) Symbol() string { return aspectTable[k].symbol }
func (k AspectKind) Phrase() string { return aspectTable[k].phrase }

// Significant reports whether the kind counts towards the summary's
// luminary clause (conjunction, opposition, square).
func (k AspectKind) Significant() bool { return aspectTable[k].hard }

func (k AspectKind) String() string { return string(k) }
