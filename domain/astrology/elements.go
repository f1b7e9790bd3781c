package astrology

// Element is one of the four elemental buckets.
type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

var elementOrder = [...]Element{Fire, Earth, Air, Water}

var elementTraits = map[Element]string{
	Fire:  "passionate, action-oriented, and dynamic",
	Earth: "practical, grounded, and dependable",
	Air:   "intellectual, communicative, and socially oriented",
	Water: "emotional, intuitive, and empathetic",
}

// Elements returns the buckets in their fixed reporting order.
func Elements() []Element {
	out := make([]Element, len(elementOrder))
	copy(out, elementOrder[:])
	return out
}

// SignsOf returns the three signs belonging to e, in cycle order.
func SignsOf(e Element) []Sign {
	var out []Sign
	for _, s := range signCycle {
		if signTable[s].element == e {
			out = append(out, s)
		}
	}
	return out
}

// Traits is the adjective phrase used by the summary text.
func (e Element) Traits() string {
	if t, ok := elementTraits[e]; ok {
		return t
	}
	return "balanced"
}

func (e Element) String() string { return string(e) }
