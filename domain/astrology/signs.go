// Package astrology owns the fixed vocabularies used by the chart pipeline:
// signs, bodies, aspect kinds, elements and house areas. Every table lives
// here exactly once and is reachable only through read-only accessors.
package astrology

import (
	"fmt"
	"strings"
)

// Sign is one of the twelve zodiac categories.
type Sign string

const (
	Aries       Sign = "aries"
	Taurus      Sign = "taurus"
	Gemini      Sign = "gemini"
	Cancer      Sign = "cancer"
	Leo         Sign = "leo"
	Virgo       Sign = "virgo"
	Libra       Sign = "libra"
	Scorpio     Sign = "scorpio"
	Sagittarius Sign = "sagittarius"
	Capricorn   Sign = "capricorn"
	Aquarius    Sign = "aquarius"
	Pisces      Sign = "pisces"
)

// SignCount is the size of the zodiac cycle.
const SignCount = 12

type signInfo struct {
	symbol  string
	element Element
	traits  string
}

var signCycle = [SignCount]Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

var signTable = map[Sign]signInfo{
	Aries:       {"♈", Fire, "assertive, pioneering, and direct"},
	Taurus:      {"♉", Earth, "reliable, sensual, and resource-conscious"},
	Gemini:      {"♊", Air, "curious, versatile, and communicative"},
	Cancer:      {"♋", Water, "nurturing, protective, and emotionally intuitive"},
	Leo:         {"♌", Fire, "creative, generous, and proud"},
	Virgo:       {"♍", Earth, "analytical, precise, and service-oriented"},
	Libra:       {"♎", Air, "harmonious, partnership-focused, and fair-minded"},
	Scorpio:     {"♏", Water, "intense, transformative, and deeply perceptive"},
	Sagittarius: {"♐", Fire, "optimistic, philosophical, and freedom-loving"},
	Capricorn:   {"♑", Earth, "ambitious, disciplined, and achievement-oriented"},
	Aquarius:    {"♒", Air, "innovative, humanitarian, and independent"},
	Pisces:      {"♓", Water, "compassionate, imaginative, and spiritually attuned"},
}

// Signs returns the zodiac in cyclic order starting at Aries.
func Signs() []Sign {
	out := make([]Sign, SignCount)
	copy(out, signCycle[:])
	return out
}

// SignAt returns the sign at position i of the cycle, wrapping in both directions.
func SignAt(i int) Sign {
	i %= SignCount
	if i < 0 {
		i += SignCount
	}
	return signCycle[i]
}

// ParseSign accepts a sign name in any letter case.
func ParseSign(s string) (Sign, error) {
	sign := Sign(strings.ToLower(strings.TrimSpace(s)))
	if !sign.Valid() {
		return "", fmt.Errorf("unknown zodiac sign %q", s)
	}
	return sign, nil
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool {
	_, ok := signTable[s]
	return ok
}

// Index returns the position of s in the cycle, or -1 for an unknown sign.
func (s Sign) Index() int {
	for i, c := range signCycle {
		if c == s {
			return i
		}
	}
	return -1
}

// Next returns the sign n steps further along the cycle.
func (s Sign) Next(n int) Sign {
	return SignAt(s.Index() + n)
}

func (s Sign) Symbol() string   { return signTable[s].symbol }
func (s Sign) Element() Element { return signTable[s].element }

// Traits is the adjective phrase used by the summary text.
func (s Sign) Traits() string {
	if info, ok := signTable[s]; ok {
		return info.traits
	}
	return "balanced"
}

// DisplayName returns the capitalised sign name.
func (s Sign) DisplayName() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func (s Sign) String() string { return string(s) }
