package astrology

import "strconv"

// HouseCount is the number of sectors in a chart.
const HouseCount = 12

var houseAreas = [HouseCount]string{
	"self-image and personal identity",
	"values, possessions, and resources",
	"communication, learning, and siblings",
	"home, family, and foundations",
	"creativity, pleasure, and children",
	"health, daily routines, and service",
	"partnerships and relationships",
	"transformation, shared resources, and intimacy",
	"philosophy, higher learning, and travel",
	"career, public reputation, and achievement",
	"friendships, groups, and hopes",
	"spirituality, unconscious, and hidden matters",
}

// ValidHouse reports whether n is a house number.
func ValidHouse(n int) bool { return n >= 1 && n <= HouseCount }

// HouseArea returns the life area of house n, or "" when n is out of range.
func HouseArea(n int) string {
	if !ValidHouse(n) {
		return ""
	}
	return houseAreas[n-1]
}

// Ordinal formats n as 1st, 2nd, 3rd, 4th, 11th, 12th, 21st...
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
