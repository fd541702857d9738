// Package pricezone maps Norwegian postal codes to Nord Pool price areas.
//
// The range table is a fixed literal. Postal and price-area geography were drawn
// independently, so the coarse thousand-blocks carry override pockets that take
// precedence over the block they sit in.
package pricezone

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

type Zone string

const (
	Unresolved Zone = ""
	Zone1      Zone = "NO1"
	Zone2      Zone = "NO2"
	Zone3      Zone = "NO3"
	Zone4      Zone = "NO4"
	Zone5      Zone = "NO5"
)

var labels = map[Zone]string{
	Zone1: "Øst-Norge",
	Zone2: "Sør-Norge",
	Zone3: "Midt-Norge",
	Zone4: "Nord-Norge",
	Zone5: "Vest-Norge",
}

type rule struct {
	from, to int
	zone     Zone
}

// Ordered, first match wins. Overrides are listed ahead of the block they
// carve out of.
var rules = []rule{
	{0, 1999, Zone1},
	{2000, 2999, Zone2},
	{3100, 3399, Zone2},
	{3500, 3599, Zone1},
	{3000, 3999, Zone5},
	{4000, 4299, Zone2},
	{4000, 4999, Zone5},
	{5000, 5099, Zone5},
	{6000, 6999, Zone5},
	{5000, 6999, Zone3},
	{7000, 9999, Zone4},
}

var postalCodePattern = regexp.MustCompile(`^[0-9]{4,5}$`)

// Resolve returns the price zone for postalCode, or Unresolved when the code is
// malformed or outside every known range. Whitespace anywhere in the input is
// ignored.
func Resolve(postalCode string) Zone {
	code, ok := parse(postalCode)
	if !ok {
		return Unresolved
	}

	for _, r := range rules {
		if code >= r.from && code <= r.to {
			return r.zone
		}
	}

	return Unresolved
}

// Normalize strips whitespace and reports whether the remainder is a
// well-formed postal code.
func Normalize(postalCode string) (string, bool) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, postalCode)

	return stripped, postalCodePattern.MatchString(stripped)
}

func parse(postalCode string) (int, bool) {
	digits, ok := Normalize(postalCode)
	if !ok {
		return 0, false
	}

	code, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	return code, true
}

// ParseZone reads a zone identifier such as "NO1" or "no5".
func ParseZone(s string) (Zone, bool) {
	zone := Zone(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := labels[zone]; !ok {
		return Unresolved, false
	}
	return zone, true
}

func Zones() []Zone {
	return []Zone{Zone1, Zone2, Zone3, Zone4, Zone5}
}

func (z Zone) Resolved() bool {
	_, ok := labels[z]
	return ok
}

func (z Zone) Label() string {
	return labels[z]
}

func (z Zone) String() string {
	if z == Unresolved {
		return "unresolved"
	}
	return string(z)
}
