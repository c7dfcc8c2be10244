package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Zone is one of the two halves of a store's delivery area.
type Zone int

const (
	ZoneNone Zone = 0
	Zone1    Zone = 1
	Zone2    Zone = 2
)

func (z Zone) Valid() bool { return z == Zone1 || z == Zone2 }

func (z Zone) String() string {
	switch z {
	case Zone1:
		return "zone1"
	case Zone2:
		return "zone2"
	default:
		return "none"
	}
}

// ParseZone accepts "1", "2", "zone1", "zone2" and the empty string (ZoneNone).
func ParseZone(s string) (Zone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "zone")
	if s == "" {
		return ZoneNone, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || !Zone(n).Valid() {
		return ZoneNone, fmt.Errorf("parse zone: %q is not 1 or 2", s)
	}
	return Zone(n), nil
}

// DividerLine is the store-configured segment that splits the delivery
// area into Zone1 ("up" side) and Zone2 ("down" side).
type DividerLine struct {
	Start Coordinates `json:"start"`
	End   Coordinates `json:"end"`
}

// Valid requires both endpoints to be valid and distinct.
func (d DividerLine) Valid() bool {
	return d.Start.Valid() && d.End.Valid() && d.Start != d.End
}
