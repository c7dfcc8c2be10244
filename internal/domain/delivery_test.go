package domain

import (
	"math"
	"testing"
)

func TestCountStatuses(t *testing.T) {
	points := []DeliveryPoint{
		{OrderID: "a", Status: StatusPending},
		{OrderID: "b", Status: StatusDelivered},
		{OrderID: "c", Status: StatusPending},
		{OrderID: "d", Status: StatusOngoing},
		{OrderID: "e", Status: StatusCancelled},
	}

	got := CountStatuses(points)
	want := StatusCounts{Total: 5, Pending: 2, Ongoing: 1, Delivered: 1, Cancelled: 1}
	if got != want {
		t.Fatalf("counts = %+v, want %+v", got, want)
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	st, err := ParseDeliveryStatus(" delivered ")
	if err != nil || st != StatusDelivered {
		t.Fatalf("got %q, %v", st, err)
	}
	if _, err := ParseDeliveryStatus("LOST"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestCoordinatesValid(t *testing.T) {
	valid := []Coordinates{{0, 0}, {90, 180}, {-90, -180}, {43.7, -79.4}}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("%+v should be valid", c)
		}
	}

	invalid := []Coordinates{{91, 0}, {0, 181}, {math.NaN(), 0}, {0, math.Inf(1)}}
	for _, c := range invalid {
		if c.Valid() {
			t.Errorf("%+v should be invalid", c)
		}
	}

	d := DividerLine{Start: Coordinates{1, 1}, End: Coordinates{1, 1}}
	if d.Valid() {
		t.Errorf("degenerate divider should be invalid")
	}
}
