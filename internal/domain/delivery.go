package domain

import (
	"fmt"
	"strings"
)

type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "PENDING"
	StatusOngoing   DeliveryStatus = "ONGOING"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusCancelled DeliveryStatus = "CANCELLED"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusOngoing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	st := DeliveryStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("parse delivery status: unknown status %q", s)
	}
	return st, nil
}

type OrderKind string

const (
	KindTiffin   OrderKind = "tiffin"
	KindCatering OrderKind = "catering"
)

func (k OrderKind) Valid() bool { return k == KindTiffin || k == KindCatering }

type Fulfillment string

const (
	FulfillmentDelivery Fulfillment = "delivery"
	FulfillmentPickup   Fulfillment = "pickup"
)

// DeliveryPoint is a request-scoped view of one order to be delivered:
// its identity, resolved coordinates and current status. It is rebuilt
// from the order records on every request and never persisted.
type DeliveryPoint struct {
	OrderID      string
	Kind         OrderKind
	CustomerName string
	Address      string
	Coordinates  Coordinates
	// Located is false when the order address has not been geocoded yet.
	Located bool
	Status  DeliveryStatus
}

func (p DeliveryPoint) Coords() Coordinates { return p.Coordinates }

// StatusCounts aggregates delivery points by status.
type StatusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Ongoing   int `json:"ongoing"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
}

func CountStatuses(points []DeliveryPoint) StatusCounts {
	c := StatusCounts{Total: len(points)}
	for _, p := range points {
		switch p.Status {
		case StatusPending:
			c.Pending++
		case StatusOngoing:
			c.Ongoing++
		case StatusDelivered:
			c.Delivered++
		case StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}
