package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one sales transaction exactly as read from the input CSV.
// It is never mutated after loading.
type RawRecord struct {
	OrderID   string
	Product   string
	Quantity  int
	PriceEach decimal.Decimal
	OrderDate string
	Address   string
}

// EnrichedRecord is a RawRecord plus derived fields. Every derived field is
// a pure function of the record's own raw fields.
//
// HasTimestamp is false when OrderDate did not parse; the time-derived
// fields are then undefined and time-keyed queries skip the record.
// City is empty when the address was malformed.
type EnrichedRecord struct {
	RawRecord

	OrderedAt    time.Time
	HasTimestamp bool
	Hour         int
	Minute       int
	Weekday      string
	Month        string
	TotalPay     decimal.Decimal
	City         string
}

type MonthlyOrders struct {
	Month  string `json:"month"`
	Orders int    `json:"orders"`
}

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ProductQuantity struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type CityRevenue struct {
	City    string          `json:"city"`
	Revenue decimal.Decimal `json:"revenue"`
}

type HourlyRevenue struct {
	Hour    int             `json:"hour"`
	Revenue decimal.Decimal `json:"revenue"`
}

type WeekdayRevenue struct {
	Weekday string          `json:"weekday"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ProductWeekdayQuantity struct {
	Product  string `json:"product"`
	Weekday  string `json:"weekday"`
	Quantity int    `json:"quantity"`
}

// WeekdayOrder fixes chart and sort order to Monday through Sunday
// regardless of the order weekdays appear in the data.
var WeekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayIndex returns the position of a full weekday name in WeekdayOrder,
// or len(WeekdayOrder) for unknown names so they sort last.
func WeekdayIndex(weekday string) int {
	for i, w := range WeekdayOrder {
		if w == weekday {
			return i
		}
	}
	return len(WeekdayOrder)
}

// MonthIndex returns 1..12 for a three-letter month abbreviation, or 13 for
// unknown values so they sort last.
func MonthIndex(month string) int {
	t, err := time.Parse("Jan", month)
	if err != nil {
		return 13
	}
	return int(t.Month())
}
