package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// Order dates look like "12/30/19 23:15" (24-hour clock, 2-digit year).
// Unpadded layout tokens accept both "04/07/19" and "4/7/19".
const orderDateLayout = "1/2/06 15:04"

// Enrich derives the analysis columns for each record independently.
// Derivation never fails the batch: a record with an unparseable date keeps
// HasTimestamp=false, a record with a malformed address keeps City="", and
// the remaining derived fields stay intact either way.
func Enrich(raws []models.RawRecord) []models.EnrichedRecord {
	enriched := make([]models.EnrichedRecord, len(raws))
	for i, raw := range raws {
		enriched[i] = enrichOne(raw)
	}
	return enriched
}

func enrichOne(raw models.RawRecord) models.EnrichedRecord {
	rec := models.EnrichedRecord{RawRecord: raw}

	rec.TotalPay = raw.PriceEach.Mul(decimal.NewFromInt(int64(raw.Quantity)))
	rec.City = CityLabel(raw.Address)

	ts, err := time.Parse(orderDateLayout, raw.OrderDate)
	if err != nil {
		return rec
	}

	rec.OrderedAt = ts
	rec.HasTimestamp = true
	rec.Hour = ts.Hour()
	rec.Minute = ts.Minute()
	rec.Weekday = ts.Weekday().String()
	rec.Month = ts.Format("Jan")
	return rec
}

// CityLabel turns a "street, city, ST zip" address into "City (ST)".
// Malformed addresses (fewer than three comma segments, or a state segment
// without both state and zip tokens) yield "" rather than an error; the
// city-grouped aggregation skips such records.
func CityLabel(address string) string {
	segments := strings.Split(address, ",")
	if len(segments) < 3 {
		return ""
	}

	city := strings.TrimSpace(segments[1])
	stateTokens := strings.Fields(segments[2])
	if city == "" || len(stateTokens) < 2 {
		return ""
	}

	return fmt.Sprintf("%s (%s)", city, stateTokens[0])
}
