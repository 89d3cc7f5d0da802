package domain

import "time"

// DateLayout is the wire and input format for calendar dates.
const DateLayout = "2006-01-02"

// HistoricalRequest asks for a BTC-denominated price series of one item.
// From and To are YYYY-MM-DD strings; ordering is left to the backend.
type HistoricalRequest struct {
	ItemKey string
	From    string
	To      string
}

// PricePoint is a single (date, price in BTC) sample.
type PricePoint struct {
	Date     time.Time
	BtcPrice float64
}

// HistoricalSeries is ordered by date ascending.
type HistoricalSeries struct {
	ItemKey string
	Points  []PricePoint
}

// Len returns the number of samples.
func (s HistoricalSeries) Len() int { return len(s.Points) }

// Prices returns the price column in date order.
func (s HistoricalSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.BtcPrice
	}
	return out
}
