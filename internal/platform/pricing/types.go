package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

// APIItem is one entry of the /api/items response.
type APIItem struct {
	Key               string `json:"key"`
	Name              string `json:"name"`
	HistoricalSupport bool   `json:"historical_support"`
	Unit              string `json:"unit"`
}

// ToDomain converts the wire item to a descriptor.
func (a APIItem) ToDomain() domain.ItemDescriptor {
	return domain.ItemDescriptor{
		Key:                a.Key,
		DisplayName:        a.Name,
		Unit:               a.Unit,
		SupportsHistorical: a.HistoricalSupport,
	}
}

// APIConvertResponse is the /api/convert payload.
type APIConvertResponse struct {
	Quantity *float64 `json:"quantity"`
	UsdItem  *float64 `json:"usd_item"`
	UsdTotal *float64 `json:"usd_total"`
	BtcPrice *float64 `json:"btc_price"`
}

// ToDomain checks that every field is present and converts the payload.
func (a APIConvertResponse) ToDomain() (domain.ConversionResult, error) {
	if a.Quantity == nil || a.UsdItem == nil || a.UsdTotal == nil || a.BtcPrice == nil {
		return domain.ConversionResult{}, fmt.Errorf("%w: incomplete conversion response", domain.ErrMalformed)
	}
	return domain.ConversionResult{
		Quantity:         *a.Quantity,
		ItemUnitPriceUSD: *a.UsdItem,
		TotalValueUSD:    *a.UsdTotal,
		BtcPriceUSD:      *a.BtcPrice,
	}, nil
}

// APIHistoricalResponse is the /api/historical payload; the two arrays are
// parallel.
type APIHistoricalResponse struct {
	Dates     []string  `json:"dates"`
	BtcPrices []float64 `json:"btc_prices"`
}

// ToDomain pairs dates with prices and sorts the result by date.
func (a APIHistoricalResponse) ToDomain(itemKey string) (domain.HistoricalSeries, error) {
	if len(a.Dates) != len(a.BtcPrices) {
		return domain.HistoricalSeries{}, fmt.Errorf("%w: %d dates but %d prices",
			domain.ErrMalformed, len(a.Dates), len(a.BtcPrices))
	}
	points := make([]domain.PricePoint, 0, len(a.Dates))
	for i, raw := range a.Dates {
		d, err := parseDate(raw)
		if err != nil {
			return domain.HistoricalSeries{}, fmt.Errorf("%w: date %q", domain.ErrMalformed, raw)
		}
		points = append(points, domain.PricePoint{Date: d, BtcPrice: a.BtcPrices[i]})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return domain.HistoricalSeries{ItemKey: itemKey, Points: points}, nil
}

// parseDate accepts plain dates and full timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// apiError is the error body of a non-2xx response. FastAPI sends a string
// detail for HTTPException and a list for request validation failures.
type apiError struct {
	Detail json.RawMessage `json:"detail"`
}

func detailFrom(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err != nil {
		return ""
	}
	return s
}

// decodeCategories reads the items object token by token so the server's
// category order survives decoding.
func decodeCategories(body []byte) ([]domain.Category, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected object", domain.ErrMalformed)
	}

	var categories []domain.Category
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected category name", domain.ErrMalformed)
		}

		var items []APIItem
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: category %q: %v", domain.ErrMalformed, name, err)
		}

		cat := domain.Category{Name: name, Items: make([]domain.ItemDescriptor, 0, len(items))}
		for _, it := range items {
			if it.Key == "" {
				return nil, fmt.Errorf("%w: category %q has an item without key", domain.ErrMalformed, name)
			}
			cat.Items = append(cat.Items, it.ToDomain())
		}
		categories = append(categories, cat)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	return categories, nil
}
