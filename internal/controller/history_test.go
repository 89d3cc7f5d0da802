package controller

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

type fixedSelection struct {
	item domain.ItemDescriptor
	ok   bool
}

func (f *fixedSelection) SelectedItem() (domain.ItemDescriptor, bool) { return f.item, f.ok }

var june = time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)

func gold() *fixedSelection {
	return &fixedSelection{item: testItems["gold_oz"], ok: true}
}

func testSeries() domain.HistoricalSeries {
	return domain.HistoricalSeries{ItemKey: "gold_oz", Points: []domain.PricePoint{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), BtcPrice: 0.048},
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), BtcPrice: 0.045},
	}}
}

func TestDefaultRange(t *testing.T) {
	from, to := DefaultRange(june)
	assert.Equal(t, "2023-06-10", from)
	assert.Equal(t, "2024-06-10", to)

	from, to = DefaultRange(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2023-03-01", from)
	assert.Equal(t, "2024-02-29", to)
}

func TestHistoryPreconditions(t *testing.T) {
	h := NewHistoryController(&fixedSelection{}, june, discardLogger())
	assert.Equal(t, []Effect{notifyError(MsgSelectItemFirst)}, h.LoadHistoricalData())

	h = NewHistoryController(gold(), june, discardLogger())
	h.SetFrom("")
	assert.Equal(t, []Effect{notifyError(MsgSelectBothDates)}, h.LoadHistoricalData())

	h.SetFrom("10/06/2023")
	assert.Equal(t, []Effect{notifyError(MsgBadDateFormat)}, h.LoadHistoricalData())
	assert.False(t, h.Loading())
}

func TestHistoryInvertedRangeIsSent(t *testing.T) {
	h := NewHistoryController(gold(), june, discardLogger())
	h.SetFrom("2024-06-01")
	h.SetTo("2024-01-01")

	out := h.LoadHistoricalData()
	require.Len(t, out, 1)
	f := out[0].(FetchHistory)
	assert.Equal(t, domain.HistoricalRequest{ItemKey: "gold_oz", From: "2024-06-01", To: "2024-01-01"}, f.Request)
	assert.True(t, h.Loading())
}

func TestHistorySuccessReplacesChart(t *testing.T) {
	h := NewHistoryController(gold(), june, discardLogger())

	f := h.LoadHistoricalData()[0].(FetchHistory)
	assert.Empty(t, h.HistoryDone(f.Seq, testSeries(), nil))
	first := h.Chart()
	require.NotNil(t, first)
	assert.Equal(t, "Gold Price in BTC", first.Title)
	assert.Equal(t, []string{"Jan 2024", "Feb 2024"}, first.Labels)

	f = h.LoadHistoricalData()[0].(FetchHistory)
	h.HistoryDone(f.Seq, domain.HistoricalSeries{ItemKey: "gold_oz"}, nil)
	assert.NotSame(t, first, h.Chart())
	assert.True(t, h.Chart().Empty())
	assert.False(t, h.Loading())
}

func TestHistoryFailureKeepsChart(t *testing.T) {
	h := NewHistoryController(gold(), june, discardLogger())
	f := h.LoadHistoricalData()[0].(FetchHistory)
	h.HistoryDone(f.Seq, testSeries(), nil)
	before := h.Chart()

	f = h.LoadHistoricalData()[0].(FetchHistory)
	out := h.HistoryDone(f.Seq, domain.HistoricalSeries{}, &domain.RequestError{Status: 400, Detail: "Historical data not supported"})
	assert.Equal(t, []Effect{notifyError("Historical data not supported")}, out)
	assert.Same(t, before, h.Chart())

	f = h.LoadHistoricalData()[0].(FetchHistory)
	out = h.HistoryDone(f.Seq, domain.HistoricalSeries{}, errors.New("weird"))
	assert.Equal(t, []Effect{notifyError(domain.MsgUnexpected)}, out)
}

func TestHistoryStaleDiscarded(t *testing.T) {
	h := NewHistoryController(gold(), june, discardLogger())
	old := h.LoadHistoricalData()[0].(FetchHistory)
	latest := h.LoadHistoricalData()[0].(FetchHistory)

	h.HistoryDone(latest.Seq, testSeries(), nil)
	h.HistoryDone(old.Seq, domain.HistoricalSeries{}, nil)
	assert.Len(t, h.Chart().Prices, 2)
	assert.False(t, h.Loading())
}
