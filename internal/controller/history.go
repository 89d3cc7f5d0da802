package controller

import (
	"log/slog"
	"strings"
	"time"

	"github.com/alanyoungcy/btcconvert/internal/chart"
	"github.com/alanyoungcy/btcconvert/internal/domain"
)

// Messages for history preconditions.
const (
	MsgSelectItemFirst = "Please select an item first"
	MsgSelectBothDates = "Please select both from and to dates"
	MsgBadDateFormat   = "Dates must use the YYYY-MM-DD format"
)

// Selection exposes the currently selected item.
type Selection interface {
	SelectedItem() (domain.ItemDescriptor, bool)
}

// HistoryController owns the date range and the rendered chart. Prices are
// always BTC denominated whatever the display unit.
type HistoryController struct {
	selection Selection
	logger    *slog.Logger

	from, to string

	seq      uint64
	inflight int
	pending  domain.ItemDescriptor // item of the latest request
	view     *chart.View
}

// NewHistoryController pre-fills the range with the year up to today.
func NewHistoryController(selection Selection, now time.Time, logger *slog.Logger) *HistoryController {
	from, to := DefaultRange(now)
	return &HistoryController{
		selection: selection,
		logger:    logger.With(slog.String("component", "history")),
		from:      from,
		to:        to,
	}
}

// DefaultRange returns (today minus one calendar year, today). A Feb 29 start
// normalises to Mar 1 of the previous year.
func DefaultRange(now time.Time) (from, to string) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return today.AddDate(-1, 0, 0).Format(domain.DateLayout), today.Format(domain.DateLayout)
}

// Range returns the current from and to fields.
func (h *HistoryController) Range() (from, to string) { return h.from, h.to }

// SetFrom updates the start date text.
func (h *HistoryController) SetFrom(v string) { h.from = v }

// SetTo updates the end date text.
func (h *HistoryController) SetTo(v string) { h.to = v }

// Chart returns the last rendered chart, or nil.
func (h *HistoryController) Chart() *chart.View { return h.view }

// Loading reports whether a history request is outstanding.
func (h *HistoryController) Loading() bool { return h.inflight > 0 }

// LoadHistoricalData validates the inputs and requests the series. The
// backend decides what an inverted range means.
func (h *HistoryController) LoadHistoricalData() []Effect {
	item, ok := h.selection.SelectedItem()
	if !ok {
		return []Effect{notifyError(MsgSelectItemFirst)}
	}
	from, to := strings.TrimSpace(h.from), strings.TrimSpace(h.to)
	if from == "" || to == "" {
		return []Effect{notifyError(MsgSelectBothDates)}
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(domain.DateLayout, d); err != nil {
			return []Effect{notifyError(MsgBadDateFormat)}
		}
	}

	h.seq++
	h.inflight++
	h.pending = item
	h.logger.Debug("history requested",
		slog.Uint64("seq", h.seq),
		slog.String("item", item.Key),
		slog.String("from", from),
		slog.String("to", to),
	)
	return []Effect{FetchHistory{
		Seq:     h.seq,
		Request: domain.HistoricalRequest{ItemKey: item.Key, From: from, To: to},
	}}
}

// HistoryDone applies the answer to request seq. On failure the previous
// chart stays on screen.
func (h *HistoryController) HistoryDone(seq uint64, series domain.HistoricalSeries, err error) []Effect {
	if h.inflight > 0 {
		h.inflight--
	}
	if seq != h.seq {
		h.logger.Debug("stale history response discarded", slog.Uint64("seq", seq))
		return nil
	}
	if err != nil {
		h.logger.Error("history failed", slog.String("error", err.Error()))
		return []Effect{notifyError(domain.UserMessage(err, domain.MsgHistoryFailed))}
	}

	h.view = chart.NewView(chart.TitleFor(h.pending.DisplayName), series)
	if first, last, ok := chart.Span(series); ok {
		h.logger.Info("history loaded",
			slog.String("item", series.ItemKey),
			slog.Int("points", series.Len()),
			slog.Time("first", first),
			slog.Time("last", last),
		)
	}
	return nil
}
