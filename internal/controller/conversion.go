package controller

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/btcconvert/internal/domain"
	"github.com/alanyoungcy/btcconvert/internal/units"
)

// DefaultDebounce is the quiet period before an edit triggers a request.
const DefaultDebounce = 300 * time.Millisecond

// Validation messages shown for unusable input.
const (
	MsgInvalidNumber = "Please enter a valid number"
	MsgNotPositive   = "Please enter a positive value"
)

// State is the user-visible conversion state.
type State struct {
	Direction       domain.Direction
	Unit            domain.DisplayUnit
	SelectedItemKey string // "" when nothing is selected
	RawInput        string // exactly as typed
}

// ConversionController owns State plus the bookkeeping of the recompute
// pipeline: the debounce token, the request sequence and the number of
// requests in flight. It is not safe for concurrent use; the UI event loop
// is its only caller.
type ConversionController struct {
	catalog  ItemLookup
	debounce time.Duration
	logger   *slog.Logger

	state State
	item  domain.ItemDescriptor

	token    uint64 // latest debounce token
	pending  bool
	seq      uint64 // bumped on dispatch and on every state change
	inflight int

	result     *domain.ConversionResult
	resultSats bool // unit of the request that produced result
	latestSats bool // unit of the request numbered seq
}

// NewConversionController starts in BtcToItem / BTC with nothing selected.
func NewConversionController(catalog ItemLookup, debounce time.Duration, logger *slog.Logger) *ConversionController {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ConversionController{
		catalog:  catalog,
		debounce: debounce,
		logger:   logger.With(slog.String("component", "conversion")),
		state: State{
			Direction: domain.DirectionBtcToItem,
			Unit:      domain.UnitBtc,
		},
	}
}

// State returns a copy of the current state.
func (c *ConversionController) State() State { return c.state }

// Result returns the displayed result, or nil when cleared.
func (c *ConversionController) Result() *domain.ConversionResult {
	if c.result == nil {
		return nil
	}
	r := *c.result
	return &r
}

// Loading reports whether any conversion request is outstanding.
func (c *ConversionController) Loading() bool { return c.inflight > 0 }

// InFlight returns the number of outstanding requests.
func (c *ConversionController) InFlight() int { return c.inflight }

// SelectedItem returns the selected descriptor.
func (c *ConversionController) SelectedItem() (domain.ItemDescriptor, bool) {
	return c.item, c.state.SelectedItemKey != ""
}

// SwapDirection flips the direction. Unit, item and the typed text are kept;
// the result is cleared because its fields now mean something else.
func (c *ConversionController) SwapDirection() []Effect {
	c.state.Direction = c.state.Direction.Opposite()
	c.clearResult()
	c.logger.Debug("direction swapped", slog.String("direction", string(c.state.Direction)))
	return c.schedule()
}

// SetUnit switches between BTC and satoshi display. In BtcToItem the input
// field is denominated in the unit, so a valid positive amount is rewritten.
// In ItemToBtc the output is, so the result is cleared until the next
// response arrives.
func (c *ConversionController) SetUnit(u domain.DisplayUnit) []Effect {
	if u == c.state.Unit {
		return nil
	}
	prev := c.state.Unit
	c.state.Unit = u

	if c.state.Direction == domain.DirectionBtcToItem {
		if amount, err := units.ParseAmount(c.state.RawInput); err == nil && amount.IsPositive() {
			switch {
			case prev == domain.UnitBtc && u == domain.UnitSatoshi:
				c.state.RawInput = units.BtcToSats(amount).String()
			case prev == domain.UnitSatoshi && u == domain.UnitBtc:
				c.state.RawInput = units.SatsToBtc(amount).String()
			}
		}
	} else {
		c.clearResult()
	}
	return c.schedule()
}

// ToggleUnit switches to the other display unit.
func (c *ConversionController) ToggleUnit() []Effect {
	if c.state.Unit == domain.UnitBtc {
		return c.SetUnit(domain.UnitSatoshi)
	}
	return c.SetUnit(domain.UnitBtc)
}

// SelectItem changes the selected item; "" deselects.
func (c *ConversionController) SelectItem(key string) []Effect {
	if key == "" {
		c.state.SelectedItemKey = ""
		c.item = domain.ItemDescriptor{}
		c.pending = false
		c.clearResult()
		return []Effect{ShowHistorical{Visible: false}}
	}

	item, ok := c.catalog.Lookup(key)
	if !ok {
		c.logger.Warn("unknown item selected", slog.String("item", key))
		return []Effect{notifyError(domain.NewValidationError("Unknown item %q", key).Message)}
	}

	c.state.SelectedItemKey = key
	c.item = item
	return append([]Effect{ShowHistorical{Visible: item.SupportsHistorical}}, c.schedule()...)
}

// EditInput stores the typed text.
func (c *ConversionController) EditInput(raw string) []Effect {
	if raw == c.state.RawInput {
		return nil
	}
	c.state.RawInput = raw
	return c.schedule()
}

// Refresh recomputes now, dropping any pending debounce.
func (c *ConversionController) Refresh() []Effect {
	c.pending = false
	c.token++
	if c.state.SelectedItemKey == "" {
		return nil
	}
	return c.performConversion()
}

// DebounceFired is called when the timer for token elapses. Only the latest
// token triggers a conversion.
func (c *ConversionController) DebounceFired(token uint64) []Effect {
	if !c.pending || token != c.token {
		return nil
	}
	c.pending = false
	return c.performConversion()
}

// ConversionDone applies the outcome of the request numbered seq. Every call
// settles one in-flight request; only the most recent request may change the
// result.
func (c *ConversionController) ConversionDone(seq uint64, res domain.ConversionResult, err error) []Effect {
	if c.inflight > 0 {
		c.inflight--
	}
	if seq != c.seq {
		c.logger.Debug("stale conversion response discarded",
			slog.Uint64("seq", seq),
			slog.Uint64("latest", c.seq),
			slog.Bool("failed", err != nil),
		)
		return nil
	}

	if err != nil {
		c.clearResult()
		c.logger.Error("conversion failed", slog.String("error", err.Error()))
		return []Effect{notifyError(domain.UserMessage(err, domain.MsgConvertFailed))}
	}
	c.result = &res
	c.resultSats = c.latestSats
	return nil
}

// View describes what the conversion panel should show.
func (c *ConversionController) View() View {
	base := Panel{
		Unit:  c.state.Unit,
		Input: c.state.RawInput,
		Item:  c.item,
	}
	if c.result != nil {
		base.Result = summarize(c.state.Direction, *c.result, c.resultSats)
	}
	if c.state.Direction == domain.DirectionItemToBtc {
		return ItemToBtcView{Panel: base}
	}
	return BtcToItemView{Panel: base}
}

func (c *ConversionController) schedule() []Effect {
	c.token++
	c.pending = true
	c.seq++ // responses to requests built from the old state are stale now
	return []Effect{ScheduleRecompute{Token: c.token, After: c.debounce}}
}

func (c *ConversionController) clearResult() {
	c.result = nil
	c.seq++
}

func (c *ConversionController) performConversion() []Effect {
	if c.state.SelectedItemKey == "" || strings.TrimSpace(c.state.RawInput) == "" {
		return nil
	}

	amount, err := units.ParseAmount(c.state.RawInput)
	if err != nil {
		return []Effect{notifyError(MsgInvalidNumber)}
	}
	if !amount.IsPositive() {
		return []Effect{notifyError(MsgNotPositive)}
	}

	c.inflight++
	req, err := c.buildRequest(amount)
	if err != nil {
		c.inflight--
		c.clearResult()
		return []Effect{notifyError(domain.UserMessage(err, domain.MsgConvertFailed))}
	}

	c.seq++
	c.latestSats = req.Sats
	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "conversion dispatched",
		slog.Uint64("seq", c.seq),
		slog.String("item", req.ItemKey),
		slog.String("direction", string(req.Direction)),
		slog.String("amount", req.Amount.String()),
	)
	return []Effect{Dispatch{Seq: c.seq, Request: req}}
}

func (c *ConversionController) buildRequest(amount decimal.Decimal) (domain.ConversionRequest, error) {
	if _, ok := c.catalog.Lookup(c.state.SelectedItemKey); !ok {
		return domain.ConversionRequest{}, domain.NewValidationError("Item %q is no longer available", c.state.SelectedItemKey)
	}
	return domain.ConversionRequest{
		ItemKey:   c.state.SelectedItemKey,
		Direction: c.state.Direction,
		Sats:      c.state.Unit == domain.UnitSatoshi,
		Amount:    amount,
	}, nil
}
