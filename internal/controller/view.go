package controller

import (
	"github.com/alanyoungcy/btcconvert/internal/domain"
	"github.com/alanyoungcy/btcconvert/internal/units"
)

// View is either BtcToItemView or ItemToBtcView. The variant tells the UI
// which logical field receives keystrokes.
type View interface {
	view()
	Content() Panel
}

// Panel is the content shared by both directions.
type Panel struct {
	Unit   domain.DisplayUnit
	Input  string
	Item   domain.ItemDescriptor // zero when nothing is selected
	Result *Summary              // nil shows placeholders
}

// BtcToItemView: the user types a BTC (or satoshi) amount and reads an item
// quantity.
type BtcToItemView struct{ Panel }

// ItemToBtcView: the user types an item quantity and reads a BTC (or
// satoshi) amount.
type ItemToBtcView struct{ Panel }

func (BtcToItemView) view() {}
func (ItemToBtcView) view() {}

func (v BtcToItemView) Content() Panel { return v.Panel }
func (v ItemToBtcView) Content() Panel { return v.Panel }

// InputLabel names the input field.
func (v BtcToItemView) InputLabel() string { return v.Unit.Label() + " amount" }

// InputLabel names the input field.
func (v ItemToBtcView) InputLabel() string { return "Quantity" }

// OutputUnit is the unit shown next to the computed value.
func (v BtcToItemView) OutputUnit() string { return v.Item.Unit }

// OutputUnit is the unit shown next to the computed value.
func (v ItemToBtcView) OutputUnit() string { return v.Unit.Label() }

// Summary holds display-ready result strings.
type Summary struct {
	Output    string
	UnitPrice string
	Total     string
	BtcPrice  string
}

// Placeholder is shown for every value while no result is available.
var Placeholder = Summary{Output: "--", UnitPrice: "$--", Total: "$--", BtcPrice: "$--"}

func summarize(dir domain.Direction, r domain.ConversionResult, sats bool) *Summary {
	s := &Summary{
		UnitPrice: units.FormatUSD(r.ItemUnitPriceUSD),
		Total:     units.FormatUSD(r.TotalValueUSD),
		BtcPrice:  units.FormatUSD(r.BtcPriceUSD),
	}
	switch {
	case dir == domain.DirectionBtcToItem:
		s.Output = units.FormatLocale(r.Quantity)
	case sats:
		s.Output = units.FormatSats(r.Quantity)
	default:
		s.Output = units.FormatBTC(r.Quantity)
	}
	return s
}
