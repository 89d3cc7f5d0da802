package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction selects which side of a conversion the user types into.
type Direction string

const (
	DirectionBtcToItem Direction = "btc_to_item"
	DirectionItemToBtc Direction = "item_to_btc"
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == DirectionBtcToItem {
		return DirectionItemToBtc
	}
	return DirectionBtcToItem
}

// ParseDirection maps a wire value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionBtcToItem, DirectionItemToBtc:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// DisplayUnit is the presentation unit of Bitcoin-denominated fields.
type DisplayUnit string

const (
	UnitBtc     DisplayUnit = "btc"
	UnitSatoshi DisplayUnit = "sats"
)

// Label is the short text shown on the unit toggle.
func (u DisplayUnit) Label() string {
	if u == UnitSatoshi {
		return "sats"
	}
	return "BTC"
}

// ConversionRequest is the query sent to the conversion endpoint. Amount is a
// BTC (or satoshi, when Sats is set) amount for DirectionBtcToItem and an
// item quantity for DirectionItemToBtc.
type ConversionRequest struct {
	ItemKey   string
	Direction Direction
	Sats      bool
	Amount    decimal.Decimal
}

// ConversionResult is a complete conversion answer. It is never patched in
// place; a new response replaces it as a whole.
type ConversionResult struct {
	Quantity         float64
	ItemUnitPriceUSD float64
	TotalValueUSD    float64
	BtcPriceUSD      float64
}
