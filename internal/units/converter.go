// Package units holds the BTC/satoshi conversion rules and the number
// formatting used by the result display.
//
// The functions are total over non-negative input; sign validation is the
// caller's job. A BTC -> satoshi -> BTC round trip can lose up to half a
// satoshi because satoshi values are whole numbers.
package units

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SatoshiPerBtc is the number of satoshi in one bitcoin.
const SatoshiPerBtc = 100_000_000

var satoshiPerBtc = decimal.NewFromInt(SatoshiPerBtc)

// ToSatoshi converts a BTC amount to whole satoshi, rounding half up. The
// result wraps outside the int64 range; BtcToSats has no bound.
func ToSatoshi(btc decimal.Decimal) int64 {
	return BtcToSats(btc).IntPart()
}

// BtcToSats converts a BTC amount to whole satoshi, rounding half up.
func BtcToSats(btc decimal.Decimal) decimal.Decimal {
	return btc.Mul(satoshiPerBtc).Round(0)
}

// ToBtc converts satoshi to BTC. The division is exact.
func ToBtc(sats int64) decimal.Decimal {
	return decimal.New(sats, -8)
}

// SatsToBtc divides an arbitrary satoshi amount by 1e8 without rounding.
func SatsToBtc(sats decimal.Decimal) decimal.Decimal {
	return sats.Shift(-8)
}

// ParseAmount parses a user-typed number. Surrounding blanks and grouping
// commas are ignored.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("units: empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("units: parse %q: %w", raw, err)
	}
	return d, nil
}
