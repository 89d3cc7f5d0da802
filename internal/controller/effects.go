// Package controller owns the conversion and historical chart state. The
// controllers never perform I/O or start timers themselves: every transition
// returns the side effects it needs and the caller (the terminal UI) carries
// them out and feeds the outcome back in.
package controller

import (
	"time"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

// Effect is a side effect requested by a transition.
type Effect interface {
	effect()
}

// ScheduleRecompute asks for DebounceFired(Token) to be called after the
// delay. Earlier tokens become stale as soon as a new one is issued.
type ScheduleRecompute struct {
	Token uint64
	After time.Duration
}

// Dispatch asks for a conversion request; the answer goes to
// ConversionController.ConversionDone with the same Seq.
type Dispatch struct {
	Seq     uint64
	Request domain.ConversionRequest
}

// FetchHistory asks for a historical series; the answer goes to
// HistoryController.HistoryDone with the same Seq.
type FetchHistory struct {
	Seq     uint64
	Request domain.HistoricalRequest
}

// Notify shows a message to the user.
type Notify struct {
	Kind    domain.NotificationKind
	Message string
}

// ShowHistorical toggles the historical chart section.
type ShowHistorical struct {
	Visible bool
}

func (ScheduleRecompute) effect() {}
func (Dispatch) effect()          {}
func (FetchHistory) effect()      {}
func (Notify) effect()            {}
func (ShowHistorical) effect()    {}

// ItemLookup resolves item keys. *catalog.Catalog satisfies it.
type ItemLookup interface {
	Lookup(key string) (domain.ItemDescriptor, bool)
}

func notifyError(msg string) Effect {
	return Notify{Kind: domain.NotificationError, Message: msg}
}
