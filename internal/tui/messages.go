package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

type catalogLoadedMsg struct {
	categories []domain.Category
	err        error
}

type recomputeDueMsg struct {
	token uint64
}

type conversionDoneMsg struct {
	seq    uint64
	result domain.ConversionResult
	err    error
}

type historyDoneMsg struct {
	seq    uint64
	series domain.HistoricalSeries
	err    error
}

type dismissMsg struct {
	id string
}

// panicMsg reports a panic recovered inside a command that has no reply of
// its own.
type panicMsg struct {
	err error
}

// recoverTo runs cmd and, if it panics, returns onPanic's message instead so
// that the request bookkeeping still settles.
func recoverTo(onPanic func(err error) tea.Msg, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = onPanic(&domain.UnhandledError{Value: r})
			}
		}()
		return cmd()
	}
}

func safe(cmd tea.Cmd) tea.Cmd {
	return recoverTo(func(err error) tea.Msg { return panicMsg{err: err} }, cmd)
}
