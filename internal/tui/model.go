// Package tui is the interactive terminal front end. All state changes happen
// on the bubbletea update loop; network calls and timers run as commands and
// report back as messages.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alanyoungcy/btcconvert/internal/controller"
	"github.com/alanyoungcy/btcconvert/internal/domain"
	"github.com/alanyoungcy/btcconvert/internal/notify"
)

const (
	placeholderOption = "Select an item..."
	mirrorTimeout     = 10 * time.Second
)

// Catalog is the item source used by the selector.
type Catalog interface {
	Load(ctx context.Context) ([]domain.Category, error)
	CategoriesInOrder() []domain.Category
}

// Deps holds everything the UI talks to.
type Deps struct {
	Catalog    Catalog
	Converter  domain.Converter
	History    domain.HistorySource
	Notifier   *notify.Notifier
	Conversion *controller.ConversionController
	Charts     *controller.HistoryController
	Logger     *slog.Logger
}

type field int

const (
	fieldItem field = iota
	fieldInput
	fieldFrom
	fieldTo
)

type option struct {
	key      string // "" for the placeholder
	label    string
	category string
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	deps   Deps
	logger *slog.Logger

	focus   field
	options []option
	cursor  int

	input textinput.Model
	from  textinput.Model
	to    textinput.Model

	spinner spinner.Model
	help    help.Model

	showHistory    bool
	catalogLoading bool
	width, height  int
}

// New builds the model. ctx bounds every request started from the UI.
func New(ctx context.Context, deps Deps) *Model {
	input := textinput.New()
	input.CharLimit = 32

	from, to := deps.Charts.Range()
	fromInput := textinput.New()
	fromInput.Placeholder = "YYYY-MM-DD"
	fromInput.CharLimit = 10
	fromInput.SetValue(from)
	toInput := textinput.New()
	toInput.Placeholder = "YYYY-MM-DD"
	toInput.CharLimit = 10
	toInput.SetValue(to)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle

	m := &Model{
		ctx:     ctx,
		deps:    deps,
		logger:  deps.Logger.With(slog.String("component", "tui")),
		options: []option{{label: placeholderOption}},
		input:   input,
		from:    fromInput,
		to:      toInput,
		spinner: sp,
		help:    help.New(),
	}
	m.syncInput()
	return m
}

// Init starts the spinner and the first catalog load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCatalog())
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case catalogLoadedMsg:
		return m, m.handleCatalog(msg)

	case recomputeDueMsg:
		return m, m.apply(m.deps.Conversion.DebounceFired(msg.token))

	case conversionDoneMsg:
		return m, m.apply(m.deps.Conversion.ConversionDone(msg.seq, msg.result, msg.err))

	case historyDoneMsg:
		return m, m.apply(m.deps.Charts.HistoryDone(msg.seq, msg.series, msg.err))

	case dismissMsg:
		m.deps.Notifier.Dismiss(msg.id)
		return m, nil

	case panicMsg:
		m.logger.Error("command panicked", slog.String("error", msg.err.Error()))
		return m, m.notify(domain.NotificationError, domain.MsgUnexpected)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Loading reports whether any request is outstanding.
func (m *Model) Loading() bool {
	return m.catalogLoading || m.deps.Conversion.Loading() || m.deps.Charts.Loading()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.NextField):
		return m.moveFocus(1)
	case key.Matches(msg, keys.PrevField):
		return m.moveFocus(-1)
	case key.Matches(msg, keys.Swap):
		return m.apply(m.deps.Conversion.SwapDirection())
	case key.Matches(msg, keys.ToggleUnit):
		return m.apply(m.deps.Conversion.ToggleUnit())
	case key.Matches(msg, keys.Refresh):
		return m.apply(m.deps.Conversion.Refresh())
	case key.Matches(msg, keys.Reload):
		return m.loadCatalog()
	}

	switch m.focus {
	case fieldItem:
		switch {
		case key.Matches(msg, keys.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(msg, keys.Down):
			m.cursor = min(m.cursor+1, len(m.options)-1)
		case key.Matches(msg, keys.Enter):
			return m.selectOption(m.cursor)
		}
		return nil

	case fieldInput:
		if key.Matches(msg, keys.Enter) {
			return m.apply(m.deps.Conversion.Refresh())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return tea.Batch(cmd, m.apply(m.deps.Conversion.EditInput(m.input.Value())))

	case fieldFrom, fieldTo:
		if key.Matches(msg, keys.Enter) {
			return m.apply(m.deps.Charts.LoadHistoricalData())
		}
		var cmd tea.Cmd
		if m.focus == fieldFrom {
			m.from, cmd = m.from.Update(msg)
			m.deps.Charts.SetFrom(m.from.Value())
		} else {
			m.to, cmd = m.to.Update(msg)
			m.deps.Charts.SetTo(m.to.Value())
		}
		return cmd
	}
	return nil
}

func (m *Model) fields() []field {
	if m.showHistory {
		return []field{fieldItem, fieldInput, fieldFrom, fieldTo}
	}
	return []field{fieldItem, fieldInput}
}

func (m *Model) moveFocus(step int) tea.Cmd {
	fields := m.fields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(fields)) % len(fields)
	return m.setFocus(fields[idx])
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.input.Blur()
	m.from.Blur()
	m.to.Blur()
	switch f {
	case fieldInput:
		return m.input.Focus()
	case fieldFrom:
		return m.from.Focus()
	case fieldTo:
		return m.to.Focus()
	}
	return nil
}

func (m *Model) selectOption(i int) tea.Cmd {
	if i < 0 || i >= len(m.options) {
		return nil
	}
	m.cursor = i
	return m.apply(m.deps.Conversion.SelectItem(m.options[i].key))
}

func (m *Model) setHistoryVisible(visible bool) {
	m.showHistory = visible
	if !visible && (m.focus == fieldFrom || m.focus == fieldTo) {
		m.setFocus(fieldItem)
	}
}

// apply executes controller effects and returns the commands they need.
func (m *Model) apply(effects []controller.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case controller.ScheduleRecompute:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return recomputeDueMsg{token: e.Token}
			}))
		case controller.Dispatch:
			cmds = append(cmds, m.convert(e))
		case controller.FetchHistory:
			cmds = append(cmds, m.fetchHistory(e))
		case controller.Notify:
			cmds = append(cmds, m.notify(e.Kind, e.Message))
		case controller.ShowHistorical:
			m.setHistoryVisible(e.Visible)
		}
	}
	m.syncInput()
	return tea.Batch(cmds...)
}

// syncInput mirrors controller-side rewrites (unit switch) into the field.
func (m *Model) syncInput() {
	st := m.deps.Conversion.State()
	if m.input.Value() != st.RawInput {
		m.input.SetValue(st.RawInput)
	}
	switch {
	case st.Direction == domain.DirectionItemToBtc:
		m.input.Placeholder = "1"
	case st.Unit == domain.UnitSatoshi:
		m.input.Placeholder = "10000000"
	default:
		m.input.Placeholder = "0.1"
	}
}

func (m *Model) convert(d controller.Dispatch) tea.Cmd {
	onPanic := func(err error) tea.Msg { return conversionDoneMsg{seq: d.Seq, err: err} }
	return recoverTo(onPanic, func() tea.Msg {
		res, err := m.deps.Converter.Convert(m.ctx, d.Request)
		return conversionDoneMsg{seq: d.Seq, result: res, err: err}
	})
}

func (m *Model) fetchHistory(f controller.FetchHistory) tea.Cmd {
	onPanic := func(err error) tea.Msg { return historyDoneMsg{seq: f.Seq, err: err} }
	return recoverTo(onPanic, func() tea.Msg {
		series, err := m.deps.History.Historical(m.ctx, f.Request)
		return historyDoneMsg{seq: f.Seq, series: series, err: err}
	})
}

func (m *Model) loadCatalog() tea.Cmd {
	m.catalogLoading = true
	onPanic := func(err error) tea.Msg { return catalogLoadedMsg{err: &domain.LoadError{Err: err}} }
	return recoverTo(onPanic, func() tea.Msg {
		categories, err := m.deps.Catalog.Load(m.ctx)
		return catalogLoadedMsg{categories: categories, err: err}
	})
}

func (m *Model) handleCatalog(msg catalogLoadedMsg) tea.Cmd {
	m.catalogLoading = false
	if msg.err != nil {
		return m.notify(domain.NotificationError, domain.UserMessage(msg.err, "Failed to fetch items"))
	}

	selected := m.deps.Conversion.State().SelectedItemKey
	m.options = []option{{label: placeholderOption}}
	m.cursor = 0
	for _, cat := range msg.categories {
		for _, it := range cat.Items {
			if it.Key == selected {
				m.cursor = len(m.options)
			}
			m.options = append(m.options, option{key: it.Key, label: it.DisplayName, category: cat.Name})
		}
	}
	if selected != "" && m.cursor == 0 {
		// the selected item disappeared from the new catalog
		return m.apply(m.deps.Conversion.SelectItem(""))
	}
	return nil
}

// notify queues a toast, schedules its removal and mirrors it if configured.
func (m *Model) notify(kind domain.NotificationKind, message string) tea.Cmd {
	n := m.deps.Notifier.Notify(m.ctx, kind, message)
	cmds := []tea.Cmd{tea.Tick(m.deps.Notifier.TTL(), func(time.Time) tea.Msg {
		return dismissMsg{id: n.ID}
	})}
	if m.deps.Notifier.ShouldMirror(kind) {
		cmds = append(cmds, safe(func() tea.Msg {
			ctx, cancel := context.WithTimeout(m.ctx, mirrorTimeout)
			defer cancel()
			if err := m.deps.Notifier.Mirror(ctx, n); err != nil {
				m.logger.Warn("mirror failed", slog.String("error", err.Error()))
			}
			return nil
		}))
	}
	return tea.Batch(cmds...)
}
