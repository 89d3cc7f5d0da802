package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alanyoungcy/btcconvert/internal/chart"
	"github.com/alanyoungcy/btcconvert/internal/controller"
	"github.com/alanyoungcy/btcconvert/internal/domain"
)

const selectorRows = 8

// View renders the whole screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("₿ btcconvert"))
	if m.Loading() {
		b.WriteString("  " + m.spinner.View() + dimStyle.Render(" loading"))
	}
	b.WriteString("\n\n")

	m.viewSelector(&b)
	b.WriteString("\n")
	m.viewConversion(&b)

	if m.showHistory {
		b.WriteString("\n")
		m.viewHistory(&b)
	}

	if toasts := m.viewToasts(); toasts != "" {
		b.WriteString("\n" + toasts + "\n")
	}
	b.WriteString("\n" + m.help.ShortHelpView(keys.ShortHelp()))
	return b.String()
}

func (m *Model) box(f field, content string) string {
	if m.focus == f {
		return focusedBox.Render(content)
	}
	return blurredBox.Render(content)
}

func (m *Model) viewSelector(b *strings.Builder) {
	if m.focus != fieldItem {
		label := m.options[m.cursor].label
		if m.cursor == 0 {
			label = dimStyle.Render(label)
		}
		b.WriteString(labelStyle.Render("Item") + m.box(fieldItem, label) + "\n")
		return
	}

	start := max(0, m.cursor-selectorRows/2)
	end := min(len(m.options), start+selectorRows)
	start = max(0, end-selectorRows)

	var lines []string
	lastCategory := ""
	if start > 0 {
		lastCategory = m.options[start-1].category
	}
	for i := start; i < end; i++ {
		opt := m.options[i]
		if opt.category != "" && opt.category != lastCategory {
			lines = append(lines, headerStyle.Render(opt.category))
			lastCategory = opt.category
		}
		line := "  " + opt.label
		if i == m.cursor {
			line = selectedStyle.Render("> " + opt.label)
		} else if opt.key == "" {
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if m.catalogLoading && len(m.options) == 1 {
		lines = append(lines, dimStyle.Render("  loading items..."))
	}
	b.WriteString(labelStyle.Render("Item") + m.box(fieldItem, strings.Join(lines, "\n")) + "\n")
}

func (m *Model) viewConversion(b *strings.Builder) {
	st := m.deps.Conversion.State()
	item, selected := m.deps.Conversion.SelectedItem()
	itemName := "item"
	if selected {
		itemName = item.DisplayName
	}

	var (
		inputLabel, outputUnit, direction string
		content                           controller.Panel
	)
	switch v := m.deps.Conversion.View().(type) {
	case controller.BtcToItemView:
		inputLabel, outputUnit, content = v.InputLabel(), v.OutputUnit(), v.Panel
		direction = st.Unit.Label() + " → " + itemName
	case controller.ItemToBtcView:
		inputLabel, outputUnit, content = v.InputLabel(), v.OutputUnit(), v.Panel
		direction = itemName + " → " + st.Unit.Label()
	}

	btc, sats := inactiveUnit, inactiveUnit
	if st.Unit == domain.UnitSatoshi {
		sats = activeUnit
	} else {
		btc = activeUnit
	}
	b.WriteString(labelStyle.Render("Direction") + valueStyle.Render(direction) + "   " +
		btc.Render("BTC") + sats.Render("sats") + "\n")

	b.WriteString(labelStyle.Render(inputLabel) + m.box(fieldInput, m.input.View()) + "\n")

	summary := controller.Placeholder
	if content.Result != nil {
		summary = *content.Result
	}
	rows := [][2]string{
		{"Result", strings.TrimSpace(summary.Output + " " + outputUnit)},
		{"Item price", summary.UnitPrice},
		{"Total value", summary.Total},
		{"BTC price", summary.BtcPrice},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]) + valueStyle.Render(r[1]) + "\n")
	}
}

func (m *Model) viewHistory(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Price history") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		labelStyle.Render("From"), m.box(fieldFrom, m.from.View()),
		"  ", labelStyle.Render("To"), m.box(fieldTo, m.to.View()),
	))
	b.WriteString("\n" + dimStyle.Render("enter on a date loads the chart") + "\n")

	if view := m.deps.Charts.Chart(); view != nil {
		width := m.width - 20
		if width <= 0 {
			width = 60
		}
		b.WriteString("\n" + chart.Render(view, width, 10) + "\n")
	}
}

func (m *Model) viewToasts() string {
	active := m.deps.Notifier.Active()
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, len(active))
	for i, n := range active {
		style := toastInfo
		if n.Kind == domain.NotificationError {
			style = toastError
		}
		lines[i] = style.Render(fmt.Sprintf("%s %s", icon(n.Kind), n.Message))
	}
	return strings.Join(lines, "\n")
}

func icon(kind domain.NotificationKind) string {
	if kind == domain.NotificationError {
		return "✗"
	}
	return "✓"
}
