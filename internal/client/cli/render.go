package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/manager"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	fieldStyle  = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("6"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("9")).Padding(0, 1)

	severityStyles = map[manager.Severity]lipgloss.Style{
		manager.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		manager.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		manager.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		manager.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// renderTable draws the current page of m with a selection column and,
// when the table is not dense, blank filler rows for a short last page.
func renderTable[T models.Record[T]](m *manager.Manager[T]) string {
	headers := m.Headers()
	view := m.View()

	var (
		dense    bool
		orderBy  string
		order    table.Order
		filterOn bool
		selected = map[string]bool{}
		count    int
	)
	_ = m.UpdateTable(func(t *table.Table[T]) error {
		dense = t.Dense()
		orderBy, order = t.Sort()
		filterOn = t.FilterOn()
		for _, r := range view.Rows {
			selected[r.GetID()] = t.IsSelected(r.GetID())
		}
		count = t.SelectedCount()
		return nil
	})

	labels := []string{"#", " "}
	for _, h := range headers {
		label := h.Label
		if h.ID == orderBy {
			label += map[table.Order]string{table.Asc: " ↑", table.Desc: " ↓"}[order]
		}
		labels = append(labels, label)
	}

	rows := make([][]string, 0, len(view.Rows)+view.EmptyRows)
	for i, r := range view.Rows {
		mark := "[ ]"
		if selected[r.GetID()] {
			mark = "[x]"
		}
		row := []string{fmt.Sprint(i + 1), mark}
		for _, h := range headers {
			row = append(row, table.Text(r.Value(h.ID)))
		}
		rows = append(rows, row)
	}
	if !dense {
		for range view.EmptyRows {
			rows = append(rows, make([]string, len(labels)))
		}
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(labels...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			if col >= 2 && headers[col-2].AlignRight {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.TrimPrefix(m.Path(), "/")))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")

	pages := max(view.PageCount, 1)
	footer := fmt.Sprintf("page %d of %d, %d rows", view.Page+1, pages, view.Total)
	if count > 0 {
		footer += fmt.Sprintf(", %d selected", count)
	}
	if filterOn {
		footer += ", filtered"
	}
	b.WriteString(mutedStyle.Render(footer))
	return b.String()
}

// renderForm draws the draft with the fields and actions its mask shows.
func renderForm[T models.Record[T]](m *manager.Manager[T]) string {
	draft := m.Draft()
	mask := m.Mask()
	errs := m.FieldErrors()

	var b strings.Builder
	noun := strings.TrimSuffix(strings.TrimPrefix(m.Path(), "/"), "s")
	if m.Mode() == form.Create {
		b.WriteString(titleStyle.Render("new " + noun))
	} else {
		b.WriteString(titleStyle.Render(noun + " " + draft.GetID()))
	}
	b.WriteString("\n")

	for _, f := range draft.Fields() {
		if !mask[f] {
			continue
		}
		value := table.Text(draft.Value(f))
		if f == "password" && value != "" {
			value = "********"
		}
		b.WriteString(fieldStyle.Render(f))
		b.WriteString(value)
		if msg, ok := errs[f]; ok {
			b.WriteString("  ")
			b.WriteString(errorStyle.Render(msg))
		}
		b.WriteString("\n")
	}

	actions := mask.Actions()
	if len(actions) == 0 {
		b.WriteString(mutedStyle.Render("read only, log in to edit"))
	} else {
		b.WriteString(mutedStyle.Render("actions: " + strings.Join(actions, ", ")))
	}
	return b.String()
}

// renderCarousel lists the ads that have a photo.
func renderCarousel(ads []models.Ad) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("carousel"))
	b.WriteString("\n")
	if len(ads) == 0 {
		b.WriteString(mutedStyle.Render("no photos yet"))
		return b.String()
	}
	for i, a := range ads {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, a.Title, mutedStyle.Render(a.Photo))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// consoleNotifier prints notifications as styled lines.
type consoleNotifier struct{}

func (consoleNotifier) Notify(n manager.Notification) {
	printlnFn(severityStyles[n.Severity].Render(fmt.Sprintf("[%s] %s", n.Severity, n.Text)))
}

func (consoleNotifier) Alert(text string) {
	printlnFn(alertStyle.Render("! " + text))
}
