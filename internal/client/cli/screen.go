package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/manager"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/table"
)

var errUsage = errors.New("usage")

// screen is what the console needs from a resource manager, whatever its
// record type.
type screen interface {
	Path() string
	Route() manager.Route
	Navigate(ctx context.Context, id string) error
	OpenCreate() error
	CloseCreate(ctx context.Context) error
	DialogOpen() bool
	Mode() form.Mode
	SetField(field, text string) error
	Generate() error
	Submit(ctx context.Context) error
	Destroy(ctx context.Context) error
	BulkDestroy(ctx context.Context) error

	renderTable() string
	renderForm() string
	tableCommand(cmd string, args []string) error
	setPageSize(n int) error
}

type managed[T models.Record[T]] struct {
	*manager.Manager[T]
}

func (s managed[T]) renderTable() string { return renderTable(s.Manager) }
func (s managed[T]) renderForm() string  { return renderForm(s.Manager) }

// tableCommand applies sort, filter, page, rows, select and dense to the
// collection view. Row and page numbers are 1-based.
func (s managed[T]) tableCommand(cmd string, args []string) error {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	switch cmd {
	case "sort":
		if arg(0) == "" {
			return fmt.Errorf("%w: sort <field>", errUsage)
		}
		return s.UpdateTable(func(t *table.Table[T]) error { return t.RequestSort(arg(0)) })

	case "filter":
		switch arg(0) {
		case "":
			return fmt.Errorf("%w: filter on|off|<field> [text]", errUsage)
		case "on", "off":
			return s.UpdateTable(func(t *table.Table[T]) error {
				t.SetFilterOn(arg(0) == "on")
				return nil
			})
		}
		return s.UpdateTable(func(t *table.Table[T]) error {
			t.SetFilterOn(true)
			return t.SetFilter(arg(0), joinFrom(args, 1))
		})

	case "page":
		n, err := strconv.Atoi(arg(0))
		if err != nil || n < 1 {
			return fmt.Errorf("%w: page <n>", errUsage)
		}
		return s.UpdateTable(func(t *table.Table[T]) error {
			t.SetPage(n - 1)
			return nil
		})

	case "rows":
		if arg(0) == "all" {
			return s.UpdateTable(func(t *table.Table[T]) error {
				t.SetAllRows()
				return nil
			})
		}
		n, err := strconv.Atoi(arg(0))
		if err != nil {
			return fmt.Errorf("%w: rows <n>|all", errUsage)
		}
		return s.setPageSize(n)

	case "select":
		switch arg(0) {
		case "all":
			s.SelectAll()
			return nil
		case "none":
			return s.UpdateTable(func(t *table.Table[T]) error {
				t.ClearSelection()
				return nil
			})
		}
		n, err := strconv.Atoi(arg(0))
		if err != nil {
			return fmt.Errorf("%w: select <n>|all|none", errUsage)
		}
		return s.UpdateTable(func(t *table.Table[T]) error {
			_, err := t.ToggleSelect(n - 1)
			return err
		})

	case "dense":
		if arg(0) != "on" && arg(0) != "off" {
			return fmt.Errorf("%w: dense on|off", errUsage)
		}
		return s.UpdateTable(func(t *table.Table[T]) error {
			t.SetDense(arg(0) == "on")
			return nil
		})
	}
	return fmt.Errorf("unknown table command %q", cmd)
}
