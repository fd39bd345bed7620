// Package manager wires a cache, a table, a form and the session together
// for one entity type and implements the collection and detail flows of
// the console.
//
// Every failing API call ends up as a Notification and leaves the cache as
// it was. Actions are guarded by waiting flags: starting an action whose
// flag is already set returns ErrBusy.
package manager

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/donadmin/internal/client/cache"
	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/services"
	"github.com/dmitrijs2005/donadmin/internal/client/session"
	"github.com/dmitrijs2005/donadmin/internal/client/table"
	"github.com/dmitrijs2005/donadmin/internal/logging"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRedirectDelay = 6 * time.Second
	DefaultLogoutDelay   = 3 * time.Second
)

var (
	ErrBusy        = errors.New("still waiting for the previous request")
	ErrNoSelection = errors.New("no rows selected")
	ErrNotDetail   = errors.New("open a record first")
	// ErrPartial means some deletions of a bulk destroy failed; each was
	// already notified.
	ErrPartial = errors.New("some deletions failed")
)

// Wait names an action that can be in flight.
type Wait string

const (
	WaitLoad         Wait = "load"
	WaitSubmit       Wait = "submit"
	WaitDestroy      Wait = "destroy"
	WaitPhoto        Wait = "photo"
	WaitPhotoDestroy Wait = "photoDestroy"
)

// View is the page a manager shows.
type View int

const (
	Collection View = iota
	Detail
)

// Route is where the manager currently is.
type Route struct {
	View View
	ID   string
}

// Hooks carry what differs between entity types.
type Hooks[T any] struct {
	// Noun prefixes notifications: "Ad", "User".
	Noun string
	// Label names a new record in the created notification.
	Label func(rec T) string
	// Generate fills the draft with sample values; nil disables it.
	Generate func(draft T) T
	// BeforeDestroy runs before each delete request. It reports its own
	// failures; the delete goes ahead regardless.
	BeforeDestroy func(ctx context.Context, rec T)
	// AfterDestroy gets the ids that were deleted successfully. bulk is
	// set when they came from the collection view.
	AfterDestroy func(ctx context.Context, ids []string, bulk bool)
	// DescribeError turns a failed action into notification text; nil
	// uses the error text.
	DescribeError func(action string, err error) string
}

// Manager drives the collection and detail views of one entity type.
type Manager[T models.Record[T]] struct {
	mu sync.Mutex

	service services.RecordService[T]
	cache   *cache.Cache[T]
	table   *table.Table[T]
	form    *form.Form[T]
	session *session.Session
	hooks   Hooks[T]

	notifier      Notifier
	scheduler     Scheduler
	logger        logging.Logger
	redirect      func(path string)
	redirectDelay time.Duration
	logoutDelay   time.Duration

	route      Route
	dialogOpen bool
	waiting    map[Wait]bool
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	scheduler     Scheduler
	logger        logging.Logger
	redirect      func(string)
	redirectDelay time.Duration
	logoutDelay   time.Duration
}

func WithScheduler(s Scheduler) Option         { return func(o *options) { o.scheduler = s } }
func WithLogger(l logging.Logger) Option       { return func(o *options) { o.logger = l } }
func WithRedirect(fn func(path string)) Option { return func(o *options) { o.redirect = fn } }
func WithRedirectDelay(d time.Duration) Option { return func(o *options) { o.redirectDelay = d } }
func WithLogoutDelay(d time.Duration) Option   { return func(o *options) { o.logoutDelay = d } }

func buildOptions(opts []Option) options {
	o := options{
		scheduler:     RealScheduler,
		logger:        logging.NewNop(),
		redirect:      func(string) {},
		redirectDelay: DefaultRedirectDelay,
		logoutDelay:   DefaultLogoutDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds a manager for the collection served by svc.
func New[T models.Record[T]](
	svc services.RecordService[T],
	f *form.Form[T],
	sess *session.Session,
	notifier Notifier,
	hooks Hooks[T],
	opts ...Option,
) *Manager[T] {
	o := buildOptions(opts)
	f.SetMode(form.Edit)
	return &Manager[T]{
		service:       svc,
		cache:         cache.New[T](svc),
		table:         table.New(f.Template()),
		form:          f,
		session:       sess,
		hooks:         hooks,
		notifier:      notifier,
		scheduler:     o.scheduler,
		logger:        o.logger.With("resource", svc.Path()),
		redirect:      o.redirect,
		redirectDelay: o.redirectDelay,
		logoutDelay:   o.logoutDelay,
		waiting:       map[Wait]bool{},
	}
}

// Path is the collection path, used both as API path and page path.
func (m *Manager[T]) Path() string { return m.service.Path() }

func (m *Manager[T]) Cache() *cache.Cache[T] { return m.cache }

func (m *Manager[T]) Route() Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.route
}

func (m *Manager[T]) DialogOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialogOpen
}

func (m *Manager[T]) Waiting(w Wait) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waiting[w]
}

func (m *Manager[T]) beginWait(w Wait) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waiting[w] {
		return ErrBusy
	}
	m.waiting[w] = true
	return nil
}

func (m *Manager[T]) endWait(w Wait) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.waiting, w)
}

func (m *Manager[T]) notify(text string, sev Severity) {
	m.notifier.Notify(Notification{Text: text, Severity: sev})
}

func (m *Manager[T]) fail(ctx context.Context, action string, err error) error {
	m.logger.Warn(ctx, action+" failed", "error", err)
	text := err.Error()
	if m.hooks.DescribeError != nil {
		text = m.hooks.DescribeError(action, err)
	}
	m.notify(text, Error)
	return err
}

// Navigate shows the collection when id is empty and record id otherwise.
// A detail record is taken from the cache when present and fetched
// otherwise.
func (m *Manager[T]) Navigate(ctx context.Context, id string) error {
	if err := m.beginWait(WaitLoad); err != nil {
		return err
	}
	defer m.endWait(WaitLoad)

	m.mu.Lock()
	m.route = Route{View: Collection, ID: id}
	if id != "" {
		m.route.View = Detail
	}
	m.dialogOpen = false
	m.table.ClearSelection()
	m.form.SetMode(form.Edit)
	m.mu.Unlock()

	if id == "" {
		m.mu.Lock()
		m.form.Reset()
		m.mu.Unlock()
		if _, err := m.cache.LoadAll(ctx); err != nil {
			return m.fail(ctx, "load", err)
		}
		return nil
	}

	return m.loadDetail(ctx, id)
}

func (m *Manager[T]) loadDetail(ctx context.Context, id string) error {
	if rec, ok := m.cache.Find(id); ok {
		m.cache.Select(rec)
		m.mu.Lock()
		m.form.Load(rec)
		m.mu.Unlock()
		return nil
	}

	rec, err := m.cache.LoadOne(ctx, id)
	if err != nil {
		return m.fail(ctx, "load", err)
	}
	m.mu.Lock()
	m.form.Load(rec)
	m.mu.Unlock()
	return nil
}

// OpenCreate opens the create dialog over the current view with a fresh
// draft.
func (m *Manager[T]) OpenCreate() error {
	if !m.session.Authenticated() {
		return form.ErrGuest
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogOpen = true
	m.form.SetMode(form.Create)
	m.form.Reset()
	return nil
}

// CloseCreate closes the dialog and restores the draft of the view below
// it: the detail record from the cache (or refetched), or the template.
func (m *Manager[T]) CloseCreate(ctx context.Context) error {
	m.mu.Lock()
	m.dialogOpen = false
	m.form.SetMode(form.Edit)
	route := m.route
	m.mu.Unlock()

	if route.View != Detail {
		m.mu.Lock()
		m.form.Reset()
		m.mu.Unlock()
		return nil
	}
	if sel, ok := m.cache.Selected(); ok && sel.GetID() == route.ID {
		if rec, found := m.cache.Find(route.ID); found {
			sel = rec
		}
		m.mu.Lock()
		m.form.Load(sel)
		m.mu.Unlock()
		return nil
	}
	return m.loadDetail(ctx, route.ID)
}

// Draft is the record being edited.
func (m *Manager[T]) Draft() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.Draft()
}

func (m *Manager[T]) Mode() form.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.Mode()
}

// Mask is the visibility of the form for the current user.
func (m *Manager[T]) Mask() form.Mask {
	auth := m.session.Authenticated()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.Mask(auth)
}

func (m *Manager[T]) FieldErrors() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.Errors()
}

func (m *Manager[T]) SetField(field, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.Set(field, text)
}

// Generate fills the draft with sample values where the entity supports it.
func (m *Manager[T]) Generate() error {
	if m.hooks.Generate == nil {
		return fmt.Errorf("%s has no generator", m.hooks.Noun)
	}
	m.updateDraft(m.hooks.Generate)
	return nil
}

// updateDraft replaces the draft with fn applied to it.
func (m *Manager[T]) updateDraft(fn func(T) T) T {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := fn(m.form.Draft())
	m.form.Load(next)
	return next
}

// Submit sends the draft with the action of the current mode.
//
// Create: on success the record is appended to a resident cache, the
// dialog closes and the draft is restored. Update: a resident cache gets
// the new copy and a redirect to the collection is scheduled; the draft
// is reset to the template whatever the outcome.
func (m *Manager[T]) Submit(ctx context.Context) error {
	if err := m.beginWait(WaitSubmit); err != nil {
		return err
	}
	defer m.endWait(WaitSubmit)

	auth := m.session.Authenticated()
	m.mu.Lock()
	d, err := m.form.Submit(auth)
	draft := m.form.Draft()
	m.mu.Unlock()

	switch {
	case errors.Is(err, form.ErrGuest):
		m.notify("Sign in first", Warning)
		return err
	case err != nil:
		return err
	}

	rec, err := m.service.Send(ctx, d.Verb, d.Path, draft)

	switch d.Name {
	case form.ActionCreate:
		if err != nil {
			return m.fail(ctx, d.Name, err)
		}
		if m.cache.Resident() {
			m.cache.Insert(rec)
		}
		m.notify(fmt.Sprintf("%s %s created!", m.hooks.Noun, m.label(draft)), Success)
		m.logger.Info(ctx, "record created", "id", rec.GetID())
		return m.CloseCreate(ctx)

	case form.ActionUpdate:
		m.mu.Lock()
		m.form.Reset()
		m.mu.Unlock()
		if err != nil {
			return m.fail(ctx, d.Name, err)
		}
		m.logger.Info(ctx, "record updated", "id", rec.GetID())
		if m.cache.ReplaceSelected(rec) {
			m.notify(fmt.Sprintf("%s %s updated! Redirecting in %d seconds to table...",
				m.hooks.Noun, draft.GetID(), int(m.redirectDelay.Seconds())), Success)
			path := m.Path()
			m.scheduler.AfterFunc(m.redirectDelay, func() { m.redirect(path) })
			return nil
		}
		m.notify(fmt.Sprintf("%s %s updated!", m.hooks.Noun, draft.GetID()), Success)
		return nil
	}

	return err
}

func (m *Manager[T]) label(rec T) string {
	if m.hooks.Label != nil {
		return m.hooks.Label(rec)
	}
	return rec.GetID()
}

// Destroy deletes the record of the detail view.
func (m *Manager[T]) Destroy(ctx context.Context) error {
	if err := m.beginWait(WaitDestroy); err != nil {
		return err
	}
	defer m.endWait(WaitDestroy)

	auth := m.session.Authenticated()
	m.mu.Lock()
	route := m.route
	draft := m.form.Draft()
	_, err := m.form.Destroy(auth)
	m.mu.Unlock()

	if route.View != Detail || draft.GetID() == "" {
		return ErrNotDetail
	}
	if err != nil {
		if errors.Is(err, form.ErrGuest) {
			m.notify("Sign in first", Warning)
		}
		return err
	}

	if m.hooks.BeforeDestroy != nil {
		m.hooks.BeforeDestroy(ctx, draft)
	}
	if err := m.service.Delete(ctx, draft.GetID()); err != nil {
		return m.fail(ctx, form.ActionDestroy, err)
	}
	m.logger.Info(ctx, "record destroyed", "id", draft.GetID())

	resident := m.cache.Resident()
	m.cache.RemoveIDs(draft.GetID())
	m.mu.Lock()
	m.form.Reset()
	m.mu.Unlock()

	if resident {
		m.notify(fmt.Sprintf("%s destroyed!", m.hooks.Noun), Success)
		m.redirect(m.Path())
	} else {
		m.notify(fmt.Sprintf("%s %s deleted!", m.hooks.Noun, draft.GetID()), Success)
	}

	if m.hooks.AfterDestroy != nil {
		m.hooks.AfterDestroy(ctx, []string{draft.GetID()}, false)
	}
	return nil
}

type outcome struct {
	id  string
	err error
}

// BulkDestroy deletes every selected record with one request each, all in
// flight together. Each failure is reported on its own; records that were
// deleted stay deleted. The cache is updated once all requests settled.
func (m *Manager[T]) BulkDestroy(ctx context.Context) error {
	if !m.session.Authenticated() {
		m.notify("Sign in first", Warning)
		return form.ErrGuest
	}
	if err := m.beginWait(WaitDestroy); err != nil {
		return err
	}
	defer m.endWait(WaitDestroy)

	m.mu.Lock()
	ids := m.table.SelectedIDs(m.cache.Items())
	m.mu.Unlock()
	if len(ids) == 0 {
		return ErrNoSelection
	}

	results := make([]outcome, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			if rec, ok := m.cache.Find(id); ok && m.hooks.BeforeDestroy != nil {
				m.hooks.BeforeDestroy(ctx, rec)
			}
			results[i] = outcome{id: id, err: m.service.Delete(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()

	var deleted []string
	for _, r := range results {
		if r.err != nil {
			_ = m.fail(ctx, form.ActionDestroy, r.err)
			continue
		}
		deleted = append(deleted, r.id)
	}

	m.cache.RemoveIDs(deleted...)
	m.mu.Lock()
	m.table.ClearSelection()
	m.mu.Unlock()

	if len(deleted) > 0 {
		m.logger.Info(ctx, "records destroyed", "count", len(deleted))
		m.notify(fmt.Sprintf("%s(s) destroyed!", m.hooks.Noun), Success)
		if m.hooks.AfterDestroy != nil {
			m.hooks.AfterDestroy(ctx, deleted, true)
		}
	}
	if len(deleted) < len(ids) {
		return fmt.Errorf("%w: %d of %d", ErrPartial, len(ids)-len(deleted), len(ids))
	}
	return nil
}

// View renders the current page of the collection.
func (m *Manager[T]) View() table.View[T] {
	items := m.cache.Items()
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.View(items)
}

// Headers are the table columns.
func (m *Manager[T]) Headers() []table.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.Headers()
}

// UpdateTable runs fn against the table view-model.
func (m *Manager[T]) UpdateTable(fn func(t *table.Table[T]) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.table)
}

// SelectAll selects every cached record.
func (m *Manager[T]) SelectAll() {
	items := m.cache.Items()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.SelectAll(items)
}

func (m *Manager[T]) selfDeleted(ids []string) bool {
	me, ok := m.session.Identity()
	return ok && slices.Contains(ids, me.ID)
}
