package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/manager"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/dmitrijs2005/donadmin/internal/client/session"
)

var (
	errNoPage    = errors.New("page not found")
	errNoForm    = errors.New("open a record or a new form first")
	errNoTable   = errors.New("open a table first")
	errNotOnAds  = errors.New("photos belong to ads")
	errLoggedIn  = errors.New("already logged in")
	errLoggedOut = errors.New("not logged in")
)

// reported tells errors the managers already showed to the user.
func reported(err error) bool {
	var httpErr *rest.HTTPError
	return errors.As(err, &httpErr) ||
		errors.Is(err, rest.ErrUnavailable) ||
		errors.Is(err, form.ErrGuest) ||
		errors.Is(err, manager.ErrPartial)
}

// current returns the screen owning the shown page.
func (a *App) current() (screen, bool) {
	for _, s := range a.screens() {
		if a.location == s.Path() || strings.HasPrefix(a.location, s.Path()+"/") {
			return s, true
		}
	}
	return nil, false
}

// Go navigates to path and renders it.
func (a *App) Go(ctx context.Context, path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.navigate(ctx, path)
}

func (a *App) navigate(ctx context.Context, path string) error {
	if path == "" {
		path = session.HomePath
	}
	if session.IsPrivate(path) && !a.session.Require(path) {
		printlnFn(mutedStyle.Render("Log in to see " + path))
		path = LoginPath
	}
	a.location = path

	switch path {
	case session.HomePath:
		printlnFn(titleStyle.Render("donadmin"))
		printlnFn(mutedStyle.Render("pages: ads, carousel, users, login"))
		return nil

	case LoginPath:
		if a.isLoggedIn() {
			printlnFn(mutedStyle.Render("Already logged in, type logout first"))
		} else {
			printlnFn(mutedStyle.Render("Type login to sign in"))
		}
		return nil

	case CarouselPath:
		if err := a.ads.Navigate(ctx, ""); err != nil {
			return err
		}
		printlnFn(renderCarousel(a.ads.Carousel()))
		return nil
	}

	s, ok := a.current()
	if !ok {
		return fmt.Errorf("%w: %s", errNoPage, path)
	}
	id := strings.TrimPrefix(strings.TrimPrefix(path, s.Path()), "/")
	if err := s.Navigate(ctx, id); err != nil {
		return err
	}
	a.render(s)
	return nil
}

func (a *App) render(s screen) {
	if s.DialogOpen() || s.Route().View == manager.Detail {
		printlnFn(s.renderForm())
		return
	}
	printlnFn(s.renderTable())
}

// formScreen is the current screen when it shows a form.
func (a *App) formScreen() (screen, error) {
	s, ok := a.current()
	if !ok || (!s.DialogOpen() && s.Route().View != manager.Detail) {
		return nil, errNoForm
	}
	return s, nil
}

func (a *App) Login(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isLoggedIn() {
		return errLoggedIn
	}
	email, err := GetSimpleText(a.in, "Email", os.Stdout)
	if err != nil {
		return err
	}
	pw, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	if err := a.login.SetField("email", email); err != nil {
		return err
	}
	if err := a.login.SetField("password", string(pw)); err != nil {
		return err
	}
	clear(pw)

	next, err := a.login.Submit(ctx)
	if errors.Is(err, form.ErrInvalid) {
		printFieldErrors(a.login.FieldErrors())
	}
	if err != nil {
		return err
	}
	return a.navigate(ctx, next)
}

func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.isLoggedIn() {
		return errLoggedOut
	}
	a.login.Logout(ctx)
	return nil
}

// New opens the create dialog of the current resource.
func (a *App) New(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.current()
	if !ok {
		return errNoTable
	}
	if err := s.OpenCreate(); err != nil {
		return err
	}
	printlnFn(s.renderForm())
	return nil
}

// Close leaves the create dialog.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.current()
	if !ok || !s.DialogOpen() {
		return errNoForm
	}
	if err := s.CloseCreate(ctx); err != nil {
		return err
	}
	a.render(s)
	return nil
}

func (a *App) Set(ctx context.Context, field, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.formScreen()
	if err != nil {
		return err
	}
	if field == "" {
		return fmt.Errorf("%w: set <field> <value>", errUsage)
	}
	if field == "password" && value == "" {
		pw, err := GetPassword(os.Stdout)
		if err != nil {
			return err
		}
		value = string(pw)
		clear(pw)
	}
	if err := s.SetField(field, value); err != nil {
		return err
	}
	printlnFn(s.renderForm())
	return nil
}

func (a *App) Generate(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.formScreen()
	if err != nil {
		return err
	}
	if err := s.Generate(); err != nil {
		return err
	}
	printlnFn(s.renderForm())
	return nil
}

func (a *App) Submit(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, err := a.formScreen()
	if err != nil {
		return err
	}
	err = s.Submit(ctx)
	if errors.Is(err, form.ErrInvalid) {
		printlnFn(s.renderForm())
	}
	if err != nil {
		return err
	}
	a.render(s)
	return nil
}

// Destroy deletes the shown record, or the selected rows of a table.
func (a *App) Destroy(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.current()
	if !ok {
		return errNoTable
	}
	if s.Route().View == manager.Detail {
		return s.Destroy(ctx)
	}
	err := s.BulkDestroy(ctx)
	if err == nil || errors.Is(err, manager.ErrPartial) {
		printlnFn(s.renderTable())
	}
	return err
}

// Photo uploads file as the photo of the ad in the form.
func (a *App) Photo(ctx context.Context, file string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.adForm(); err != nil {
		return err
	}
	if file == "" {
		return fmt.Errorf("%w: photo <file>", errUsage)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if err := a.ads.ChangePhoto(ctx, http.DetectContentType(data), data); err != nil {
		return err
	}
	printlnFn(renderForm(a.ads.Manager))
	return nil
}

func (a *App) Unphoto(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.adForm(); err != nil {
		return err
	}
	if err := a.ads.DestroyPhoto(ctx); err != nil {
		return err
	}
	printlnFn(renderForm(a.ads.Manager))
	return nil
}

func (a *App) adForm() error {
	s, err := a.formScreen()
	if err != nil {
		return err
	}
	if s.Path() != a.ads.Path() {
		return errNotOnAds
	}
	return nil
}

// Table runs a table command against the current collection.
func (a *App) Table(ctx context.Context, cmd string, args []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.current()
	if !ok || s.Route().View != manager.Collection {
		return errNoTable
	}
	if err := s.tableCommand(cmd, args); err != nil {
		return err
	}
	printlnFn(s.renderTable())
	return nil
}

func printFieldErrors(errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		printlnFn(errorStyle.Render(f + ": " + errs[f]))
	}
}

func joinFrom(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return strings.Join(args[i:], " ")
}
