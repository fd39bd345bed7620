package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/donadmin/internal/client/config"
	"github.com/dmitrijs2005/donadmin/internal/client/manager"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/dmitrijs2005/donadmin/internal/client/services"
	"github.com/dmitrijs2005/donadmin/internal/client/session"
	"github.com/dmitrijs2005/donadmin/internal/client/table"
	"github.com/dmitrijs2005/donadmin/internal/logging"
)

// Mode is the connectivity state shown in the prompt.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	LoginPath    = "/login"
	CarouselPath = "/adsCarousel"
)

// App is the interactive admin console.
type App struct {
	mu sync.Mutex

	config  *config.Config
	logger  logging.Logger
	client  *rest.Client
	session *session.Session

	ads   *manager.AdManager
	users *manager.Manager[models.User]
	login *manager.LoginManager

	location  string
	redirects chan string
	in        *bufio.Scanner

	modeMu sync.Mutex
	mode   Mode
}

// NewApp wires the client stack from c.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, c.LogLevel)

	client, err := rest.New(c.APIBaseURL, rest.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return newApp(c, client, logger, os.Stdin)
}

func newApp(c *config.Config, client *rest.Client, logger logging.Logger, in io.Reader) (*App, error) {
	a := &App{
		config:    c,
		logger:    logger,
		client:    client,
		location:  session.HomePath,
		redirects: make(chan string, 16),
		in:        bufio.NewScanner(in),
	}

	sessions := services.NewSessionService(client)
	a.session = session.New(sessions, logger)
	notifier := consoleNotifier{}

	opts := []manager.Option{
		manager.WithLogger(logger),
		manager.WithRedirect(a.redirect),
		manager.WithRedirectDelay(c.RedirectDelay),
		manager.WithLogoutDelay(c.LogoutDelay),
	}
	a.ads = manager.NewAdManager(services.NewAdService(client), services.NewPhotoService(client), a.session, notifier, opts...)
	a.users = manager.NewUserManager(services.NewUserService(client), a.session, notifier, opts...)
	a.login = manager.NewLoginManager(sessions, a.session, notifier, logger)

	if c.PageSize > 0 {
		for _, s := range a.screens() {
			if err := s.setPageSize(c.PageSize); err != nil {
				return nil, err
			}
		}
	}

	a.session.Subscribe(func(identity *models.User) {
		if identity != nil {
			return
		}
		a.users.Cache().Clear()
		a.redirect(session.HomePath)
	})
	return a, nil
}

func (a *App) screens() []screen {
	return []screen{managed[models.Ad]{a.ads.Manager}, managed[models.User]{a.users}}
}

// Run starts the background goroutines and blocks in the REPL until the
// user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to donadmin (type 'help' for commands)")
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	go a.watchRedirects(ctx)

	_ = a.Go(ctx, session.HomePath)
	runREPL(ctx, a, a.status, a.in)

	if a.isLoggedIn() {
		a.session.Logout(context.WithoutCancel(ctx))
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

// status is the prompt prefix: who is signed in, connectivity and page.
func (a *App) status() string {
	s := ""
	if me, ok := a.session.Identity(); ok {
		s = me.Email + " "
	}
	a.modeMu.Lock()
	s += string(a.mode)
	a.modeMu.Unlock()

	a.mu.Lock()
	loc := a.location
	a.mu.Unlock()

	if s != "" {
		return "(" + s + ") " + loc
	}
	return loc
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

// ping reports whether the API answers at all; any HTTP status counts.
func (a *App) ping(ctx context.Context) error {
	err := a.client.Do(ctx, http.MethodHead, services.AdsPath, nil, nil)
	var httpErr *rest.HTTPError
	if errors.As(err, &httpErr) {
		return nil
	}
	return err
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// redirect queues a page change. It is safe to call while a command holds
// the app lock.
func (a *App) redirect(path string) {
	select {
	case a.redirects <- path:
	default:
		a.logger.Warn(context.Background(), "redirect dropped", "path", path)
	}
}

func (a *App) watchRedirects(ctx context.Context) {
	for {
		select {
		case path := <-a.redirects:
			if err := a.Go(ctx, path); err != nil && !reported(err) {
				printlnFn("Error:", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s managed[T]) setPageSize(n int) error {
	return s.UpdateTable(func(t *table.Table[T]) error { return t.SetPageSize(n) })
}
