package manager

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/dmitrijs2005/donadmin/internal/client/services"
	"github.com/dmitrijs2005/donadmin/internal/client/session"
	"github.com/dmitrijs2005/donadmin/internal/logging"
)

const MsgBadCredentials = "Email or password is incorrect"

// LoginManager drives the login form.
type LoginManager struct {
	mu       sync.Mutex
	form     *form.Form[models.User]
	sessions services.SessionService
	session  *session.Session
	notifier Notifier
	logger   logging.Logger
	waiting  bool
}

// NewLoginManager returns a login form bound to sess.
func NewLoginManager(sessions services.SessionService, sess *session.Session, notifier Notifier, logger logging.Logger) *LoginManager {
	f := form.New(form.UserTable, services.UsersPath, models.UserTemplate()).WithValidator("email", form.Email)
	f.SetMode(form.Login)
	return &LoginManager{form: f, sessions: sessions, session: sess, notifier: notifier, logger: logger}
}

func (l *LoginManager) SetField(field, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.form.Set(field, text)
}

func (l *LoginManager) Draft() models.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.form.Draft()
}

func (l *LoginManager) Mask() form.Mask {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.form.Mask(l.session.Authenticated())
}

func (l *LoginManager) FieldErrors() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.form.Errors()
}

// Submit logs in with the draft credentials and returns the page to go
// to next.
func (l *LoginManager) Submit(ctx context.Context) (string, error) {
	l.mu.Lock()
	if l.waiting {
		l.mu.Unlock()
		return "", ErrBusy
	}
	if _, err := l.form.Submit(l.session.Authenticated()); err != nil {
		l.mu.Unlock()
		return "", err
	}
	draft := l.form.Draft()
	l.waiting = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.waiting = false
		l.mu.Unlock()
	}()

	user, err := l.sessions.Login(ctx, models.Credentials{Email: draft.Email, Password: draft.Password})
	if err != nil {
		l.logger.Warn(ctx, "login failed", "email", draft.Email, "error", err)
		text := MsgBadCredentials
		if errors.Is(err, rest.ErrUnavailable) {
			text = err.Error()
		}
		l.notifier.Notify(Notification{Text: text, Severity: Error})
		return "", err
	}

	l.mu.Lock()
	l.form.Reset()
	l.mu.Unlock()

	l.logger.Info(ctx, "logged in", "user", user.ID)
	next := l.session.Login(user)
	l.notifier.Notify(Notification{Text: "Welcome, " + user.Name + "!", Severity: Success})
	return next, nil
}

// Logout ends the session.
func (l *LoginManager) Logout(ctx context.Context) {
	l.session.Logout(ctx)
	l.notifier.Notify(Notification{Text: "Logged out", Severity: Info})
}
