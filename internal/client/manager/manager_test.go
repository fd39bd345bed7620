package manager

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/dmitrijs2005/donadmin/internal/client/session"
	"github.com/dmitrijs2005/donadmin/internal/client/table"
	"github.com/dmitrijs2005/donadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = models.User{ID: "me", Email: "admin@example.com", Name: "Admin"}

type adEnv struct {
	svc       *fakeService[models.Ad]
	photos    *fakePhotos
	sess      *session.Session
	notes     *recorder
	sched     *manualScheduler
	redirects []string
	m         *AdManager
}

func newAdEnv(t *testing.T, loggedIn bool, ids ...string) *adEnv {
	t.Helper()
	e := &adEnv{
		svc:    adsService(ids...),
		photos: &fakePhotos{},
		sess:   session.New(&fakeTerminator{}, logging.NewNop()),
		notes:  &recorder{},
		sched:  &manualScheduler{},
	}
	if loggedIn {
		e.sess.Login(admin)
	}
	e.m = NewAdManager(e.svc, e.photos, e.sess, e.notes,
		WithScheduler(e.sched),
		WithRedirect(func(p string) { e.redirects = append(e.redirects, p) }),
	)
	return e
}

func cachedIDs(m *Manager[models.Ad]) string {
	s := ""
	for _, a := range m.Cache().Items() {
		s += a.ID
	}
	return s
}

func TestNavigate_Collection(t *testing.T) {
	e := newAdEnv(t, false, "A", "B", "C")
	ctx := context.Background()

	require.NoError(t, e.m.Navigate(ctx, ""))
	assert.Equal(t, Route{View: Collection}, e.m.Route())
	assert.Equal(t, "ABC", cachedIDs(e.m.Manager))
	assert.Equal(t, models.AdTemplate(), e.m.Draft())

	v := e.m.View()
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 7, v.EmptyRows)
}

func TestNavigate_LoadFailureNotifiesAndKeepsCache(t *testing.T) {
	e := newAdEnv(t, false, "A", "B")
	ctx := context.Background()
	require.NoError(t, e.m.Navigate(ctx, ""))

	e.svc.listErr = errBoom
	err := e.m.Navigate(ctx, "")
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"Internal Server Error"}, e.notes.texts(Error))
	assert.Equal(t, "AB", cachedIDs(e.m.Manager))
}

func TestNavigate_DetailPrefersCache(t *testing.T) {
	e := newAdEnv(t, false, "A", "B")
	ctx := context.Background()

	require.NoError(t, e.m.Navigate(ctx, ""))
	require.NoError(t, e.m.Navigate(ctx, "B"))
	assert.Equal(t, 0, e.svc.gets, "resident record is not refetched")
	assert.Equal(t, "B", e.m.Draft().ID)
	assert.Equal(t, Route{View: Detail, ID: "B"}, e.m.Route())
}

func TestNavigate_DeepLinkFetches(t *testing.T) {
	e := newAdEnv(t, false, "A", "B")
	ctx := context.Background()

	require.NoError(t, e.m.Navigate(ctx, "A"))
	assert.Equal(t, 1, e.svc.gets)
	assert.Equal(t, "A", e.m.Draft().ID)
	assert.Zero(t, e.m.Cache().Len(), "a single fetch does not fill the collection")

	err := e.m.Navigate(ctx, "Z")
	require.Error(t, err)
	assert.Equal(t, []string{"Not Found"}, e.notes.texts(Error))
}

// Selecting display rows 1 and 3 of A..J removes B and D and nothing else,
// whatever the sort order.
func TestBulkDestroy_IndexSafety(t *testing.T) {
	ctx := context.Background()

	t.Run("unsorted", func(t *testing.T) {
		e := newAdEnv(t, true, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J")
		require.NoError(t, e.m.Navigate(ctx, ""))
		e.m.View()
		require.NoError(t, e.m.UpdateTable(func(tb *table.Table[models.Ad]) error {
			if _, err := tb.ToggleSelect(1); err != nil {
				return err
			}
			_, err := tb.ToggleSelect(3)
			return err
		}))

		require.NoError(t, e.m.BulkDestroy(ctx))
		assert.Equal(t, "ACEFGHIJ", cachedIDs(e.m.Manager))
		assert.ElementsMatch(t, []string{"B", "D"}, e.svc.deleted)
		assert.Equal(t, []string{"Ad(s) destroyed!"}, e.notes.texts(Success))
	})

	t.Run("sorted descending then resorted", func(t *testing.T) {
		e := newAdEnv(t, true, "A", "B", "C", "D", "E", "F", "G", "H", "I", "J")
		require.NoError(t, e.m.Navigate(ctx, ""))
		require.NoError(t, e.m.UpdateTable(func(tb *table.Table[models.Ad]) error {
			_ = tb.RequestSort("id")
			return tb.RequestSort("id")
		}))
		e.m.View()
		require.NoError(t, e.m.UpdateTable(func(tb *table.Table[models.Ad]) error {
			_, _ = tb.ToggleSelect(2) // H
			_, _ = tb.ToggleSelect(5) // E
			_, err := tb.ToggleSelect(7)
			return err // C
		}))
		require.NoError(t, e.m.UpdateTable(func(tb *table.Table[models.Ad]) error {
			return tb.RequestSort("title")
		}))

		require.NoError(t, e.m.BulkDestroy(ctx))
		assert.Equal(t, "ABDFGIJ", cachedIDs(e.m.Manager))
	})
}

func TestBulkDestroy_PartialFailure(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A", "B", "C", "D")
	e.svc.deleteErr["C"] = errBoom

	require.NoError(t, e.m.Navigate(ctx, ""))
	e.m.SelectAll()

	err := e.m.BulkDestroy(ctx)
	require.ErrorIs(t, err, ErrPartial)
	assert.Equal(t, "C", cachedIDs(e.m.Manager), "the failed record stays")
	assert.Equal(t, []string{"Internal Server Error"}, e.notes.texts(Error))
	assert.Equal(t, []string{"Ad(s) destroyed!"}, e.notes.texts(Success))
	assert.False(t, e.m.Waiting(WaitDestroy))

	err = e.m.BulkDestroy(ctx)
	assert.ErrorIs(t, err, ErrNoSelection, "selection is cleared afterwards")
}

func TestBulkDestroy_DestroysPhotosFirst(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A", "B")
	e.svc.items[0].Photo = "http://storage/a.png"
	e.photos.destroyErr = errBoom

	require.NoError(t, e.m.Navigate(ctx, ""))
	e.m.SelectAll()
	require.NoError(t, e.m.BulkDestroy(ctx))

	assert.Len(t, e.notes.alerts, 1, "photo destroy failure is an alert")
	assert.Contains(t, e.notes.alerts[0], "a.png")
	assert.Empty(t, cachedIDs(e.m.Manager))
}

func TestGuest_CannotMutate(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, false, "A")

	assert.ErrorIs(t, e.m.OpenCreate(), form.ErrGuest)

	require.NoError(t, e.m.Navigate(ctx, "A"))
	assert.ErrorIs(t, e.m.Submit(ctx), form.ErrGuest)
	assert.ErrorIs(t, e.m.Destroy(ctx), form.ErrGuest)
	assert.ErrorIs(t, e.m.BulkDestroy(ctx), form.ErrGuest)
	assert.ErrorIs(t, e.m.ChangePhoto(ctx, "image/png", []byte("x")), form.ErrGuest)
	assert.ErrorIs(t, e.m.DestroyPhoto(ctx), form.ErrGuest)

	assert.Empty(t, e.svc.sent)
	assert.Empty(t, e.svc.deleted)
	assert.Empty(t, e.m.Mask().Actions())
}

func TestSubmit_Create(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A")
	require.NoError(t, e.m.Navigate(ctx, ""))

	require.NoError(t, e.m.OpenCreate())
	assert.True(t, e.m.DialogOpen())
	assert.Equal(t, form.Create, e.m.Mode())
	require.NoError(t, e.m.SetField("title", "Coat"))

	require.NoError(t, e.m.Submit(ctx))
	assert.False(t, e.m.DialogOpen())
	assert.Equal(t, models.AdTemplate(), e.m.Draft())
	assert.Equal(t, "An1", cachedIDs(e.m.Manager))
	assert.Equal(t, []string{"POST /ads"}, e.svc.sent)
	assert.Equal(t, []string{"Ad Coat created!"}, e.notes.texts(Success))
}

func TestSubmit_CreateFailureKeepsDialog(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A")
	require.NoError(t, e.m.Navigate(ctx, ""))
	require.NoError(t, e.m.OpenCreate())
	require.NoError(t, e.m.SetField("title", "Coat"))
	e.svc.sendErr = errBoom

	require.ErrorIs(t, e.m.Submit(ctx), errBoom)
	assert.True(t, e.m.DialogOpen())
	assert.Equal(t, "Coat", e.m.Draft().Title)
	assert.Equal(t, "A", cachedIDs(e.m.Manager))
}

func TestSubmit_UpdateResidentRedirects(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A", "B")
	require.NoError(t, e.m.Navigate(ctx, ""))
	require.NoError(t, e.m.Navigate(ctx, "B"))
	require.NoError(t, e.m.SetField("title", "renamed"))

	require.NoError(t, e.m.Submit(ctx))
	assert.Equal(t, []string{"PUT /ads/B"}, e.svc.sent)
	assert.Equal(t, []string{"Ad B updated! Redirecting in 6 seconds to table..."}, e.notes.texts(Success))
	got, _ := e.m.Cache().Find("B")
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, models.AdTemplate(), e.m.Draft())

	assert.Equal(t, []time.Duration{DefaultRedirectDelay}, e.sched.delays)
	assert.Empty(t, e.redirects)
	e.sched.Fire()
	assert.Equal(t, []string{"/ads"}, e.redirects)
}

func TestSubmit_UpdateNotResident(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A")
	require.NoError(t, e.m.Navigate(ctx, "A"))

	require.NoError(t, e.m.Submit(ctx))
	assert.Equal(t, []string{"Ad A updated!"}, e.notes.texts(Success))
	assert.Empty(t, e.sched.delays)
}

func TestSubmit_UpdateFailureStillResetsDraft(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A")
	require.NoError(t, e.m.Navigate(ctx, ""))
	require.NoError(t, e.m.Navigate(ctx, "A"))
	require.NoError(t, e.m.SetField("title", "renamed"))
	e.svc.sendErr = errBoom

	require.ErrorIs(t, e.m.Submit(ctx), errBoom)
	assert.Equal(t, models.AdTemplate(), e.m.Draft())
	got, _ := e.m.Cache().Find("A")
	assert.Equal(t, "title A", got.Title)
}

func TestSubmit_BusyFlag(t *testing.T) {
	e := newAdEnv(t, true, "A")
	require.NoError(t, e.m.beginWait(WaitSubmit))
	assert.True(t, e.m.Waiting(WaitSubmit))
	assert.ErrorIs(t, e.m.Submit(context.Background()), ErrBusy)
	e.m.endWait(WaitSubmit)
	assert.False(t, e.m.Waiting(WaitSubmit))
}

func TestDestroy_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("resident collection redirects", func(t *testing.T) {
		e := newAdEnv(t, true, "A", "B")
		e.svc.items[1].Photo = "http://storage/b.png"
		require.NoError(t, e.m.Navigate(ctx, ""))
		require.NoError(t, e.m.Navigate(ctx, "B"))

		require.NoError(t, e.m.Destroy(ctx))
		assert.Equal(t, []string{"b.png"}, e.photos.destroyed)
		assert.Equal(t, "A", cachedIDs(e.m.Manager))
		assert.Equal(t, []string{"/ads"}, e.redirects)
		assert.Equal(t, []string{"Ad destroyed!"}, e.notes.texts(Success))
	})

	t.Run("deep link", func(t *testing.T) {
		e := newAdEnv(t, true, "A")
		require.NoError(t, e.m.Navigate(ctx, "A"))
		require.NoError(t, e.m.Destroy(ctx))
		assert.Empty(t, e.redirects)
		assert.Equal(t, []string{"Ad A deleted!"}, e.notes.texts(Success))
	})

	t.Run("failure", func(t *testing.T) {
		e := newAdEnv(t, true, "A")
		e.svc.deleteErr["A"] = errBoom
		require.NoError(t, e.m.Navigate(ctx, ""))
		require.NoError(t, e.m.Navigate(ctx, "A"))
		require.ErrorIs(t, e.m.Destroy(ctx), errBoom)
		assert.Equal(t, "A", cachedIDs(e.m.Manager))
		assert.Equal(t, "A", e.m.Draft().ID)
	})

	t.Run("not on a detail view", func(t *testing.T) {
		e := newAdEnv(t, true, "A")
		require.NoError(t, e.m.Navigate(ctx, ""))
		assert.ErrorIs(t, e.m.Destroy(ctx), ErrNotDetail)
	})
}

func TestCloseCreate_RestoresDetailDraft(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A")
	require.NoError(t, e.m.Navigate(ctx, "A"))

	require.NoError(t, e.m.OpenCreate())
	assert.Equal(t, "", e.m.Draft().ID)
	require.NoError(t, e.m.SetField("title", "scratch"))

	require.NoError(t, e.m.CloseCreate(ctx))
	assert.Equal(t, "A", e.m.Draft().ID)
	assert.Equal(t, "title A", e.m.Draft().Title)
	assert.Equal(t, form.Edit, e.m.Mode())
}

func TestGenerate(t *testing.T) {
	e := newAdEnv(t, true)
	require.NoError(t, e.m.OpenCreate())
	require.NoError(t, e.m.Generate())
	assert.Equal(t, "asdf2", e.m.Draft().Title)
	assert.Equal(t, "asdf desc2", e.m.Draft().Description)
}

func TestChangePhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("existing ad replaces its photo", func(t *testing.T) {
		e := newAdEnv(t, true, "A")
		e.svc.items[0].Photo = "http://storage/old.png"
		require.NoError(t, e.m.Navigate(ctx, "A"))

		require.NoError(t, e.m.ChangePhoto(ctx, "image/png", []byte("img")))
		assert.Equal(t, []string{"old.png"}, e.photos.destroyed)
		assert.Equal(t, []byte("img"), e.photos.uploaded)
		assert.Equal(t, "http://storage/p1.png", e.m.Draft().Photo)
		assert.False(t, e.m.Waiting(WaitPhoto))
	})

	t.Run("upload failure leaves the ad without photo", func(t *testing.T) {
		e := newAdEnv(t, true, "A")
		e.svc.items[0].Photo = "http://storage/old.png"
		e.photos.uploadErr = errBoom
		require.NoError(t, e.m.Navigate(ctx, "A"))

		require.ErrorIs(t, e.m.ChangePhoto(ctx, "image/png", []byte("img")), errBoom)
		assert.Equal(t, models.NoPhoto, e.m.Draft().Photo)
		assert.Equal(t, []string{"Internal Server Error"}, e.notes.texts(Error))
	})

	t.Run("old photo destroy failure is alerted and the flow goes on", func(t *testing.T) {
		e := newAdEnv(t, true, "A")
		e.svc.items[0].Photo = "http://storage/old.png"
		e.photos.destroyErr = errBoom
		require.NoError(t, e.m.Navigate(ctx, "A"))

		require.NoError(t, e.m.ChangePhoto(ctx, "image/png", []byte("img")))
		assert.Len(t, e.notes.alerts, 1)
		assert.Equal(t, "http://storage/p1.png", e.m.Draft().Photo)
	})

	t.Run("new ad does not destroy anything", func(t *testing.T) {
		e := newAdEnv(t, true)
		require.NoError(t, e.m.OpenCreate())
		require.NoError(t, e.m.ChangePhoto(ctx, "image/png", []byte("img")))
		assert.Empty(t, e.photos.destroyed)
	})
}

func TestDestroyPhoto(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, true, "A")
	e.svc.items[0].Photo = "http://storage/old.png"
	require.NoError(t, e.m.Navigate(ctx, "A"))

	e.photos.destroyErr = errBoom
	require.Error(t, e.m.DestroyPhoto(ctx))
	assert.Len(t, e.notes.alerts, 1)
	assert.Equal(t, "http://storage/old.png", e.m.Draft().Photo)

	e.photos.destroyErr = nil
	require.NoError(t, e.m.DestroyPhoto(ctx))
	assert.Equal(t, models.NoPhoto, e.m.Draft().Photo)
	require.NoError(t, e.m.DestroyPhoto(ctx), "no photo is a no-op")
}

func TestCarousel(t *testing.T) {
	ctx := context.Background()
	e := newAdEnv(t, false, "A", "B", "C")
	e.svc.items[1].Photo = "http://storage/b.png"
	require.NoError(t, e.m.Navigate(ctx, ""))

	got := e.m.Carousel()
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].ID)
}

func TestUserManager_SelfDeleteLogsOut(t *testing.T) {
	ctx := context.Background()

	t.Run("detail logs out without waiting", func(t *testing.T) {
		svc := usersService("me", "other")
		sess := session.New(&fakeTerminator{}, logging.NewNop())
		sess.Login(admin)
		sched := &manualScheduler{}
		m := NewUserManager(svc, sess, &recorder{}, WithScheduler(sched), WithLogoutDelay(3*time.Second))

		require.NoError(t, m.Navigate(ctx, "me"))
		require.NoError(t, m.Destroy(ctx))
		assert.False(t, sess.Authenticated())
		assert.Empty(t, sched.delays)
	})

	t.Run("bulk waits for the logout delay", func(t *testing.T) {
		svc := usersService("me", "other")
		sess := session.New(&fakeTerminator{}, logging.NewNop())
		sess.Login(admin)
		sched := &manualScheduler{}
		m := NewUserManager(svc, sess, &recorder{}, WithScheduler(sched), WithLogoutDelay(3*time.Second))

		require.NoError(t, m.Navigate(ctx, ""))
		m.SelectAll()
		require.NoError(t, m.BulkDestroy(ctx))

		assert.True(t, sess.Authenticated())
		assert.Equal(t, []time.Duration{3 * time.Second}, sched.delays)
		sched.Fire()
		assert.False(t, sess.Authenticated())
	})

	t.Run("deleting someone else keeps the session", func(t *testing.T) {
		svc := usersService("me", "other")
		sess := session.New(&fakeTerminator{}, logging.NewNop())
		sess.Login(admin)
		m := NewUserManager(svc, sess, &recorder{}, WithScheduler(immediateScheduler{}))

		require.NoError(t, m.Navigate(ctx, "other"))
		require.NoError(t, m.Destroy(ctx))
		assert.True(t, sess.Authenticated())
	})
}

func TestUserManager_EmailValidationNeverHitsNetwork(t *testing.T) {
	ctx := context.Background()
	svc := usersService()
	sess := session.New(nil, logging.NewNop())
	sess.Login(admin)
	m := NewUserManager(svc, sess, &recorder{})

	require.NoError(t, m.OpenCreate())
	require.NoError(t, m.SetField("email", "new@example"))
	assert.Equal(t, form.MsgMissingDot, m.FieldErrors()["email"])

	assert.ErrorIs(t, m.Submit(ctx), form.ErrInvalid)
	assert.Empty(t, svc.sent)
}

func TestUserManager_EmailTaken(t *testing.T) {
	ctx := context.Background()
	svc := usersService()
	svc.sendErr = &rest.HTTPError{StatusCode: http.StatusConflict, StatusText: "Conflict"}
	sess := session.New(nil, logging.NewNop())
	sess.Login(admin)
	notes := &recorder{}
	m := NewUserManager(svc, sess, notes)

	require.NoError(t, m.OpenCreate())
	require.NoError(t, m.SetField("email", "taken@example.com"))
	require.Error(t, m.Submit(ctx))
	assert.Equal(t, []string{MsgEmailTaken}, notes.texts(Error))
}

func TestLoginManager(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessions{user: admin}
	sess := session.New(sessions, logging.NewNop())
	notes := &recorder{}
	l := NewLoginManager(sessions, sess, notes, logging.NewNop())

	assert.False(t, sess.Require("/users"))
	assert.Equal(t, []string{"login"}, l.Mask().Actions())

	require.NoError(t, l.SetField("email", "admin@example.com"))
	require.NoError(t, l.SetField("password", "wrong"))
	_, err := l.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{MsgBadCredentials}, notes.texts(Error))
	assert.False(t, sess.Authenticated())

	require.NoError(t, l.SetField("password", "secret"))
	next, err := l.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/users", next)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, models.UserTemplate(), l.Draft())

	l.Logout(ctx)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 1, sessions.term)
}

func TestLoginManager_InvalidEmail(t *testing.T) {
	sessions := &fakeSessions{user: admin}
	sess := session.New(sessions, logging.NewNop())
	l := NewLoginManager(sessions, sess, &recorder{}, logging.NewNop())

	require.NoError(t, l.SetField("email", "admin"))
	_, err := l.Submit(context.Background())
	assert.ErrorIs(t, err, form.ErrInvalid)
	assert.Equal(t, form.MsgInvalidEmail, l.FieldErrors()["email"])
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
