package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/donadmin/internal/client/config"
	"github.com/dmitrijs2005/donadmin/internal/client/manager"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/dmitrijs2005/donadmin/internal/logging"
)

// fakeAPI serves the read, delete and session endpoints from memory.
type fakeAPI struct {
	mu      sync.Mutex
	ads     []models.Ad
	users   []models.User
	deleted []string
}

func (f *fakeAPI) handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Head("/ads", func(w http.ResponseWriter, r *http.Request) {})
		r.Get("/ads", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(f.ads)
		})
		r.Delete("/ads/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			id := chi.URLParam(r, "id")
			f.deleted = append(f.deleted, id)
			f.ads = slices.DeleteFunc(f.ads, func(a models.Ad) bool { return a.ID == id })
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
			if _, err := r.Cookie("session"); err != nil {
				http.Error(w, "", http.StatusUnauthorized)
				return
			}
			for _, u := range f.users {
				if u.ID == chi.URLParam(r, "id") {
					_ = json.NewEncoder(w).Encode(u)
					return
				}
			}
			http.Error(w, "", http.StatusNotFound)
		})
		r.Post("/userSession", func(w http.ResponseWriter, r *http.Request) {
			var creds models.Credentials
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "secret" {
				http.Error(w, "", http.StatusUnauthorized)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "t", Path: "/"})
			_ = json.NewEncoder(w).Encode(f.users[0])
		})
		r.Delete("/userSession", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

type testApp struct {
	*App
	api *fakeAPI
	out *[]string
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	api := &fakeAPI{
		users: []models.User{{ID: "u1", Email: "admin@example.com", Name: "Admin"}},
	}
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		api.ads = append(api.ads, models.Ad{ID: id, Title: "title " + id, Photo: models.NoPhoto})
	}
	api.ads[1].Photo = "http://storage/b.png"

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL + "/api"

	client, err := rest.New(cfg.APIBaseURL)
	require.NoError(t, err)

	out := captureOutput(t)
	a, err := newApp(cfg, client, logging.NewNop(), strings.NewReader(input))
	require.NoError(t, err)
	return &testApp{App: a, api: api, out: out}
}

func (ta *testApp) output() string { return strings.Join(*ta.out, "\n") }

func TestApp_NavigateAdsTable(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, ta.Go(ctx, "/ads"))
	out := ta.output()
	assert.Contains(t, out, "title A")
	assert.Contains(t, out, "title E")
	assert.Contains(t, out, "page 1 of 1, 5 rows")
	assert.Equal(t, "/ads", ta.location)

	*ta.out = nil
	require.NoError(t, ta.Go(ctx, "/ads/C"))
	assert.Contains(t, ta.output(), "ad C")
	assert.Contains(t, ta.output(), "read only")
}

func TestApp_Carousel(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.Go(context.Background(), CarouselPath))
	assert.Contains(t, ta.output(), "title B")
	assert.NotContains(t, ta.output(), "title A")
}

func TestApp_UnknownPage(t *testing.T) {
	ta := newTestApp(t, "")
	assert.ErrorIs(t, ta.Go(context.Background(), "/nowhere"), errNoPage)
}

func TestApp_PrivatePageRedirectsToLoginAndBack(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	ta := newTestApp(t, "admin@example.com\n")
	ctx := context.Background()

	require.NoError(t, ta.Go(ctx, "/users/u1"))
	assert.Equal(t, LoginPath, ta.location)

	require.NoError(t, ta.Login(ctx))
	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, "/users/u1", ta.location)
	assert.Contains(t, ta.output(), "admin@example.com")
	assert.Contains(t, ta.status(), "admin@example.com")

	assert.ErrorIs(t, ta.Login(ctx), errLoggedIn)

	require.NoError(t, ta.Logout(ctx))
	assert.False(t, ta.isLoggedIn())
	select {
	case p := <-ta.redirects:
		assert.Equal(t, "/", p)
	case <-time.After(time.Second):
		t.Fatal("logout did not redirect home")
	}
}

func TestApp_LoginBadPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("nope"), nil }

	ta := newTestApp(t, "admin@example.com\n")
	err := ta.Login(context.Background())
	require.Error(t, err)
	assert.True(t, reported(err))
	assert.Contains(t, ta.output(), manager.MsgBadCredentials)
}

func TestApp_GuestCannotCreate(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()
	require.NoError(t, ta.Go(ctx, "/ads"))
	assert.Error(t, ta.New(ctx))
	assert.ErrorIs(t, ta.Submit(ctx), errNoForm)
}

func TestApp_BulkDestroyAfterSort(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	ta := newTestApp(t, "admin@example.com\n")
	ctx := context.Background()
	require.NoError(t, ta.Login(ctx))
	require.NoError(t, ta.Go(ctx, "/ads"))

	require.NoError(t, ta.Table(ctx, "sort", []string{"id"}))
	require.NoError(t, ta.Table(ctx, "sort", []string{"id"}))
	require.NoError(t, ta.Table(ctx, "select", []string{"1"}))
	require.NoError(t, ta.Table(ctx, "select", []string{"3"}))
	assert.Contains(t, ta.output(), "2 selected")

	require.NoError(t, ta.Destroy(ctx))
	assert.ElementsMatch(t, []string{"E", "C"}, ta.api.deleted)

	var ids []string
	for _, a := range ta.ads.Cache().Items() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"A", "B", "D"}, ids)
}

func TestApp_TableCommandsNeedATable(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()
	assert.ErrorIs(t, ta.Table(ctx, "page", []string{"2"}), errNoTable)

	require.NoError(t, ta.Go(ctx, "/ads"))
	assert.ErrorIs(t, ta.Table(ctx, "page", []string{"x"}), errUsage)
	assert.ErrorIs(t, ta.Table(ctx, "dense", nil), errUsage)
	require.NoError(t, ta.Table(ctx, "rows", []string{"2"}))
	assert.Contains(t, ta.output(), "page 1 of 3")
	require.NoError(t, ta.Table(ctx, "filter", []string{"title", "D"}))
	assert.Contains(t, ta.output(), "1 rows, filtered")
}

func TestApp_PingAndMode(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.ping(context.Background()))

	ta.setMode(ModeOnline)
	assert.Contains(t, ta.status(), "online")
	ta.setMode(ModeOffline)
	assert.Contains(t, ta.status(), "offline")
}

func TestApp_PingOffline(t *testing.T) {
	client, err := rest.New("http://127.0.0.1:1/api")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	a, err := newApp(cfg, client, logging.NewNop(), strings.NewReader(""))
	require.NoError(t, err)

	assert.ErrorIs(t, a.ping(context.Background()), rest.ErrUnavailable)
}
