package manager

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/dmitrijs2005/donadmin/internal/client/services"
)

// fakeService is an in-memory collection endpoint.
type fakeService[T models.Record[T]] struct {
	mu       sync.Mutex
	path     string
	items    []T
	assignID func(rec T, id string) T

	listErr   error
	getErr    error
	sendErr   error
	deleteErr map[string]error

	lists, gets int
	sent        []string
	deleted     []string
	seq         int
}

func (f *fakeService[T]) Path() string { return f.path }

func (f *fakeService[T]) List(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.items), nil
}

func (f *fakeService[T]) Get(ctx context.Context, id string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	var zero T
	if f.getErr != nil {
		return zero, f.getErr
	}
	for _, it := range f.items {
		if it.GetID() == id {
			return it, nil
		}
	}
	return zero, &rest.HTTPError{StatusCode: http.StatusNotFound, StatusText: "Not Found"}
}

func (f *fakeService[T]) Send(ctx context.Context, verb, path string, rec T) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, verb+" "+path)
	if f.sendErr != nil {
		var zero T
		return zero, f.sendErr
	}
	if verb == http.MethodPost {
		f.seq++
		rec = f.assignID(rec, fmt.Sprintf("n%d", f.seq))
		f.items = append(f.items, rec)
		return rec, nil
	}
	for i, it := range f.items {
		if it.GetID() == rec.GetID() {
			f.items[i] = rec
		}
	}
	return rec, nil
}

func (f *fakeService[T]) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	f.items = slices.DeleteFunc(f.items, func(it T) bool { return it.GetID() == id })
	return nil
}

var _ services.RecordService[models.Ad] = (*fakeService[models.Ad])(nil)

func adsService(titles ...string) *fakeService[models.Ad] {
	f := &fakeService[models.Ad]{
		path:      services.AdsPath,
		deleteErr: map[string]error{},
		assignID:  func(a models.Ad, id string) models.Ad { a.ID = id; return a },
	}
	for _, t := range titles {
		f.items = append(f.items, models.Ad{ID: t, Title: "title " + t, Photo: models.NoPhoto})
	}
	return f
}

func usersService(ids ...string) *fakeService[models.User] {
	f := &fakeService[models.User]{
		path:      services.UsersPath,
		deleteErr: map[string]error{},
		assignID:  func(u models.User, id string) models.User { u.ID = id; return u },
	}
	for _, id := range ids {
		f.items = append(f.items, models.User{ID: id, Email: id + "@example.com", Name: strings.ToUpper(id)})
	}
	return f
}

type recorder struct {
	mu     sync.Mutex
	notes  []Notification
	alerts []string
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) Alert(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, text)
}

func (r *recorder) texts(sev Severity) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		if n.Severity == sev {
			out = append(out, n.Text)
		}
	}
	return out
}

// manualScheduler records scheduled work; Fire runs it.
type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, fn)
	return func() {}
}

func (s *manualScheduler) Fire() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type immediateScheduler struct{}

func (immediateScheduler) AfterFunc(d time.Duration, fn func()) func() {
	fn()
	return func() {}
}

type fakeTerminator struct{ calls int }

func (f *fakeTerminator) Terminate(ctx context.Context) error {
	f.calls++
	return nil
}

type fakePhotos struct {
	mu         sync.Mutex
	destroyed  []string
	destroyErr error
	targetErr  error
	uploadErr  error
	uploaded   []byte
	seq        int
}

func (p *fakePhotos) SignedTarget(ctx context.Context, contentType string) (services.UploadTarget, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.targetErr != nil {
		return services.UploadTarget{}, p.targetErr
	}
	p.seq++
	key := fmt.Sprintf("p%d.png", p.seq)
	return services.UploadTarget{
		SignedURL: "http://storage/" + key + "?sig=x",
		URL:       "http://storage/" + key,
	}, nil
}

func (p *fakePhotos) Upload(ctx context.Context, target services.UploadTarget, contentType string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.uploadErr != nil {
		return p.uploadErr
	}
	p.uploaded = data
	return nil
}

func (p *fakePhotos) Destroy(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyErr != nil {
		return p.destroyErr
	}
	p.destroyed = append(p.destroyed, key)
	return nil
}

type fakeSessions struct {
	user models.User
	err  error
	term int
}

func (f *fakeSessions) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	if creds.Password != "secret" {
		return models.User{}, &rest.HTTPError{StatusCode: http.StatusUnauthorized, StatusText: "Unauthorized"}
	}
	return f.user, nil
}

func (f *fakeSessions) Terminate(ctx context.Context) error {
	f.term++
	return nil
}

var errBoom = errors.New("Internal Server Error")
