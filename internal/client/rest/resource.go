package rest

import (
	"context"
	"net/http"
	"net/url"
)

// Encoding selects how a resource serialises records in request bodies.
type Encoding int

const (
	EncodeJSON Encoding = iota
	EncodeForm
)

// Record is what a Resource can carry.
type Record interface {
	Fielder
	GetID() string
}

// Resource is typed CRUD over one collection path, e.g. "/ads".
type Resource[T Record] struct {
	client   *Client
	path     string
	encoding Encoding
}

// NewResource binds a collection path to c.
func NewResource[T Record](c *Client, path string, enc Encoding) *Resource[T] {
	return &Resource[T]{client: c, path: path, encoding: enc}
}

func (r *Resource[T]) Path() string { return r.path }

// ItemPath is the path of a single record.
func (r *Resource[T]) ItemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.client.Do(ctx, http.MethodGet, r.ItemPath(id), nil, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	return r.Send(ctx, http.MethodPost, r.path, rec)
}

func (r *Resource[T]) Update(ctx context.Context, rec T) (T, error) {
	return r.Send(ctx, http.MethodPut, r.ItemPath(rec.GetID()), rec)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, http.MethodDelete, r.ItemPath(id), nil, nil)
}

// Send submits rec with an arbitrary verb and path and decodes the record
// the server answers with. If the server answers without a body, rec is
// returned unchanged.
func (r *Resource[T]) Send(ctx context.Context, verb, path string, rec T) (T, error) {
	var body Body
	if r.encoding == EncodeForm {
		body = Form(rec)
	} else {
		body = JSON(rec)
	}

	var out T
	if err := r.client.Do(ctx, verb, path, body, &out); err != nil {
		var zero T
		return zero, err
	}
	if out.GetID() == "" {
		return rec, nil
	}
	return out, nil
}
