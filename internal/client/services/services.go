// Package services binds the console to the API endpoints: ads and users
// collections, the user session and ad photos.
package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
)

const (
	AdsPath     = "/ads"
	UsersPath   = "/users"
	SessionPath = "/userSession"
	PhotosPath  = "/adsPhotos"
)

// RecordService is CRUD over one collection.
type RecordService[T rest.Record] interface {
	Path() string
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	// Send submits rec with verb to path and returns the stored record.
	Send(ctx context.Context, verb, path string, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

// NewAdService sends ads as multipart form fields.
func NewAdService(c *rest.Client) RecordService[models.Ad] {
	return rest.NewResource[models.Ad](c, AdsPath, rest.EncodeForm)
}

// NewUserService sends users as JSON.
func NewUserService(c *rest.Client) RecordService[models.User] {
	return rest.NewResource[models.User](c, UsersPath, rest.EncodeJSON)
}

// SessionService logs in and out against the API.
type SessionService interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Terminate(ctx context.Context) error
}

type sessionService struct {
	client *rest.Client
}

// NewSessionService returns the login/logout service.
func NewSessionService(c *rest.Client) SessionService {
	return &sessionService{client: c}
}

// Login posts the credentials; the server answers with the user and sets
// the session cookie.
func (s *sessionService) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	var u models.User
	err := s.client.Do(ctx, http.MethodPost, SessionPath, rest.JSON(creds), &u)
	return u, err
}

func (s *sessionService) Terminate(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodDelete, SessionPath, nil, nil)
}

// UploadTarget is a signed upload URL and the public URL the object will
// have once uploaded.
type UploadTarget struct {
	SignedURL string `json:"signedUrl"`
	URL       string `json:"url"`
}

type uploadRequest struct {
	ContentType string `json:"contentType"`
}

// PhotoService manages ad photos in object storage.
type PhotoService interface {
	SignedTarget(ctx context.Context, contentType string) (UploadTarget, error)
	Upload(ctx context.Context, target UploadTarget, contentType string, data []byte) error
	Destroy(ctx context.Context, key string) error
}

type photoService struct {
	client *rest.Client
}

// NewPhotoService returns the signed-upload photo service.
func NewPhotoService(c *rest.Client) PhotoService {
	return &photoService{client: c}
}

func (p *photoService) SignedTarget(ctx context.Context, contentType string) (UploadTarget, error) {
	var t UploadTarget
	err := p.client.Do(ctx, http.MethodPost, PhotosPath, rest.JSON(uploadRequest{ContentType: contentType}), &t)
	return t, err
}

func (p *photoService) Upload(ctx context.Context, target UploadTarget, contentType string, data []byte) error {
	return p.client.Upload(ctx, target.SignedURL, contentType, data)
}

func (p *photoService) Destroy(ctx context.Context, key string) error {
	return p.client.Do(ctx, http.MethodDelete, PhotosPath+"/"+url.PathEscape(key), nil, nil)
}
