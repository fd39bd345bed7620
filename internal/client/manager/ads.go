package manager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/services"
	"github.com/dmitrijs2005/donadmin/internal/client/session"
)

// AdManager adds the photo flow to the ads manager.
type AdManager struct {
	*Manager[models.Ad]
	photos services.PhotoService
}

// NewAdManager returns an ads manager that deletes an ad's photo before
// the ad.
func NewAdManager(
	svc services.RecordService[models.Ad],
	photos services.PhotoService,
	sess *session.Session,
	notifier Notifier,
	opts ...Option,
) *AdManager {
	am := &AdManager{photos: photos}
	hooks := Hooks[models.Ad]{
		Noun:     "Ad",
		Label:    func(a models.Ad) string { return a.Title },
		Generate: func(a models.Ad) models.Ad { return models.RandomAd(a, nil) },
		BeforeDestroy: func(ctx context.Context, a models.Ad) {
			am.destroyPhotoOf(ctx, a)
		},
	}
	f := form.New(form.AdTable, svc.Path(), models.AdTemplate())
	am.Manager = New(svc, f, sess, notifier, hooks, opts...)
	return am
}

// destroyPhotoOf removes the stored photo of a. Failures go to Alert.
func (am *AdManager) destroyPhotoOf(ctx context.Context, a models.Ad) bool {
	key := a.PhotoKey()
	if key == "" {
		return true
	}
	if err := am.photos.Destroy(ctx, key); err != nil {
		am.logger.Warn(ctx, "photo destroy failed", "key", key, "error", err)
		am.notifier.Alert(fmt.Sprintf("Could not delete photo %s: %v", key, err))
		return false
	}
	return true
}

// ChangePhoto replaces the draft's photo: the old object of an existing ad
// is deleted, a signed target is requested, the bytes are uploaded there
// and the public URL is stored on the draft. The steps are independent;
// a failure stops the flow and is reported, nothing is rolled back.
func (am *AdManager) ChangePhoto(ctx context.Context, contentType string, data []byte) error {
	if !am.session.Authenticated() {
		am.notify("Sign in first", Warning)
		return form.ErrGuest
	}
	if err := am.beginWait(WaitPhoto); err != nil {
		return err
	}
	defer am.endWait(WaitPhoto)

	draft := am.Draft()
	if am.Mode() == form.Edit && draft.HasPhoto() {
		if am.destroyPhotoOf(ctx, draft) {
			am.updateDraft(func(a models.Ad) models.Ad {
				a.Photo = models.NoPhoto
				return a
			})
		}
	}

	target, err := am.photos.SignedTarget(ctx, contentType)
	if err != nil {
		return am.fail(ctx, "photo", err)
	}
	if err := am.photos.Upload(ctx, target, contentType, data); err != nil {
		return am.fail(ctx, "photo", err)
	}

	am.updateDraft(func(a models.Ad) models.Ad {
		a.Photo = target.URL
		return a
	})
	am.logger.Info(ctx, "photo uploaded", "url", target.URL)
	am.notify("Photo uploaded! Submit to save it.", Success)
	return nil
}

// DestroyPhoto deletes the draft's photo from storage and clears it on
// the draft.
func (am *AdManager) DestroyPhoto(ctx context.Context) error {
	if !am.session.Authenticated() {
		am.notify("Sign in first", Warning)
		return form.ErrGuest
	}
	if err := am.beginWait(WaitPhotoDestroy); err != nil {
		return err
	}
	defer am.endWait(WaitPhotoDestroy)

	draft := am.Draft()
	if !draft.HasPhoto() {
		return nil
	}
	if !am.destroyPhotoOf(ctx, draft) {
		return fmt.Errorf("destroy photo %s failed", draft.PhotoKey())
	}
	am.updateDraft(func(a models.Ad) models.Ad {
		a.Photo = models.NoPhoto
		return a
	})
	return nil
}

// Carousel lists cached ads that have a photo.
func (am *AdManager) Carousel() []models.Ad {
	var out []models.Ad
	for _, a := range am.cache.Items() {
		if a.HasPhoto() {
			out = append(out, a)
		}
	}
	return out
}
