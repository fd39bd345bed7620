package manager

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/donadmin/internal/client/form"
	"github.com/dmitrijs2005/donadmin/internal/client/models"
	"github.com/dmitrijs2005/donadmin/internal/client/rest"
	"github.com/dmitrijs2005/donadmin/internal/client/services"
	"github.com/dmitrijs2005/donadmin/internal/client/session"
)

const MsgEmailTaken = "The email is taken by someone else."

// NewUserManager builds the users manager. Deleting the signed-in user
// logs the session out: at once from the detail view, after the logout
// delay from the collection.
func NewUserManager(
	svc services.RecordService[models.User],
	sess *session.Session,
	notifier Notifier,
	opts ...Option,
) *Manager[models.User] {
	var m *Manager[models.User]
	hooks := Hooks[models.User]{
		Noun:  "User",
		Label: func(u models.User) string { return u.Name },
		AfterDestroy: func(ctx context.Context, ids []string, bulk bool) {
			if !m.selfDeleted(ids) {
				return
			}
			if !bulk {
				m.logger.Info(ctx, "signed-in user deleted, logging out")
				sess.Logout(ctx)
				return
			}
			m.logger.Info(ctx, "signed-in user deleted, logging out", "delay", m.logoutDelay)
			m.scheduler.AfterFunc(m.logoutDelay, func() {
				sess.Logout(context.WithoutCancel(ctx))
			})
		},
		DescribeError: func(action string, err error) string {
			if action == form.ActionCreate || action == form.ActionUpdate {
				switch rest.StatusCode(err) {
				case http.StatusConflict, http.StatusInternalServerError:
					return MsgEmailTaken
				}
			}
			return err.Error()
		},
	}
	f := form.New(form.UserTable, svc.Path(), models.UserTemplate()).WithValidator("email", form.Email)
	m = New(svc, f, sess, notifier, hooks, opts...)
	return m
}
