package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/donadmin/internal/common"
	"github.com/dmitrijs2005/donadmin/internal/server/auth"
	"github.com/dmitrijs2005/donadmin/internal/server/config"
	"github.com/dmitrijs2005/donadmin/internal/server/models"
	"github.com/dmitrijs2005/donadmin/internal/server/repositories/repomanager"
)

// UserInput is what callers may set on an account.
type UserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserService manages accounts and the session tokens that identify them.
type UserService struct {
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidity,
	}
}

// hashPassword is a seam so tests can avoid bcrypt's cost.
var hashPassword = func(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func checkEmail(email string) error {
	if !govalidator.IsEmail(email) {
		return fmt.Errorf("%w: invalid email %q", common.ErrorValidation, email)
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	items, err := s.repomanager.Repos().Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	if items == nil {
		items = []*models.User{}
	}
	return items, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Repos().Users.Get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := checkEmail(in.Email); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	u, err := s.repomanager.Repos().Users.Create(ctx, &models.User{Email: in.Email, Name: in.Name, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Update changes email and name. The password changes only when a new
// one is given.
func (s *UserService) Update(ctx context.Context, id string, in UserInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := checkEmail(in.Email); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		u, err := r.Users.Get(ctx, id)
		if err != nil {
			return err
		}
		u.Email = in.Email
		u.Name = in.Name
		if in.Password != "" {
			if u.PasswordHash, err = hashPassword(in.Password); err != nil {
				return common.ErrorInternal
			}
		}
		updated, err = r.Users.Update(ctx, u)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return updated, nil
}

// Delete removes the account. Ads it owned stay, without an owner.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if _, err := r.Ads.ClearOwner(ctx, id); err != nil {
			return err
		}
		return r.Users.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// Authenticate checks the credentials and returns the user with a fresh
// session token. Unknown emails and wrong passwords both give
// common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	u, err := s.repomanager.Repos().Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, "", common.ErrorInternal
	}
	return u, token, nil
}

// UserIDFromToken resolves a session token to a user id.
func (s *UserService) UserIDFromToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// SessionValidity is how long issued tokens stay valid.
func (s *UserService) SessionValidity() time.Duration {
	return s.sessionValidity
}

// EnsureAdmin creates the account if no user has that email yet.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	_, err = s.repomanager.Repos().Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, common.ErrorNotFound):
		return false, err
	}
	if _, err := s.Create(ctx, UserInput{Email: email, Name: "Admin", Password: password}); err != nil {
		return false, err
	}
	return true, nil
}
