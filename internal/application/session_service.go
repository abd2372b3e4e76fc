package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	repo "github.com/oksasatya/blog-engagement/internal/domain/repository"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
)

// SessionService registers users, checks credentials and issues the
// stateless session credential.
type SessionService struct {
	Users     repo.UserRepository
	JWT       *helpers.JWTManager
	Directory *DirectoryService
	Logger    *logrus.Logger
}

func NewSessionService(users repo.UserRepository, jwt *helpers.JWTManager, dir *DirectoryService, logger *logrus.Logger) *SessionService {
	return &SessionService{Users: users, JWT: jwt, Directory: dir, Logger: logger}
}

type Session struct {
	Token     string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func (s *SessionService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, storeErr("hash password", err)
	}
	u := &entity.User{
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      entity.RoleUser,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAccountTaken
		}
		return nil, storeErr("create user", err)
	}
	s.Directory.Index(ctx, u)
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login checks email and password. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr("get user by email", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *SessionService) IssueSession(u *entity.User) (Session, error) {
	token, exp, err := s.JWT.IssueSession(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("sign session failed")
		return Session{}, storeErr("sign session", err)
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}

// Authenticate resolves the user behind a session credential.
func (s *SessionService) Authenticate(ctx context.Context, credential string) (*entity.User, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.JWT.ParseSession(credential)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, storeErr("get user", err)
	}
	return u, nil
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Location  *string
}

// UpdateProfile changes the editable profile fields of userID.
func (s *SessionService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, userErr("get user", err)
	}
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Location != nil {
		u.Location = strings.TrimSpace(*in.Location)
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, userErr("update user", err)
	}
	s.Directory.Index(ctx, u)
	return u, nil
}
