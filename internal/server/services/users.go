// Package services contains server-side business logic. This file implements
// UserService: registration, login, profile updates, and the follow graph.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dmitrijs2005/conduit/internal/common"
	"github.com/dmitrijs2005/conduit/internal/server/auth"
	"github.com/dmitrijs2005/conduit/internal/server/config"
	"github.com/dmitrijs2005/conduit/internal/server/models"
	"github.com/dmitrijs2005/conduit/internal/server/repositories/repomanager"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// UserService provides identity operations:
//   - Register / Login: credential handling and token issuance
//   - Get / UpdateProfile: profile reads and edits
//   - Follow / Unfollow: the social graph on the user's following set
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      auth.NewTokenManager([]byte(cfg.SecretKey)),
	}
}

// Tokens exposes the token manager for middleware construction.
func (s *UserService) Tokens() *auth.TokenManager {
	return s.tokens
}

// Register creates a user from a registration request and returns the user
// together with a freshly issued token. The plaintext password is turned
// into salt+hash material and discarded.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return nil, "", err
	}

	salt, hash, err := auth.SetPassword(password)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Image:    models.DefaultImage,
		Salt:     salt,
		Hash:     hash,
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if _, ok := common.IsDuplicate(err); ok {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	return user, token, nil
}

// Login verifies the email/password pair and issues a token. An unknown
// email and a wrong password both yield ErrInvalidCredentials, so responses
// cannot be used to enumerate accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", common.ErrInternal
	}

	if !auth.VerifyPassword(password, user.Salt, user.Hash) {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// ProfileUpdate carries optional profile edits; nil fields are left as-is.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Bio      *string
	Image    *string
	Password *string
}

// UpdateProfile applies the non-nil fields of upd to the user and persists.
// A new password replaces the credential material entirely.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.Image != nil {
		user.Image = *upd.Image
	}

	if err := validateProfile(user.Username, user.Email); err != nil {
		return nil, err
	}

	if upd.Password != nil {
		if err := validation.Validate(*upd.Password, validation.Required); err != nil {
			return nil, validation.Errors{"password": err}
		}
		salt, hash, err := auth.SetPassword(*upd.Password)
		if err != nil {
			return nil, common.ErrInternal
		}
		user.Salt = salt
		user.Hash = hash
	}

	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Follow adds the target (addressed by username) to the follower's following
// set. Adding a target already present is a no-op; the set stays
// duplicate-free either way. Returns the updated follower and the target.
func (s *UserService) Follow(ctx context.Context, followerID, targetUsername string) (*models.User, *models.User, error) {
	return s.setFollowing(ctx, followerID, targetUsername, true)
}

// Unfollow removes the target from the follower's following set; an absent
// target is a no-op, not an error.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetUsername string) (*models.User, *models.User, error) {
	return s.setFollowing(ctx, followerID, targetUsername, false)
}

func (s *UserService) setFollowing(ctx context.Context, followerID, targetUsername string, follow bool) (*models.User, *models.User, error) {
	repo := s.repomanager.Users(s.db)

	target, err := repo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, nil, err
	}

	follower, err := repo.GetByID(ctx, followerID)
	if err != nil {
		return nil, nil, err
	}

	var changed bool
	if follow {
		changed = follower.Follow(target.ID)
	} else {
		changed = follower.Unfollow(target.ID)
	}

	if changed {
		if err := repo.Update(ctx, follower); err != nil {
			return nil, nil, err
		}
	}

	return follower, target, nil
}

func validateRegistration(username, email, password string) error {
	return validation.Errors{
		"username": validation.Validate(username,
			validation.Required,
			validation.Match(usernameRegex).Error("must be alphanumeric")),
		"email": validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
}

func validateProfile(username, email string) error {
	return validation.Errors{
		"username": validation.Validate(username,
			validation.Required,
			validation.Match(usernameRegex).Error("must be alphanumeric")),
		"email": validation.Validate(email, validation.Required, is.Email),
	}.Filter()
}
