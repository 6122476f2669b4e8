// Package services contains server-side business logic on top of the entity
// repositories: authentication, contact submissions, and gallery categories.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndenisov/showcase/internal/common"
	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/auth"
	"github.com/ndenisov/showcase/internal/server/config"
	"github.com/ndenisov/showcase/internal/server/docstore"
	"github.com/ndenisov/showcase/internal/server/models"
)

// UsersTable is the document table holding user accounts, keyed by the
// lowercased email address. Keying by email makes the duplicate-email check
// an atomic conditional write instead of a racy check-then-insert.
const UsersTable = "users"

// Users handles registration, login and session token verification.
type Users struct {
	store                 docstore.Store
	log                   logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUsers(store docstore.Store, cfg *config.Config, log logging.Logger) *Users {
	return &Users{
		store:                 store,
		log:                   log,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account and returns it with a fresh session token.
// A user with the same email yields common.ErrConflict. The stored password
// is a bcrypt hash; the plaintext is never persisted or returned.
func (s *Users) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", common.NewValidationError("all fields are required")
	}
	if role == "" {
		role = models.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	id := strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UTC().Format(time.RFC3339Nano)
	user := &models.User{
		ID:           id,
		Email:        id,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := json.Marshal(user)
	if err != nil {
		return nil, "", fmt.Errorf("encoding user: %w", err)
	}
	if err := s.store.PutIfAbsent(ctx, UsersTable, id, doc); err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password both yield common.ErrUnauthorized so callers cannot probe
// which emails exist.
func (s *Users) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.getByID(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", common.ErrUnauthorized
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	user.PasswordHash = ""
	return user, token, nil
}

// VerifyToken checks a session token and re-fetches the account so role
// changes take effect without a new login. A token for a deleted user fails.
func (s *Users) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.getByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Get returns the account stored under id, with the credential stripped.
func (s *Users) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// List returns every account, with credentials stripped.
func (s *Users) List(ctx context.Context) ([]*models.User, error) {
	docs, err := s.store.Scan(ctx, UsersTable)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		var user models.User
		if err := json.Unmarshal(doc, &user); err != nil {
			return nil, fmt.Errorf("decoding user: %w", err)
		}
		user.PasswordHash = ""
		users = append(users, &user)
	}
	return users, nil
}

func (s *Users) getByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := s.store.Get(ctx, UsersTable, id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(doc, &user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &user, nil
}

func (s *Users) generateToken(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}
