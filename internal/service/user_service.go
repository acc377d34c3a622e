package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

// LoginResult is the outcome of a successful login. Token is the issued
// bearer token; it is also deposited into the request's TokenCarrier so
// the response pipeline attaches it as a cookie. The result itself is
// what tells the transport layer "this response carries an issued token";
// nothing is inferred from response body types.
type LoginResult struct {
	Username      string
	Authenticated bool
	Token         string
}

// UserService handles registration and credential-based login.
type UserService interface {
	// Register creates a new user with a hashed password.
	// Returns store.ErrUsernameExists if the username is taken.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Login verifies the credentials and issues a token bound to the
	// username. Returns ErrBadCredentials on unknown username or wrong
	// password; token signing failures propagate as auth.ErrTokenCreation.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type userServiceImpl struct {
	users        store.UserStore
	tokenService auth.TokenService
	hasher       auth.PasswordHasher
	logger       *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	tokenService auth.TokenService,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:        users,
		tokenService: tokenService,
		hasher:       hasher,
		logger:       logger.With(slog.String("component", "user_service")),
	}
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err, "username", username)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("registration rejected: username taken", "username", username)
		}
		return nil, err
	}

	log.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(
	ctx context.Context,
	username, password string,
) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		log.Error("failed to look up user for login", "error", err, "username", username)
		return nil, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login rejected: password mismatch", "username", username)
		return nil, ErrBadCredentials
	}

	token, err := s.tokenService.IssueToken(ctx, user.Username)
	if err != nil {
		// Signing failure is a fatal misconfiguration, not a retryable
		// condition; surface it.
		return nil, err
	}

	// Hand the token to the response pipeline for cookie attachment.
	if carrier := shared.TokenCarrierFromContext(ctx); carrier != nil {
		carrier.Set(token)
	}

	log.Info("user logged in", "username", username)
	return &LoginResult{
		Username:      user.Username,
		Authenticated: true,
		Token:         token,
	}, nil
}
