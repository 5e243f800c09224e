package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/mkhiriev/go-todo-vault/internal/config"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/internal/store"
	"github.com/mkhiriev/go-todo-vault/internal/utils"
	"github.com/mkhiriev/go-todo-vault/models"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, and the signed
// session lifecycle using a UserRepository and SessionRepository for
// persistence, bcrypt for password hashing and HMAC-SHA256 for token
// signatures.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// sessionRepository tracks the per-user set of active session ids.
	// Membership in this set is the revocation mechanism: a token whose
	// session id is absent is rejected even while its signature verifies.
	sessionRepository store.SessionRepository

	// tokenSignKey is the HMAC secret used to sign and verify session tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	// bcryptCost is the cost parameter passed to the password hasher.
	bcryptCost int

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repositories
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, sessionRepository store.SessionRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		tokenSignKey:      cfg.TokenSignKey,
		tokenIssuer:       cfg.TokenIssuer,
		tokenDuration:     cfg.TokenDuration,
		bcryptCost:        cfg.BcryptCost,
		logger:            logger,
	}
}

// Register creates a new user account.
//
// It validates that name and password are non-empty and that the email is
// syntactically valid, normalizes the email (trimmed, lower-cased), hashes
// the password with bcrypt, and delegates persistence to the UserRepository.
// The plaintext password never reaches the store.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided on empty name/password or malformed email.
//   - store.ErrEmailAlreadyExists when the email is taken.
//   - A wrapped storage error if the repository call fails.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(req.Email)
	if err != nil || req.Name == "" || req.Password == "" {
		log.Error().Str("email", req.Email).Msg("invalid registration data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	passwordHash, err := utils.HashPassword(req.Password, a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		log.Err(err).Str("email", email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user by email and password.
//
// "No such email" and "wrong password" both come back as
// ErrAuthenticationFailed; the distinction never leaves this method, so
// callers cannot enumerate accounts through response differences.
func (a *authService) Login(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	normalizedEmail, err := normalizeEmail(email)
	if err != nil || password == "" {
		log.Error().Str("email", email).Msg("invalid login data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Debug().Str("email", normalizedEmail).Msg("login attempt for unknown email")
			return models.User{}, ErrAuthenticationFailed
		}

		log.Err(err).Str("email", normalizedEmail).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	matches, err := utils.VerifyPassword(password, foundUser.PasswordHash)
	if err != nil {
		log.Err(err).Int64("id", foundUser.UserID).Msg("password verification failed")
		return models.User{}, fmt.Errorf("password verification failed: %w", err)
	}
	if !matches {
		log.Debug().Int64("id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrAuthenticationFailed
	}

	return foundUser, nil
}

// Issue mints a fresh session for the given user.
//
// A new unguessable session id is generated, recorded in the user's active
// set, and bound into a signed token together with the user id and expiry.
// Multiple concurrent sessions per user are permitted; each login adds an
// independent entry.
func (a *authService) Issue(ctx context.Context, userID int64) (models.Token, error) {
	log := logger.FromContext(ctx)

	sessionID := utils.NewSessionID()

	if err := a.sessionRepository.AddSession(ctx, userID, sessionID); err != nil {
		log.Err(err).Int64("id", userID).Msg("recording session failed")
		return models.Token{}, fmt.Errorf("recording session failed: %w", err)
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, userID, sessionID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// Authenticate resolves a presented token string to a user id.
//
// The stateless part (signature, structure, expiry, issuer) normalises any
// failure to ErrTokenIsExpiredOrInvalid. A token that passes it is then
// checked against the store: if its session id is no longer in the user's
// active set the result is ErrSessionRevoked — this is the revocation path,
// where logout or account deletion invalidates every copy of the token
// immediately even though the signature still verifies until expiry.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (int64, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return 0, ErrTokenIsExpiredOrInvalid
	}

	active, err := a.sessionRepository.HasActiveSession(ctx, token.UserID, token.SessionID)
	if err != nil {
		log.Err(err).Int64("id", token.UserID).Msg("session lookup failed")
		return 0, fmt.Errorf("session lookup failed: %w", err)
	}
	if !active {
		log.Debug().Int64("id", token.UserID).Str("session_id", token.SessionID).Msg("token presented for revoked session")
		return 0, ErrSessionRevoked
	}

	return token.UserID, nil
}

// Revoke removes the session carried by the presented token.
//
// Revocation is per-session, not per-token-string: once the session id is
// removed, all copies of any token encoding it become invalid at once.
// Revoking an already revoked session succeeds silently; a malformed token
// fails with ErrTokenIsExpiredOrInvalid.
func (a *authService) Revoke(ctx context.Context, tokenString string) error {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return ErrTokenIsExpiredOrInvalid
	}

	if err := a.sessionRepository.RemoveSession(ctx, token.UserID, token.SessionID); err != nil {
		log.Err(err).Int64("id", token.UserID).Msg("session removal failed")
		return fmt.Errorf("session removal failed: %w", err)
	}

	return nil
}

// normalizeEmail trims and lower-cases the address and checks its syntax.
// The normalized form is what gets stored and looked up, so "A@X.com" and
// "a@x.com " resolve to the same account.
func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidDataProvided
	}

	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", ErrInvalidDataProvided
	}

	return normalized, nil
}
