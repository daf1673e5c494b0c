package service

import (
	"auth-service/logger"
	"auth-service/model"
	"auth-service/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUserNotFound is returned by Self when the token subject no longer exists.
var ErrUserNotFound = errors.New("user not found")

// TokenPair is a freshly signed access/refresh token pair with their expiries.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Session is the outcome of a successful register, login or refresh.
type Session struct {
	User           *model.User
	RefreshTokenID int
	Tokens         TokenPair
}

// AuthService sequences credential checks, refresh token persistence and
// token issuance for every session flow.
type AuthService struct {
	userRepo repository.IUserRepository
	hasher   *PasswordHasher
	tokens   *TokenService
	store    *RefreshTokenStore

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo repository.IUserRepository, hasher *PasswordHasher, tokens *TokenService, store *RefreshTokenStore) *AuthService {
	if hasher == nil {
		hasher = NewPasswordHasher(DefaultPasswordCost)
	}
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		store:    store,
	}
}

// Register creates a customer account and opens its first session.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*Session, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"password":   "********",
	})
	log.Debug("New request to register a user")

	_, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		log.Info("Registration rejected, email already exists")
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storeFailure("could not look up user", err)
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hash,
		Role:      model.RoleCustomer,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}
		return nil, storeFailure("failed to store the user", err)
	}
	log.WithField("user_id", user.ID).Info("User has been registered")

	return s.startSession(ctx, user)
}

// Login checks credentials and opens a new session. An unknown email and a
// wrong password are reported identically.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*Session, error) {
	log := logger.Log.WithField("email", req.Email)
	log.Debug("New request to login a user")

	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, storeFailure("could not look up user", err)
		}
		// Spend the same bcrypt time as a real comparison.
		s.hasher.CheckPasswordHash(req.Password, s.dummyPasswordHash())
		log.Info("Login rejected")
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.CheckPasswordHash(req.Password, user.Password) {
		log.Info("Login rejected")
		return nil, ErrInvalidCredentials
	}

	log.WithField("user_id", user.ID).Info("User has logged in")
	return s.startSession(ctx, user)
}

// Refresh rotates a refresh token: the presented record is revoked and a new
// session is opened. A token can be rotated once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	userID, _ := claims.UserID()
	recordID, _ := claims.RecordID()

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, storeFailure("could not look up user", err)
	}

	revoked, err := s.store.Revoke(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !revoked {
		logger.Log.WithField("refresh_token_id", recordID).Warn("Refresh token already rotated")
		return nil, ErrInvalidToken
	}

	return s.startSession(ctx, user)
}

// VerifyRefreshToken checks the signature, issuer and expiry of a refresh
// token and that its record is still live.
func (s *AuthService) VerifyRefreshToken(ctx context.Context, refreshToken string) (*model.AppClaims, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	recordID, _ := claims.RecordID()

	exists, err := s.store.Exists(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.Log.WithField("refresh_token_id", recordID).Info("Refresh token record revoked or expired")
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the refresh token of userID's current session. A missing,
// unparsable or foreign refresh token leaves nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, userID int, refreshToken string) error {
	log := logger.Log.WithField("user_id", userID)
	if refreshToken == "" {
		log.Info("Logout without refresh token")
		return nil
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		log.Info("Logout with unusable refresh token")
		return nil
	}
	owner, _ := claims.UserID()
	if owner != userID {
		log.WithField("token_user_id", owner).Warn("Logout with refresh token of another user")
		return nil
	}

	recordID, _ := claims.RecordID()
	if _, err := s.store.Revoke(ctx, recordID); err != nil {
		return err
	}
	log.WithField("refresh_token_id", recordID).Info("User has logged out")
	return nil
}

// Self returns the user identified by an access token subject.
func (s *AuthService) Self(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, storeFailure("could not look up user", err)
	}
	return user, nil
}

// RevokeAllSessions logs userID out of every device.
func (s *AuthService) RevokeAllSessions(ctx context.Context, userID int) (int, error) {
	ids, err := s.store.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// startSession persists the refresh record before signing the token that
// names it.
func (s *AuthService) startSession(ctx context.Context, user *model.User) (*Session, error) {
	record, err := s.store.Persist(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	payload := model.TokenPayload{UserID: user.ID, Role: user.Role}

	accessToken, accessExp, err := s.tokens.GenerateAccessToken(payload)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokens.GenerateRefreshToken(payload, record.ID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":          user.ID,
		"refresh_token_id": record.ID,
	}).Info("Session tokens issued")

	return &Session{
		User:           user,
		RefreshTokenID: record.ID,
		Tokens: TokenPair{
			AccessToken:      accessToken,
			AccessExpiresAt:  accessExp,
			RefreshToken:     refreshToken,
			RefreshExpiresAt: refreshExp,
		},
	}, nil
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.HashPassword("not-a-real-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
