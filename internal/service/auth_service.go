package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/suteetoe/merchant-dashboard/internal/model"
	"github.com/suteetoe/merchant-dashboard/internal/ports"
	"github.com/suteetoe/merchant-dashboard/pkg/jwtutil"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
	"github.com/suteetoe/merchant-dashboard/pkg/session"
	"github.com/suteetoe/merchant-dashboard/prometheus"
)

const MinPasswordLength = 8

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginResult is what a successful login hands back to the client
type LoginResult struct {
	Token     string
	SessionID string
	User      *model.User
}

type AuthService struct {
	users    ports.UserRepository
	sessions session.Store
	tokens   *jwtutil.JWTUtil
}

func NewAuthService(users ports.UserRepository, sessions session.Store, tokens *jwtutil.JWTUtil) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in RegisterInput) validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return newValidationError("a valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return newValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if in.Password != in.ConfirmPassword {
		return newValidationError("passwords do not match")
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.validate(); err != nil {
		prometheus.RecordAuthAttempt("register", "rejected")
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Email: in.Email, Password: string(hashed)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			prometheus.RecordAuthAttempt("register", "rejected")
			return nil, ErrEmailTaken
		}
		prometheus.RecordAuthAttempt("register", "failure")
		return nil, fmt.Errorf("create user: %w", err)
	}

	prometheus.RecordAuthAttempt("register", "success")
	logger.FromContext(ctx).Info("User registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks the password, issues a token and records its session
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		prometheus.RecordAuthAttempt("login", "failure")
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		prometheus.RecordAuthAttempt("login", "rejected")
		return nil, ErrInvalidCredentials
	}

	token, sessionID, err := s.tokens.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	identity := session.Identity{UserID: user.ID, Email: user.Email}
	if err := s.sessions.SetIdentity(ctx, sessionID, identity, s.tokens.TTL()); err != nil {
		prometheus.RecordAuthAttempt("login", "failure")
		return nil, fmt.Errorf("store session: %w", err)
	}

	prometheus.RecordAuthAttempt("login", "success")
	return &LoginResult{Token: token, SessionID: sessionID, User: user}, nil
}

// Logout forgets the session; the token stops working immediately
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	prometheus.RecordAuthAttempt("logout", "success")
	return nil
}
