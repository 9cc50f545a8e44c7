package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrAuthFailure is returned for bad credentials. The caller is not told
// whether the username or the password was wrong.
var ErrAuthFailure = errors.New("incorrect username or password")

// ErrInvalidToken is returned when a session token fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// Service maps credentials to roles and issues bearer session tokens.
type Service struct {
	users  map[string]User
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a new auth Service over a fixed set of users.
func NewService(users map[string]User, secret []byte, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Service{
		users:  users,
		secret: secret,
		ttl:    ttl,
		logger: logger,
	}
}

// LoadUsers reads the users file, a JSON object keyed by username.
func LoadUsers(path string) (map[string]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	users := make(map[string]User)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}
	for name, user := range users {
		if !user.Role.Valid() {
			return nil, fmt.Errorf("user %q has unknown role %q", name, user.Role)
		}
	}
	return users, nil
}

// Authenticate checks the credentials and, on success, returns a signed
// session token plus the session it encodes.
func (s *Service) Authenticate(username, password string) (string, *Session, error) {
	user, ok := s.users[username]
	if !ok {
		return "", nil, ErrAuthFailure
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("failed login attempt", zap.String("username", username))
		return "", nil, ErrAuthFailure
	}

	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: user.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Info("login", zap.String("username", username), zap.String("role", string(user.Role)))
	return token, &Session{Username: username, Role: user.Role}, nil
}

// ParseToken verifies a session token and reconstructs its session.
func (s *Service) ParseToken(token string) (*Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return &Session{Username: claims.Subject, Role: claims.Role}, nil
}
