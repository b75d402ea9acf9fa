package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"triviaapi/config"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("token not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrRevokedToken       = errors.New("token revoked")
)

// Manager issues and checks admin tokens. A Manager without a secret is
// disabled and lets every request through.
type Manager struct {
	key          []byte
	passwordHash []byte
	ttl          time.Duration

	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{
		key:          []byte(cfg.Secret),
		passwordHash: []byte(cfg.AdminPasswordHash),
		ttl:          cfg.TokenTTL,
		revoked:      make(map[string]time.Time),
	}
}

func (m *Manager) Enabled() bool {
	return m != nil && len(m.key) > 0
}

// HashPassword produces the value to put in TRIVIA_AUTH_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks password against the configured bcrypt hash and returns a token.
func (m *Manager) Login(password string) (string, error) {
	if len(m.passwordHash) == 0 {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return m.GenerateJWT(adminSubject)
}

func (m *Manager) GenerateJWT(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(m.ttl).Unix(),
		"iat": now.Unix(),
		"jti": uuid.New().String(),
	})

	return token.SignedString(m.key)
}

func (m *Manager) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify checks signature, expiry and revocation of tokenString.
func (m *Manager) Verify(tokenString string) error {
	if tokenString == "" {
		return ErrMissingToken
	}
	if m.isRevoked(tokenString) {
		return ErrRevokedToken
	}
	claims, err := m.parse(tokenString)
	if err != nil {
		return err
	}
	if sub, _ := claims["sub"].(string); sub != adminSubject {
		return ErrInvalidToken
	}
	return nil
}

// Authorize verifies the bearer token on r. It always passes when m is disabled.
func (m *Manager) Authorize(r *http.Request) error {
	if !m.Enabled() {
		return nil
	}
	return m.Verify(ExtractToken(r))
}

// Revoke blacklists a valid token until it expires.
func (m *Manager) Revoke(tokenString string) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for t, expiry := range m.revoked {
		if now.After(expiry) {
			delete(m.revoked, t)
		}
	}
	m.revoked[tokenString] = time.Unix(int64(exp), 0)
}

func (m *Manager) isRevoked(tokenString string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.revoked[tokenString]
	return exists
}

func ExtractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
