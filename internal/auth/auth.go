// Package auth provides authentication for the planning server: bcrypt
// password checks for the configured planner accounts and JWT sessions.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// User roles for role-based access control (RBAC)
const (
	RoleAdmin   = "admin"   // Full access
	RolePlanner = "planner" // Can compute and publish search plans
	RoleViewer  = "viewer"  // Can follow published plans
)

var (
	// ErrInvalidCredentials is returned when authentication fails
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned when token validation fails
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnauthorized is returned when user lacks required permissions
	ErrUnauthorized = errors.New("unauthorized access")
)

// Claims represents the JWT claims for a user session
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Account is a configured login.
type Account struct {
	Username     string
	PasswordHash string
	Role         string
}

// Config holds authentication configuration
type Config struct {
	JWTSecret     string        // Secret key for signing JWTs
	TokenDuration time.Duration // How long tokens are valid
	BCryptCost    int           // BCrypt hashing cost (default: bcrypt.DefaultCost)
	Accounts      []Account
}

// Service provides authentication operations
type Service struct {
	config   Config
	accounts map[string]Account

	// dummyHash keeps the failure path as slow as a real comparison
	dummyHash []byte
}

// NewService creates a new authentication service
func NewService(cfg Config) *Service {
	if cfg.BCryptCost == 0 {
		cfg.BCryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = 12 * time.Hour
	}

	accounts := make(map[string]Account, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		accounts[a.Username] = a
	}

	dummy, _ := bcrypt.GenerateFromPassword([]byte("sar-scope"), bcrypt.MinCost)

	return &Service{
		config:    cfg,
		accounts:  accounts,
		dummyHash: dummy,
	}
}

// HashPassword hashes a plaintext password using bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BCryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares a plaintext password with a hashed password
func (s *Service) ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Authenticate checks a username and password and returns a signed session
// token for the account.
func (s *Service) Authenticate(username, password string) (string, *Claims, error) {
	account, ok := s.accounts[username]
	if !ok || account.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", nil, ErrInvalidCredentials
	}
	if err := s.ComparePassword(account.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	return s.GenerateToken(account.Username, account.Role)
}

// GenerateToken generates a JWT token for a user
func (s *Service) GenerateToken(username, role string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "sar-scope",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer("sar-scope"))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// HasRole checks if a user has a specific role or higher
// Role hierarchy: Admin > Planner > Viewer
func HasRole(userRole, requiredRole string) bool {
	roleLevel := map[string]int{
		RoleAdmin:   2,
		RolePlanner: 1,
		RoleViewer:  0,
	}

	userLevel, ok1 := roleLevel[userRole]
	requiredLevel, ok2 := roleLevel[requiredRole]

	if !ok1 || !ok2 {
		return false
	}

	return userLevel >= requiredLevel
}

// CanPlan checks if a role can compute and publish search plans
func CanPlan(role string) bool {
	return HasRole(role, RolePlanner)
}

// CanView checks if a role can follow published plans
func CanView(role string) bool {
	return HasRole(role, RoleViewer)
}
