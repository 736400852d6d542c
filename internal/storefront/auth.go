package storefront

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
	"github.com/reservat/storefront/pkg/utils"
)

// UserStore is the account persistence the auth service needs.
type UserStore interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id int64) (*models.User, error)
}

// Auth issues bearer tokens for storefront accounts. Tokens live in memory;
// restarting the server signs everyone out.
type Auth struct {
	users  UserStore
	logger *zap.Logger

	mu     sync.RWMutex
	tokens map[string]int64 // token -> user ID
}

// NewAuth creates the auth service.
func NewAuth(users UserStore, logger *zap.Logger) *Auth {
	return &Auth{
		users:  users,
		logger: logger,
		tokens: make(map[string]int64),
	}
}

// HashPassword derives the stored form of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates an account and signs it in.
func (a *Auth) Register(name, email, password string) (string, *models.User, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return "", nil, err
	}

	existing, err := a.users.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, ErrInvalidCredentials
	}

	user := &models.User{
		Name:         utils.SanitizeString(name),
		Email:        email,
		PasswordHash: HashPassword(password),
	}
	if err := a.users.Create(user); err != nil {
		return "", nil, err
	}

	token := a.issueToken(user.ID)
	a.logger.Info("Account registered", zap.String("email", email))
	return token, user, nil
}

// Login verifies credentials and issues a session token.
func (a *Auth) Login(email, password string) (string, *models.User, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user, err := a.users.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	hash := HashPassword(password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(user.PasswordHash)) != 1 {
		a.logger.Info("Login rejected", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token := a.issueToken(user.ID)
	a.logger.Info("Login accepted", zap.String("email", email))
	return token, user, nil
}

// Logout invalidates a session token. Unknown tokens are ignored.
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.tokens, token)
}

// UserFor resolves a session token to its account.
func (a *Auth) UserFor(token string) (*models.User, error) {
	a.mu.RLock()
	userID, ok := a.tokens[token]
	a.mu.RUnlock()
	if !ok {
		return nil, ErrUnauthorized
	}

	user, err := a.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (a *Auth) issueToken(userID int64) string {
	token := uuid.New().String()
	a.mu.Lock()
	a.tokens[token] = userID
	a.mu.Unlock()
	return token
}
