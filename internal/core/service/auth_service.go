package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	AuthCodeTTL       = 10 * time.Minute
	TokenTTL          = time.Hour
	BcryptCost        = 10
	MinPasswordLength = 8

	SubjectOperator = "operator"
	SubjectTerminal = "terminal"
)

// Token scopes checked by the API. "*" grants all of them.
const (
	ScopeClients   = "clients"
	ScopeProducts  = "products"
	ScopeSales     = "sales"
	ScopeTerminals = "terminals"
)

type AuthService struct {
	operatorRepo repository.OperatorRepository
	terminalRepo repository.TerminalRepository
	authCodeRepo repository.AuthCodeRepository
	jwtSecret    string
	jwtAlgorithm string
	log          *zap.Logger
}

func NewAuthService(
	operatorRepo repository.OperatorRepository,
	terminalRepo repository.TerminalRepository,
	authCodeRepo repository.AuthCodeRepository,
	jwtSecret string,
	jwtAlgorithm string,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		terminalRepo: terminalRepo,
		authCodeRepo: authCodeRepo,
		jwtSecret:    jwtSecret,
		jwtAlgorithm: jwtAlgorithm,
		log:          log,
	}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) CreateOperator(ctx context.Context, username, displayName, password string) (*domain.Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, NewValidationError(msgCompleteAllFields, "username")
	}
	if len(password) < MinPasswordLength {
		return nil, NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength), "password")
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	operator := domain.NewOperator(username, strings.TrimSpace(displayName), hash)
	err = s.operatorRepo.Create(ctx, operator)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, &DuplicateError{Message: "operator already exists: " + username}
	}
	if err != nil {
		return nil, &StoreError{Op: "create operator", Err: err}
	}

	s.log.Info("operator created", zap.String("username", username))
	return operator, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, username, password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength), "password")
	}

	operator, err := s.operatorRepo.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "operator", Key: username}
	}
	if err != nil {
		return &StoreError{Op: "find operator", Err: err}
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	operator.Password = hash
	operator.UpdatedAt = time.Now()

	if err := s.operatorRepo.Update(ctx, operator); err != nil {
		return &StoreError{Op: "update operator", Err: err}
	}
	return nil
}

func (s *AuthService) DeleteOperator(ctx context.Context, username string) error {
	err := s.operatorRepo.Delete(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "operator", Key: username}
	}
	if err != nil {
		return &StoreError{Op: "delete operator", Err: err}
	}
	return nil
}

func (s *AuthService) ListOperators(ctx context.Context) ([]*domain.Operator, error) {
	operators, err := s.operatorRepo.List(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list operators", Err: err}
	}
	return operators, nil
}

// AuthorizeOperator checks credentials and returns a single-use auth code.
func (s *AuthService) AuthorizeOperator(ctx context.Context, username, password string) (*domain.AuthCode, error) {
	operator, err := s.operatorRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !s.VerifyPassword(password, operator.Password) {
		return nil, ErrInvalidCredentials
	}

	authCode := domain.NewAuthCode(username, []string{"*"}, AuthCodeTTL)
	if err := s.authCodeRepo.Create(ctx, authCode); err != nil {
		return nil, &StoreError{Op: "create auth code", Err: err}
	}

	if err := s.authCodeRepo.DeleteExpired(ctx); err != nil {
		s.log.Warn("failed to purge expired auth codes", zap.Error(err))
	}

	return authCode, nil
}

// ExchangeAuthCode exchanges an auth code for a JWT token
func (s *AuthService) ExchangeAuthCode(ctx context.Context, code string) (string, error) {
	authCode, err := s.authCodeRepo.FindByCode(ctx, code)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	// Single use, expired or not
	_ = s.authCodeRepo.Delete(ctx, code)

	if authCode.IsExpired() {
		return "", fmt.Errorf("%w: auth code expired", ErrInvalidCredentials)
	}

	return s.generateJWT(authCode.Username, SubjectOperator, authCode.Scopes)
}

// CreateTerminal registers a device and returns it together with its
// plain-text secret. The secret is not recoverable afterwards.
func (s *AuthService) CreateTerminal(ctx context.Context, label string, scopes []string) (*domain.Terminal, string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, "", NewValidationError(msgCompleteAllFields, "label")
	}
	if len(scopes) == 0 {
		scopes = []string{"*"}
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, "", err
	}
	hash, err := s.HashPassword(secret)
	if err != nil {
		return nil, "", err
	}

	terminal := domain.NewTerminal(label, hash, scopes)
	if err := s.terminalRepo.Create(ctx, terminal); err != nil {
		return nil, "", &StoreError{Op: "create terminal", Err: err}
	}

	s.log.Info("terminal created", zap.String("terminal_id", terminal.ID), zap.String("label", label))
	return terminal, secret, nil
}

func (s *AuthService) UpdateTerminal(ctx context.Context, id, label string, scopes []string) (*domain.Terminal, error) {
	terminal, err := s.terminalRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "terminal", Key: id}
	}
	if err != nil {
		return nil, &StoreError{Op: "find terminal", Err: err}
	}

	if label = strings.TrimSpace(label); label != "" {
		terminal.Label = label
	}
	if len(scopes) > 0 {
		terminal.Scopes = scopes
	}
	terminal.UpdatedAt = time.Now()

	if err := s.terminalRepo.Update(ctx, terminal); err != nil {
		return nil, &StoreError{Op: "update terminal", Err: err}
	}
	return terminal, nil
}

func (s *AuthService) DeleteTerminal(ctx context.Context, id string) error {
	err := s.terminalRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "terminal", Key: id}
	}
	if err != nil {
		return &StoreError{Op: "delete terminal", Err: err}
	}
	return nil
}

func (s *AuthService) ListTerminals(ctx context.Context) ([]*domain.Terminal, error) {
	terminals, err := s.terminalRepo.List(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list terminals", Err: err}
	}
	return terminals, nil
}

// AuthenticateTerminal implements the client-credentials grant for devices.
func (s *AuthService) AuthenticateTerminal(ctx context.Context, terminalID, secret string) (string, error) {
	terminal, err := s.terminalRepo.FindByID(ctx, terminalID)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !s.VerifyPassword(secret, terminal.Secret) {
		return "", ErrInvalidCredentials
	}

	return s.generateJWT(terminalID, SubjectTerminal, terminal.Scopes)
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

func (s *AuthService) generateJWT(subject, subjectType string, scopes []string) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		SubjectType: subjectType,
		Scopes:      scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "stockpoint",
		},
	}

	var signingMethod jwt.SigningMethod
	switch s.jwtAlgorithm {
	case "HS384":
		signingMethod = jwt.SigningMethodHS384
	case "HS512":
		signingMethod = jwt.SigningMethodHS512
	default:
		signingMethod = jwt.SigningMethodHS256
	}

	tokenString, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	SubjectType string   `json:"sub_type"` // "operator" or "terminal"
	Scopes      []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope, either directly or via "*".
func (c *TokenClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}
