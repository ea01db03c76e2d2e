package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
	"github.com/meetflow-app/meetflow/pkg/jwt"
)

// Result is the outcome shape for credential operations. The caller checks
// Success rather than an error value; failures are ordinary outcomes here,
// not process faults.
type Result struct {
	Success      bool           `json:"success"`
	User         *entities.User `json:"user,omitempty"`
	AccessToken  string         `json:"access_token,omitempty"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// MessageResult is the outcome shape for forgot-password
type MessageResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Service is the authentication collaborator consumed by the HTTP surface.
// This implementation simulates the credential backend (in-memory registry,
// configurable latency) while issuing real JWTs, so a production identity
// provider can replace it behind the same interface.
type Service interface {
	Login(ctx context.Context, email, password string) Result
	Register(ctx context.Context, name, email, password string) Result
	Logout(ctx context.Context)
	ForgotPassword(ctx context.Context, email string) MessageResult
	SocialLogin(ctx context.Context, provider string) Result
}

// Options holds auth service tuning knobs
type Options struct {
	// SimulatedLatency stands in for the identity backend round trip
	SimulatedLatency time.Duration
}

type account struct {
	user         *entities.User
	passwordHash string
}

type service struct {
	mu       sync.RWMutex
	accounts map[string]*account

	jwtManager *jwt.Manager
	providers  map[string]entities.AuthProvider
	clk        clock.Clock
	logger     *zap.Logger
	opts       Options
}

// NewService creates the simulated auth service
func NewService(jwtManager *jwt.Manager, clk clock.Clock, opts Options, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &service{
		accounts:   make(map[string]*account),
		jwtManager: jwtManager,
		providers: map[string]entities.AuthProvider{
			"google": entities.AuthProviderGoogle,
			"github": entities.AuthProviderGithub,
		},
		clk:    clk,
		logger: logger,
		opts:   opts,
	}
}

// Login checks credentials and issues a token pair
func (s *service) Login(ctx context.Context, email, password string) Result {
	if err := s.simulateLatency(ctx); err != nil {
		return Result{Error: err.Error()}
	}

	s.mu.RLock()
	acc, ok := s.accounts[normalizeEmail(email)]
	s.mu.RUnlock()

	if !ok || !checkPassword(password, acc.passwordHash) {
		return Result{Error: "invalid email or password"}
	}
	return s.issueTokens(acc.user)
}

// Register creates a new account and issues a token pair
func (s *service) Register(ctx context.Context, name, email, password string) Result {
	if err := s.simulateLatency(ctx); err != nil {
		return Result{Error: err.Error()}
	}

	key := normalizeEmail(email)

	s.mu.Lock()
	if _, exists := s.accounts[key]; exists {
		s.mu.Unlock()
		return Result{Error: "email already in use"}
	}

	hash, err := hashPassword(password)
	if err != nil {
		s.mu.Unlock()
		return Result{Error: "failed to create account"}
	}

	user := entities.NewUser(name, key, entities.AuthProviderLocal)
	s.accounts[key] = &account{user: user, passwordHash: hash}
	s.mu.Unlock()

	s.logger.Info("user registered", zap.String("email", key))
	return s.issueTokens(user)
}

// Logout invalidates the current session. Tokens are stateless here, so
// this only logs; a production backend revokes the refresh token.
func (s *service) Logout(ctx context.Context) {
	s.logger.Info("user logged out")
}

// ForgotPassword simulates sending a reset link
func (s *service) ForgotPassword(ctx context.Context, email string) MessageResult {
	if err := s.simulateLatency(ctx); err != nil {
		return MessageResult{Error: err.Error()}
	}

	s.mu.RLock()
	_, ok := s.accounts[normalizeEmail(email)]
	s.mu.RUnlock()

	if !ok {
		return MessageResult{Error: "user not found"}
	}
	return MessageResult{
		Success: true,
		Message: fmt.Sprintf("Password reset link sent to %s", email),
	}
}

// SocialLogin simulates an OAuth exchange with the named provider and
// issues a token pair for the provider-backed account
func (s *service) SocialLogin(ctx context.Context, provider string) Result {
	if err := s.simulateLatency(ctx); err != nil {
		return Result{Error: err.Error()}
	}

	p, ok := s.providers[strings.ToLower(provider)]
	if !ok {
		return Result{Error: fmt.Sprintf("unknown social login provider: %s", provider)}
	}

	name := fmt.Sprintf("%s User", titleCase(provider))
	email := fmt.Sprintf("user@%s.example.com", strings.ToLower(provider))
	key := normalizeEmail(email)

	s.mu.Lock()
	acc, exists := s.accounts[key]
	if !exists {
		acc = &account{user: entities.NewUser(name, key, p)}
		s.accounts[key] = acc
	}
	s.mu.Unlock()

	s.logger.Info("social login", zap.String("provider", provider))
	return s.issueTokens(acc.user)
}

func (s *service) issueTokens(user *entities.User) Result {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return Result{Error: "failed to issue access token"}
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return Result{Error: "failed to issue refresh token"}
	}
	return Result{
		Success:      true,
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

func (s *service) simulateLatency(ctx context.Context) error {
	if s.opts.SimulatedLatency <= 0 {
		return nil
	}
	timer := s.clk.Timer(s.opts.SimulatedLatency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
