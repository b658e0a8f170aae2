package service

import (
	"context"
	"errors"
	"time"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	ErrHashingFailed     = errors.New("failed to hash password")
	ErrTokenGeneration   = errors.New("failed to generate authentication token")
)

// AuthStatus tags the outcome of an auth attempt.
type AuthStatus string

const (
	StatusAuthenticated AuthStatus = "authenticated"
	StatusLocalFallback AuthStatus = "local_fallback"
	StatusFailed        AuthStatus = "failed"
)

// AuthOutcome is the result of Register or Login. Exactly one of the
// three statuses applies: Authenticated carries a token and user,
// LocalFallback carries a locally minted identity issued when the user
// store is unreachable, Failed carries only a reason.
type AuthOutcome struct {
	Status    AuthStatus
	Token     string
	ExpiresIn int64 // seconds
	UserID    string
	User      *domain.User
	Reason    string
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (AuthOutcome, error)
	Login(ctx context.Context, email, password string) (AuthOutcome, error)
	GetJWTSecret() string
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration. When the user store is
// unreachable the account cannot be persisted, but the caller still
// gets a working session: a local identity is minted and a token
// issued for it. The account is lost on restart, which matches what
// the client can usefully do with it.
func (s *authService) Register(ctx context.Context, name, email, password string) (AuthOutcome, error) {
	if name == "" || email == "" || password == "" {
		return AuthOutcome{}, errors.New("name, email, and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return AuthOutcome{}, ErrUserAlreadyExists
	}
	if errors.Is(err, repository.ErrUnavailable) {
		return s.localFallback(email)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return AuthOutcome{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthOutcome{}, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			return s.localFallback(email)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthOutcome{}, ErrUserAlreadyExists
		}
		return AuthOutcome{}, err
	}
	user.ID = userID

	token, err := s.generateJWT(user.ID.Hex())
	if err != nil {
		return AuthOutcome{}, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return AuthOutcome{
		Status:    StatusAuthenticated,
		Token:     token,
		ExpiresIn: int64(s.jwtExpiration.Seconds()),
		UserID:    user.ID.Hex(),
		User:      user,
	}, nil
}

// Login handles user authentication. Bad credentials and an
// unreachable store both yield a Failed outcome rather than an error;
// errors are reserved for the unexpected.
func (s *authService) Login(ctx context.Context, email, password string) (AuthOutcome, error) {
	if email == "" || password == "" {
		return AuthOutcome{Status: StatusFailed, Reason: "email and password cannot be empty"}, nil
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthOutcome{Status: StatusFailed, Reason: "invalid email or password"}, nil
		}
		if errors.Is(err, repository.ErrUnavailable) {
			return AuthOutcome{Status: StatusFailed, Reason: "user store unavailable"}, nil
		}
		return AuthOutcome{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return AuthOutcome{Status: StatusFailed, Reason: "invalid email or password"}, nil
	}

	token, err := s.generateJWT(user.ID.Hex())
	if err != nil {
		return AuthOutcome{}, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return AuthOutcome{
		Status:    StatusAuthenticated,
		Token:     token,
		ExpiresIn: int64(s.jwtExpiration.Seconds()),
		UserID:    user.ID.Hex(),
		User:      user,
	}, nil
}

// localFallback mints a session identity that exists only in the token.
func (s *authService) localFallback(email string) (AuthOutcome, error) {
	localID := "local_" + uuid.NewString()
	token, err := s.generateJWT(localID)
	if err != nil {
		return AuthOutcome{}, ErrTokenGeneration
	}
	return AuthOutcome{
		Status:    StatusLocalFallback,
		Token:     token,
		ExpiresIn: int64(s.jwtExpiration.Seconds()),
		UserID:    localID,
		Reason:    "user store unavailable, issued local session for " + email,
	}, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(subject string) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "health-planner",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
