package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the session. Status is "authenticated" or
// "local_fallback"; User is absent for local fallback sessions since
// nothing was persisted.
type AuthResponse struct {
	Status    string        `json:"status"`
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expiresIn"`
	UserID    string        `json:"userId"`
	User      *UserResponse `json:"user,omitempty"`
}

// --- Handler Methods ---

// Register creates a new user account and returns a session. When the
// user store is down the account is not persisted but a local session
// token is still issued.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	outcome, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, mapOutcomeToResponse(outcome))
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	outcome, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	if outcome.Status == service.StatusFailed {
		abortWithError(c, http.StatusUnauthorized, outcome.Reason)
		return
	}

	c.JSON(http.StatusOK, mapOutcomeToResponse(outcome))
}

func mapOutcomeToResponse(outcome service.AuthOutcome) AuthResponse {
	resp := AuthResponse{
		Status:    string(outcome.Status),
		Token:     outcome.Token,
		ExpiresIn: outcome.ExpiresIn,
		UserID:    outcome.UserID,
	}
	if outcome.User != nil {
		user := MapUserToResponse(outcome.User)
		resp.User = &user
	}
	return resp
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
