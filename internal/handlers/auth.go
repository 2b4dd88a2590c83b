package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// AuthHandler syncs auth-provider accounts into the local profile projection.
// Authentication itself happens at the provider; this only records the
// profile used to attribute actions and render notifications.
type AuthHandler struct {
	userRepository repositories.UserRepository
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository) *AuthHandler {
	return &AuthHandler{userRepository: userRepo}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
}

// Register records a profile for an account the auth provider just created.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Already-registered accounts are a conflict, not an update.
	if _, err := h.userRepository.GetUserByAccountID(req.AccountID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Account already registered")
	} else if !errors.Is(err, models.ErrNotFound) {
		return httpError(err)
	}

	user := &models.User{
		AccountID:   req.AccountID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		PhotoURL:    req.PhotoURL,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// UserHandler serves profile lookups for authenticated accounts.
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.GET("/users/search", h.SearchUsers)
}

// GetMe returns the authenticated account's profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByAccountID(accountID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers retrieves users whose display name matches the query.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users}})
}
