package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/notifications"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// FlagContentRequest carries an optional reason for the flag.
type FlagContentRequest struct {
	Reason  string `json:"reason,omitempty" validate:"omitempty,max=500"`
	OwnerID string `json:"owner_id,omitempty"`
}

// ModerationHandler records the flag hints that suppress notification
// fan-out for flagged content.
type ModerationHandler struct {
	moderationRepository repositories.ModerationRepository
	dispatcher           *notifications.Dispatcher
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(moderationRepo repositories.ModerationRepository, dispatcher *notifications.Dispatcher) *ModerationHandler {
	return &ModerationHandler{moderationRepository: moderationRepo, dispatcher: dispatcher}
}

// RegisterModerationRoutes registers moderation routes
func (h *ModerationHandler) RegisterModerationRoutes(g *echo.Group) {
	g.POST("/moderation/content/:id/flag", h.FlagContent)
	g.DELETE("/moderation/content/:id/flag", h.UnflagContent)
}

// FlagContent marks a content item as flagged and notifies its owner.
func (h *ModerationHandler) FlagContent(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req FlagContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contentID := c.Param("id")
	flag := &models.ContentFlag{
		ContentID: contentID,
		Flagged:   true,
		Reason:    req.Reason,
		FlaggedBy: accountID,
	}
	if err := h.moderationRepository.SetFlag(c.Request().Context(), flag); err != nil {
		return httpError(err)
	}

	if req.OwnerID != "" {
		if _, err := h.dispatcher.Notify(req.OwnerID, models.NotificationFlag,
			"Your post was flagged for review", contentID, accountID); err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": flag})
}

// UnflagContent clears the flag hint on a content item.
func (h *ModerationHandler) UnflagContent(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	flag := &models.ContentFlag{
		ContentID: c.Param("id"),
		Flagged:   false,
		FlaggedBy: accountID,
	}
	if err := h.moderationRepository.SetFlag(c.Request().Context(), flag); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": flag})
}
