package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwellhq/engagement/internal/cache"
	"github.com/inkwellhq/engagement/internal/engagement"
	"github.com/inkwellhq/engagement/internal/models"
	"github.com/inkwellhq/engagement/internal/repositories"
)

// ActionRequest is a trigger from the content collaborator: the user
// performed an action on a content item.
type ActionRequest struct {
	Action    string `json:"action" validate:"required"`
	ContentID string `json:"content_id,omitempty"`
	OwnerID   string `json:"owner_id,omitempty"`
}

// EngagementHandler feeds triggering actions into the orchestrator.
type EngagementHandler struct {
	orchestrator       *engagement.Orchestrator
	engagementCache    *cache.EngagementCache
	reactionRepository repositories.ReactionRepository
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(orchestrator *engagement.Orchestrator, engagementCache *cache.EngagementCache, reactionRepo repositories.ReactionRepository) *EngagementHandler {
	return &EngagementHandler{orchestrator: orchestrator, engagementCache: engagementCache, reactionRepository: reactionRepo}
}

// RegisterEngagementRoutes registers engagement trigger routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/engagement/actions", h.RecordAction)
	g.POST("/posts/:post_id/reactions/:kind", h.ToggleReaction)
	g.GET("/posts/:post_id/reactions", h.GetReactions)
}

// RecordAction handles post/comment/share/follow triggers.
func (h *EngagementHandler) RecordAction(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req ActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	action, err := models.ParseActionType(req.Action)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if action == models.ActionLike {
		return echo.NewHTTPError(http.StatusBadRequest, "like triggers go through the reactions endpoint")
	}

	result, err := h.orchestrator.Process(c.Request().Context(), engagement.Trigger{
		Action:    action,
		ActorID:   accountID,
		ContentID: req.ContentID,
		OwnerID:   req.OwnerID,
	})
	h.engagementCache.Invalidate(c.Request().Context(), accountID)

	return h.respond(c, result, err)
}

// ToggleReaction handles a reaction toggle on a content item.
func (h *EngagementHandler) ToggleReaction(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind, err := models.ParseReactionKind(c.Param("kind"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, procErr := h.orchestrator.Process(c.Request().Context(), engagement.Trigger{
		Action:    models.ActionLike,
		ActorID:   accountID,
		ContentID: c.Param("post_id"),
		OwnerID:   c.QueryParam("owner_id"),
		Kind:      kind,
	})
	h.engagementCache.Invalidate(c.Request().Context(), accountID)

	return h.respond(c, result, procErr)
}

// GetReactions returns the reaction counts and the caller's own reactions
// for a content item.
func (h *EngagementHandler) GetReactions(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	doc, err := h.reactionRepository.Get(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return httpError(err)
	}

	var mine []models.ReactionKind
	for _, kind := range models.ReactionKinds {
		if _, ok := doc.Reactions[models.ReactionKey(accountID, kind)]; ok {
			mine = append(mine, kind)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"post_id":      doc.ContentID,
			"counts":       doc.Counts,
			"my_reactions": mine,
		},
	})
}

// respond returns the best-known result; partial failures surface as 207 so
// the UI can offer a retry without discarding the applied steps.
func (h *EngagementHandler) respond(c echo.Context, result *engagement.Result, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
	}

	var partial *engagement.PartialFailure
	if errors.As(err, &partial) {
		steps := make([]string, len(partial.Steps))
		for i, s := range partial.Steps {
			steps[i] = string(s.Step)
		}
		return c.JSON(http.StatusMultiStatus, echo.Map{
			"success":      false,
			"data":         result,
			"error":        "some actions may not have been recorded, please retry",
			"failed_steps": steps,
		})
	}
	return httpError(err)
}
