package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkwellhq/engagement/internal/cache"
	"github.com/inkwellhq/engagement/internal/gamification"
)

// GamificationHandler serves engagement profiles, catalogs, the leaderboard,
// and challenge starts.
type GamificationHandler struct {
	engagementCache  *cache.EngagementCache
	leaderboardCache *cache.LeaderboardCache
	tracker          *gamification.ChallengeTracker
}

// NewGamificationHandler creates a new GamificationHandler
func NewGamificationHandler(engagementCache *cache.EngagementCache, leaderboardCache *cache.LeaderboardCache, tracker *gamification.ChallengeTracker) *GamificationHandler {
	return &GamificationHandler{
		engagementCache:  engagementCache,
		leaderboardCache: leaderboardCache,
		tracker:          tracker,
	}
}

// RegisterGamificationRoutes registers gamification routes
func (h *GamificationHandler) RegisterGamificationRoutes(g *echo.Group) {
	g.GET("/gamification/me", h.GetMyEngagement)
	g.GET("/gamification/leaderboard", h.GetLeaderboard)
	g.GET("/gamification/badges", h.GetBadgeCatalog)
	g.GET("/gamification/challenges", h.GetChallengeCatalog)
	g.POST("/gamification/challenges/:id/start", h.StartChallenge)
}

// GetMyEngagement returns the authenticated account's engagement record.
func (h *GamificationHandler) GetMyEngagement(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	rec, err := h.engagementCache.Get(c.Request().Context(), accountID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rec})
}

// GetLeaderboard returns the top accounts by points.
func (h *GamificationHandler) GetLeaderboard(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	entries, err := h.leaderboardCache.Top(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"leaderboard": entries}})
}

// GetBadgeCatalog returns the static badge catalog.
func (h *GamificationHandler) GetBadgeCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"badges": gamification.BadgeCatalog()}})
}

// GetChallengeCatalog returns the static challenge catalog.
func (h *GamificationHandler) GetChallengeCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"challenges": gamification.ChallengeCatalog()}})
}

// StartChallenge begins a challenge run for the authenticated account.
func (h *GamificationHandler) StartChallenge(c echo.Context) error {
	accountID := getAccountIDFromContext(c)
	if accountID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	active, err := h.tracker.Start(c.Request().Context(), accountID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	h.engagementCache.Invalidate(c.Request().Context(), accountID)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": active})
}
