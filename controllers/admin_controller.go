package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vincebiwott/safari-park-maintenance-v/middleware"
	"github.com/vincebiwott/safari-park-maintenance-v/models"
	"github.com/vincebiwott/safari-park-maintenance-v/services"
)

// AdminController serves the profile listing and its export
type AdminController struct {
	profiles services.ProfileStore
	exports  *services.ExportService
	logger   *zap.Logger
}

// NewAdminController creates the controller
func NewAdminController(profiles services.ProfileStore, exports *services.ExportService, logger *zap.Logger) *AdminController {
	return &AdminController{profiles: profiles, exports: exports, logger: logger}
}

// ListProfiles handles GET /api/v1/admin/profiles
func (ac *AdminController) ListProfiles(c *gin.Context) {
	summaries, err := ac.profiles.List(middleware.UserContext(c))
	if err != nil {
		ac.logger.Error("failed to list profiles", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILES_UNAVAILABLE",
				"message": "Failed to fetch profiles",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
		"count":   len(summaries),
	})
}

// ExportProfiles handles POST /api/v1/admin/profiles/export
func (ac *AdminController) ExportProfiles(c *gin.Context) {
	export, err := ac.exports.Export(middleware.UserContext(c))
	if err != nil {
		ac.logger.Error("profile export failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    export,
	})
}

// AdminPage handles GET /admin. A failed read is logged and the table is
// rendered empty.
func (ac *AdminController) AdminPage(c *gin.Context) {
	summaries, err := ac.profiles.List(middleware.UserContext(c))
	if err != nil {
		ac.logger.Error("failed to list profiles", zap.Error(err))
		summaries = []models.ProfileSummary{}
	}

	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Title":    "Super Admin Panel",
		"Profiles": summaries,
	})
}

// BoardPage renders the landing page for a destination that has no
// dedicated view yet
func BoardPage(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		c.HTML(http.StatusOK, "board.html", gin.H{
			"Title":  title,
			"UserID": userID,
		})
	}
}
