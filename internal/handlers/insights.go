// internal/handlers/insights.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/boatchecker/boatchecker-backend/internal/i18n"
	"github.com/boatchecker/boatchecker-backend/internal/services"
	"github.com/boatchecker/boatchecker-backend/internal/utils"
)

type InsightsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewInsightsHandler(analyticsService *services.AnalyticsService) *InsightsHandler {
	return &InsightsHandler{analyticsService: analyticsService}
}

// GET /insights
//
// Aggregated issue statistics for a boat model, sourced from the community
// findings pool. Degrades to an "unavailable" payload when offline or when
// the pool has no data.
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	manufacturer := c.Query("manufacturer")
	if manufacturer == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "manufacturer"), nil)
		return
	}

	stats := h.analyticsService.GetStats(manufacturer, c.Query("model"))
	if stats == nil {
		utils.SuccessResponse(c, gin.H{
			"available": false,
			"message":   i18n.T(lang, i18n.KeyInsightsUnavailable),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"available": true,
		"insights":  stats,
	})
}

// GET /listing-metadata?url=
//
// Prefills the custom-boat form from a sales-listing URL. Only public page
// metadata is consulted; an unreachable proxy or an unparseable page means
// an empty prefill, never an error.
func (h *InsightsHandler) GetListingMetadata(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	rawURL := c.Query("url")
	if rawURL == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "url"), nil)
		return
	}

	metadata := h.analyticsService.GetListingMetadata(rawURL)
	if metadata == nil {
		utils.SuccessResponse(c, gin.H{"available": false})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"available": true,
		"metadata":  metadata,
	})
}
