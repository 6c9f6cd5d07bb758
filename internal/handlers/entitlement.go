// internal/handlers/entitlement.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/boatchecker/boatchecker-backend/internal/i18n"
	"github.com/boatchecker/boatchecker-backend/internal/services"
	"github.com/boatchecker/boatchecker-backend/internal/utils"
)

type EntitlementHandler struct {
	entitlementService *services.EntitlementService
}

func NewEntitlementHandler(entitlementService *services.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{entitlementService: entitlementService}
}

// GET /entitlement/offerings
func (h *EntitlementHandler) GetOfferings(c *gin.Context) {
	utils.SuccessResponse(c, h.entitlementService.Offerings())
}

type setEntitlementRequest struct {
	IsPro *bool `json:"is_pro" validate:"required"`
}

// PUT /entitlement
//
// The purchase provider runs in the app shell; it reports its verdict here
// so access checks read a cached local value.
func (h *EntitlementHandler) SetEntitlement(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req setEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	settings, err := h.entitlementService.SetProStatus(*req.IsPro)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, settings)
}
