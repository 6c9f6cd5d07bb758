// internal/handlers/boat_models.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boatchecker/boatchecker-backend/internal/models"
	"github.com/boatchecker/boatchecker-backend/internal/services"
	"github.com/boatchecker/boatchecker-backend/internal/utils"
)

type BoatModelHandler struct {
	boatModelService *services.BoatModelService
}

func NewBoatModelHandler(boatModelService *services.BoatModelService) *BoatModelHandler {
	return &BoatModelHandler{boatModelService: boatModelService}
}

// GET /boat-models
func (h *BoatModelHandler) GetBoatModels(c *gin.Context) {
	params := services.BoatModelSearchParams{
		Search:       c.Query("search"),
		Manufacturer: c.Query("manufacturer"),
	}

	if typeStr := c.Query("type_primary"); typeStr != "" {
		boatType := models.PrimaryBoatType(typeStr)
		params.TypePrimary = &boatType
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = limit
		}
	}

	boatModels, err := h.boatModelService.SearchBoatModels(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, boatModels)
}

// GET /boat-models/manufacturers
func (h *BoatModelHandler) GetManufacturers(c *gin.Context) {
	manufacturers, err := h.boatModelService.Manufacturers()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, manufacturers)
}

// GET /boat-models/:id
func (h *BoatModelHandler) GetBoatModel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid boat model ID", nil)
		return
	}

	model, err := h.boatModelService.GetBoatModel(uint(id))
	if err != nil {
		if err == services.ErrBoatModelNotFound {
			utils.NotFoundResponse(c, "boat_model")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, model)
}
