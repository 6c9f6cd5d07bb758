// internal/handlers/item_state.go
package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/boatchecker/boatchecker-backend/internal/config"
	"github.com/boatchecker/boatchecker-backend/internal/i18n"
	"github.com/boatchecker/boatchecker-backend/internal/imaging"
	"github.com/boatchecker/boatchecker-backend/internal/models"
	"github.com/boatchecker/boatchecker-backend/internal/services"
	"github.com/boatchecker/boatchecker-backend/internal/utils"
)

type ItemStateHandler struct {
	itemStateService *services.ItemStateService
	photoCfg         config.PhotoConfig
}

func NewItemStateHandler(itemStateService *services.ItemStateService, photoCfg config.PhotoConfig) *ItemStateHandler {
	return &ItemStateHandler{
		itemStateService: itemStateService,
		photoCfg:         photoCfg,
	}
}

// GET /items
func (h *ItemStateHandler) GetItemStates(c *gin.Context) {
	states, err := h.itemStateService.List()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, states)
}

// GET /items/:itemId
func (h *ItemStateHandler) GetItemState(c *gin.Context) {
	state, err := h.itemStateService.Get(c.Param("itemId"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if state == nil {
		utils.NotFoundResponse(c, "checklist_item")
		return
	}
	utils.SuccessResponse(c, state)
}

// itemIDParam rejects malformed item ids before they can create records the
// catalog will never match.
func itemIDParam(c *gin.Context) (string, bool) {
	itemID := c.Param("itemId")
	if !utils.IsValidChecklistItemID(itemID) {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "item id"), nil)
		return "", false
	}
	return itemID, true
}

type setStateRequest struct {
	State models.ItemStateValue `json:"state" validate:"omitempty,oneof=ok obs kritisk"`
}

// PUT /items/:itemId/state
func (h *ItemStateHandler) SetState(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	var req setStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	state, err := h.itemStateService.SetState(itemID, req.State)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, state)
}

type setNoteRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

// PUT /items/:itemId/note
func (h *ItemStateHandler) SetNote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	var req setNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	state, err := h.itemStateService.SetNote(itemID, req.Note)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, state)
}

// POST /items/:itemId/photo
func (h *ItemStateHandler) UploadPhoto(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	itemID, ok := itemIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "photo"), nil)
		return
	}
	if fileHeader.Size > h.photoCfg.MaxUploadSize {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), err.Error())
		return
	}

	if err := os.MkdirAll(h.photoCfg.Dir, 0o755); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	base := uuid.New().String()
	fullName := fmt.Sprintf("%s_%s.jpg", itemID, base)
	thumbName := fmt.Sprintf("%s_%s_thumb.jpg", itemID, base)

	if err := os.WriteFile(filepath.Join(h.photoCfg.Dir, fullName), processed.Full, 0o644); err != nil {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}
	if err := os.WriteFile(filepath.Join(h.photoCfg.Dir, thumbName), processed.Thumb, 0o644); err != nil {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}

	// Replace any previous photo; the old files are cleaned up best-effort.
	previous, err := h.itemStateService.Get(itemID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	state, err := h.itemStateService.SetPhoto(itemID, "/photos/"+thumbName, "/photos/"+fullName)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if previous != nil {
		h.removePhotoFiles(previous.PhotoThumb, previous.PhotoFull)
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"state":   state,
	})
}

// DELETE /items/:itemId/photo
func (h *ItemStateHandler) DeletePhoto(c *gin.Context) {
	itemID := c.Param("itemId")

	previous, err := h.itemStateService.Get(itemID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if previous == nil {
		utils.NotFoundResponse(c, "checklist_item")
		return
	}

	state, err := h.itemStateService.SetPhoto(itemID, "", "")
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	h.removePhotoFiles(previous.PhotoThumb, previous.PhotoFull)
	utils.SuccessResponse(c, state)
}

func (h *ItemStateHandler) removePhotoFiles(refs ...string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		name := filepath.Base(strings.TrimPrefix(ref, "/photos/"))
		if err := os.Remove(filepath.Join(h.photoCfg.Dir, name)); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("file", name).Warn("Failed to remove photo file")
		}
	}
}
