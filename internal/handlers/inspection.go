// internal/handlers/inspection.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/boatchecker/boatchecker-backend/internal/checklist"
	"github.com/boatchecker/boatchecker-backend/internal/i18n"
	"github.com/boatchecker/boatchecker-backend/internal/models"
	"github.com/boatchecker/boatchecker-backend/internal/services"
	"github.com/boatchecker/boatchecker-backend/internal/utils"
)

type InspectionHandler struct {
	inspectionService *services.InspectionService
	reconcileService  *services.ReconcileService
	accessService     *services.AccessService
	reportService     *services.ReportService
	analyticsService  *services.AnalyticsService
	loader            *checklist.Loader
}

func NewInspectionHandler(
	inspectionService *services.InspectionService,
	reconcileService *services.ReconcileService,
	accessService *services.AccessService,
	reportService *services.ReportService,
	analyticsService *services.AnalyticsService,
	loader *checklist.Loader,
) *InspectionHandler {
	return &InspectionHandler{
		inspectionService: inspectionService,
		reconcileService:  reconcileService,
		accessService:     accessService,
		reportService:     reportService,
		analyticsService:  analyticsService,
		loader:            loader,
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid inspection ID", nil)
		return 0, false
	}
	return uint(id), true
}

// POST /inspections
func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	inspection, err := h.inspectionService.CreateFromSettings(&req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyInspectionCreated),
		"inspection": inspection,
	})
}

// GET /inspections
func (h *InspectionHandler) GetInspections(c *gin.Context) {
	inspections, err := h.inspectionService.ListInspections()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, inspections)
}

// GET /inspections/active
func (h *InspectionHandler) GetActiveInspection(c *gin.Context) {
	inspection, err := h.inspectionService.ActiveInspection()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if inspection == nil {
		utils.NotFoundResponse(c, "inspection")
		return
	}
	utils.SuccessResponse(c, inspection)
}

// GET /inspections/:id
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetInspection(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, inspection)
}

// DELETE /inspections/:id
func (h *InspectionHandler) DeleteInspection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.inspectionService.DeleteInspection(id); err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyInspectionDeleted),
	})
}

// POST /inspections/:id/complete
func (h *InspectionHandler) CompleteInspection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.Complete(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	// Contribute anonymized findings in the background; completion never
	// waits on the network.
	if profile, err := h.reconcileService.ResolveBoatProfile(inspection); err == nil {
		snapshot := *inspection
		go h.analyticsService.SubmitFindings(&snapshot, profile)
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyInspectionCompleted),
		"inspection": inspection,
	})
}

// POST /inspections/:id/contribute
//
// Explicitly (re)submits an inspection's anonymized findings, for the flow
// where the user enables contribution after completing.
func (h *InspectionHandler) ContributeFindings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetInspection(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	profile, err := h.reconcileService.ResolveBoatProfile(inspection)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	submitted := h.analyticsService.SubmitFindings(inspection, profile)
	utils.SuccessResponse(c, gin.H{"submitted": submitted})
}

// PUT /inspections/:id/metadata
func (h *InspectionHandler) UpdateMetadata(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	var metadata models.InspectionMetadata
	if err := c.ShouldBindJSON(&metadata); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	inspection, err := h.inspectionService.UpdateMetadata(id, metadata)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, inspection)
}

// POST /inspections/:id/unlock
func (h *InspectionHandler) UnlockInspection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.accessService.ActivateSinglePurchase(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyInspectionUnlocked),
		"inspection": inspection,
	})
}

// POST /inspections/start-new
func (h *InspectionHandler) StartNew(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.inspectionService.StartNew(); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySettingsReset),
	})
}

type checklistItemView struct {
	checklist.Item
	Locked bool `json:"locked"`
}

type checklistAreaView struct {
	ID    string              `json:"id"`
	Title string              `json:"title"`
	Items []checklistItemView `json:"items"`
}

// GET /inspections/:id/checklist
//
// Returns the applicable checklist areas for the inspection's boat profile,
// each item annotated with its access lock.
func (h *InspectionHandler) GetChecklist(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetInspection(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	catalog := h.loader.Get(lang)
	if catalog == nil || len(catalog.Areas) == 0 {
		utils.SuccessResponse(c, gin.H{"is_loading": true})
		return
	}

	profile, err := h.reconcileService.ResolveBoatProfile(inspection)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	level, err := h.accessService.AccessLevelFor(inspection)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	applicable := make(map[string]bool)
	for _, item := range checklist.SelectApplicableItems(catalog, profile) {
		applicable[item.ID] = true
	}

	areas := make([]checklistAreaView, 0, len(catalog.Areas))
	for _, area := range catalog.Areas {
		view := checklistAreaView{ID: area.ID, Title: area.Title}
		for _, item := range area.Items {
			if !applicable[item.ID] {
				continue
			}
			view.Items = append(view.Items, checklistItemView{
				Item:   item,
				Locked: services.IsItemLocked(level, item.Criticality),
			})
		}
		if len(view.Items) > 0 {
			areas = append(areas, view)
		}
	}

	utils.SuccessResponse(c, gin.H{
		"access_level": level,
		"profile":      profile,
		"areas":        areas,
	})
}

// GET /inspections/:id/rows
func (h *InspectionHandler) GetRows(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetInspection(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result, err := h.reconcileService.RowsForInspection(inspection, lang)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, result)
}

// GET /inspections/:id/summary
func (h *InspectionHandler) GetSummary(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetInspection(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result, err := h.reconcileService.RowsForInspection(inspection, lang)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if result.IsLoading {
		utils.SuccessResponse(c, gin.H{"is_loading": true})
		return
	}

	primary := services.PrimaryFilter(c.DefaultQuery("filter", string(services.FilterAll)))
	extra := services.ExtraFilter(c.DefaultQuery("extra", string(services.ExtraFilterNone)))
	mode := services.GroupMode(c.DefaultQuery("group_by", string(services.GroupBySeverity)))

	filtered := services.FilterRows(result.Rows, primary, extra)
	groups := services.GroupRows(filtered, mode, lang)
	stats := services.ComputeFindingStats(result.Rows)
	verdict := services.ComputeVerdict(stats)

	utils.SuccessResponse(c, gin.H{
		"groups":        groups,
		"stats":         stats,
		"verdict":       verdict,
		"verdict_label": i18n.T(lang, "verdict."+string(verdict)),
	})
}

// GET /inspections/:id/report
func (h *InspectionHandler) GetReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetInspection(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	level, err := h.accessService.AccessLevelFor(inspection)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if !services.CanDownloadReport(level) {
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyReportLocked))
		return
	}

	tender, _ := strconv.ParseBool(c.DefaultQuery("tender", "false"))
	report, err := h.reportService.BuildReport(inspection, lang, tender)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, report)
}

// POST /inspections/:id/report/downloaded
func (h *InspectionHandler) MarkReportDownloaded(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c)
	if !ok {
		return
	}

	inspection, err := h.reportService.MarkReportDownloaded(id)
	if err != nil {
		if err == services.ErrInspectionNotFound {
			utils.NotFoundResponse(c, "inspection")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyReportDownloaded),
		"inspection": inspection,
	})
}
