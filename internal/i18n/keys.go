// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Settings
	KeySettingsUpdated = "settings.updated"
	KeySettingsReset   = "settings.reset"

	// Inspections
	KeyInspectionCreated   = "inspection.created"
	KeyInspectionCompleted = "inspection.completed"
	KeyInspectionDeleted   = "inspection.deleted"
	KeyInspectionNotFound  = "inspection.not_found"
	KeyInspectionUnlocked  = "inspection.unlocked"

	// Checklist
	KeyChecklistLoading      = "checklist.loading"
	KeyChecklistItemNotFound = "checklist_item.not_found"

	// Summary groups
	KeySummaryGroupHighSeverity   = "summary.group.high_severity"
	KeySummaryGroupMediumSeverity = "summary.group.medium_severity"
	KeySummaryGroupLowSeverity    = "summary.group.low_severity"
	KeySummaryGroupUngrouped      = "summary.group.ungrouped"
	KeySummaryGroupNoCost         = "summary.group.no_cost"

	// Verdicts
	KeyVerdictExcellent  = "verdict.excellent"
	KeyVerdictGood       = "verdict.good"
	KeyVerdictFair       = "verdict.fair"
	KeyVerdictConcerning = "verdict.concerning"
	KeyVerdictSerious    = "verdict.serious"

	// Reports
	KeyReportLocked     = "report.locked"
	KeyReportDownloaded = "report.downloaded"

	// Boat models
	KeyBoatModelNotFound = "boat_model.not_found"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooLong  = "validation.too_long"

	// File upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Insights
	KeyInsightsUnavailable = "insights.unavailable"
)
