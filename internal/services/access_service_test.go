// internal/services/access_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boatchecker/boatchecker-backend/internal/models"
)

func TestResolveAccessLevel(t *testing.T) {
	unlocked := &models.Inspection{UnlockLevel: models.UnlockLevelSinglePurchase}
	locked := &models.Inspection{}

	// Pro overrides everything, including per-inspection unlocks.
	assert.Equal(t, models.AccessLevelPro, ResolveAccessLevel(true, locked))
	assert.Equal(t, models.AccessLevelPro, ResolveAccessLevel(true, unlocked))
	assert.Equal(t, models.AccessLevelPro, ResolveAccessLevel(true, nil))

	assert.Equal(t, models.AccessLevelSinglePurchase, ResolveAccessLevel(false, unlocked))
	assert.Equal(t, models.AccessLevelFree, ResolveAccessLevel(false, locked))
	assert.Equal(t, models.AccessLevelFree, ResolveAccessLevel(false, nil))
}

func TestIsItemLocked(t *testing.T) {
	// Free users see only the most critical rank.
	assert.False(t, IsItemLocked(models.AccessLevelFree, 1))
	assert.True(t, IsItemLocked(models.AccessLevelFree, 2))
	assert.True(t, IsItemLocked(models.AccessLevelFree, 3))

	assert.False(t, IsItemLocked(models.AccessLevelSinglePurchase, 3))
	assert.False(t, IsItemLocked(models.AccessLevelPro, 3))
}

func TestReportAndWorkshopGates(t *testing.T) {
	assert.False(t, CanDownloadReport(models.AccessLevelFree))
	assert.True(t, CanDownloadReport(models.AccessLevelSinglePurchase))
	assert.True(t, CanDownloadReport(models.AccessLevelPro))

	// A single purchase unlocks the report but not vendor outreach.
	assert.False(t, CanSendToWorkshops(models.AccessLevelFree))
	assert.False(t, CanSendToWorkshops(models.AccessLevelSinglePurchase))
	assert.True(t, CanSendToWorkshops(models.AccessLevelPro))
}
