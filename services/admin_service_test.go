package services

import (
	"testing"
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"
	"securacore-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnsureDefaultAdmin verifies the bootstrap admin is created once with
// the configured password.
func TestEnsureDefaultAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db, testConfig(), nil)

	require.NoError(t, svc.EnsureDefaultAdmin())

	admin, err := svc.GetAdminByUsername("admin")
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("admin123", admin.Password))

	// 再次调用不重复创建
	require.NoError(t, svc.EnsureDefaultAdmin())
	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestCreateAdminRejectsDuplicateUsername verifies username uniqueness.
func TestCreateAdminRejectsDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db, testConfig(), nil)

	require.NoError(t, svc.CreateAdmin(&models.Admin{Username: "gatekeeper", Password: "admin456"}))

	err := svc.CreateAdmin(&models.Admin{Username: "gatekeeper", Password: "other456"})
	require.Error(t, err)
	assert.Equal(t, code.ErrUserAlreadyExist, ErrorCode(err))
}

// TestAdminLookup verifies listing with pagination and by-ID lookup.
func TestAdminLookup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db, testConfig(), nil)

	require.NoError(t, svc.EnsureDefaultAdmin())
	require.NoError(t, svc.CreateAdmin(&models.Admin{Username: "gatekeeper", Password: "admin456"}))

	admins, total, err := svc.GetAllAdmins(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, admins, 2)

	byID, err := svc.GetAdminByID(admins[0].ID)
	require.NoError(t, err)
	assert.Equal(t, admins[0].Username, byID.Username)

	_, err = svc.GetAdminByID(999)
	require.Error(t, err)
	assert.Equal(t, code.ErrUserNotFound, ErrorCode(err))
}

// TestGetDashboardStats verifies the counters reflect today's state.
func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewAdminService(db, cfg, nil)

	visitorSvc := NewVisitorService(db, cfg, nil)
	today := time.Now()
	visitor := &models.Visitor{
		Name:      "Rahul Verma",
		FlatNo:    "A-101",
		Relation:  "Friend",
		Purpose:   "Dinner",
		VisitDate: &today,
	}
	require.NoError(t, visitorSvc.ScheduleVisit(visitor))
	_, err := visitorSvc.ApproveVisit(visitor.ID, "resident:1")
	require.NoError(t, err)

	pkgSvc := NewPackageService(db, cfg, nil)
	require.NoError(t, pkgSvc.CreatePackage(&models.PackageItem{
		TrackingNumber: "TRK1",
		FlatNo:         "A-101",
		ExpectedDate:   today,
	}))

	complaintSvc := NewComplaintService(db, cfg)
	complaint := &models.Complaint{Title: "Noise", FlatNo: "A-101"}
	require.NoError(t, complaintSvc.CreateComplaint(complaint))
	_, err = complaintSvc.AssignComplaint(complaint.ID, "Security Team")
	require.NoError(t, err)

	guardSvc := NewGuardService(db, cfg)
	guard := &models.Guard{Name: "Suresh", Contact: "9876501234", Password: "guard123"}
	require.NoError(t, guardSvc.CreateGuard(guard))
	_, err = guardSvc.GuardCheckIn(guard.ID)
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveVisitorsToday)
	assert.Equal(t, int64(1), stats.PendingPackages)
	assert.Equal(t, int64(1), stats.OpenComplaints)
	assert.Equal(t, int64(1), stats.GuardsPresent)
}
