package services

import (
	"testing"
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestPackageService(t *testing.T) (InterfacePackageService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewPackageService(db, testConfig(), nil), db
}

func registerTestPackage(t *testing.T, svc InterfacePackageService, otp string) *models.PackageItem {
	t.Helper()
	pkg := &models.PackageItem{
		TrackingNumber: "TRK123456",
		Description:    "Electronics",
		Sender:         "Amazon",
		ResidentName:   "Rahul Verma",
		FlatNo:         "A-101",
		ExpectedDate:   time.Now(),
		DeliveryOtp:    otp,
	}
	require.NoError(t, svc.CreatePackage(pkg))
	return pkg
}

// TestCreatePackageGeneratesOTP verifies the server fills in a numeric OTP
// when the resident does not supply one.
func TestCreatePackageGeneratesOTP(t *testing.T) {
	svc, _ := newTestPackageService(t)

	pkg := registerTestPackage(t, svc, "")
	assert.Equal(t, models.PackageStatusPending, pkg.Status)
	assert.Len(t, pkg.DeliveryOtp, 4)
	for _, r := range pkg.DeliveryOtp {
		assert.True(t, r >= '0' && r <= '9')
	}
}

// TestCreatePackageKeepsSuppliedOTP verifies a resident-chosen OTP is stored as-is.
func TestCreatePackageKeepsSuppliedOTP(t *testing.T) {
	svc, _ := newTestPackageService(t)

	pkg := registerTestPackage(t, svc, "4821")
	assert.Equal(t, "4821", pkg.DeliveryOtp)
	assert.Nil(t, pkg.DeliveredAt)
}

// TestVerifyOTPDelivers verifies the correct OTP transitions the package to
// Delivered with a delivery timestamp.
func TestVerifyOTPDelivers(t *testing.T) {
	svc, db := newTestPackageService(t)
	pkg := registerTestPackage(t, svc, "4821")

	delivered, err := svc.VerifyAndDeliver(pkg.ID, "4821")
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	// 交付写审计日志
	var logs []models.AccessLog
	require.NoError(t, db.Where("action = ?", models.AccessActionPackageDelivered).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, pkg.ID, logs[0].EntityID)
}

// TestVerifyOTPWrongCodeNeverMutates verifies a wrong OTP is rejected with a
// distinct error and leaves the record untouched.
func TestVerifyOTPWrongCodeNeverMutates(t *testing.T) {
	svc, _ := newTestPackageService(t)
	pkg := registerTestPackage(t, svc, "4821")

	_, err := svc.VerifyAndDeliver(pkg.ID, "0000")
	require.Error(t, err)
	assert.Equal(t, code.ErrPackageOTPMismatch, ErrorCode(err))

	reloaded, err := svc.GetPackageByID(pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.DeliveredAt)

	// 正确的OTP随后仍然有效
	_, err = svc.VerifyAndDeliver(pkg.ID, "4821")
	require.NoError(t, err)
}

// TestVerifyOTPRejectsRepeatDelivery verifies a second delivery attempt gets
// the already-delivered rejection, not a success.
func TestVerifyOTPRejectsRepeatDelivery(t *testing.T) {
	svc, _ := newTestPackageService(t)
	pkg := registerTestPackage(t, svc, "4821")

	_, err := svc.VerifyAndDeliver(pkg.ID, "4821")
	require.NoError(t, err)

	_, err = svc.VerifyAndDeliver(pkg.ID, "4821")
	require.Error(t, err)
	assert.Equal(t, code.ErrPackageAlreadyDelivered, ErrorCode(err))
}

// TestUpdatePackageRejectedAfterDelivery verifies no field survives an
// update attempt once the package is delivered.
func TestUpdatePackageRejectedAfterDelivery(t *testing.T) {
	svc, _ := newTestPackageService(t)
	pkg := registerTestPackage(t, svc, "4821")

	_, err := svc.VerifyAndDeliver(pkg.ID, "4821")
	require.NoError(t, err)

	_, err = svc.UpdatePackage(pkg.ID, PackageUpdate{
		TrackingNumber: "TRK999999",
		FlatNo:         "B-202",
		DeliveryOtp:    "0000",
	})
	require.Error(t, err)
	assert.Equal(t, code.ErrPackageAlreadyDelivered, ErrorCode(err))

	reloaded, err := svc.GetPackageByID(pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, "TRK123456", reloaded.TrackingNumber)
	assert.Equal(t, "A-101", reloaded.FlatNo)
	assert.Equal(t, "4821", reloaded.DeliveryOtp)
}

// TestUpdatePendingPackage verifies a pending package accepts a full rewrite.
func TestUpdatePendingPackage(t *testing.T) {
	svc, _ := newTestPackageService(t)
	pkg := registerTestPackage(t, svc, "4821")

	updated, err := svc.UpdatePackage(pkg.ID, PackageUpdate{
		TrackingNumber: "TRK777",
		Description:    "Books",
		Sender:         "Flipkart",
		ResidentName:   "Rahul Verma",
		FlatNo:         "A-101",
		ExpectedDate:   time.Now().Add(24 * time.Hour),
		DeliveryOtp:    "9911",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRK777", updated.TrackingNumber)
	assert.Equal(t, "9911", updated.DeliveryOtp)
	assert.Equal(t, models.PackageStatusPending, updated.Status)
}

// TestForceMarkDelivered verifies the guard's OTP-less status override and
// its idempotent rejection on repeat.
func TestForceMarkDelivered(t *testing.T) {
	svc, _ := newTestPackageService(t)
	pkg := registerTestPackage(t, svc, "4821")

	// Pending置Pending是无操作
	unchanged, err := svc.ForceMarkDelivered(pkg.ID, models.PackageStatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusPending, unchanged.Status)
	assert.Nil(t, unchanged.DeliveredAt)

	delivered, err := svc.ForceMarkDelivered(pkg.ID, models.PackageStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = svc.ForceMarkDelivered(pkg.ID, models.PackageStatusDelivered)
	require.Error(t, err)
	assert.Equal(t, code.ErrPackageAlreadyDelivered, ErrorCode(err))

	// 已交付的快递不能退回Pending
	_, err = svc.ForceMarkDelivered(pkg.ID, models.PackageStatusPending)
	require.Error(t, err)
	assert.Equal(t, code.ErrPackageAlreadyDelivered, ErrorCode(err))
}

// TestForceMarkDeliveredRejectsUnknownStatus verifies the status enum is closed.
func TestForceMarkDeliveredRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestPackageService(t)
	pkg := registerTestPackage(t, svc, "4821")

	_, err := svc.ForceMarkDelivered(pkg.ID, "Lost")
	require.Error(t, err)
	assert.Equal(t, code.ErrPackageInvalidStatus, ErrorCode(err))
}

// TestListPackagesFilters verifies flat/status filtering.
func TestListPackagesFilters(t *testing.T) {
	svc, _ := newTestPackageService(t)

	first := registerTestPackage(t, svc, "1111")
	second := &models.PackageItem{
		TrackingNumber: "TRK222",
		FlatNo:         "B-202",
		ExpectedDate:   time.Now(),
		DeliveryOtp:    "2222",
	}
	require.NoError(t, svc.CreatePackage(second))
	_, err := svc.VerifyAndDeliver(second.ID, "2222")
	require.NoError(t, err)

	byFlat, err := svc.ListPackages("A-101", "", nil)
	require.NoError(t, err)
	require.Len(t, byFlat, 1)
	assert.Equal(t, first.ID, byFlat[0].ID)

	pending, err := svc.GetPackagesByStatus(models.PackageStatusPending, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	delivered, err := svc.GetPackagesByStatus(models.PackageStatusDelivered, nil)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, second.ID, delivered[0].ID)
}
