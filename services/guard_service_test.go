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

func newTestGuardService(t *testing.T) InterfaceGuardService {
	t.Helper()
	return NewGuardService(setupTestDB(t), testConfig())
}

func createTestGuard(t *testing.T, svc InterfaceGuardService) *models.Guard {
	t.Helper()
	guard := &models.Guard{
		Name:     "Suresh Singh",
		Email:    "suresh@guard.com",
		Contact:  "9876501234",
		Password: "guard123",
		Shift:    models.ShiftDay,
	}
	require.NoError(t, svc.CreateGuard(guard))
	return guard
}

// TestCreateGuardHashesPassword verifies the stored password is a bcrypt
// hash, never the plaintext.
func TestCreateGuardHashesPassword(t *testing.T) {
	svc := newTestGuardService(t)
	guard := createTestGuard(t, svc)

	stored, err := svc.GetGuardByEmail("suresh@guard.com")
	require.NoError(t, err)
	assert.Equal(t, guard.ID, stored.ID)
	assert.NotEqual(t, "guard123", stored.Password)
	assert.True(t, utils.CheckPasswordHash("guard123", stored.Password))
}

// TestCreateGuardRejectsDuplicateContact verifies contact uniqueness.
func TestCreateGuardRejectsDuplicateContact(t *testing.T) {
	svc := newTestGuardService(t)
	createTestGuard(t, svc)

	err := svc.CreateGuard(&models.Guard{
		Name:     "Other Guard",
		Contact:  "9876501234",
		Password: "guard456",
	})
	require.Error(t, err)
	assert.Equal(t, code.ErrUserAlreadyExist, ErrorCode(err))
}

// TestGuardAttendanceUpsert verifies one attendance row per guard per day:
// repeated check-ins overwrite the time instead of adding rows.
func TestGuardAttendanceUpsert(t *testing.T) {
	svc := newTestGuardService(t)
	guard := createTestGuard(t, svc)

	first, err := svc.GuardCheckIn(guard.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CheckInTime)
	assert.Nil(t, first.CheckOutTime)

	second, err := svc.GuardCheckIn(guard.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	out, err := svc.GuardCheckOut(guard.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, out.ID)
	require.NotNil(t, out.CheckOutTime)

	today, err := svc.GetAttendanceByDate(time.Now())
	require.NoError(t, err)
	require.Len(t, today, 1)
	require.NotNil(t, today[0].Guard)
	assert.Equal(t, "Suresh Singh", today[0].Guard.Name)
}

// TestGuardCheckInUnknownGuard verifies attendance requires an existing guard.
func TestGuardCheckInUnknownGuard(t *testing.T) {
	svc := newTestGuardService(t)

	_, err := svc.GuardCheckIn(999)
	require.Error(t, err)
	assert.Equal(t, code.ErrUserNotFound, ErrorCode(err))
}

// TestSearchGuards verifies search over name, email and contact.
func TestSearchGuards(t *testing.T) {
	svc := newTestGuardService(t)
	guard := createTestGuard(t, svc)

	byName, err := svc.SearchGuards("Suresh")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, guard.ID, byName[0].ID)

	none, err := svc.SearchGuards("nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestGetGuardsOn verifies only guards with a check-in on the given date
// are reported as on shift.
func TestGetGuardsOn(t *testing.T) {
	svc := newTestGuardService(t)
	onDuty := createTestGuard(t, svc)
	offDuty := &models.Guard{
		Name:     "Ramesh Kumar",
		Email:    "ramesh@guard.com",
		Contact:  "9876509999",
		Password: "guard456",
		Shift:    models.ShiftNight,
	}
	require.NoError(t, svc.CreateGuard(offDuty))

	_, err := svc.GuardCheckIn(onDuty.ID)
	require.NoError(t, err)

	guards, err := svc.GetGuardsOn(time.Now())
	require.NoError(t, err)
	require.Len(t, guards, 1)
	assert.Equal(t, onDuty.ID, guards[0].ID)

	tomorrow, err := svc.GetGuardsOn(time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, tomorrow)
}

// TestUpdateGuardShift verifies partial updates through the map form.
func TestUpdateGuardShift(t *testing.T) {
	svc := newTestGuardService(t)
	guard := createTestGuard(t, svc)

	updated, err := svc.UpdateGuard(guard.ID, map[string]interface{}{"shift": models.ShiftNight})
	require.NoError(t, err)
	assert.Equal(t, models.ShiftNight, updated.Shift)
	assert.Equal(t, "Suresh Singh", updated.Name)
}
