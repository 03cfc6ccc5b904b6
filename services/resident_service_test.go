package services

import (
	"testing"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"
	"securacore-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResidentService(t *testing.T) InterfaceResidentService {
	t.Helper()
	return NewResidentService(setupTestDB(t), testConfig())
}

func createTestResident(t *testing.T, svc InterfaceResidentService) *models.Resident {
	t.Helper()
	resident := &models.Resident{
		Name:             "Rahul Verma",
		FlatNo:           "A-101",
		Email:            "rahul@resident.com",
		Contact:          "9812345678",
		EmergencyContact: "9898765432",
		Password:         "resident123",
	}
	require.NoError(t, svc.CreateResident(resident))
	return resident
}

// TestCreateResidentHashesPassword verifies the bcrypt hook runs on create.
func TestCreateResidentHashesPassword(t *testing.T) {
	svc := newTestResidentService(t)
	createTestResident(t, svc)

	stored, err := svc.GetResidentByEmail("rahul@resident.com")
	require.NoError(t, err)
	assert.NotEqual(t, "resident123", stored.Password)
	assert.True(t, utils.CheckPasswordHash("resident123", stored.Password))
}

// TestCreateResidentRejectsDuplicateContact verifies contact uniqueness.
func TestCreateResidentRejectsDuplicateContact(t *testing.T) {
	svc := newTestResidentService(t)
	createTestResident(t, svc)

	err := svc.CreateResident(&models.Resident{
		Name:     "Another Person",
		FlatNo:   "B-202",
		Contact:  "9812345678",
		Password: "other123",
	})
	require.Error(t, err)
	assert.Equal(t, code.ErrUserAlreadyExist, ErrorCode(err))
}

// TestGetResidentByEmailNotFound verifies the not-found error code.
func TestGetResidentByEmailNotFound(t *testing.T) {
	svc := newTestResidentService(t)

	_, err := svc.GetResidentByEmail("nobody@resident.com")
	require.Error(t, err)
	assert.Equal(t, code.ErrUserNotFound, ErrorCode(err))
}

// TestUpdateResidentKeepsPasswordHash verifies profile updates do not
// disturb the stored credential.
func TestUpdateResidentKeepsPasswordHash(t *testing.T) {
	svc := newTestResidentService(t)
	resident := createTestResident(t, svc)

	updated, err := svc.UpdateResident(resident.ID, map[string]interface{}{
		"flat_no": "A-102",
		"status":  "inactive",
	})
	require.NoError(t, err)
	assert.Equal(t, "A-102", updated.FlatNo)
	assert.Equal(t, "inactive", updated.Status)
	assert.True(t, utils.CheckPasswordHash("resident123", updated.Password))
}

// TestDeleteResident verifies deletion and the subsequent not-found read.
func TestDeleteResident(t *testing.T) {
	svc := newTestResidentService(t)
	resident := createTestResident(t, svc)

	require.NoError(t, svc.DeleteResident(resident.ID))

	_, err := svc.GetResidentByID(resident.ID)
	require.Error(t, err)
	assert.Equal(t, code.ErrUserNotFound, ErrorCode(err))
}

// TestSearchResidents verifies search spans name, flat, email and contact.
func TestSearchResidents(t *testing.T) {
	svc := newTestResidentService(t)
	resident := createTestResident(t, svc)

	byFlat, err := svc.SearchResidents("A-101")
	require.NoError(t, err)
	require.Len(t, byFlat, 1)
	assert.Equal(t, resident.ID, byFlat[0].ID)

	byContact, err := svc.SearchResidents("98123")
	require.NoError(t, err)
	require.Len(t, byContact, 1)
}
