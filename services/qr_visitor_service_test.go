package services

import (
	"testing"
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQRVisitorService(t *testing.T) InterfaceQRVisitorService {
	t.Helper()
	return NewQRVisitorService(setupTestDB(t), testConfig(), nil, nil)
}

func issueTestQRPass(t *testing.T, svc InterfaceQRVisitorService, visitDate time.Time) (*models.QRVisitor, *models.QRPayload) {
	t.Helper()
	visitor := &models.QRVisitor{
		Name:      "Priya Sharma",
		Purpose:   "Family visit",
		VisitDate: visitDate,
		Relation:  "Sister",
		FlatNo:    "A-101",
	}
	payload, err := svc.CreateQRVisitor(visitor)
	require.NoError(t, err)
	return visitor, payload
}

// TestCreateQRVisitorBornApproved verifies a resident-issued pass starts
// APPROVED with an opaque token in the payload.
func TestCreateQRVisitorBornApproved(t *testing.T) {
	svc := newTestQRVisitorService(t)
	visitor, payload := issueTestQRPass(t, svc, time.Now())

	assert.Equal(t, models.QRStatusApproved, visitor.Status)
	assert.True(t, visitor.CreatedByResident)
	assert.NotEmpty(t, visitor.QRCode)

	assert.Equal(t, visitor.ID, payload.ID)
	assert.Equal(t, visitor.QRCode, payload.QRCode)
	assert.Equal(t, models.DateOnly(time.Now()).Format("2006-01-02"), payload.VisitDate)
}

// TestValidateQRVisitorAcceptsGenuinePayload verifies the round trip:
// the payload handed out at creation validates at the gate the same day.
func TestValidateQRVisitorAcceptsGenuinePayload(t *testing.T) {
	svc := newTestQRVisitorService(t)
	visitor, payload := issueTestQRPass(t, svc, time.Now())

	result, err := svc.ValidateQRVisitor(payload)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotNil(t, result.Visitor)
	assert.Equal(t, visitor.ID, result.Visitor.ID)
}

// TestValidateQRVisitorRejectsTamperedToken verifies a payload with a forged
// token is rejected even when the ID is real.
func TestValidateQRVisitorRejectsTamperedToken(t *testing.T) {
	svc := newTestQRVisitorService(t)
	_, payload := issueTestQRPass(t, svc, time.Now())

	payload.QRCode = "QR-forged-token"
	result, err := svc.ValidateQRVisitor(payload)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "QR code mismatch", result.Reason)
}

// TestValidateQRVisitorRejectsFieldMismatch verifies identity fields are
// cross-checked against the stored record, not trusted from the payload.
func TestValidateQRVisitorRejectsFieldMismatch(t *testing.T) {
	svc := newTestQRVisitorService(t)
	_, payload := issueTestQRPass(t, svc, time.Now())

	payload.FlatNo = "B-999"
	result, err := svc.ValidateQRVisitor(payload)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "QR payload does not match the stored record", result.Reason)
}

// TestValidateQRVisitorRejectsWrongDate verifies a pass for tomorrow does
// not open the gate today.
func TestValidateQRVisitorRejectsWrongDate(t *testing.T) {
	svc := newTestQRVisitorService(t)
	_, payload := issueTestQRPass(t, svc, time.Now().Add(48*time.Hour))

	result, err := svc.ValidateQRVisitor(payload)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "QR pass is not valid for today", result.Reason)
}

// TestValidateQRVisitorRejectsUnknownID verifies a payload pointing at a
// nonexistent record fails closed.
func TestValidateQRVisitorRejectsUnknownID(t *testing.T) {
	svc := newTestQRVisitorService(t)

	result, err := svc.ValidateQRVisitor(&models.QRPayload{ID: 424242, QRCode: "QR-x"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "Visitor Not Found", result.Reason)
}

// TestQRPassSingleUse verifies the pass admits exactly one entry: once
// checked in, validation and a second check-in both fail.
func TestQRPassSingleUse(t *testing.T) {
	svc := newTestQRVisitorService(t)
	visitor, payload := issueTestQRPass(t, svc, time.Now())

	checkedIn, err := svc.CheckinQRVisitor(visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QRStatusCheckedIn, checkedIn.Status)
	require.NotNil(t, checkedIn.CheckInTime)

	result, err := svc.ValidateQRVisitor(payload)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "QR pass has already been used", result.Reason)

	_, err = svc.CheckinQRVisitor(visitor.ID)
	require.Error(t, err)
	assert.Equal(t, code.ErrQRAlreadyUsed, ErrorCode(err))
}

// TestQRCheckoutCompletesLifecycle verifies checkout requires a prior
// check-in and lands in the COMPLETED terminal state.
func TestQRCheckoutCompletesLifecycle(t *testing.T) {
	svc := newTestQRVisitorService(t)
	visitor, _ := issueTestQRPass(t, svc, time.Now())

	// 未入场不能离场
	_, err := svc.CheckoutQRVisitor(visitor.ID)
	require.Error(t, err)
	assert.Equal(t, code.ErrQRNotCheckedIn, ErrorCode(err))

	_, err = svc.CheckinQRVisitor(visitor.ID)
	require.NoError(t, err)

	completed, err := svc.CheckoutQRVisitor(visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QRStatusCompleted, completed.Status)
	require.NotNil(t, completed.CheckOutTime)

	// 重复离场被拒绝
	_, err = svc.CheckoutQRVisitor(visitor.ID)
	require.Error(t, err)
}

// TestRenderQRImageProducesPNG verifies the rendered pass is a PNG image.
func TestRenderQRImageProducesPNG(t *testing.T) {
	svc := newTestQRVisitorService(t)
	visitor, _ := issueTestQRPass(t, svc, time.Now())

	png, err := svc.RenderQRImage(visitor.ID, 256)
	require.NoError(t, err)
	require.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

// TestQRHistoryFilters verifies flat and date filtered listings.
func TestQRHistoryFilters(t *testing.T) {
	svc := newTestQRVisitorService(t)

	today, _ := issueTestQRPass(t, svc, time.Now())
	other := &models.QRVisitor{
		Name:      "Arun Nair",
		Purpose:   "Repair",
		VisitDate: time.Now().Add(72 * time.Hour),
		Relation:  "Technician",
		FlatNo:    "C-303",
	}
	_, err := svc.CreateQRVisitor(other)
	require.NoError(t, err)

	all, err := svc.GetAllQRVisitors()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byFlat, err := svc.GetQRVisitorsByFlat("A-101")
	require.NoError(t, err)
	require.Len(t, byFlat, 1)
	assert.Equal(t, today.ID, byFlat[0].ID)

	byDate, err := svc.GetQRVisitorsByDate(time.Now())
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, today.ID, byDate[0].ID)

	both, err := svc.GetQRVisitorsByFlatAndDate("C-303", time.Now().Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, other.ID, both[0].ID)
}
