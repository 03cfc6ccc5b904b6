package services

import (
	"testing"
	"time"

	"securacore-http-service/internal/error/code"
	"securacore-http-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVisitorService(t *testing.T) InterfaceVisitorService {
	t.Helper()
	return NewVisitorService(setupTestDB(t), testConfig(), nil)
}

func scheduleTestVisit(t *testing.T, svc InterfaceVisitorService) *models.Visitor {
	t.Helper()
	today := time.Now()
	visitor := &models.Visitor{
		Name:      "Rahul Verma",
		FlatNo:    "A-101",
		Relation:  "Friend",
		Purpose:   "Dinner",
		VisitDate: &today,
	}
	require.NoError(t, svc.ScheduleVisit(visitor))
	return visitor
}

// TestScheduleVisitStartsPending verifies a resident-scheduled visit is
// created in PENDING state with the resident flag set.
func TestScheduleVisitStartsPending(t *testing.T) {
	svc := newTestVisitorService(t)
	visitor := scheduleTestVisit(t, svc)

	assert.Equal(t, models.VisitStatusPending, visitor.Status)
	assert.True(t, visitor.CreatedByResident)
	assert.NotZero(t, visitor.ID)
}

// TestScheduleVisitRequiresFields verifies missing required fields are rejected.
func TestScheduleVisitRequiresFields(t *testing.T) {
	svc := newTestVisitorService(t)

	err := svc.ScheduleVisit(&models.Visitor{Name: "Rahul"})
	require.Error(t, err)
	assert.Equal(t, code.ErrValidation, ErrorCode(err))
}

// TestApproveVisitSetsApprovalMetadata verifies the PENDING→APPROVED
// transition records who approved and when.
func TestApproveVisitSetsApprovalMetadata(t *testing.T) {
	svc := newTestVisitorService(t)
	visitor := scheduleTestVisit(t, svc)

	approved, err := svc.ApproveVisit(visitor.ID, "resident:1")
	require.NoError(t, err)

	assert.Equal(t, models.VisitStatusApproved, approved.Status)
	assert.Equal(t, "resident:1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
}

// TestApproveVisitRejectsNonPending verifies a second approval does not
// overwrite the original approval timestamp.
func TestApproveVisitRejectsNonPending(t *testing.T) {
	svc := newTestVisitorService(t)
	visitor := scheduleTestVisit(t, svc)

	first, err := svc.ApproveVisit(visitor.ID, "resident:1")
	require.NoError(t, err)

	_, err = svc.ApproveVisit(visitor.ID, "resident:2")
	require.Error(t, err)
	assert.Equal(t, code.ErrVisitNotPending, ErrorCode(err))

	reloaded, err := svc.GetVisitorByID(visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, "resident:1", reloaded.ApprovedBy)
	assert.WithinDuration(t, *first.ApprovedAt, *reloaded.ApprovedAt, time.Second)
}

// TestDeclineVisitIsTerminal verifies a declined visit can never check in.
func TestDeclineVisitIsTerminal(t *testing.T) {
	svc := newTestVisitorService(t)
	visitor := scheduleTestVisit(t, svc)

	declined, err := svc.DeclineVisit(visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitStatusDeclined, declined.Status)

	// 拒绝后不能再批准
	_, err = svc.ApproveVisit(visitor.ID, "resident:1")
	assert.Equal(t, code.ErrVisitNotPending, ErrorCode(err))

	// 拒绝后不能入场
	_, err = svc.CheckinVisitor(visitor.ID)
	assert.Equal(t, code.ErrVisitNotApproved, ErrorCode(err))
}

// TestCheckinVisitorLifecycle verifies the full schedule→approve→checkin
// path keeps the APPROVED status while recording the check-in time.
func TestCheckinVisitorLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVisitorService(db, testConfig(), nil)

	today := time.Now()
	visitor := &models.Visitor{
		Name:      "Amit Kumar",
		FlatNo:    "B-204",
		Relation:  "Courier",
		Purpose:   "Delivery",
		VisitDate: &today,
	}
	require.NoError(t, svc.ScheduleVisit(visitor))

	_, err := svc.ApproveVisit(visitor.ID, "resident:7")
	require.NoError(t, err)

	checkedIn, err := svc.CheckinVisitor(visitor.ID)
	require.NoError(t, err)
	require.NotNil(t, checkedIn.CheckInTime)
	assert.Equal(t, models.VisitStatusApproved, checkedIn.Status)

	// 入场写审计日志
	var logs []models.AccessLog
	require.NoError(t, db.Where("action = ?", models.AccessActionVisitorCheckIn).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, visitor.ID, logs[0].EntityID)
	assert.Equal(t, "B-204", logs[0].FlatNo)
}

// TestCheckinVisitorRejectsRepeat verifies a visitor cannot check in twice.
func TestCheckinVisitorRejectsRepeat(t *testing.T) {
	svc := newTestVisitorService(t)
	visitor := scheduleTestVisit(t, svc)

	_, err := svc.ApproveVisit(visitor.ID, "resident:1")
	require.NoError(t, err)
	_, err = svc.CheckinVisitor(visitor.ID)
	require.NoError(t, err)

	_, err = svc.CheckinVisitor(visitor.ID)
	require.Error(t, err)
	assert.Equal(t, code.ErrVisitorAlreadyCheckedIn, ErrorCode(err))
}

// TestCheckinVisitorRequiresApproval verifies a pending visit cannot check in.
func TestCheckinVisitorRequiresApproval(t *testing.T) {
	svc := newTestVisitorService(t)
	visitor := scheduleTestVisit(t, svc)

	_, err := svc.CheckinVisitor(visitor.ID)
	require.Error(t, err)
	assert.Equal(t, code.ErrVisitNotApproved, ErrorCode(err))
}

// TestValidateVisitVerdicts verifies the read-only validation verdicts.
func TestValidateVisitVerdicts(t *testing.T) {
	svc := newTestVisitorService(t)

	valid, reason := svc.ValidateVisit(999)
	assert.False(t, valid)
	assert.Equal(t, "Visitor Not Found", reason)

	visitor := scheduleTestVisit(t, svc)
	valid, reason = svc.ValidateVisit(visitor.ID)
	assert.False(t, valid)
	assert.Equal(t, "Visitor not approved", reason)

	_, err := svc.ApproveVisit(visitor.ID, "resident:1")
	require.NoError(t, err)
	valid, _ = svc.ValidateVisit(visitor.ID)
	assert.True(t, valid)

	_, err = svc.CheckinVisitor(visitor.ID)
	require.NoError(t, err)
	valid, reason = svc.ValidateVisit(visitor.ID)
	assert.False(t, valid)
	assert.Equal(t, "Visitor already checked in", reason)
}

// TestValidateVisitRejectsWrongDate verifies an approved visit for another
// day is not admitted today.
func TestValidateVisitRejectsWrongDate(t *testing.T) {
	svc := newTestVisitorService(t)

	tomorrow := time.Now().Add(24 * time.Hour)
	visitor := &models.Visitor{
		Name:      "Priya Sharma",
		FlatNo:    "A-101",
		Relation:  "Sister",
		Purpose:   "Family visit",
		VisitDate: &tomorrow,
	}
	require.NoError(t, svc.ScheduleVisit(visitor))
	_, err := svc.ApproveVisit(visitor.ID, "resident:1")
	require.NoError(t, err)

	valid, reason := svc.ValidateVisit(visitor.ID)
	assert.False(t, valid)
	assert.Equal(t, "Visit is not scheduled for today", reason)
}

// TestWalkInRequestFlow verifies the guard-side walk-in request waits for
// the resident's decision.
func TestWalkInRequestFlow(t *testing.T) {
	svc := newTestVisitorService(t)

	walkIn := &models.Visitor{
		Name:     "Delivery Boy",
		FlatNo:   "C-302",
		Relation: "Courier",
		Purpose:  "Food delivery",
	}
	require.NoError(t, svc.RequestVisit(walkIn))
	assert.Equal(t, models.VisitStatusPending, walkIn.Status)
	assert.False(t, walkIn.CreatedByResident)

	pending, err := svc.GetPendingRequests("C-302")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, walkIn.ID, pending[0].ID)
}

// TestGetActiveVisitors verifies only checked-in visitors without a
// check-out appear as active.
func TestGetActiveVisitors(t *testing.T) {
	svc := newTestVisitorService(t)

	inside := scheduleTestVisit(t, svc)
	_, err := svc.ApproveVisit(inside.ID, "resident:1")
	require.NoError(t, err)
	_, err = svc.CheckinVisitor(inside.ID)
	require.NoError(t, err)

	// 仍在审批中的访客不在场
	scheduleTestVisit(t, svc)

	active, err := svc.GetActiveVisitors()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, inside.ID, active[0].ID)
}
