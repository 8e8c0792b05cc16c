package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowStageOrdering(t *testing.T) {
	assert.Len(t, WorkflowStages, 15)
	assert.Equal(t, 0, StageTenderIdentification.Index())
	assert.Equal(t, 4, StageBidSubmission.Index())
	assert.Equal(t, 14, StageTenderCompletion.Index())
}

func TestWorkflowStageNextPrev(t *testing.T) {
	t.Run("advance moves one step", func(t *testing.T) {
		assert.Equal(t, StageTenderReview, StageTenderIdentification.Next())
		assert.Equal(t, StageTechnicalEvaluation, StageBidSubmission.Next())
	})

	t.Run("revert moves one step back", func(t *testing.T) {
		assert.Equal(t, StageDocumentPreparation, StageBidSubmission.Prev())
	})

	t.Run("clamped at both ends", func(t *testing.T) {
		assert.Equal(t, StageTenderIdentification, StageTenderIdentification.Prev())
		assert.Equal(t, StageTenderCompletion, StageTenderCompletion.Next())
	})

	t.Run("unknown stage stays put", func(t *testing.T) {
		bogus := WorkflowStage("not_a_stage")
		assert.Equal(t, bogus, bogus.Next())
		assert.Equal(t, bogus, bogus.Prev())
		assert.Equal(t, -1, bogus.Index())
		assert.False(t, bogus.IsValid())
	})
}

func TestWorkflowStageIsSubmittedOrLater(t *testing.T) {
	assert.False(t, StageDocumentPreparation.IsSubmittedOrLater())
	assert.True(t, StageBidSubmission.IsSubmittedOrLater())
	assert.True(t, StageNegotiation.IsSubmittedOrLater())
}

func TestFinancialStatusTransitions(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		assert.True(t, FinancialStatusPendingApproval.CanTransitionTo(FinancialStatusApproved))
		assert.True(t, FinancialStatusApproved.CanTransitionTo(FinancialStatusProcessed))
		assert.True(t, FinancialStatusProcessed.CanTransitionTo(FinancialStatusRefunded))
		assert.True(t, FinancialStatusProcessed.CanTransitionTo(FinancialStatusReleased))
	})

	t.Run("decline only before processing", func(t *testing.T) {
		assert.True(t, FinancialStatusPendingApproval.CanTransitionTo(FinancialStatusDeclined))
		assert.True(t, FinancialStatusApproved.CanTransitionTo(FinancialStatusDeclined))
		assert.False(t, FinancialStatusProcessed.CanTransitionTo(FinancialStatusDeclined))
	})

	t.Run("no skipping approval", func(t *testing.T) {
		assert.False(t, FinancialStatusPendingApproval.CanTransitionTo(FinancialStatusProcessed))
		assert.False(t, FinancialStatusPendingApproval.CanTransitionTo(FinancialStatusRefunded))
	})

	t.Run("terminal states", func(t *testing.T) {
		assert.True(t, FinancialStatusDeclined.IsTerminal())
		assert.True(t, FinancialStatusRefunded.IsTerminal())
		assert.True(t, FinancialStatusReleased.IsTerminal())
		assert.False(t, FinancialStatusApproved.IsTerminal())
	})
}

func TestTenderNeedsReassignment(t *testing.T) {
	t.Run("no assignments", func(t *testing.T) {
		tender := &Tender{}
		assert.False(t, tender.NeedsReassignment())
	})

	t.Run("declined with none accepted", func(t *testing.T) {
		tender := &Tender{Assignments: []TenderAssignment{
			{Status: AssignmentStatusDeclined},
			{Status: AssignmentStatusPending},
		}}
		assert.True(t, tender.NeedsReassignment())
	})

	t.Run("any acceptance clears the flag", func(t *testing.T) {
		tender := &Tender{Assignments: []TenderAssignment{
			{Status: AssignmentStatusDeclined},
			{Status: AssignmentStatusAccepted},
		}}
		assert.False(t, tender.NeedsReassignment())
	})

	t.Run("all pending", func(t *testing.T) {
		tender := &Tender{Assignments: []TenderAssignment{
			{Status: AssignmentStatusPending},
		}}
		assert.False(t, tender.NeedsReassignment())
	})
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, TenderStatusWon.IsValid())
	assert.False(t, TenderStatus("pending").IsValid())
	assert.True(t, PostAwardStatusSkipped.IsValid())
	assert.False(t, PostAwardStatus("done").IsValid())
	assert.True(t, PostAwardInvoicing.IsValid())
	assert.False(t, PostAwardStage("shipping").IsValid())
	assert.True(t, RoleFinance.IsValid())
	assert.False(t, UserRole("superadmin").IsValid())
	assert.True(t, FinancialTypeEMD.IsValid())
	assert.False(t, FinancialRequestType("deposit").IsValid())
}
