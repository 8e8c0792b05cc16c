package domain

// WorkflowStage represents a step in the pre-award tender workflow.
// The pipeline is strictly linear: a tender moves one stage forward
// or one stage back at a time, clamped at both ends.
type WorkflowStage string

const (
	StageTenderIdentification WorkflowStage = "tender_identification"
	StageTenderReview         WorkflowStage = "tender_review"
	StageBidNoBid             WorkflowStage = "bid_no_bid"
	StageDocumentPreparation  WorkflowStage = "document_preparation"
	StageBidSubmission        WorkflowStage = "bid_submission"
	StageTechnicalEvaluation  WorkflowStage = "technical_evaluation"
	StageFinancialEvaluation  WorkflowStage = "financial_evaluation"
	StageClarifications       WorkflowStage = "clarifications"
	StageNegotiation          WorkflowStage = "negotiation"
	StageAwardNotification    WorkflowStage = "award_notification"
	StageContractSigning      WorkflowStage = "contract_signing"
	StageEMDRefund            WorkflowStage = "emd_refund"
	StagePBGSubmission        WorkflowStage = "pbg_submission"
	StageProjectExecution     WorkflowStage = "project_execution"
	StageTenderCompletion     WorkflowStage = "tender_completion"
)

// WorkflowStages lists all stages in pipeline order. Position in this
// slice defines the ordering used by Advance and Revert.
var WorkflowStages = []WorkflowStage{
	StageTenderIdentification,
	StageTenderReview,
	StageBidNoBid,
	StageDocumentPreparation,
	StageBidSubmission,
	StageTechnicalEvaluation,
	StageFinancialEvaluation,
	StageClarifications,
	StageNegotiation,
	StageAwardNotification,
	StageContractSigning,
	StageEMDRefund,
	StagePBGSubmission,
	StageProjectExecution,
	StageTenderCompletion,
}

var workflowStageIndex = func() map[WorkflowStage]int {
	m := make(map[WorkflowStage]int, len(WorkflowStages))
	for i, s := range WorkflowStages {
		m[s] = i
	}
	return m
}()

// IsValid checks if the WorkflowStage is a valid enum value
func (s WorkflowStage) IsValid() bool {
	_, ok := workflowStageIndex[s]
	return ok
}

// Index returns the zero-based pipeline position, or -1 for an unknown stage
func (s WorkflowStage) Index() int {
	if i, ok := workflowStageIndex[s]; ok {
		return i
	}
	return -1
}

// Next returns the following stage, or the same stage at the end of the pipeline
func (s WorkflowStage) Next() WorkflowStage {
	i := s.Index()
	if i < 0 || i >= len(WorkflowStages)-1 {
		return s
	}
	return WorkflowStages[i+1]
}

// Prev returns the preceding stage, or the same stage at the start of the pipeline
func (s WorkflowStage) Prev() WorkflowStage {
	i := s.Index()
	if i <= 0 {
		return s
	}
	return WorkflowStages[i-1]
}

// IsSubmittedOrLater reports whether the stage sits at or past bid
// submission. The dashboard's submitted-tender count keys off this.
func (s WorkflowStage) IsSubmittedOrLater() bool {
	return s.Index() >= StageBidSubmission.Index()
}

// Label returns a human-readable name for reports and notifications
func (s WorkflowStage) Label() string {
	if l, ok := workflowStageLabels[s]; ok {
		return l
	}
	return string(s)
}

var workflowStageLabels = map[WorkflowStage]string{
	StageTenderIdentification: "Tender Identification",
	StageTenderReview:         "Tender Review",
	StageBidNoBid:             "Bid/No-Bid Decision",
	StageDocumentPreparation:  "Document Preparation",
	StageBidSubmission:        "Bid Submission",
	StageTechnicalEvaluation:  "Technical Evaluation",
	StageFinancialEvaluation:  "Financial Evaluation",
	StageClarifications:       "Clarifications",
	StageNegotiation:          "Negotiation",
	StageAwardNotification:    "Award Notification",
	StageContractSigning:      "Contract Signing",
	StageEMDRefund:            "EMD Refund",
	StagePBGSubmission:        "PBG Submission",
	StageProjectExecution:     "Project Execution",
	StageTenderCompletion:     "Tender Completion",
}

// PostAwardStage represents a step in the execution tracker for won
// tenders. Unlike WorkflowStage, stages here do not gate each other:
// each carries its own status and can be updated in any order.
type PostAwardStage string

const (
	PostAwardOrderAcknowledgement       PostAwardStage = "order_acknowledgement"
	PostAwardKickoffMeeting             PostAwardStage = "kickoff_meeting"
	PostAwardResourceMobilization       PostAwardStage = "resource_mobilization"
	PostAwardMaterialDelivery           PostAwardStage = "material_delivery"
	PostAwardInstallationCommissioning  PostAwardStage = "installation_commissioning"
	PostAwardAcceptanceTesting          PostAwardStage = "acceptance_testing"
	PostAwardDocumentationSubmission    PostAwardStage = "documentation_submission"
	PostAwardInvoicing                  PostAwardStage = "invoicing"
	PostAwardPaymentCollection          PostAwardStage = "payment_collection"
	PostAwardProjectClosure             PostAwardStage = "project_closure"
)

// PostAwardStages lists all post-award stages in display order
var PostAwardStages = []PostAwardStage{
	PostAwardOrderAcknowledgement,
	PostAwardKickoffMeeting,
	PostAwardResourceMobilization,
	PostAwardMaterialDelivery,
	PostAwardInstallationCommissioning,
	PostAwardAcceptanceTesting,
	PostAwardDocumentationSubmission,
	PostAwardInvoicing,
	PostAwardPaymentCollection,
	PostAwardProjectClosure,
}

// IsValid checks if the PostAwardStage is a valid enum value
func (s PostAwardStage) IsValid() bool {
	for _, v := range PostAwardStages {
		if v == s {
			return true
		}
	}
	return false
}

// Label returns a human-readable name for reports and notifications
func (s PostAwardStage) Label() string {
	if l, ok := postAwardStageLabels[s]; ok {
		return l
	}
	return string(s)
}

var postAwardStageLabels = map[PostAwardStage]string{
	PostAwardOrderAcknowledgement:      "Order Acknowledgement",
	PostAwardKickoffMeeting:            "Kickoff Meeting",
	PostAwardResourceMobilization:      "Resource Mobilization",
	PostAwardMaterialDelivery:          "Material Delivery",
	PostAwardInstallationCommissioning: "Installation & Commissioning",
	PostAwardAcceptanceTesting:         "Acceptance Testing",
	PostAwardDocumentationSubmission:   "Documentation Submission",
	PostAwardInvoicing:                 "Invoicing",
	PostAwardPaymentCollection:         "Payment Collection",
	PostAwardProjectClosure:            "Project Closure",
}

// validFinancialTransitions encodes the financial request lifecycle.
// Declined is terminal and only reachable before processing.
var validFinancialTransitions = map[FinancialStatus][]FinancialStatus{
	FinancialStatusPendingApproval: {FinancialStatusApproved, FinancialStatusDeclined},
	FinancialStatusApproved:        {FinancialStatusProcessed, FinancialStatusDeclined},
	FinancialStatusProcessed:       {FinancialStatusRefunded, FinancialStatusReleased},
	FinancialStatusRefunded:        {},
	FinancialStatusReleased:        {},
	FinancialStatusDeclined:        {},
}

// CanTransitionTo reports whether the financial status transition is allowed
func (s FinancialStatus) CanTransitionTo(target FinancialStatus) bool {
	for _, allowed := range validFinancialTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the financial status accepts no further transitions
func (s FinancialStatus) IsTerminal() bool {
	return len(validFinancialTransitions[s]) == 0
}
