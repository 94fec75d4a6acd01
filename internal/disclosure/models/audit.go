package models

const (
	AuditActionDealProfileSaved       = "deal_profile_saved"
	AuditActionRegulatorApprovalSet   = "deal_regulator_approval_set"
	AuditActionRegulatorApprovalUnset = "deal_regulator_approval_withdrawn"
)
