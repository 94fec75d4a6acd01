package models

// Audit event actions.
const (
	AuditActionInvestorRegistered   = "investor_registered"
	AuditActionInvestorReclassified = "investor_reclassified"
	AuditActionScreeningUpdated     = "investor_screening_updated"
	AuditActionApplicantLinked      = "verification_applicant_linked"
	AuditActionInvestorDeleted      = "investor_deleted"
)
