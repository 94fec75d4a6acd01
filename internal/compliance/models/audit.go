package models

// Audit event actions.
const (
	AuditActionStatusChanged         = "compliance_status_changed"
	AuditActionVerificationApplied   = "verification_result_applied"
	AuditActionVerificationIgnored   = "verification_result_ignored"
	AuditActionVerificationWebhook   = "verification_webhook_received"
	AuditActionVerificationSyncFault = "verification_sync_failed"
)
