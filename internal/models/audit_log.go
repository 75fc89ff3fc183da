package models

import "gorm.io/datatypes"

// Resource types recorded in the audit trail.
const (
	AuditResourceCategory             = "category"
	AuditResourceTransaction          = "transaction"
	AuditResourceBudget               = "budget"
	AuditResourceRecurringTransaction = "recurring_transaction"
	AuditResourcePartnership          = "partnership"
)

// AuditLog records a user-initiated change to one of their resources.
// Changes holds the request fields that were applied, if any.
type AuditLog struct {
	Base
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string         `gorm:"not null" json:"action"`
	ResourceType string         `gorm:"not null;index:idx_audit_logs_resource" json:"resource_type"`
	ResourceID   string         `gorm:"type:uuid;index:idx_audit_logs_resource" json:"resource_id"`
	IPAddress    string         `json:"ip_address"`
	Changes      datatypes.JSON `json:"changes,omitempty" swaggertype:"object"`
}
