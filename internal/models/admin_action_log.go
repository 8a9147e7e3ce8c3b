package models

import "time"

// Action types recorded in the audit trail
const (
	ActionAssignLeads   = "assign_leads"
	ActionUnassignLeads = "unassign_leads"
	ActionLeadStatus    = "update_lead_status"
	ActionDeleteLeads   = "delete_leads"
	ActionDeleteNote    = "delete_note"
	ActionCreateAdmin   = "create_admin"
	ActionDeleteAdmin   = "delete_admin"
	ActionDeletePost    = "delete_post"
	ActionExportLeads   = "export_leads"
)

type AdminActionLog struct {
	ID          int       `json:"id"`
	AdminID     string    `json:"adminId"`
	AdminName   string    `json:"adminName,omitempty"`
	AdminEmail  string    `json:"adminEmail,omitempty"`
	ActionType  string    `json:"actionType"`
	TargetType  string    `json:"targetType"`
	TargetID    *string   `json:"targetId,omitempty"`
	Description string    `json:"description"`
	IPAddress   *string   `json:"ipAddress,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
