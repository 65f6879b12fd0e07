package models

import "github.com/Junior-189/CITT-Project-sub001/internal/roles"

// RolePermission is one row of the permission whitelist. The composite unique
// index makes duplicate grants fail with a conflict instead of silently
// duplicating the triple.
type RolePermission struct {
	BaseModel

	Role        roles.Role `gorm:"not null;uniqueIndex:idx_role_resource_action" json:"role"`
	Resource    string     `gorm:"not null;uniqueIndex:idx_role_resource_action" json:"resource"`
	Action      string     `gorm:"not null;uniqueIndex:idx_role_resource_action" json:"action"`
	Description string     `json:"description"`
}
