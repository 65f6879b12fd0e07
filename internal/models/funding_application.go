package models

import "github.com/shopspring/decimal"

// Funding application lifecycle states.
const (
	FundingStatusSubmitted   = "submitted"
	FundingStatusUnderReview = "under_review"
	FundingStatusApproved    = "approved"
	FundingStatusRejected    = "rejected"
)

// FundingApplication requests money for an approved or in-flight project.
// Amounts are stored as fixed-point decimals, never floats.
type FundingApplication struct {
	BaseModel

	ProjectID string   `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Purpose         string          `gorm:"type:text" json:"purpose"`
	RequestedAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"requested_amount"`
	ApprovedAmount  decimal.Decimal `gorm:"type:decimal(14,2)" json:"approved_amount"`

	Status        string  `gorm:"not null;default:submitted;index" json:"status"`
	ReviewComment string  `json:"review_comment"`
	ReviewedBy    *string `gorm:"type:uuid" json:"reviewed_by"`
}
