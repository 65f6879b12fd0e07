package models

// Project lifecycle states.
const (
	ProjectStatusDraft       = "draft"
	ProjectStatusSubmitted   = "submitted"
	ProjectStatusUnderReview = "under_review"
	ProjectStatusApproved    = "approved"
	ProjectStatusRejected    = "rejected"
)

// Project is an innovation project submitted by an innovator and reviewed by
// office staff.
type Project struct {
	BaseModel

	Title    string `gorm:"not null" json:"title"`
	Abstract string `gorm:"type:text" json:"abstract"`
	Category string `gorm:"index" json:"category"`
	Status   string `gorm:"not null;default:draft;index" json:"status"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ReviewComment string  `json:"review_comment"`
	ReviewedBy    *string `gorm:"type:uuid" json:"reviewed_by"`
}
