package models

// Notification kinds.
const (
	NotificationSubmission = "submission"
	NotificationDecision   = "decision"
	NotificationSystem     = "system"
)

// Notification is a stored message fanned out on submissions and decisions.
// The SPA polls for unread rows; there is no push channel.
type Notification struct {
	BaseModel

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Kind    string `gorm:"not null;index" json:"kind"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`

	Read bool `gorm:"default:false;index" json:"read"`
}
