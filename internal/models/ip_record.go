package models

// IP record kinds and filing states.
const (
	IPTypePatent    = "patent"
	IPTypeCopyright = "copyright"
	IPTypeTrademark = "trademark"

	IPStatusDisclosed = "disclosed"
	IPStatusFiled     = "filed"
	IPStatusGranted   = "granted"
	IPStatusRejected  = "rejected"
)

// IPRecord is an intellectual-property disclosure managed by IP Managers.
type IPRecord struct {
	BaseModel

	Title       string `gorm:"not null" json:"title"`
	Type        string `gorm:"not null;index" json:"type"`
	Description string `gorm:"type:text" json:"description"`
	RefNumber   string `gorm:"index" json:"ref_number"`
	Status      string `gorm:"not null;default:disclosed;index" json:"status"`

	ProjectID *string  `gorm:"type:uuid;index" json:"project_id"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
