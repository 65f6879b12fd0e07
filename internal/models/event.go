package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an innovation-office event (showcase, workshop, competition).
type Event struct {
	BaseModel

	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `gorm:"index" json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`

	Metadata datatypes.JSON `json:"metadata"`

	CreatedBy string  `gorm:"type:uuid;not null" json:"created_by"`
	Entries   []EventEntry `gorm:"foreignKey:EventID" json:"entries,omitempty"`
}

// EventEntry registers an innovator (optionally with a project) for an event.
type EventEntry struct {
	BaseModel

	EventID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_user" json:"event_id"`
	Event   *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	UserID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_event_user" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ProjectID *string `gorm:"type:uuid" json:"project_id"`
	Notes     string  `json:"notes"`
}
