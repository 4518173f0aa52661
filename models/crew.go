package models

import (
	"time"

	"gorm.io/gorm"
)

type Crew struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Users     []User    `gorm:"foreignKey:CrewID" json:"users,omitempty"`
}

// CrewSupervisor assigns a supervisor to a crew. A supervisor only sees
// pending timecards for workers in crews assigned to them here; admins see
// everything.
type CrewSupervisor struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CrewID    uint           `gorm:"not null;index" json:"crew_id"`
	Crew      *Crew          `gorm:"foreignKey:CrewID" json:"crew,omitempty"`
}
