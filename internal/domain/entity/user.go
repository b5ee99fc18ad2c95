package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents every account: customers, technicians and admins
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password       string     `gorm:"type:text;not null" json:"-"`
	Phone          string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Role           Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	Specialization string     `gorm:"type:varchar(100)" json:"specialization,omitempty"`
	Experience     int        `gorm:"not null;default:0" json:"experience"`
	Certifications StringList `gorm:"type:jsonb" json:"certifications,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsTechnician() bool {
	return u.Role == RoleTechnician
}

// Actor returns the identity the user acts as.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// TechnicianStats summarizes a technician's booking history
type TechnicianStats struct {
	TotalBookings     int64
	CompletedBookings int64
	ActiveBookings    int64
}
