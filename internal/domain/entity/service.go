package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a catalog entry a customer can book
type Service struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Category          string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	BasePrice         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	EstimatedDuration int             `gorm:"not null;default:60" json:"estimated_duration"`
	IsActive          bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}
