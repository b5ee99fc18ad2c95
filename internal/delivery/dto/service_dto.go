package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Description       string          `json:"description,omitempty"`
	BasePrice         decimal.Decimal `json:"base_price"`
	EstimatedDuration int             `json:"estimated_duration"`
}
