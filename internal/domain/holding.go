package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HoldingSourceAdmin tags holdings written by an admin action (approval or direct assignment).
const HoldingSourceAdmin = "ADMIN"

// Holding is a realized per-user position (user_investments). CurrentValue and ReturnRate are
// derived from the live price at ValuedAt and only change through a revaluation.
type Holding struct {
	HoldingID     uuid.UUID       `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:idx_user_investment" json:"user_id"`
	InvestmentID  uuid.UUID       `gorm:"column:investment_id;type:uuid;not null;index:idx_user_investment" json:"investment_id"`
	Units         decimal.Decimal `gorm:"column:units;type:numeric(30,10);not null;default:0" json:"units"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:numeric(20,8);not null" json:"purchase_price"`
	CurrentValue  decimal.Decimal `gorm:"column:current_value;type:numeric(20,2);not null;default:0" json:"current_value"`
	ReturnRate    decimal.Decimal `gorm:"column:return_rate;type:numeric(20,2);not null;default:0" json:"return_rate"`
	AssetType     string          `gorm:"column:asset_type;type:varchar(50)" json:"asset_type"`
	Source        string          `gorm:"column:source;type:varchar(20);not null;default:'ADMIN'" json:"source"`
	Notes         *string         `gorm:"column:notes;type:text" json:"notes"`
	ValuedAt      time.Time       `gorm:"column:valued_at" json:"valued_at"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Holding) TableName() string {
	return "user_investments"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
