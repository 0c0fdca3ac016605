package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Investment is a priced catalog instrument. Price is the live market reference and is
// maintained by catalog administration, never by the request lifecycle.
type Investment struct {
	InvestmentID uuid.UUID       `gorm:"column:investment_id;type:uuid;primaryKey" json:"investment_id"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(20,8);not null;default:0" json:"price"`
	AssetClass   string          `gorm:"column:asset_class;type:varchar(50)" json:"asset_class"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Investment) TableName() string {
	return "investments"
}

func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	if i.InvestmentID == uuid.Nil {
		i.InvestmentID = uuid.New()
	}
	return nil
}
