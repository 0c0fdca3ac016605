package catalog

import (
	"context"
	"errors"
	"fmt"

	"investportal-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quote is a point-in-time read of an investment's live market reference.
type Quote struct {
	InvestmentID uuid.UUID
	Price        decimal.Decimal
	AssetClass   string
}

// Service reads the investment catalog. It never writes to it.
type Service struct {
	DB *gorm.DB
}

// WithTx returns a Service bound to tx so the read joins the caller's transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{DB: tx}
}

// GetPrice returns the current price and asset class of an investment.
func (s *Service) GetPrice(ctx context.Context, investmentID uuid.UUID) (Quote, error) {
	var inv domain.Investment
	err := s.DB.WithContext(ctx).
		Select("investment_id", "price", "asset_class").
		Where("investment_id = ?", investmentID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Quote{}, domain.ErrInvestmentNotFound
		}
		return Quote{}, fmt.Errorf("read investment price: %w", err)
	}
	return Quote{InvestmentID: inv.InvestmentID, Price: inv.Price, AssetClass: inv.AssetClass}, nil
}

// Exists reports whether the investment is in the catalog.
func (s *Service) Exists(ctx context.Context, investmentID uuid.UUID) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Investment{}).Where("investment_id = ?", investmentID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
