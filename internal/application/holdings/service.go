package holdings

import (
	"context"
	"fmt"
	"time"

	"investportal-backend/internal/application/catalog"
	"investportal-backend/internal/domain"
	"investportal-backend/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Service is the write path of the holding ledger (user_investments).
type Service struct {
	DB      *gorm.DB
	Catalog *catalog.Service
}

// WithTx returns a Service whose ledger writes and catalog reads run inside tx.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{DB: tx, Catalog: &catalog.Service{DB: tx}}
}

func (s *Service) catalog() *catalog.Service {
	if s.Catalog != nil {
		return s.Catalog
	}
	return &catalog.Service{DB: s.DB}
}

// Valuation is the pair of values derived from a live price.
type Valuation struct {
	CurrentValue decimal.Decimal
	ReturnRate   decimal.Decimal
}

// Value derives current value (units × live price) and return rate
// ((live − purchase) / purchase × 100), both rounded to 2 places. Inputs must be stored exactly
// by their columns (ErrInvalidOverride otherwise), and the results must fit theirs
// (ErrValueOutOfRange).
func Value(units, purchasePrice, livePrice decimal.Decimal) (Valuation, error) {
	if units.IsNegative() || !purchasePrice.IsPositive() ||
		!domain.UnitsColumn.HasScale(units) || !domain.PriceColumn.HasScale(purchasePrice) {
		return Valuation{}, domain.ErrInvalidOverride
	}
	if !domain.UnitsColumn.InRange(units) || !domain.PriceColumn.InRange(purchasePrice) {
		return Valuation{}, domain.ErrValueOutOfRange
	}
	v := Valuation{
		CurrentValue: units.Mul(livePrice).Round(2),
		ReturnRate:   livePrice.Sub(purchasePrice).Div(purchasePrice).Mul(hundred).Round(2),
	}
	if !domain.ValueColumn.InRange(v.CurrentValue) || !domain.ReturnRateColumn.InRange(v.ReturnRate) {
		return Valuation{}, domain.ErrValueOutOfRange
	}
	return v, nil
}

// Entry is a holding about to be written.
type Entry struct {
	UserID        uuid.UUID
	InvestmentID  uuid.UUID
	Units         decimal.Decimal
	PurchasePrice decimal.Decimal
	Notes         *string
}

// Record inserts a holding priced against quote. The quote must belong to entry.InvestmentID.
// It may run inside a caller's transaction, so counting the write is left to the caller.
func (s *Service) Record(ctx context.Context, entry Entry, quote catalog.Quote) (*domain.Holding, error) {
	v, err := Value(entry.Units, entry.PurchasePrice, quote.Price)
	if err != nil {
		return nil, err
	}
	h := &domain.Holding{
		UserID:        entry.UserID,
		InvestmentID:  entry.InvestmentID,
		Units:         entry.Units,
		PurchasePrice: entry.PurchasePrice,
		CurrentValue:  v.CurrentValue,
		ReturnRate:    v.ReturnRate,
		AssetType:     quote.AssetClass,
		Source:        domain.HoldingSourceAdmin,
		Notes:         entry.Notes,
		ValuedAt:      time.Now().UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(h).Error; err != nil {
		return nil, fmt.Errorf("insert holding: %w", err)
	}
	return h, nil
}

// AssignDirect writes a holding outside the request flow, priced against the live catalog price.
func (s *Service) AssignDirect(ctx context.Context, entry Entry) (*domain.Holding, error) {
	if entry.Units.IsNegative() || !entry.PurchasePrice.IsPositive() {
		return nil, domain.ErrInvalidOverride
	}
	quote, err := s.catalog().GetPrice(ctx, entry.InvestmentID)
	if err != nil {
		return nil, err
	}
	h, err := s.Record(ctx, entry, quote)
	if err != nil {
		return nil, err
	}
	metrics.HoldingWrite("assign", 1)
	log.Info().Str("holding_id", h.HoldingID.String()).Str("user_id", entry.UserID.String()).
		Str("investment_id", entry.InvestmentID.String()).Msg("Holding assigned")
	return h, nil
}

// Unassign deletes every holding the user has in the investment.
func (s *Service) Unassign(ctx context.Context, userID, investmentID uuid.UUID) error {
	n, err := s.Remove(ctx, userID, investmentID)
	if err != nil {
		return err
	}
	metrics.HoldingWrite("unassign", int(n))
	if n == 0 {
		return domain.ErrHoldingNotFound
	}
	return nil
}

// Remove deletes the user's holdings in the investment and returns how many rows went away.
func (s *Service) Remove(ctx context.Context, userID, investmentID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND investment_id = ?", userID, investmentID).
		Delete(&domain.Holding{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete holdings: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListForUser returns the user's holdings, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// Revalue recomputes current_value and return_rate of every holding from the live catalog
// price. Holdings whose investment is gone are left as they are.
func (s *Service) Revalue(ctx context.Context) (int, error) {
	var investments []domain.Investment
	if err := s.DB.WithContext(ctx).Select("investment_id", "price").Find(&investments).Error; err != nil {
		return 0, fmt.Errorf("load prices: %w", err)
	}
	prices := make(map[uuid.UUID]decimal.Decimal, len(investments))
	for _, inv := range investments {
		prices[inv.InvestmentID] = inv.Price
	}

	now := time.Now().UTC()
	updated := 0
	var batch []domain.Holding
	res := s.DB.WithContext(ctx).FindInBatches(&batch, 200, func(tx *gorm.DB, _ int) error {
		for _, h := range batch {
			price, ok := prices[h.InvestmentID]
			if !ok {
				continue
			}
			v, err := Value(h.Units, h.PurchasePrice, price)
			if err != nil {
				log.Warn().Str("holding_id", h.HoldingID.String()).Err(err).Msg("Skipping holding that cannot be valued")
				continue
			}
			if err := s.DB.WithContext(ctx).Model(&domain.Holding{}).
				Where("holding_id = ?", h.HoldingID).
				Updates(map[string]interface{}{
					"current_value": v.CurrentValue,
					"return_rate":   v.ReturnRate,
					"valued_at":     now,
					"updated_at":    now,
				}).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if res.Error != nil {
		return updated, fmt.Errorf("revalue holdings: %w", res.Error)
	}
	metrics.HoldingWrite("revalue", updated)
	log.Info().Int("updated", updated).Msg("Holdings revalued")
	return updated, nil
}
