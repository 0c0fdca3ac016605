package requests

import (
	"context"
	"time"

	"investportal-backend/internal/domain"
	"investportal-backend/internal/pkg/currency"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// EnrichedRequest is a request joined with the user and investment display fields the
// admin review screen shows.
type EnrichedRequest struct {
	RequestID       uuid.UUID            `json:"request_id"`
	UserID          uuid.UUID            `json:"user_id"`
	InvestmentID    uuid.UUID            `json:"investment_id"`
	RequestType     domain.RequestType   `json:"request_type"`
	Amount          decimal.Decimal      `json:"amount"`
	AmountDisplay   string               `gorm:"-" json:"amount_display"`
	Notes           *string              `json:"notes"`
	Metadata        datatypes.JSON       `json:"metadata"`
	Status          domain.RequestStatus `json:"status"`
	HandledByAdmin  *uuid.UUID           `json:"handled_by_admin"`
	HandledAt       *time.Time           `json:"handled_at"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	UserFullname    *string              `json:"user_fullname"`
	UserEmail       *string              `json:"user_email"`
	InvestmentName  *string              `json:"investment_name"`
	AssetClass      *string              `json:"asset_class"`
	InvestmentPrice decimal.NullDecimal  `json:"investment_price"`
}

// ListForUser returns the user's own requests, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.InvestmentRequest, error) {
	out := []domain.InvestmentRequest{}
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListEnriched returns requests for admin review, oldest first, optionally filtered by status.
// Amounts are rendered in displayCurrency for the amount_display field.
func (s *Service) ListEnriched(ctx context.Context, status string, displayCurrency string) ([]EnrichedRequest, error) {
	q := s.DB.WithContext(ctx).
		Table("investment_requests AS r").
		Select(`r.request_id, r.user_id, r.investment_id, r.request_type, r.amount, r.notes, r.metadata,
			r.status, r.handled_by_admin, r.handled_at, r.created_at, r.updated_at,
			u.fullname AS user_fullname, u.email AS user_email,
			i.name AS investment_name, i.asset_class AS asset_class, i.price AS investment_price`).
		Joins("LEFT JOIN users u ON u.user_id = r.user_id").
		Joins("LEFT JOIN investments i ON i.investment_id = r.investment_id")
	if status != "" {
		st, err := domain.ParseRequestStatus(status)
		if err != nil {
			return nil, err
		}
		q = q.Where("r.status = ?", st)
	}

	out := []EnrichedRequest{}
	if err := q.Order("r.created_at ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		out[i].AmountDisplay = currency.Format(out[i].Amount, displayCurrency)
	}
	return out, nil
}
