package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"investportal-backend/internal/application/catalog"
	"investportal-backend/internal/application/holdings"
	"investportal-backend/internal/domain"
	"investportal-backend/internal/infrastructure/database"
	"investportal-backend/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service runs the investment request state machine. Every transition is gated by a
// conditional statement on status = 'Pending', so competing callers are serialized by the database.
type Service struct {
	DB *gorm.DB
}

// Draft is the investor-editable part of a request.
type Draft struct {
	RequestType domain.RequestType
	Amount      decimal.Decimal
	Notes       *string
	Metadata    datatypes.JSON
}

// Validate enforces the per-type rules: assign needs a positive amount, unassign may omit it.
// Amounts are stored with two decimals, so finer fractions are refused rather than rounded away.
func (d Draft) Validate() error {
	if _, err := domain.ParseRequestType(string(d.RequestType)); err != nil {
		return err
	}
	if d.Amount.IsNegative() || !domain.AmountColumn.Fits(d.Amount) {
		return domain.ErrInvalidAmount
	}
	if d.RequestType == domain.RequestTypeAssign && !d.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	return nil
}

// Overrides lets an admin replace the derived units or the locked-in purchase price.
type Overrides struct {
	Units         *decimal.Decimal
	PurchasePrice *decimal.Decimal
}

// Create inserts a Pending request. Concurrent pending requests for the same investment are allowed.
func (s *Service) Create(ctx context.Context, userID, investmentID uuid.UUID, d Draft) (*domain.InvestmentRequest, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ok, err := (&catalog.Service{DB: s.DB}).Exists(ctx, investmentID)
	if err != nil {
		return nil, fmt.Errorf("check investment: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvestmentNotFound
	}

	req := &domain.InvestmentRequest{
		UserID:       userID,
		InvestmentID: investmentID,
		RequestType:  d.RequestType,
		Amount:       d.Amount,
		Notes:        d.Notes,
		Metadata:     d.Metadata,
		Status:       domain.StatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(req).Error; err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	metrics.Transition("created")
	log.Info().Str("request_id", req.RequestID.String()).Str("user_id", userID.String()).
		Str("request_type", string(d.RequestType)).Msg("Investment request created")
	return req, nil
}

// Edit overwrites type, amount, notes and metadata of the caller's own Pending request.
func (s *Service) Edit(ctx context.Context, userID, requestID uuid.UUID, d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&domain.InvestmentRequest{}).
		Where("request_id = ? AND user_id = ? AND status = ?", requestID, userID, domain.StatusPending).
		Updates(map[string]interface{}{
			"request_type": d.RequestType,
			"amount":       d.Amount,
			"notes":        d.Notes,
			"metadata":     d.Metadata,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRequestNotFoundOrNotEditable
	}
	metrics.Transition("edited")
	return nil
}

// Cancel hard-deletes the caller's own Pending request.
func (s *Service) Cancel(ctx context.Context, userID, requestID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("request_id = ? AND user_id = ? AND status = ?", requestID, userID, domain.StatusPending).
		Delete(&domain.InvestmentRequest{})
	if res.Error != nil {
		return fmt.Errorf("delete request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRequestNotFoundOrNotEditable
	}
	metrics.Transition("canceled")
	log.Info().Str("request_id", requestID.String()).Str("user_id", userID.String()).Msg("Investment request canceled")
	return nil
}

// Approve moves a Pending request to Approved and applies it to the ledger in one transaction.
// An assign request becomes a holding priced at the live catalog price; an unassign request
// removes the user's holdings in that investment. The returned holding is nil for unassign.
func (s *Service) Approve(ctx context.Context, requestID, adminID uuid.UUID, ov Overrides) (*domain.Holding, error) {
	var holding *domain.Holding
	var written int64

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("request_id = ? AND status = ?", requestID, domain.StatusPending)
		if database.IsPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var req domain.InvestmentRequest
		if err := q.First(&req).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRequestNotFound
			}
			return fmt.Errorf("read request: %w", err)
		}

		if err := markHandled(tx, requestID, adminID, domain.StatusApproved); err != nil {
			return err
		}

		ledger := (&holdings.Service{}).WithTx(tx)
		switch req.RequestType {
		case domain.RequestTypeAssign:
			quote, err := ledger.Catalog.GetPrice(ctx, req.InvestmentID)
			if err != nil {
				return err
			}
			if !quote.Price.IsPositive() {
				return domain.ErrInvalidPrice
			}
			units := req.Amount.DivRound(quote.Price, domain.UnitsColumn.Scale)
			purchasePrice := quote.Price
			if ov.Units != nil {
				units = *ov.Units
			}
			if ov.PurchasePrice != nil {
				purchasePrice = *ov.PurchasePrice
			}
			holding, err = ledger.Record(ctx, holdings.Entry{
				UserID:        req.UserID,
				InvestmentID:  req.InvestmentID,
				Units:         units,
				PurchasePrice: purchasePrice,
				Notes:         req.Notes,
			}, quote)
			if err == nil {
				written = 1
			}
			return err
		case domain.RequestTypeUnassign:
			n, err := ledger.Remove(ctx, req.UserID, req.InvestmentID)
			written = n
			return err
		}
		return domain.ErrInvalidRequestType
	})
	if err != nil {
		return nil, err
	}

	metrics.Transition("approved")
	metrics.HoldingWrite("approve", int(written))
	log.Info().Str("request_id", requestID.String()).Str("admin_id", adminID.String()).Msg("Investment request approved")
	return holding, nil
}

// Reject moves a Pending request to Rejected. Exactly one of several concurrent callers wins.
func (s *Service) Reject(ctx context.Context, requestID, adminID uuid.UUID) error {
	if err := markHandled(s.DB.WithContext(ctx), requestID, adminID, domain.StatusRejected); err != nil {
		return err
	}
	metrics.Transition("rejected")
	log.Info().Str("request_id", requestID.String()).Str("admin_id", adminID.String()).Msg("Investment request rejected")
	return nil
}

// AdminStatusUpdate is the generic decision entry point. It goes through Approve/Reject so the
// Pending precondition holds here as well.
func (s *Service) AdminStatusUpdate(ctx context.Context, requestID, adminID uuid.UUID, status string) error {
	decision, err := domain.ParseDecision(status)
	if err != nil {
		return err
	}
	if decision == domain.StatusApproved {
		_, err = s.Approve(ctx, requestID, adminID, Overrides{})
		return err
	}
	return s.Reject(ctx, requestID, adminID)
}

// markHandled is the single Pending -> terminal gate used by every decision path.
func markHandled(db *gorm.DB, requestID, adminID uuid.UUID, status domain.RequestStatus) error {
	now := time.Now().UTC()
	res := db.Model(&domain.InvestmentRequest{}).
		Where("request_id = ? AND status = ?", requestID, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"handled_by_admin": adminID,
			"handled_at":       now,
			"updated_at":       now,
		})
	if res.Error != nil {
		return fmt.Errorf("update request status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}
