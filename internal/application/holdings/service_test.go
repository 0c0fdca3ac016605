package holdings

import (
	"context"
	"testing"

	"investportal-backend/internal/domain"
	"investportal-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedger(t *testing.T, price int64) (*Service, *gorm.DB, domain.Investment) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	inv := domain.Investment{Name: "Bond Fund", Price: decimal.NewFromInt(price), AssetClass: "fixed_income"}
	require.NoError(t, db.Create(&inv).Error)
	return &Service{DB: db}, db, inv
}

func TestValue(t *testing.T) {
	v, err := Value(decimal.NewFromInt(20), decimal.NewFromInt(40), decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, v.CurrentValue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, v.ReturnRate.Equal(decimal.NewFromInt(25)))

	v, err = Value(decimal.RequireFromString("3"), decimal.RequireFromString("3"), decimal.RequireFromString("1"))
	require.NoError(t, err)
	assert.Equal(t, "3", v.CurrentValue.String())
	assert.Equal(t, "-66.67", v.ReturnRate.String())
}

func TestValue_RejectsInvalidInputs(t *testing.T) {
	_, err := Value(decimal.NewFromInt(-1), decimal.NewFromInt(10), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)
	_, err = Value(decimal.NewFromInt(1), decimal.Zero, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)
	_, err = Value(decimal.NewFromInt(1), decimal.RequireFromString("0.000000001"), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrInvalidOverride, "purchase price finer than the column stores")
	_, err = Value(decimal.RequireFromString("0.00000000001"), decimal.NewFromInt(10), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrInvalidOverride, "units finer than the column stores")
}

func TestValue_TinyPurchasePriceFitsReturnColumn(t *testing.T) {
	v, err := Value(decimal.NewFromInt(1), decimal.RequireFromString("0.00000001"), decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, "499999999900", v.ReturnRate.String())
	assert.True(t, domain.ReturnRateColumn.Fits(v.ReturnRate))
}

func TestValue_OutOfRange(t *testing.T) {
	_, err := Value(decimal.NewFromInt(1), decimal.RequireFromString("0.00000001"), decimal.RequireFromString("100000000000"))
	assert.ErrorIs(t, err, domain.ErrValueOutOfRange, "return rate beyond numeric(20,2)")

	_, err = Value(decimal.New(1, 19), decimal.NewFromInt(1), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, domain.ErrValueOutOfRange, "current value beyond numeric(20,2)")

	_, err = Value(decimal.New(1, 20), decimal.NewFromInt(1), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrValueOutOfRange, "units beyond numeric(30,10)")
}

func TestAssignDirect(t *testing.T) {
	s, db, inv := setupLedger(t, 50)
	userID := uuid.New()
	notes := "migration"

	h, err := s.AssignDirect(context.Background(), Entry{
		UserID:        userID,
		InvestmentID:  inv.InvestmentID,
		Units:         decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(40),
		Notes:         &notes,
	})
	require.NoError(t, err)

	var stored domain.Holding
	require.NoError(t, db.Where("holding_id = ?", h.HoldingID).First(&stored).Error)
	assert.True(t, stored.CurrentValue.Equal(decimal.NewFromInt(500)))
	assert.True(t, stored.ReturnRate.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "fixed_income", stored.AssetType)
	assert.Equal(t, domain.HoldingSourceAdmin, stored.Source)
	require.NotNil(t, stored.Notes)
	assert.Equal(t, "migration", *stored.Notes)
}

func TestAssignDirect_Errors(t *testing.T) {
	s, _, inv := setupLedger(t, 50)
	ctx := context.Background()

	_, err := s.AssignDirect(ctx, Entry{UserID: uuid.New(), InvestmentID: uuid.New(), Units: decimal.NewFromInt(1), PurchasePrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvestmentNotFound)

	_, err = s.AssignDirect(ctx, Entry{UserID: uuid.New(), InvestmentID: inv.InvestmentID, Units: decimal.NewFromInt(1), PurchasePrice: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)
}

func TestUnassign(t *testing.T) {
	s, db, inv := setupLedger(t, 10)
	ctx := context.Background()
	userID := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := s.AssignDirect(ctx, Entry{UserID: userID, InvestmentID: inv.InvestmentID, Units: decimal.NewFromInt(1), PurchasePrice: decimal.NewFromInt(10)})
		require.NoError(t, err)
	}

	require.NoError(t, s.Unassign(ctx, userID, inv.InvestmentID))
	var n int64
	db.Model(&domain.Holding{}).Where("user_id = ?", userID).Count(&n)
	assert.Equal(t, int64(0), n)

	assert.ErrorIs(t, s.Unassign(ctx, userID, inv.InvestmentID), domain.ErrHoldingNotFound)
}

func TestRevalue(t *testing.T) {
	s, db, inv := setupLedger(t, 50)
	ctx := context.Background()
	userID := uuid.New()
	h, err := s.AssignDirect(ctx, Entry{UserID: userID, InvestmentID: inv.InvestmentID, Units: decimal.NewFromInt(20), PurchasePrice: decimal.NewFromInt(50)})
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.Investment{}).Where("investment_id = ?", inv.InvestmentID).Update("price", decimal.NewFromInt(60)).Error)

	n, err := s.Revalue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var stored domain.Holding
	require.NoError(t, db.Where("holding_id = ?", h.HoldingID).First(&stored).Error)
	assert.True(t, stored.CurrentValue.Equal(decimal.NewFromInt(1200)))
	assert.True(t, stored.ReturnRate.Equal(decimal.NewFromInt(20)))
	assert.True(t, stored.PurchasePrice.Equal(decimal.NewFromInt(50)))
}

func TestListForUser(t *testing.T) {
	s, _, inv := setupLedger(t, 5)
	ctx := context.Background()
	userID := uuid.New()
	_, err := s.AssignDirect(ctx, Entry{UserID: userID, InvestmentID: inv.InvestmentID, Units: decimal.NewFromInt(2), PurchasePrice: decimal.NewFromInt(5)})
	require.NoError(t, err)

	list, err := s.ListForUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.ListForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list)
}
