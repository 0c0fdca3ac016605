package requests

import (
	"bytes"
	"encoding/json"
	"errors"

	reqsvc "investportal-backend/internal/application/requests"
	"investportal-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var errInvestmentIDRequired = errors.New("investmentId is required")

// createBody is the POST /users/:userId/requests payload.
type createBody struct {
	InvestmentID string `json:"investmentId"`
	editBody
}

// editBody is the PUT /users/:userId/requests/:reqId payload.
type editBody struct {
	RequestType string           `json:"requestType"`
	Amount      *decimal.Decimal `json:"amount"`
	Notes       *string          `json:"notes"`
	Metadata    json.RawMessage  `json:"metadata"`
}

// statusBody is the PATCH /requests/:reqId payload.
type statusBody struct {
	Status string `json:"status"`
}

// approveBody is the PATCH /admin/requests/:reqId/approve payload. Both fields are optional.
type approveBody struct {
	Units         *decimal.Decimal `json:"units"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

func (b createBody) investmentID() (uuid.UUID, error) {
	if b.InvestmentID == "" {
		return uuid.Nil, errInvestmentIDRequired
	}
	id, err := uuid.Parse(b.InvestmentID)
	if err != nil {
		return uuid.Nil, errors.New("Invalid investmentId")
	}
	return id, nil
}

// draft validates the body and converts it for the lifecycle engine.
func (b editBody) draft() (reqsvc.Draft, error) {
	rt, err := domain.ParseRequestType(b.RequestType)
	if err != nil {
		return reqsvc.Draft{}, err
	}
	d := reqsvc.Draft{RequestType: rt, Notes: b.Notes, Metadata: metadata(b.Metadata)}
	if b.Amount != nil {
		d.Amount = *b.Amount
	}
	return d, d.Validate()
}

func (b approveBody) overrides() reqsvc.Overrides {
	return reqsvc.Overrides{Units: b.Units, PurchasePrice: b.PurchasePrice}
}

// metadata keeps the JSON as sent; absent or null becomes SQL NULL.
func metadata(raw json.RawMessage) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return datatypes.JSON(trimmed)
}

// decode unmarshals an optional JSON body; an empty body leaves v untouched.
func decode(body []byte, v interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
