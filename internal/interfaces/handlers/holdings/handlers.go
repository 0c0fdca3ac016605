package holdings

import (
	"bytes"
	"encoding/json"

	holdsvc "investportal-backend/internal/application/holdings"
	"investportal-backend/internal/interfaces/handlers"
	"investportal-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *holdsvc.Service
}

type assignBody struct {
	InvestmentID  string           `json:"investmentId"`
	Units         *decimal.Decimal `json:"units"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Notes         *string          `json:"notes"`
}

// GET /api/v1/users/:userId/investments
func (h *Handlers) ListForUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid userId")
	}
	data, err := h.Service.ListForUser(c.UserContext(), userID)
	if err != nil {
		return handlers.WriteError(c, "list holdings", err)
	}
	return response.Success(c, "Holdings fetched successfully", data, fiber.Map{"count": len(data)})
}

// POST /api/v1/admin/users/:userId/investments {investmentId, units, purchase_price, notes?} -> 201
func (h *Handlers) Assign(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid userId")
	}
	var body assignBody
	if len(bytes.TrimSpace(c.Body())) == 0 || json.Unmarshal(c.Body(), &body) != nil {
		return handlers.BadRequest(c, handlers.ErrInvalidBody.Error())
	}
	investmentID, err := uuid.Parse(body.InvestmentID)
	if err != nil {
		return handlers.BadRequest(c, "Invalid investmentId")
	}
	if body.Units == nil || body.PurchasePrice == nil {
		return handlers.BadRequest(c, "units and purchase_price are required")
	}
	holding, err := h.Service.AssignDirect(c.UserContext(), holdsvc.Entry{
		UserID:        userID,
		InvestmentID:  investmentID,
		Units:         *body.Units,
		PurchasePrice: *body.PurchasePrice,
		Notes:         body.Notes,
	})
	if err != nil {
		return handlers.WriteError(c, "assign holding", err)
	}
	return response.SuccessCreated(c, "Investment assigned", holding, nil)
}

// DELETE /api/v1/admin/users/:userId/investments/:investmentId
func (h *Handlers) Unassign(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid userId")
	}
	investmentID, err := uuid.Parse(c.Params("investmentId"))
	if err != nil {
		return handlers.BadRequest(c, "Invalid investmentId")
	}
	if err := h.Service.Unassign(c.UserContext(), userID, investmentID); err != nil {
		return handlers.WriteError(c, "unassign holding", err)
	}
	return response.Success(c, "Investment unassigned", fiber.Map{"user_id": userID, "investment_id": investmentID}, nil)
}

// POST /api/v1/admin/holdings/revalue
func (h *Handlers) Revalue(c *fiber.Ctx) error {
	n, err := h.Service.Revalue(c.UserContext())
	if err != nil {
		return handlers.WriteError(c, "revalue holdings", err)
	}
	return response.Success(c, "Holdings revalued", fiber.Map{"updated": n}, nil)
}
