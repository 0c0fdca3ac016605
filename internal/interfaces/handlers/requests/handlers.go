package requests

import (
	reqsvc "investportal-backend/internal/application/requests"
	"investportal-backend/internal/interfaces/handlers"
	"investportal-backend/internal/middleware"
	"investportal-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers serves the investor request surface and the admin review surface.
type Handlers struct {
	Service         *reqsvc.Service
	DisplayCurrency string
}

// GET /api/v1/requests?status=Pending (admin)
func (h *Handlers) ListAll(c *fiber.Ctx) error {
	data, err := h.Service.ListEnriched(c.UserContext(), c.Query("status"), h.DisplayCurrency)
	if err != nil {
		return handlers.WriteError(c, "list requests", err)
	}
	return response.Success(c, "Requests fetched successfully", data, fiber.Map{"count": len(data)})
}

// GET /api/v1/users/:userId/requests
func (h *Handlers) ListForUser(c *fiber.Ctx) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	data, err := h.Service.ListForUser(c.UserContext(), userID)
	if err != nil {
		return handlers.WriteError(c, "list user requests", err)
	}
	return response.Success(c, "Requests fetched successfully", data, fiber.Map{"count": len(data)})
}

// POST /api/v1/users/:userId/requests -> 201
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	var body createBody
	if err := decode(c.Body(), &body); err != nil {
		return handlers.BadRequest(c, handlers.ErrInvalidBody.Error())
	}
	investmentID, err := body.investmentID()
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	d, err := body.draft()
	if err != nil {
		return handlers.WriteError(c, "create request", err)
	}
	req, err := h.Service.Create(c.UserContext(), userID, investmentID, d)
	if err != nil {
		return handlers.WriteError(c, "create request", err)
	}
	return response.SuccessCreated(c, "Investment request created", req, nil)
}

// PUT /api/v1/users/:userId/requests/:reqId
func (h *Handlers) Edit(c *fiber.Ctx) error {
	userID, requestID, err := userAndRequest(c)
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	var body editBody
	if err := decode(c.Body(), &body); err != nil {
		return handlers.BadRequest(c, handlers.ErrInvalidBody.Error())
	}
	d, err := body.draft()
	if err != nil {
		return handlers.WriteError(c, "edit request", err)
	}
	if err := h.Service.Edit(c.UserContext(), owner(c, userID), requestID, d); err != nil {
		return handlers.WriteError(c, "edit request", err)
	}
	return response.Success(c, "Investment request updated", fiber.Map{"request_id": requestID}, nil)
}

// DELETE /api/v1/users/:userId/requests/:reqId
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	userID, requestID, err := userAndRequest(c)
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	if err := h.Service.Cancel(c.UserContext(), owner(c, userID), requestID); err != nil {
		return handlers.WriteError(c, "cancel request", err)
	}
	return response.Success(c, "Investment request canceled", fiber.Map{"request_id": requestID}, nil)
}

// PATCH /api/v1/requests/:reqId {status} (admin)
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	requestID, err := pathID(c, "reqId")
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	var body statusBody
	if err := decode(c.Body(), &body); err != nil {
		return handlers.BadRequest(c, handlers.ErrInvalidBody.Error())
	}
	admin := middleware.GetActor(c)
	if err := h.Service.AdminStatusUpdate(c.UserContext(), requestID, admin.UserID, body.Status); err != nil {
		return handlers.WriteError(c, "update request status", err)
	}
	return response.Success(c, "Request status updated", fiber.Map{"request_id": requestID, "status": body.Status}, nil)
}

// PATCH /api/v1/admin/requests/:reqId/approve {units?, purchase_price?} (admin)
func (h *Handlers) Approve(c *fiber.Ctx) error {
	requestID, err := pathID(c, "reqId")
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	var body approveBody
	if err := decode(c.Body(), &body); err != nil {
		return handlers.BadRequest(c, handlers.ErrInvalidBody.Error())
	}
	admin := middleware.GetActor(c)
	holding, err := h.Service.Approve(c.UserContext(), requestID, admin.UserID, body.overrides())
	if err != nil {
		return handlers.WriteError(c, "approve request", err)
	}
	return response.Success(c, "Request approved", fiber.Map{"request_id": requestID, "holding": holding}, nil)
}

// PATCH /api/v1/admin/requests/:reqId/reject (admin)
func (h *Handlers) Reject(c *fiber.Ctx) error {
	requestID, err := pathID(c, "reqId")
	if err != nil {
		return handlers.BadRequest(c, err.Error())
	}
	admin := middleware.GetActor(c)
	if err := h.Service.Reject(c.UserContext(), requestID, admin.UserID); err != nil {
		return handlers.WriteError(c, "reject request", err)
	}
	return response.Success(c, "Request rejected", fiber.Map{"request_id": requestID}, nil)
}

func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// owner is the user a mutation may touch: the caller, and only when the path names them.
// Anyone else, admins included, resolves to uuid.Nil and so matches no request.
func owner(c *fiber.Ctx, pathUser uuid.UUID) uuid.UUID {
	actor := middleware.GetActor(c)
	if actor == nil || actor.UserID != pathUser {
		return uuid.Nil
	}
	return actor.UserID
}

func userAndRequest(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userID, err := pathID(c, "userId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	requestID, err := pathID(c, "reqId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userID, requestID, nil
}
