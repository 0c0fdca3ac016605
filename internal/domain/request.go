package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestType is the investor's intent for a request.
type RequestType string

const (
	RequestTypeAssign   RequestType = "assign"
	RequestTypeUnassign RequestType = "unassign"
)

// ParseRequestType returns ErrInvalidRequestType for anything but assign/unassign.
func ParseRequestType(s string) (RequestType, error) {
	switch RequestType(s) {
	case RequestTypeAssign, RequestTypeUnassign:
		return RequestType(s), nil
	}
	return "", ErrInvalidRequestType
}

// RequestStatus is the lifecycle state. Approved and Rejected are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// ParseRequestStatus accepts any of the three lifecycle states.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return RequestStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// ParseDecision accepts only the two states an admin can move a request into.
func ParseDecision(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case StatusApproved, StatusRejected:
		return RequestStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// InvestmentRequest is an investor's request to (un)assign an investment, pending admin review.
type InvestmentRequest struct {
	RequestID      uuid.UUID       `gorm:"column:request_id;type:uuid;primaryKey" json:"request_id"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	InvestmentID   uuid.UUID       `gorm:"column:investment_id;type:uuid;not null;index" json:"investment_id"`
	RequestType    RequestType     `gorm:"column:request_type;type:varchar(20);not null" json:"request_type"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(20,2);not null;default:0" json:"amount"`
	Notes          *string         `gorm:"column:notes;type:text" json:"notes"`
	Metadata       datatypes.JSON  `gorm:"column:metadata" json:"metadata"`
	Status         RequestStatus   `gorm:"column:status;type:varchar(20);not null;default:'Pending';index" json:"status"`
	HandledByAdmin *uuid.UUID      `gorm:"column:handled_by_admin;type:uuid" json:"handled_by_admin"`
	HandledAt      *time.Time      `gorm:"column:handled_at" json:"handled_at"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (InvestmentRequest) TableName() string {
	return "investment_requests"
}

func (r *InvestmentRequest) BeforeCreate(tx *gorm.DB) error {
	if r.RequestID == uuid.Nil {
		r.RequestID = uuid.New()
	}
	return nil
}
