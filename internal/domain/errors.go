package domain

import "errors"

var (
	ErrInvalidRequestType           = errors.New("Invalid request type")
	ErrInvalidAmount                = errors.New("Amount must be greater than 0")
	ErrInvalidStatus                = errors.New("Invalid status")
	ErrInvalidPrice                 = errors.New("Investment price must be greater than 0")
	ErrInvalidOverride              = errors.New("Units must be >= 0 and purchase price must be > 0")
	ErrValueOutOfRange              = errors.New("Holding value is out of range")
	ErrRequestNotFound              = errors.New("Request not found or already handled")
	ErrRequestNotFoundOrNotEditable = errors.New("Request not found or not editable")
	ErrInvestmentNotFound           = errors.New("Investment not found")
	ErrHoldingNotFound              = errors.New("Holding not found")
)
