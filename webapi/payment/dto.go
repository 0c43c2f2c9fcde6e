package payment

import "github.com/laokitchen/payflow/pkg/domain/payment"

// InitiateRequest is the body of POST /payments.
type InitiateRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Category string  `json:"category" validate:"omitempty,max=64"`
}

// RedirectedRequest reports the outcome of the banking-app hand-off.
type RedirectedRequest struct {
	Opened   *bool  `json:"opened" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,oneof=ios android"`
}

// FlowDTO is the wire representation of a payment flow.
type FlowDTO struct {
	TransactionID string         `json:"transactionId"`
	State         payment.State  `json:"state"`
	RedirectURL   string         `json:"redirectUrl,omitempty"`
	StoreURL      string         `json:"storeUrl,omitempty"`
	Status        payment.Status `json:"status,omitempty"`
	Amount        float64        `json:"amount,omitempty"`
	Currency      string         `json:"currency,omitempty"`
	Recipient     string         `json:"recipient,omitempty"`
	FinishedAt    string         `json:"finishedAt,omitempty"`
}
