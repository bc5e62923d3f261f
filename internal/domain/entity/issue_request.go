package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus es la enumeración cerrada de estados de una solicitud.
// Transiciones válidas:
//
//	draft → pending → approved → issued
//	pending → rejected
//	approved → rejected (anulación administrativa)
//	draft → (eliminada por su solicitante)
type RequestStatus string

const (
	StatusDraft    RequestStatus = "draft"
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
	StatusIssued   RequestStatus = "issued"
)

// Valid indica si el estado pertenece a la enumeración.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusIssued:
		return true
	}
	return false
}

// Terminal indica si ya no admite transiciones.
func (s RequestStatus) Terminal() bool {
	return s == StatusRejected || s == StatusIssued
}

// StockIssueRequest representa una solicitud de salida de stock con sus líneas.
type StockIssueRequest struct {
	ID           string
	RequestNo    string // REQ<YYYYMMDD><secuencia diaria de 3 dígitos>, único
	RequesterID  string
	DepartmentID string
	LocationID   string // bodega de donde se atiende la solicitud
	Purpose      string
	Remarks      string
	Status       RequestStatus
	ApprovedBy   *string
	ApprovedAt   *time.Time
	IssuedBy     *string
	IssuedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lines        []*StockIssueLine
}

// StockIssueLine es una línea artículo/cantidad dentro de una solicitud.
// QuantityIssued queda en cero hasta la entrega y nunca supera
// QuantityRequested.
type StockIssueLine struct {
	ID                string
	RequestID         string
	ItemID            string
	QuantityRequested decimal.Decimal // siempre positiva
	QuantityIssued    decimal.Decimal
	Remarks           string
}
