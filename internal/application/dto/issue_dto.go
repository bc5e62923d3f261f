package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequestLine línea dentro de CreateRequestRequest.
type CreateRequestLine struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Remarks  string          `json:"remarks,omitempty"`
}

// CreateRequestRequest body para POST /api/requests.
// DepartmentID solo aplica para roles elevados sin departamento propio; para
// el resto se toma la afiliación del solicitante.
type CreateRequestRequest struct {
	LocationID   string              `json:"location_id"`
	DepartmentID string              `json:"department_id,omitempty"`
	Purpose      string              `json:"purpose"`
	Remarks      string              `json:"remarks,omitempty"`
	Lines        []CreateRequestLine `json:"lines"`
}

// AddLineRequest body para POST /api/requests/:id/lines.
type AddLineRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Remarks  string          `json:"remarks,omitempty"`
}

// UpdateLineRequest body para PUT /api/requests/:id/lines/:lineId.
type UpdateLineRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Remarks  *string         `json:"remarks,omitempty"`
}

// RejectRequestRequest body para POST /api/requests/:id/reject.
// Reason es obligatorio.
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

// IssueLineOverride cantidad a entregar por línea (opcional; por defecto se
// entrega lo solicitado).
type IssueLineOverride struct {
	LineID   string          `json:"line_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// IssueRequestRequest body para POST /api/requests/:id/issue.
type IssueRequestRequest struct {
	Lines []IssueLineOverride `json:"lines,omitempty"`
}

// RequestLineResponse representación de una línea.
type RequestLineResponse struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"item_id"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityIssued    decimal.Decimal `json:"quantity_issued"`
	Remarks           string          `json:"remarks,omitempty"`
}

// RequestResponse representación de una solicitud con sus líneas.
type RequestResponse struct {
	ID           string                `json:"id"`
	RequestNo    string                `json:"request_no"`
	RequesterID  string                `json:"requester_id"`
	DepartmentID string                `json:"department_id"`
	LocationID   string                `json:"location_id"`
	Purpose      string                `json:"purpose"`
	Remarks      string                `json:"remarks,omitempty"`
	Status       string                `json:"status"`
	ApprovedBy   *string               `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time            `json:"approved_at,omitempty"`
	IssuedBy     *string               `json:"issued_by,omitempty"`
	IssuedAt     *time.Time            `json:"issued_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Lines        []RequestLineResponse `json:"lines"`
}

// RequestListResponse listado paginado.
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Page     PageResponse      `json:"page"`
}
