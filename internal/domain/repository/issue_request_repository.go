package repository

import (
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
)

// RequestFilter acota listados de solicitudes según la visibilidad del rol.
type RequestFilter struct {
	RequesterID  string
	DepartmentID string
	Status       entity.RequestStatus
	Limit        int
	Offset       int
}

// IssueRequestRepository define el puerto de persistencia para
// StockIssueRequest y sus líneas.
type IssueRequestRepository interface {
	Create(req *entity.StockIssueRequest) error
	// GetByID devuelve la solicitud con sus líneas cargadas.
	GetByID(id string) (*entity.StockIssueRequest, error)
	GetByNumber(requestNo string) (*entity.StockIssueRequest, error)
	// GetByIDForUpdate bloquea la fila de la solicitud (SELECT FOR UPDATE)
	// para que el guard de estado y la transición sean atómicos.
	GetByIDForUpdate(id string) (*entity.StockIssueRequest, error)
	Update(req *entity.StockIssueRequest) error
	Delete(id string) error
	List(filter RequestFilter) ([]*entity.StockIssueRequest, error)
	// LastRequestNo devuelve el mayor request_no con el prefijo dado
	// ("" si no hay ninguno). La secuencia diaria se deriva de él.
	LastRequestNo(prefix string) (string, error)

	CreateLine(line *entity.StockIssueLine) error
	GetLine(lineID string) (*entity.StockIssueLine, error)
	UpdateLine(line *entity.StockIssueLine) error
	DeleteLine(lineID string) error
}
