package repository

// DashboardCounts agrupa los contadores del tablero.
type DashboardCounts struct {
	TotalUsers       int
	TotalDepartments int
	TotalItems       int
	TotalLocations   int
	PendingRequests  int
	ApprovedRequests int
	LowStockItems    int
}

// DashboardRepository define las consultas agregadas del tablero.
// DepartmentID / RequesterID vacíos = sin filtro (vista de rol elevado).
type DashboardRepository interface {
	Counts(departmentID, requesterID string) (*DashboardCounts, error)
}
