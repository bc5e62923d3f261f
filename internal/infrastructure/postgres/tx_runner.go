package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/almacen-ti/internal/application/issue"
	"github.com/tu-usuario/almacen-ti/internal/application/stock"
	"github.com/tu-usuario/almacen-ti/internal/application/usecase"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// Ensure TxRunner satisfies the application ports.
var _ issue.TxRunner = (*TxRunner)(nil)
var _ stock.EntryTxRunner = (*TxRunner)(nil)
var _ usecase.IdentityTxRunner = (*TxRunner)(nil)
var _ usecase.MasterTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del flujo de solicitudes y hace
// Commit o Rollback según el resultado de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(
	reqRepo repository.IssueRequestRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reqRepo := NewIssueRequestRepository(tx)
	stockRepo := NewStockRepository(tx)
	auditRepo := NewAuditRepository(tx)

	if err := fn(reqRepo, stockRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunEntry inicia una transacción con los repos de entradas de stock.
func (r *TxRunner) RunEntry(ctx context.Context, fn func(
	entryRepo repository.StockEntryRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entryRepo := NewStockEntryRepository(tx)
	stockRepo := NewStockRepository(tx)
	auditRepo := NewAuditRepository(tx)

	if err := fn(entryRepo, stockRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunMaster inicia una transacción con los repos de datos maestros
// (artículos, bodegas, empleados) y su auditoría.
func (r *TxRunner) RunMaster(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	empRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewItemRepository(tx)
	locationRepo := NewLocationRepository(tx)
	empRepo := NewEmployeeRepository(tx)
	auditRepo := NewAuditRepository(tx)

	if err := fn(itemRepo, locationRepo, empRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunIdentity inicia una transacción con los repos de usuarios y
// departamentos (reasignación de HOD).
func (r *TxRunner) RunIdentity(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userRepo := NewUserRepository(tx)
	deptRepo := NewDepartmentRepository(tx)
	auditRepo := NewAuditRepository(tx)

	if err := fn(userRepo, deptRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
