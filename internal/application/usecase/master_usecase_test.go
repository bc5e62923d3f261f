package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// masterState es el estado compartido de los repos fake de datos maestros.
// auditErr simula una auditoría que falla dentro de la transacción; el runner
// restaura el snapshot igual que el Rollback real.
type masterState struct {
	items     map[string]*entity.Item
	locations map[string]*entity.Location
	employees map[string]*entity.Employee
	audits    []*entity.AuditLog
	auditErr  error
}

func newMasterState() *masterState {
	return &masterState{
		items:     make(map[string]*entity.Item),
		locations: make(map[string]*entity.Location),
		employees: make(map[string]*entity.Employee),
	}
}

type mItemRepo struct{ s *masterState }

func (r *mItemRepo) Create(item *entity.Item) error {
	c := *item
	r.s.items[item.ID] = &c
	return nil
}
func (r *mItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	c := *it
	return &c, nil
}
func (r *mItemRepo) GetByCode(code string) (*entity.Item, error) {
	for _, it := range r.s.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, nil
}
func (r *mItemRepo) Update(item *entity.Item) error {
	c := *item
	r.s.items[item.ID] = &c
	return nil
}
func (r *mItemRepo) List(limit, offset int) ([]*entity.Item, error) { return nil, nil }

type mLocationRepo struct{ s *masterState }

func (r *mLocationRepo) Create(loc *entity.Location) error {
	c := *loc
	r.s.locations[loc.ID] = &c
	return nil
}
func (r *mLocationRepo) GetByID(id string) (*entity.Location, error) {
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	c := *loc
	return &c, nil
}
func (r *mLocationRepo) Update(loc *entity.Location) error {
	c := *loc
	r.s.locations[loc.ID] = &c
	return nil
}
func (r *mLocationRepo) List(limit, offset int) ([]*entity.Location, error) { return nil, nil }
func (r *mLocationRepo) ListByIDs(ids []string) ([]*entity.Location, error) { return nil, nil }

type mEmployeeRepo struct{ s *masterState }

func (r *mEmployeeRepo) Create(emp *entity.Employee) error {
	c := *emp
	r.s.employees[emp.ID] = &c
	return nil
}
func (r *mEmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	emp, ok := r.s.employees[id]
	if !ok {
		return nil, nil
	}
	c := *emp
	return &c, nil
}
func (r *mEmployeeRepo) Update(emp *entity.Employee) error {
	c := *emp
	r.s.employees[emp.ID] = &c
	return nil
}
func (r *mEmployeeRepo) List(departmentID string, limit, offset int) ([]*entity.Employee, error) {
	return nil, nil
}
func (r *mEmployeeRepo) Delete(id string) error {
	delete(r.s.employees, id)
	return nil
}

type mAuditRepo struct{ s *masterState }

func (r *mAuditRepo) Create(log *entity.AuditLog) error {
	if r.s.auditErr != nil {
		return r.s.auditErr
	}
	r.s.audits = append(r.s.audits, log)
	return nil
}
func (r *mAuditRepo) List(limit, offset int) ([]*entity.AuditLog, error) { return r.s.audits, nil }

type mDeptRepo struct{}

func (mDeptRepo) Create(dept *entity.Department) error                 { return nil }
func (mDeptRepo) GetByID(id string) (*entity.Department, error)        { return nil, nil }
func (mDeptRepo) GetByCode(code string) (*entity.Department, error)    { return nil, nil }
func (mDeptRepo) Update(dept *entity.Department) error                 { return nil }
func (mDeptRepo) List(limit, offset int) ([]*entity.Department, error) { return nil, nil }
func (mDeptRepo) SetHOD(deptID string, hodID *string) error            { return nil }

type mUserRepo struct{}

func (mUserRepo) Create(user *entity.User) error                      { return nil }
func (mUserRepo) GetByID(id string) (*entity.User, error)             { return nil, nil }
func (mUserRepo) GetByUsername(username string) (*entity.User, error) { return nil, nil }
func (mUserRepo) GetByEmail(email string) (*entity.User, error)       { return nil, nil }
func (mUserRepo) Update(user *entity.User) error                      { return nil }
func (mUserRepo) List(limit, offset int) ([]*entity.User, error)      { return nil, nil }
func (mUserRepo) ListByRole(role entity.Role) ([]*entity.User, error) { return nil, nil }
func (mUserRepo) SetLocations(userID string, locationIDs []string) error {
	return nil
}

// mMasterTxRunner emula la atomicidad: snapshot antes de la función, restore
// si falla.
type mMasterTxRunner struct{ s *masterState }

func (t *mMasterTxRunner) RunMaster(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	empRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
) error) error {
	snapItems := make(map[string]*entity.Item, len(t.s.items))
	for k, v := range t.s.items {
		c := *v
		snapItems[k] = &c
	}
	snapLocs := make(map[string]*entity.Location, len(t.s.locations))
	for k, v := range t.s.locations {
		c := *v
		snapLocs[k] = &c
	}
	snapEmps := make(map[string]*entity.Employee, len(t.s.employees))
	for k, v := range t.s.employees {
		c := *v
		snapEmps[k] = &c
	}
	auditLen := len(t.s.audits)

	err := fn(&mItemRepo{t.s}, &mLocationRepo{t.s}, &mEmployeeRepo{t.s}, &mAuditRepo{t.s})
	if err != nil {
		t.s.items = snapItems
		t.s.locations = snapLocs
		t.s.employees = snapEmps
		t.s.audits = t.s.audits[:auditLen]
	}
	return err
}

var masterAdmin = &entity.User{ID: "u-admin", Role: entity.RoleSuperadmin, IsActive: true}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría en la misma transacción que la mutación
// ──────────────────────────────────────────────────────────────────────────────

func TestItemCreate_AuditoriaEnLaMismaTransaccion(t *testing.T) {
	s := newMasterState()
	uc := NewItemUseCase(&mMasterTxRunner{s}, &mItemRepo{s})

	resp, err := uc.Create(context.Background(), masterAdmin, dto.CreateItemRequest{
		Code: "lap-001", Name: "Laptop Dell", LowStockThreshold: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "LAP-001", resp.Code, "el código se normaliza a mayúsculas")
	require.Len(t, s.audits, 1)
	assert.Equal(t, "Item", s.audits[0].EntityType)
	assert.Equal(t, entity.AuditCreate, s.audits[0].Action)
}

func TestItemCreate_FalloDeAuditoriaRevierteLaMutacion(t *testing.T) {
	s := newMasterState()
	s.auditErr = assert.AnError
	uc := NewItemUseCase(&mMasterTxRunner{s}, &mItemRepo{s})

	_, err := uc.Create(context.Background(), masterAdmin, dto.CreateItemRequest{
		Code: "LAP-001", Name: "Laptop Dell",
	})
	require.Error(t, err)

	assert.Empty(t, s.items, "sin auditoría no hay artículo: la transacción se revierte completa")
	assert.Empty(t, s.audits)
}

func TestLocationUpdate_FalloDeAuditoriaRevierteLaMutacion(t *testing.T) {
	s := newMasterState()
	s.locations["l-central"] = &entity.Location{
		ID: "l-central", Code: "BOD-01", Office: "Sede Central", IsActive: true,
	}
	s.auditErr = assert.AnError
	uc := NewLocationUseCase(&mMasterTxRunner{s}, &mLocationRepo{s})

	office := "Sede Nueva"
	_, err := uc.Update(context.Background(), masterAdmin, "l-central", dto.UpdateLocationRequest{
		Office: &office,
	})
	require.Error(t, err)

	assert.Equal(t, "Sede Central", s.locations["l-central"].Office,
		"la bodega conserva sus datos cuando la auditoría falla")
}

func TestEmployeeDelete_FalloDeAuditoriaConservaElRegistro(t *testing.T) {
	s := newMasterState()
	s.employees["e1"] = &entity.Employee{ID: "e1", EmpID: "F-100", Name: "Ana Pérez", IsActive: true}
	s.auditErr = assert.AnError
	uc := NewEmployeeUseCase(&mMasterTxRunner{s}, &mEmployeeRepo{s}, mDeptRepo{}, mUserRepo{})

	err := uc.Delete(context.Background(), masterAdmin, "e1")
	require.Error(t, err)

	assert.Contains(t, s.employees, "e1", "el empleado sigue registrado tras el rollback")
}

func TestEmployeeCreate_RegistraAuditoria(t *testing.T) {
	s := newMasterState()
	uc := NewEmployeeUseCase(&mMasterTxRunner{s}, &mEmployeeRepo{s}, mDeptRepo{}, mUserRepo{})

	resp, err := uc.Create(context.Background(), masterAdmin, dto.CreateEmployeeRequest{
		EmpID: "F-101", Name: "Luis Soto",
	})
	require.NoError(t, err)

	assert.Contains(t, s.employees, resp.ID)
	require.Len(t, s.audits, 1)
	assert.Equal(t, "Employee", s.audits[0].EntityType)
}
