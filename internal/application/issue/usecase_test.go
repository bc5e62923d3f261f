package issue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-ti/internal/application/dto"
	"github.com/tu-usuario/almacen-ti/internal/domain"
	"github.com/tu-usuario/almacen-ti/internal/domain/entity"
	"github.com/tu-usuario/almacen-ti/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeStore es el estado compartido de los repos fake. El fakeTxRunner toma
// un snapshot antes de cada Run y lo restaura si la función falla, emulando
// el rollback de la transacción real.
type fakeStore struct {
	requests    map[string]*entity.StockIssueRequest
	balances    map[string]*entity.StockBalance
	audits      []*entity.AuditLog
	items       map[string]*entity.Item
	locations   map[string]*entity.Location
	departments map[string]*entity.Department

	// errores a inyectar en Create de solicitudes (se consumen en orden)
	createErrs []error
}

func balanceKey(itemID, locationID string) string {
	return itemID + "|" + locationID
}

func cloneRequest(req *entity.StockIssueRequest) *entity.StockIssueRequest {
	c := *req
	c.Lines = make([]*entity.StockIssueLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lc := *l
		c.Lines = append(c.Lines, &lc)
	}
	return &c
}

type fakeReqRepo struct{ s *fakeStore }

func (r *fakeReqRepo) Create(req *entity.StockIssueRequest) error {
	if len(r.s.createErrs) > 0 {
		err := r.s.createErrs[0]
		r.s.createErrs = r.s.createErrs[1:]
		return err
	}
	for _, existing := range r.s.requests {
		if existing.RequestNo == req.RequestNo {
			return fmt.Errorf("%w: número de solicitud %s", domain.ErrDuplicate, req.RequestNo)
		}
	}
	c := cloneRequest(req)
	c.Lines = nil
	r.s.requests[req.ID] = c
	return nil
}

func (r *fakeReqRepo) GetByID(id string) (*entity.StockIssueRequest, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

func (r *fakeReqRepo) GetByNumber(requestNo string) (*entity.StockIssueRequest, error) {
	for _, req := range r.s.requests {
		if req.RequestNo == requestNo {
			return cloneRequest(req), nil
		}
	}
	return nil, nil
}

func (r *fakeReqRepo) GetByIDForUpdate(id string) (*entity.StockIssueRequest, error) {
	return r.GetByID(id)
}

func (r *fakeReqRepo) Update(req *entity.StockIssueRequest) error {
	cur, ok := r.s.requests[req.ID]
	if !ok {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, req.ID)
	}
	c := *req
	c.Lines = cur.Lines // las líneas se mutan solo vía CreateLine/UpdateLine/DeleteLine
	r.s.requests[req.ID] = &c
	return nil
}

func (r *fakeReqRepo) Delete(id string) error {
	delete(r.s.requests, id)
	return nil
}

func (r *fakeReqRepo) List(filter repository.RequestFilter) ([]*entity.StockIssueRequest, error) {
	var out []*entity.StockIssueRequest
	for _, req := range r.s.requests {
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		if filter.DepartmentID != "" && req.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	return out, nil
}

func (r *fakeReqRepo) LastRequestNo(prefix string) (string, error) {
	// mismo orden que el repo real: longitud primero, lexicográfico después
	last := ""
	for _, req := range r.s.requests {
		if len(req.RequestNo) < len(prefix) || req.RequestNo[:len(prefix)] != prefix {
			continue
		}
		if len(req.RequestNo) > len(last) || (len(req.RequestNo) == len(last) && req.RequestNo > last) {
			last = req.RequestNo
		}
	}
	return last, nil
}

func (r *fakeReqRepo) CreateLine(line *entity.StockIssueLine) error {
	req, ok := r.s.requests[line.RequestID]
	if !ok {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, line.RequestID)
	}
	lc := *line
	req.Lines = append(req.Lines, &lc)
	return nil
}

func (r *fakeReqRepo) GetLine(lineID string) (*entity.StockIssueLine, error) {
	for _, req := range r.s.requests {
		for _, l := range req.Lines {
			if l.ID == lineID {
				lc := *l
				return &lc, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeReqRepo) UpdateLine(line *entity.StockIssueLine) error {
	req, ok := r.s.requests[line.RequestID]
	if !ok {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, line.RequestID)
	}
	for i, l := range req.Lines {
		if l.ID == line.ID {
			lc := *line
			req.Lines[i] = &lc
			return nil
		}
	}
	return fmt.Errorf("%w: línea %s", domain.ErrNotFound, line.ID)
}

func (r *fakeReqRepo) DeleteLine(lineID string) error {
	for _, req := range r.s.requests {
		for i, l := range req.Lines {
			if l.ID == lineID {
				req.Lines = append(req.Lines[:i], req.Lines[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

type fakeStockRepo struct{ s *fakeStore }

func (r *fakeStockRepo) Get(itemID, locationID string) (*entity.StockBalance, error) {
	if b, ok := r.s.balances[balanceKey(itemID, locationID)]; ok {
		c := *b
		return &c, nil
	}
	// igual que el repo real: fila en cero para pares desconocidos
	return &entity.StockBalance{ItemID: itemID, LocationID: locationID}, nil
}

func (r *fakeStockRepo) GetForUpdate(itemID, locationID string) (*entity.StockBalance, error) {
	return r.Get(itemID, locationID)
}

func (r *fakeStockRepo) Upsert(balance *entity.StockBalance) error {
	c := *balance
	r.s.balances[balanceKey(balance.ItemID, balance.LocationID)] = &c
	return nil
}

func (r *fakeStockRepo) ListBalances(repository.BalanceFilter) ([]*entity.StockBalance, error) {
	return nil, nil
}

func (r *fakeStockRepo) ListLowStock([]string) ([]*repository.LowStockRow, error) {
	return nil, nil
}

type fakeAuditRepo struct{ s *fakeStore }

func (r *fakeAuditRepo) Create(log *entity.AuditLog) error {
	r.s.audits = append(r.s.audits, log)
	return nil
}

func (r *fakeAuditRepo) List(limit, offset int) ([]*entity.AuditLog, error) {
	return r.s.audits, nil
}

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) Create(item *entity.Item) error { r.s.items[item.ID] = item; return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.s.items[id], nil
}
func (r *fakeItemRepo) GetByCode(code string) (*entity.Item, error) {
	for _, it := range r.s.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, nil
}
func (r *fakeItemRepo) Update(item *entity.Item) error               { return nil }
func (r *fakeItemRepo) List(limit, offset int) ([]*entity.Item, error) { return nil, nil }

type fakeLocationRepo struct{ s *fakeStore }

func (r *fakeLocationRepo) Create(loc *entity.Location) error { r.s.locations[loc.ID] = loc; return nil }
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}
func (r *fakeLocationRepo) Update(loc *entity.Location) error                { return nil }
func (r *fakeLocationRepo) List(limit, offset int) ([]*entity.Location, error) { return nil, nil }
func (r *fakeLocationRepo) ListByIDs(ids []string) ([]*entity.Location, error) { return nil, nil }

type fakeDeptRepo struct{ s *fakeStore }

func (r *fakeDeptRepo) Create(dept *entity.Department) error { r.s.departments[dept.ID] = dept; return nil }
func (r *fakeDeptRepo) GetByID(id string) (*entity.Department, error) {
	return r.s.departments[id], nil
}
func (r *fakeDeptRepo) GetByCode(code string) (*entity.Department, error)        { return nil, nil }
func (r *fakeDeptRepo) Update(dept *entity.Department) error                     { return nil }
func (r *fakeDeptRepo) List(limit, offset int) ([]*entity.Department, error)     { return nil, nil }
func (r *fakeDeptRepo) SetHOD(deptID string, hodID *string) error                { return nil }

// fakeTxRunner emula atomicidad: snapshot antes de Run, restore si falla.
type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	reqRepo repository.IssueRequestRepository,
	stockRepo repository.StockRepository,
	auditRepo repository.AuditRepository,
) error) error {
	snapReq := make(map[string]*entity.StockIssueRequest, len(t.s.requests))
	for k, v := range t.s.requests {
		snapReq[k] = cloneRequest(v)
	}
	snapBal := make(map[string]*entity.StockBalance, len(t.s.balances))
	for k, v := range t.s.balances {
		c := *v
		snapBal[k] = &c
	}
	auditLen := len(t.s.audits)

	err := fn(&fakeReqRepo{t.s}, &fakeStockRepo{t.s}, &fakeAuditRepo{t.s})
	if err != nil {
		t.s.requests = snapReq
		t.s.balances = snapBal
		t.s.audits = t.s.audits[:auditLen]
	}
	return err
}

type fakePDFGen struct{ calls int }

func (g *fakePDFGen) IssueNotePDF(req *entity.StockIssueRequest, lines []NoteLine) ([]byte, error) {
	g.calls++
	return []byte("%PDF-fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store  *fakeStore
	uc     *UseCase
	pdfGen *fakePDFGen

	superadmin *entity.User
	manager    *entity.User
	hod        *entity.User
	hodOther   *entity.User
	employee   *entity.User
}

func newFixture() *fixture {
	store := &fakeStore{
		requests:    make(map[string]*entity.StockIssueRequest),
		balances:    make(map[string]*entity.StockBalance),
		items:       make(map[string]*entity.Item),
		locations:   make(map[string]*entity.Location),
		departments: make(map[string]*entity.Department),
	}

	hodID := "u-hod"
	deptID := "d-ti"
	store.departments[deptID] = &entity.Department{ID: deptID, Code: "TI", Name: "Tecnología", HODID: &hodID, IsActive: true}
	store.departments["d-rrhh"] = &entity.Department{ID: "d-rrhh", Code: "RRHH", Name: "Recursos Humanos", IsActive: true}
	store.locations["l-central"] = &entity.Location{ID: "l-central", Code: "BOD-01", Office: "Sede Central", Room: "Depósito 1", IsActive: true}
	store.locations["l-norte"] = &entity.Location{ID: "l-norte", Code: "BOD-02", Office: "Sucursal Norte", Room: "Depósito", IsActive: true}
	store.items["it-laptop"] = &entity.Item{ID: "it-laptop", Code: "LAP-001", Name: "Laptop Dell Latitude", IsActive: true}
	store.items["it-mouse"] = &entity.Item{ID: "it-mouse", Code: "MOU-001", Name: "Mouse inalámbrico", IsActive: true}
	store.balances[balanceKey("it-laptop", "l-central")] = &entity.StockBalance{
		ItemID: "it-laptop", LocationID: "l-central", Quantity: decimal.NewFromInt(10),
	}
	store.balances[balanceKey("it-mouse", "l-central")] = &entity.StockBalance{
		ItemID: "it-mouse", LocationID: "l-central", Quantity: decimal.NewFromInt(5),
	}

	pdfGen := &fakePDFGen{}
	uc := NewUseCase(&fakeTxRunner{store}, &fakeReqRepo{store}, &fakeItemRepo{store},
		&fakeLocationRepo{store}, &fakeDeptRepo{store}, pdfGen)

	return &fixture{
		store:  store,
		uc:     uc,
		pdfGen: pdfGen,
		superadmin: &entity.User{ID: "u-admin", Role: entity.RoleSuperadmin, IsActive: true},
		manager:    &entity.User{ID: "u-manager", Role: entity.RoleManager, IsActive: true},
		hod: &entity.User{
			ID: hodID, Role: entity.RoleHOD, DepartmentID: &deptID, IsActive: true,
			LocationIDs: []string{"l-central"},
		},
		hodOther: &entity.User{
			ID: "u-hod2", Role: entity.RoleHOD, DepartmentID: strPtr("d-rrhh"), IsActive: true,
			LocationIDs: []string{"l-central"},
		},
		employee: &entity.User{
			ID: "u-emp", Role: entity.RoleEmployee, DepartmentID: &deptID, IsActive: true,
			LocationIDs: []string{"l-central"},
		},
	}
}

func strPtr(s string) *string { return &s }

// createDraft crea una solicitud en borrador del empleado con las líneas dadas.
func createDraft(t *testing.T, f *fixture, lines ...dto.CreateRequestLine) *dto.RequestResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), f.employee, dto.CreateRequestRequest{
		LocationID: "l-central",
		Purpose:    "Equipamiento puesto nuevo",
		Lines:      lines,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.StatusDraft), resp.Status)
	return resp
}

func (f *fixture) balance(itemID, locationID string) decimal.Decimal {
	if b, ok := f.store.balances[balanceKey(itemID, locationID)]; ok {
		return b.Quantity
	}
	return decimal.Zero
}

func (f *fixture) lastAudit() *entity.AuditLog {
	if len(f.store.audits) == 0 {
		return nil
	}
	return f.store.audits[len(f.store.audits)-1]
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EmpleadoCreaBorrador(t *testing.T) {
	f := newFixture()

	resp := createDraft(t, f,
		dto.CreateRequestLine{ItemID: "it-laptop", Quantity: decimal.NewFromInt(2)},
		dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(3)},
	)

	assert.Equal(t, "d-ti", resp.DepartmentID, "debe tomar el departamento del solicitante")
	assert.Len(t, resp.Lines, 2)
	assert.Equal(t, dailyPrefix(time.Now())+"001", resp.RequestNo,
		"la primera solicitud del día debe llevar secuencia 001")
	assert.Nil(t, resp.ApprovedBy, "un borrador de empleado no queda aprobado")

	last := f.lastAudit()
	require.NotNil(t, last)
	assert.Equal(t, entity.AuditCreate, last.Action)
	assert.Equal(t, f.employee.ID, last.UserID)
}

func TestCreate_NumeracionSecuencialDiaria(t *testing.T) {
	f := newFixture()
	prefix := dailyPrefix(time.Now())

	first := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	second := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	assert.Equal(t, prefix+"001", first.RequestNo)
	assert.Equal(t, prefix+"002", second.RequestNo)
}

func TestCreate_ReintentaAnteNumeroDuplicado(t *testing.T) {
	f := newFixture()
	// Primer intento choca con el índice único (creación concurrente); el
	// caso de uso debe reintentar la transacción completa.
	f.store.createErrs = []error{fmt.Errorf("%w: número de solicitud", domain.ErrDuplicate)}

	resp := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	assert.Equal(t, dailyPrefix(time.Now())+"001", resp.RequestNo)
	assert.Len(t, f.store.requests, 1, "el intento fallido no debe dejar residuos")
}

func TestCreate_AgotaReintentos(t *testing.T) {
	f := newFixture()
	dup := fmt.Errorf("%w: número de solicitud", domain.ErrDuplicate)
	f.store.createErrs = []error{dup, dup, dup}

	_, err := f.uc.Create(context.Background(), f.employee, dto.CreateRequestRequest{
		LocationID: "l-central",
		Purpose:    "Prueba",
		Lines:      []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, f.store.requests)
}

func TestCreate_RolElevadoAutoAprueba(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Create(context.Background(), f.manager, dto.CreateRequestRequest{
		LocationID:   "l-central",
		DepartmentID: "d-ti",
		Purpose:      "Reposición de insumos",
		Lines:        []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.StatusApproved), resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, f.manager.ID, *resp.ApprovedBy)
	assert.NotNil(t, resp.ApprovedAt)
}

func TestCreate_HODDePropioDepartamentoAutoAprueba(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Create(context.Background(), f.hod, dto.CreateRequestRequest{
		LocationID: "l-central",
		Purpose:    "Equipos para el equipo",
		Lines:      []dto.CreateRequestLine{{ItemID: "it-laptop", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.StatusApproved), resp.Status)
}

func TestCreate_SinAccesoALaBodega(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), f.employee, dto.CreateRequestRequest{
		LocationID: "l-norte", // el empleado solo tiene l-central asignada
		Purpose:    "Prueba",
		Lines:      []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_SinAfiliacionNoPuedeNombrarDepartamento(t *testing.T) {
	f := newFixture()
	// empleado sin departamento asignado: nombrar uno en el body no le abre
	// la puerta
	orphan := &entity.User{
		ID: "u-huerfano", Role: entity.RoleEmployee, IsActive: true,
		LocationIDs: []string{"l-central"},
	}

	_, err := f.uc.Create(context.Background(), orphan, dto.CreateRequestRequest{
		LocationID:   "l-central",
		DepartmentID: "d-ti",
		Purpose:      "Prueba",
		Lines:        []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.store.requests)
}

func TestCreate_EmpleadoAfiliadoIgnoraDepartamentoDelBody(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Create(context.Background(), f.employee, dto.CreateRequestRequest{
		LocationID:   "l-central",
		DepartmentID: "d-rrhh", // distinto a su afiliación; no debe prevalecer
		Purpose:      "Prueba",
		Lines:        []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "d-ti", resp.DepartmentID,
		"la solicitud queda bajo el departamento del solicitante, no el del body")
}

func TestNextRequestNo_SecuenciaSuperaLosTresDigitos(t *testing.T) {
	f := newFixture()
	now := time.Now()
	prefix := dailyPrefix(now)

	f.store.requests["r-999"] = &entity.StockIssueRequest{ID: "r-999", RequestNo: prefix + "999"}
	no, err := nextRequestNo(&fakeReqRepo{f.store}, now)
	require.NoError(t, err)
	assert.Equal(t, prefix+"1000", no, "después de 999 la secuencia sigue en 1000")

	f.store.requests["r-1000"] = &entity.StockIssueRequest{ID: "r-1000", RequestNo: prefix + "1000"}
	no, err = nextRequestNo(&fakeReqRepo{f.store}, now)
	require.NoError(t, err)
	assert.Equal(t, prefix+"1001", no,
		"un número de cuatro dígitos gana a los de tres aunque ordene antes lexicográficamente")
}

func TestCreate_CantidadNoPositivaRechazada(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(context.Background(), f.employee, dto.CreateRequestRequest{
		LocationID: "l-central",
		Purpose:    "Prueba",
		Lines:      []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto_BorradorHastaEntrega(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft := createDraft(t, f,
		dto.CreateRequestLine{ItemID: "it-laptop", Quantity: decimal.NewFromInt(3)},
		dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(2)},
	)

	// draft → pending (solicitante)
	submitted, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusPending), submitted.Status)
	assert.Equal(t, entity.AuditSubmit, f.lastAudit().Action)

	// pending → approved (HOD del departamento)
	approved, err := f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusApproved), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.hod.ID, *approved.ApprovedBy)

	// approved → issued (rol elevado) con débito de existencias
	issued, err := f.uc.Issue(ctx, f.manager, draft.ID, dto.IssueRequestRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusIssued), issued.Status)
	require.NotNil(t, issued.IssuedBy)
	assert.Equal(t, f.manager.ID, *issued.IssuedBy)
	for _, l := range issued.Lines {
		assert.True(t, l.QuantityIssued.Equal(l.QuantityRequested),
			"sin override se entrega exactamente lo solicitado")
	}

	assert.True(t, f.balance("it-laptop", "l-central").Equal(decimal.NewFromInt(7)),
		"laptop: 10 - 3 = 7")
	assert.True(t, f.balance("it-mouse", "l-central").Equal(decimal.NewFromInt(3)),
		"mouse: 5 - 2 = 3")
	assert.Equal(t, entity.AuditIssue, f.lastAudit().Action)
}

func TestSubmit_SinLineasRechazado(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f) // sin líneas

	_, err := f.uc.Submit(context.Background(), f.employee, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_SoloElSolicitante(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	_, err := f.uc.Submit(context.Background(), f.hod, draft.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación y rechazo
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_EmpleadoNoPuedeAprobar(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(context.Background(), f.employee, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), f.employee, draft.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_HODDeOtroDepartamentoNoPuede(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(context.Background(), f.employee, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), f.hodOther, draft.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_BorradorNoSePuedeAprobar(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	_, err := f.uc.Approve(context.Background(), f.superadmin, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReject_RequiereMotivo(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(context.Background(), f.employee, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Reject(context.Background(), f.hod, draft.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReject_AnexaMotivoALasObservaciones(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(context.Background(), f.employee, draft.ID)
	require.NoError(t, err)

	rejected, err := f.uc.Reject(context.Background(), f.hod, draft.ID, "Sin presupuesto este mes")
	require.NoError(t, err)

	assert.Equal(t, string(entity.StatusRejected), rejected.Status)
	assert.Contains(t, rejected.Remarks, "Motivo de rechazo: Sin presupuesto este mes")
	assert.Equal(t, entity.AuditReject, f.lastAudit().Action)
}

// Anulación administrativa: una solicitud ya aprobada también puede rechazarse
// mientras no haya sido entregada.
func TestReject_AprobadaSePuedeAnular(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.superadmin, draft.ID)
	require.NoError(t, err)

	rejected, err := f.uc.Reject(ctx, f.superadmin, draft.ID, "Compra directa en su lugar")
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusRejected), rejected.Status)
}

func TestReject_EntregadaNoSePuedeRechazar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Issue(ctx, f.superadmin, draft.ID, dto.IssueRequestRequest{})
	require.NoError(t, err)

	_, err = f.uc.Reject(ctx, f.superadmin, draft.ID, "Tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entrega
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_SoloRolesElevados(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Issue(ctx, f.hod, draft.ID, dto.IssueRequestRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestIssue_StockInsuficienteNoDebitaNada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	// laptop alcanza (2 ≤ 10) pero mouse no (9 > 5): no debe descontarse nada
	draft := createDraft(t, f,
		dto.CreateRequestLine{ItemID: "it-laptop", Quantity: decimal.NewFromInt(2)},
		dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(9)},
	)
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Issue(ctx, f.manager, draft.ID, dto.IssueRequestRequest{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.balance("it-laptop", "l-central").Equal(decimal.NewFromInt(10)),
		"el saldo de laptop no debe cambiar")
	assert.True(t, f.balance("it-mouse", "l-central").Equal(decimal.NewFromInt(5)),
		"el saldo de mouse no debe cambiar")

	// la solicitud sigue aprobada y reintentable
	got, err := f.uc.Get(f.manager, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusApproved), got.Status)
}

func TestIssue_OverrideEntregaParcial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-laptop", Quantity: decimal.NewFromInt(4)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)

	lineID := draft.Lines[0].ID
	issued, err := f.uc.Issue(ctx, f.manager, draft.ID, dto.IssueRequestRequest{
		Lines: []dto.IssueLineOverride{{LineID: lineID, Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)

	assert.True(t, issued.Lines[0].QuantityIssued.Equal(decimal.NewFromInt(3)))
	assert.True(t, f.balance("it-laptop", "l-central").Equal(decimal.NewFromInt(7)),
		"se debita la cantidad del override, no la solicitada")
}

func TestIssue_OverrideMayorQueSolicitadoRechazado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-laptop", Quantity: decimal.NewFromInt(2)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Issue(ctx, f.manager, draft.ID, dto.IssueRequestRequest{
		Lines: []dto.IssueLineOverride{{LineID: draft.Lines[0].ID, Quantity: decimal.NewFromInt(5)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssue_OverrideDeLineaAjenaRechazado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-laptop", Quantity: decimal.NewFromInt(2)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Issue(ctx, f.manager, draft.ID, dto.IssueRequestRequest{
		Lines: []dto.IssueLineOverride{{LineID: "no-existe", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIssue_SolicitudPendienteNoSeEntrega(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.Issue(ctx, f.manager, draft.ID, dto.IssueRequestRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas (solo borrador, solo el solicitante)
// ──────────────────────────────────────────────────────────────────────────────

func TestAddLine_SoloEnBorrador(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)

	_, err = f.uc.AddLine(ctx, f.employee, draft.ID, dto.AddLineRequest{
		ItemID: "it-laptop", Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAddLine_OtroUsuarioNoPuede(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	_, err := f.uc.AddLine(context.Background(), f.superadmin, draft.ID, dto.AddLineRequest{
		ItemID: "it-laptop", Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateLine_CambiaCantidad(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	updated, err := f.uc.UpdateLine(context.Background(), f.employee, draft.ID, draft.Lines[0].ID,
		dto.UpdateLineRequest{Quantity: decimal.NewFromInt(4)})
	require.NoError(t, err)

	assert.True(t, updated.Lines[0].QuantityRequested.Equal(decimal.NewFromInt(4)))
}

func TestRemoveLine_EliminaLinea(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f,
		dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)},
		dto.CreateRequestLine{ItemID: "it-laptop", Quantity: decimal.NewFromInt(1)},
	)

	updated, err := f.uc.RemoveLine(context.Background(), f.employee, draft.ID, draft.Lines[0].ID)
	require.NoError(t, err)

	require.Len(t, updated.Lines, 1)
	assert.Equal(t, "it-laptop", updated.Lines[0].ItemID)
}

func TestDelete_SoloBorradorDelSolicitante(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	require.NoError(t, f.uc.Delete(ctx, f.employee, draft.ID))
	assert.Empty(t, f.store.requests)

	// un pending ya no se puede eliminar
	other := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Submit(ctx, f.employee, other.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.employee, other.ID), domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_PorNumeroDeSolicitud(t *testing.T) {
	f := newFixture()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})

	got, err := f.uc.Get(f.employee, draft.RequestNo)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestGet_EmpleadoNoVeSolicitudesAjenas(t *testing.T) {
	f := newFixture()
	resp, err := f.uc.Create(context.Background(), f.hod, dto.CreateRequestRequest{
		LocationID: "l-central",
		Purpose:    "Material del jefe",
		Lines:      []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	// mismo departamento, pero la solicitud no es suya
	otherEmp := &entity.User{ID: "u-emp2", Role: entity.RoleEmployee, DepartmentID: strPtr("d-rrhh"), IsActive: true}
	_, err = f.uc.Get(otherEmp, resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_VisibilidadPorRol(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// solicitud del empleado (dept TI) y solicitud del HOD de RRHH
	createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)})
	_, err := f.uc.Create(ctx, f.hodOther, dto.CreateRequestRequest{
		LocationID: "l-central",
		Purpose:    "Material RRHH",
		Lines:      []dto.CreateRequestLine{{ItemID: "it-mouse", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	// empleado: solo la propia
	mine, err := f.uc.List(f.employee, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, mine.Requests, 1)
	assert.Equal(t, f.employee.ID, mine.Requests[0].RequesterID)

	// HOD de TI: las de su departamento
	dept, err := f.uc.List(f.hod, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, dept.Requests, 1)
	assert.Equal(t, "d-ti", dept.Requests[0].DepartmentID)

	// manager: todas
	all, err := f.uc.List(f.manager, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all.Requests, 2)
}

func TestList_FiltroPorEstadoInvalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.List(f.manager, "cancelada", 50, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Acta de entrega
// ──────────────────────────────────────────────────────────────────────────────

func TestNotePDF_SoloSolicitudesEntregadas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := createDraft(t, f, dto.CreateRequestLine{ItemID: "it-mouse", Quantity: decimal.NewFromInt(2)})

	_, err := f.uc.NotePDF(f.employee, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.Submit(ctx, f.employee, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.hod, draft.ID)
	require.NoError(t, err)
	_, err = f.uc.Issue(ctx, f.superadmin, draft.ID, dto.IssueRequestRequest{})
	require.NoError(t, err)

	pdf, err := f.uc.NotePDF(f.employee, draft.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, f.pdfGen.calls)
}
