package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleSuperadmin, RoleManager, RoleHOD, RoleEmployee} {
		assert.True(t, r.Valid(), "rol %s debe ser válido", r)
	}
	assert.False(t, Role("admin").Valid(), "roles fuera de la enumeración se rechazan")
	assert.False(t, Role("").Valid())
}

func TestRole_Elevated(t *testing.T) {
	assert.True(t, RoleSuperadmin.Elevated())
	assert.True(t, RoleManager.Elevated())
	assert.False(t, RoleHOD.Elevated())
	assert.False(t, RoleEmployee.Elevated())
}

func TestCanAccessLocation(t *testing.T) {
	emp := &User{Role: RoleEmployee, LocationIDs: []string{"l-central", "l-norte"}}
	assert.True(t, emp.CanAccessLocation("l-central"))
	assert.False(t, emp.CanAccessLocation("l-sur"), "bodega no asignada queda fuera")

	// los roles elevados pasan el predicado sin asignaciones explícitas
	admin := &User{Role: RoleSuperadmin}
	assert.True(t, admin.CanAccessLocation("l-sur"))
}

func TestRequestStatus_Transiciones(t *testing.T) {
	for _, s := range []RequestStatus{StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusIssued} {
		assert.True(t, s.Valid())
	}
	assert.False(t, RequestStatus("cancelada").Valid())

	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusIssued.Terminal())
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusApproved.Terminal())
}
