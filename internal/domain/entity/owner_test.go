package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
)

func TestOwner_Validate(t *testing.T) {
	casos := []struct {
		nombre string
		owner  entity.Owner
		valido bool
	}{
		{"nacional", entity.National(), true},
		{"regional", entity.Owner{Level: entity.LevelRegional, ID: "r-1"}, true},
		{"distrito", entity.Owner{Level: entity.LevelDistrict, ID: "d-1"}, true},
		{"centro", entity.Owner{Level: entity.LevelHealthCenter, ID: "h-1"}, true},
		{"nivel desconocido", entity.Owner{Level: "PROVINCE", ID: "p-1"}, false},
		{"sin id", entity.Owner{Level: entity.LevelRegional}, false},
		{"vacío", entity.Owner{}, false},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.valido, c.owner.Validate())
		})
	}
}

func TestOwner_Equal(t *testing.T) {
	a := entity.Owner{Level: entity.LevelDistrict, ID: "d-1"}
	assert.True(t, a.Equal(entity.Owner{Level: entity.LevelDistrict, ID: "d-1"}))
	assert.False(t, a.Equal(entity.Owner{Level: entity.LevelDistrict, ID: "d-2"}))
	// Mismo ID en otro nivel es otro propietario
	assert.False(t, a.Equal(entity.Owner{Level: entity.LevelHealthCenter, ID: "d-1"}))
}

func TestEntityType_OwnerLevel(t *testing.T) {
	assert.Equal(t, entity.LevelRegional, entity.EntityRegion.OwnerLevel())
	assert.Equal(t, entity.LevelDistrict, entity.EntityDistrict.OwnerLevel())
	assert.Equal(t, entity.LevelHealthCenter, entity.EntityHealthCenter.OwnerLevel())
	// Las comunas existen en el árbol pero no poseen stock
	assert.Equal(t, entity.OwnerLevel(""), entity.EntityCommune.OwnerLevel())
}

func TestStockLot_Allocatable(t *testing.T) {
	lot := entity.StockLot{Status: entity.LotStatusValid, Quantity: decimal.NewFromInt(3)}
	assert.True(t, lot.Allocatable())

	lot.Quantity = decimal.Zero
	assert.False(t, lot.Allocatable(), "un lote en cero no participa del FEFO")

	lot.Quantity = decimal.NewFromInt(3)
	lot.Status = entity.LotStatusExpired
	assert.False(t, lot.Allocatable())
}

func TestTransfer_CanResolve(t *testing.T) {
	tr := entity.PendingStockTransfer{Status: entity.TransferStatusPending}
	assert.True(t, tr.CanResolve())

	for _, s := range []string{
		entity.TransferStatusConfirmed,
		entity.TransferStatusRejected,
		entity.TransferStatusCancelled,
	} {
		tr.Status = s
		assert.False(t, tr.CanResolve(), "los estados terminales no se resuelven de nuevo")
	}
}

func TestVaccinationCounts_Derivados(t *testing.T) {
	c := entity.VaccinationCounts{Scheduled: 2, Due: 1, Late: 1, Overdue: 3, Completed: 5}
	assert.Equal(t, 7, c.Appointments(), "las completadas no son citas vivas")
	assert.Equal(t, 12, c.Total())

	impact := entity.CascadeImpact{Vaccinations: c}
	impact.Finalize()
	assert.True(t, impact.WillCancelAppointments)
	assert.Equal(t, 7, impact.AffectedAppointments)
}
