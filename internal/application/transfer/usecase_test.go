package transfer_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacutrack/vacutrack-api/internal/application/transfer"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// fakeStore implementa los puertos de lotes, agregados y transferencias
// sobre mapas. El fakeTxRunner toma una copia profunda del estado antes de
// ejecutar fn y lo restaura si fn falla, imitando el rollback todo-o-nada
// de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	lots      map[string]*entity.StockLot
	transfers map[string]*entity.PendingStockTransfer
	// agregados indexados por (nivel|id|vacuna)
	aggregates map[string]decimal.Decimal
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lots:       make(map[string]*entity.StockLot),
		transfers:  make(map[string]*entity.PendingStockTransfer),
		aggregates: make(map[string]decimal.Decimal),
	}
}

func aggKey(owner entity.Owner, vaccineID string) string {
	return string(owner.Level) + "|" + owner.ID + "|" + vaccineID
}

func (s *fakeStore) snapshot() *fakeStore {
	c := newFakeStore()
	for id, l := range s.lots {
		cp := *l
		c.lots[id] = &cp
	}
	for id, t := range s.transfers {
		cp := *t
		cp.Lots = append([]entity.PendingStockTransferLot(nil), t.Lots...)
		c.transfers[id] = &cp
	}
	for k, v := range s.aggregates {
		c.aggregates[k] = v
	}
	return c
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.lots = snap.lots
	s.transfers = snap.transfers
	s.aggregates = snap.aggregates
}

// LotRepository

func (s *fakeStore) GetByID(_ context.Context, id string) (*entity.StockLot, error) {
	return s.lots[id], nil
}

func (s *fakeStore) GetForUpdate(ctx context.Context, id string) (*entity.StockLot, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeStore) ListValidFEFO(_ context.Context, owner entity.Owner, vaccineID string) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, l := range s.lots {
		if l.Owner.Equal(owner) && l.VaccineID == vaccineID && l.Allocatable() {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Expiration.Equal(out[j].Expiration) {
			return out[i].Expiration.Before(out[j].Expiration)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fakeStore) ListValidFEFOForUpdate(ctx context.Context, owner entity.Owner, vaccineID string) ([]*entity.StockLot, error) {
	return s.ListValidFEFO(ctx, owner, vaccineID)
}

func (s *fakeStore) Create(_ context.Context, lot *entity.StockLot) error {
	cp := *lot
	s.lots[lot.ID] = &cp
	return nil
}

func (s *fakeStore) UpdateQuantity(_ context.Context, id string, quantity decimal.Decimal) error {
	l, ok := s.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Quantity = quantity
	return nil
}

func (s *fakeStore) FindForCredit(_ context.Context, owner entity.Owner, vaccineID string, expiration time.Time) (*entity.StockLot, error) {
	for _, l := range s.lots {
		if l.Owner.Equal(owner) && l.VaccineID == vaccineID && l.Status == entity.LotStatusValid && l.Expiration.Equal(expiration) {
			return l, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) MarkExpired(_ context.Context, now time.Time) ([]*entity.StockLot, error) {
	var out []*entity.StockLot
	for _, l := range s.lots {
		if l.Status == entity.LotStatusValid && l.Expiration.Before(now) {
			l.Status = entity.LotStatusExpired
			out = append(out, l)
		}
	}
	return out, nil
}

// AggregateRepository

func (s *fakeStore) Get(_ context.Context, owner entity.Owner, vaccineID string) (*entity.AggregateStock, error) {
	q, ok := s.aggregates[aggKey(owner, vaccineID)]
	if !ok {
		return nil, nil
	}
	return &entity.AggregateStock{Owner: owner, VaccineID: vaccineID, Quantity: q}, nil
}

func (s *fakeStore) ListByOwner(_ context.Context, owner entity.Owner) ([]*entity.AggregateStock, error) {
	prefix := string(owner.Level) + "|" + owner.ID + "|"
	var out []*entity.AggregateStock
	for k, q := range s.aggregates {
		if strings.HasPrefix(k, prefix) {
			out = append(out, &entity.AggregateStock{
				Owner: owner, VaccineID: strings.TrimPrefix(k, prefix), Quantity: q,
			})
		}
	}
	return out, nil
}

func (s *fakeStore) Recompute(_ context.Context, owner entity.Owner, vaccineID string) error {
	total := decimal.Zero
	for _, l := range s.lots {
		if l.Owner.Equal(owner) && l.VaccineID == vaccineID && l.Status == entity.LotStatusValid {
			total = total.Add(l.Quantity)
		}
	}
	s.aggregates[aggKey(owner, vaccineID)] = total
	return nil
}

// TransferRepository

func (s *fakeStore) CreateTransfer(t *entity.PendingStockTransfer) {
	cp := *t
	cp.Lots = append([]entity.PendingStockTransferLot(nil), t.Lots...)
	s.transfers[t.ID] = &cp
}

func (s *fakeStore) GetTransferByID(_ context.Context, id string) (*entity.PendingStockTransfer, error) {
	return s.transfers[id], nil
}

func (s *fakeStore) GetTransferForUpdate(ctx context.Context, id string) (*entity.PendingStockTransfer, error) {
	return s.GetTransferByID(ctx, id)
}

func (s *fakeStore) SetTransferStatus(_ context.Context, id, status string, resolvedAt time.Time) error {
	t, ok := s.transfers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = status
	t.ResolvedAt = &resolvedAt
	return nil
}

// transferRepoAdapter separa los métodos de transferencia para no chocar
// con GetByID/GetForUpdate/Create de lotes en el mismo fakeStore.
type transferRepoAdapter struct{ s *fakeStore }

func (a transferRepoAdapter) Create(_ context.Context, t *entity.PendingStockTransfer) error {
	a.s.CreateTransfer(t)
	return nil
}

func (a transferRepoAdapter) GetByID(ctx context.Context, id string) (*entity.PendingStockTransfer, error) {
	return a.s.GetTransferByID(ctx, id)
}

func (a transferRepoAdapter) GetForUpdate(ctx context.Context, id string) (*entity.PendingStockTransfer, error) {
	return a.s.GetTransferForUpdate(ctx, id)
}

func (a transferRepoAdapter) SetStatus(ctx context.Context, id, status string, resolvedAt time.Time) error {
	return a.s.SetTransferStatus(ctx, id, status, resolvedAt)
}

func (a transferRepoAdapter) ListByOwner(_ context.Context, owner entity.Owner, direction repository.TransferDirection, status string) ([]*entity.PendingStockTransfer, error) {
	var out []*entity.PendingStockTransfer
	for _, t := range a.s.transfers {
		side := t.From
		if direction == repository.DirectionIncoming {
			side = t.To
		}
		if !side.Equal(owner) {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) Run(_ context.Context, fn func(
	lotRepo repository.LotRepository,
	aggRepo repository.AggregateRepository,
	transferRepo repository.TransferRepository,
) error) error {
	snap := r.s.snapshot()
	if err := fn(r.s, r.s, transferRepoAdapter{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// fakeVaccineRepo con un set fijo de vacunas.
type fakeVaccineRepo struct{ ids map[string]bool }

func (r fakeVaccineRepo) GetByID(_ context.Context, id string) (*entity.Vaccine, error) {
	if !r.ids[id] {
		return nil, nil
	}
	return &entity.Vaccine{ID: id, Name: id}, nil
}

func (r fakeVaccineRepo) Exists(_ context.Context, id string) (bool, error) {
	return r.ids[id], nil
}

func (r fakeVaccineRepo) List(_ context.Context) ([]*entity.Vaccine, error) {
	return nil, nil
}

// fakeAdminRepo modela el árbol como un mapa hijo → padre. NATIONAL cubre
// todo; cualquier otro alcance cubre a sus descendientes y a sí mismo.
type fakeAdminRepo struct {
	owners  map[entity.Owner]bool
	parents map[entity.Owner]entity.Owner
}

func (r fakeAdminRepo) OwnerExists(_ context.Context, owner entity.Owner) (bool, error) {
	if owner.Level == entity.LevelNational {
		return owner.ID == entity.NationalID, nil
	}
	return r.owners[owner], nil
}

func (r fakeAdminRepo) EntityExists(_ context.Context, entityType entity.EntityType, id string) (bool, error) {
	return r.owners[entity.Owner{Level: entityType.OwnerLevel(), ID: id}], nil
}

func (r fakeAdminRepo) Covers(_ context.Context, scope, target entity.Owner) (bool, error) {
	if scope.Level == entity.LevelNational {
		return true, nil
	}
	for cur := target; ; {
		if cur.Equal(scope) {
			return true, nil
		}
		parent, ok := r.parents[cur]
		if !ok {
			return false, nil
		}
		cur = parent
	}
}

func (r fakeAdminRepo) CoversEntity(ctx context.Context, scope entity.Owner, entityType entity.EntityType, id string) (bool, error) {
	return r.Covers(ctx, scope, entity.Owner{Level: entityType.OwnerLevel(), ID: id})
}

func (r fakeAdminRepo) Subtree(_ context.Context, _ entity.EntityType, _ string) (*repository.Subtree, error) {
	return &repository.Subtree{}, nil
}

func (r fakeAdminRepo) SearchByName(_ context.Context, _ entity.EntityType, _ string, _ int) ([]repository.NamedEntity, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario base: dos distritos bajo la misma región, con dos lotes en el
// origen de expiración distinta.
// ──────────────────────────────────────────────────────────────────────────────

const vaccineBCG = "vac-bcg"

var (
	region    = entity.Owner{Level: entity.LevelRegional, ID: "region-1"}
	district1 = entity.Owner{Level: entity.LevelDistrict, ID: "distrito-1"}
	district2 = entity.Owner{Level: entity.LevelDistrict, ID: "distrito-2"}

	expJan = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expJun = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func seedStore() *fakeStore {
	s := newFakeStore()
	base := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	s.lots["lote-1"] = &entity.StockLot{
		ID: "lote-1", VaccineID: vaccineBCG, Owner: district1,
		Quantity: dec(50), Expiration: expJan, Status: entity.LotStatusValid,
		CreatedAt: base, UpdatedAt: base,
	}
	s.lots["lote-2"] = &entity.StockLot{
		ID: "lote-2", VaccineID: vaccineBCG, Owner: district1,
		Quantity: dec(80), Expiration: expJun, Status: entity.LotStatusValid,
		CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
	}
	_ = s.Recompute(context.Background(), district1, vaccineBCG)
	return s
}

func newUseCase(s *fakeStore) *transfer.TransferUseCase {
	adminRepo := fakeAdminRepo{
		owners: map[entity.Owner]bool{
			region: true, district1: true, district2: true,
		},
		parents: map[entity.Owner]entity.Owner{
			district1: region,
			district2: region,
			region:    entity.National(),
		},
	}
	return transfer.NewTransferUseCase(
		fakeTxRunner{s},
		transferRepoAdapter{s},
		fakeVaccineRepo{ids: map[string]bool{vaccineBCG: true}},
		adminRepo,
	)
}

// totalStock suma la cantidad VALID de todos los lotes más lo reservado en
// transferencias PENDING: la cantidad que la conservación exige constante.
func totalStock(s *fakeStore) decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lots {
		if l.Status == entity.LotStatusValid {
			total = total.Add(l.Quantity)
		}
	}
	for _, t := range s.transfers {
		if t.Status == entity.TransferStatusPending {
			total = total.Add(t.TotalQuantity)
		}
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Propose — asignación FEFO y reserva
// ──────────────────────────────────────────────────────────────────────────────

func TestPropose_AsignacionFEFOMultiLote(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)

	// 70 dosis: el lote que vence primero (50) se agota y el resto (20)
	// sale del siguiente en orden de expiración.
	id, err := uc.Propose(context.Background(), district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(70), UserID: "user-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.True(t, s.lots["lote-1"].Quantity.IsZero(), "el lote que vence primero debe agotarse")
	assert.True(t, s.lots["lote-2"].Quantity.Equal(dec(60)), "el segundo lote debe quedar en 60")

	tr := s.transfers[id]
	require.NotNil(t, tr)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	require.Len(t, tr.Lots, 2, "la reserva debe registrar una línea por lote origen")
	assert.True(t, tr.Lots[0].QuantityReserved.Equal(dec(50)))
	assert.True(t, tr.Lots[0].Expiration.Equal(expJan))
	assert.True(t, tr.Lots[1].QuantityReserved.Equal(dec(20)))
	assert.True(t, tr.Lots[1].Expiration.Equal(expJun))

	// El agregado del origen refleja el débito inmediato
	agg, err := s.Get(context.Background(), district1, vaccineBCG)
	require.NoError(t, err)
	assert.True(t, agg.Quantity.Equal(dec(60)))
}

func TestPropose_StockInsuficiente_NoMutaNada(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)

	_, err := uc.Propose(context.Background(), district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(200), UserID: "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"no hay transferencias parciales: 200 > 130 disponibles")

	// Rollback: los lotes quedan intactos y no se creó transferencia
	assert.True(t, s.lots["lote-1"].Quantity.Equal(dec(50)))
	assert.True(t, s.lots["lote-2"].Quantity.Equal(dec(80)))
	assert.Empty(t, s.transfers)
}

func TestPropose_DobleGasto_SegundaPropuestaFalla(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	_, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(100), UserID: "user-1",
	})
	require.NoError(t, err)

	// La primera propuesta ya debitó 100 de 130: una segunda por 50 no cabe
	_, err = uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(50), UserID: "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"la reserva por débito inmediato impide asignar la misma dosis dos veces")
}

func TestPropose_Validaciones(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	t.Run("mismo origen y destino", func(t *testing.T) {
		_, err := uc.Propose(ctx, district1, transfer.ProposeInput{
			VaccineID: vaccineBCG, From: district1, To: district1, Quantity: dec(10),
		})
		assert.ErrorIs(t, err, domain.ErrSameOwner)
	})

	t.Run("cantidad no positiva", func(t *testing.T) {
		_, err := uc.Propose(ctx, district1, transfer.ProposeInput{
			VaccineID: vaccineBCG, From: district1, To: district2, Quantity: dec(0),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("vacuna inexistente", func(t *testing.T) {
		_, err := uc.Propose(ctx, district1, transfer.ProposeInput{
			VaccineID: "vac-nope", From: district1, To: district2, Quantity: dec(10),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("alcance no cubre al origen", func(t *testing.T) {
		_, err := uc.Propose(ctx, district2, transfer.ProposeInput{
			VaccineID: vaccineBCG, From: district1, To: district2, Quantity: dec(10),
		})
		assert.ErrorIs(t, err, domain.ErrForbidden,
			"un distrito no puede proponer desde el stock de otro")
	})

	t.Run("la region puede proponer desde su subarbol", func(t *testing.T) {
		_, err := uc.Propose(ctx, region, transfer.ProposeInput{
			VaccineID: vaccineBCG, From: district1, To: district2, Quantity: dec(10),
		})
		assert.NoError(t, err)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm — acreditación preservando expiraciones
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirm_PreservaExpiracionesSinFundir(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	before := totalStock(s)

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(70), UserID: "user-1",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Confirm(ctx, district2, id))

	tr := s.transfers[id]
	assert.Equal(t, entity.TransferStatusConfirmed, tr.Status)
	require.NotNil(t, tr.ResolvedAt)

	// El destino recibe dos lotes, uno por expiración de origen
	destLots, err := s.ListValidFEFO(ctx, district2, vaccineBCG)
	require.NoError(t, err)
	require.Len(t, destLots, 2, "reservas con expiraciones distintas nunca se funden")
	assert.True(t, destLots[0].Expiration.Equal(expJan))
	assert.True(t, destLots[0].Quantity.Equal(dec(50)))
	assert.True(t, destLots[1].Expiration.Equal(expJun))
	assert.True(t, destLots[1].Quantity.Equal(dec(20)))

	// Conservación: nada se creó ni se destruyó
	assert.True(t, totalStock(s).Equal(before),
		"la suma global de dosis debe ser la misma antes y después")

	agg, err := s.Get(ctx, district2, vaccineBCG)
	require.NoError(t, err)
	assert.True(t, agg.Quantity.Equal(dec(70)))
}

func TestConfirm_AbonaSobreLoteExistenteConMismaExpiracion(t *testing.T) {
	s := seedStore()
	// El destino ya tiene un lote con la misma expiración que lote-1
	base := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	s.lots["lote-d2"] = &entity.StockLot{
		ID: "lote-d2", VaccineID: vaccineBCG, Owner: district2,
		Quantity: dec(5), Expiration: expJan, Status: entity.LotStatusValid,
		CreatedAt: base, UpdatedAt: base,
	}
	uc := newUseCase(s)
	ctx := context.Background()

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(30), UserID: "user-1",
	})
	require.NoError(t, err)
	require.NoError(t, uc.Confirm(ctx, district2, id))

	// Misma expiración → se abona al lote existente en vez de crear otro
	assert.True(t, s.lots["lote-d2"].Quantity.Equal(dec(35)))
	destLots, _ := s.ListValidFEFO(ctx, district2, vaccineBCG)
	assert.Len(t, destLots, 1)
}

func TestConfirm_SoloElDestino(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(10), UserID: "user-1",
	})
	require.NoError(t, err)

	err = uc.Confirm(ctx, district1, id)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el emisor no confirma su propia transferencia")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject / Cancel — restauración del origen y estados terminales
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_RestauraLotesDeOrigen(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(70), UserID: "user-1",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Reject(ctx, district2, id))

	assert.Equal(t, entity.TransferStatusRejected, s.transfers[id].Status)
	assert.True(t, s.lots["lote-1"].Quantity.Equal(dec(50)), "lo reservado vuelve a su lote")
	assert.True(t, s.lots["lote-2"].Quantity.Equal(dec(80)))

	agg, _ := s.Get(ctx, district1, vaccineBCG)
	assert.True(t, agg.Quantity.Equal(dec(130)))

	// El destino no recibió nada
	destLots, _ := s.ListValidFEFO(ctx, district2, vaccineBCG)
	assert.Empty(t, destLots)
}

func TestCancel_SoloElEmisor(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(10), UserID: "user-1",
	})
	require.NoError(t, err)

	err = uc.Cancel(ctx, district2, id)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el receptor no cancela, solo rechaza")

	require.NoError(t, uc.Cancel(ctx, district1, id))
	assert.Equal(t, entity.TransferStatusCancelled, s.transfers[id].Status)
	assert.True(t, s.lots["lote-1"].Quantity.Equal(dec(50)))
}

func TestResolve_EstadosTerminalesSonDefinitivos(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(10), UserID: "user-1",
	})
	require.NoError(t, err)
	require.NoError(t, uc.Confirm(ctx, district2, id))

	// Cualquier segunda resolución sobre un estado terminal falla igual
	assert.ErrorIs(t, uc.Confirm(ctx, district2, id), domain.ErrTransferNotPending)
	assert.ErrorIs(t, uc.Reject(ctx, district2, id), domain.ErrTransferNotPending)
	assert.ErrorIs(t, uc.Cancel(ctx, district1, id), domain.ErrTransferNotPending)

	// Y no vuelve a acreditar: el destino sigue con 10
	agg, _ := s.Get(ctx, district2, vaccineBCG)
	assert.True(t, agg.Quantity.Equal(dec(10)))
}

func TestResolve_TransferenciaInexistente(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)

	err := uc.Confirm(context.Background(), district2, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_VisibleParaEmisorYReceptor(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(10), UserID: "user-1",
	})
	require.NoError(t, err)

	for _, scope := range []entity.Owner{district1, district2, region, entity.National()} {
		got, err := uc.Get(ctx, scope, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	}
}

func TestListByOwner_FiltraPorDireccionYEstado(t *testing.T) {
	s := seedStore()
	uc := newUseCase(s)
	ctx := context.Background()

	id, err := uc.Propose(ctx, district1, transfer.ProposeInput{
		VaccineID: vaccineBCG, From: district1, To: district2,
		Quantity: dec(10), UserID: "user-1",
	})
	require.NoError(t, err)

	out, err := uc.ListByOwner(ctx, district1, district1, repository.DirectionOutgoing, entity.TransferStatusPending)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].ID)

	in, err := uc.ListByOwner(ctx, district2, district2, repository.DirectionIncoming, "")
	require.NoError(t, err)
	assert.Len(t, in, 1)

	none, err := uc.ListByOwner(ctx, district2, district2, repository.DirectionOutgoing, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = uc.ListByOwner(ctx, district1, district1, repository.DirectionOutgoing, "PENDIENTE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "estado fuera del vocabulario")
}
