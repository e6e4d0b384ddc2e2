package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// LotUseCase gestiona los lotes de vacunas: ajustes manuales de cantidad,
// listado FEFO y la barrida de expiración. Toda escritura recalcula el
// agregado del propietario en la misma transacción.
type LotUseCase struct {
	txRunner  TxRunner
	lotRepo   repository.LotRepository
	aggRepo   repository.AggregateRepository
	adminRepo repository.AdminTreeRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(
	txRunner TxRunner,
	lotRepo repository.LotRepository,
	aggRepo repository.AggregateRepository,
	adminRepo repository.AdminTreeRepository,
) *LotUseCase {
	return &LotUseCase{
		txRunner:  txRunner,
		lotRepo:   lotRepo,
		aggRepo:   aggRepo,
		adminRepo: adminRepo,
	}
}

// AdjustLot aplica un delta (negativo para débito) a la cantidad de un lote.
// Falla con ErrInsufficientQuantity si el resultado quedaría negativo.
// El agregado del propietario se recalcula en la misma transacción.
func (uc *LotUseCase) AdjustLot(ctx context.Context, scope entity.Owner, lotID string, delta decimal.Decimal) error {
	if !scope.Validate() || lotID == "" || delta.IsZero() {
		return domain.ErrInvalidInput
	}

	// Validar existencia y alcance antes de abrir la transacción
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	covered, err := uc.adminRepo.Covers(ctx, scope, lot.Owner)
	if err != nil {
		return err
	}
	if !covered {
		return domain.ErrForbidden
	}

	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
	) error {
		// Bloquea la fila del lote (SELECT FOR UPDATE) y relee la cantidad
		locked, err := lotRepo.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		newQty := locked.Quantity.Add(delta)
		if newQty.IsNegative() {
			return domain.ErrInsufficientQuantity
		}
		if err := lotRepo.UpdateQuantity(ctx, lotID, newQty); err != nil {
			return err
		}
		return aggRepo.Recompute(ctx, locked.Owner, locked.VaccineID)
	})
}

// ListValidLots devuelve los lotes asignables del propietario para una
// vacuna en orden FEFO (expiración ascendente, el más próximo a vencer
// primero). Excluye lotes EXPIRED y lotes en cero.
func (uc *LotUseCase) ListValidLots(ctx context.Context, scope, owner entity.Owner, vaccineID string) ([]*entity.StockLot, error) {
	if !owner.Validate() || vaccineID == "" {
		return nil, domain.ErrInvalidInput
	}
	covered, err := uc.adminRepo.Covers(ctx, scope, owner)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, domain.ErrForbidden
	}
	return uc.lotRepo.ListValidFEFO(ctx, owner, vaccineID)
}

// ListStock devuelve el stock agregado por vacuna de un propietario.
func (uc *LotUseCase) ListStock(ctx context.Context, scope, owner entity.Owner) ([]*entity.AggregateStock, error) {
	if !owner.Validate() {
		return nil, domain.ErrInvalidInput
	}
	covered, err := uc.adminRepo.Covers(ctx, scope, owner)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, domain.ErrForbidden
	}
	return uc.aggRepo.ListByOwner(ctx, owner)
}

// MarkExpired pasa a EXPIRED todo lote VALID vencido a la fecha dada y
// recalcula los agregados afectados. Es idempotente y corre en su propia
// transacción, nunca dentro de una escritura de usuario.
func (uc *LotUseCase) MarkExpired(ctx context.Context, now time.Time) (int, error) {
	var expired int
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
	) error {
		lots, err := lotRepo.MarkExpired(ctx, now)
		if err != nil {
			return err
		}
		expired = len(lots)

		// Un recálculo por cada par (propietario, vacuna) afectado
		type key struct {
			level     entity.OwnerLevel
			ownerID   string
			vaccineID string
		}
		seen := make(map[key]bool, len(lots))
		for _, lot := range lots {
			k := key{lot.Owner.Level, lot.Owner.ID, lot.VaccineID}
			if seen[k] {
				continue
			}
			seen[k] = true
			if err := aggRepo.Recompute(ctx, lot.Owner, lot.VaccineID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}
