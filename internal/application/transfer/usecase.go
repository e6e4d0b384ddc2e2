package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vacutrack/vacutrack-api/internal/domain"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/internal/domain/repository"
)

// TransferUseCase implementa el protocolo de dos fases para mover stock
// entre propietarios: el emisor propone (reservando lotes en orden FEFO) y
// el receptor confirma o rechaza. La máquina de estados por transferencia es
// PENDING → {CONFIRMED | REJECTED | CANCELLED}, todos terminales.
type TransferUseCase struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository
	vaccineRepo  repository.VaccineRepository
	adminRepo    repository.AdminTreeRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	vaccineRepo repository.VaccineRepository,
	adminRepo repository.AdminTreeRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		vaccineRepo:  vaccineRepo,
		adminRepo:    adminRepo,
	}
}

// ProposeInput entrada para proponer una transferencia.
type ProposeInput struct {
	VaccineID string
	From      entity.Owner
	To        entity.Owner
	Quantity  decimal.Decimal
	UserID    string
}

// Propose reserva cantidad de los lotes del origen en orden FEFO y crea la
// transferencia en PENDING, todo en una transacción con bloqueo de filas.
// El débito inmediato de los lotes origen es lo que impide que dos
// propuestas concurrentes asignen la misma cantidad dos veces.
// Falla con ErrInsufficientStock si el stock válido no cubre lo pedido
// (no hay transferencias parciales).
func (uc *TransferUseCase) Propose(ctx context.Context, scope entity.Owner, input ProposeInput) (string, error) {
	if input.VaccineID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidInput
	}
	if !input.From.Validate() || !input.To.Validate() {
		return "", domain.ErrInvalidInput
	}
	if input.From.Equal(input.To) {
		return "", domain.ErrSameOwner
	}

	// Validar existencia de vacuna y propietarios antes de abrir la tx
	exists, err := uc.vaccineRepo.Exists(ctx, input.VaccineID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", domain.ErrNotFound
	}
	for _, owner := range []entity.Owner{input.From, input.To} {
		ok, err := uc.adminRepo.OwnerExists(ctx, owner)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", domain.ErrNotFound
		}
	}
	covered, err := uc.adminRepo.Covers(ctx, scope, input.From)
	if err != nil {
		return "", err
	}
	if !covered {
		return "", domain.ErrForbidden
	}

	now := time.Now()
	transferID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
		transferRepo repository.TransferRepository,
	) error {
		// Bloquea los lotes válidos del origen en orden FEFO
		lots, err := lotRepo.ListValidFEFOForUpdate(ctx, input.From, input.VaccineID)
		if err != nil {
			return err
		}

		remaining := input.Quantity
		reserved := make([]entity.PendingStockTransferLot, 0, len(lots))
		for _, lot := range lots {
			if !remaining.GreaterThan(decimal.Zero) {
				break
			}
			take := decimal.Min(lot.Quantity, remaining)
			if err := lotRepo.UpdateQuantity(ctx, lot.ID, lot.Quantity.Sub(take)); err != nil {
				return err
			}
			reserved = append(reserved, entity.PendingStockTransferLot{
				TransferID:       transferID,
				LotID:            lot.ID,
				QuantityReserved: take,
				Expiration:       lot.Expiration,
			})
			remaining = remaining.Sub(take)
		}
		if remaining.GreaterThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}

		t := &entity.PendingStockTransfer{
			ID:            transferID,
			VaccineID:     input.VaccineID,
			From:          input.From,
			To:            input.To,
			TotalQuantity: input.Quantity,
			Status:        entity.TransferStatusPending,
			Lots:          reserved,
			CreatedBy:     input.UserID,
			CreatedAt:     now,
		}
		if err := transferRepo.Create(ctx, t); err != nil {
			return err
		}
		return aggRepo.Recompute(ctx, input.From, input.VaccineID)
	})
	if err != nil {
		return "", err
	}
	return transferID, nil
}

// Confirm acredita la cantidad reservada en lotes del receptor y marca la
// transferencia CONFIRMED. Cada línea reservada conserva la expiración del
// lote origen: reservas con expiraciones distintas nunca se funden en un
// solo lote destino.
func (uc *TransferUseCase) Confirm(ctx context.Context, scope entity.Owner, transferID string) error {
	return uc.resolve(ctx, scope, transferID, entity.TransferStatusConfirmed)
}

// Reject devuelve las cantidades reservadas a los lotes de origen y marca
// REJECTED. Lo inicia el receptor.
func (uc *TransferUseCase) Reject(ctx context.Context, scope entity.Owner, transferID string) error {
	return uc.resolve(ctx, scope, transferID, entity.TransferStatusRejected)
}

// Cancel devuelve las cantidades reservadas a los lotes de origen y marca
// CANCELLED. Lo inicia el emisor mientras la transferencia siga pendiente;
// no existe cancelación por tiempo.
func (uc *TransferUseCase) Cancel(ctx context.Context, scope entity.Owner, transferID string) error {
	return uc.resolve(ctx, scope, transferID, entity.TransferStatusCancelled)
}

// resolve ejecuta una transición terminal sobre una transferencia PENDING.
func (uc *TransferUseCase) resolve(ctx context.Context, scope entity.Owner, transferID, status string) error {
	if transferID == "" {
		return domain.ErrInvalidInput
	}
	t, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrNotFound
	}

	// Confirmar y rechazar son del receptor; cancelar, del emisor
	actor := t.To
	if status == entity.TransferStatusCancelled {
		actor = t.From
	}
	covered, err := uc.adminRepo.Covers(ctx, scope, actor)
	if err != nil {
		return err
	}
	if !covered {
		return domain.ErrForbidden
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		aggRepo repository.AggregateRepository,
		transferRepo repository.TransferRepository,
	) error {
		// Relee con bloqueo: dos resoluciones concurrentes se serializan y
		// la segunda encuentra un estado terminal
		locked, err := transferRepo.GetForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if !locked.CanResolve() {
			return domain.ErrTransferNotPending
		}

		switch status {
		case entity.TransferStatusConfirmed:
			if err := creditDestination(ctx, lotRepo, locked, now); err != nil {
				return err
			}
			if err := aggRepo.Recompute(ctx, locked.To, locked.VaccineID); err != nil {
				return err
			}
		case entity.TransferStatusRejected, entity.TransferStatusCancelled:
			if err := restoreSource(ctx, lotRepo, locked, now); err != nil {
				return err
			}
			if err := aggRepo.Recompute(ctx, locked.From, locked.VaccineID); err != nil {
				return err
			}
		default:
			return domain.ErrInvalidInput
		}
		return transferRepo.SetStatus(ctx, transferID, status, now)
	})
}

// creditDestination crea o incrementa lotes del receptor, uno por cada
// expiración de origen.
func creditDestination(ctx context.Context, lotRepo repository.LotRepository, t *entity.PendingStockTransfer, now time.Time) error {
	for _, line := range t.Lots {
		dest, err := lotRepo.FindForCredit(ctx, t.To, t.VaccineID, line.Expiration)
		if err != nil {
			return err
		}
		if dest == nil {
			lot := &entity.StockLot{
				ID:         uuid.New().String(),
				VaccineID:  t.VaccineID,
				Owner:      t.To,
				Quantity:   line.QuantityReserved,
				Expiration: line.Expiration,
				Status:     entity.LotStatusValid,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := lotRepo.Create(ctx, lot); err != nil {
				return err
			}
			continue
		}
		if err := lotRepo.UpdateQuantity(ctx, dest.ID, dest.Quantity.Add(line.QuantityReserved)); err != nil {
			return err
		}
	}
	return nil
}

// restoreSource abona las cantidades reservadas de vuelta a los lotes de
// origen. Si un lote origen ya no existe, se recrea con su expiración.
func restoreSource(ctx context.Context, lotRepo repository.LotRepository, t *entity.PendingStockTransfer, now time.Time) error {
	for _, line := range t.Lots {
		lot, err := lotRepo.GetForUpdate(ctx, line.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			recreated := &entity.StockLot{
				ID:         line.LotID,
				VaccineID:  t.VaccineID,
				Owner:      t.From,
				Quantity:   line.QuantityReserved,
				Expiration: line.Expiration,
				Status:     entity.LotStatusValid,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := lotRepo.Create(ctx, recreated); err != nil {
				return err
			}
			continue
		}
		if err := lotRepo.UpdateQuantity(ctx, lot.ID, lot.Quantity.Add(line.QuantityReserved)); err != nil {
			return err
		}
	}
	return nil
}

// Get devuelve una transferencia con sus líneas de reserva.
func (uc *TransferUseCase) Get(ctx context.Context, scope entity.Owner, transferID string) (*entity.PendingStockTransfer, error) {
	t, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	for _, owner := range []entity.Owner{t.From, t.To} {
		covered, err := uc.adminRepo.Covers(ctx, scope, owner)
		if err != nil {
			return nil, err
		}
		if covered {
			return t, nil
		}
	}
	return nil, domain.ErrForbidden
}

// ListByOwner lista la bandeja de transferencias de un propietario:
// entrantes (es destino) o salientes (es origen), con filtro por estado.
func (uc *TransferUseCase) ListByOwner(ctx context.Context, scope, owner entity.Owner, direction repository.TransferDirection, status string) ([]*entity.PendingStockTransfer, error) {
	if !owner.Validate() {
		return nil, domain.ErrInvalidInput
	}
	switch status {
	case "", entity.TransferStatusPending, entity.TransferStatusConfirmed,
		entity.TransferStatusRejected, entity.TransferStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	covered, err := uc.adminRepo.Covers(ctx, scope, owner)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, domain.ErrForbidden
	}
	return uc.transferRepo.ListByOwner(ctx, owner, direction, status)
}
