package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/ports"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

// LedgerUseCase único punto de escritura del ledger de movimientos. Cada alta, edición o
// borrado bloquea la fila de la variante (SELECT FOR UPDATE) y recalcula su cantidad en la misma tx.
type LedgerUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
	metrics      ports.StockMetrics
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, movementRepo repository.StockMovementRepository, metrics ports.StockMetrics) *LedgerUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &LedgerUseCase{txRunner: txRunner, movementRepo: movementRepo, metrics: metrics}
}

// CommitMovementInput entrada de CommitMovement.
type CommitMovementInput struct {
	VariantID  string
	Type       string
	Quantity   int64
	Reason     string
	CustomerID *string
	UserID     string
}

// ValidateQuantity ENTRY y EXIT exigen cantidad positiva; ADJUSTMENT, distinta de cero.
func ValidateQuantity(movementType string, qty int64) error {
	switch movementType {
	case entity.MovementTypeEntry, entity.MovementTypeExit:
		if qty <= 0 {
			return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
		}
	case entity.MovementTypeAdjustment:
		if qty == 0 {
			return fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, movementType)
	}
	return nil
}

// AppendMovement inserta el movimiento y recalcula la variante dentro de la tx del llamador.
// El llamador ya debe tener bloqueada la fila de la variante.
func AppendMovement(ctx context.Context, repos repository.TxRepos, m *entity.StockMovement) (int64, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	if err := repos.Movements.Create(ctx, m); err != nil {
		return 0, err
	}
	return Recalculate(ctx, repos, m.VariantID)
}

// checkAvailable falla si aplicar delta dejaría la variante en negativo.
func checkAvailable(v *entity.ProductVariant, delta int64) error {
	if v.Quantity+delta < 0 {
		return &domain.InsufficientStockError{
			VariantID:   v.ID,
			VariantName: v.Label(),
			Requested:   -delta,
			Available:   v.Quantity,
		}
	}
	return nil
}

// CommitMovement registra un movimiento manual (entrada, salida o ajuste).
// Una salida o un ajuste negativo mayor que el stock disponible devuelve InsufficientStockError.
func (uc *LedgerUseCase) CommitMovement(ctx context.Context, in CommitMovementInput) (*dto.MovementResponse, error) {
	if in.VariantID == "" {
		return nil, fmt.Errorf("%w: variant_id es obligatorio", domain.ErrInvalidInput)
	}
	if err := ValidateQuantity(in.Type, in.Quantity); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:         uuid.New().String(),
		VariantID:  in.VariantID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		CustomerID: in.CustomerID,
		CreatedBy:  in.UserID,
		Date:       time.Now(),
	}
	var onHand int64
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		v, err := repos.Variants.GetForUpdate(ctx, in.VariantID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}
		if in.CustomerID != nil {
			c, err := repos.Customers.GetByID(ctx, *in.CustomerID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: cliente", domain.ErrNotFound)
			}
		}
		if err := checkAvailable(v, mov.SignedQuantity()); err != nil {
			return err
		}
		mov.VariantLabel = v.Label()
		onHand, err = AppendMovement(ctx, repos, mov)
		return err
	})
	if err != nil {
		uc.observe(err, "movement")
		return nil, err
	}
	res := toMovementResponse(mov)
	res.OnHandAfter = &onHand
	return &res, nil
}

// UpdateMovementInput campos editables de un movimiento.
type UpdateMovementInput struct {
	Quantity *int64
	Reason   *string
}

// UpdateMovement corrige cantidad y/o motivo de un movimiento y recalcula la variante.
// El tipo no se puede cambiar: para eso se borra y se registra otro.
func (uc *LedgerUseCase) UpdateMovement(ctx context.Context, id string, in UpdateMovementInput) (*dto.MovementResponse, error) {
	if in.Quantity == nil && in.Reason == nil {
		return nil, fmt.Errorf("%w: nada que actualizar", domain.ErrInvalidInput)
	}
	var (
		updated *entity.StockMovement
		onHand  int64
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		m, err := repos.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		v, err := repos.Variants.GetForUpdate(ctx, m.VariantID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}

		next := *m
		if in.Quantity != nil {
			if err := ValidateQuantity(m.Type, *in.Quantity); err != nil {
				return err
			}
			next.Quantity = *in.Quantity
		}
		if in.Reason != nil {
			next.Reason = *in.Reason
		}
		if err := checkAvailable(v, next.SignedQuantity()-m.SignedQuantity()); err != nil {
			return err
		}
		if err := repos.Movements.Update(ctx, &next); err != nil {
			return err
		}
		onHand, err = Recalculate(ctx, repos, m.VariantID)
		if err != nil {
			return err
		}
		next.VariantLabel = v.Label()
		updated = &next
		return nil
	})
	if err != nil {
		uc.observe(err, "movement_update")
		return nil, err
	}
	res := toMovementResponse(updated)
	res.OnHandAfter = &onHand
	return &res, nil
}

// DeleteMovement elimina el movimiento y recalcula: revierte exactamente su contribución.
// Devuelve la cantidad resultante de la variante.
func (uc *LedgerUseCase) DeleteMovement(ctx context.Context, id string) (int64, error) {
	var onHand int64
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		m, err := repos.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		v, err := repos.Variants.GetForUpdate(ctx, m.VariantID)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}
		if err := checkAvailable(v, -m.SignedQuantity()); err != nil {
			return err
		}
		if err := repos.Movements.Delete(ctx, id); err != nil {
			return err
		}
		onHand, err = Recalculate(ctx, repos, m.VariantID)
		return err
	})
	if err != nil {
		uc.observe(err, "movement_delete")
		return 0, err
	}
	return onHand, nil
}

// ListMovements lista el ledger con filtros opcionales, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, f repository.MovementFilter) (*dto.MovementListResponse, error) {
	if f.Type != "" && !entity.IsValidMovementType(f.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, f.Type)
	}
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset

	list, err := uc.movementRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

func (uc *LedgerUseCase) observe(err error, operation string) {
	if errors.Is(err, domain.ErrInsufficientStock) {
		uc.metrics.StockRejected(operation)
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		VariantID:       m.VariantID,
		VariantLabel:    m.VariantLabel,
		Type:            m.Type,
		Quantity:        m.Quantity,
		Reason:          m.Reason,
		CustomerID:      m.CustomerID,
		PurchaseOrderID: m.PurchaseOrderID,
		CreatedBy:       m.CreatedBy,
		Date:            m.Date,
	}
}
