package purchasing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/application/ports"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/pkg/logger"
)

// ReceiptReason motivo de los movimientos de entrada generados al recibir una orden.
func ReceiptReason(orderID string) string {
	return fmt.Sprintf("Purchase order #%s receipt", orderID)
}

// PurchaseOrderUseCase flujo de órdenes de compra: PENDING → SENT → RECEIVED | CANCELLED.
type PurchaseOrderUseCase struct {
	txRunner     inventory.TxRunner
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	metrics      ports.StockMetrics
	log          *logger.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	txRunner inventory.TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	metrics ports.StockMetrics,
	log *logger.Logger,
) *PurchaseOrderUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PurchaseOrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		metrics:      metrics,
		log:          log,
	}
}

// GenerateOrders crea una orden PENDING por proveedor a partir de las variantes elegidas
// (normalmente desde el asesor de reposición). El costo unitario se congela con el costo actual
// de la variante. Selecciones sin cantidad, inexistentes o sin proveedor se reportan como omitidas.
func (uc *PurchaseOrderUseCase) GenerateOrders(ctx context.Context, selections []dto.OrderSelection, userID string) (*dto.GenerateOrdersResponse, error) {
	if len(selections) == 0 {
		return nil, fmt.Errorf("%w: no hay variantes seleccionadas", domain.ErrInvalidInput)
	}

	// Sumar selecciones repetidas manteniendo el orden de llegada.
	qtyByVariant := make(map[string]int64, len(selections))
	var order []string
	for _, s := range selections {
		if _, seen := qtyByVariant[s.VariantID]; !seen {
			order = append(order, s.VariantID)
		}
		qtyByVariant[s.VariantID] += s.Quantity
	}

	res := &dto.GenerateOrdersResponse{
		Orders:  []dto.PurchaseOrderResponse{},
		Skipped: []dto.SkippedSelection{},
	}
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		bySupplier := map[string]*entity.PurchaseOrder{}
		now := time.Now()
		for _, variantID := range order {
			qty := qtyByVariant[variantID]
			if qty <= 0 {
				res.Skipped = append(res.Skipped, dto.SkippedSelection{VariantID: variantID, Reason: "cantidad inválida"})
				continue
			}
			v, err := repos.Variants.GetByID(ctx, variantID)
			if err != nil {
				return err
			}
			if v == nil {
				res.Skipped = append(res.Skipped, dto.SkippedSelection{VariantID: variantID, Reason: "variante no encontrada"})
				continue
			}
			if v.SupplierID == nil {
				res.Skipped = append(res.Skipped, dto.SkippedSelection{VariantID: variantID, Reason: "producto sin proveedor"})
				continue
			}
			o, ok := bySupplier[*v.SupplierID]
			if !ok {
				o = &entity.PurchaseOrder{
					ID:           uuid.New().String(),
					SupplierID:   *v.SupplierID,
					SupplierName: v.SupplierName,
					Status:       entity.POStatusPending,
					Notes:        "Generada desde sugerencias de reposición",
					CreatedBy:    userID,
					CreatedAt:    now,
				}
				bySupplier[*v.SupplierID] = o
			}
			o.Lines = append(o.Lines, &entity.PurchaseOrderLine{
				ID:           uuid.New().String(),
				OrderID:      o.ID,
				VariantID:    v.ID,
				Quantity:     qty,
				UnitCost:     v.CostPrice,
				VariantLabel: v.Label(),
			})
		}

		supplierIDs := make([]string, 0, len(bySupplier))
		for id := range bySupplier {
			supplierIDs = append(supplierIDs, id)
		}
		sort.Strings(supplierIDs)
		for _, id := range supplierIDs {
			o := bySupplier[id]
			if err := repos.Orders.Create(ctx, o); err != nil {
				return err
			}
			res.Orders = append(res.Orders, toOrderResponse(o))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create registra una orden manual. UnitCost nil toma el costo actual de la variante.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in dto.CreatePurchaseOrderRequest, userID string) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: proveedor y líneas son obligatorios", domain.ErrInvalidInput)
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor", domain.ErrNotFound)
	}

	o := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Status:       entity.POStatusPending,
		Notes:        in.Notes,
		CreatedBy:    userID,
		CreatedAt:    time.Now(),
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		for _, l := range in.Lines {
			if l.Quantity <= 0 {
				return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
			}
			if l.UnitCost != nil && l.UnitCost.IsNegative() {
				return fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
			}
			v, err := repos.Variants.GetByID(ctx, l.VariantID)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.VariantID)
			}
			cost := v.CostPrice
			if l.UnitCost != nil {
				cost = *l.UnitCost
			}
			o.Lines = append(o.Lines, &entity.PurchaseOrderLine{
				ID:           uuid.New().String(),
				OrderID:      o.ID,
				VariantID:    v.ID,
				Quantity:     l.Quantity,
				UnitCost:     cost,
				VariantLabel: v.Label(),
			})
		}
		return repos.Orders.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	res := toOrderResponse(o)
	return &res, nil
}

// transition aplica un cambio de estado con la fila de la orden bloqueada.
func (uc *PurchaseOrderUseCase) transition(ctx context.Context, id string, apply func(o *entity.PurchaseOrder, now time.Time) error) error {
	return uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if err := apply(o, time.Now()); err != nil {
			return err
		}
		return repos.Orders.UpdateStatus(ctx, o)
	})
}

func alreadyProcessed(o *entity.PurchaseOrder) error {
	return fmt.Errorf("%w: la orden %s ya está %s", domain.ErrAlreadyProcessed, o.ID, o.Status)
}

// Send marca la orden como enviada al proveedor.
func (uc *PurchaseOrderUseCase) Send(ctx context.Context, id string) error {
	err := uc.transition(ctx, id, func(o *entity.PurchaseOrder, now time.Time) error {
		switch o.Status {
		case entity.POStatusPending:
			o.Status = entity.POStatusSent
			o.SentAt = &now
			return nil
		case entity.POStatusSent:
			return fmt.Errorf("%w: la orden ya fue enviada", domain.ErrConflict)
		default:
			return alreadyProcessed(o)
		}
	})
	uc.warnIfProcessed(err, id, "send")
	return err
}

// Cancel cancela una orden pendiente o enviada.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) error {
	err := uc.transition(ctx, id, func(o *entity.PurchaseOrder, now time.Time) error {
		if o.IsTerminal() {
			return alreadyProcessed(o)
		}
		o.Status = entity.POStatusCancelled
		o.CancelledAt = &now
		return nil
	})
	uc.warnIfProcessed(err, id, "cancel")
	return err
}

// Receive registra la llegada de la mercancía: una entrada por línea, recálculo de cada
// variante y estado RECEIVED, todo en una transacción. Recibir una orden ya recibida o
// cancelada devuelve ErrAlreadyProcessed sin crear movimientos.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, id, userID string) error {
	lines := 0
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if o.IsTerminal() {
			return alreadyProcessed(o)
		}
		done, err := repos.Movements.ExistsForOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		if done {
			return fmt.Errorf("%w: la orden %s ya generó entradas", domain.ErrAlreadyProcessed, o.ID)
		}

		ordered := make([]*entity.PurchaseOrderLine, len(o.Lines))
		copy(ordered, o.Lines)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].VariantID < ordered[j].VariantID })

		now := time.Now()
		reason := ReceiptReason(o.ID)
		for _, l := range ordered {
			v, err := repos.Variants.GetForUpdate(ctx, l.VariantID)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.VariantID)
			}
			orderID := o.ID
			if _, err := inventory.AppendMovement(ctx, repos, &entity.StockMovement{
				ID:              uuid.New().String(),
				VariantID:       l.VariantID,
				Type:            entity.MovementTypeEntry,
				Quantity:        l.Quantity,
				Reason:          reason,
				PurchaseOrderID: &orderID,
				CreatedBy:       userID,
				Date:            now,
			}); err != nil {
				return err
			}
		}

		o.Status = entity.POStatusReceived
		o.ReceivedAt = &now
		lines = len(ordered)
		return repos.Orders.UpdateStatus(ctx, o)
	})
	if err != nil {
		uc.warnIfProcessed(err, id, "receive")
		return err
	}
	uc.metrics.OrderReceived(lines)
	uc.log.Info().Str("order_id", id).Int("lines", lines).Msg("orden de compra recibida")
	return nil
}

func (uc *PurchaseOrderUseCase) warnIfProcessed(err error, id, op string) {
	if errors.Is(err, domain.ErrAlreadyProcessed) {
		uc.log.Warn().Str("order_id", id).Str("op", op).Msg(err.Error())
	}
}

// Get devuelve la orden con sus líneas.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	res := toOrderResponse(o)
	return &res, nil
}

// List lista órdenes, opcionalmente filtradas por estado, más recientes primero.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.PurchaseOrderResponse, error) {
	switch status {
	case "", entity.POStatusPending, entity.POStatusSent, entity.POStatusReceived, entity.POStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
	}
	page.DefaultPage()
	list, err := uc.orderRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

func toOrderResponse(o *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	lines := make([]dto.PurchaseOrderLineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.PurchaseOrderLineDTO{
			ID:        l.ID,
			VariantID: l.VariantID,
			Label:     l.VariantLabel,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Subtotal:  l.Subtotal(),
		})
	}
	return dto.PurchaseOrderResponse{
		ID:           o.ID,
		SupplierID:   o.SupplierID,
		SupplierName: o.SupplierName,
		Status:       o.Status,
		Notes:        o.Notes,
		Total:        o.Total(),
		CreatedAt:    o.CreatedAt,
		SentAt:       o.SentAt,
		ReceivedAt:   o.ReceivedAt,
		CancelledAt:  o.CancelledAt,
		Lines:        lines,
	}
}
