package pos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/inventory"
	"github.com/jhoicas/suestoque-api/internal/application/ports"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/entity"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
)

// SaleReason motivo de los movimientos de salida generados por el punto de venta.
const SaleReason = "PDV sale"

const searchLimit = 10

// CheckoutUseCase cierre de ventas del punto de venta.
type CheckoutUseCase struct {
	txRunner     inventory.TxRunner
	variantRepo  repository.VariantRepository
	customerRepo repository.CustomerRepository
	metrics      ports.StockMetrics
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	txRunner inventory.TxRunner,
	variantRepo repository.VariantRepository,
	customerRepo repository.CustomerRepository,
	metrics ports.StockMetrics,
) *CheckoutUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CheckoutUseCase{txRunner: txRunner, variantRepo: variantRepo, customerRepo: customerRepo, metrics: metrics}
}

// CheckoutInput carrito a cobrar.
type CheckoutInput struct {
	Lines      []dto.CheckoutLine
	CustomerID *string
	UserID     string
}

// mergeLines valida cantidades y suma las líneas repetidas de una misma variante.
// Devuelve las líneas ordenadas por variant_id: es el orden en que se bloquean las filas.
func mergeLines(lines []dto.CheckoutLine) ([]dto.CheckoutLine, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: el carrito está vacío", domain.ErrInvalidInput)
	}
	byID := make(map[string]int64, len(lines))
	for _, l := range lines {
		if l.VariantID == "" {
			return nil, fmt.Errorf("%w: variant_id es obligatorio", domain.ErrInvalidInput)
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
		}
		byID[l.VariantID] += l.Quantity
	}
	merged := make([]dto.CheckoutLine, 0, len(byID))
	for id, qty := range byID {
		merged = append(merged, dto.CheckoutLine{VariantID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].VariantID < merged[j].VariantID })
	return merged, nil
}

// Checkout valida todo el carrito contra el stock y solo entonces emite una salida por línea.
// Todo ocurre en una transacción: si una línea no alcanza, no se registra ninguna.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in CheckoutInput) (*dto.SaleResponse, error) {
	lines, err := mergeLines(in.Lines)
	if err != nil {
		return nil, err
	}

	sale := &dto.SaleResponse{
		Lines:       make([]dto.SaleLineDTO, 0, len(lines)),
		MovementIDs: make([]string, 0, len(lines)),
		Total:       decimal.Zero,
		CustomerID:  in.CustomerID,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if in.CustomerID != nil {
			c, err := repos.Customers.GetByID(ctx, *in.CustomerID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: cliente", domain.ErrNotFound)
			}
		}

		// 1. Bloquear y validar todas las líneas antes de escribir nada.
		variants := make([]*entity.ProductVariant, len(lines))
		for i, l := range lines {
			v, err := repos.Variants.GetForUpdate(ctx, l.VariantID)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.VariantID)
			}
			if l.Quantity > v.Quantity {
				return &domain.InsufficientStockError{
					VariantID:   v.ID,
					VariantName: v.Label(),
					Requested:   l.Quantity,
					Available:   v.Quantity,
				}
			}
			variants[i] = v
		}

		// 2. Emitir las salidas.
		now := time.Now()
		for i, l := range lines {
			v := variants[i]
			mov := &entity.StockMovement{
				ID:         uuid.New().String(),
				VariantID:  v.ID,
				Type:       entity.MovementTypeExit,
				Quantity:   l.Quantity,
				Reason:     SaleReason,
				CustomerID: in.CustomerID,
				CreatedBy:  in.UserID,
				Date:       now,
			}
			onHand, err := inventory.AppendMovement(ctx, repos, mov)
			if err != nil {
				return err
			}
			subtotal := v.SalePrice.Mul(decimal.NewFromInt(l.Quantity))
			sale.Lines = append(sale.Lines, dto.SaleLineDTO{
				MovementID: mov.ID,
				VariantID:  v.ID,
				Label:      v.Label(),
				Quantity:   l.Quantity,
				UnitPrice:  v.SalePrice,
				Subtotal:   subtotal,
				OnHand:     onHand,
			})
			sale.MovementIDs = append(sale.MovementIDs, mov.ID)
			sale.Total = sale.Total.Add(subtotal)
			sale.ItemCount += l.Quantity
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.metrics.StockRejected("checkout")
		}
		return nil, err
	}
	uc.metrics.SaleCompleted(sale.Total, sale.ItemCount)
	return sale, nil
}

// SearchVariants busca variantes para el PDV por nombre, atributo o código de barras (máx. 10).
func (uc *CheckoutUseCase) SearchVariants(ctx context.Context, q string) ([]dto.POSVariantDTO, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.POSVariantDTO{}, nil
	}
	list, err := uc.variantRepo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.POSVariantDTO, 0, len(list))
	for _, v := range list {
		out = append(out, dto.POSVariantDTO{
			ID:        v.ID,
			Label:     v.Label(),
			SalePrice: v.SalePrice,
			OnHand:    v.Quantity,
			Barcode:   v.Barcode,
		})
	}
	return out, nil
}

// SearchCustomers autocompletado de clientes en el PDV (máx. 10).
func (uc *CheckoutUseCase) SearchCustomers(ctx context.Context, q string) ([]dto.CustomerResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.CustomerResponse{}, nil
	}
	list, err := uc.customerRepo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CustomerResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Document: c.Document, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt})
	}
	return out, nil
}
