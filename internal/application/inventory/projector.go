package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/suestoque-api/internal/application/dto"
	"github.com/jhoicas/suestoque-api/internal/application/ports"
	"github.com/jhoicas/suestoque-api/internal/domain"
	"github.com/jhoicas/suestoque-api/internal/domain/repository"
	"github.com/jhoicas/suestoque-api/internal/domain/stock"
	"github.com/jhoicas/suestoque-api/pkg/logger"
)

// Recalculate proyecta el ledger de la variante sobre su cantidad cacheada, dentro de la tx del llamador.
// Recalcula desde cero (suma por tipo) en lugar de aplicar deltas. Un saldo negativo
// aborta la unidad de trabajo con ErrInsufficientStock.
func Recalculate(ctx context.Context, repos repository.TxRepos, variantID string) (int64, error) {
	totals, err := repos.Movements.SumByType(ctx, variantID)
	if err != nil {
		return 0, fmt.Errorf("sumar movimientos: %w", err)
	}
	qty := stock.Balance(totals)
	if qty < 0 {
		return 0, fmt.Errorf("variante %s: saldo del ledger %d: %w", variantID, qty, domain.ErrInsufficientStock)
	}
	if err := repos.Variants.SetQuantity(ctx, variantID, qty); err != nil {
		return 0, fmt.Errorf("actualizar cantidad: %w", err)
	}
	return qty, nil
}

// ProjectorUseCase reparación masiva: recalcula todas las variantes desde el ledger.
type ProjectorUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	metrics     ports.StockMetrics
	log         *logger.Logger
}

// NewProjectorUseCase construye el caso de uso.
func NewProjectorUseCase(
	txRunner TxRunner,
	variantRepo repository.VariantRepository,
	metrics ports.StockMetrics,
	log *logger.Logger,
) *ProjectorUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectorUseCase{txRunner: txRunner, variantRepo: variantRepo, metrics: metrics, log: log}
}

// RecalculateAll recorre todas las variantes, cada una en su propia transacción, y corrige
// las que se desviaron del ledger. Con dryRun solo informa. Las variantes cuyo ledger da
// negativo no se escriben; se reportan aparte para revisión manual.
func (uc *ProjectorUseCase) RecalculateAll(ctx context.Context, dryRun bool) (*dto.RepairReportDTO, error) {
	ids, err := uc.variantRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	report := &dto.RepairReportDTO{
		DryRun:   dryRun,
		Total:    len(ids),
		Entries:  []dto.RepairEntryDTO{},
		Negative: []dto.RepairEntryDTO{},
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
			v, err := repos.Variants.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if v == nil {
				return nil // borrada entre el listado y el bloqueo
			}
			totals, err := repos.Movements.SumByType(ctx, id)
			if err != nil {
				return err
			}
			after := stock.Balance(totals)
			entry := dto.RepairEntryDTO{VariantID: id, Label: v.Label(), Before: v.Quantity, After: after}
			if after < 0 {
				report.Negative = append(report.Negative, entry)
				uc.log.Warn().Str("variant_id", id).Int64("ledger", after).Msg("ledger con saldo negativo; no se corrige")
				return nil
			}
			if after == v.Quantity {
				return nil
			}
			report.Entries = append(report.Entries, entry)
			if dryRun {
				return nil
			}
			return repos.Variants.SetQuantity(ctx, id, after)
		})
		if err != nil {
			return nil, fmt.Errorf("recalcular variante %s: %w", id, err)
		}
	}

	report.Corrected = len(report.Entries)
	if !dryRun && report.Corrected > 0 {
		uc.metrics.DriftCorrected(report.Corrected)
		uc.log.Warn().Int("corrected", report.Corrected).Int("total", report.Total).Msg("recalculo masivo corrigió desvíos")
	} else {
		uc.log.Info().Int("total", report.Total).Int("drift", report.Corrected).Bool("dry_run", dryRun).Msg("recalculo masivo")
	}
	return report, nil
}
