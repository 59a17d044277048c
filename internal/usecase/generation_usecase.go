package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/infrastructure/metrics"
)

// GenerationUseCase orchestrates ledger generation for a charge: it
// loads the charge's source records, dispatches the entry builder for
// the charge's type, produces the balance verdict and optionally
// persists the records.
type GenerationUseCase struct {
	chargeRepo   ChargeRepository
	txRepo       TransactionRepository
	documentRepo DocumentRepository
	dividendRepo DividendRepository
	tripRepo     TripRepository
	ledgerRepo   LedgerRepository
	converter    *Converter
	resolver     AccountResolver
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewGenerationUseCase creates a new GenerationUseCase.
func NewGenerationUseCase(
	chargeRepo ChargeRepository,
	txRepo TransactionRepository,
	documentRepo DocumentRepository,
	dividendRepo DividendRepository,
	tripRepo TripRepository,
	ledgerRepo LedgerRepository,
	converter *Converter,
	resolver AccountResolver,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *GenerationUseCase {
	return &GenerationUseCase{
		chargeRepo:   chargeRepo,
		txRepo:       txRepo,
		documentRepo: documentRepo,
		dividendRepo: dividendRepo,
		tripRepo:     tripRepo,
		ledgerRepo:   ledgerRepo,
		converter:    converter,
		resolver:     resolver,
		metrics:      m,
		logger:       logger,
	}
}

// GenerateInput represents input for generating a charge's ledger.
type GenerateInput struct {
	ChargeID string
	// Insert persists the records idempotently; false gives a pure preview.
	Insert bool
}

// GenerationResult is the outcome of a successful generation run. A
// non-empty Errors list means the run succeeded with warnings; an
// unbalanced verdict is a diagnostic flag, not an error.
type GenerationResult struct {
	Records   []*domain.LedgerRecord
	Balance   BalanceVerdict
	Errors    []string
	StoredIDs []string
}

// Generate produces the ledger records of one charge. Each invocation
// owns a fresh balance tracker; generation for distinct charges may run
// concurrently.
func (uc *GenerationUseCase) Generate(ctx context.Context, input GenerateInput) (*GenerationResult, error) {
	start := time.Now()

	charge, err := uc.chargeRepo.GetByID(ctx, input.ChargeID)
	if err != nil {
		return nil, err
	}

	bundle, err := uc.loadBundle(ctx, charge)
	if err != nil {
		return nil, err
	}

	builder, err := uc.builderFor(charge.Type)
	if err != nil {
		return nil, err
	}

	tracker := NewBalanceTracker()

	built, err := builder.Build(ctx, bundle, tracker)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.GenerationErrors.WithLabelValues(string(charge.Type)).Inc()
		}
		return nil, fmt.Errorf("charge %s: %w", charge.ID, err)
	}

	for _, record := range built.Records {
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("charge %s: record %s: %w", charge.ID, record.ID, err)
		}
	}

	result := &GenerationResult{
		Records: built.Records,
		Errors:  built.Errors,
		Balance: tracker.Verdict(),
	}

	if !result.Balance.IsBalanced {
		uc.logger.Warn().
			Str("charge_id", charge.ID).
			Strs("accounts", result.Balance.Unbalanced).
			Msg("generated ledger is unbalanced")
	}

	if input.Insert {
		storedIDs, err := uc.ledgerRepo.InsertIfNotExists(ctx, built.Records)
		if err != nil {
			return nil, fmt.Errorf("charge %s: persist records: %w", charge.ID, err)
		}
		result.StoredIDs = storedIDs
	}

	if uc.metrics != nil {
		mode := "preview"
		if input.Insert {
			mode = "insert"
		}
		uc.metrics.GenerationsTotal.WithLabelValues(string(charge.Type), mode).Inc()
		uc.metrics.GenerationDuration.WithLabelValues(string(charge.Type)).Observe(time.Since(start).Seconds())
		uc.metrics.RecordsGenerated.Add(float64(len(result.Records)))
		uc.metrics.RecordsStored.Add(float64(len(result.StoredIDs)))
		uc.metrics.CollectedItemErrors.Add(float64(len(result.Errors)))
		if !result.Balance.IsBalanced {
			uc.metrics.UnbalancedCharges.Inc()
		}
	}

	uc.logger.Debug().
		Str("charge_id", charge.ID).
		Int("records", len(result.Records)).
		Int("errors", len(result.Errors)).
		Bool("balanced", result.Balance.IsBalanced).
		Msg("ledger generated")

	return result, nil
}

// loadBundle fetches only the source records the charge's builder needs.
func (uc *GenerationUseCase) loadBundle(ctx context.Context, charge *domain.Charge) (*ChargeBundle, error) {
	bundle := &ChargeBundle{Charge: charge}

	transactions, err := uc.txRepo.ListByCharge(ctx, charge.ID)
	if err != nil {
		return nil, err
	}
	bundle.Transactions = transactions

	switch charge.Type {
	case domain.ChargeTypeCommon:
		documents, err := uc.documentRepo.ListByCharge(ctx, charge.ID)
		if err != nil {
			return nil, err
		}
		bundle.Documents = documents

	case domain.ChargeTypeDividend:
		dividends, err := uc.dividendRepo.ListByOwner(ctx, charge.OwnerID)
		if err != nil {
			return nil, err
		}
		bundle.Dividends = dividends

	case domain.ChargeTypeBusinessTrip:
		expenses, err := uc.tripRepo.ListExpensesByCharge(ctx, charge.ID)
		if err != nil {
			return nil, err
		}
		bundle.TripExpenses = expenses
	}

	return bundle, nil
}

func (uc *GenerationUseCase) builderFor(chargeType domain.ChargeType) (EntryBuilder, error) {
	switch chargeType {
	case domain.ChargeTypeCommon:
		return NewCommonBuilder(uc.converter, uc.resolver), nil
	case domain.ChargeTypeConversion:
		return NewConversionBuilder(uc.converter, uc.resolver), nil
	case domain.ChargeTypeDividend:
		return NewDividendBuilder(uc.converter, uc.resolver, uc.dividendRepo), nil
	case domain.ChargeTypeBusinessTrip:
		return NewTripBuilder(uc.converter, uc.resolver), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedChargeType, chargeType)
	}
}

// ListRecords returns the stored ledger records of a charge in insertion
// order. The charge must exist even when it has no records yet.
func (uc *GenerationUseCase) ListRecords(ctx context.Context, chargeID string) ([]*domain.LedgerRecord, error) {
	if _, err := uc.chargeRepo.GetByID(ctx, chargeID); err != nil {
		return nil, err
	}

	return uc.ledgerRepo.ListByCharge(ctx, chargeID)
}

// ListCharges returns an owner's charges, newest first.
func (uc *GenerationUseCase) ListCharges(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Charge, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return uc.chargeRepo.ListByOwner(ctx, ownerID, limit, offset)
}

// BatchItem is the per-charge outcome of a batch sweep.
type BatchItem struct {
	Result *GenerationResult
	Error  string
}

// GenerateBatch runs generation for many charges as independent,
// unordered invocations. Charges share only the read-only collaborators;
// each gets its own tracker, so the calls run concurrently.
func (uc *GenerationUseCase) GenerateBatch(ctx context.Context, chargeIDs []string, insert bool) map[string]BatchItem {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]BatchItem, len(chargeIDs))
	)

	for _, chargeID := range chargeIDs {
		wg.Add(1)

		go func(id string) {
			defer wg.Done()

			item := BatchItem{}
			result, err := uc.Generate(ctx, GenerateInput{ChargeID: id, Insert: insert})
			if err != nil {
				item.Error = err.Error()
			} else {
				item.Result = result
			}

			mu.Lock()
			results[id] = item
			mu.Unlock()
		}(chargeID)
	}

	wg.Wait()

	return results
}
