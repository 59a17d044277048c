package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgergen/internal/domain"
	"github.com/iho/ledgergen/internal/usecase"
)

// MockChargeRepository is a mock implementation of ChargeRepository.
type MockChargeRepository struct {
	mu      sync.RWMutex
	charges map[string]*domain.Charge

	GetByIDFunc     func(ctx context.Context, id string) (*domain.Charge, error)
	ListByOwnerFunc func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Charge, error)
}

func NewMockChargeRepository() *MockChargeRepository {
	return &MockChargeRepository{
		charges: make(map[string]*domain.Charge),
	}
}

func (m *MockChargeRepository) Put(charge *domain.Charge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charges[charge.ID] = charge
}

func (m *MockChargeRepository) GetByID(ctx context.Context, id string) (*domain.Charge, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if charge, ok := m.charges[id]; ok {
		return charge, nil
	}
	return nil, domain.ErrChargeNotFound
}

func (m *MockChargeRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Charge, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var charges []*domain.Charge
	for _, charge := range m.charges {
		if charge.OwnerID == ownerID {
			charges = append(charges, charge)
		}
	}
	return charges, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string][]*domain.Transaction

	ListByChargeFunc func(ctx context.Context, chargeID string) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string][]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Put(chargeID string, txs ...*domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[chargeID] = append(m.transactions[chargeID], txs...)
}

func (m *MockTransactionRepository) ListByCharge(ctx context.Context, chargeID string) ([]*domain.Transaction, error) {
	if m.ListByChargeFunc != nil {
		return m.ListByChargeFunc(ctx, chargeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactions[chargeID], nil
}

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mu        sync.RWMutex
	documents map[string][]*domain.Document

	ListByChargeFunc func(ctx context.Context, chargeID string) ([]*domain.Document, error)
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{
		documents: make(map[string][]*domain.Document),
	}
}

func (m *MockDocumentRepository) Put(chargeID string, docs ...*domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[chargeID] = append(m.documents[chargeID], docs...)
}

func (m *MockDocumentRepository) ListByCharge(ctx context.Context, chargeID string) ([]*domain.Document, error) {
	if m.ListByChargeFunc != nil {
		return m.ListByChargeFunc(ctx, chargeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[chargeID], nil
}

// MockDividendRepository is a mock implementation of DividendRepository.
type MockDividendRepository struct {
	mu        sync.RWMutex
	dividends map[string][]*domain.Dividend

	ListByOwnerFunc func(ctx context.Context, ownerID string) ([]*domain.Dividend, error)
}

func NewMockDividendRepository() *MockDividendRepository {
	return &MockDividendRepository{
		dividends: make(map[string][]*domain.Dividend),
	}
}

func (m *MockDividendRepository) Put(ownerID string, rows ...*domain.Dividend) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dividends[ownerID] = append(m.dividends[ownerID], rows...)
}

func (m *MockDividendRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Dividend, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dividends[ownerID], nil
}

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.TripExpense
	byCharge map[string][]*domain.TripExpense

	GetExpenseFunc           func(ctx context.Context, id string) (*domain.TripExpense, error)
	ListExpensesByChargeFunc func(ctx context.Context, chargeID string) ([]*domain.TripExpense, error)
	CreateExpenseFunc        func(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error
	UpdateExpenseCoreFunc    func(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		expenses: make(map[string]*domain.TripExpense),
		byCharge: make(map[string][]*domain.TripExpense),
	}
}

func (m *MockTripRepository) Put(expense *domain.TripExpense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	if expense.ChargeID != "" {
		m.byCharge[expense.ChargeID] = append(m.byCharge[expense.ChargeID], expense)
	}
}

func (m *MockTripRepository) GetExpense(ctx context.Context, id string) (*domain.TripExpense, error) {
	if m.GetExpenseFunc != nil {
		return m.GetExpenseFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if expense, ok := m.expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrTripExpenseNotFound
}

func (m *MockTripRepository) ListExpensesByCharge(ctx context.Context, chargeID string) ([]*domain.TripExpense, error) {
	if m.ListExpensesByChargeFunc != nil {
		return m.ListExpensesByChargeFunc(ctx, chargeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byCharge[chargeID], nil
}

func (m *MockTripRepository) CreateExpense(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error {
	if m.CreateExpenseFunc != nil {
		return m.CreateExpenseFunc(ctx, tx, expense)
	}
	m.Put(expense)
	return nil
}

func (m *MockTripRepository) UpdateExpenseCore(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error {
	if m.UpdateExpenseCoreFunc != nil {
		return m.UpdateExpenseCoreFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.LedgerRecord
	order   []string

	InsertIfNotExistsFunc func(ctx context.Context, records []*domain.LedgerRecord) ([]string, error)
	ListByChargeFunc      func(ctx context.Context, chargeID string) ([]*domain.LedgerRecord, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		records: make(map[string]*domain.LedgerRecord),
	}
}

func (m *MockLedgerRepository) InsertIfNotExists(ctx context.Context, records []*domain.LedgerRecord) ([]string, error) {
	if m.InsertIfNotExistsFunc != nil {
		return m.InsertIfNotExistsFunc(ctx, records)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(records))
	for _, record := range records {
		if _, exists := m.records[record.ID]; !exists {
			m.records[record.ID] = record
			m.order = append(m.order, record.ID)
		}
		ids = append(ids, record.ID)
	}
	return ids, nil
}

func (m *MockLedgerRepository) ListByCharge(ctx context.Context, chargeID string) ([]*domain.LedgerRecord, error) {
	if m.ListByChargeFunc != nil {
		return m.ListByChargeFunc(ctx, chargeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.LedgerRecord
	for _, id := range m.order {
		if m.records[id].ChargeID == chargeID {
			records = append(records, m.records[id])
		}
	}
	return records, nil
}

// Stored returns the ids persisted so far, in insertion order.
func (m *MockLedgerRepository) Stored() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// MockRateProvider is a mock implementation of RateProvider. Rates are
// keyed by currency; a missing currency returns ErrRateNotFound.
type MockRateProvider struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal

	RateFunc func(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error)
}

func NewMockRateProvider() *MockRateProvider {
	return &MockRateProvider{
		rates: make(map[string]decimal.Decimal),
	}
}

func (m *MockRateProvider) SetRate(currency string, rate decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[currency] = rate
}

func (m *MockRateProvider) Rate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	if m.RateFunc != nil {
		return m.RateFunc(ctx, currency, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rate, ok := m.rates[currency]; ok {
		return rate, nil
	}
	return decimal.Zero, domain.ErrRateNotFound
}

// MockAccountResolver is a mock implementation of AccountResolver. By
// default it resolves a tax account to its own name.
type MockAccountResolver struct {
	ResolveFunc func(ctx context.Context, account domain.TaxAccount, currency string) (string, error)
}

func NewMockAccountResolver() *MockAccountResolver {
	return &MockAccountResolver{}
}

func (m *MockAccountResolver) Resolve(ctx context.Context, account domain.TaxAccount, currency string) (string, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, account, currency)
	}
	return string(account), nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	Last *MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.Last = &MockTransaction{}
	return m.Last, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "generated-" + strconv.Itoa(m.counter)
}

// MockTripCategoryProvider is a mock implementation of TripCategoryProvider.
type MockTripCategoryProvider struct {
	CategoryValue domain.TripCategory

	UpsertFunc     func(ctx context.Context, tx usecase.Transaction, ext *domain.TripExpenseExtension) error
	UpdateCoreFunc func(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error

	Upserts     []*domain.TripExpenseExtension
	CoreUpdates []*domain.TripExpense
}

func NewMockTripCategoryProvider(category domain.TripCategory) *MockTripCategoryProvider {
	return &MockTripCategoryProvider{CategoryValue: category}
}

func (m *MockTripCategoryProvider) Category() domain.TripCategory {
	return m.CategoryValue
}

func (m *MockTripCategoryProvider) Upsert(ctx context.Context, tx usecase.Transaction, ext *domain.TripExpenseExtension) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, ext)
	}
	m.Upserts = append(m.Upserts, ext)
	return nil
}

func (m *MockTripCategoryProvider) UpdateCore(ctx context.Context, tx usecase.Transaction, expense *domain.TripExpense) error {
	if m.UpdateCoreFunc != nil {
		return m.UpdateCoreFunc(ctx, tx, expense)
	}
	m.CoreUpdates = append(m.CoreUpdates, expense)
	return nil
}
