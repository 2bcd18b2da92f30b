package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memState is everything the in-memory store holds. It is copied whole to
// emulate rollback.
type memState struct {
	floats     map[string]domain.FloatAccount
	entries    []domain.FloatTransactionEntry
	txns       map[domain.ServiceType]map[string]domain.Transaction
	effects    map[string]domain.LedgerEffect
	effectSeq  []string
	journal    []domain.GLJournalEntry
	glAccounts map[string]domain.GLAccount
	mappings   []domain.GLMapping
	reversals  map[string]domain.ReversalRecord
}

func newMemState() memState {
	return memState{
		floats:     map[string]domain.FloatAccount{},
		txns:       map[domain.ServiceType]map[string]domain.Transaction{},
		effects:    map[string]domain.LedgerEffect{},
		glAccounts: map[string]domain.GLAccount{},
		reversals:  map[string]domain.ReversalRecord{},
	}
}

func (s memState) clone() memState {
	c := newMemState()
	for k, v := range s.floats {
		c.floats[k] = v
	}
	c.entries = append(c.entries, s.entries...)
	for m, rows := range s.txns {
		c.txns[m] = map[string]domain.Transaction{}
		for k, v := range rows {
			c.txns[m][k] = v
		}
	}
	for k, v := range s.effects {
		c.effects[k] = v
	}
	c.effectSeq = append(c.effectSeq, s.effectSeq...)
	c.journal = append(c.journal, s.journal...)
	for k, v := range s.glAccounts {
		c.glAccounts[k] = v
	}
	c.mappings = append(c.mappings, s.mappings...)
	for k, v := range s.reversals {
		c.reversals[k] = v
	}
	return c
}

// memStore implements every repository port over memState.
type memStore struct {
	mu    sync.Mutex
	state memState

	// failInsertEntries makes journal inserts fail while set.
	failInsertEntries error
	// effectsLocked makes every effect look held by another poster.
	effectsLocked bool
	commits       int
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (m *memStore) provider() portsrepo.RepositoryProvider {
	stores := portsrepo.TransactionRecordStores{}
	for _, module := range domain.TransactionModules {
		stores[module] = &memTxnStore{module: module, mem: m}
	}
	return portsrepo.RepositoryProvider{
		TxManager:         &memTxManager{mem: m},
		FloatAccountRepo:  m,
		GLRepo:            m,
		TransactionStores: stores,
		OutboxRepo:        m,
		ReversalRepo:      m,
		StatisticsRepo:    m,
	}
}

// --- unit of work ---

type memTxKey struct{}

type memTx struct {
	hooks []func(ctx context.Context)
}

type memTxManager struct {
	mem *memStore
}

var _ portsrepo.TransactionManager = (*memTxManager)(nil)

func (tm *memTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}
	tm.mem.mu.Lock()
	snapshot := tm.mem.state.clone()
	tm.mem.mu.Unlock()

	tx := &memTx{}
	if err := fn(context.WithValue(ctx, memTxKey{}, tx)); err != nil {
		tm.mem.mu.Lock()
		tm.mem.state = snapshot
		tm.mem.mu.Unlock()
		return err
	}
	tm.mem.mu.Lock()
	tm.mem.commits++
	tm.mem.mu.Unlock()
	for _, hook := range tx.hooks {
		hook(ctx)
	}
	return nil
}

func (tm *memTxManager) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		tx.hooks = append(tx.hooks, fn)
		return
	}
	fn(ctx)
}

// --- float accounts ---

func (m *memStore) FindFloatAccountByID(_ context.Context, accountID string) (*domain.FloatAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.state.floats[accountID]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return &acc, nil
}

func (m *memStore) FindActiveFloatAccount(_ context.Context, branchID string, accountType domain.FloatAccountType) (*domain.FloatAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.state.floats {
		if acc.BranchID == branchID && acc.AccountType == accountType && acc.IsActive {
			found := acc
			return &found, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (m *memStore) ListFloatAccounts(_ context.Context, branchID *string) ([]domain.FloatAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FloatAccount
	for _, acc := range m.state.floats {
		if branchID == nil || acc.BranchID == *branchID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

func (m *memStore) ListFloatEntries(_ context.Context, accountID string, limit int, _ *string) ([]domain.FloatTransactionEntry, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FloatTransactionEntry
	for i := len(m.state.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.state.entries[i].AccountID == accountID {
			out = append(out, m.state.entries[i])
		}
	}
	return out, nil, nil
}

func (m *memStore) SumEntriesByReference(_ context.Context, sourceModule domain.ServiceType, referenceID string) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, e := range m.state.entries {
		if e.SourceModule == sourceModule && e.ReferenceID == referenceID {
			sums[e.AccountID] = sums[e.AccountID].Add(e.Amount)
		}
	}
	return sums, nil
}

func (m *memStore) SumEntriesByAccount(_ context.Context, branchID *string) (map[string]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, e := range m.state.entries {
		acc := m.state.floats[e.AccountID]
		if branchID != nil && acc.BranchID != *branchID {
			continue
		}
		sums[e.AccountID] = sums[e.AccountID].Add(e.Amount)
	}
	return sums, nil
}

func (m *memStore) SaveFloatAccount(_ context.Context, account domain.FloatAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.state.floats {
		if acc.IsActive && acc.BranchID == account.BranchID && acc.AccountType == account.AccountType && acc.Provider == account.Provider {
			return apperrors.ErrDuplicate
		}
	}
	m.state.floats[account.AccountID] = account
	return nil
}

func (m *memStore) DeactivateFloatAccount(_ context.Context, accountID string, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.state.floats[accountID]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	acc.IsActive = false
	acc.LastUpdatedBy = userID
	acc.LastUpdatedAt = now
	m.state.floats[accountID] = acc
	return nil
}

func (m *memStore) LockFloatAccounts(_ context.Context, accountIDs []string) (map[string]domain.FloatAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]domain.FloatAccount, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := m.state.floats[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (m *memStore) UpdateFloatBalance(_ context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.state.floats[accountID]
	acc.Balance = balance
	acc.LastUpdatedBy = userID
	acc.LastUpdatedAt = now
	m.state.floats[accountID] = acc
	return nil
}

func (m *memStore) InsertFloatEntry(_ context.Context, entry domain.FloatTransactionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.entries = append(m.state.entries, entry)
	return nil
}

// --- general ledger ---

func (m *memStore) FindGLAccountByID(_ context.Context, accountID string) (*domain.GLAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.state.glAccounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (m *memStore) ListGLAccounts(_ context.Context, branchID *string) ([]domain.GLAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GLAccount
	for _, acc := range m.state.glAccounts {
		if branchID == nil || acc.BranchID == nil || *acc.BranchID == *branchID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) SaveGLAccount(_ context.Context, account domain.GLAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.state.glAccounts {
		if acc.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	m.state.glAccounts[account.AccountID] = account
	return nil
}

func (m *memStore) ListActiveMappings(_ context.Context, serviceType domain.ServiceType, txnType domain.TransactionType, branchID *string) ([]domain.GLMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GLMapping
	for _, mp := range m.state.mappings {
		if !mp.IsActive || mp.ServiceType != serviceType || mp.TransactionType != txnType {
			continue
		}
		if branchID == nil {
			if mp.BranchID == nil {
				out = append(out, mp)
			}
			continue
		}
		if mp.BranchID != nil && *mp.BranchID == *branchID {
			out = append(out, mp)
		}
	}
	return out, nil
}

func (m *memStore) ListMappings(_ context.Context, serviceType *domain.ServiceType) ([]domain.GLMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GLMapping
	for _, mp := range m.state.mappings {
		if serviceType == nil || mp.ServiceType == *serviceType {
			out = append(out, mp)
		}
	}
	return out, nil
}

func (m *memStore) SaveMapping(_ context.Context, mapping domain.GLMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.mappings = append(m.state.mappings, mapping)
	return nil
}

func (m *memStore) DeactivateMapping(_ context.Context, mappingID string, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.state.mappings {
		if m.state.mappings[i].MappingID == mappingID {
			m.state.mappings[i].IsActive = false
			m.state.mappings[i].LastUpdatedBy = userID
			m.state.mappings[i].LastUpdatedAt = now
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) FindEntriesByGrouping(_ context.Context, groupingID string) ([]domain.GLJournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GLJournalEntry
	for _, e := range m.state.journal {
		if e.GroupingID == groupingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) FindPostedEntriesBySource(_ context.Context, sourceModule domain.ServiceType, sourceTransactionID string) ([]domain.GLJournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GLJournalEntry
	for _, e := range m.state.journal {
		if e.SourceModule == sourceModule && e.SourceTransactionID == sourceTransactionID && e.Status == domain.EntryPosted {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) InsertEntries(_ context.Context, entries []domain.GLJournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsertEntries != nil {
		return m.failInsertEntries
	}
	m.state.journal = append(m.state.journal, entries...)
	return nil
}

// --- outbox ---

func (m *memStore) FindEffectByID(_ context.Context, effectID string) (*domain.LedgerEffect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.state.effects[effectID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) ListPendingEffects(_ context.Context, limit int, maxAttempts int) ([]domain.LedgerEffect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LedgerEffect
	for _, id := range m.state.effectSeq {
		e := m.state.effects[id]
		if e.Status == domain.EffectPending && e.Attempts < maxAttempts && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CountPendingEffects(_ context.Context, branchID *string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.state.effects {
		if e.Status == domain.EffectPending && (branchID == nil || e.BranchID == *branchID) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) SaveEffect(_ context.Context, effect domain.LedgerEffect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.effects[effect.EffectID] = effect
	m.state.effectSeq = append(m.state.effectSeq, effect.EffectID)
	return nil
}

func (m *memStore) LockPendingEffect(_ context.Context, effectID string) (*domain.LedgerEffect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.state.effects[effectID]
	if !ok || e.Status != domain.EffectPending || m.effectsLocked {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) MarkEffectPosted(_ context.Context, effectID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.state.effects[effectID]
	e.Status = domain.EffectPosted
	e.PostedAt = &now
	m.state.effects[effectID] = e
	return nil
}

func (m *memStore) RecordEffectFailure(_ context.Context, effectID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.state.effects[effectID]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Attempts++
	e.LastError = &reason
	m.state.effects[effectID] = e
	return nil
}

func (m *memStore) CancelPendingEffects(_ context.Context, sourceModule domain.ServiceType, sourceTransactionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.state.effects {
		if e.Status == domain.EffectPending && e.SourceModule == sourceModule && e.SourceTransactionID == sourceTransactionID {
			e.Status = domain.EffectCancelled
			m.state.effects[id] = e
			n++
		}
	}
	return n, nil
}

// --- reversal requests ---

func (m *memStore) FindReversalByID(_ context.Context, reversalID string) (*domain.ReversalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.state.reversals[reversalID]
	if !ok {
		return nil, apperrors.ErrReversalNotFound
	}
	return &r, nil
}

func (m *memStore) FindPendingReversal(_ context.Context, sourceModule domain.ServiceType, transactionID string) (*domain.ReversalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.state.reversals {
		if r.SourceModule == sourceModule && r.TransactionID == transactionID && r.Status == domain.ReversalPending {
			found := r
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) ListReversals(_ context.Context, filter portsrepo.ReversalFilter) ([]domain.ReversalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ReversalRecord
	for _, r := range m.state.reversals {
		if filter.BranchID != nil && r.BranchID != *filter.BranchID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memStore) SaveReversal(_ context.Context, record domain.ReversalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.reversals[record.ReversalID] = record
	return nil
}

func (m *memStore) MarkReviewed(_ context.Context, reversalID string, status domain.ReversalStatus, reviewerID string, note *string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.state.reversals[reversalID]
	if !ok {
		return apperrors.ErrReversalNotFound
	}
	if r.Status != domain.ReversalPending {
		return apperrors.ErrAlreadyReviewed
	}
	r.Status = status
	r.ReviewedBy = &reviewerID
	r.ReviewNote = note
	r.ReviewedAt = &now
	m.state.reversals[reversalID] = r
	return nil
}

// --- statistics ---

func (m *memStore) AccountBalances(_ context.Context, branchID *string) ([]domain.GLAccountBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := map[string]*domain.GLAccountBalance{}
	for _, e := range m.state.journal {
		if e.Status != domain.EntryPosted || (branchID != nil && e.BranchID != *branchID) {
			continue
		}
		b, ok := totals[e.GLAccountID]
		if !ok {
			acc := m.state.glAccounts[e.GLAccountID]
			b = &domain.GLAccountBalance{AccountID: acc.AccountID, Code: acc.Code, AccountName: acc.Name, AccountType: acc.AccountType}
			totals[e.GLAccountID] = b
		}
		b.Debit = b.Debit.Add(e.Debit)
		b.Credit = b.Credit.Add(e.Credit)
	}
	out := make([]domain.GLAccountBalance, 0, len(totals))
	for _, b := range totals {
		if b.AccountType == domain.Asset || b.AccountType == domain.Expense {
			b.Balance = b.Debit.Sub(b.Credit)
		} else {
			b.Balance = b.Credit.Sub(b.Debit)
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) UnbalancedGroupings(_ context.Context, branchID *string) ([]domain.UnbalancedGrouping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := map[string]*domain.UnbalancedGrouping{}
	for _, e := range m.state.journal {
		if e.Status != domain.EntryPosted || (branchID != nil && e.BranchID != *branchID) {
			continue
		}
		g, ok := sums[e.GroupingID]
		if !ok {
			g = &domain.UnbalancedGrouping{GroupingID: e.GroupingID}
			sums[e.GroupingID] = g
		}
		g.Debit = g.Debit.Add(e.Debit)
		g.Credit = g.Credit.Add(e.Credit)
	}
	var out []domain.UnbalancedGrouping
	for _, g := range sums {
		if !g.Debit.Equal(g.Credit) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memStore) PendingEffectsByAccount(_ context.Context, branchID *string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int{}
	for _, e := range m.state.effects {
		if e.Status == domain.EffectPending && (branchID == nil || e.BranchID == *branchID) {
			out[e.FloatAccountID]++
		}
	}
	return out, nil
}

// --- transaction tables ---

type memTxnStore struct {
	module domain.ServiceType
	mem    *memStore
}

var _ portsrepo.TransactionRecordStore = (*memTxnStore)(nil)

func (s *memTxnStore) Module() domain.ServiceType { return s.module }

func (s *memTxnStore) rows() map[string]domain.Transaction {
	rows, ok := s.mem.state.txns[s.module]
	if !ok {
		rows = map[string]domain.Transaction{}
		s.mem.state.txns[s.module] = rows
	}
	return rows
}

func (s *memTxnStore) Insert(_ context.Context, txn domain.Transaction) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	rows := s.rows()
	if txn.IdempotencyKey != nil {
		for _, r := range rows {
			if r.IdempotencyKey != nil && *r.IdempotencyKey == *txn.IdempotencyKey {
				return apperrors.ErrDuplicate
			}
		}
	}
	rows[txn.TransactionID] = txn
	return nil
}

func (s *memTxnStore) Find(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	txn, ok := s.rows()[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, transactionID)
	}
	return &txn, nil
}

func (s *memTxnStore) FindForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.Find(ctx, transactionID)
}

func (s *memTxnStore) FindByIdempotencyKey(_ context.Context, key string) (*domain.Transaction, error) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	for _, r := range s.rows() {
		if r.IdempotencyKey != nil && *r.IdempotencyKey == key {
			found := r
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memTxnStore) Update(_ context.Context, txn domain.Transaction) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	rows := s.rows()
	if _, ok := rows[txn.TransactionID]; !ok {
		return apperrors.ErrTransactionNotFound
	}
	rows[txn.TransactionID] = txn
	return nil
}

func (s *memTxnStore) UpdateStatus(_ context.Context, transactionID string, status domain.TransactionStatus, deleteReason *string, userID string, now time.Time) error {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	rows := s.rows()
	txn, ok := rows[transactionID]
	if !ok {
		return apperrors.ErrTransactionNotFound
	}
	txn.Status = status
	txn.DeleteReason = deleteReason
	txn.LastUpdatedBy = userID
	txn.LastUpdatedAt = now
	rows[transactionID] = txn
	return nil
}

// --- seeding helpers ---

func (m *memStore) seedFloat(acc domain.FloatAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.floats[acc.AccountID] = acc
}

func (m *memStore) seedGLAccount(acc domain.GLAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.glAccounts[acc.AccountID] = acc
}

func (m *memStore) seedMapping(mp domain.GLMapping) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.mappings = append(m.state.mappings, mp)
}

func (m *memStore) balance(accountID string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.floats[accountID].Balance
}

func (m *memStore) journalEntries() []domain.GLJournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.GLJournalEntry(nil), m.state.journal...)
}

func (m *memStore) floatEntries() []domain.FloatTransactionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.FloatTransactionEntry(nil), m.state.entries...)
}

func (m *memStore) effectsOf(transactionID string) []domain.LedgerEffect {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LedgerEffect
	for _, id := range m.state.effectSeq {
		if e := m.state.effects[id]; e.SourceTransactionID == transactionID {
			out = append(out, e)
		}
	}
	return out
}
