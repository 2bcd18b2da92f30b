package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/core/services"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/branchops/float_ledger/internal/platform/config"
	"github.com/branchops/float_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const branchA = "branch-a"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// LedgerFlowTestSuite drives the wired services over the in-memory store.
type LedgerFlowTestSuite struct {
	suite.Suite
	ctx       context.Context
	mem       *memStore
	container *portssvc.ServiceContainer

	admin   domain.Actor
	manager domain.Actor
	cashier domain.Actor
	outside domain.Actor

	momoFloat *domain.FloatAccount
	cashTill  *domain.FloatAccount
	glCash    *domain.GLAccount
	glMomo    *domain.GLAccount
	glFees    *domain.GLAccount
}

func TestLedgerFlowTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerFlowTestSuite))
}

func (s *LedgerFlowTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mem = newMemStore()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.container = services.NewServiceContainer(&config.Config{
		RelayBatchSize:   10,
		RelayMaxAttempts: 5,
		RelayConcurrency: 1,
	}, s.mem.provider(), services.Dependencies{
		Clock: func() time.Time { return clock },
	})

	s.admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin, BranchID: "hq"}
	s.manager = domain.Actor{UserID: "manager-1", Role: domain.RoleManager, BranchID: branchA}
	s.cashier = domain.Actor{UserID: "cashier-1", Role: domain.RoleCashier, BranchID: branchA}
	s.outside = domain.Actor{UserID: "cashier-9", Role: domain.RoleCashier, BranchID: "branch-z"}

	s.momoFloat = s.openFloat(domain.FloatMomo, "10000")
	s.cashTill = s.openFloat(domain.FloatCashInTill, "2000")

	s.glCash = s.createGLAccount("1000", "Cash", domain.Asset)
	s.glMomo = s.createGLAccount("2100", "MoMo float payable", domain.Liability)
	s.glFees = s.createGLAccount("4000", "Fee income", domain.Revenue)

	s.mapLeg(domain.ServiceMomo, domain.TxnDeposit, s.glCash, domain.Debit, domain.BasisTotal)
	s.mapLeg(domain.ServiceMomo, domain.TxnDeposit, s.glMomo, domain.Credit, domain.BasisPrincipal)
	s.mapLeg(domain.ServiceMomo, domain.TxnDeposit, s.glFees, domain.Credit, domain.BasisFee)
}

func (s *LedgerFlowTestSuite) openFloat(accountType domain.FloatAccountType, opening string) *domain.FloatAccount {
	acc, err := s.container.FloatAccount.CreateFloatAccount(s.ctx, dto.CreateFloatAccountRequest{
		BranchID:       branchA,
		AccountType:    accountType,
		OpeningBalance: dec(opening),
	}, s.admin)
	s.Require().NoError(err)
	return acc
}

func (s *LedgerFlowTestSuite) createGLAccount(code, name string, accountType domain.GLAccountType) *domain.GLAccount {
	acc, err := s.container.GLConfig.CreateGLAccount(s.ctx, dto.CreateGLAccountRequest{
		Code:        code,
		Name:        name,
		AccountType: accountType,
	}, s.admin)
	s.Require().NoError(err)
	return acc
}

func (s *LedgerFlowTestSuite) mapLeg(service domain.ServiceType, txnType domain.TransactionType, gl *domain.GLAccount, side domain.EntrySide, basis domain.MappingBasis) {
	_, err := s.container.GLConfig.CreateMapping(s.ctx, dto.CreateGLMappingRequest{
		ServiceType:     service,
		TransactionType: txnType,
		GLAccountID:     gl.AccountID,
		Side:            side,
		Basis:           basis,
	}, s.admin)
	s.Require().NoError(err)
}

func (s *LedgerFlowTestSuite) create(module domain.ServiceType, txnType domain.TransactionType, amount, fee string) (*domain.TransactionResult, error) {
	return s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module: module,
		Action: domain.ActionCreate,
		Actor:  s.cashier,
		Intent: &domain.TransactionIntent{
			TransactionType: txnType,
			Amount:          dec(amount),
			Fee:             dec(fee),
			CustomerName:    "Ama Mensah",
			CustomerPhone:   "0244000000",
		},
	})
}

func (s *LedgerFlowTestSuite) command(module domain.ServiceType, action domain.Action, actor domain.Actor, txnID string) (*domain.TransactionResult, error) {
	return s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module:        module,
		Action:        action,
		Actor:         actor,
		TransactionID: txnID,
		Reason:        "customer dispute",
	})
}

// assertLedgerBalanced checks every grouping and the ledger as a whole.
func (s *LedgerFlowTestSuite) assertLedgerBalanced() {
	groups := map[string][]domain.GLJournalEntry{}
	for _, e := range s.mem.journalEntries() {
		groups[e.GroupingID] = append(groups[e.GroupingID], e)
	}
	for id, entries := range groups {
		s.NoError(accounting.ValidateBalance(entries), "grouping %s", id)
	}
	stats, err := s.container.GLStatistics.Statistics(s.ctx, nil, s.admin)
	s.Require().NoError(err)
	s.True(stats.IsBalanced)
	for _, f := range stats.Floats {
		s.True(f.Difference.IsZero(), "float %s stored %s replayed %s", f.AccountID, f.StoredBalance, f.EntryBalance)
	}
}

func (s *LedgerFlowTestSuite) TestDeposit_MovesFloatAndPostsJournal() {
	res, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")

	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, res.Transaction.Status)
	s.Require().NotNil(res.FloatAccount)
	s.True(res.FloatAccount.Balance.Equal(dec("10505")))
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10505")))
	s.False(res.ReconciliationPending)
	s.Len(res.Journal, 3)
	s.NotEmpty(res.GroupingID)

	effects := s.mem.effectsOf(res.Transaction.TransactionID)
	s.Require().Len(effects, 1)
	s.Equal(domain.EffectPosted, effects[0].Status)
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestReverse_RestoresBalanceOnce() {
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)
	txnID := created.Transaction.TransactionID

	reversed, err := s.command(domain.ServiceMomo, domain.ActionReverse, s.cashier, txnID)
	s.Require().NoError(err)
	s.Equal(domain.StatusReversed, reversed.Transaction.Status)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
	s.Len(reversed.Journal, 3)
	s.False(reversed.ReconciliationPending)

	entriesBefore := len(s.mem.floatEntries())
	journalBefore := len(s.mem.journalEntries())

	_, err = s.command(domain.ServiceMomo, domain.ActionReverse, s.cashier, txnID)
	s.ErrorIs(err, apperrors.ErrAlreadyReversed)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
	s.Len(s.mem.floatEntries(), entriesBefore)
	s.Len(s.mem.journalEntries(), journalBefore)

	stats, err := s.container.GLStatistics.Statistics(s.ctx, nil, s.admin)
	s.Require().NoError(err)
	for _, b := range stats.Accounts {
		s.True(b.Balance.IsZero(), "account %s left with %s", b.Code, b.Balance)
	}
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestEdit_AppliesOnlyTheDelta() {
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)
	txnID := created.Transaction.TransactionID

	amount := dec("700")
	edited, err := s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module:        domain.ServiceMomo,
		Action:        domain.ActionEdit,
		Actor:         s.cashier,
		TransactionID: txnID,
		Changes:       &domain.TransactionChanges{Amount: &amount},
	})
	s.Require().NoError(err)
	s.True(edited.Transaction.Amount.Equal(dec("700")))
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10705")))
	s.Require().Len(edited.FloatEntries, 1)
	s.True(edited.FloatEntries[0].Amount.Equal(dec("200")))
	// The fee leg is zero for this delta and is dropped.
	s.Len(edited.Journal, 2)

	// A second identical edit is a no-op for the float.
	_, err = s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module:        domain.ServiceMomo,
		Action:        domain.ActionEdit,
		Actor:         s.cashier,
		TransactionID: txnID,
		Changes:       &domain.TransactionChanges{Amount: &amount},
	})
	s.Require().NoError(err)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10705")))

	_, err = s.command(domain.ServiceMomo, domain.ActionReverse, s.cashier, txnID)
	s.Require().NoError(err)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestWithdrawal_InsufficientFloatRollsBack() {
	_, err := s.create(domain.ServiceMomo, domain.TxnWithdrawal, "20000", "0")

	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
	s.Empty(s.mem.state.txns[domain.ServiceMomo])
	s.Empty(s.mem.state.effects)
}

func (s *LedgerFlowTestSuite) TestMissingMapping_CommitsAndRelayPostsLater() {
	res, err := s.create(domain.ServiceMomo, domain.TxnCashOut, "100", "0")

	s.Require().NoError(err)
	s.True(res.ReconciliationPending)
	s.Empty(res.Journal)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("9900")))

	effects := s.mem.effectsOf(res.Transaction.TransactionID)
	s.Require().Len(effects, 1)
	s.Equal(domain.EffectPending, effects[0].Status)
	s.Equal(1, effects[0].Attempts)

	s.mapLeg(domain.ServiceMomo, domain.TxnCashOut, s.glMomo, domain.Debit, domain.BasisPrincipal)
	s.mapLeg(domain.ServiceMomo, domain.TxnCashOut, s.glCash, domain.Credit, domain.BasisPrincipal)

	report, err := s.container.Relay.RunOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(portssvc.RelayReport{Picked: 1, Posted: 1}, report)
	s.Equal(domain.EffectPosted, s.mem.effectsOf(res.Transaction.TransactionID)[0].Status)
	s.Len(s.mem.journalEntries(), 2)
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestJournalFailure_DoesNotAbortBusinessTransaction() {
	s.mem.failInsertEntries = errors.New("connection reset")

	res, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")

	s.Require().NoError(err)
	s.True(res.ReconciliationPending)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10505")))

	stats, err := s.container.GLStatistics.Statistics(s.ctx, nil, s.admin)
	s.Require().NoError(err)
	s.Equal(1, stats.PendingEffects)

	s.mem.failInsertEntries = nil
	report, err := s.container.Relay.RunOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, report.Posted)
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestReverseBeforePosting_CancelsPendingEffect() {
	s.mem.failInsertEntries = errors.New("connection reset")
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)
	s.mem.failInsertEntries = nil

	reversed, err := s.container.Reversal.Execute(s.ctx, domain.ReversalCommand{
		TransactionID: created.Transaction.TransactionID,
		SourceModule:  domain.ServiceMomo,
		Reason:        "keyed twice",
		Actor:         s.cashier,
	})

	s.Require().NoError(err)
	s.Equal(1, reversed.CancelledEffects)
	s.False(reversed.ReconciliationPending)
	s.Empty(s.mem.journalEntries())
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
}

func (s *LedgerFlowTestSuite) TestIdempotencyKey_ReplaysWithoutSecondEffect() {
	intent := &domain.TransactionIntent{
		TransactionType: domain.TxnDeposit,
		Amount:          dec("500"),
		Fee:             dec("5"),
		CustomerName:    "Ama Mensah",
		IdempotencyKey:  "till-7-0001",
	}
	cmd := domain.Command{Module: domain.ServiceMomo, Action: domain.ActionCreate, Actor: s.cashier, Intent: intent}

	first, err := s.container.Dispatcher.Dispatch(s.ctx, cmd)
	s.Require().NoError(err)
	second, err := s.container.Dispatcher.Dispatch(s.ctx, cmd)
	s.Require().NoError(err)

	s.True(second.Replayed)
	s.Equal(first.Transaction.TransactionID, second.Transaction.TransactionID)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10505")))
}

func (s *LedgerFlowTestSuite) TestCrossBranchActor_IsForbidden() {
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)

	_, err = s.command(domain.ServiceMomo, domain.ActionReverse, s.outside, created.Transaction.TransactionID)

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10505")))
}

func (s *LedgerFlowTestSuite) TestDelete_RequiresAdmin() {
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)
	txnID := created.Transaction.TransactionID

	_, err = s.command(domain.ServiceMomo, domain.ActionDelete, s.cashier, txnID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	deleted, err := s.command(domain.ServiceMomo, domain.ActionDelete, s.admin, txnID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDeleted, deleted.Transaction.Status)
	s.Require().NotNil(deleted.Transaction.DeleteReason)
	s.Equal("customer dispute", *deleted.Transaction.DeleteReason)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))

	_, err = s.command(domain.ServiceMomo, domain.ActionReverse, s.admin, txnID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *LedgerFlowTestSuite) TestPowerSale_AppliesEffectsOnCompletion() {
	power, err := s.container.FloatAccount.CreateFloatAccount(s.ctx, dto.CreateFloatAccountRequest{
		BranchID:       branchA,
		AccountType:    domain.FloatPower,
		OpeningBalance: dec("1000"),
	}, s.admin)
	s.Require().NoError(err)

	created, err := s.create(domain.ServicePower, domain.TxnSale, "150", "0")
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, created.Transaction.Status)
	s.True(s.mem.balance(power.AccountID).Equal(dec("1000")))
	s.Empty(s.mem.effectsOf(created.Transaction.TransactionID))

	completed, err := s.command(domain.ServicePower, domain.ActionComplete, s.cashier, created.Transaction.TransactionID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, completed.Transaction.Status)
	s.True(s.mem.balance(power.AccountID).Equal(dec("850")))

	_, err = s.command(domain.ServicePower, domain.ActionComplete, s.cashier, created.Transaction.TransactionID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.True(s.mem.balance(power.AccountID).Equal(dec("850")))
}

func (s *LedgerFlowTestSuite) TestEZwichDisburse_OnlyOnce() {
	_, err := s.container.FloatAccount.CreateFloatAccount(s.ctx, dto.CreateFloatAccountRequest{
		BranchID:    branchA,
		AccountType: domain.FloatEZwich,
	}, s.admin)
	s.Require().NoError(err)

	created, err := s.create(domain.ServiceEZwich, domain.TxnDeposit, "300", "3")
	s.Require().NoError(err)
	txnID := created.Transaction.TransactionID

	disbursed, err := s.command(domain.ServiceEZwich, domain.ActionDisburse, s.cashier, txnID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDisbursed, disbursed.Transaction.Status)

	_, err = s.command(domain.ServiceEZwich, domain.ActionDisburse, s.cashier, txnID)
	s.ErrorIs(err, apperrors.ErrAlreadyDisbursed)

	_, err = s.command(domain.ServiceMomo, domain.ActionDisburse, s.cashier, txnID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *LedgerFlowTestSuite) TestReversalApproval_ExecutesExactlyOnce() {
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)

	record, err := s.container.Reversals.RequestReversal(s.ctx, dto.CreateReversalRequest{
		TransactionID: created.Transaction.TransactionID,
		SourceModule:  domain.ServiceMomo,
		Reason:        "wrong number",
	}, s.cashier)
	s.Require().NoError(err)
	s.Equal(domain.ReversalPending, record.Status)

	_, err = s.container.Reversals.RequestReversal(s.ctx, dto.CreateReversalRequest{
		TransactionID: created.Transaction.TransactionID,
		SourceModule:  domain.ServiceMomo,
		Reason:        "wrong number again",
	}, s.cashier)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.container.Reversals.ApproveReversal(s.ctx, record.ReversalID, nil, s.cashier)
	s.ErrorIs(err, apperrors.ErrForbidden)

	result, err := s.container.Reversals.ApproveReversal(s.ctx, record.ReversalID, nil, s.manager)
	s.Require().NoError(err)
	s.Equal(domain.StatusReversed, result.Transaction.Status)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))

	_, err = s.container.Reversals.ApproveReversal(s.ctx, record.ReversalID, nil, s.admin)
	s.ErrorIs(err, apperrors.ErrAlreadyReviewed)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestReversalApproval_FailureLeavesRequestPending() {
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)
	record, err := s.container.Reversals.RequestReversal(s.ctx, dto.CreateReversalRequest{
		TransactionID: created.Transaction.TransactionID,
		SourceModule:  domain.ServiceMomo,
		Reason:        "wrong number",
	}, s.cashier)
	s.Require().NoError(err)

	// The float was drained elsewhere, so compensation cannot complete.
	_, err = s.create(domain.ServiceMomo, domain.TxnWithdrawal, "10505", "0")
	s.Require().NoError(err)

	_, err = s.container.Reversals.ApproveReversal(s.ctx, record.ReversalID, nil, s.manager)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)

	pending := domain.ReversalPending
	list, err := s.container.Reversals.ListReversals(s.ctx, dto.ListReversalsParams{Status: &pending}, s.manager)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(record.ReversalID, list[0].ReversalID)
}

func (s *LedgerFlowTestSuite) TestRecharge_MovesValueBetweenFloats() {
	res, err := s.container.Float.Recharge(s.ctx, dto.RechargeFloatRequest{
		TargetAccountID: s.momoFloat.AccountID,
		SourceAccountID: s.cashTill.AccountID,
		Amount:          dec("750"),
	}, s.cashier)

	s.Require().NoError(err)
	s.True(res.To.Balance.Equal(dec("10750")))
	s.True(res.From.Balance.Equal(dec("1250")))
	// No float/recharge mapping is configured.
	s.True(res.ReconciliationPending)

	_, err = s.container.Float.Recharge(s.ctx, dto.RechargeFloatRequest{
		TargetAccountID: s.momoFloat.AccountID,
		SourceAccountID: s.cashTill.AccountID,
		Amount:          dec("5000"),
	}, s.cashier)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.True(s.mem.balance(s.cashTill.AccountID).Equal(dec("1250")))
}

func (s *LedgerFlowTestSuite) TestExchange_FloatToCash() {
	res, err := s.container.Float.Exchange(s.ctx, dto.ExchangeFloatRequest{
		FloatAccountID: s.momoFloat.AccountID,
		Amount:         dec("400"),
		Direction:      dto.FloatToCash,
	}, s.cashier)

	s.Require().NoError(err)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("9600")))
	s.True(s.mem.balance(s.cashTill.AccountID).Equal(dec("2400")))
	s.Equal(domain.EntryExchangeOut, res.OutEntry.EntryType)
	s.Equal(domain.EntryExchangeIn, res.InEntry.EntryType)
}

func (s *LedgerFlowTestSuite) TestInactiveFloat_RejectsNewTransactions() {
	s.Require().NoError(s.container.FloatAccount.DeactivateFloatAccount(s.ctx, s.momoFloat.AccountID, s.admin))

	_, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")

	s.Error(err)
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
}

func (s *LedgerFlowTestSuite) TestExplicitFloatAccount_MustMatchServiceType() {
	_, err := s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module: domain.ServiceMomo,
		Action: domain.ActionCreate,
		Actor:  s.cashier,
		Intent: &domain.TransactionIntent{
			TransactionType: domain.TxnDeposit,
			Amount:          dec("500"),
			Fee:             dec("5"),
			CustomerName:    "Ama Mensah",
			FloatAccountID:  s.cashTill.AccountID,
		},
	})

	s.ErrorIs(err, apperrors.ErrValidation)
	s.True(s.mem.balance(s.cashTill.AccountID).Equal(dec("2000")))
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
	s.Empty(s.mem.state.txns[domain.ServiceMomo])
}

func (s *LedgerFlowTestSuite) TestFeeOnlyEdit_WithoutFeeLegLeavesNothingPending() {
	s.mapLeg(domain.ServiceMomo, domain.TxnWithdrawal, s.glMomo, domain.Debit, domain.BasisPrincipal)
	s.mapLeg(domain.ServiceMomo, domain.TxnWithdrawal, s.glCash, domain.Credit, domain.BasisPrincipal)

	created, err := s.create(domain.ServiceMomo, domain.TxnWithdrawal, "100", "2")
	s.Require().NoError(err)
	s.False(created.ReconciliationPending)
	journalBefore := len(s.mem.journalEntries())

	fee := dec("3")
	edited, err := s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module:        domain.ServiceMomo,
		Action:        domain.ActionEdit,
		Actor:         s.cashier,
		TransactionID: created.Transaction.TransactionID,
		Changes:       &domain.TransactionChanges{Fee: &fee},
	})

	s.Require().NoError(err)
	s.True(edited.Transaction.Fee.Equal(fee))
	s.False(edited.ReconciliationPending)
	s.Len(s.mem.effectsOf(created.Transaction.TransactionID), 1)
	s.Len(s.mem.journalEntries(), journalBefore)

	stats, err := s.container.GLStatistics.Statistics(s.ctx, nil, s.admin)
	s.Require().NoError(err)
	s.Zero(stats.PendingEffects)
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestJumiaComplete_FinalizesPendingOrder() {
	jumia, err := s.container.FloatAccount.CreateFloatAccount(s.ctx, dto.CreateFloatAccountRequest{
		BranchID:    branchA,
		AccountType: domain.FloatJumia,
	}, s.admin)
	s.Require().NoError(err)

	created, err := s.create(domain.ServiceJumia, domain.TxnPODCollection, "250", "0")
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, created.Transaction.Status)
	s.True(s.mem.balance(jumia.AccountID).IsZero())

	completed, err := s.command(domain.ServiceJumia, domain.ActionComplete, s.cashier, created.Transaction.TransactionID)
	s.Require().NoError(err)
	s.Equal(domain.StatusSettled, completed.Transaction.Status)
	s.True(s.mem.balance(jumia.AccountID).Equal(dec("250")))
	s.Len(s.mem.effectsOf(created.Transaction.TransactionID), 1)

	_, err = s.command(domain.ServiceJumia, domain.ActionComplete, s.cashier, created.Transaction.TransactionID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	_, err = s.command(domain.ServiceJumia, domain.ActionDeliver, s.cashier, created.Transaction.TransactionID)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.True(s.mem.balance(jumia.AccountID).Equal(dec("250")))
}

func (s *LedgerFlowTestSuite) TestJumiaDeliverThenComplete_MovesFloatOnce() {
	jumia, err := s.container.FloatAccount.CreateFloatAccount(s.ctx, dto.CreateFloatAccountRequest{
		BranchID:    branchA,
		AccountType: domain.FloatJumia,
	}, s.admin)
	s.Require().NoError(err)

	created, err := s.create(domain.ServiceJumia, domain.TxnPODCollection, "250", "0")
	s.Require().NoError(err)
	txnID := created.Transaction.TransactionID

	_, err = s.command(domain.ServiceJumia, domain.ActionDeliver, s.cashier, txnID)
	s.Require().NoError(err)
	s.True(s.mem.balance(jumia.AccountID).Equal(dec("250")))

	settled, err := s.command(domain.ServiceJumia, domain.ActionComplete, s.cashier, txnID)
	s.Require().NoError(err)
	s.Equal(domain.StatusSettled, settled.Transaction.Status)
	s.True(s.mem.balance(jumia.AccountID).Equal(dec("250")))
	s.Len(s.mem.effectsOf(txnID), 1)
}

func (s *LedgerFlowTestSuite) TestFloatEntries_ChainBalances() {
	created, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)
	txnID := created.Transaction.TransactionID

	amount := dec("320")
	_, err = s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module:        domain.ServiceMomo,
		Action:        domain.ActionEdit,
		Actor:         s.cashier,
		TransactionID: txnID,
		Changes:       &domain.TransactionChanges{Amount: &amount},
	})
	s.Require().NoError(err)
	_, err = s.command(domain.ServiceMomo, domain.ActionReverse, s.cashier, txnID)
	s.Require().NoError(err)

	var chain []domain.FloatTransactionEntry
	for _, e := range s.mem.floatEntries() {
		if e.AccountID == s.momoFloat.AccountID {
			chain = append(chain, e)
		}
	}
	// opening, create, edit, reverse
	s.Require().Len(chain, 4)
	for i, e := range chain {
		s.True(e.BalanceBefore.Add(e.Amount).Equal(e.BalanceAfter), "entry %d does not add up", i)
		if i > 0 {
			s.True(chain[i-1].BalanceAfter.Equal(e.BalanceBefore), "entry %d breaks the chain", i)
		}
	}
	s.True(chain[len(chain)-1].BalanceAfter.Equal(s.mem.balance(s.momoFloat.AccountID)))
	s.True(s.mem.balance(s.momoFloat.AccountID).Equal(dec("10000")))
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestEffectHeldElsewhere_StaysPending() {
	s.mem.effectsLocked = true

	res, err := s.create(domain.ServiceMomo, domain.TxnDeposit, "500", "5")
	s.Require().NoError(err)
	s.True(res.ReconciliationPending)
	s.Empty(res.Journal)

	effects := s.mem.effectsOf(res.Transaction.TransactionID)
	s.Require().Len(effects, 1)
	s.Equal(domain.EffectPending, effects[0].Status)
	s.Zero(effects[0].Attempts)

	report, err := s.container.Relay.RunOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(portssvc.RelayReport{Picked: 1}, report)

	s.mem.effectsLocked = false
	report, err = s.container.Relay.RunOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(portssvc.RelayReport{Picked: 1, Posted: 1}, report)
	s.Len(s.mem.journalEntries(), 3)
	s.assertLedgerBalanced()
}

func (s *LedgerFlowTestSuite) TestQueuedFeeOnlyEffect_PostsAsNoopOncePrincipalMapped() {
	created, err := s.create(domain.ServiceMomo, domain.TxnCashOut, "100", "2")
	s.Require().NoError(err)

	fee := dec("3")
	edited, err := s.container.Dispatcher.Dispatch(s.ctx, domain.Command{
		Module:        domain.ServiceMomo,
		Action:        domain.ActionEdit,
		Actor:         s.cashier,
		TransactionID: created.Transaction.TransactionID,
		Changes:       &domain.TransactionChanges{Fee: &fee},
	})
	s.Require().NoError(err)
	// Unmapped at edit time, so the delta is queued.
	s.True(edited.ReconciliationPending)
	s.Len(s.mem.effectsOf(created.Transaction.TransactionID), 2)

	s.mapLeg(domain.ServiceMomo, domain.TxnCashOut, s.glMomo, domain.Debit, domain.BasisPrincipal)
	s.mapLeg(domain.ServiceMomo, domain.TxnCashOut, s.glCash, domain.Credit, domain.BasisPrincipal)

	report, err := s.container.Relay.RunOnce(s.ctx)
	s.Require().NoError(err)
	s.Equal(portssvc.RelayReport{Picked: 2, Posted: 2}, report)
	for _, e := range s.mem.effectsOf(created.Transaction.TransactionID) {
		s.Equal(domain.EffectPosted, e.Status)
	}
	s.Len(s.mem.journalEntries(), 2)
	s.assertLedgerBalanced()
}
