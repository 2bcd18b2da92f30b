package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/branchops/float_ledger/internal/handlers"
	"github.com/branchops/float_ledger/internal/middleware"
	"github.com/branchops/float_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionDispatcher ---
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, cmd domain.Command) (*domain.TransactionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionResult), args.Error(1)
}

func (m *MockDispatcher) GetTransaction(ctx context.Context, module domain.ServiceType, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	args := m.Called(ctx, module, transactionID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransactionDispatcherSvc = (*MockDispatcher)(nil)

// --- Mock ReversalRequestService ---
type MockReversalRequests struct {
	mock.Mock
}

func (m *MockReversalRequests) RequestReversal(ctx context.Context, req dto.CreateReversalRequest, actor domain.Actor) (*domain.ReversalRecord, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReversalRecord), args.Error(1)
}

func (m *MockReversalRequests) ApproveReversal(ctx context.Context, reversalID string, note *string, actor domain.Actor) (*domain.ReversalResult, error) {
	args := m.Called(ctx, reversalID, note, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReversalResult), args.Error(1)
}

func (m *MockReversalRequests) RejectReversal(ctx context.Context, reversalID string, note *string, actor domain.Actor) (*domain.ReversalRecord, error) {
	args := m.Called(ctx, reversalID, note, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReversalRecord), args.Error(1)
}

func (m *MockReversalRequests) ListReversals(ctx context.Context, params dto.ListReversalsParams, actor domain.Actor) ([]domain.ReversalRecord, error) {
	args := m.Called(ctx, params, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReversalRecord), args.Error(1)
}

var _ portssvc.ReversalRequestSvc = (*MockReversalRequests)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockDispatcher *MockDispatcher
	mockReversals  *MockReversalRequests
	jwtSecret      string
	cashier        domain.Actor
	admin          domain.Actor
}

func (suite *TransactionHandlerTestSuite) generateTestToken(actor domain.Actor) string {
	claims := middleware.ActorClaims{
		Role:     string(actor.Role),
		BranchID: actor.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.cashier = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCashier, BranchID: "branch-a"}
	suite.admin = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleAdmin}

	suite.mockDispatcher = new(MockDispatcher)
	suite.mockReversals = new(MockReversalRequests)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	container := &portssvc.ServiceContainer{
		Dispatcher: suite.mockDispatcher,
		Reversals:  suite.mockReversals,
	}
	handlers.RegisterRoutes(suite.router, cfg, container, handlers.RouteDeps{})
}

func (suite *TransactionHandlerTestSuite) TearDownTest() {
	suite.mockDispatcher.AssertExpectations(suite.T())
	suite.mockReversals.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) do(method, path string, body any, actor *domain.Actor, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(*actor))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) decode(w *httptest.ResponseRecorder) dto.APIResponse {
	var resp dto.APIResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func depositBody() map[string]any {
	return map[string]any{
		"transactionType": "deposit",
		"amount":          "500",
		"fee":             "5",
		"customerName":    "Ama Mensah",
		"customerPhone":   "0240000000",
	}
}

func (suite *TransactionHandlerTestSuite) completedResult(id string) *domain.TransactionResult {
	return &domain.TransactionResult{
		Transaction: domain.Transaction{
			TransactionID:   id,
			ServiceType:     domain.ServiceMomo,
			TransactionType: domain.TxnDeposit,
			Amount:          decimal.NewFromInt(500),
			Fee:             decimal.NewFromInt(5),
			CustomerName:    "Ama Mensah",
			BranchID:        "branch-a",
			Status:          domain.StatusCompleted,
		},
		GroupingID: uuid.NewString(),
	}
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Success() {
	txnID := uuid.NewString()
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(cmd domain.Command) bool {
		return cmd.Module == domain.ServiceMomo &&
			cmd.Action == domain.ActionCreate &&
			cmd.Actor == suite.cashier &&
			cmd.Intent != nil &&
			cmd.Intent.Amount.Equal(decimal.NewFromInt(500)) &&
			cmd.Intent.IdempotencyKey == "key-1"
	})).Return(suite.completedResult(txnID), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/momo", depositBody(), &suite.cashier,
		map[string]string{middleware.IdempotencyHeader: "key-1"})

	suite.Equal(http.StatusCreated, w.Code)
	resp := suite.decode(w)
	suite.True(resp.Success)
	data := resp.Data.(map[string]any)
	suite.Equal(txnID, data["transaction"].(map[string]any)["transactionID"])
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_ReplayReturnsOK() {
	result := suite.completedResult(uuid.NewString())
	result.Replayed = true
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.Command")).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/momo", depositBody(), &suite.cashier,
		map[string]string{middleware.IdempotencyHeader: "key-1"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_UnknownModule() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/lottery", depositBody(), &suite.cashier, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.False(suite.decode(w).Success)
	suite.mockDispatcher.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_MissingCustomer() {
	body := depositBody()
	delete(body, "customerName")

	w := suite.do(http.MethodPost, "/api/v1/transactions/momo", body, &suite.cashier, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w).Error, "Invalid request format")
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Unauthorized() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/momo", depositBody(), nil, nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_InsufficientBalance() {
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.Command")).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/momo", depositBody(), &suite.cashier, nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.decode(w).Error, "insufficient")
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_InternalErrorHidesDetail() {
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.AnythingOfType("domain.Command")).
		Return(nil, context.DeadlineExceeded).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/momo", depositBody(), &suite.cashier, nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to create transaction", suite.decode(w).Error)
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	txnID := uuid.NewString()
	suite.mockDispatcher.On("GetTransaction", mock.Anything, domain.ServiceMomo, txnID, suite.cashier).
		Return(nil, apperrors.ErrTransactionNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/momo/"+txnID, nil, &suite.cashier, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestEditTransaction_PassesChanges() {
	txnID := uuid.NewString()
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(cmd domain.Command) bool {
		return cmd.Action == domain.ActionEdit &&
			cmd.TransactionID == txnID &&
			cmd.Changes != nil && cmd.Changes.Amount != nil &&
			cmd.Changes.Amount.Equal(decimal.NewFromInt(700)) &&
			cmd.Changes.Fee == nil
	})).Return(suite.completedResult(txnID), nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/transactions/momo/"+txnID, map[string]any{"amount": "700"}, &suite.cashier, nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_RequiresReason() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/momo/"+uuid.NewString()+"/reverse", map[string]any{}, &suite.cashier, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_AlreadyReversed() {
	txnID := uuid.NewString()
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(cmd domain.Command) bool {
		return cmd.Action == domain.ActionReverse && cmd.TransactionID == txnID && cmd.Reason == "customer dispute"
	})).Return(nil, apperrors.ErrAlreadyReversed).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/momo/"+txnID+"/reverse",
		map[string]any{"reason": "customer dispute"}, &suite.cashier, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestDeleteTransaction_CashierForbidden() {
	w := suite.do(http.MethodDelete, "/api/v1/transactions/momo/"+uuid.NewString(),
		map[string]any{"reason": "duplicate entry"}, &suite.cashier, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockDispatcher.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestDeleteTransaction_Admin() {
	txnID := uuid.NewString()
	result := suite.completedResult(txnID)
	result.Transaction.Status = domain.StatusDeleted
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(cmd domain.Command) bool {
		return cmd.Action == domain.ActionDelete && cmd.Actor == suite.admin
	})).Return(result, nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/transactions/momo/"+txnID,
		map[string]any{"reason": "duplicate entry"}, &suite.admin, nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransition_Disburse() {
	txnID := uuid.NewString()
	suite.mockDispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(cmd domain.Command) bool {
		return cmd.Module == domain.ServiceEZwich && cmd.Action == domain.ActionDisburse && cmd.TransactionID == txnID
	})).Return(nil, apperrors.ErrAlreadyDisbursed).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/ezwich/"+txnID+"/disburse", nil, &suite.cashier, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestApproveReversal_CashierForbidden() {
	w := suite.do(http.MethodPost, "/api/v1/reversals/"+uuid.NewString()+"/approve", nil, &suite.cashier, nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestApproveReversal_AdminWithNote() {
	reversalID := uuid.NewString()
	suite.mockReversals.On("ApproveReversal", mock.Anything, reversalID, mock.MatchedBy(func(note *string) bool {
		return note != nil && *note == "verified with customer"
	}), suite.admin).Return(&domain.ReversalResult{CancelledEffects: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/reversals/"+reversalID+"/approve",
		map[string]any{"note": "verified with customer"}, &suite.admin, nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestRequestReversal_UnknownModule() {
	w := suite.do(http.MethodPost, "/api/v1/reversals", map[string]any{
		"transactionID": uuid.NewString(),
		"sourceModule":  "lottery",
		"reason":        "customer dispute",
	}, &suite.cashier, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestRequestReversal_Created() {
	txnID := uuid.NewString()
	record := &domain.ReversalRecord{
		ReversalID:    uuid.NewString(),
		TransactionID: txnID,
		SourceModule:  domain.ServiceMomo,
		Status:        domain.ReversalPending,
	}
	suite.mockReversals.On("RequestReversal", mock.Anything, dto.CreateReversalRequest{
		TransactionID: txnID,
		SourceModule:  domain.ServiceMomo,
		Reason:        "customer dispute",
	}, suite.cashier).Return(record, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/reversals", map[string]any{
		"transactionID": txnID,
		"sourceModule":  "MoMo",
		"reason":        "customer dispute",
	}, &suite.cashier, nil)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestMalformedID_IsBadRequest() {
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		actor  domain.Actor
	}{
		{"get", http.MethodGet, "/api/v1/transactions/momo/abc", nil, suite.cashier},
		{"edit", http.MethodPatch, "/api/v1/transactions/momo/abc", map[string]any{"fee": "3"}, suite.cashier},
		{"reverse", http.MethodPost, "/api/v1/transactions/momo/abc/reverse", map[string]any{"reason": "customer dispute"}, suite.cashier},
		{"delete", http.MethodDelete, "/api/v1/transactions/momo/abc", map[string]any{"reason": "duplicate"}, suite.admin},
		{"complete", http.MethodPost, "/api/v1/transactions/power/1234/complete", nil, suite.cashier},
		{"approve reversal", http.MethodPost, "/api/v1/reversals/abc/approve", nil, suite.admin},
		{"reject reversal", http.MethodPost, "/api/v1/reversals/abc/reject", nil, suite.admin},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			actor := tt.actor
			w := suite.do(tt.method, tt.path, tt.body, &actor, nil)

			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Contains(suite.decode(w).Error, "UUID")
		})
	}
	suite.mockDispatcher.AssertNotCalled(suite.T(), "GetTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDispatcher.AssertNotCalled(suite.T(), "Dispatch", mock.Anything, mock.Anything)
	suite.mockReversals.AssertNotCalled(suite.T(), "ApproveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
