package services_test

import (
	"context"
	"testing"

	"github.com/SalonKit/salon_pos_app/internal/apperrors"
	"github.com/SalonKit/salon_pos_app/internal/core/domain"
	portssvc "github.com/SalonKit/salon_pos_app/internal/core/ports/services"
	"github.com/SalonKit/salon_pos_app/internal/core/services"
	"github.com/SalonKit/salon_pos_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockPaymentRepository is a mock type for the PaymentRepositoryFacade interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) AddPaymentWithDebit(ctx context.Context, payment domain.Payment, debit *domain.LedgerEntry) (*domain.Payment, error) {
	args := m.Called(ctx, payment, debit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) RemovePaymentWithReversal(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// --- Test Suite Setup ---

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockVisitRepo   *MockVisitRepository
	service         portssvc.PaymentSvcFacade
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.mockVisitRepo = new(MockVisitRepository)
	suite.service = services.NewPaymentService(suite.mockPaymentRepo, suite.mockVisitRepo)
}

func (suite *PaymentServiceTestSuite) draftVisit(visitID, customerID string) *domain.Visit {
	return &domain.Visit{
		VisitID:     visitID,
		CustomerID:  customerID,
		Status:      domain.VisitDraft,
		TotalAmount: decimal.NewFromInt(30000),
	}
}

// --- Test Cases ---

func (suite *PaymentServiceTestSuite) TestAddPayment_OrdinaryMethodHasNoDebit() {
	ctx := context.Background()
	visitID := uuid.NewString()
	visit := suite.draftVisit(visitID, uuid.NewString())

	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()
	suite.mockPaymentRepo.On("AddPaymentWithDebit", mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Method == domain.PaymentCard && p.LedgerEntryID == nil
	}), (*domain.LedgerEntry)(nil)).Return(&domain.Payment{PaymentID: "pay-1"}, nil).Once()

	payment, err := suite.service.AddPayment(ctx, visitID, dto.AddPaymentRequest{
		Method: "CARD",
		Amount: decimal.NewFromInt(30000),
	}, "op-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestAddPayment_StoredValueDebitsLedger() {
	ctx := context.Background()
	visitID := uuid.NewString()
	customerID := uuid.NewString()
	visit := suite.draftVisit(visitID, customerID)

	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()

	// The debit entry and the payment must be paired: delta is the negated
	// amount, and the payment carries the entry reference.
	suite.mockPaymentRepo.On("AddPaymentWithDebit", mock.Anything,
		mock.MatchedBy(func(p domain.Payment) bool {
			return p.Method == domain.PaymentStoredValue && p.LedgerEntryID != nil
		}),
		mock.MatchedBy(func(e *domain.LedgerEntry) bool {
			return e != nil &&
				e.CustomerID == customerID &&
				e.LedgerType == domain.LedgerStoredValue &&
				e.EntryType == domain.LedgerEntryUse &&
				e.Delta.Equal(decimal.NewFromInt(-30000)) &&
				e.VisitID == visitID
		}),
	).Return(&domain.Payment{PaymentID: "pay-1"}, nil).Once()

	_, err := suite.service.AddPayment(ctx, visitID, dto.AddPaymentRequest{
		Method: "STORED_VALUE",
		Amount: decimal.NewFromInt(30000),
	}, "op-1")

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestAddPayment_PaymentAndEntryShareReference() {
	ctx := context.Background()
	visitID := uuid.NewString()
	visit := suite.draftVisit(visitID, uuid.NewString())

	var captured domain.Payment
	var capturedDebit *domain.LedgerEntry
	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()
	suite.mockPaymentRepo.On("AddPaymentWithDebit", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.Payment)
			capturedDebit = args.Get(2).(*domain.LedgerEntry)
		}).
		Return(&domain.Payment{PaymentID: "pay-1"}, nil).Once()

	_, err := suite.service.AddPayment(ctx, visitID, dto.AddPaymentRequest{
		Method: "POINTS",
		Amount: decimal.NewFromInt(500),
	}, "op-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(capturedDebit)
	suite.Require().NotNil(captured.LedgerEntryID)
	suite.Equal(capturedDebit.EntryID, *captured.LedgerEntryID)
	suite.Equal(domain.LedgerPoints, capturedDebit.LedgerType)
}

func (suite *PaymentServiceTestSuite) TestAddPayment_InsufficientBalancePropagates() {
	ctx := context.Background()
	visitID := uuid.NewString()
	visit := suite.draftVisit(visitID, uuid.NewString())

	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()
	suite.mockPaymentRepo.On("AddPaymentWithDebit", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	_, err := suite.service.AddPayment(ctx, visitID, dto.AddPaymentRequest{
		Method: "STORED_VALUE",
		Amount: decimal.NewFromInt(999999),
	}, "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
}

func (suite *PaymentServiceTestSuite) TestAddPayment_InvalidMethod() {
	ctx := context.Background()

	_, err := suite.service.AddPayment(ctx, uuid.NewString(), dto.AddPaymentRequest{
		Method: "BARTER",
		Amount: decimal.NewFromInt(100),
	}, "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPaymentMethod)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "AddPaymentWithDebit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestAddPayment_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.AddPayment(ctx, uuid.NewString(), dto.AddPaymentRequest{
		Method: "CASH",
		Amount: decimal.Zero,
	}, "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrPaymentNotPositive)
}

func (suite *PaymentServiceTestSuite) TestAddPayment_RejectedWhenNotDraft() {
	ctx := context.Background()
	visitID := uuid.NewString()
	visit := suite.draftVisit(visitID, uuid.NewString())
	visit.Status = domain.VisitFinalized

	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()

	_, err := suite.service.AddPayment(ctx, visitID, dto.AddPaymentRequest{
		Method: "CASH",
		Amount: decimal.NewFromInt(100),
	}, "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrVisitNotDraft)
}

func (suite *PaymentServiceTestSuite) TestRemovePayment_Success() {
	ctx := context.Background()
	visitID := uuid.NewString()
	visit := suite.draftVisit(visitID, uuid.NewString())

	entryID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:     "pay-1",
		VisitID:       visitID,
		Method:        domain.PaymentStoredValue,
		Amount:        decimal.NewFromInt(30000),
		LedgerEntryID: &entryID,
	}

	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", mock.Anything, "pay-1").Return(payment, nil).Once()
	suite.mockPaymentRepo.On("RemovePaymentWithReversal", mock.Anything, *payment).Return(nil).Once()

	err := suite.service.RemovePayment(ctx, visitID, "pay-1", "op-1")

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRemovePayment_MissingReversalIsWarningNotError() {
	ctx := context.Background()
	visitID := uuid.NewString()
	visit := suite.draftVisit(visitID, uuid.NewString())

	payment := &domain.Payment{
		PaymentID: "pay-1",
		VisitID:   visitID,
		Method:    domain.PaymentStoredValue,
		Amount:    decimal.NewFromInt(30000),
	}

	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", mock.Anything, "pay-1").Return(payment, nil).Once()
	suite.mockPaymentRepo.On("RemovePaymentWithReversal", mock.Anything, *payment).
		Return(apperrors.ErrReversalNotFound).Once()

	// The payment is gone; the missing entry is flagged in logs, not surfaced.
	err := suite.service.RemovePayment(ctx, visitID, "pay-1", "op-1")

	suite.Require().NoError(err)
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestRemovePayment_WrongVisit() {
	ctx := context.Background()
	visitID := uuid.NewString()
	visit := suite.draftVisit(visitID, uuid.NewString())

	payment := &domain.Payment{
		PaymentID: "pay-1",
		VisitID:   uuid.NewString(), // belongs elsewhere
		Method:    domain.PaymentCash,
		Amount:    decimal.NewFromInt(100),
	}

	suite.mockVisitRepo.On("FindVisitByID", mock.Anything, visitID).Return(visit, nil).Once()
	suite.mockPaymentRepo.On("FindPaymentByID", mock.Anything, "pay-1").Return(payment, nil).Once()

	err := suite.service.RemovePayment(ctx, visitID, "pay-1", "op-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "RemovePaymentWithReversal", mock.Anything, mock.Anything)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
