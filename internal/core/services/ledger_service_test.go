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
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetBalance(ctx context.Context, customerID string, ledgerType domain.LedgerType) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID, ledgerType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByCustomer(ctx context.Context, customerID string, ledgerType domain.LedgerType, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, customerID, ledgerType, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) LockCustomerForUpdate(ctx context.Context, tx pgx.Tx, customerID string) error {
	args := m.Called(ctx, tx, customerID)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetBalanceInTx(ctx context.Context, tx pgx.Tx, customerID string, ledgerType domain.LedgerType) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, customerID, ledgerType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteEntryByIDInTx(ctx context.Context, tx pgx.Tx, entryID string) (int64, error) {
	args := m.Called(ctx, tx, entryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) FindUseEntryForVisitInTx(ctx context.Context, tx pgx.Tx, visitID string, ledgerType domain.LedgerType, delta decimal.Decimal) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, visitID, ledgerType, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) DeleteEntriesByIDsInTx(ctx context.Context, tx pgx.Tx, entryIDs []string) error {
	args := m.Called(ctx, tx, entryIDs)
	return args.Error(0)
}

// MockCustomerRepository is a mock type for the CustomerReader interface
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo   *MockLedgerRepository
	mockCustomerRepo *MockCustomerRepository
	service          portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockCustomerRepo)
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestGetCustomerBalances_Success() {
	ctx := context.Background()
	customerID := uuid.NewString()

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).
		Return(&domain.Customer{CustomerID: customerID}, nil).Once()
	suite.mockLedgerRepo.On("GetBalance", ctx, customerID, domain.LedgerStoredValue).
		Return(decimal.NewFromInt(70000), nil).Once()
	suite.mockLedgerRepo.On("GetBalance", ctx, customerID, domain.LedgerPoints).
		Return(decimal.NewFromInt(1500), nil).Once()

	balances, err := suite.service.GetCustomerBalances(ctx, customerID)

	suite.Require().NoError(err)
	suite.Equal(customerID, balances.CustomerID)
	suite.True(balances.StoredValueBalance.Equal(decimal.NewFromInt(70000)))
	suite.True(balances.PointsBalance.Equal(decimal.NewFromInt(1500)))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetCustomerBalances_UnknownCustomer() {
	ctx := context.Background()
	customerID := uuid.NewString()

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCustomerBalances(ctx, customerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "GetBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListLedgerEntries_DefaultsLimit() {
	ctx := context.Background()
	customerID := uuid.NewString()

	entries := []domain.LedgerEntry{{
		EntryID:    uuid.NewString(),
		CustomerID: customerID,
		LedgerType: domain.LedgerPoints,
		EntryType:  domain.LedgerEntryEarn,
		Delta:      decimal.NewFromInt(1500),
		VisitID:    uuid.NewString(),
	}}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).
		Return(&domain.Customer{CustomerID: customerID}, nil).Once()
	suite.mockLedgerRepo.On("ListEntriesByCustomer", ctx, customerID, domain.LedgerPoints, 20, (*string)(nil)).
		Return(entries, nil, nil).Once()

	resp, err := suite.service.ListLedgerEntries(ctx, customerID, domain.LedgerPoints, dto.ListLedgerEntriesParams{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 1)
	suite.Equal(entries[0].EntryID, resp.Entries[0].EntryID)
	suite.Nil(resp.NextToken)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
