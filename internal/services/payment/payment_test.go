package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/theclub367services-boop/club369/internal/gateway"
	"github.com/theclub367services-boop/club369/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrder(ctx context.Context, order models.PaymentOrder) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (*models.PaymentOrder, error) {
	args := m.Called(ctx, gatewayOrderID)
	order, _ := args.Get(0).(*models.PaymentOrder)
	return order, args.Error(1)
}

func (m *MockRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) CreateTransaction(ctx context.Context, tx models.Transaction) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockRepository) ActivateMembership(ctx context.Context, userUID string, until time.Time) error {
	args := m.Called(ctx, userUID, until)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.OrderResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*gateway.OrderResponse)
	return resp, args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateDetails(ctx context.Context, userUID string) {
	m.Called(ctx, userUID)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishReceipt(receipt Receipt) error {
	args := m.Called(receipt)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func testConfig() Config {
	return Config{
		MembershipFee: 36900,
		Currency:      "INR",
		KeyID:         "rzp_test_key",
		PaymentMethod: "razorpay",
	}
}

func TestService_CreateOrder(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockRepository, *MockGateway)
		expectedError bool
	}{
		{
			name: "success",
			setupMocks: func(r *MockRepository, g *MockGateway) {
				g.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req gateway.CreateOrderRequest) bool {
					return req.Amount == 36900 && req.Currency == "INR" &&
						req.Notes["user_uid"] == "user123"
				})).Return(&gateway.OrderResponse{
					ID: "order_gw_1", Amount: 36900, Currency: "INR", Status: "created",
				}, nil).Once()
				r.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.PaymentOrder) bool {
					return o.UserUID == "user123" && o.GatewayOrderID == "order_gw_1" &&
						o.Status == models.OrderCreated
				})).Return("local1", nil).Once()
			},
		},
		{
			name: "gateway error",
			setupMocks: func(r *MockRepository, g *MockGateway) {
				g.On("CreateOrder", mock.Anything, mock.Anything).
					Return(nil, errors.New("gateway unavailable")).Once()
			},
			expectedError: true,
		},
		{
			name: "repository error",
			setupMocks: func(r *MockRepository, g *MockGateway) {
				g.On("CreateOrder", mock.Anything, mock.Anything).Return(&gateway.OrderResponse{
					ID: "order_gw_1", Amount: 36900, Currency: "INR",
				}, nil).Once()
				r.On("CreateOrder", mock.Anything, mock.Anything).
					Return("", errors.New("db error")).Once()
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			gw := new(MockGateway)
			inv := new(MockInvalidator)
			service := New(repo, gw, inv, nil, testConfig(), newNoopLogger())

			tt.setupMocks(repo, gw)

			info, err := service.CreateOrder(context.Background(), "user123")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, info)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "order_gw_1", info.OrderID)
				assert.Equal(t, 36900, info.Amount)
				assert.Equal(t, "rzp_test_key", info.KeyID)
			}

			repo.AssertExpectations(t)
			gw.AssertExpectations(t)
		})
	}
}

func TestService_Verify_Success(t *testing.T) {
	repo := new(MockRepository)
	gw := new(MockGateway)
	inv := new(MockInvalidator)
	pub := new(MockPublisher)
	service := New(repo, gw, inv, pub, testConfig(), newNoopLogger())

	order := &models.PaymentOrder{
		ID: "local1", UserUID: "user123", GatewayOrderID: "order_gw_1",
		Amount: 36900, Currency: "INR", Status: models.OrderCreated,
	}
	user := &models.User{
		UID: "user123", Name: "Ivan", Email: "ivan@example.com",
		Status: models.StatusPending, MembershipStatus: models.MembershipNone,
	}

	repo.On("GetOrderByGatewayID", mock.Anything, "order_gw_1").Return(order, nil).Once()
	gw.On("VerifySignature", "order_gw_1", "pay_1", "goodsig").Return(true).Once()
	repo.On("UpdateOrderStatus", mock.Anything, "local1", models.OrderPaid).Return(nil).Once()
	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.Transaction) bool {
		return tx.User == "user123" && tx.Status == models.TransactionSuccess && tx.Method == "razorpay"
	})).Return("tx1", nil).Once()
	repo.On("GetUser", mock.Anything, "user123").Return(user, nil)
	repo.On("ActivateMembership", mock.Anything, "user123", mock.MatchedBy(func(until time.Time) bool {
		// Членства не было: продление отсчитывается от текущего момента.
		expected := time.Now().AddDate(0, 1, 0)
		return until.Sub(expected).Abs() < time.Minute
	})).Return(nil).Once()
	inv.On("InvalidateDetails", mock.Anything, "user123").Once()
	pub.On("PublishReceipt", mock.MatchedBy(func(r Receipt) bool {
		return r.Email == "ivan@example.com" && r.Amount == 36900
	})).Return(nil).Once()

	_, err := service.Verify(context.Background(), "user123", gateway.CheckoutResult{
		OrderID: "order_gw_1", PaymentID: "pay_1", Signature: "goodsig",
	})
	require.NoError(t, err)

	repo.AssertExpectations(t)
	gw.AssertExpectations(t)
	inv.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_Verify_ExtendsFromCurrentEndDate(t *testing.T) {
	repo := new(MockRepository)
	gw := new(MockGateway)
	inv := new(MockInvalidator)
	service := New(repo, gw, inv, nil, testConfig(), newNoopLogger())

	endDate := time.Now().AddDate(0, 0, 10)
	order := &models.PaymentOrder{
		ID: "local1", UserUID: "user123", GatewayOrderID: "order_gw_1", Amount: 36900,
	}
	user := &models.User{
		UID: "user123", Status: models.StatusActive,
		MembershipStatus: models.MembershipActive, MembershipEndDate: &endDate,
	}

	repo.On("GetOrderByGatewayID", mock.Anything, "order_gw_1").Return(order, nil).Once()
	gw.On("VerifySignature", "order_gw_1", "pay_1", "goodsig").Return(true).Once()
	repo.On("UpdateOrderStatus", mock.Anything, "local1", models.OrderPaid).Return(nil).Once()
	repo.On("CreateTransaction", mock.Anything, mock.Anything).Return("tx1", nil).Once()
	repo.On("GetUser", mock.Anything, "user123").Return(user, nil)
	repo.On("ActivateMembership", mock.Anything, "user123", mock.MatchedBy(func(until time.Time) bool {
		// Активное членство продлевается от даты окончания, не от now.
		return until.Sub(endDate.AddDate(0, 1, 0)).Abs() < time.Second
	})).Return(nil).Once()
	inv.On("InvalidateDetails", mock.Anything, "user123").Once()

	_, err := service.Verify(context.Background(), "user123", gateway.CheckoutResult{
		OrderID: "order_gw_1", PaymentID: "pay_1", Signature: "goodsig",
	})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestService_Verify_BadSignature(t *testing.T) {
	repo := new(MockRepository)
	gw := new(MockGateway)
	inv := new(MockInvalidator)
	service := New(repo, gw, inv, nil, testConfig(), newNoopLogger())

	order := &models.PaymentOrder{
		ID: "local1", UserUID: "user123", GatewayOrderID: "order_gw_1", Amount: 36900,
	}

	repo.On("GetOrderByGatewayID", mock.Anything, "order_gw_1").Return(order, nil).Once()
	gw.On("VerifySignature", "order_gw_1", "pay_1", "badsig").Return(false).Once()
	repo.On("UpdateOrderStatus", mock.Anything, "local1", models.OrderFailed).Return(nil).Once()
	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.Transaction) bool {
		return tx.Status == models.TransactionFailed
	})).Return("tx1", nil).Once()

	_, err := service.Verify(context.Background(), "user123", gateway.CheckoutResult{
		OrderID: "order_gw_1", PaymentID: "pay_1", Signature: "badsig",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	// Членство не трогается при неверной подписи.
	repo.AssertNotCalled(t, "ActivateMembership", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestService_Verify_ForeignOrder(t *testing.T) {
	repo := new(MockRepository)
	gw := new(MockGateway)
	inv := new(MockInvalidator)
	service := New(repo, gw, inv, nil, testConfig(), newNoopLogger())

	order := &models.PaymentOrder{
		ID: "local1", UserUID: "someone-else", GatewayOrderID: "order_gw_1",
	}
	repo.On("GetOrderByGatewayID", mock.Anything, "order_gw_1").Return(order, nil).Once()

	_, err := service.Verify(context.Background(), "user123", gateway.CheckoutResult{
		OrderID: "order_gw_1", PaymentID: "pay_1", Signature: "sig",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderOwnership)

	gw.AssertNotCalled(t, "VerifySignature", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
