package membership

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

	"github.com/theclub367services-boop/club369/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockRepository) ListVouchers(ctx context.Context, onlyActive bool) ([]*models.Voucher, error) {
	args := m.Called(ctx, onlyActive)
	vouchers, _ := args.Get(0).([]*models.Voucher)
	return vouchers, args.Error(1)
}

func (m *MockRepository) GetVoucher(ctx context.Context, id string) (*models.Voucher, error) {
	args := m.Called(ctx, id)
	voucher, _ := args.Get(0).(*models.Voucher)
	return voucher, args.Error(1)
}

func (m *MockRepository) ClaimVoucher(ctx context.Context, voucherID, userUID string) error {
	args := m.Called(ctx, voucherID, userUID)
	return args.Error(0)
}

func (m *MockRepository) ListClaimedVoucherIDs(ctx context.Context, userUID string) (map[string]bool, error) {
	args := m.Called(ctx, userUID)
	ids, _ := args.Get(0).(map[string]bool)
	return ids, args.Error(1)
}

func (m *MockRepository) ListTransactionsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userUID, limit, offset)
	txs, _ := args.Get(0).([]*models.Transaction)
	return txs, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	if args.Bool(0) {
		if details, ok := result.(*models.MembershipDetails); ok {
			*details = models.MembershipDetails{Status: models.MembershipActive}
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_Details_CacheHit(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	cache.On("Get", mock.Anything, "membership:details:user123", mock.Anything).
		Return(true, nil).Once()

	details, err := service.Details(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, details.Status)

	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestService_Details_CacheMiss(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	endDate := time.Now().AddDate(0, 0, 20)
	user := &models.User{
		UID: "user123", MembershipStatus: models.MembershipActive,
		MembershipEndDate: &endDate,
	}

	cache.On("Get", mock.Anything, "membership:details:user123", mock.Anything).
		Return(false, nil).Once()
	repo.On("GetUser", mock.Anything, "user123").Return(user, nil).Once()
	cache.On("Set", mock.Anything, "membership:details:user123", mock.Anything, detailsTTL).
		Return(nil).Once()

	details, err := service.Details(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, details.Status)
	assert.Equal(t, endDate.Format(time.RFC3339), details.ExpiryDate)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Details_CacheErrorFallsThrough(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	user := &models.User{UID: "user123", MembershipStatus: models.MembershipNone}

	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).
		Return(false, errors.New("redis down")).Once()
	repo.On("GetUser", mock.Anything, "user123").Return(user, nil).Once()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis down")).Once()

	// Недоступный кеш не ломает чтение: данные идут из хранилища.
	details, err := service.Details(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipNone, details.Status)
}

func TestService_Vouchers(t *testing.T) {
	repo := new(MockRepository)
	cache := new(MockCache)
	service := New(repo, cache, newNoopLogger())

	repo.On("ListVouchers", mock.Anything, true).Return([]*models.Voucher{
		{ID: "v1", Title: "Coffee", Code: "SECRET1", IsActive: true},
		{ID: "v2", Title: "Gym", Code: "SECRET2", IsActive: true},
	}, nil).Once()
	repo.On("ListClaimedVoucherIDs", mock.Anything, "user123").
		Return(map[string]bool{"v2": true}, nil).Once()

	vouchers, err := service.Vouchers(context.Background(), "user123")
	require.NoError(t, err)
	require.Len(t, vouchers, 2)

	// Код скрыт, пока ваучер не получен.
	assert.False(t, vouchers[0].IsClaimed)
	assert.Empty(t, vouchers[0].Code)
	assert.True(t, vouchers[1].IsClaimed)
	assert.Equal(t, "SECRET2", vouchers[1].Code)

	repo.AssertExpectations(t)
}

func TestService_ClaimVoucher(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockRepository)
		expectedError bool
		expectedCode  string
	}{
		{
			name: "success - code revealed",
			setupMocks: func(r *MockRepository) {
				r.On("GetVoucher", mock.Anything, "v1").Return(&models.Voucher{
					ID: "v1", Code: "SECRET1", IsActive: true,
				}, nil).Once()
				r.On("ClaimVoucher", mock.Anything, "v1", "user123").Return(nil).Once()
			},
			expectedCode: "SECRET1",
		},
		{
			name: "inactive voucher",
			setupMocks: func(r *MockRepository) {
				r.On("GetVoucher", mock.Anything, "v1").Return(&models.Voucher{
					ID: "v1", Code: "SECRET1", IsActive: false,
				}, nil).Once()
			},
			expectedError: true,
		},
		{
			name: "already claimed",
			setupMocks: func(r *MockRepository) {
				r.On("GetVoucher", mock.Anything, "v1").Return(&models.Voucher{
					ID: "v1", Code: "SECRET1", IsActive: true,
				}, nil).Once()
				r.On("ClaimVoucher", mock.Anything, "v1", "user123").
					Return(errors.New("already claimed")).Once()
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			cache := new(MockCache)
			service := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo)

			voucher, err := service.ClaimVoucher(context.Background(), "user123", "v1")

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, voucher)
			} else {
				require.NoError(t, err)
				assert.True(t, voucher.IsClaimed)
				assert.Equal(t, tt.expectedCode, voucher.Code)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestRenewalAllowed(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	expiryIn := func(d time.Duration) string {
		return now.Add(d).Format(time.RFC3339)
	}

	tests := []struct {
		name    string
		details models.MembershipDetails
		want    bool
	}{
		{"expired", models.MembershipDetails{Status: models.MembershipExpired}, true},
		{"none", models.MembershipDetails{Status: models.MembershipNone}, true},
		{
			"active, exactly 5 days",
			models.MembershipDetails{Status: models.MembershipActive, ExpiryDate: expiryIn(5 * 24 * time.Hour)},
			true,
		},
		{
			"active, 6 days",
			models.MembershipDetails{Status: models.MembershipActive, ExpiryDate: expiryIn(6 * 24 * time.Hour)},
			false,
		},
		{
			"active, 5 days and a minute rounds up to 6",
			models.MembershipDetails{Status: models.MembershipActive, ExpiryDate: expiryIn(5*24*time.Hour + time.Minute)},
			false,
		},
		{
			"active, no expiry date",
			models.MembershipDetails{Status: models.MembershipActive},
			false,
		},
		{
			"active, malformed expiry date",
			models.MembershipDetails{Status: models.MembershipActive, ExpiryDate: "bad"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenewalAllowed(tt.details, now))
		})
	}
}
