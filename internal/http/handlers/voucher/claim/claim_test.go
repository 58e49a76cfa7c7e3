package claim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
	"github.com/theclub367services-boop/club369/internal/models"
	"github.com/theclub367services-boop/club369/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ClaimVoucher(ctx context.Context, userUID, voucherID string) (*models.Voucher, error) {
	args := m.Called(ctx, userUID, voucherID)
	voucher, _ := args.Get(0).(*models.Voucher)
	return voucher, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newClaimRequest(t *testing.T, voucherID string, user *models.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/vouchers/claim/"+voucherID, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", voucherID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = context.WithValue(ctx, middlewarectx.User, user)
	}
	return req.WithContext(ctx)
}

func TestClaimHandler_ServeHTTP(t *testing.T) {
	user := &models.User{UID: "user123", Role: models.RoleUser, Status: models.StatusActive}

	tests := []struct {
		name           string
		voucherID      string
		user           *models.User
		setupMocks     func(*ServiceMock)
		wantStatusCode int
		wantSuccess    bool
		wantMessage    string
	}{
		{
			name:      "success",
			voucherID: "v1",
			user:      user,
			setupMocks: func(s *ServiceMock) {
				s.On("ClaimVoucher", mock.Anything, "user123", "v1").Return(&models.Voucher{
					ID: "v1", Title: "Coffee", Code: "SECRET1", IsClaimed: true, IsActive: true,
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
			wantMessage:    "voucher claimed",
		},
		{
			name:      "voucher not found",
			voucherID: "missing",
			user:      user,
			setupMocks: func(s *ServiceMock) {
				s.On("ClaimVoucher", mock.Anything, "user123", "missing").
					Return(nil, repository.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "voucher not found",
		},
		{
			name:      "already claimed",
			voucherID: "v1",
			user:      user,
			setupMocks: func(s *ServiceMock) {
				s.On("ClaimVoucher", mock.Anything, "user123", "v1").
					Return(nil, repository.ErrAlreadyClaimed).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantMessage:    "voucher already claimed",
		},
		{
			name:           "no user in context",
			voucherID:      "v1",
			user:           nil,
			setupMocks:     func(*ServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newClaimRequest(t, tt.voucherID, tt.user))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantSuccess, got["success"])
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantSuccess {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				voucher, ok := data["voucher"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "SECRET1", voucher["code"])
				assert.Equal(t, true, voucher["isClaimed"])
			}

			service.AssertExpectations(t)
		})
	}
}
