package club

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type OpenerMock struct {
	mock.Mock
}

func (m *OpenerMock) Open(ctx context.Context, order Order) (*CheckoutResult, error) {
	args := m.Called(ctx, order)
	result, _ := args.Get(0).(*CheckoutResult)
	return result, args.Error(1)
}

type LoaderMock struct {
	calls atomic.Int32
	err   error
}

func (l *LoaderMock) Load(ctx context.Context) error {
	l.calls.Add(1)
	return l.err
}

func newPaymentServer(t *testing.T, verifyStatus int) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/payments/create-order", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", map[string]any{
			"order": map[string]any{
				"order_id": "order_1", "amount": 36900, "currency": "INR", "key_id": "rzp_test",
			},
		})
	})
	mux.HandleFunc("/payments/verify", func(w http.ResponseWriter, r *http.Request) {
		if verifyStatus != http.StatusOK {
			writeEnvelope(w, verifyStatus, "payment verification failed", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, "membership activated", map[string]any{
			"membership": map[string]any{"status": "ACTIVE", "expiryDate": "2026-09-29T00:00:00Z"},
		})
	})

	client, _ := newTestClient(t, mux)
	return client
}

func TestPayment_StartSuccess(t *testing.T) {
	client := newPaymentServer(t, http.StatusOK)

	opener := new(OpenerMock)
	opener.On("Open", mock.Anything, mock.MatchedBy(func(o Order) bool {
		return o.OrderID == "order_1" && o.Amount == 36900
	})).Return(&CheckoutResult{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
	}, nil).Once()

	loader := &LoaderMock{}
	p := NewPayment(client, opener, loader, newNoopLogger())

	var gotDetails *MembershipDetails
	var dismissed, failed bool

	err := p.Start(context.Background(), PaymentCallbacks{
		OnSuccess: func(d *MembershipDetails) { gotDetails = d },
		OnDismiss: func() { dismissed = true },
		OnError:   func(error) { failed = true },
	})
	require.NoError(t, err)

	require.NotNil(t, gotDetails)
	assert.Equal(t, "ACTIVE", gotDetails.Status)
	assert.False(t, dismissed)
	assert.False(t, failed)
	assert.Equal(t, int32(1), loader.calls.Load())
	opener.AssertExpectations(t)
}

func TestPayment_StartDismissed(t *testing.T) {
	client := newPaymentServer(t, http.StatusOK)

	opener := new(OpenerMock)
	opener.On("Open", mock.Anything, mock.Anything).Return(nil, ErrDismissed).Once()

	p := NewPayment(client, opener, nil, newNoopLogger())

	var succeeded, dismissed, failed bool
	err := p.Start(context.Background(), PaymentCallbacks{
		OnSuccess: func(*MembershipDetails) { succeeded = true },
		OnDismiss: func() { dismissed = true },
		OnError:   func(error) { failed = true },
	})

	// Закрытие виджета — не ошибка.
	require.NoError(t, err)
	assert.True(t, dismissed)
	assert.False(t, succeeded)
	assert.False(t, failed)
	opener.AssertExpectations(t)
}

func TestPayment_StartVerificationFailure(t *testing.T) {
	client := newPaymentServer(t, http.StatusBadRequest)

	opener := new(OpenerMock)
	opener.On("Open", mock.Anything, mock.Anything).Return(&CheckoutResult{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "bad",
	}, nil).Once()

	p := NewPayment(client, opener, nil, newNoopLogger())

	var failedErr error
	err := p.Start(context.Background(), PaymentCallbacks{
		OnError: func(e error) { failedErr = e },
	})

	require.Error(t, err)
	require.Error(t, failedErr)
	opener.AssertExpectations(t)
}

func TestPayment_StartGatewayError(t *testing.T) {
	client := newPaymentServer(t, http.StatusOK)

	gwErr := errors.New("widget crashed")
	opener := new(OpenerMock)
	opener.On("Open", mock.Anything, mock.Anything).Return(nil, gwErr).Once()

	p := NewPayment(client, opener, nil, newNoopLogger())

	err := p.Start(context.Background(), PaymentCallbacks{})
	require.Error(t, err)
	assert.ErrorIs(t, err, gwErr)
}

func TestPayment_LoaderFailureIsSticky(t *testing.T) {
	client := newPaymentServer(t, http.StatusOK)

	loader := &LoaderMock{err: errors.New("script unavailable")}
	p := NewPayment(client, new(OpenerMock), loader, newNoopLogger())

	err := p.Start(context.Background(), PaymentCallbacks{})
	require.Error(t, err)

	err = p.Start(context.Background(), PaymentCallbacks{})
	require.Error(t, err)

	// Подготовка среды выполняется ровно один раз.
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestPayment_ConcurrentStartRejected(t *testing.T) {
	client := newPaymentServer(t, http.StatusOK)

	release := make(chan struct{})
	started := make(chan struct{})

	opener := new(OpenerMock)
	opener.On("Open", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&CheckoutResult{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}, nil).Once()

	p := NewPayment(client, opener, nil, newNoopLogger())

	done := make(chan error, 1)
	go func() {
		done <- p.Start(context.Background(), PaymentCallbacks{})
	}()

	<-started
	err := p.Start(context.Background(), PaymentCallbacks{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")

	close(release)
	require.NoError(t, <-done)
}
