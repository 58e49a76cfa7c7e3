package club

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembership_LoadDashboard(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/membership/details", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", map[string]any{
			"membership": map[string]any{
				"status":     "ACTIVE",
				"expiryDate": "2026-12-01T00:00:00Z",
			},
			"renewal_allowed": false,
		})
	})
	mux.HandleFunc("/membership/transactions", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", map[string]any{
			"transactions": []map[string]any{
				{"id": "t1", "amount": 36900, "status": "success", "date": "2026-08-01T10:00:00Z"},
			},
		})
	})
	mux.HandleFunc("/vouchers", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", map[string]any{
			"vouchers": []map[string]any{
				{"id": "v1", "title": "Partner discount", "isClaimed": false, "isActive": true},
			},
		})
	})

	client, _ := newTestClient(t, mux)
	m := NewMembership(client)

	dash, err := m.LoadDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ACTIVE", dash.Membership.Status)
	assert.False(t, dash.RenewalAllowed)
	require.Len(t, dash.Transactions, 1)
	assert.Equal(t, 36900, dash.Transactions[0].Amount)
	require.Len(t, dash.Vouchers, 1)
	assert.Equal(t, "v1", dash.Vouchers[0].ID)
}

func TestMembership_LoadDashboardPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/membership/details", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", map[string]any{
			"membership":      map[string]any{"status": "ACTIVE"},
			"renewal_allowed": false,
		})
	})
	mux.HandleFunc("/membership/transactions", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, "internal error", nil)
	})
	mux.HandleFunc("/vouchers", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "", map[string]any{"vouchers": []any{}})
	})

	client, _ := newTestClient(t, mux)
	m := NewMembership(client)

	dash, err := m.LoadDashboard(context.Background())
	require.Error(t, err)
	assert.Nil(t, dash, "partial snapshot is never returned")
}

func TestMembership_Claim(t *testing.T) {
	var claimCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/vouchers/claim/v2", func(w http.ResponseWriter, r *http.Request) {
		claimCalls.Add(1)
		writeEnvelope(w, http.StatusOK, "voucher claimed", map[string]any{
			"voucher": map[string]any{
				"id": "v2", "title": "Coffee", "code": "SECRET42",
				"isClaimed": true, "isActive": true,
			},
		})
	})

	client, _ := newTestClient(t, mux)
	m := NewMembership(client)

	vouchers := []Voucher{
		{ID: "v1", Title: "Other"},
		{ID: "v2", Title: "Coffee"},
	}

	updated, err := m.Claim(context.Background(), vouchers, "v2")
	require.NoError(t, err)

	// Подменяется только полученный ваучер, соседи не трогаются.
	assert.Equal(t, "v1", updated[0].ID)
	assert.False(t, updated[0].IsClaimed)
	assert.True(t, updated[1].IsClaimed)
	assert.Equal(t, "SECRET42", updated[1].Code)

	// Исходный срез не мутируется.
	assert.False(t, vouchers[1].IsClaimed)
}

func TestMembership_ClaimErrorKeepsList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vouchers/claim/v1", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, "voucher already claimed", nil)
	})

	client, _ := newTestClient(t, mux)
	m := NewMembership(client)

	vouchers := []Voucher{{ID: "v1", IsClaimed: true, Code: "KEPT"}}

	updated, err := m.Claim(context.Background(), vouchers, "v1")
	require.Error(t, err)

	// Состояние «получен» не откатывается при ошибке.
	require.Len(t, updated, 1)
	assert.True(t, updated[0].IsClaimed)
	assert.Equal(t, "KEPT", updated[0].Code)
}

func TestMembership_ClaimInFlightCollapses(t *testing.T) {
	var claimCalls atomic.Int32
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/vouchers/claim/v1", func(w http.ResponseWriter, r *http.Request) {
		claimCalls.Add(1)
		<-release
		writeEnvelope(w, http.StatusOK, "voucher claimed", map[string]any{
			"voucher": map[string]any{"id": "v1", "isClaimed": true, "code": "X"},
		})
	})

	client, _ := newTestClient(t, mux)
	m := NewMembership(client)
	vouchers := []Voucher{{ID: "v1"}}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = m.Claim(context.Background(), vouchers, "v1")
	}()

	// Дождаться, пока первый запрос займёт слот.
	require.Eventually(t, func() bool { return claimCalls.Load() == 1 },
		time.Second, 5*time.Millisecond)

	// Повторный вызов во время незавершённого получения — no-op.
	updated, err := m.Claim(context.Background(), vouchers, "v1")
	require.NoError(t, err)
	assert.Equal(t, vouchers, updated)

	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), claimCalls.Load())
}

func TestRenewalAllowed(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	expiryIn := func(d time.Duration) string {
		return now.Add(d).Format(time.RFC3339)
	}

	tests := []struct {
		name    string
		details *MembershipDetails
		want    bool
	}{
		{"nil details", nil, false},
		{"expired - always allowed", &MembershipDetails{Status: MembershipExpired}, true},
		{"none - always allowed", &MembershipDetails{Status: MembershipNone}, true},
		{
			"active, 5 days left - allowed",
			&MembershipDetails{Status: MembershipActive, ExpiryDate: expiryIn(5 * 24 * time.Hour)},
			true,
		},
		{
			"active, 6 days left - not allowed",
			&MembershipDetails{Status: MembershipActive, ExpiryDate: expiryIn(6 * 24 * time.Hour)},
			false,
		},
		{
			"active, 5 days and an hour - partial day counts as full",
			&MembershipDetails{Status: MembershipActive, ExpiryDate: expiryIn(5*24*time.Hour + time.Hour)},
			false,
		},
		{
			"active, expiry in the past - allowed",
			&MembershipDetails{Status: MembershipActive, ExpiryDate: expiryIn(-time.Hour)},
			true,
		},
		{
			"active without expiry date - not allowed",
			&MembershipDetails{Status: MembershipActive},
			false,
		},
		{
			"active with malformed expiry - not allowed",
			&MembershipDetails{Status: MembershipActive, ExpiryDate: "not-a-date"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenewalAllowed(tt.details, now))
		})
	}
}
