package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMembershipDetails(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	tests := []struct {
		name        string
		user        User
		wantStatus  string
		wantExpiry  string
		wantAutopay string
	}{
		{
			name: "active membership",
			user: User{
				MembershipStatus:  MembershipActive,
				MembershipEndDate: &future,
				AutopayEnabled:    true,
			},
			wantStatus:  MembershipActive,
			wantExpiry:  future.Format(time.RFC3339),
			wantAutopay: AutopayActive,
		},
		{
			name: "lapsed end date forces expired",
			user: User{
				MembershipStatus:  MembershipActive,
				MembershipEndDate: &past,
			},
			wantStatus:  MembershipExpired,
			wantExpiry:  past.Format(time.RFC3339),
			wantAutopay: AutopayInactive,
		},
		{
			name:        "never paid",
			user:        User{},
			wantStatus:  MembershipNone,
			wantExpiry:  "",
			wantAutopay: AutopayInactive,
		},
		{
			name: "stored expired status kept",
			user: User{
				MembershipStatus:  MembershipExpired,
				MembershipEndDate: &past,
			},
			wantStatus:  MembershipExpired,
			wantExpiry:  past.Format(time.RFC3339),
			wantAutopay: AutopayInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := NewMembershipDetails(&tt.user, now)
			assert.Equal(t, tt.wantStatus, details.Status)
			assert.Equal(t, tt.wantExpiry, details.ExpiryDate)
			assert.Equal(t, tt.wantExpiry, details.NextBillingDate)
			assert.Equal(t, tt.wantAutopay, details.AutopayStatus)
		})
	}
}
