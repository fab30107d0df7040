package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestServerStatus_ToggleTarget(t *testing.T) {
	tests := []struct {
		name   string
		status domain.ServerStatus
		want   domain.ServerStatus
		wantOK bool
	}{
		{name: "stopped starts", status: domain.StatusStopped, want: domain.StatusStarting, wantOK: true},
		{name: "running stops", status: domain.StatusRunning, want: domain.StatusStopping, wantOK: true},
		{name: "starting is busy", status: domain.StatusStarting, want: domain.StatusStarting, wantOK: false},
		{name: "stopping is busy", status: domain.StatusStopping, want: domain.StatusStopping, wantOK: false},
		{name: "error is rejected", status: domain.StatusError, want: domain.StatusError, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.status.ToggleTarget()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestServer_Settle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		server      domain.Server
		wantSettled bool
		wantStatus  domain.ServerStatus
	}{
		{
			name:        "starting past due becomes running",
			server:      domain.Server{Status: domain.StatusStarting, TransitionDueAt: timePtr(now.Add(-time.Second))},
			wantSettled: true,
			wantStatus:  domain.StatusRunning,
		},
		{
			name:        "stopping exactly due becomes stopped",
			server:      domain.Server{Status: domain.StatusStopping, TransitionDueAt: timePtr(now)},
			wantSettled: true,
			wantStatus:  domain.StatusStopped,
		},
		{
			name:        "starting not yet due",
			server:      domain.Server{Status: domain.StatusStarting, TransitionDueAt: timePtr(now.Add(time.Second))},
			wantSettled: false,
			wantStatus:  domain.StatusStarting,
		},
		{
			name:        "stable status untouched",
			server:      domain.Server{Status: domain.StatusRunning},
			wantSettled: false,
			wantStatus:  domain.StatusRunning,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.server
			assert.Equal(t, tt.wantSettled, s.Settle(now))
			assert.Equal(t, tt.wantStatus, s.Status)
			if tt.wantSettled {
				assert.Nil(t, s.TransitionDueAt)
			}
		})
	}
}

func TestUser_HasCredential(t *testing.T) {
	hash := "$2a$10$hash"
	googleID := "1234"
	empty := ""

	assert.True(t, domain.User{PasswordHash: &hash}.HasCredential())
	assert.True(t, domain.User{GoogleID: &googleID}.HasCredential())
	assert.False(t, domain.User{PasswordHash: &empty}.HasCredential())
	assert.False(t, domain.User{}.HasCredential())
}

func TestPlan_Pricing(t *testing.T) {
	plan := domain.Plan{
		MonthlyPrice: decimal.NewFromInt(19),
		YearlyPrice:  decimal.NewFromInt(190),
	}

	assert.True(t, plan.PriceFor(domain.BillingYearly).Equal(decimal.NewFromInt(190)))
	assert.True(t, plan.PriceFor(domain.BillingMonthly).Equal(decimal.NewFromInt(19)))
	assert.True(t, plan.YearlySavings().Equal(decimal.NewFromInt(38)))
	assert.False(t, plan.IsFree())
}
