package model

import (
	"testing"
	"time"
)

func TestOrderIsActive(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 0, 30)
	past := now.AddDate(0, 0, -1)

	cases := []struct {
		name  string
		order Order
		want  bool
	}{
		{"active with future expiry", Order{Status: OrderStatusActive, ExpiryDate: &future}, true},
		{"active with past expiry", Order{Status: OrderStatusActive, ExpiryDate: &past}, false},
		{"completed with future expiry", Order{Status: OrderStatusCompleted, ExpiryDate: &future}, true},
		{"inactive regardless of expiry", Order{Status: OrderStatusInactive, ExpiryDate: &future}, false},
		{"pending is not active", Order{Status: OrderStatusPending, ExpiryDate: &future}, false},
		{
			"completed without expiry recomputes from creation",
			Order{Status: OrderStatusCompleted, DurationMonths: 6, CreatedAt: now.AddDate(0, 0, -100)},
			true,
		},
		{
			"completed without expiry past recomputed window",
			Order{Status: OrderStatusCompleted, DurationMonths: 6, CreatedAt: now.AddDate(0, 0, -181)},
			false,
		},
		{
			"unknown duration without expiry is inactive",
			Order{Status: OrderStatusActive, DurationMonths: 0, CreatedAt: now},
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.order.IsActive(now); got != tc.want {
				t.Fatalf("IsActive = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseActivationType(t *testing.T) {
	for _, valid := range []string{"pre_activated", "self_activation", "redemption_required"} {
		if _, err := ParseActivationType(valid); err != nil {
			t.Errorf("ParseActivationType(%q) rejected: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "PRE_ACTIVATED", "manual", "self"} {
		if _, err := ParseActivationType(invalid); err == nil {
			t.Errorf("ParseActivationType(%q) accepted", invalid)
		}
	}
}
