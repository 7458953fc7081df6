package store

import "testing"

func TestAdvanceDueDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		interval string
		want     string
	}{
		{"daily", "2026-01-15", "daily", "2026-01-16"},
		{"daily across month end", "2026-01-31", "daily", "2026-02-01"},
		{"weekly", "2026-01-15", "weekly", "2026-01-22"},
		{"weekly across year end", "2025-12-29", "weekly", "2026-01-05"},
		{"monthly", "2026-01-15", "monthly", "2026-02-15"},
		{"monthly from jan 31 normalizes", "2026-01-31", "monthly", "2026-03-03"},
		{"yearly", "2026-03-01", "yearly", "2027-03-01"},
		{"yearly from leap day", "2024-02-29", "yearly", "2025-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdvanceDueDate(tt.date, tt.interval)
			if err != nil {
				t.Fatalf("AdvanceDueDate(%q, %q) error = %v", tt.date, tt.interval, err)
			}
			if got != tt.want {
				t.Errorf("AdvanceDueDate(%q, %q) = %q, want %q", tt.date, tt.interval, got, tt.want)
			}
		})
	}
}

func TestAdvanceDueDate_Errors(t *testing.T) {
	if _, err := AdvanceDueDate("2026-01-15", "fortnightly"); err == nil {
		t.Error("expected error for unknown interval")
	}
	if _, err := AdvanceDueDate("15.01.2026", "daily"); err == nil {
		t.Error("expected error for non-canonical date")
	}
}
