package jobs

import "testing"

func ptr(v float64) *float64 { return &v }

func TestFormatSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		min      *float64
		max      *float64
		currency string
		expect   string
	}{
		{name: "both absent", expect: "Negotiable"},
		{name: "zero bounds are absent", min: ptr(0), max: ptr(0), currency: "VND", expect: "Negotiable"},
		{name: "vnd range", min: ptr(20_000_000), max: ptr(35_000_000), currency: "VND", expect: "20M VND - 35M VND"},
		{name: "vnd only min", min: ptr(20_000_000), currency: "VND", expect: "20M VND"},
		{name: "vnd only max", max: ptr(15_500_000), currency: "VND", expect: "16M VND"},
		{name: "empty currency is vnd", max: ptr(20_000_000), expect: "20M VND"},
		{name: "usd grouped", min: ptr(1500), max: ptr(2500), currency: "USD", expect: "1,500 USD - 2,500 USD"},
		{name: "usd only max", max: ptr(1234567), currency: "USD", expect: "1,234,567 USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatSalary(tt.min, tt.max, tt.currency); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
