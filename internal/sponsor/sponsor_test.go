package sponsor

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func validThresholds(t *testing.T) Thresholds {
	t.Helper()
	return Thresholds{
		GitHubRegularMonthlyMin:       dec(t, "5"),
		GitHubHighlightedMonthlyMin:   dec(t, "20"),
		LiberapayRegularWeeklyMin:     dec(t, "1"),
		LiberapayHighlightedWeeklyMin: dec(t, "4"),
	}
}

func TestThresholdsValidate(t *testing.T) {
	t.Parallel()
	if err := validThresholds(t).Validate(); err != nil {
		t.Fatalf("Validate returned error for valid thresholds: %v", err)
	}

	negative := validThresholds(t)
	negative.LiberapayRegularWeeklyMin = dec(t, "-0.01")
	if err := negative.Validate(); err == nil {
		t.Fatalf("Validate accepted a negative minimum")
	}

	inverted := validThresholds(t)
	inverted.GitHubHighlightedMonthlyMin = dec(t, "4")
	if err := inverted.Validate(); err == nil {
		t.Fatalf("Validate accepted github highlighted < regular")
	}

	invertedLP := validThresholds(t)
	invertedLP.LiberapayHighlightedWeeklyMin = dec(t, "0.5")
	if err := invertedLP.Validate(); err == nil {
		t.Fatalf("Validate accepted liberapay highlighted < regular")
	}
}

func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()
	regularMin := dec(t, "5")
	highlightedMin := dec(t, "20")

	cases := []struct {
		name     string
		amount   string
		wantTier Tier
		wantOK   bool
	}{
		{name: "below_regular", amount: "4.99", wantOK: false},
		{name: "at_regular", amount: "5", wantTier: TierRegular, wantOK: true},
		{name: "between", amount: "19.99", wantTier: TierRegular, wantOK: true},
		{name: "at_highlighted", amount: "20", wantTier: TierHighlighted, wantOK: true},
		{name: "above_highlighted", amount: "100", wantTier: TierHighlighted, wantOK: true},
		{name: "zero", amount: "0", wantOK: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tier, ok := Classify(dec(t, tc.amount), regularMin, highlightedMin)
			if ok != tc.wantOK {
				t.Fatalf("Classify(%s) ok = %v, want %v", tc.amount, ok, tc.wantOK)
			}
			if ok && tier != tc.wantTier {
				t.Fatalf("Classify(%s) = %q, want %q", tc.amount, tier, tc.wantTier)
			}
		})
	}
}

// Classification never becomes more exclusive as the amount grows.
func TestClassifyMonotonic(t *testing.T) {
	t.Parallel()
	regularMin := dec(t, "5")
	highlightedMin := dec(t, "20")

	rank := func(amount string) int {
		tier, ok := Classify(dec(t, amount), regularMin, highlightedMin)
		switch {
		case !ok:
			return 0
		case tier == TierRegular:
			return 1
		default:
			return 2
		}
	}

	amounts := []string{"0", "4.99", "5", "10", "19.99", "20", "20.01", "500"}
	for i := 1; i < len(amounts); i++ {
		if rank(amounts[i-1]) > rank(amounts[i]) {
			t.Fatalf("classification regressed between %s and %s", amounts[i-1], amounts[i])
		}
	}
}

func TestSupportedCurrency(t *testing.T) {
	t.Parallel()
	for _, code := range []string{CurrencyUSD, CurrencyEUR} {
		if !SupportedCurrency(code) {
			t.Fatalf("SupportedCurrency(%q) = false", code)
		}
	}
	for _, code := range []string{"GBP", "usd", ""} {
		if SupportedCurrency(code) {
			t.Fatalf("SupportedCurrency(%q) = true", code)
		}
	}
}
