// Package sponsor holds the normalized supporter model shared by the
// platform adapters and the ranking/rendering stages.
package sponsor

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Platform identifies the source a sponsor record was fetched from.
type Platform string

const (
	PlatformGitHub    Platform = "github"
	PlatformLiberapay Platform = "liberapay"
)

// Tier is the display classification of a sponsor.
type Tier string

const (
	TierRegular     Tier = "regular"
	TierHighlighted Tier = "highlighted"
)

// Currency codes accepted from the platform exports.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// SupportedCurrency reports whether code is one of the accepted currencies.
func SupportedCurrency(code string) bool {
	return code == CurrencyUSD || code == CurrencyEUR
}

// Sponsor is one recurring supporter, normalized to a monthly amount.
// Identity is (Platform, Key); records are never mutated after construction.
type Sponsor struct {
	Platform      Platform
	Key           string
	Name          string
	ProfileURL    string
	AvatarURL     string
	StartedAt     time.Time
	Tier          Tier
	MonthlyAmount decimal.Decimal
	Currency      string
}

// Thresholds holds the configured tier minimums. The GitHub minimums apply to
// monthly amounts, the Liberapay minimums to weekly amounts.
type Thresholds struct {
	GitHubRegularMonthlyMin       decimal.Decimal
	GitHubHighlightedMonthlyMin   decimal.Decimal
	LiberapayRegularWeeklyMin     decimal.Decimal
	LiberapayHighlightedWeeklyMin decimal.Decimal
}

// Validate checks the threshold invariants once at startup: every minimum is
// non-negative and each platform's highlighted minimum is at least its
// regular minimum.
func (t Thresholds) Validate() error {
	for _, v := range []decimal.Decimal{
		t.GitHubRegularMonthlyMin,
		t.GitHubHighlightedMonthlyMin,
		t.LiberapayRegularWeeklyMin,
		t.LiberapayHighlightedWeeklyMin,
	} {
		if v.IsNegative() {
			return errors.New("sponsor: threshold values must be non-negative")
		}
	}
	if t.GitHubHighlightedMonthlyMin.LessThan(t.GitHubRegularMonthlyMin) {
		return errors.New("sponsor: github highlighted minimum must be greater than or equal to the github regular minimum")
	}
	if t.LiberapayHighlightedWeeklyMin.LessThan(t.LiberapayRegularWeeklyMin) {
		return errors.New("sponsor: liberapay highlighted minimum must be greater than or equal to the liberapay regular minimum")
	}
	return nil
}

// Classify maps an amount onto a display tier: highlighted at or above the
// highlighted minimum, regular in [regularMin, highlightedMin). Amounts below
// the regular minimum report false and are excluded from the output.
func Classify(amount, regularMin, highlightedMin decimal.Decimal) (Tier, bool) {
	switch {
	case amount.GreaterThanOrEqual(highlightedMin):
		return TierHighlighted, true
	case amount.GreaterThanOrEqual(regularMin):
		return TierRegular, true
	default:
		return "", false
	}
}

// FilterTier returns the sponsors whose tier matches tier, preserving order.
func FilterTier(sponsors []Sponsor, tier Tier) []Sponsor {
	var out []Sponsor
	for _, s := range sponsors {
		if s.Tier == tier {
			out = append(out, s)
		}
	}
	return out
}
