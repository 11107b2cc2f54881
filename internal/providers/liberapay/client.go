// Package liberapay fetches the public patron CSV export for a Liberapay
// account and normalizes it into sponsor records.
package liberapay

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"sponsorsync/internal/infra"
	"sponsorsync/internal/sponsor"
)

// AvatarFallback is used when a patron row carries no avatar URL.
const AvatarFallback = "https://liberapay.com/assets/liberapay/icon-v2_black.200.png"

var (
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
)

// Options configures the Liberapay patron client.
type Options struct {
	Username       string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client downloads and parses the public patron export.
type Client struct {
	username   string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	username := strings.TrimSpace(opts.Username)
	if username == "" {
		return nil, errors.New("liberapay: username is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://liberapay.com"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		username:   username,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchPatrons downloads the public CSV export and returns the patrons that
// meet at least the regular weekly minimum. Rows with missing or malformed
// fields are skipped, never fatal.
func (c *Client) FetchPatrons(ctx context.Context, thresholds sponsor.Thresholds) ([]sponsor.Sponsor, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(c.username) + "/patrons/public.csv"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("liberapay: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("liberapay: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("liberapay: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	patrons, err := c.parsePatrons(resp.Body, thresholds)
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("username", c.username).
		Int("count", len(patrons)).
		Msg("liberapay: fetched patrons")
	return patrons, nil
}

func (c *Client) parsePatrons(r io.Reader, thresholds sponsor.Thresholds) ([]sponsor.Sponsor, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("liberapay: read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var patrons []sponsor.Sponsor
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("liberapay: read csv row: %w", err)
		}

		s, ok := c.normalizeRow(record, columns, thresholds)
		if !ok {
			continue
		}
		patrons = append(patrons, s)
	}
	return patrons, nil
}

func (c *Client) normalizeRow(record []string, columns map[string]int, thresholds sponsor.Thresholds) (sponsor.Sponsor, bool) {
	username := strings.TrimSpace(field(record, columns, "patron_username"))
	if username == "" {
		return sponsor.Sponsor{}, false
	}

	currency := strings.ToUpper(strings.TrimSpace(field(record, columns, "donation_currency")))
	if !sponsor.SupportedCurrency(currency) {
		c.logger.Debug().Str("patron", username).Str("currency", currency).Msg("liberapay: unsupported currency, skipping")
		return sponsor.Sponsor{}, false
	}

	weekly, ok := sponsor.ParseDecimal(field(record, columns, "weekly_amount"))
	if !ok {
		c.logger.Debug().Str("patron", username).Msg("liberapay: unparsable weekly amount, skipping")
		return sponsor.Sponsor{}, false
	}

	startedAt, ok := sponsor.ParseTimestamp(field(record, columns, "pledge_date"), true)
	if !ok {
		c.logger.Debug().Str("patron", username).Msg("liberapay: unparsable pledge date, skipping")
		return sponsor.Sponsor{}, false
	}

	tier, ok := sponsor.Classify(weekly, thresholds.LiberapayRegularWeeklyMin, thresholds.LiberapayHighlightedWeeklyMin)
	if !ok {
		return sponsor.Sponsor{}, false
	}
	monthly := weekly.Mul(weeksPerYear).Div(monthsPerYear).Round(2)

	name := strings.TrimSpace(field(record, columns, "patron_public_name"))
	if name == "" {
		name = username
	}
	avatarURL := strings.TrimSpace(field(record, columns, "patron_avatar_url"))
	if avatarURL == "" {
		avatarURL = AvatarFallback
	}

	return sponsor.Sponsor{
		Platform:      sponsor.PlatformLiberapay,
		Key:           strings.ToLower(username),
		Name:          name,
		ProfileURL:    c.baseURL + "/" + url.PathEscape(username),
		AvatarURL:     avatarURL,
		StartedAt:     startedAt,
		Tier:          tier,
		MonthlyAmount: monthly,
		Currency:      currency,
	}, true
}

// field reads a named column from a row, tolerating short rows and columns
// missing from the header entirely.
func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
