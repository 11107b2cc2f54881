// Package github fetches a maintainer's sponsorship list from the GitHub
// GraphQL API and normalizes it into sponsor records.
package github

import (
	"bytes"
	"context"
	"encoding/json"
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

// ErrMissingToken indicates that the client was configured without credentials.
var ErrMissingToken = errors.New("github: api token is required")

const pageSize = 100

// The same login could plausibly belong to either owner kind, so queries try
// the organization root first and fall back to the user root.
var ownerKinds = []string{"organization", "user"}

const sponsorshipQuery = `query($login:String!,$first:Int!,$after:String){
  %s(login:$login){
    sponsorshipsAsMaintainer(first:$first, after:$after, activeOnly:true, includePrivate:false){
      pageInfo{hasNextPage endCursor}
      nodes{
        id
        createdAt
        isActive
        isOneTimePayment
        privacyLevel
        sponsorEntity{
          __typename
          ... on User{ login name url }
          ... on Organization{ login name url }
        }
        tier{
          monthlyPriceInCents
          monthlyPriceInDollars
        }
      }
    }
  }
}`

// Options configures the GitHub Sponsors client.
type Options struct {
	Token          string
	Login          string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs paginated GraphQL calls against the GitHub API.
type Client struct {
	token      string
	login      string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []graphQLError             `json:"errors"`
}

type ownerContainer struct {
	Sponsorships *sponsorshipConnection `json:"sponsorshipsAsMaintainer"`
}

type sponsorshipConnection struct {
	PageInfo pageInfo          `json:"pageInfo"`
	Nodes    []sponsorshipNode `json:"nodes"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type sponsorshipNode struct {
	CreatedAt        string           `json:"createdAt"`
	IsActive         bool             `json:"isActive"`
	IsOneTimePayment bool             `json:"isOneTimePayment"`
	PrivacyLevel     string           `json:"privacyLevel"`
	SponsorEntity    *sponsorEntity   `json:"sponsorEntity"`
	Tier             *sponsorshipTier `json:"tier"`
}

type sponsorEntity struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type sponsorshipTier struct {
	MonthlyPriceInCents   json.Number `json:"monthlyPriceInCents"`
	MonthlyPriceInDollars json.Number `json:"monthlyPriceInDollars"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, ErrMissingToken
	}
	login := strings.TrimSpace(opts.Login)
	if login == "" {
		return nil, errors.New("github: login is required")
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
		baseURL = "https://api.github.com/graphql"
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
		token:      token,
		login:      login,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// FetchSponsors returns all active, public, recurring sponsorships for the
// configured login that meet at least the regular monthly minimum. Pages are
// fetched sequentially until the API reports no further pages.
func (c *Client) FetchSponsors(ctx context.Context, thresholds sponsor.Thresholds) ([]sponsor.Sponsor, error) {
	for _, kind := range ownerKinds {
		sponsors, resolved, err := c.fetchOwnerKind(ctx, kind, thresholds)
		if err != nil {
			return nil, err
		}
		if resolved {
			c.logger.Info().
				Str("login", c.login).
				Str("owner_kind", kind).
				Int("count", len(sponsors)).
				Msg("github: fetched sponsors")
			return sponsors, nil
		}
	}
	return nil, fmt.Errorf("github: login %q not found as organization or user", c.login)
}

// fetchOwnerKind walks all pages for one owner kind. resolved is false when
// the login does not exist under this kind, which is not an error in itself.
func (c *Client) fetchOwnerKind(ctx context.Context, kind string, thresholds sponsor.Thresholds) ([]sponsor.Sponsor, bool, error) {
	var out []sponsor.Sponsor
	after := ""
	for {
		resp, err := c.query(ctx, kind, after)
		if err != nil {
			return nil, false, err
		}

		if len(resp.Errors) > 0 {
			if onlyNotFound(resp.Errors) {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("github: graphql query failed: %s", joinErrors(resp.Errors))
		}

		container, err := decodeContainer(resp.Data[kind])
		if err != nil {
			return nil, false, fmt.Errorf("github: decode %s container: %w", kind, err)
		}
		if container == nil || container.Sponsorships == nil {
			return nil, false, nil
		}

		conn := container.Sponsorships
		for _, node := range conn.Nodes {
			s, ok := c.normalizeNode(node, thresholds)
			if !ok {
				continue
			}
			out = append(out, s)
		}

		if !conn.PageInfo.HasNextPage {
			return out, true, nil
		}
		after = conn.PageInfo.EndCursor
		c.logger.Debug().
			Str("owner_kind", kind).
			Str("cursor", after).
			Msg("github: fetching next sponsorship page")
	}
}

func (c *Client) normalizeNode(node sponsorshipNode, thresholds sponsor.Thresholds) (sponsor.Sponsor, bool) {
	if !node.IsActive || node.IsOneTimePayment {
		return sponsor.Sponsor{}, false
	}
	if node.PrivacyLevel != "PUBLIC" {
		return sponsor.Sponsor{}, false
	}
	if node.SponsorEntity == nil {
		return sponsor.Sponsor{}, false
	}
	login := strings.TrimSpace(node.SponsorEntity.Login)
	profileURL := strings.TrimSpace(node.SponsorEntity.URL)
	if login == "" || profileURL == "" {
		return sponsor.Sponsor{}, false
	}
	startedAt, ok := sponsor.ParseTimestamp(node.CreatedAt, false)
	if !ok {
		c.logger.Debug().Str("login", login).Msg("github: sponsorship without a parsable creation time, skipping")
		return sponsor.Sponsor{}, false
	}
	amount, ok := tierAmount(node.Tier)
	if !ok {
		c.logger.Debug().Str("login", login).Msg("github: sponsorship without a resolvable amount, skipping")
		return sponsor.Sponsor{}, false
	}
	tier, ok := sponsor.Classify(amount, thresholds.GitHubRegularMonthlyMin, thresholds.GitHubHighlightedMonthlyMin)
	if !ok {
		return sponsor.Sponsor{}, false
	}
	name := strings.TrimSpace(node.SponsorEntity.Name)
	if name == "" {
		name = login
	}
	return sponsor.Sponsor{
		Platform:      sponsor.PlatformGitHub,
		Key:           strings.ToLower(login),
		Name:          name,
		ProfileURL:    profileURL,
		AvatarURL:     "https://github.com/" + url.PathEscape(login) + ".png",
		StartedAt:     startedAt,
		Tier:          tier,
		MonthlyAmount: amount,
		Currency:      sponsor.CurrencyUSD,
	}, true
}

func (c *Client) query(ctx context.Context, kind, after string) (*graphQLResponse, error) {
	variables := map[string]any{
		"login": c.login,
		"first": pageSize,
		"after": nil,
	}
	if after != "" {
		variables["after"] = after
	}
	body, err := json.Marshal(graphQLRequest{
		Query:     fmt.Sprintf(sponsorshipQuery, kind),
		Variables: variables,
	})
	if err != nil {
		return nil, fmt.Errorf("github: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("github: decode response: %w", err)
	}
	return &decoded, nil
}

func decodeContainer(raw json.RawMessage) (*ownerContainer, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var container ownerContainer
	if err := json.Unmarshal(raw, &container); err != nil {
		return nil, err
	}
	return &container, nil
}

// tierAmount derives the monthly amount from the cents field when present,
// falling back to the dollars field.
func tierAmount(t *sponsorshipTier) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}
	if cents, ok := sponsor.ParseDecimal(t.MonthlyPriceInCents.String()); ok {
		return cents.Div(decimal.NewFromInt(100)), true
	}
	return sponsor.ParseDecimal(t.MonthlyPriceInDollars.String())
}

// onlyNotFound reports whether the error payload signals nothing beyond a
// missing owner, which is treated as "zero sponsors" rather than a failure.
func onlyNotFound(errs []graphQLError) bool {
	for _, e := range errs {
		if e.Type != "NOT_FOUND" {
			return false
		}
	}
	return len(errs) > 0
}

func joinErrors(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
			continue
		}
		msgs = append(msgs, e.Type)
	}
	return strings.Join(msgs, "; ")
}
