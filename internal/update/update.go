// Package update wires the platform adapters, the ranking stage and the
// renderer into the single end-to-end run of the tool.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"sponsorsync/internal/infra"
	"sponsorsync/internal/providers/github"
	"sponsorsync/internal/providers/liberapay"
	"sponsorsync/internal/render"
	"sponsorsync/internal/sponsor"
)

// Options configures a Runner.
type Options struct {
	Config     *infra.Config
	Thresholds sponsor.Thresholds
	Logger     *infra.Logger
}

// Runner executes one fetch → merge → render → write cycle.
type Runner struct {
	cfg        *infra.Config
	thresholds sponsor.Thresholds
	logger     *infra.Logger
}

// NewRunner validates the configuration once, before any network call.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.New("update: config is required")
	}
	if opts.Config.GitHubLogin == "" {
		return nil, errors.New("update: github login is required")
	}
	if opts.Config.ReadmePath == "" {
		return nil, errors.New("update: readme path is required")
	}
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Runner{
		cfg:        opts.Config,
		thresholds: opts.Thresholds,
		logger:     logger,
	}, nil
}

// Run performs the whole pipeline. Either both marker regions are rewritten
// consistently or the document is left untouched.
func (r *Runner) Run(ctx context.Context) error {
	sponsors, err := r.fetch(ctx)
	if err != nil {
		return err
	}

	regular := sponsor.Rank(sponsor.FilterTier(sponsors, sponsor.TierRegular))
	highlighted := sponsor.Rank(sponsor.FilterTier(sponsors, sponsor.TierHighlighted))
	r.logger.Info().
		Int("regular", len(regular)).
		Int("highlighted", len(highlighted)).
		Msg("update: ranked sponsors")

	doc, err := os.ReadFile(r.cfg.ReadmePath)
	if err != nil {
		return fmt.Errorf("update: read %s: %w", r.cfg.ReadmePath, err)
	}

	updated, err := render.ReplaceMarker(string(doc), render.MarkerHighlighted,
		render.TierMarkup(highlighted, render.HighlightedWidth))
	if err != nil {
		return err
	}
	updated, err = render.ReplaceMarker(updated, render.MarkerRegular,
		render.TierMarkup(regular, render.RegularWidth))
	if err != nil {
		return err
	}

	if err := os.WriteFile(r.cfg.ReadmePath, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("update: write %s: %w", r.cfg.ReadmePath, err)
	}
	r.logger.Info().Str("path", r.cfg.ReadmePath).Msg("update: document rewritten")
	return nil
}

// fetch collects records from both platforms. Liberapay records are placed
// before GitHub records so that a same-identity collision resolves in favor
// of the GitHub record during deduplication.
func (r *Runner) fetch(ctx context.Context) ([]sponsor.Sponsor, error) {
	gh, err := github.NewClient(github.Options{
		Token:   r.cfg.GitHubToken,
		Login:   r.cfg.GitHubLogin,
		BaseURL: r.cfg.GitHubGraphQLURL,
		Logger:  r.logger,
	})
	if err != nil {
		return nil, err
	}
	sponsors, err := gh.FetchSponsors(ctx, r.thresholds)
	if err != nil {
		return nil, err
	}

	if r.cfg.LiberapayUsername != "" {
		lp, err := liberapay.NewClient(liberapay.Options{
			Username: r.cfg.LiberapayUsername,
			BaseURL:  r.cfg.LiberapayBaseURL,
			Logger:   r.logger,
		})
		if err != nil {
			return nil, err
		}
		patrons, err := lp.FetchPatrons(ctx, r.thresholds)
		if err != nil {
			return nil, err
		}
		sponsors = append(patrons, sponsors...)
	}
	return sponsors, nil
}
