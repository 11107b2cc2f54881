package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"sponsorsync/internal/infra"
	"sponsorsync/internal/sponsor"
	"sponsorsync/internal/update"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	var (
		githubLoginFlag       string
		liberapayUsernameFlag string
		githubRegularFlag     string
		githubHighlightedFlag string
		lpRegularFlag         string
		lpHighlightedFlag     string
		readmeFlag            string
	)

	flag.StringVar(&githubLoginFlag, "github-login", "", "GitHub organization or user login to query")
	flag.StringVar(&liberapayUsernameFlag, "liberapay-username", "", "Liberapay username to query (optional)")
	flag.StringVar(&githubRegularFlag, "github-regular-monthly-minimum", "", "minimum GitHub monthly amount for regular sponsors")
	flag.StringVar(&githubHighlightedFlag, "github-highlighted-monthly-minimum", "", "minimum GitHub monthly amount for highlighted sponsors")
	flag.StringVar(&lpRegularFlag, "liberapay-regular-weekly-minimum", "", "minimum Liberapay weekly amount for regular sponsors")
	flag.StringVar(&lpHighlightedFlag, "liberapay-highlighted-weekly-minimum", "", "minimum Liberapay weekly amount for highlighted sponsors")
	flag.StringVar(&readmeFlag, "readme", "README.md", "README file to update")
	flag.Parse()

	githubLogin := strings.TrimSpace(githubLoginFlag)
	if githubLogin == "" {
		exitWithError(errors.New("-github-login is required"))
	}

	thresholds := sponsor.Thresholds{
		GitHubRegularMonthlyMin:       decimalFlag("github-regular-monthly-minimum", githubRegularFlag),
		GitHubHighlightedMonthlyMin:   decimalFlag("github-highlighted-monthly-minimum", githubHighlightedFlag),
		LiberapayRegularWeeklyMin:     decimalFlag("liberapay-regular-weekly-minimum", lpRegularFlag),
		LiberapayHighlightedWeeklyMin: decimalFlag("liberapay-highlighted-weekly-minimum", lpHighlightedFlag),
	}
	if err := thresholds.Validate(); err != nil {
		exitWithError(err)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	cfg.GitHubLogin = githubLogin
	cfg.LiberapayUsername = strings.TrimSpace(liberapayUsernameFlag)
	cfg.ReadmePath = strings.TrimSpace(readmeFlag)

	logger := infra.NewLogger(cfg.AppEnv)

	runner, err := update.NewRunner(update.Options{
		Config:     cfg,
		Thresholds: thresholds,
		Logger:     &logger,
	})
	if err != nil {
		exitWithError(err)
	}

	if err := runner.Run(context.Background()); err != nil {
		exitWithError(err)
	}
}

// decimalFlag parses a required decimal flag value, rejecting blank and
// malformed input before anything else runs.
func decimalFlag(name, value string) decimal.Decimal {
	d, ok := sponsor.ParseDecimal(value)
	if !ok {
		exitWithError(fmt.Errorf("invalid decimal value for -%s: %q", name, value))
	}
	return d
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
