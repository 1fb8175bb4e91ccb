package flags

// Package flags defines canonical CLI flag names shared across the CLI and config.
// Keeping these as constants helps avoid drift between Cobra flag wiring and the
// configuration key bindings in config.FlagKeys.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Target.Org, flags.FlagOrg, "", "...")
//	arg := "--" + flags.FlagOrg
const (
	FlagConfig = "config"

	// Targeting
	FlagOrg        = "org"
	FlagInclude    = "include"
	FlagExclude    = "exclude"
	FlagTopic      = "topic"
	FlagVisibility = "visibility"
	FlagArchived   = "archived"
	FlagForks      = "forks"
	FlagMaxRepos   = "max-repos"

	// Auth
	FlagAPIURL         = "api-url"
	FlagAppID          = "app-id"
	FlagInstallationID = "installation-id"
	FlagAppPrivateKey  = "app-private-key"

	// Output
	FlagFormat         = "format"
	FlagOut            = "out"
	FlagOutFormat      = "out-format"
	FlagMarkdown       = "markdown"
	FlagHTML           = "html"
	FlagNoConsole      = "no-console"
	FlagFailOnFindings = "fail-on-findings"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagVerbose     = "verbose"
	FlagHTTPCache   = "http-cache"
	FlagLogLevel    = "log-level"
	FlagLogFormat   = "log-format"
)
