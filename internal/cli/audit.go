package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ghsecaudit/internal/config"
	"ghsecaudit/internal/engine"
	"ghsecaudit/internal/fetcher"
	"ghsecaudit/internal/fetcher/providers"
	"ghsecaudit/internal/flags"
	gh "ghsecaudit/internal/github"
	"ghsecaudit/internal/logging"
	"ghsecaudit/internal/output"
	"ghsecaudit/internal/report"
)

const auditHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
  ghsecaudit authenticates to GitHub with an access token or a GitHub App.

  Token sources (in order):
  1) GHSECAUDIT_AUTH_TOKEN or auth.token in the config file
  2) GITHUB_TOKEN environment variable
  3) GH_TOKEN environment variable
  4) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

  Token guidance (brief):
  - PAT (classic): needs repo (to read private repos and branch protection)
    and read:org (to list members and admins).
  - Fine-grained PAT: grant the target repositories Metadata: Read,
    Contents: Read and Administration: Read, plus organization Members: Read.
  - GitHub App: pass --app-id, --installation-id and --app-private-key.

  Every flag can also be set as GHSECAUDIT_<SECTION>_<KEY>, for example
  GHSECAUDIT_RUNTIME_CONCURRENCY=10. Explicit flags win over the environment,
  which wins over --config.

  Examples:
    # macOS/Linux
    export GITHUB_TOKEN="<your_token>"
    ghsecaudit audit --org my-org

    # GitHub CLI auth
    gh auth login
    ghsecaudit audit --org my-org

    # Windows PowerShell
    $env:GITHUB_TOKEN = "<your_token>"
    ghsecaudit audit --org my-org

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasHelpSubCommands}}Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit the repositories of a GitHub organization or user",
		Long: `Audit the repositories of a GitHub organization or user account.

For every repository the default branch protection is compared with the
security policy (see "ghsecaudit rules list") and the CODEOWNERS file is
resolved from .github/, the repository root or docs/.

Output:
	Console output is controlled by --format (text or json).
	Additional reports can be written via:
	- --out / --out-format: the full report as JSON or YAML
	- --markdown: a Markdown report
	- --html: an HTML report (defaults to {org}_audit_report.html when no path is given;
	  an explicit path must be attached as --html=PATH)
	- --no-console: suppress console output and progress lines

	A repository whose settings could not be read is reported with an access
	error and does not stop the audit.

Exit codes:
	0 = report produced
	1 = fatal error (authentication, unknown account, rate limit, cancellation)
	2 = invalid configuration or setup failure
	3 = report produced, with --fail-on-findings and at least one non-compliant finding

Examples:
  ghsecaudit audit --org my-org
  ghsecaudit audit --org my-org --html --markdown report.md
  ghsecaudit audit --org my-org --html=reports/audit.html
  ghsecaudit audit --org my-org --no-console --out report.json
  ghsecaudit audit --org octocat --forks exclude --archived exclude
  ghsecaudit audit --org my-org --api-url https://ghe.example.com/api/v3
`,
		Args: cobra.NoArgs,
		RunE: runAudit,
	}
	cmd.SetHelpTemplate(auditHelpTemplate)

	d := config.New()
	f := cmd.Flags()

	f.String(flags.FlagConfig, "", "Read configuration from this YAML, JSON or TOML file")

	// Targeting
	f.String(flags.FlagOrg, "", "GitHub organization or user account to audit (name or URL)")
	f.StringSlice(flags.FlagInclude, nil, "Include pattern(s) (repeatable; comma-separated accepted). Go path.Match style; if pattern contains '/', matches OWNER/REPO, else matches repo name")
	f.StringSlice(flags.FlagExclude, nil, "Exclude pattern(s) (repeatable; comma-separated accepted). Same matching rules as --include")
	f.StringSlice(flags.FlagTopic, nil, "Require at least one topic match (repeatable; comma-separated accepted; exact match)")
	f.String(flags.FlagVisibility, d.Target.Visibility, "Visibility filter: public|private|internal|all")
	f.String(flags.FlagArchived, d.Target.Archived, "Archived repos policy: include|exclude|only")
	f.String(flags.FlagForks, d.Target.Forks, "Forks policy: include|exclude|only")
	f.Int(flags.FlagMaxRepos, 0, "Maximum number of repositories to audit (0 = unlimited)")

	// Auth
	f.String(flags.FlagAPIURL, d.Auth.APIURL, "GitHub REST API base URL (GitHub Enterprise Server: https://HOST/api/v3)")
	f.Int64(flags.FlagAppID, 0, "GitHub App ID (use with --installation-id and --app-private-key)")
	f.Int64(flags.FlagInstallationID, 0, "GitHub App installation ID")
	f.String(flags.FlagAppPrivateKey, "", "Path to the GitHub App private key (PEM)")

	// Output
	f.String(flags.FlagFormat, d.Output.Format, "Console output format: text|json")
	f.String(flags.FlagOut, "", "Write the full report to this path")
	f.String(flags.FlagOutFormat, "", "Report format for --out: json|yaml (default: inferred from file extension)")
	f.String(flags.FlagMarkdown, "", "Write a Markdown report to this path")
	f.String(flags.FlagHTML, "", "Write an HTML report; give a path as --html=PATH (bare --html writes {org}_audit_report.html)")
	f.Lookup(flags.FlagHTML).NoOptDefVal = config.HTMLDefaultPath
	f.Bool(flags.FlagNoConsole, false, "Suppress console output (use with --out/--markdown/--html)")
	f.Bool(flags.FlagFailOnFindings, false, "Exit with code 3 when any finding is not Correct")

	// Runtime
	f.Int(flags.FlagConcurrency, d.Runtime.Concurrency, "Concurrent repository workers")
	f.Duration(flags.FlagTimeout, d.Runtime.Timeout, "Global timeout")
	f.Bool(flags.FlagHTTPCache, false, "Revalidate repeated GETs with an in-memory ETag cache")
	f.String(flags.FlagLogLevel, d.Runtime.LogLevel, "Log level: debug|info|warn|error")
	f.String(flags.FlagLogFormat, d.Runtime.LogFormat, "Log format: console|json")

	return cmd
}

func runAudit(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString(flags.FlagConfig)
	if err != nil {
		return setupError(err)
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return setupError(err)
	}
	if err := cfg.Validate(); err != nil {
		return setupError(err)
	}

	logger, err := logging.NewFactory().CreateLogger(logging.Level(cfg.Runtime.LogLevel), logging.Format(cfg.Runtime.LogFormat))
	if err != nil {
		return setupError(fmt.Errorf("failed to create logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	client, err := newGitHubClient(ctx, cfg, logger)
	if err != nil {
		return setupError(err)
	}

	source, err := providers.NewSource(fetcher.NewFetcher(client, fetcher.NewRateLimitGate(), fetcher.WithLogger(logger)))
	if err != nil {
		return setupError(err)
	}
	eng, err := engine.NewEngine(source, engine.WithLogger(logger), engine.WithProgress(cmd.ErrOrStderr()))
	if err != nil {
		return setupError(err)
	}

	rep, err := eng.Run(ctx, cfg)
	if err != nil {
		return fatalError(err)
	}

	if err := writeReport(cmd, cfg, rep, logger); err != nil {
		return fatalError(err)
	}

	if cfg.Output.FailOnFindings {
		if n := rep.Summary().NonCompliant(); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d findings are not compliant\n", n)
			return &ExitError{Code: ExitFindings}
		}
	}
	return nil
}

func newGitHubClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gh.Client, error) {
	opts := []gh.Option{
		gh.WithBaseURL(cfg.Auth.APIURL),
		gh.WithVerbose(cfg.Runtime.Verbose, logger),
		gh.WithHTTPCache(cfg.Runtime.HTTPCache),
	}

	if cfg.Auth.UsesApp() {
		key, err := gh.ReadPrivateKey(cfg.Auth.AppPrivateKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gh.WithAppCredentials(&gh.AppCredentials{
			AppID:          cfg.Auth.AppID,
			InstallationID: cfg.Auth.InstallationID,
			PrivateKey:     key,
		}))
		client, err := gh.NewClient(ctx, "", opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub client: %w", err)
		}
		logger.Debug("authenticating as GitHub App", zap.Int64("app_id", cfg.Auth.AppID))
		return client, nil
	}

	token, source, err := gh.ResolveAuthToken(ctx, cfg.Auth.Token, cfg.Auth.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GitHub auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("GitHub auth token is required (set GITHUB_TOKEN, GHSECAUDIT_AUTH_TOKEN or run 'gh auth login')")
	}
	logger.Debug("auth token resolved", zap.String("source", string(source)))

	client, err := gh.NewClient(ctx, token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return client, nil
}

func writeReport(cmd *cobra.Command, cfg *config.Config, rep *report.AuditReport, logger *zap.Logger) error {
	m := output.NewManager()
	generatedAt := time.Now()

	if !cfg.Output.NoConsole {
		w := cmd.OutOrStdout()
		useColor := !color.NoColor && w == os.Stdout
		if err := m.AddWriter("console", w, output.NewConsoleRenderer(cfg.Output.Format, useColor)); err != nil {
			return err
		}
	}
	if cfg.Output.Out != "" {
		r, err := output.StructuredRenderer(cfg.Output.OutFormat)
		if err != nil {
			return err
		}
		if err := m.AddFile(cfg.Output.Out, r); err != nil {
			return err
		}
	}
	if cfg.Output.Markdown != "" {
		if err := m.AddFile(cfg.Output.Markdown, output.MarkdownRenderer{GeneratedAt: generatedAt}); err != nil {
			return err
		}
	}
	if cfg.Output.HTML != "" {
		if err := m.AddFile(cfg.Output.HTML, output.HTMLRenderer{GeneratedAt: generatedAt}); err != nil {
			return err
		}
	}

	if err := m.Write(rep); err != nil {
		return err
	}
	for _, p := range []string{cfg.Output.Out, cfg.Output.Markdown, cfg.Output.HTML} {
		if p != "" {
			logger.Info("report written", zap.String("path", p))
		}
	}
	return nil
}
