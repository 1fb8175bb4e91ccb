package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"ghsecaudit/internal/logging"
)

// HTMLDefaultPath is the --html value used when the flag is given without a
// path. Validate replaces it with a file named after the audited account.
const HTMLDefaultPath = "{org}_audit_report.html"

type Config struct {
	// MAINTAINER NOTE: keys are addressed by their mapstructure path in config
	// files and GHSECAUDIT_* environment variables (see Keys). Keep the flag
	// bindings in internal/cli/audit.go in sync when adding fields.
	Target  Target  `mapstructure:"target"`
	Auth    Auth    `mapstructure:"auth"`
	Output  Output  `mapstructure:"output"`
	Runtime Runtime `mapstructure:"runtime"`
}

type Target struct {
	// Org is the GitHub account to audit (name or URL; see --org).
	// Organizations and user accounts are both accepted.
	Org string `mapstructure:"org"`

	// Include filters repositories by name using Go path.Match style (see --include).
	// If a pattern contains '/', it matches OWNER/REPO; otherwise it matches repo name.
	Include []string `mapstructure:"include"`

	// Exclude filters repositories by name (see --exclude). Same matching rules as Include.
	Exclude []string `mapstructure:"exclude"`

	// Topic requires repositories to have at least one matching topic (see --topic).
	Topic []string `mapstructure:"topic"`

	// Visibility filters repositories by visibility (see --visibility).
	// Allowed values: public, private, internal, all.
	Visibility string `mapstructure:"visibility"`

	// Archived controls how archived repos are handled (see --archived).
	// Allowed values: include, exclude, only.
	Archived string `mapstructure:"archived"`

	// Forks controls how forked repos are handled (see --forks).
	// Allowed values: include, exclude, only.
	Forks string `mapstructure:"forks"`

	// MaxRepos limits how many repositories to audit (see --max-repos). 0 means unlimited.
	MaxRepos int `mapstructure:"max_repos"`
}

type Auth struct {
	// Token is an explicit access token. Config file or GHSECAUDIT_AUTH_TOKEN only;
	// when empty the token resolver falls back to GITHUB_TOKEN, GH_TOKEN, then gh.
	Token string `mapstructure:"token"`

	// APIURL is the REST API base URL (see --api-url).
	APIURL string `mapstructure:"api_url"`

	// AppID, InstallationID and AppPrivateKey select GitHub App installation
	// authentication instead of a token. All three must be set together.
	AppID          int64  `mapstructure:"app_id"`
	InstallationID int64  `mapstructure:"installation_id"`
	AppPrivateKey  string `mapstructure:"app_private_key"`
}

// UsesApp reports whether GitHub App credentials were supplied.
func (a Auth) UsesApp() bool {
	return a.AppID != 0 || a.InstallationID != 0 || strings.TrimSpace(a.AppPrivateKey) != ""
}

type Output struct {
	// Format controls the console renderer (see --format).
	// Allowed values: text, json.
	Format string `mapstructure:"format"`

	// Out writes the report as structured data to this path (see --out).
	Out string `mapstructure:"out"`

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, yaml. If empty, it is inferred from the file extension.
	OutFormat string `mapstructure:"out_format"`

	// Markdown writes a Markdown report to this path (see --markdown).
	Markdown string `mapstructure:"markdown"`

	// HTML writes an HTML report to this path (see --html).
	HTML string `mapstructure:"html"`

	// NoConsole suppresses the console renderer (see --no-console).
	NoConsole bool `mapstructure:"no_console"`

	// FailOnFindings makes the audit exit non-zero when any finding is not Correct.
	FailOnFindings bool `mapstructure:"fail_on_findings"`
}

type Runtime struct {
	// Concurrency bounds how many repositories are evaluated at once (see --concurrency).
	// Must be >= 1.
	Concurrency int `mapstructure:"concurrency"`

	// Timeout is the global run timeout (see --timeout). Must be > 0.
	Timeout time.Duration `mapstructure:"timeout"`

	// Verbose logs every GitHub API call and keeps full error details in access errors.
	Verbose bool `mapstructure:"verbose"`

	// HTTPCache enables the in-memory conditional-request cache (see --http-cache).
	HTTPCache bool `mapstructure:"http_cache"`

	// LogLevel and LogFormat configure the zap logger on stderr.
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

func New() *Config {
	return &Config{
		Target: Target{
			Visibility: "all",
			Archived:   "include",
			Forks:      "include",
		},
		Auth: Auth{
			APIURL: "https://api.github.com/",
		},
		Output: Output{
			Format: "text",
		},
		Runtime: Runtime{
			Concurrency: 5,
			Timeout:     30 * time.Minute,
			LogLevel:    string(logging.LevelInfo),
			LogFormat:   string(logging.FormatConsole),
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Target.Include = splitCommaList(c.Target.Include)
	c.Target.Exclude = splitCommaList(c.Target.Exclude)
	c.Target.Topic = splitCommaList(c.Target.Topic)

	org, err := normalizeAccountSelector(c.Target.Org)
	if err != nil {
		return fmt.Errorf("invalid --org value: %w", err)
	}
	c.Target.Org = org
	if c.Target.Org == "" {
		return errors.New("--org must be provided")
	}

	// Output validation
	c.Output.Format = normalizeEnumValue(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("unsupported --format: %s (must be one of: text, json)", c.Output.Format)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".yaml", ".yml":
				c.Output.OutFormat = "yaml"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat == "yml" {
			c.Output.OutFormat = "yaml"
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "yaml" {
			return fmt.Errorf("unsupported output format: %s (must be one of: json, yaml)", c.Output.OutFormat)
		}
	}

	c.Output.HTML = strings.TrimSpace(c.Output.HTML)
	if c.Output.HTML == HTMLDefaultPath {
		c.Output.HTML = c.Target.Org + "_audit_report.html"
	}

	// Targeting enum validation
	c.Target.Visibility = normalizeEnumValue(c.Target.Visibility)
	if c.Target.Visibility == "" {
		c.Target.Visibility = "all"
	}
	if c.Target.Visibility != "public" && c.Target.Visibility != "private" && c.Target.Visibility != "internal" && c.Target.Visibility != "all" {
		return fmt.Errorf("unsupported --visibility: %s (must be one of: public, private, internal, all)", c.Target.Visibility)
	}

	c.Target.Archived = normalizeEnumValue(c.Target.Archived)
	if c.Target.Archived == "" {
		c.Target.Archived = "include"
	}
	if !isRepoPolicy(c.Target.Archived) {
		return fmt.Errorf("unsupported --archived: %s (must be one of: include, exclude, only)", c.Target.Archived)
	}

	c.Target.Forks = normalizeEnumValue(c.Target.Forks)
	if c.Target.Forks == "" {
		c.Target.Forks = "include"
	}
	if !isRepoPolicy(c.Target.Forks) {
		return fmt.Errorf("unsupported --forks: %s (must be one of: include, exclude, only)", c.Target.Forks)
	}

	if c.Target.MaxRepos < 0 {
		return errors.New("--max-repos must be >= 0")
	}

	// Auth validation
	c.Auth.APIURL = strings.TrimSpace(c.Auth.APIURL)
	if c.Auth.APIURL == "" {
		c.Auth.APIURL = "https://api.github.com/"
	}
	if u, err := url.Parse(c.Auth.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid --api-url: %q (must be an absolute http(s) URL)", c.Auth.APIURL)
	}
	if c.Auth.UsesApp() {
		if c.Auth.AppID <= 0 || c.Auth.InstallationID <= 0 || strings.TrimSpace(c.Auth.AppPrivateKey) == "" {
			return errors.New("--app-id, --installation-id and --app-private-key must be provided together")
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	level, err := logging.ParseLevel(c.Runtime.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	if c.Runtime.Verbose {
		level = logging.LevelDebug
	}
	c.Runtime.LogLevel = string(level)

	format, err := logging.ParseFormat(c.Runtime.LogFormat)
	if err != nil {
		return fmt.Errorf("invalid --log-format: %w", err)
	}
	c.Runtime.LogFormat = string(format)

	return nil
}

func isRepoPolicy(v string) bool {
	return v == "include" || v == "exclude" || v == "only"
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeAccountSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	// Accept a raw account name, or a GitHub URL like:
	//   https://github.com/<name>
	//   https://github.com/orgs/<name>
	//   https://github.com/users/<name>
	//   github.com/<name>
	if strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/") {
		raw = "https://" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%q", raw)
		}
		host := strings.ToLower(u.Hostname())
		if host == "www.github.com" {
			host = "github.com"
		}
		if host != "github.com" {
			return "", fmt.Errorf("%q", raw)
		}
		parts := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			return "", fmt.Errorf("%q", raw)
		}
		if parts[0] == "orgs" || parts[0] == "users" {
			if len(parts) < 2 {
				return "", fmt.Errorf("%q", raw)
			}
			return parts[1], nil
		}
		return parts[0], nil
	}

	// Basic sanity: reject obvious repo-like inputs.
	if strings.Contains(raw, "/") {
		return "", fmt.Errorf("%q", raw)
	}
	return raw, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
