package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GHSECAUDIT_RUNTIME_CONCURRENCY.
const EnvPrefix = "GHSECAUDIT"

// FlagKeys maps CLI flag names to configuration keys. Load binds every flag
// present in the set so an explicitly changed flag wins over env and file values.
var FlagKeys = map[string]string{
	"org":              "target.org",
	"include":          "target.include",
	"exclude":          "target.exclude",
	"topic":            "target.topic",
	"visibility":       "target.visibility",
	"archived":         "target.archived",
	"forks":            "target.forks",
	"max-repos":        "target.max_repos",
	"api-url":          "auth.api_url",
	"app-id":           "auth.app_id",
	"installation-id":  "auth.installation_id",
	"app-private-key":  "auth.app_private_key",
	"format":           "output.format",
	"out":              "output.out",
	"out-format":       "output.out_format",
	"markdown":         "output.markdown",
	"html":             "output.html",
	"no-console":       "output.no_console",
	"fail-on-findings": "output.fail_on_findings",
	"concurrency":      "runtime.concurrency",
	"timeout":          "runtime.timeout",
	"verbose":          "runtime.verbose",
	"http-cache":       "runtime.http_cache",
	"log-level":        "runtime.log_level",
	"log-format":       "runtime.log_format",
}

// Keys returns the default value of every configuration key.
func Keys() map[string]any {
	d := New()
	return map[string]any{
		"target.org":              d.Target.Org,
		"target.include":          d.Target.Include,
		"target.exclude":          d.Target.Exclude,
		"target.topic":            d.Target.Topic,
		"target.visibility":       d.Target.Visibility,
		"target.archived":         d.Target.Archived,
		"target.forks":            d.Target.Forks,
		"target.max_repos":        d.Target.MaxRepos,
		"auth.token":              d.Auth.Token,
		"auth.api_url":            d.Auth.APIURL,
		"auth.app_id":             d.Auth.AppID,
		"auth.installation_id":    d.Auth.InstallationID,
		"auth.app_private_key":    d.Auth.AppPrivateKey,
		"output.format":           d.Output.Format,
		"output.out":              d.Output.Out,
		"output.out_format":       d.Output.OutFormat,
		"output.markdown":         d.Output.Markdown,
		"output.html":             d.Output.HTML,
		"output.no_console":       d.Output.NoConsole,
		"output.fail_on_findings": d.Output.FailOnFindings,
		"runtime.concurrency":     d.Runtime.Concurrency,
		"runtime.timeout":         d.Runtime.Timeout,
		"runtime.verbose":         d.Runtime.Verbose,
		"runtime.http_cache":      d.Runtime.HTTPCache,
		"runtime.log_level":       d.Runtime.LogLevel,
		"runtime.log_format":      d.Runtime.LogFormat,
	}
}

// Load resolves a Config from defaults, an optional config file, GHSECAUDIT_*
// environment variables and the flags in fs, lowest to highest precedence.
// The result is not validated.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range Keys() {
		v.SetDefault(key, value)
	}

	if fs != nil {
		for name, key := range FlagKeys {
			flag := fs.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}
