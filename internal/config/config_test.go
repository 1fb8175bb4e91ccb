package config

import (
	"reflect"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := New()
	cfg.Target.Org = "acme"
	return cfg
}

func TestValidate_RequiresOrg(t *testing.T) {
	cfg := New()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "--org") {
		t.Fatalf("expected --org error, got %v", err)
	}
}

func TestValidate_NormalizesCommaDelimitedLists(t *testing.T) {
	cfg := validConfig()
	cfg.Target.Include = []string{"api-*, web", ",,"}
	cfg.Target.Topic = []string{"security, compliance", "devops"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if want := []string{"api-*", "web"}; !reflect.DeepEqual(cfg.Target.Include, want) {
		t.Fatalf("Include normalized mismatch: got %v want %v", cfg.Target.Include, want)
	}
	if want := []string{"security", "compliance", "devops"}; !reflect.DeepEqual(cfg.Target.Topic, want) {
		t.Fatalf("Topic normalized mismatch: got %v want %v", cfg.Target.Topic, want)
	}
}

func TestValidate_NormalizesOrgFromGitHubURLs(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "https://github.com/acme", want: "acme"},
		{raw: "github.com/orgs/acme", want: "acme"},
		{raw: "https://www.github.com/users/octocat", want: "octocat"},
		{raw: "  acme  ", want: "acme"},
	}
	for _, tt := range tests {
		cfg := New()
		cfg.Target.Org = tt.raw
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate(%q) returned error: %v", tt.raw, err)
		}
		if cfg.Target.Org != tt.want {
			t.Fatalf("Org %q normalized to %q, want %q", tt.raw, cfg.Target.Org, tt.want)
		}
	}
}

func TestValidate_RejectsRepoLikeOrg(t *testing.T) {
	for _, raw := range []string{"acme/api", "https://gitlab.com/acme", "https://github.com/orgs"} {
		cfg := New()
		cfg.Target.Org = raw
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestValidate_Formats(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantOut string
		wantErr bool
	}{
		{name: "json console", mutate: func(cfg *Config) { cfg.Output.Format = " JSON " }},
		{name: "unknown console", mutate: func(cfg *Config) { cfg.Output.Format = "ndjson" }, wantErr: true},
		{name: "infer json", mutate: func(cfg *Config) { cfg.Output.Out = "report.json" }, wantOut: "json"},
		{name: "infer yaml", mutate: func(cfg *Config) { cfg.Output.Out = "report.YML" }, wantOut: "yaml"},
		{name: "explicit yml", mutate: func(cfg *Config) { cfg.Output.Out = "report"; cfg.Output.OutFormat = "yml" }, wantOut: "yaml"},
		{name: "missing extension", mutate: func(cfg *Config) { cfg.Output.Out = "report" }, wantErr: true},
		{name: "unknown extension", mutate: func(cfg *Config) { cfg.Output.Out = "report.txt" }, wantErr: true},
		{name: "unknown out format", mutate: func(cfg *Config) { cfg.Output.Out = "r.json"; cfg.Output.OutFormat = "ndjson" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if cfg.Output.OutFormat != tt.wantOut {
				t.Fatalf("OutFormat = %q, want %q", cfg.Output.OutFormat, tt.wantOut)
			}
		})
	}
}

func TestValidate_HTMLDefaultPathUsesOrg(t *testing.T) {
	cfg := validConfig()
	cfg.Output.HTML = HTMLDefaultPath
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.Output.HTML != "acme_audit_report.html" {
		t.Fatalf("HTML = %q", cfg.Output.HTML)
	}
}

func TestValidate_RejectsInvalidTargetingEnums(t *testing.T) {
	tests := []struct {
		name      string
		mutateCfg func(cfg *Config)
	}{
		{name: "visibility", mutateCfg: func(cfg *Config) { cfg.Target.Visibility = "maybe" }},
		{name: "archived", mutateCfg: func(cfg *Config) { cfg.Target.Archived = "sometimes" }},
		{name: "forks", mutateCfg: func(cfg *Config) { cfg.Target.Forks = "perhaps" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutateCfg(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidate_NormalizesTargetingEnums(t *testing.T) {
	cfg := validConfig()
	cfg.Target.Visibility = "  PRIVATE "
	cfg.Target.Archived = " EXCLUDE "
	cfg.Target.Forks = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Target.Visibility != "private" {
		t.Fatalf("expected visibility to normalize to %q, got %q", "private", cfg.Target.Visibility)
	}
	if cfg.Target.Archived != "exclude" {
		t.Fatalf("expected archived to normalize to %q, got %q", "exclude", cfg.Target.Archived)
	}
	if cfg.Target.Forks != "include" {
		t.Fatalf("expected empty forks to default to %q, got %q", "include", cfg.Target.Forks)
	}
}

func TestValidate_AppCredentialsMustBeComplete(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.AppID = 12
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for partial app credentials")
	}

	cfg = validConfig()
	cfg.Auth.AppID = 12
	cfg.Auth.InstallationID = 34
	cfg.Auth.AppPrivateKey = "/keys/app.pem"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected complete app credentials to validate, got %v", err)
	}
	if !cfg.Auth.UsesApp() {
		t.Fatalf("expected UsesApp")
	}
}

func TestValidate_RejectsInvalidAPIURL(t *testing.T) {
	for _, raw := range []string{"api.github.com", "ftp://ghe.example.com/api/v3"} {
		cfg := validConfig()
		cfg.Auth.APIURL = raw
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestValidate_RejectsInvalidRuntimeBounds(t *testing.T) {
	tests := []struct {
		name      string
		mutateCfg func(cfg *Config)
	}{
		{name: "negative_max_repos", mutateCfg: func(cfg *Config) { cfg.Target.MaxRepos = -1 }},
		{name: "zero_concurrency", mutateCfg: func(cfg *Config) { cfg.Runtime.Concurrency = 0 }},
		{name: "negative_timeout", mutateCfg: func(cfg *Config) { cfg.Runtime.Timeout = -1 }},
		{name: "log_level", mutateCfg: func(cfg *Config) { cfg.Runtime.LogLevel = "trace" }},
		{name: "log_format", mutateCfg: func(cfg *Config) { cfg.Runtime.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutateCfg(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidate_VerboseForcesDebugLogging(t *testing.T) {
	cfg := validConfig()
	cfg.Runtime.Verbose = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.Runtime.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.Runtime.LogLevel)
	}
}
