package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ghsecaudit/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// NewRootCommand builds the command tree. Each call returns fresh flag state.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ghsecaudit",
		Short: "Audit GitHub repositories for branch protection and CODEOWNERS compliance",
		Long: `ghsecaudit audits every repository of a GitHub organization or user account.

For each repository it evaluates the default branch protection against a fixed
security policy and checks for a valid CODEOWNERS file. It only reads from the
GitHub API and never changes settings.

Examples:
	# Show available commands and global flags
	ghsecaudit --help

	# Audit an organization
	ghsecaudit audit --org my-org

	# List the monitored policy
	ghsecaudit rules list

	# Print build info
	ghsecaudit version`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool(flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call and full error details)")
	root.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(newAuditCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return exitErr.Code
	}
	fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	return ExitCode(err)
}
