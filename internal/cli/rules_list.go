package cli

import (
	"fmt"
	"io"

	"ghsecaudit/internal/rules"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "List the monitored security policy",
		Long: `List the branch protection rules ghsecaudit evaluates.

Each rule checks one setting of the default branch protection and has a fixed
expected value. Rules are evaluated during audits (see "ghsecaudit audit --help").

Examples:
  # List all rules
  ghsecaudit rules list
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rulesCmd.AddCommand(newRulesListCmd())
	rulesCmd.AddCommand(newRulesShowCmd())
	return rulesCmd
}

func newRulesListCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available rules",
		Long: `List all rules registered in this build, in report order.

Examples:
  ghsecaudit rules list

Output:
  A vertical list of rules:
    ----------------------------------------
    RULE: {ID}
    ----------------------------------------
    {TITLE}
    {DESCRIPTION}
    Expected: {EXPECTED}
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range rules.List() {
				if quiet {
					fmt.Fprintln(cmd.OutOrStdout(), r.ID())
				} else {
					printRule(cmd.OutOrStdout(), r)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print rule IDs")
	return cmd
}

func newRulesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [rule-id]",
		Short: "Show details of a specific rule",
		Long: `Show details of a specific rule by its ID.

Examples:
  ghsecaudit rules show protection-min-approvals
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rList, err := rules.Resolve(args[0])
			if err != nil {
				return err
			}
			if len(rList) == 0 {
				return fmt.Errorf("rule not found: %s", args[0])
			}
			printRule(cmd.OutOrStdout(), rList[0])
			return nil
		},
	}
}

func printRule(w io.Writer, r rules.Rule) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "RULE: %s\n", r.ID())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, r.Title())
	fmt.Fprintln(w, r.Description())
	fmt.Fprintf(w, "Expected: %s\n", r.Expected())
	fmt.Fprintln(w)
}
