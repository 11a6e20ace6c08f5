package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ToluGIT/archguard"
	"github.com/ToluGIT/archguard/pkg/policy"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the built-in security rules",
	}

	cmd.AddCommand(
		newRulesListCmd(),
		newRulesShowCmd(),
	)

	return cmd
}

func newRulesListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(policy.Catalog)
			case "human":
				fmt.Fprintf(out, "Built-in rules (%d):\n", len(policy.Catalog))
				for _, agent := range policy.Agents() {
					fmt.Fprintf(out, "\n%s\n", strings.ToUpper(agent))
					fmt.Fprintln(out, strings.Repeat("-", 60))
					for _, r := range policy.RulesFor(agent) {
						fmt.Fprintf(out, "  • %-30s %-9s %s\n", r.ID, r.Severity, r.Name)
					}
				}
				return nil
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "human", "output format (human, json)")
	return cmd
}

func newRulesShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [rule-id]",
		Short: "Show rule details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, _, ok := policy.Lookup(args[0])
			if !ok {
				return fmt.Errorf("rule '%s' not found", args[0])
			}
			source, err := archguard.Policy(rule.Agent)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(struct {
					policy.Rule
					Module string `json:"module"`
				}{rule, "policies/" + rule.Agent + ".rego"})
			case "raw":
				fmt.Fprint(out, source)
			case "human":
				fmt.Fprintf(out, "Rule: %s\n", rule.ID)
				fmt.Fprintln(out, strings.Repeat("=", 60))
				fmt.Fprintf(out, "Name:           %s\n", rule.Name)
				fmt.Fprintf(out, "Agent:          %s\n", rule.Agent)
				fmt.Fprintf(out, "Severity:       %s\n", rule.Severity)
				fmt.Fprintf(out, "Category:       %s\n", rule.Category)
				fmt.Fprintf(out, "Recommendation: %s\n", rule.Recommendation)
				fmt.Fprintf(out, "\nView the agent's policy with: archguard rules show %s --format raw\n", rule.ID)
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "human", "output format (human, json, raw)")
	return cmd
}
