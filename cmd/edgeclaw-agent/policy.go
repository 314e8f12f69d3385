package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgeclaw/core/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect the capability catalogue and evaluate role permissions",
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every known capability with its risk level",
	Run: func(cmd *cobra.Command, args []string) {
		eng := policy.NewEngine()
		for _, line := range eng.ListCapabilities() {
			fmt.Println(line)
		}
	},
}

var policyEvalCmd = &cobra.Command{
	Use:   "eval <capability> <role>",
	Short: "Evaluate whether a role may exercise a capability",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(args[1])
		if err != nil {
			return err
		}

		eng := policy.NewEngine()
		decision := eng.Evaluate(args[0], role)

		fmt.Printf("allowed: %t\n", decision.Allowed)
		fmt.Printf("risk: %s\n", decision.RiskLevel)
		fmt.Printf("reason: %s\n", decision.Reason)
		return nil
	},
}

func parseRole(s string) (policy.Role, error) {
	switch strings.ToLower(s) {
	case "viewer":
		return policy.Viewer, nil
	case "operator":
		return policy.Operator, nil
	case "admin":
		return policy.Admin, nil
	case "owner":
		return policy.Owner, nil
	default:
		return 0, fmt.Errorf("unknown role %q (want viewer, operator, admin, or owner)", s)
	}
}

func init() {
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyEvalCmd)
}
