package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/housekeeper/internal/config"
	"github.com/papapumpkin/housekeeper/internal/reltime"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse a rules file and resolve its reference times without sweeping",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, _ := cmd.Flags().GetString("rules")
		if rules == "" {
			return fmt.Errorf("validate needs --rules")
		}

		selections, err := config.LoadRules(rules)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			os.Exit(1)
		}

		resolver := reltime.NewResolver(time.Now())
		ok := true
		for _, sel := range selections {
			resolved, err := resolver.Resolve(sel.RefTime)
			if err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", sel.Pattern, err)
				ok = false
				continue
			}
			fmt.Fprintf(os.Stderr, "✓ %s: %s → %s\n",
				sel.Pattern, sel.RefTime, resolved.Format("2006-01-02 15:04:05"))
		}

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringP("rules", "c", "", "INI rules file to check")
	rootCmd.AddCommand(validateCmd)
}
