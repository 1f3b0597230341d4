package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X ...cmd.version=".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the housekeeper version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("housekeeper", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
