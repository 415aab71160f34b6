package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhrivnak/nutanix-shim/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nutanix-shim-server %s\n", version.Get())
	},
}
