// Version command for the colporter CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/colporter/pkg/colporter"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the colporter version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "colporter", colporter.Version)
	},
}
