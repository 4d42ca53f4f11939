package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vellum-ui/vellum/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Println(version.GetShortVersion())
			return
		}
		fmt.Println(version.GetDetailedVersion())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print the bare version string")
	rootCmd.AddCommand(versionCmd)
}
