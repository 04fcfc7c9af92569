package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShafaqShahid/LoadTestGMC/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(build.FullVersion())
	},
}
