package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mabhi256/tastybuild/internal/buildrun"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [project-dir]",
	Short: "Remove the build directory",
	Long:  `clean removes the .tastybuild directory (compiled artifacts, resolution cache, and incremental state), so the next build starts from scratch.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		if err := buildrun.Clean(root); err != nil {
			return err
		}
		fmt.Println("✅ cleaned")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
