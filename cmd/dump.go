package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mabhi256/tastybuild/internal/tasty/dump"
	"github.com/mabhi256/tastybuild/utils"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.tasty>",
	Short: "Print the decoded contents of a TASTy file",
	Long:  `dump decodes a .tasty class file's name table, tree section, positions, and attributes, and prints them in a deterministic textual form.`,
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".tasty"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		f, err := dump.Parse(data)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", args[0], err)
		}
		fmt.Println(utils.FormatKeyValue("File size", utils.MemorySize(len(data)).String(), 16))
		fmt.Print(f.Text())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
