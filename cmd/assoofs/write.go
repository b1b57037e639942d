package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var writeStdin bool

var writeCmd = &cobra.Command{
	Use:   "write <path> [data]",
	Short: "Create a regular file and write data to it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		switch {
		case writeStdin:
			data, err = os.ReadFile("/dev/stdin")
		case len(args) == 2:
			data = []byte(args[1])
		default:
			return fmt.Errorf("no data given: pass it as an argument or use --stdin")
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		return runWrite(args[0], data)
	},
}

func init() {
	writeCmd.Flags().BoolVar(&writeStdin, "stdin", false, "read file contents from stdin")
	rootCmd.AddCommand(writeCmd)
}

func runWrite(path string, data []byte) error {
	image, err := requireImage()
	if err != nil {
		return err
	}
	sb, closeFn, err := openMount(image)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := sb.FindInode(path); err != nil {
		if _, err := sb.CreatePath(path, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if _, err := sb.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
