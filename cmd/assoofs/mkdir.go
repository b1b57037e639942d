package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMkdir(args[0])
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}

func runMkdir(path string) error {
	image, err := requireImage()
	if err != nil {
		return err
	}
	sb, closeFn, err := openMount(image)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := sb.MkdirPath(path, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}
