package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a regular file's contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCat(args[0])
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(path string) error {
	image, err := requireImage()
	if err != nil {
		return err
	}
	sb, closeFn, err := openMount(image)
	if err != nil {
		return err
	}
	defer closeFn()

	data, err := sb.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cat %s: %w", path, err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
