package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory's children",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		return runLs(path)
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(path string) error {
	image, err := requireImage()
	if err != nil {
		return err
	}
	sb, closeFn, err := openMount(image)
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := sb.ReadDir(path)
	if err != nil {
		return fmt.Errorf("ls %s: %w", path, err)
	}
	for _, e := range entries {
		tag := "-"
		if e.IsDir() {
			tag = "d"
		}
		fmt.Printf("%s %s\n", tag, e.Name())
	}
	return nil
}
