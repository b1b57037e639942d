package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var imagePath string

var rootCmd = &cobra.Command{
	Use:     "assoofs",
	Short:   "Inspect and mutate assoofs filesystem images",
	Version: "0.1.0-dev",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&imagePath, "image", "i", "", "path to the assoofs image (or ASSOOFS_IMAGE)")
	viper.SetEnvPrefix("ASSOOFS")
	viper.AutomaticEnv()
	cobra.OnInitialize(func() {
		if imagePath == "" {
			imagePath = viper.GetString("image")
		}
	})
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func requireImage() (string, error) {
	if imagePath == "" {
		return "", fmt.Errorf("no image given: pass --image or set ASSOOFS_IMAGE")
	}
	return imagePath, nil
}
