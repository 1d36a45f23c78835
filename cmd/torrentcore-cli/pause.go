package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause <info-hash>",
	Short: "Pause a torrent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.Pause(args[0]); err != nil {
			return fmt.Errorf("pausing %s: %w", args[0], err)
		}
		fmt.Printf("Paused %s\n", args[0])
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <info-hash>",
	Short: "Resume a paused torrent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.Resume(args[0]); err != nil {
			return fmt.Errorf("resuming %s: %w", args[0], err)
		}
		fmt.Printf("Resumed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
}
