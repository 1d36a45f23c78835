package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeDeleteFiles bool

var removeCmd = &cobra.Command{
	Use:   "remove <info-hash>",
	Short: "Remove a torrent, optionally deleting its on-disk data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.Remove(args[0], removeDeleteFiles); err != nil {
			return fmt.Errorf("removing %s: %w", args[0], err)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVar(&removeDeleteFiles, "delete-files", false, "also delete the torrent's downloaded data")
}
