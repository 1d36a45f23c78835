package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate session statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s := eng.Stats()

	fmt.Println("=== Session Statistics ===")
	fmt.Printf("  Total Torrents:       %d\n", s.TotalTorrents)
	fmt.Printf("  Active:               %d\n", s.ActiveTorrents)
	fmt.Printf("  Seeding:              %d\n", s.SeedingTorrents)
	fmt.Printf("  Downloading:          %d\n", s.DownloadingTorrents)
	fmt.Printf("  Paused:               %d\n", s.PausedTorrents)
	fmt.Println()
	fmt.Printf("  Total Downloaded:     %s\n", humanize.Bytes(uint64(s.TotalDownloadedBytes)))
	fmt.Printf("  Total Uploaded:       %s\n", humanize.Bytes(uint64(s.TotalUploadedBytes)))
	fmt.Printf("  Global Ratio:         %.2f\n", s.GlobalRatio)
	fmt.Println()
	fmt.Printf("  Down Rate:            %s/s\n", humanize.Bytes(uint64(s.GlobalDownRate)))
	fmt.Printf("  Up Rate:              %s/s\n", humanize.Bytes(uint64(s.GlobalUpRate)))
	fmt.Printf("  Connected Peers:      %d\n", s.TotalPeers)
	fmt.Printf("  DHT Nodes:            %d\n", s.DHTNodeCount)

	return nil
}
