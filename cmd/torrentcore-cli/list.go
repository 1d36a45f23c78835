package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every torrent the engine knows about",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	statuses := eng.List()
	if len(statuses) == 0 {
		fmt.Println("No torrents.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tSTATE\tPROGRESS\tDOWN\tUP\tPEERS\tINFO HASH")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%.1f%%\t%s/s\t%s/s\t%d\t%s\n",
			s.Name,
			s.State.String(),
			s.Progress*100,
			humanize.Bytes(uint64(s.DownRate)),
			humanize.Bytes(uint64(s.UpRate)),
			s.PeerCount,
			s.InfoHash,
		)
	}
	return nil
}
