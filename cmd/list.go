package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tessa/internal/document"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cached job descriptions and resumes",
	Run: func(cmd *cobra.Command, _ []string) {
		list(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("stats", "s", false, "print document counts as JSON")
}

func list(cmd *cobra.Command) {
	ws := prepare(context.Background())

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		// do not bother error since Stats is a plain struct
		pretty, _ := json.MarshalIndent(ws.cache.Stats(), "", "  ")
		fmt.Println(string(pretty))
		return
	}

	for _, category := range []document.Category{document.JobDescription, document.Candidate} {
		names := ws.cache.Names(category)
		sort.Strings(names)

		fmt.Printf("%s (%d) from %s:\n", category, len(names), ws.cache.Source(category).Location())
		for _, name := range names {
			fmt.Printf("  - %s\n", name)
		}
	}

	ws.logger.Debug("listed documents", zap.Any("stats", ws.cache.Stats()))
}
