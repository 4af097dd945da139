package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tessa/internal/document"
)

var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Upload documents into the configured source and reload the cache",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		importFiles(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("category", "", "document category: jd or resume")
	importCmd.MarkFlagRequired("category")
}

func importFiles(cmd *cobra.Command, files []string) {
	ctx := context.Background()

	ws := prepare(ctx)
	log := ws.logger

	raw, _ := cmd.Flags().GetString("category")
	category, err := document.ParseCategory(raw)
	if err != nil {
		log.Fatal("parsing category", zap.Error(err))
	}

	source := ws.cache.Source(category)
	uploader, ok := source.(document.Uploader)
	if !ok {
		log.Fatal("source does not accept uploads", zap.String("location", source.Location()))
	}

	for _, file := range files {
		if err := upload(ctx, uploader, file); err != nil {
			log.Fatal("importing a document", zap.String("filename", file), zap.Error(err))
		}
		log.Info("document imported",
			zap.String("filename", file),
			zap.String("category", category.String()),
			zap.String("location", source.Location()),
		)
	}

	if err := ws.cache.Refresh(ctx); err != nil {
		log.Fatal("refreshing the cache", zap.Error(err))
	}

	stats := ws.cache.Stats()
	log.Info("cache refreshed",
		zap.Int("jd_count", stats.JobDescriptions),
		zap.Int("resume_count", stats.Candidates),
	)
}

func upload(ctx context.Context, uploader document.Uploader, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	return uploader.Put(ctx, filepath.Base(file), f, info.Size())
}
