package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tessa/internal/document"
	"github.com/spigell/tessa/internal/logger"
	"github.com/spigell/tessa/internal/report"
	"github.com/spigell/tessa/internal/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen every resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		screen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().String("jd", "", "job description name; chosen interactively when unset")
	screenCmd.Flags().String("candidate", "", "screen only this resume")
	screenCmd.Flags().BoolP("quiet", "q", false, "print only the summary table")
	screenCmd.Flags().StringP("output", "o", "", "write the report to a file (.json for JSON, markdown otherwise)")
	screenCmd.Flags().Bool("dump", false, "dump the results as JSON into a temporary file")
	screenCmd.Flags().IntP("concurrency", "c", 0, "parallel model calls (default from ai.concurrency)")
}

func screen(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ws := prepare(ctx)
	log := ws.logger

	jdName, _ := cmd.Flags().GetString("jd")
	if jdName == "" {
		var err error
		jdName, err = pickJobDescription(ws.cache)
		if err != nil {
			log.Fatal("choosing a job description", zap.Error(err))
		}
	}

	concurrency := ws.config.AI.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency, _ = cmd.Flags().GetInt("concurrency")
	}

	screener := ws.newScreener(ctx, concurrency)

	if candidate, _ := cmd.Flags().GetString("candidate"); candidate != "" {
		record, err := screener.AnalyzeOne(ctx, jdName, candidate)
		if err != nil {
			log.Fatal("screening a resume", zap.Error(err))
		}
		if err := report.WriteRecord(os.Stdout, 1, record); err != nil {
			log.Fatal("printing the result", zap.Error(err))
		}
		return
	}

	seq, err := screener.Run(ctx, jdName)
	if err != nil {
		var notFound *screening.NotFoundError
		if errors.As(err, &notFound) {
			log.Fatal("job description not found",
				zap.String(logger.FieldJobDescription, notFound.Name),
				zap.Strings("available", notFound.Available),
			)
		}
		log.Fatal("starting the screening", zap.Error(err))
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		report.WriteHeader(os.Stdout, jdName, ws.cache.Stats().Candidates)
	}

	var result *screening.BatchResult
	for event := range seq {
		if event.Done() {
			result = event.Result
			continue
		}
		if !quiet {
			n := len(event.Records)
			report.WriteRecord(os.Stdout, n, event.Records[n-1])
		}
	}

	if err := report.WriteSummary(os.Stdout, result); err != nil {
		log.Fatal("printing the summary", zap.Error(err))
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := report.WriteFile(output, result, time.Now()); err != nil {
			log.Fatal("writing the report", zap.Error(err))
		}
		log.Info("report written", zap.String("filename", output))
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		filename, err := report.DumpToTmpFile(result)
		if err != nil {
			log.Fatal("dump results to file", zap.Error(err))
		}
		log.Info("dumping result to file", zap.String("filename", filename))
	}
}

func pickJobDescription(cache *document.Cache) (string, error) {
	names := cache.Names(document.JobDescription)
	if len(names) == 0 {
		return "", errors.New("no job descriptions found in cache")
	}
	sort.Strings(names)

	prompt := promptui.Select{
		Label: "Choose a job description and press ENTER",
		Items: names,
	}

	_, name, err := prompt.Run()
	return name, err
}
