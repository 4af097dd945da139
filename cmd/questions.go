package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/tessa/internal/document"
	"github.com/spigell/tessa/internal/interview"
	"github.com/spigell/tessa/internal/logger"
	"github.com/spigell/tessa/internal/screening"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate interview questions and discuss a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		questions(cmd)
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	questionsCmd.Flags().String("jd", "", "job description name")
	questionsCmd.Flags().String("candidate", "", "resume to discuss in follow-up questions")
	questionsCmd.Flags().Bool("chat", false, "ask follow-up questions after the generated ones")
	questionsCmd.Flags().String("export", "", "write the conversation to a file")

	questionsCmd.MarkFlagRequired("jd")
}

func questions(cmd *cobra.Command) {
	ctx := context.Background()

	ws := prepare(ctx)
	log := ws.logger

	jdName, _ := cmd.Flags().GetString("jd")
	candidate, _ := cmd.Flags().GetString("candidate")
	chat, _ := cmd.Flags().GetBool("chat")

	if chat && candidate == "" {
		log.Fatal("--candidate is required with --chat")
	}

	jdText := ws.jobDescription(jdName)

	var resume string
	if candidate != "" {
		var ok bool
		resume, ok = ws.cache.Get(document.Candidate, candidate)
		if !ok {
			log.Fatal("resume not found",
				zap.String(logger.FieldResume, candidate),
				zap.String("available", strings.Join(ws.cache.Names(document.Candidate), ", ")),
			)
		}
	}

	tmpl := ws.config.Prompts.InterviewQuestions
	assistant := interview.NewAssistant(
		ws.newClient(ctx),
		screening.Prompt{System: tmpl.System, User: tmpl.User},
		log.With(logger.PairFields(jdName, candidate)...),
	)

	session := assistant.NewSession(jdText, resume)

	output, err := session.Open(ctx)
	if err != nil {
		log.Fatal("generating interview questions", zap.Error(err))
	}
	fmt.Printf("\n%s\n\n", output)

	if chat {
		if err := converse(ctx, session, log); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
	}

	if export, _ := cmd.Flags().GetString("export"); export != "" {
		if err := os.WriteFile(export, []byte(interview.Transcript(session.History())), 0o644); err != nil {
			log.Fatal("exporting the conversation", zap.Error(err))
		}
		log.Info("conversation exported", zap.String("filename", export))
	}
}

// converse reads follow-up questions until an empty line or Ctrl+C/Ctrl+D.
func converse(ctx context.Context, session *interview.Session, log *zap.Logger) error {
	prompt := promptui.Prompt{
		Label: "Follow-up question (empty to finish)",
	}

	for {
		question, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(question) == "" {
			return nil
		}

		answer, err := session.Ask(ctx, question)
		if err != nil {
			log.Error("answering follow-up question", zap.Error(err))
			continue
		}

		fmt.Printf("\n%s\n\n", answer)
	}
}
