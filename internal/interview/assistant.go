package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/tessa/internal/ai"
	"github.com/spigell/tessa/internal/screening"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of an interview conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// FollowUp is a question about a candidate, asked with the conversation so far.
type FollowUp struct {
	JobDescription string
	Resume         string
	History        []Message
	Question       string
}

// Assistant prepares interview questions and answers follow-ups.
type Assistant struct {
	completer ai.Completer
	questions screening.Prompt
	logger    *zap.Logger
}

func NewAssistant(completer ai.Completer, questions screening.Prompt, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Assistant{completer: completer, questions: questions, logger: logger}
}

// Questions generates interview questions for a job description.
func (a *Assistant) Questions(ctx context.Context, jobDescription string) (string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return "", errors.New("job description must not be empty")
	}

	prompt := screening.BuildPrompt(a.questions, jobDescription, "")

	output, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating interview questions: %w", err)
	}

	a.logger.Debug("interview questions generated")

	return output, nil
}

// Answer responds to a follow-up question in the context of the job
// description, the resume and the earlier exchange.
func (a *Assistant) Answer(ctx context.Context, req FollowUp) (string, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", errors.New("follow-up question must not be empty")
	}

	output, err := a.completer.Complete(ctx, followUpPrompt(req.JobDescription, req.Resume, req.History, question))
	if err != nil {
		return "", fmt.Errorf("answering follow-up question: %w", err)
	}

	return output, nil
}

func followUpPrompt(jobDescription, resume string, history []Message, question string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Job Description:\n%s\n\nResume:\n%s\n\nPrevious Q&A:\n", jobDescription, resume)
	for _, msg := range history {
		switch msg.Role {
		case RoleUser:
			fmt.Fprintf(&b, "Q: %s\n", msg.Content)
		case RoleAssistant:
			fmt.Fprintf(&b, "A: %s\n", msg.Content)
		}
	}
	fmt.Fprintf(&b, "\nUser follow-up question: %s\nPlease answer as an expert interviewer.", question)

	return b.String()
}

// Transcript renders a conversation for export, one "Role: content" block per message.
func Transcript(history []Message) string {
	var b strings.Builder
	for _, msg := range history {
		role := string(msg.Role)
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		fmt.Fprintf(&b, "%s: %s\n\n", role, msg.Content)
	}
	return b.String()
}

// Session keeps the conversation about one candidate.
type Session struct {
	assistant      *Assistant
	jobDescription string
	resume         string
	history        []Message
}

func (a *Assistant) NewSession(jobDescription, resume string) *Session {
	return &Session{assistant: a, jobDescription: jobDescription, resume: resume}
}

// Open asks for the interview questions and records them as the first answer.
func (s *Session) Open(ctx context.Context) (string, error) {
	output, err := s.assistant.Questions(ctx, s.jobDescription)
	if err != nil {
		return "", err
	}

	s.history = append(s.history, Message{Role: RoleAssistant, Content: output})
	return output, nil
}

// Ask sends a follow-up. The exchange is only recorded when it succeeds.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	answer, err := s.assistant.Answer(ctx, FollowUp{
		JobDescription: s.jobDescription,
		Resume:         s.resume,
		History:        s.history,
		Question:       question,
	})
	if err != nil {
		return "", err
	}

	s.history = append(s.history,
		Message{Role: RoleUser, Content: strings.TrimSpace(question)},
		Message{Role: RoleAssistant, Content: answer},
	)

	return answer, nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	return append([]Message(nil), s.history...)
}
