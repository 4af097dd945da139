package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/tessa/internal/ai"
	"github.com/spigell/tessa/internal/screening"
)

type recordingCompleter struct {
	prompts []string
	replies []string
	err     error
}

func (r *recordingCompleter) Complete(_ context.Context, prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if r.err != nil {
		return "", r.err
	}
	if len(r.replies) == 0 {
		return "ok", nil
	}
	reply := r.replies[0]
	r.replies = r.replies[1:]
	return reply, nil
}

var questionsPrompt = screening.Prompt{System: "You interview people.", User: "Questions for:\n{job_description}"}

func TestQuestions(t *testing.T) {
	t.Parallel()

	completer := &recordingCompleter{replies: []string{"1. Why Go?"}}
	assistant := NewAssistant(completer, questionsPrompt, nil)

	got, err := assistant.Questions(context.Background(), "Senior Go engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1. Why Go?" {
		t.Fatalf("unexpected output %q", got)
	}
	if completer.prompts[0] != "You interview people.\n\nQuestions for:\nSenior Go engineer" {
		t.Fatalf("unexpected prompt %q", completer.prompts[0])
	}

	if _, err := assistant.Questions(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty job description")
	}
}

func TestAnswerPrompt(t *testing.T) {
	t.Parallel()

	completer := &recordingCompleter{}
	assistant := NewAssistant(completer, questionsPrompt, nil)

	_, err := assistant.Answer(context.Background(), FollowUp{
		JobDescription: "JD text",
		Resume:         "CV text",
		History: []Message{
			{Role: RoleAssistant, Content: "1. Why Go?"},
			{Role: RoleUser, Content: "What about Rust?"},
			{Role: RoleAssistant, Content: "Ask about ownership."},
		},
		Question: "  And Kubernetes?  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := "Job Description:\nJD text\n\nResume:\nCV text\n\nPrevious Q&A:\n" +
		"A: 1. Why Go?\nQ: What about Rust?\nA: Ask about ownership.\n" +
		"\nUser follow-up question: And Kubernetes?\nPlease answer as an expert interviewer."
	if completer.prompts[0] != expect {
		t.Fatalf("unexpected prompt:\n%s", completer.prompts[0])
	}
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	t.Parallel()

	completer := &recordingCompleter{}
	_, err := NewAssistant(completer, questionsPrompt, nil).Answer(context.Background(), FollowUp{Question: "\n"})
	if err == nil {
		t.Fatalf("expected error for empty question")
	}
	if len(completer.prompts) != 0 {
		t.Fatalf("empty question must not reach the model")
	}
}

func TestAnswerKeepsProviderError(t *testing.T) {
	t.Parallel()

	cause := &ai.ProviderError{Provider: "stub", Model: "m", Timeout: true, Err: errors.New("deadline")}
	completer := &recordingCompleter{err: cause}

	_, err := NewAssistant(completer, questionsPrompt, nil).Answer(context.Background(), FollowUp{Question: "why?"})

	var perr *ai.ProviderError
	if !errors.As(err, &perr) || !perr.Timeout {
		t.Fatalf("expected provider error in chain, got %v", err)
	}
}

func TestSession(t *testing.T) {
	t.Parallel()

	completer := &recordingCompleter{replies: []string{"Q1. Tell me about Go.", "Probe channel usage."}}
	session := NewAssistant(completer, questionsPrompt, nil).NewSession("JD", "CV")

	if _, err := session.Open(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := session.Ask(context.Background(), "What to probe?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history := session.History()
	if len(history) != 3 || history[1].Role != RoleUser || history[2].Content != "Probe channel usage." {
		t.Fatalf("unexpected history %+v", history)
	}
	if !strings.Contains(completer.prompts[1], "A: Q1. Tell me about Go.\n") {
		t.Fatalf("follow-up must include earlier answers, got %q", completer.prompts[1])
	}

	completer.err = errors.New("offline")
	if _, err := session.Ask(context.Background(), "Another?"); err == nil {
		t.Fatalf("expected error")
	}
	if len(session.History()) != 3 {
		t.Fatalf("failed exchanges must not be recorded")
	}
}

func TestTranscript(t *testing.T) {
	t.Parallel()

	got := Transcript([]Message{
		{Role: RoleAssistant, Content: "Q1"},
		{Role: RoleUser, Content: "More?"},
	})
	if got != "Assistant: Q1\n\nUser: More?\n\n" {
		t.Fatalf("unexpected transcript %q", got)
	}
	if Transcript(nil) != "" {
		t.Fatalf("expected empty transcript")
	}
}
