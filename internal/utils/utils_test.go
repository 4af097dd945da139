package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReturnsWhenTimerFires(t *testing.T) {
	original := after
	after = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
	defer func() { after = original }()

	if err := WaitFor(context.Background(), time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForZeroDuration(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
	}{
		{input: "alice.pdf", expect: "alice"},
		{input: "data/Resumes/bob.smith.txt", expect: "bob.smith"},
		{input: "resumes/carol", expect: "carol"},
		{input: ".hidden", expect: ".hidden"},
		{input: "prefix/jds/Backend_Eng.PDF", expect: "Backend_Eng"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := FileStem(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
