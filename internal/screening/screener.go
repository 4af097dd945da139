package screening

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/spigell/tessa/internal/ai"
	"github.com/spigell/tessa/internal/analysis"
	"github.com/spigell/tessa/internal/document"
	"github.com/spigell/tessa/internal/logger"
)

// Catalog is the read side of the document cache.
type Catalog interface {
	Get(category document.Category, name string) (string, bool)
	Names(category document.Category) []string
}

// Prompt is the system/user template pair for one analysis request.
type Prompt struct {
	System string
	User   string
}

const (
	placeholderJobDescription = "{job_description}"
	placeholderResume         = "{resume_text}"
)

// BuildPrompt fills the templates and joins system and user parts with a blank line.
func BuildPrompt(tmpl Prompt, jobDescription, resume string) string {
	user := strings.NewReplacer(
		placeholderJobDescription, jobDescription,
		placeholderResume, resume,
	).Replace(tmpl.User)

	return tmpl.System + "\n\n" + user
}

type Screener struct {
	catalog     Catalog
	completer   ai.Completer
	prompt      Prompt
	concurrency int
	logger      *zap.Logger
}

// NewScreener creates a Screener that runs up to concurrency model calls at
// once. A concurrency below 2 processes candidates one after another.
func NewScreener(catalog Catalog, completer ai.Completer, prompt Prompt, concurrency int, log *zap.Logger) *Screener {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Screener{
		catalog:     catalog,
		completer:   completer,
		prompt:      prompt,
		concurrency: concurrency,
		logger:      log,
	}
}

// Run validates the job description and snapshots the candidate list, then
// returns a sequence that analyses each candidate on iteration. Records keep
// the snapshot order whatever the concurrency. Breaking out of the loop
// cancels the outstanding work.
func (s *Screener) Run(ctx context.Context, jdName string) (iter.Seq[Event], error) {
	jdText, ok := s.catalog.Get(document.JobDescription, jdName)
	if !ok {
		available := s.catalog.Names(document.JobDescription)
		sort.Strings(available)
		return nil, &NotFoundError{Name: jdName, Available: available}
	}

	names := s.catalog.Names(document.Candidate)
	if len(names) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	s.logger.Info("starting batch",
		zap.String(logger.FieldJobDescription, jdName),
		zap.Int("candidates", len(names)),
		zap.Int("concurrency", s.concurrency),
	)

	return func(yield func(Event) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var next func() Record
		if s.concurrency > 1 && len(names) > 1 {
			next = s.parallel(ctx, jdName, jdText, names)
		} else {
			next = s.sequential(ctx, jdName, jdText, names)
		}

		records := make([]Record, 0, len(names))
		for _, name := range names {
			records = append(records, next())
			if !yield(Event{Records: slices.Clip(records), Current: name}) {
				s.logger.Info("batch abandoned by consumer",
					zap.String(logger.FieldJobDescription, jdName),
					zap.Int("processed", len(records)),
				)
				return
			}
		}

		result := &BatchResult{
			JDName:     jdName,
			Records:    slices.Clip(records),
			Statistics: ComputeStatistics(records),
		}

		s.logger.Info("batch completed",
			zap.String(logger.FieldJobDescription, jdName),
			zap.Int("analyzed", result.Statistics.TotalAnalyzed),
			zap.Int("matches", result.Statistics.SuccessfulMatches),
			zap.Int("errors", result.Statistics.TotalErrors),
		)

		yield(Event{Records: result.Records, Result: result})
	}, nil
}

// sequential returns a function producing the record of the next name each call.
func (s *Screener) sequential(ctx context.Context, jdName, jdText string, names []string) func() Record {
	i := 0
	return func() Record {
		record := s.analyze(ctx, jdName, jdText, names[i])
		i++
		return record
	}
}

// parallel starts analyses in snapshot order, bounded by the semaphore, and
// hands the records back in the same order.
func (s *Screener) parallel(ctx context.Context, jdName, jdText string, names []string) func() Record {
	sem := semaphore.NewWeighted(int64(s.concurrency))
	slots := make([]chan Record, len(names))
	for i := range slots {
		slots[i] = make(chan Record, 1)
	}

	go func() {
		for i, name := range names {
			if err := sem.Acquire(ctx, 1); err != nil {
				for j := i; j < len(names); j++ {
					slots[j] <- errorRecord(names[j], analysisFailure(names[j], err))
				}
				return
			}

			go func(slot chan<- Record, name string) {
				defer sem.Release(1)
				slot <- s.analyze(ctx, jdName, jdText, name)
			}(slots[i], name)
		}
	}()

	i := 0
	return func() Record {
		record := <-slots[i]
		i++
		return record
	}
}

// AnalyzeOne screens a single candidate against a job description.
func (s *Screener) AnalyzeOne(ctx context.Context, jdName, candidateName string) (Record, error) {
	jdText, ok := s.catalog.Get(document.JobDescription, jdName)
	if !ok {
		available := s.catalog.Names(document.JobDescription)
		sort.Strings(available)
		return Record{}, &NotFoundError{Name: jdName, Available: available}
	}

	return s.analyze(ctx, jdName, jdText, candidateName), nil
}

func (s *Screener) analyze(ctx context.Context, jdName, jdText, name string) Record {
	log := s.logger.With(logger.PairFields(jdName, name)...)

	text, ok := s.catalog.Get(document.Candidate, name)
	if !ok {
		log.Warn("resume content is not available")
		return errorRecord(name, fmt.Sprintf("Could not retrieve content for %s", name))
	}

	if err := ctx.Err(); err != nil {
		return errorRecord(name, analysisFailure(name, err))
	}

	raw, err := s.completer.Complete(ctx, BuildPrompt(s.prompt, jdText, text))
	if err != nil {
		log.Warn("resume analysis failed", zap.Error(err))
		return errorRecord(name, analysisFailure(name, err))
	}

	verdict := analysis.Extract(raw)

	log.Info("resume analysed",
		zap.String("candidate", verdict.CandidateName),
		zap.Bool("match", verdict.IsMatch),
	)

	return Record{
		ResumeName:    name,
		CandidateName: verdict.CandidateName,
		Match:         verdict.IsMatch,
		Summary:       verdict.Summary,
		Status:        StatusSuccess,
	}
}

func analysisFailure(name string, err error) string {
	return fmt.Sprintf("Error analyzing %s: %v", name, err)
}

func errorRecord(name, message string) Record {
	return Record{
		ResumeName:    name,
		CandidateName: analysis.UnknownName,
		Match:         false,
		Summary:       message,
		Status:        StatusError,
	}
}

// Collect drains seq and returns the final result, or nil when the sequence
// ended without one.
func Collect(seq iter.Seq[Event]) *BatchResult {
	var result *BatchResult
	for event := range seq {
		if event.Done() {
			result = event.Result
		}
	}
	return result
}
