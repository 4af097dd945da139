package document

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Stats summarises the cache contents.
type Stats struct {
	JobDescriptions int `json:"jd_count"`
	Candidates      int `json:"resume_count"`
	Total           int `json:"total_files"`
}

type index struct {
	names []string
	texts map[string]string
}

func (ix index) size() int {
	return len(ix.names)
}

type snapshot map[Category]index

// Cache holds the extracted text of every job description and candidate
// document in memory. Reloads replace the whole snapshot at once, so readers
// see either the previous or the new contents.
type Cache struct {
	sources map[Category]Source
	logger  *zap.Logger

	// reload serialises Load calls.
	reload sync.Mutex

	mu   sync.RWMutex
	data snapshot
}

func NewCache(jobDescriptions, candidates Source, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		sources: map[Category]Source{
			JobDescription: jobDescriptions,
			Candidate:      candidates,
		},
		logger: logger,
		data:   snapshot{},
	}
}

// Load reads both sources from scratch and swaps the result in. A missing
// source yields an empty category. Only context cancellation aborts it.
func (c *Cache) Load(ctx context.Context) error {
	c.reload.Lock()
	defer c.reload.Unlock()

	next := snapshot{}
	for _, category := range []Category{JobDescription, Candidate} {
		ix, err := c.loadCategory(ctx, category)
		if err != nil {
			return err
		}
		next[category] = ix
	}

	c.mu.Lock()
	c.data = next
	c.mu.Unlock()

	return nil
}

// Refresh discards the cached documents and loads them again.
func (c *Cache) Refresh(ctx context.Context) error {
	c.logger.Info("refreshing document cache")
	return c.Load(ctx)
}

func (c *Cache) loadCategory(ctx context.Context, category Category) (index, error) {
	ix := index{texts: map[string]string{}}

	source := c.sources[category]
	if source == nil {
		return ix, nil
	}

	log := c.logger.With(zap.Stringer("category", category), zap.String("location", source.Location()))

	items, err := source.List(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ix, ctxErr
		}
		if errors.Is(err, ErrSourceUnavailable) {
			log.Warn("document source does not exist", zap.Error(err))
		} else {
			log.Error("listing documents failed", zap.Error(err))
		}
		return ix, nil
	}

	log.Info("loading documents", zap.Int("items", len(items)))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return ix, err
		}

		data, err := source.Read(ctx, item)
		if err != nil {
			log.Error("reading document failed", zap.String("key", item.Key), zap.Error(err))
			continue
		}

		text, err := ExtractText(item, data)
		if err != nil {
			log.Error("extracting document text failed", zap.String("key", item.Key), zap.Error(err))
			continue
		}
		if text == "" {
			log.Debug("skipping empty document", zap.String("key", item.Key))
			continue
		}

		if _, seen := ix.texts[item.Name]; !seen {
			ix.names = append(ix.names, item.Name)
		}
		ix.texts[item.Name] = text
		log.Debug("loaded document", zap.String("name", item.Name))
	}

	log.Info("loaded documents into cache", zap.Int("count", ix.size()))

	return ix, nil
}

func (c *Cache) Get(category Category, name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	text, ok := c.data[category].texts[name]
	return text, ok
}

// Names returns the document names of a category in load order.
func (c *Cache) Names(category Category) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := c.data[category].names
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	jds := c.data[JobDescription].size()
	candidates := c.data[Candidate].size()

	return Stats{JobDescriptions: jds, Candidates: candidates, Total: jds + candidates}
}

// Source returns the configured source of a category.
func (c *Cache) Source(category Category) Source {
	return c.sources[category]
}
