package document

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memorySource struct {
	mu      sync.Mutex
	items   []Item
	content map[string]string
	listErr error
	readErr map[string]error
}

func newMemorySource(files ...string) *memorySource {
	src := &memorySource{content: map[string]string{}, readErr: map[string]error{}}
	for i := 0; i+1 < len(files); i += 2 {
		src.add(files[i], files[i+1])
	}
	return src
}

func (m *memorySource) add(key, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := newItem(key)
	if !ok {
		panic("unsupported test key " + key)
	}
	m.items = append(m.items, item)
	m.content[key] = content
}

func (m *memorySource) Location() string { return "memory" }

func (m *memorySource) List(context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memorySource) Read(_ context.Context, item Item) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readErr[item.Key]; err != nil {
		return nil, err
	}
	return []byte(m.content[item.Key]), nil
}

func TestCacheLoad(t *testing.T) {
	t.Parallel()

	jds := newMemorySource("backend_eng.txt", "  Go developer  \n")
	resumes := newMemorySource(
		"alice.txt", "Alice resume",
		"blank.txt", " \n\t ",
		"broken.pdf", "not a pdf",
		"bob.txt", "Bob resume",
	)

	cache := NewCache(jds, resumes, zap.NewNop())
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text, ok := cache.Get(JobDescription, "backend_eng"); !ok || text != "Go developer" {
		t.Fatalf("unexpected jd text %q (found=%v)", text, ok)
	}

	if names := cache.Names(Candidate); !reflect.DeepEqual(names, []string{"alice", "bob"}) {
		t.Fatalf("unexpected candidate names %v", names)
	}

	if _, ok := cache.Get(Candidate, "blank"); ok {
		t.Fatalf("empty documents must not be cached")
	}
	if _, ok := cache.Get(Candidate, "broken"); ok {
		t.Fatalf("unreadable documents must be skipped")
	}
	if _, ok := cache.Get(JobDescription, "alice"); ok {
		t.Fatalf("names are scoped per category")
	}

	expect := Stats{JobDescriptions: 1, Candidates: 2, Total: 3}
	if stats := cache.Stats(); stats != expect {
		t.Fatalf("expected %+v, got %+v", expect, stats)
	}
}

func TestCacheDuplicateStem(t *testing.T) {
	t.Parallel()

	resumes := newMemorySource(
		"alice.txt", "first",
		"bob.txt", "bob",
		"alice.TXT", "second",
	)

	cache := NewCache(nil, resumes, nil)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if names := cache.Names(Candidate); !reflect.DeepEqual(names, []string{"alice", "bob"}) {
		t.Fatalf("unexpected names %v", names)
	}
	if text, _ := cache.Get(Candidate, "alice"); text != "second" {
		t.Fatalf("expected the later document to win, got %q", text)
	}
	if cache.Stats().Candidates != 2 {
		t.Fatalf("duplicate names must be counted once")
	}
}

func TestCacheMissingSourceIsWarning(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)

	jds := newMemorySource()
	jds.listErr = fmt.Errorf("%w: folder %q does not exist", ErrSourceUnavailable, "data/JDs")

	cache := NewCache(jds, newMemorySource("alice.txt", "Alice"), zap.New(core))
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("missing source must not fail the load: %v", err)
	}

	if len(cache.Names(JobDescription)) != 0 {
		t.Fatalf("expected no job descriptions")
	}
	if _, ok := cache.Get(JobDescription, "anything"); ok {
		t.Fatalf("expected lookups to report not found")
	}

	warnings := observed.FilterMessage("document source does not exist").All()
	if len(warnings) != 1 || warnings[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warning, got %+v", observed.All())
	}
}

func TestCacheSkipsReadErrors(t *testing.T) {
	t.Parallel()

	resumes := newMemorySource("alice.txt", "Alice", "bob.txt", "Bob")
	resumes.readErr["alice.txt"] = errors.New("permission denied")

	cache := NewCache(nil, resumes, nil)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if names := cache.Names(Candidate); !reflect.DeepEqual(names, []string{"bob"}) {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestCacheRefresh(t *testing.T) {
	t.Parallel()

	resumes := newMemorySource("alice.txt", "Alice")
	cache := NewCache(nil, resumes, nil)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := cache.Names(Candidate)
	resumes.add("carol.txt", "Carol")

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(before, []string{"alice"}) {
		t.Fatalf("previously returned names must not change, got %v", before)
	}
	if names := cache.Names(Candidate); !reflect.DeepEqual(names, []string{"alice", "carol"}) {
		t.Fatalf("unexpected names after refresh %v", names)
	}
}

func TestCacheLoadCancelledKeepsPreviousState(t *testing.T) {
	t.Parallel()

	cache := NewCache(nil, newMemorySource("alice.txt", "Alice"), nil)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cache.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if _, ok := cache.Get(Candidate, "alice"); !ok {
		t.Fatalf("a failed refresh must keep the previous snapshot")
	}
}

func TestCacheConcurrentRefresh(t *testing.T) {
	t.Parallel()

	resumes := newMemorySource("alice.txt", "Alice", "bob.txt", "Bob")
	cache := NewCache(nil, resumes, nil)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := cache.Refresh(context.Background()); err != nil {
				t.Errorf("refresh: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				names := cache.Names(Candidate)
				if len(names) != 2 {
					t.Errorf("observed torn cache: %v", names)
					return
				}
				for _, name := range names {
					if _, ok := cache.Get(Candidate, name); !ok {
						t.Errorf("name %q listed but not readable", name)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
