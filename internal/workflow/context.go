package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/detent/runview/internal/source"
	"golang.org/x/sync/errgroup"
)

// Tag is an opaque context string summarizing which dispatch triggers a
// workflow declares. It is built from fixed fragments in a fixed order.
type Tag string

// Tag fragments, appended in this order.
const (
	RepositoryDispatchFragment = "rdispatch"
	WorkflowDispatchFragment   = "wdispatch"
)

// defaultConcurrency bounds TagAll when no limit is configured.
const defaultConcurrency = 8

// AllowsRepositoryDispatch reports whether a repository_dispatch action
// should be offered.
func (t Tag) AllowsRepositoryDispatch() bool {
	return strings.Contains(string(t), RepositoryDispatchFragment)
}

// AllowsWorkflowDispatch reports whether a workflow_dispatch action should
// be offered.
func (t Tag) AllowsWorkflowDispatch() bool {
	return strings.Contains(string(t), WorkflowDispatchFragment)
}

// TagForEvents reduces a trigger list to its context tag.
func TagForEvents(events []TriggerEvent) Tag {
	var tag string
	if HasEvent(events, EventRepositoryDispatch) {
		tag += RepositoryDispatchFragment
	}
	if HasEvent(events, EventWorkflowDispatch) {
		tag += WorkflowDispatchFragment
	}
	return Tag(tag)
}

// TagForText decodes workflow text and returns its tag. Any failure yields
// the empty tag.
func TagForText(text string) Tag {
	return TagForEvents(ParseTriggers([]byte(text)).Events)
}

// TagResult carries a tag together with what went into it.
type TagResult struct {
	Path   string
	Tag    Tag
	Status TriggerStatus
	Events []TriggerEvent
	Err    error
}

// CachedTag is what a TagCache remembers per document.
type CachedTag struct {
	Tag    Tag
	Status TriggerStatus
	Events []TriggerEvent
}

// TagCache memoizes tags by content hash. Implementations must be safe for
// concurrent use; failures are reported as misses.
type TagCache interface {
	Lookup(ctx context.Context, hash string) (CachedTag, bool)
	Store(ctx context.Context, hash string, entry CachedTag) error
}

// Tagger resolves context tags for workflow files read through a TextSource.
type Tagger struct {
	source      source.TextSource
	cache       TagCache
	logger      *slog.Logger
	concurrency int
}

// TaggerOption configures a Tagger.
type TaggerOption func(*Tagger)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) TaggerOption {
	return func(t *Tagger) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithCache enables tag memoization.
func WithCache(cache TagCache) TaggerOption {
	return func(t *Tagger) {
		t.cache = cache
	}
}

// WithConcurrency bounds how many reads TagAll runs at once.
func WithConcurrency(n int) TaggerOption {
	return func(t *Tagger) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// NewTagger creates a Tagger reading through src.
func NewTagger(src source.TextSource, opts ...TaggerOption) *Tagger {
	t := &Tagger{
		source:      src,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tag returns the context tag for the workflow at path. Read and decode
// failures, including cancellation, yield the empty tag.
func (t *Tagger) Tag(ctx context.Context, path string) Tag {
	return t.Resolve(ctx, path).Tag
}

// Resolve is Tag with diagnostics: the result records why a tag is empty.
func (t *Tagger) Resolve(ctx context.Context, path string) (result TagResult) {
	result = TagResult{Path: path, Status: InvalidInput, Events: []TriggerEvent{}}

	defer func() {
		// A misbehaving source must not take the caller down with it.
		if r := recover(); r != nil {
			result = TagResult{
				Path:   path,
				Status: InvalidInput,
				Events: []TriggerEvent{},
				Err:    fmt.Errorf("reading %s: panic: %v", path, r),
			}
			t.logger.Debug("workflow tag failed", "path", path, "error", result.Err)
		}
	}()

	if t.source == nil {
		result.Err = fmt.Errorf("reading %s: no text source configured", path)
		return result
	}

	text, err := t.source.ReadText(ctx, path)
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", path, err)
		t.logger.Debug("workflow tag failed", "path", path, "error", err)
		return result
	}

	var hash string
	if t.cache != nil {
		hash = source.ContentHash(text)
		if cached, ok := t.cache.Lookup(ctx, hash); ok {
			t.logger.Debug("workflow tag cache hit", "path", path, "tag", string(cached.Tag))
			return TagResult{Path: path, Tag: cached.Tag, Status: cached.Status, Events: cached.Events}
		}
	}

	parsed := ParseTriggers([]byte(text))
	result = TagResult{
		Path:   path,
		Tag:    TagForEvents(parsed.Events),
		Status: parsed.Status,
		Events: parsed.Events,
		Err:    parsed.Err,
	}
	if parsed.Err != nil {
		t.logger.Debug("workflow tag failed", "path", path, "error", parsed.Err)
		return result
	}

	if t.cache != nil {
		entry := CachedTag{Tag: result.Tag, Status: result.Status, Events: result.Events}
		if err := t.cache.Store(ctx, hash, entry); err != nil {
			t.logger.Debug("workflow tag cache store failed", "path", path, "error", err)
		}
	}
	return result
}

// TagAll resolves tags for many workflows concurrently. Results are returned
// in the order of paths; a failing path never affects the others.
func (t *Tagger) TagAll(ctx context.Context, paths []string) []TagResult {
	results := make([]TagResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i, p := range paths {
		g.Go(func() error {
			results[i] = t.Resolve(gctx, p)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
