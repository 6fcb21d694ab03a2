// Package gologic provides a high-performance Go implementation of the
// JSONLogic rule language, extended with rich variable access ("val" with
// scope traversal), higher-order array operators, string and temporal
// operators, structured try/throw error handling and user-registered
// custom operators.
//
// # Quick Start
//
//	// Parse once, evaluate many times
//	e := gologic.New()
//	rule, err := e.Parse([]byte(`{"if":[{">":[{"val":"age"},18]},"Adult","Minor"]}`))
//	a := gologic.NewArena()
//	data, _ := gologic.ParseData([]byte(`{"age":21}`), a)
//	result, _ := e.Evaluate(ctx, rule, data, a)
//	// ... consume result ...
//	a.Reset()
//
//	// One-shot evaluation with plain Go values in and out
//	out, err := e.EvaluateJSON(ctx, ruleJSON, dataJSON)
//
// # Performance
//
// GoLogic is optimized for:
//   - Compile-once rules with constant folding and operator flattening
//   - Arena-backed values: one O(1) reset instead of per-value garbage
//   - Optional caching of compiled rules for repeated EvaluateJSON calls
//
// # Concurrency
//
// Rules are immutable after Parse and safe for concurrent evaluation.
// Each concurrent evaluation must borrow its own Arena; EvaluateJSON
// manages a pool of arenas internally.
package gologic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandrolain/gologic/pkg/cache"
	"github.com/sandrolain/gologic/pkg/evaluator"
	"github.com/sandrolain/gologic/pkg/functions"
	"github.com/sandrolain/gologic/pkg/optimizer"
	"github.com/sandrolain/gologic/pkg/parser"
	"github.com/sandrolain/gologic/pkg/types"
)

// Version returns the current version of GoLogic.
func Version() string {
	return "v0.1.0-dev"
}

// Arena is re-exported for callers that manage evaluation lifetimes.
type Arena = types.Arena

// NewArena allocates a fresh evaluation arena.
func NewArena() *Arena { return types.NewArena() }

// Options configures an Engine.
type Options struct {
	// Caching enables compiled-rule caching for EvaluateJSON.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached rules.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom rule cache. If non-nil, Caching is implicitly
	// enabled.
	Cache *cache.Cache
	// Evaluator options are passed through to the evaluator.
	EvalOptions []evaluator.EvalOption
}

// Option configures an Engine.
type Option func(*Options)

// WithCaching enables or disables compiled-rule caching.
func WithCaching(enabled bool) Option {
	return func(o *Options) { o.Caching = enabled }
}

// WithCacheSize sets the maximum number of cached rules.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) Option {
	return func(o *Options) { o.CacheSize = size }
}

// WithCache attaches an external rule cache.
func WithCache(c *cache.Cache) Option {
	return func(o *Options) { o.Cache = c }
}

// WithOperator registers a user-defined custom operator.
func WithOperator(name string, fn functions.Operator) Option {
	return func(o *Options) {
		o.EvalOptions = append(o.EvalOptions, evaluator.WithOperator(name, fn))
	}
}

// WithEvalOptions forwards options to the underlying evaluator
// (WithMaxDepth, WithLogger, WithDebug, ...).
func WithEvalOptions(opts ...evaluator.EvalOption) Option {
	return func(o *Options) {
		o.EvalOptions = append(o.EvalOptions, opts...)
	}
}

// Engine wires the parser, optimizer and evaluator together. It is safe
// for concurrent use once constructed; Register must not race with
// evaluations.
type Engine struct {
	eval   *evaluator.Evaluator
	cache  *cache.Cache
	arenas sync.Pool
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		size := options.CacheSize
		if size <= 0 {
			size = 256
		}
		c = cache.New(size)
	}

	return &Engine{
		eval:  evaluator.New(options.EvalOptions...),
		cache: c,
		arenas: sync.Pool{
			New: func() any { return types.NewArena() },
		},
	}
}

// Register adds a custom operator after construction. It must not be
// called concurrently with evaluations.
func (e *Engine) Register(name string, fn functions.Operator) {
	e.eval.Register(name, fn)
}

// Parse decodes a JSON rule document once into an immutable, optimized
// rule. The rule owns its arena and can be evaluated any number of times,
// concurrently.
func (e *Engine) Parse(ruleJSON []byte) (*types.Rule, error) {
	a := types.NewArena()
	root, err := parser.Parse(ruleJSON, a)
	if err != nil {
		return nil, err
	}
	root = optimizer.Optimize(root, a)
	return types.NewRule(root, a, string(ruleJSON)), nil
}

// MustParse is like Parse but panics when the rule cannot be compiled.
// It simplifies safe initialization of global variables.
func (e *Engine) MustParse(ruleJSON string) *types.Rule {
	rule, err := e.Parse([]byte(ruleJSON))
	if err != nil {
		panic(fmt.Sprintf("gologic: Parse(%q): %v", ruleJSON, err))
	}
	return rule
}

// ParseData decodes a JSON data document into an arena-backed value.
func ParseData(dataJSON []byte, a *Arena) (*types.Value, error) {
	return types.ParseJSON(dataJSON, a)
}

// Evaluate walks a compiled rule against data. Every result and
// intermediate value is allocated from the borrowed arena; the caller
// resets the arena after consuming the result. Failures of the rule
// itself are returned as *types.Error.
func (e *Engine) Evaluate(ctx context.Context, rule *types.Rule, data *types.Value, a *Arena) (*types.Value, error) {
	return e.eval.Evaluate(ctx, rule, data, a)
}

// EvaluateJSON compiles (or fetches from cache) a rule document,
// evaluates it against a data document, and returns the result as plain
// Go values detached from any arena. Arenas are pooled and reset
// internally; each call borrows its own, so EvaluateJSON is safe for
// concurrent use.
func (e *Engine) EvaluateJSON(ctx context.Context, ruleJSON, dataJSON []byte) (any, error) {
	rule, err := e.compile(ruleJSON)
	if err != nil {
		return nil, err
	}

	a := e.arenas.Get().(*types.Arena)
	defer func() {
		a.Reset()
		e.arenas.Put(a)
	}()

	data, err := ParseData(dataJSON, a)
	if err != nil {
		return nil, err
	}
	result, err := e.eval.Evaluate(ctx, rule, data, a)
	if err != nil {
		// The deferred Reset invalidates the arena; error payloads
		// must not keep pointing into it.
		var evalErr *types.Error
		if errors.As(err, &evalErr) {
			return nil, evalErr.Detach()
		}
		return nil, err
	}
	// Copy out before the deferred Reset invalidates the arena.
	return result.Interface(), nil
}

func (e *Engine) compile(ruleJSON []byte) (*types.Rule, error) {
	if e.cache == nil {
		return e.Parse(ruleJSON)
	}
	return e.cache.GetOrCompile(string(ruleJSON), func() (*types.Rule, error) {
		return e.Parse(ruleJSON)
	})
}

// Apply is a convenience for one-shot evaluations with a throwaway
// Engine. For repeated evaluations construct an Engine and reuse it.
func Apply(ctx context.Context, ruleJSON, dataJSON []byte) (any, error) {
	return New().EvaluateJSON(ctx, ruleJSON, dataJSON)
}
