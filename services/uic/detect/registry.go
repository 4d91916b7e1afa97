// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package detect

import (
	"log/slog"

	"github.com/AleutianAI/williwaw/services/uic/config"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

// WidgetSet is the registry's extensible set of known widget type names.
type WidgetSet struct {
	names map[string]struct{}
}

func newWidgetSet(seed []string) *WidgetSet {
	s := &WidgetSet{names: make(map[string]struct{}, len(seed))}
	for _, n := range seed {
		s.names[n] = struct{}{}
	}
	return s
}

// Add registers a widget type name.
func (s *WidgetSet) Add(name string) {
	if name != "" {
		s.names[name] = struct{}{}
	}
}

// Contains reports whether the name is a known widget type.
func (s *WidgetSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of known widget type names.
func (s *WidgetSet) Len() int {
	return len(s.names)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCacheSize overrides the query cache bound. Non-positive values keep
// the default.
func WithCacheSize(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.cacheSize = n
		}
	}
}

// WithLogger sets the registry logger. Nil keeps slog.Default.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDetector appends a custom detector after the standard one.
// Registration order is dispatch order.
func WithDetector(d Detector) RegistryOption {
	return func(r *Registry) {
		if d != nil {
			r.extra = append(r.extra, d)
		}
	}
}

// Stats is a snapshot of registry counters for diagnostics.
type Stats struct {
	Hits          uint64            `json:"hits"`
	Misses        uint64            `json:"misses"`
	PerOperation  map[string]uint64 `json:"per_operation"`
	KnownWidgets  int               `json:"known_widgets"`
	Detectors     int               `json:"detectors"`
	CacheEntries  int               `json:"cache_entries"`
	CacheCapacity int               `json:"cache_capacity"`
}

// Registry dispatches detection queries to registered detectors and
// memoizes the answers.
//
// Description:
//
//	Detectors are consulted in registration order; the first definitive
//	answer wins and later detectors are not asked. A detector panic is
//	swallowed and treated as "no answer". When no detector answers, the
//	documented default is returned: false for boolean queries, nil/empty
//	for list queries, "" for accessor text, and UnknownWidgetName for
//	WidgetName.
//
//	Every dispatch is wrapped by a bounded cache keyed by (operation,
//	node identity), or (operation, name) for property-name queries.
//
// Thread Safety:
//
//	NOT safe for concurrent use. The Registry carries file-scoped mutable
//	state (cache, counters, known-widget set); allocate one per file and
//	never share instances across concurrently processed files.
type Registry struct {
	detectors []Detector
	widgets   *WidgetSet
	cache     *queryCache
	cacheSize int
	logger    *slog.Logger
	extra     []Detector
}

// NewRegistry creates a Registry seeded from the given rules.
//
// Description:
//
//	The standard detector is always registered first; WithDetector
//	options append custom detectors behind it. The known-widget set is
//	seeded from rules.KnownWidgets and extensible via AddKnownWidget.
//
// Inputs:
//   - rules: Widget rules. Nil uses the embedded defaults.
//   - opts: Optional configuration (WithCacheSize, WithLogger, WithDetector).
//
// Outputs:
//   - *Registry: Ready-to-use registry. Never nil.
//
// Thread Safety: The returned Registry must be confined to one file run.
func NewRegistry(rules *config.WidgetRules, opts ...RegistryOption) *Registry {
	if rules == nil {
		rules = config.DefaultWidgetRules()
	}

	r := &Registry{
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.widgets = newWidgetSet(rules.KnownWidgets)
	r.detectors = append([]Detector{NewStandardDetector(rules, r.widgets)}, r.extra...)
	r.extra = nil
	r.cache = newQueryCache(r.cacheSize)
	return r
}

// AddKnownWidget extends the known widget-type set at runtime.
//
// Adding a name does not invalidate cached answers; callers extending the
// set mid-run should do so before querying nodes that depend on it.
func (r *Registry) AddKnownWidget(name string) {
	r.widgets.Add(name)
}

// KnownWidgetCount returns the size of the known widget-type set.
func (r *Registry) KnownWidgetCount() int {
	return r.widgets.Len()
}

// Stats returns a snapshot of the registry's counters.
func (r *Registry) Stats() Stats {
	perOp := make(map[string]uint64, len(r.cache.perOp))
	for k, v := range r.cache.perOp {
		perOp[k] = v
	}
	return Stats{
		Hits:          r.cache.hits,
		Misses:        r.cache.misses,
		PerOperation:  perOp,
		KnownWidgets:  r.widgets.Len(),
		Detectors:     len(r.detectors),
		CacheEntries:  r.cache.size(),
		CacheCapacity: r.cache.capacity,
	}
}

// =============================================================================
// Dispatch
// =============================================================================

// dispatch runs one cached query. def is the documented default returned
// when no detector answers.
func dispatch[T any](r *Registry, op string, node syntax.Node, name string, def T, call func(Detector) (T, bool)) T {
	key := queryKey{op: op, node: node, name: name}
	if cached, ok := r.cache.get(key); ok {
		if cached == nil {
			// A nil node/slice answer round-trips through the cache as a
			// nil interface; it equals the default.
			return def
		}
		if typed, ok := cached.(T); ok {
			return typed
		}
		// A type mismatch can only happen if two operations share a name;
		// treat it as a miss and recompute.
	}

	result := def
	for _, d := range r.detectors {
		if answer, ok := safeCall(r, d, op, call); ok {
			result = answer
			break
		}
	}

	r.cache.put(key, result)
	return result
}

// safeCall invokes one detector, converting a panic into "no answer".
func safeCall[T any](r *Registry, d Detector, op string, call func(Detector) (T, bool)) (answer T, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("detector panicked; treating as no answer",
				slog.String("detector", d.Name()),
				slog.String("operation", op),
				slog.Any("panic", rec))
			var zero T
			answer, ok = zero, false
		}
	}()
	return call(d)
}

// =============================================================================
// Node classification queries
// =============================================================================

// IsWidgetCreation reports whether the node instantiates a UI widget.
func (r *Registry) IsWidgetCreation(n syntax.Node) bool {
	return dispatch(r, OpIsWidgetCreation, n, "", false, func(d Detector) (bool, bool) {
		return d.IsWidgetCreation(n)
	})
}

// IsConditional reports whether the node selects between components.
func (r *Registry) IsConditional(n syntax.Node) bool {
	return dispatch(r, OpIsConditional, n, "", false, func(d Detector) (bool, bool) {
		return d.IsConditional(n)
	})
}

// IsLoop reports whether the node produces components repeatedly.
func (r *Registry) IsLoop(n syntax.Node) bool {
	return dispatch(r, OpIsLoop, n, "", false, func(d Detector) (bool, bool) {
		return d.IsLoop(n)
	})
}

// IsCollection reports whether the node is a collection literal.
func (r *Registry) IsCollection(n syntax.Node) bool {
	return dispatch(r, OpIsCollection, n, "", false, func(d Detector) (bool, bool) {
		return d.IsCollection(n)
	})
}

// IsBuilder reports whether the node is a UI-building closure.
func (r *Registry) IsBuilder(n syntax.Node) bool {
	return dispatch(r, OpIsBuilder, n, "", false, func(d Detector) (bool, bool) {
		return d.IsBuilder(n)
	})
}

// IsCallback reports whether the node is an event-handler closure.
func (r *Registry) IsCallback(n syntax.Node) bool {
	return dispatch(r, OpIsCallback, n, "", false, func(d Detector) (bool, bool) {
		return d.IsCallback(n)
	})
}

// =============================================================================
// Widget accessor queries
// =============================================================================

// WidgetName returns the constructed widget name, or UnknownWidgetName.
func (r *Registry) WidgetName(n syntax.Node) string {
	return dispatch(r, OpWidgetName, n, "", UnknownWidgetName, func(d Detector) (string, bool) {
		return d.WidgetName(n)
	})
}

// ConstructorVariant returns the named-constructor variant, or "".
func (r *Registry) ConstructorVariant(n syntax.Node) string {
	return dispatch(r, OpConstructorVariant, n, "", "", func(d Detector) (string, bool) {
		return d.ConstructorVariant(n)
	})
}

// IsConstCreation reports whether the node is a const instantiation.
func (r *Registry) IsConstCreation(n syntax.Node) bool {
	return dispatch(r, OpIsConstCreation, n, "", false, func(d Detector) (bool, bool) {
		return d.IsConstCreation(n)
	})
}

// Properties returns the node's named arguments in source order.
func (r *Registry) Properties(n syntax.Node) []syntax.NamedArgument {
	return dispatch(r, OpProperties, n, "", nil, func(d Detector) ([]syntax.NamedArgument, bool) {
		return d.Properties(n)
	})
}

// ChildElements returns the nested child-carrying nodes in source order.
func (r *Registry) ChildElements(n syntax.Node) []syntax.Node {
	return dispatch(r, OpChildElements, n, "", nil, func(d Detector) ([]syntax.Node, bool) {
		return d.ChildElements(n)
	})
}

// =============================================================================
// Conditional accessor queries
// =============================================================================

// Condition returns the condition source text, or "".
func (r *Registry) Condition(n syntax.Node) string {
	return dispatch(r, OpCondition, n, "", "", func(d Detector) (string, bool) {
		return d.Condition(n)
	})
}

// ThenBranch returns the then-branch node, or nil.
func (r *Registry) ThenBranch(n syntax.Node) syntax.Node {
	return dispatch(r, OpThenBranch, n, "", nil, func(d Detector) (syntax.Node, bool) {
		return d.ThenBranch(n)
	})
}

// ElseBranch returns the else-branch node, or nil.
func (r *Registry) ElseBranch(n syntax.Node) syntax.Node {
	return dispatch(r, OpElseBranch, n, "", nil, func(d Detector) (syntax.Node, bool) {
		return d.ElseBranch(n)
	})
}

// =============================================================================
// Loop accessor queries
// =============================================================================

// LoopKind returns "for", "forEach", or "while"; "" when not a loop.
func (r *Registry) LoopKind(n syntax.Node) string {
	return dispatch(r, OpLoopKind, n, "", "", func(d Detector) (string, bool) {
		return d.LoopKind(n)
	})
}

// LoopVariable returns the loop variable name, or "".
func (r *Registry) LoopVariable(n syntax.Node) string {
	return dispatch(r, OpLoopVariable, n, "", "", func(d Detector) (string, bool) {
		return d.LoopVariable(n)
	})
}

// IterableCode returns the iterated expression source text, or "".
func (r *Registry) IterableCode(n syntax.Node) string {
	return dispatch(r, OpIterableCode, n, "", "", func(d Detector) (string, bool) {
		return d.IterableCode(n)
	})
}

// LoopBody returns the loop body node, or nil.
func (r *Registry) LoopBody(n syntax.Node) syntax.Node {
	return dispatch(r, OpLoopBody, n, "", nil, func(d Detector) (syntax.Node, bool) {
		return d.LoopBody(n)
	})
}

// =============================================================================
// Collection accessor queries
// =============================================================================

// CollectionKind returns "list", "map", or "set"; "" when not a literal.
func (r *Registry) CollectionKind(n syntax.Node) string {
	return dispatch(r, OpCollectionKind, n, "", "", func(d Detector) (string, bool) {
		return d.CollectionKind(n)
	})
}

// CollectionElements returns the literal's elements in source order.
func (r *Registry) CollectionElements(n syntax.Node) []syntax.Node {
	return dispatch(r, OpCollectionElements, n, "", nil, func(d Detector) ([]syntax.Node, bool) {
		return d.CollectionElements(n)
	})
}

// HasSpread reports whether the literal contains a spread element.
func (r *Registry) HasSpread(n syntax.Node) bool {
	return dispatch(r, OpHasSpread, n, "", false, func(d Detector) (bool, bool) {
		return d.HasSpread(n)
	})
}

// =============================================================================
// Closure accessor queries
// =============================================================================

// ClosureParams returns the closure's parameter names in order.
func (r *Registry) ClosureParams(n syntax.Node) []string {
	return dispatch(r, OpClosureParams, n, "", nil, func(d Detector) ([]string, bool) {
		return d.ClosureParams(n)
	})
}

// ClosureIsAsync reports whether the closure is async.
func (r *Registry) ClosureIsAsync(n syntax.Node) bool {
	return dispatch(r, OpClosureIsAsync, n, "", false, func(d Detector) (bool, bool) {
		return d.ClosureIsAsync(n)
	})
}

// =============================================================================
// Property-name classification queries
// =============================================================================

// IsChildProperty reports whether the argument name carries one child.
func (r *Registry) IsChildProperty(name string) bool {
	return dispatch(r, OpIsChildProperty, nil, name, false, func(d Detector) (bool, bool) {
		return d.IsChildProperty(name)
	})
}

// IsChildrenProperty reports whether the argument name carries a child list.
func (r *Registry) IsChildrenProperty(name string) bool {
	return dispatch(r, OpIsChildrenProperty, nil, name, false, func(d Detector) (bool, bool) {
		return d.IsChildrenProperty(name)
	})
}

// IsCallbackProperty reports whether the argument name marks a callback.
func (r *Registry) IsCallbackProperty(name string) bool {
	return dispatch(r, OpIsCallbackProperty, nil, name, false, func(d Detector) (bool, bool) {
		return d.IsCallbackProperty(name)
	})
}

// IsBuilderProperty reports whether the argument name marks a builder.
func (r *Registry) IsBuilderProperty(name string) bool {
	return dispatch(r, OpIsBuilderProperty, nil, name, false, func(d Detector) (bool, bool) {
		return d.IsBuilderProperty(name)
	})
}
