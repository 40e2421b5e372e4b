// Package trace is the logging layer of algotex: structured span and point
// events emitted by the driver, the passes and (at debug level) the renderer.
//
// # Usage
//
//	algotex render --trace=- --trace-level=phase algo.py
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope up to its own granularity:
//
//   - LevelPhase: ScopeDriver and ScopePass (parse, collect, render, assemble)
//   - LevelDetail: plus ScopeFile, one span per input file
//   - LevelDebug: plus ScopeNode, one point per rendered syntax node
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Child(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// Spans opened under the returned ctx nest inside "parse".
package trace
