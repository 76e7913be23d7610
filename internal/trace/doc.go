// Package trace records the spans and points of a lowering run.
//
// Span tree of `declower run a.toml b.toml`:
//
//	lower_units               ScopePass
//	  lower:<pkg>             ScopeUnit, one per unit, members/actions/public
//	run                       ScopePass
//	  install:<pkg>           ScopeUnit, first use of a package part
//	    class:<name>          ScopeClass point, classIndex
//	    object:<name>         ScopeClass point, class object forced
//
// The driver passes parents through the context (WithSpan, ParentID);
// the runtime and lowering take a Tracer directly.
//
// Modes: stream writes events as they happen (text, or NDJSON for a
// .ndjson/.jsonl output); ring keeps the tail and the CLI dumps it when a
// command fails; both does the two. Level error always uses the ring.
package trace
