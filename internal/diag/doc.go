// Package diag holds the diagnostics of unit-description loading, lowering
// and runtime installation.
//
// A Diagnostic has a Severity, a Code (DSC1xxx description, LOW2xxx
// lowering, RT3xxx runtime, IO4xxx, OBS5xxx timings), a message, the primary
// span of the offending [[decl]] table and optional notes ("first declared
// here"). Runtime diagnostics have no span.
//
// Producers report through a Reporter, usually via ReportError(...).
// WithNote(...).Emit(). BagReporter stores into a bounded Bag;
// DedupReporter drops repeats before they reach it. Rendering for the CLI
// lives in FormatShortDiagnostics and in package diagfmt.
package diag
