// Package trace records the passes of a compilation as nested spans.
//
// A Tracer is attached to the context the driver passes around; passes open
// spans with Start and close them with End:
//
//	ctx, sp := trace.Start(ctx, trace.ScopePass, "define")
//	defer sp.End("")
//
// Spans carry the ID of the enclosing span so concurrent crates built by
// CompileAll can be told apart. Output is either human-readable text or
// NDJSON, chosen from the output file extension.
//
//	cool build --trace=- --trace-level=pass
package trace
