package driver

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-set/v3"
	"golang.org/x/sync/errgroup"

	"github.com/LechintanTudor/cool-compiler-sub001/internal/symbol"
	"github.com/LechintanTudor/cool-compiler-sub001/internal/trace"
)

// CompileAll compiles independent crates concurrently, at most jobs at a
// time (GOMAXPROCS when jobs <= 0). All crates share one symbol table.
// Results are returned in the order of crates; a crate that failed with an
// error leaves a nil slot.
func CompileAll(ctx context.Context, crates []Options, jobs int, sink ProgressSink) ([]*Result, error) {
	names := set.New[string](len(crates))
	for _, o := range crates {
		if !names.Insert(o.Name) {
			return nil, fmt.Errorf("crate %q is listed twice", o.Name)
		}
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile-all")
	defer span.End(fmt.Sprintf("%d crates", len(crates)))

	syms := symbol.NewTable()
	for _, o := range crates {
		notify(sink, Event{Crate: o.Name, Stage: StageParse, Status: StatusQueued})
	}

	results := make([]*Result, len(crates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(crates), 1)))
	for i, o := range crates {
		if o.Symbols == nil {
			o.Symbols = syms
		}
		if o.Progress == nil {
			o.Progress = sink
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := Compile(gctx, o)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	return results, err
}
