package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"declower/internal/decl"
	"declower/internal/diag"
	"declower/internal/lower"
	"declower/internal/observ"
	"declower/internal/source"
	"declower/internal/trace"
	"declower/internal/unitdesc"
)

// UnitResult содержит результат понижения одного описания юнита
type UnitResult struct {
	Path   string
	FileID source.FileID
	Desc   *unitdesc.Unit
	Unit   *lower.FileUnit
	Bag    *diag.Bag
	Timing observ.Report
	Err    error
}

// LowerUnits loads and lowers the unit descriptions at paths, one unit per
// goroutine. Results keep the order of paths. A unit that fails carries its
// error and diagnostics in its result; only cancellation fails the whole call.
func LowerUnits(ctx context.Context, cfg Config, fileSet *source.FileSet, paths []string) ([]UnitResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "lower_units", trace.ParentID(ctx))
	defer span.End("")

	results := make([]UnitResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	// FileSet is not safe for concurrent writes: load everything up front.
	for i, path := range paths {
		results[i].Path = path
		results[i].Bag = diag.NewBag(cfg.Lower.MaxDiagnostics)
		id, err := fileSet.Load(path)
		if err != nil {
			diag.ReportError(diag.BagReporter{Bag: results[i].Bag}, diag.IOLoadFileError, source.Span{}, err.Error()).Emit()
			results[i].Err = err
			continue
		}
		results[i].FileID = id
	}

	jobs := cfg.Lower.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			lowerOne(fileSet, &results[i], tracer, span.ID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func lowerOne(fileSet *source.FileSet, res *UnitResult, tracer trace.Tracer, parent uint64) {
	// decode и classify могут сообщить об одном и том же месте дважды
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	timer := observ.NewTimer()
	defer func() { res.Timing = timer.Report() }()

	var decls []decl.Declaration
	err := timer.Measure("decode", func() error {
		desc, err := unitdesc.Decode(fileSet, res.FileID, reporter)
		if err != nil {
			return err
		}
		res.Desc = desc
		decls, err = desc.Declarations()
		return err
	})
	if err != nil {
		res.Err = err
		return
	}

	res.Err = timer.Measure("lower", func() error {
		unit, err := lower.Lower(res.Desc.Package, decls, lower.Options{Reporter: reporter, Tracer: tracer, Parent: parent})
		res.Unit = unit
		return err
	})
}
