package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"declower/internal/diag"
	"declower/internal/lower"
	"declower/internal/rt"
	"declower/internal/source"
	"declower/internal/trace"
	"declower/internal/unitdesc"
)

// ErrNoEntry is returned by Run without an entry member.
var ErrNoEntry = errors.New("no entry member given")

// RunResult is the outcome of one program run.
type RunResult struct {
	// Effects lists side-effect markers in execution order, also on failure.
	Effects []string
	Value   rt.Value
	Bag     *diag.Bag
}

// EffectString joins the effects with "_".
func (r *RunResult) EffectString() string {
	return strings.Join(r.Effects, "_")
}

// Run installs units into a fresh runtime in the given order and touches
// entry ("pkg.member"). A function entry is called with its package as
// receiver. Nothing runs before the touch: every initializer is first-use.
func Run(ctx context.Context, units []*lower.FileUnit, entry string) (*RunResult, error) {
	res := &RunResult{Bag: diag.NewBag(DefaultConfig().Lower.MaxDiagnostics)}
	if entry == "" {
		return res, ErrNoEntry
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "run", trace.ParentID(ctx))
	defer span.End("")

	r := rt.New(rt.WithTracer(tracer, span.ID()))
	reporter := diag.BagReporter{Bag: res.Bag}
	log, err := unitdesc.EffectLog(r)
	if err != nil {
		reportRuntime(reporter, err)
		return res, err
	}
	defer func() { res.Effects = log.Entries() }()

	for _, u := range units {
		if _, err := u.Install(r); err != nil {
			reportRuntime(reporter, err)
			return res, err
		}
	}

	v, err := r.Lookup(entry)
	if err == nil {
		if _, ok := v.(*rt.Function); ok {
			pkg := ""
			if i := strings.LastIndexByte(entry, '.'); i >= 0 {
				pkg = entry[:i]
			}
			v, err = r.Call(v, r.Package(pkg))
		}
	}
	if err != nil {
		reportRuntime(reporter, err)
		return res, fmt.Errorf("run %s: %w", entry, err)
	}
	res.Value = v
	return res, nil
}

func reportRuntime(reporter diag.Reporter, err error) {
	code := diag.RtInfo
	switch {
	case errors.Is(err, rt.ErrMemberConflict):
		code = diag.RtMemberConflict
	case errors.Is(err, rt.ErrUnitFailed):
		code = diag.RtInstallFailed
	}
	diag.ReportError(reporter, code, source.Span{}, err.Error()).Emit()
}
