package driver

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"declower/internal/diag"
	"declower/internal/lower"
	"declower/internal/rt"
	"declower/internal/source"
	"declower/internal/trace"
)

func lowerAll(t *testing.T, names ...string) []*lower.FileUnit {
	t.Helper()
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join("testdata", n)
	}
	results, err := LowerUnits(context.Background(), DefaultConfig(), source.NewFileSet(), paths)
	if err != nil {
		t.Fatalf("lower units: %v", err)
	}
	units := make([]*lower.FileUnit, len(results))
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("%s: %v", res.Path, res.Err)
		}
		if res.Path != paths[i] {
			t.Fatalf("result %d is %s, want %s", i, res.Path, paths[i])
		}
		units[i] = res.Unit
	}
	return units
}

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		files []string
		entry string
		want  string
	}{
		{[]string{"order.toml"}, "order.main", "A_O_B"},
		{[]string{"classobjects.toml"}, "co.main", "coA_coB_A_B_coC_A_B_C"},
		{[]string{"classobjects.toml"}, "co.traitOnly", "coT"},
		{[]string{"selfobject.toml"}, "self.main", "coB_B_A_coA_B_A"},
		{[]string{"part1.toml", "part2.toml"}, "multi.main", "X_Y"},
		{[]string{"order.toml"}, "order.a", "A_O_B"},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			res, err := Run(context.Background(), lowerAll(t, tt.files...), tt.entry)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := res.EffectString(); got != tt.want {
				t.Fatalf("effects = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunNormalisesNames(t *testing.T) {
	tests := []struct {
		entry   string
		want    rt.Value
		effects string
	}{
		{"nfc.main", "C", "C"},
		{"nfc.caf\u00e9", "C", "C"},
		{"nfc.cafe\u0301", "C", "C"},
		{"nfc.readCreme", int64(9), "C"},
		{"nfc.cre\u0300me", int64(9), "C"},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			res, err := Run(context.Background(), lowerAll(t, "nfc.toml"), tt.entry)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if res.Value != tt.want {
				t.Fatalf("value = %v, want %v", rt.Describe(res.Value), rt.Describe(tt.want))
			}
			if got := res.EffectString(); got != tt.effects {
				t.Fatalf("effects = %q, want %q", got, tt.effects)
			}
		})
	}
}

func TestRunEntryValue(t *testing.T) {
	res, err := Run(context.Background(), lowerAll(t, "order.toml"), "order.O")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := res.Value.(*rt.Instance); !ok {
		t.Fatalf("order.O = %v", res.Value)
	}
}

func TestRunErrors(t *testing.T) {
	units := lowerAll(t, "part1.toml", "conflict.toml")
	res, err := Run(context.Background(), units, "multi.main")
	if !errors.Is(err, rt.ErrMemberConflict) {
		t.Fatalf("expected ErrMemberConflict, got %v", err)
	}
	if items := res.Bag.Items(); len(items) != 1 || items[0].Code != diag.RtMemberConflict {
		t.Fatalf("diagnostics = %+v", items)
	}

	if _, err := Run(context.Background(), nil, ""); !errors.Is(err, ErrNoEntry) {
		t.Fatalf("expected ErrNoEntry, got %v", err)
	}
	if _, err := Run(context.Background(), lowerAll(t, "order.toml"), "order.nope"); !errors.Is(err, rt.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLowerUnitsReportsPerUnit(t *testing.T) {
	paths := []string{"testdata/order.toml", "testdata/broken.toml", "testdata/missing.toml"}
	results, err := LowerUnits(context.Background(), DefaultConfig(), source.NewFileSet(), paths)
	if err != nil {
		t.Fatalf("lower units: %v", err)
	}
	if results[0].Err != nil || results[0].Unit == nil {
		t.Fatalf("order.toml: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, lower.ErrDuplicateMember) {
		t.Fatalf("broken.toml: %v", results[1].Err)
	}
	if items := results[1].Bag.Items(); len(items) != 1 || items[0].Code != diag.LowDuplicateMember {
		t.Fatalf("broken.toml diagnostics = %+v", items)
	}
	if results[2].Err == nil || results[2].Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing.toml must fail to load")
	}

	AppendTimings(&results[0])
	items := results[0].Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ObsTimings || len(items[0].Notes) != 1 {
		t.Fatalf("timings diagnostic = %+v", items)
	}
}

func TestLowerUnitsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LowerUnits(ctx, DefaultConfig(), source.NewFileSet(), []string{"testdata/order.toml"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLowerUnitsTraces(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	units := func() []*lower.FileUnit {
		results, err := LowerUnits(ctx, DefaultConfig(), source.NewFileSet(), []string{"testdata/classobjects.toml"})
		if err != nil || results[0].Err != nil {
			t.Fatalf("lower units: %v %v", err, results[0].Err)
		}
		return []*lower.FileUnit{results[0].Unit}
	}()
	if _, err := Run(ctx, units, "co.traitOnly"); err != nil {
		t.Fatalf("run: %v", err)
	}
	names := make(map[string]bool)
	for _, ev := range ring.Snapshot() {
		names[ev.Name] = true
	}
	for _, want := range []string{"lower_units", "lower:co", "run", "class:co.T", "object:co.T"} {
		if !names[want] {
			t.Fatalf("missing trace event %q in %v", want, names)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/declower.toml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Lower.Jobs != 2 || cfg.Lower.MaxDiagnostics != 10 || cfg.Run.Entry != "order.main" {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Trace.Mode != "stream" || cfg.Trace.Output != "-" {
		t.Fatalf("defaults lost: %+v", cfg.Trace)
	}
	tc, err := cfg.Trace.TracerConfig()
	if err != nil || tc.Level != trace.LevelDetail {
		t.Fatalf("tracer config = %+v, %v", tc, err)
	}

	if _, err := LoadConfig("testdata/bad_config.toml"); err == nil {
		t.Fatalf("negative jobs must be rejected")
	}

	path, ok, err := FindConfig("testdata")
	if err != nil || !ok || filepath.Base(path) != ConfigFileName {
		t.Fatalf("find = %q, %v, %v", path, ok, err)
	}
}
