package driver

import (
	"encoding/json"
	"fmt"

	"declower/internal/diag"
	"declower/internal/observ"
	"declower/internal/source"
)

type unitTimings struct {
	Path    string               `json:"path"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings adds an OBS5001 info diagnostic to res.Bag whose only note
// is the JSON of the unit's decode/lower timings. A full bag is grown for it.
func AppendTimings(res *UnitResult) {
	if res.Bag == nil {
		return
	}
	data, err := json.Marshal(unitTimings{Path: res.Path, TotalMS: res.Timing.TotalMS, Phases: res.Timing.Phases})
	if err != nil {
		return
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{},
		fmt.Sprintf("%s lowered in %.2f ms", res.Path, res.Timing.TotalMS)).
		WithNote(source.Span{}, string(data))
	if res.Bag.Add(d) {
		return
	}
	grown := diag.NewBag(1)
	grown.Add(d)
	res.Bag.Merge(grown)
}
