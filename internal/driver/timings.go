package driver

import (
	"encoding/json"
	"fmt"
	"time"

	"tokflow/internal/diag"
	"tokflow/internal/observ"
	"tokflow/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic reports a unit's stage durations; the note holds
// them as JSON for machine consumers.
func appendTimingDiagnostic(rep diag.Reporter, id source.FileID, path string, report observ.Report) {
	payload := timingPayload{Kind: "unit", Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	diag.ReportInfo(rep, diag.ObsTimings, source.Pos{File: id}, msg).
		WithNote(source.Pos{File: id}, string(data)).
		Emit()
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
