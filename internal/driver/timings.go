package driver

import (
	"encoding/json"
	"fmt"

	"algotex/internal/diag"
	"algotex/internal/pipeline"
	"algotex/internal/source"
)

type stageTiming struct {
	Stage      pipeline.Stage `json:"stage"`
	DurationMS float64        `json:"duration_ms"`
}

type timingPayload struct {
	Kind    string           `json:"kind"`
	Path    string           `json:"path,omitempty"`
	TotalMS float64          `json:"total_ms"`
	Stages  []stageTiming    `json:"stages"`
	Timings pipeline.Timings `json:"-"`
	File    source.FileID    `json:"-"`
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	for _, stage := range pipeline.Stages {
		if payload.Timings.Has(stage) {
			payload.Stages = append(payload.Stages, stageTiming{
				Stage:      stage,
				DurationMS: float64(payload.Timings.Duration(stage).Microseconds()) / 1000,
			})
		}
	}
	payload.TotalMS = float64(payload.Timings.Sum().Microseconds()) / 1000

	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	at := source.Span{File: payload.File}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, at, msg).WithNote(at, string(data))

	if !bag.Add(entry) {
		bag.Extend(1)
		bag.Add(entry)
	}
}
