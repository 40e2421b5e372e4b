package main

import (
	"fmt"
	"io"
	"time"

	"algotex/internal/pipeline"
)

// printStageTimings prints one line per recorded stage of a file.
func printStageTimings(out io.Writer, path string, timings pipeline.Timings) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, "%s:", path)
	for _, stage := range pipeline.Stages {
		if timings.Has(stage) {
			fmt.Fprintf(out, " %s %.1f ms", stage, toMillis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(out, " (total %.1f ms)\n", toMillis(timings.Sum()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
