// Command qcgcinspect reads the collector's environment-configurable
// thresholds and prints them human-readably, exercising the
// configuration and event-log stack without needing a live mutator.
package main

import (
	"fmt"
	"os"

	"github.com/inhies/go-bytesize"

	qcgc "github.com/quasiconcurrent/qcgc"
)

func main() {
	cfg := qcgc.LoadConfig(os.Getenv)

	logger := qcgc.NewDefaultLogger(cfg.LogLevel)
	logger.Event(qcgc.LogInfo, qcgc.EventDiagnostic,
		qcgc.F("major_collection", bytesize.New(float64(cfg.MajorCollection)).String()),
		qcgc.F("incmark", bytesize.New(float64(cfg.IncMark)).String()),
	)

	fmt.Printf("MAJOR_COLLECTION = %s (%d bytes)\n", bytesize.New(float64(cfg.MajorCollection)), cfg.MajorCollection)
	fmt.Printf("INCMARK          = %s (%d bytes)\n", bytesize.New(float64(cfg.IncMark)), cfg.IncMark)
	fmt.Printf("QCGC_LOG_LEVEL   = %d\n", cfg.LogLevel)
}
