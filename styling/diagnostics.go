package styling

import (
	"fmt"

	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapstyle/mapcss"
)

// Diagnostic describes one malformed or unresolvable property occurrence.
// Diagnostics are observational only; extraction always completes.
type Diagnostic struct {
	EntityID int64
	Property string
	Value    mapcss.PropertyValue
	Reason   string
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("entity #%d, property %q (value %q): %s",
		d.EntityID, d.Property, d.Value.String(), d.Reason)
}

// DiagnosticSink receives extraction diagnostics. Sinks are called from the
// goroutine running the bulk style operation, one diagnostic at a time, in
// deterministic order.
type DiagnosticSink interface {
	HandleDiagnostic(d *Diagnostic)
}

type LoggerSink struct {
	logger *logpkg.Logger
}

func NewLoggerSink(logger *logpkg.Logger) *LoggerSink {
	return &LoggerSink{logger}
}

func (s *LoggerSink) HandleDiagnostic(d *Diagnostic) {
	s.logger.Warn("%s", d)
}

// CollectorSink gathers diagnostics in memory.
type CollectorSink struct {
	Diagnostics []*Diagnostic
}

func (s *CollectorSink) HandleDiagnostic(d *Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}
