// Package trace is the walker's diagnostic side channel: depth-indented
// lines at step entry, success, back-off, and fail. It is built as a
// level-gated wrapper around logrus so that when tracing is disabled,
// no field formatting work happens at all — Emit checks Enabled before
// building its logrus.Fields.
package trace

import (
	"strings"

	"github.com/arkrow/rex/ast"
	"github.com/sirupsen/logrus"
)

// Event names the four diagnostic points the walker emits.
type Event byte

const (
	EventEnter Event = iota
	EventSuccess
	EventBackoff
	EventFail
)

func (e Event) String() string {
	switch e {
	case EventEnter:
		return "enter"
	case EventSuccess:
		return "success"
	case EventBackoff:
		return "backoff"
	case EventFail:
		return "fail"
	default:
		return "?"
	}
}

// Tracer emits indented diagnostic lines. The zero value is disabled.
// A *logrus.Logger is already safe for concurrent use, so Tracer needs
// no lock of its own.
type Tracer struct {
	log     *logrus.Logger
	level   logrus.Level
	enabled bool
}

// New returns a Tracer that logs at logrus.DebugLevel when level >= 1.
// level <= 0 disables tracing entirely.
func New(level int) *Tracer {
	if level <= 0 {
		return &Tracer{}
	}
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &Tracer{log: log, level: logrus.DebugLevel, enabled: true}
}

// Enabled reports whether emitting a trace line would do anything;
// Emit checks it before building any fields.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Emit logs one diagnostic line. depth controls indentation; node may
// be nil for events with no associated node (never the case in the
// walker, but kept nil-safe for standalone callers/tests).
func (t *Tracer) Emit(depth int, event Event, node *ast.Node, pos, reps int) {
	if !t.Enabled() {
		return
	}
	indent := strings.Repeat("  ", depth)
	fields := logrus.Fields{"pos": pos, "reps": reps}
	if node != nil {
		fields["kind"] = node.Kind.String()
	}
	t.log.WithFields(fields).Debugf("%s%s", indent, event)
}
