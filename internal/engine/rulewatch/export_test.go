// export_test.go exports private members for white-box testing.
package rulewatch

import "go.trai.ch/hotswap/internal/core/ports"

var (
	NoopTracer  ports.Tracer  = noopTracer{}
	NoopMetrics ports.Metrics = noopMetrics{}
)

// PendingLen returns the number of queued changes.
func (w *Watcher) PendingLen() int {
	return w.queue.Len()
}

// HandleChange feeds a notification as if it came from the OS.
func (w *Watcher) HandleChange(path string) {
	w.handleChange(ports.WatchEvent{Path: path})
}

// Poll runs one settle timer firing.
func (w *Watcher) Poll() {
	w.poll()
}
