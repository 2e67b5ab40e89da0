package telemetry

import (
	"fmt"
	"strings"
	"sync"
)

type Report struct {
	Kind   string
	Id     string
	Params []any
}

// RecordingAPI keeps every report in memory so tests can assert on what was reported.
type RecordingAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *RecordingAPI) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *RecordingAPI) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Reports returns every report of the given kind whose id contains `id`.
func (r *RecordingAPI) Reports(kind, id string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind && strings.Contains(report.Id, id) {
			out = append(out, report)
		}
	}
	return out
}

func (r Report) String() string {
	return fmt.Sprintf("%s %s %v", r.Kind, r.Id, r.Params)
}
