package telemetry

import "sync"

type Report struct {
	Level  string
	Id     string
	Params []any
}

// RecorderAPI keeps every non-debug report in memory so tests can assert on
// what a component reported.
type RecorderAPI struct {
	mu      sync.Mutex
	reports []Report
}

func (r *RecorderAPI) add(level, id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, Report{Level: level, Id: id, Params: params})
}

func (r *RecorderAPI) ReportBroken(id string, params ...any) {
	r.add("broken", id, params)
}

func (r *RecorderAPI) ReportWarning(id string, params ...any) {
	r.add("warning", id, params)
}

func (r *RecorderAPI) ReportDebug(string, ...any) {}

func (r *RecorderAPI) ReportCount(id string, count int64) {
	r.add("count", id, []any{count})
}

// Reports returns a copy of the reports of the given level.
func (r *RecorderAPI) Reports(level string) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Report{}
	for _, rep := range r.reports {
		if rep.Level == level {
			out = append(out, rep)
		}
	}
	return out
}
