package scraper

import "sync"

// DefaultHistoryLimit caps the number of past attempt reports kept in
// memory for diagnostics.
const DefaultHistoryLimit = 20

// reportHistory is a bounded most-recent-first buffer of past reports.
// The internal slice is never handed out; readers get deep copies.
type reportHistory struct {
	mu      sync.Mutex
	limit   int
	reports []*Report
}

func (h *reportHistory) add(r *Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = append([]*Report{r.Clone()}, h.reports...)
	if len(h.reports) > h.limit {
		h.reports = h.reports[:h.limit]
	}
}

func (h *reportHistory) snapshot() []*Report {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Report, len(h.reports))
	for i, r := range h.reports {
		out[i] = r.Clone()
	}
	return out
}

func (h *reportHistory) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = nil
}

func (h *reportHistory) setLimit(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 {
		n = DefaultHistoryLimit
	}
	h.limit = n
	if len(h.reports) > h.limit {
		h.reports = h.reports[:h.limit]
	}
}

var history = &reportHistory{limit: DefaultHistoryLimit}

// ReportHistory returns deep copies of the retained attempt reports,
// most recent first.
func ReportHistory() []*Report {
	return history.snapshot()
}

// ClearReportHistory drops all retained attempt reports.
func ClearReportHistory() {
	history.clear()
}

// SetHistoryLimit adjusts the retention cap. Values below one restore
// the default.
func SetHistoryLimit(n int) {
	history.setLimit(n)
}
