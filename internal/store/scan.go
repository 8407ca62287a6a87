package store

import "github.com/gavioto/sysdb/internal/status"

// Kind selects which entity level a Scan inspects when deciding whether
// a host is visited at all (§4.4.2).
type Kind int

const (
	KindHost Kind = iota
	KindService
	KindMetric
)

// ScanFunc is invoked once per host selected by a Scan. It always
// receives the host itself — even for a KindService or KindMetric scan,
// where the match was found on one of the host's children — along with
// the filter to apply when deciding which of that host's descendants to
// actually render or process.
type ScanFunc func(h *Host, filter Matcher) status.Status

// Scan visits every host in insertion order. For KindHost, matcher is
// evaluated against the host itself. For KindService (resp. KindMetric),
// a host is selected if at least one of its services (resp. metrics)
// satisfies matcher — the original's "evaluate on that entity" rule,
// collapsed to host-level selection since every consumer of Scan
// (presently just the JSON formatter) operates host-at-a-time.
//
// filter gates the host itself in addition to matcher: a host that
// fails filter is skipped entirely, exactly as if it failed matcher.
// The same filter is then handed to cb, which re-applies it recursively
// while walking the host's children (§4.4.3) — one matcher value used
// uniformly at every level of the tree, rather than two unrelated
// mechanisms.
func (s *Store) Scan(kind Kind, matcher, filter Matcher, cb ScanFunc) status.Status {
	hosts := s.Hosts()

	var results []status.Status
	for _, h := range hosts {
		selected := false
		switch kind {
		case KindHost:
			selected = Evaluate(matcher, h)
		case KindService:
			for _, svc := range h.Services() {
				if Evaluate(matcher, svc) {
					selected = true
					break
				}
			}
		case KindMetric:
			for _, m := range h.Metrics() {
				if Evaluate(matcher, m) {
					selected = true
					break
				}
			}
		}
		if !selected || !Evaluate(filter, h) {
			continue
		}
		results = append(results, cb(h, filter))
	}
	return status.Worst(results)
}
