package pagecache

// Reason names the event that triggered an invalidation. Hard reasons
// mean the page identity itself is gone; soft reasons mean the page only
// moved or mutated in place.
type Reason string

const (
	ReasonNavigation     Reason = "navigation"
	ReasonNewTab         Reason = "new_tab"
	ReasonBlockedRequest Reason = "blocked_request"
	ReasonDeadSession    Reason = "dead_session"
	ReasonTimeout        Reason = "timeout"

	ReasonScroll         Reason = "scroll"
	ReasonMinorDOMChange Reason = "minor_dom_change"
	ReasonWaitCondition  Reason = "wait_condition"
	ReasonFormFill       Reason = "form_fill"
)

// Hard reports whether the reason clears LRU history in addition to the
// active slot. Unknown reasons are treated as hard: over-invalidation
// costs a rebuild, under-invalidation serves a stale page.
func (r Reason) Hard() bool {
	switch r {
	case ReasonScroll, ReasonMinorDOMChange, ReasonWaitCondition, ReasonFormFill:
		return false
	}
	return true
}
