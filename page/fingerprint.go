package page

// DomFingerprint is a lightweight structural digest of the live page,
// captured by the browser side in a single JS evaluation and handed to
// domap as an already-resolved input. Equality is structural; the type is
// a value and safe to copy.
type DomFingerprint struct {
	// RoleCounts maps interactive-element role (button, link, textbox, ...)
	// to how many elements carry it.
	RoleCounts map[string]int `json:"role_counts"`
	// InteractiveCount is the total number of interactive elements.
	InteractiveCount int `json:"interactive_count"`
	// DialogPresent reports an open dialog/modal.
	DialogPresent bool `json:"dialog_present"`
	// BodyChildCount is the number of direct children of <body>.
	BodyChildCount int `json:"body_child_count"`
	// Title is the document title at capture time.
	Title string `json:"title"`
}

// IsZero reports whether the fingerprint was never captured.
func (f DomFingerprint) IsZero() bool {
	return f.RoleCounts == nil && f.InteractiveCount == 0 &&
		!f.DialogPresent && f.BodyChildCount == 0 && f.Title == ""
}

// Equal reports exact structural equality, including incidental fields.
// An exact match means the cached artifact can be returned unchanged.
func (f DomFingerprint) Equal(other DomFingerprint) bool {
	if !f.StructurallyEqual(other) {
		return false
	}
	return f.Title == other.Title && f.BodyChildCount == other.BodyChildCount
}

// StructurallyEqual reports whether two fingerprints describe the same
// interactive-element shape. Incidental fields (title, small body-child
// drift from banners or toasts) are allowed to differ: a structural match
// with unequal incidentals means the page refreshed its content but kept
// its skeleton, so cached interactable refs remain valid.
func (f DomFingerprint) StructurallyEqual(other DomFingerprint) bool {
	if f.InteractiveCount != other.InteractiveCount {
		return false
	}
	if f.DialogPresent != other.DialogPresent {
		return false
	}
	diff := f.BodyChildCount - other.BodyChildCount
	if diff < -2 || diff > 2 {
		return false
	}
	if len(f.RoleCounts) != len(other.RoleCounts) {
		return false
	}
	for role, n := range f.RoleCounts {
		if other.RoleCounts[role] != n {
			return false
		}
	}
	return true
}
