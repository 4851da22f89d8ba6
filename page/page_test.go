package page

import "testing"

func TestParsePageType(t *testing.T) {
	cases := []struct {
		in   string
		want PageType
	}{
		{"product_detail", TypeProductDetail},
		{"news", TypeArticle},
		{"listing", TypeListing},
		{"", TypeDefault},
		{"something-weird", TypeDefault},
	}
	for _, tc := range cases {
		if got := ParsePageType(tc.in); got != tc.want {
			t.Errorf("ParsePageType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFingerprintEquality(t *testing.T) {
	base := DomFingerprint{
		RoleCounts:       map[string]int{"button": 2, "link": 7},
		InteractiveCount: 9,
		BodyChildCount:   4,
		Title:            "Checkout",
	}

	same := base
	same.RoleCounts = map[string]int{"button": 2, "link": 7}
	if !base.Equal(same) {
		t.Error("identical fingerprints must be equal")
	}

	retitled := same
	retitled.Title = "Checkout (1 item)"
	if base.Equal(retitled) {
		t.Error("title change breaks exact equality")
	}
	if !base.StructurallyEqual(retitled) {
		t.Error("title change keeps structural equality")
	}

	drifted := same
	drifted.BodyChildCount = 6
	if !base.StructurallyEqual(drifted) {
		t.Error("body child drift of 2 is incidental")
	}
	drifted.BodyChildCount = 7
	if base.StructurallyEqual(drifted) {
		t.Error("body child drift of 3 is structural")
	}

	reshaped := same
	reshaped.RoleCounts = map[string]int{"button": 3, "link": 6}
	if base.StructurallyEqual(reshaped) {
		t.Error("role histogram change is structural")
	}
}

func TestFingerprintIsZero(t *testing.T) {
	if !(DomFingerprint{}).IsZero() {
		t.Error("zero value must report IsZero")
	}
	if (DomFingerprint{Title: "x"}).IsZero() {
		t.Error("captured fingerprint must not report IsZero")
	}
}
