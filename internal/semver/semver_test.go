package semver

import (
	"errors"
	"testing"
)

func TestContains(t *testing.T) {
	r := MustParseRange("^1.2.0")

	if !r.Contains(MustParseVersion("1.2.0")) {
		t.Fatalf("expected 1.2.0 to satisfy ^1.2.0")
	}
	if !r.Contains(MustParseVersion("1.9.9")) {
		t.Fatalf("expected 1.9.9 to satisfy ^1.2.0")
	}
	if r.Contains(MustParseVersion("2.0.0")) {
		t.Fatalf("expected 2.0.0 to NOT satisfy ^1.2.0")
	}
}

func TestMaxSatisfying(t *testing.T) {
	r := MustParseRange(">=1.0.0 <2.0.0")
	candidates := []Version{
		MustParseVersion("0.9.0"),
		MustParseVersion("1.0.0"),
		MustParseVersion("1.5.0"),
		MustParseVersion("2.0.0"),
	}

	best, ok := MaxSatisfying(r, candidates)
	if !ok {
		t.Fatalf("expected to find a satisfying version")
	}
	if Compare(best, MustParseVersion("1.5.0")) != 0 {
		t.Fatalf("expected best=1.5.0, got %s", best)
	}
}

func TestMaxSatisfying_NoMatch(t *testing.T) {
	_, ok := MaxSatisfying(MustParseRange(">=3.0.0"), []Version{MustParseVersion("1.0.0")})
	if ok {
		t.Fatalf("expected no satisfying version")
	}
}

func TestMaxSatisfyingIndex_FirstEqualWins(t *testing.T) {
	candidates := []Version{
		MustParseVersion("1.0.0"),
		MustParseVersion("1.0.0+build.2"),
	}
	idx := MaxSatisfyingIndex(Any(), len(candidates), func(i int) Version { return candidates[i] })
	if idx != 0 {
		t.Fatalf("expected first of equal versions to win, got index %d", idx)
	}
}

func TestCompare_PrereleaseAndBuildMetadata(t *testing.T) {
	if Compare(MustParseVersion("1.0.0-alpha"), MustParseVersion("1.0.0")) >= 0 {
		t.Fatalf("expected pre-release to sort before release")
	}
	if Compare(MustParseVersion("1.0.0-alpha.1"), MustParseVersion("1.0.0-alpha.beta")) >= 0 {
		t.Fatalf("expected numeric identifier to sort before alphanumeric")
	}
	if Compare(MustParseVersion("1.0.0+a"), MustParseVersion("1.0.0+b")) != 0 {
		t.Fatalf("expected build metadata to be ignored")
	}
	if Compare(Version{}, MustParseVersion("0.0.0")) >= 0 {
		t.Fatalf("expected zero Version to sort first")
	}
}

func TestParseRange_Forms(t *testing.T) {
	tests := []struct {
		raw  string
		in   []string
		out  []string
		want string
	}{
		{raw: "", in: []string{"0.0.1", "99.0.0"}, want: "*"},
		{raw: "*", in: []string{"1.0.0"}, want: "*"},
		{raw: "1.2.3", in: []string{"1.2.3"}, out: []string{"1.2.4"}, want: "1.2.3"},
		{raw: "1.x", in: []string{"1.0.0", "1.9.0"}, out: []string{"2.0.0", "0.9.9"}, want: ">=1.0.0 <2.0.0"},
		{raw: "1.2", in: []string{"1.2.0", "1.2.9"}, out: []string{"1.3.0"}, want: ">=1.2.0 <1.3.0"},
		{raw: ">= 1.0.0 < 2.0.0", in: []string{"1.0.0", "1.99.0"}, out: []string{"2.0.0", "2.0.0-rc.1"}, want: ">=1.0.0 <2.0.0"},
		{raw: ">1.2.3", in: []string{"1.2.4"}, out: []string{"1.2.3"}, want: ">1.2.3"},
		{raw: ">1.2", in: []string{"1.3.0"}, out: []string{"1.2.9"}, want: ">=1.3.0"},
		{raw: "<=1.2", in: []string{"1.2.9"}, out: []string{"1.3.0"}, want: "<1.3.0"},
		{raw: "<=1.2.3", in: []string{"1.2.3"}, out: []string{"1.2.4"}, want: "<=1.2.3"},
		{raw: "~1.4", in: []string{"1.4.0", "1.4.7"}, out: []string{"1.5.0"}, want: ">=1.4.0 <1.5.0"},
		{raw: "~1", in: []string{"1.9.0"}, out: []string{"2.0.0"}, want: ">=1.0.0 <2.0.0"},
		{raw: "^0.2.3", in: []string{"0.2.9"}, out: []string{"0.3.0"}, want: ">=0.2.3 <0.3.0"},
		{raw: "^0.0.3", in: []string{"0.0.3"}, out: []string{"0.0.4"}, want: ">=0.0.3 <0.0.4"},
		{raw: "1.0.0 - 1.4", in: []string{"1.4.9"}, out: []string{"1.5.0"}, want: ">=1.0.0 <1.5.0"},
		{raw: "1.0.0 - 1.4.2", in: []string{"1.4.2"}, out: []string{"1.4.3"}, want: ">=1.0.0 <=1.4.2"},
	}

	for _, tt := range tests {
		r, err := ParseRange(tt.raw)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", tt.raw, err)
		}
		for _, v := range tt.in {
			if !r.Contains(MustParseVersion(v)) {
				t.Errorf("%q: expected to contain %s", tt.raw, v)
			}
		}
		for _, v := range tt.out {
			if r.Contains(MustParseVersion(v)) {
				t.Errorf("%q: expected NOT to contain %s", tt.raw, v)
			}
		}
		if got := r.Canonical(); got != tt.want {
			t.Errorf("%q: canonical=%q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseRange_Errors(t *testing.T) {
	for _, raw := range []string{"1.x.2", "1.2.3.4", "banana", ">*", "1.2-rc.1"} {
		if _, err := ParseRange(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
	if _, err := ParseRange("1.x || 2.x"); !errors.Is(err, ErrUnsupportedUnion) {
		t.Fatalf("expected ErrUnsupportedUnion, got %v", err)
	}
}

func TestRange_EmptyWhenLowerAboveUpper(t *testing.T) {
	r := MustParseRange(">=2.0.0 <1.0.0")
	if !r.IsEmpty() {
		t.Fatalf("expected empty range")
	}
	for _, v := range []string{"0.5.0", "1.0.0", "1.5.0", "2.0.0", "3.0.0"} {
		if r.Contains(MustParseVersion(v)) {
			t.Fatalf("empty range must not contain %s", v)
		}
	}
	if MustParseRange(">1.0.0 <1.0.0").IsEmpty() != true {
		t.Fatalf("expected exclusive point range to be empty")
	}
	if Exact(MustParseVersion("1.0.0")).IsEmpty() {
		t.Fatalf("expected exact range to be non-empty")
	}
}

func TestRange_EmptyWhenOnlyExcludedPrereleasesRemain(t *testing.T) {
	for _, raw := range []string{">=2.0.0-rc.1 <2.0.0", ">2.0.0-alpha <2.0.0"} {
		r := MustParseRange(raw)
		if !r.IsEmpty() {
			t.Fatalf("expected %q to be empty", raw)
		}
		for _, v := range []string{"2.0.0-rc.1", "2.0.0-rc.2", "2.0.0-beta"} {
			if r.Contains(MustParseVersion(v)) {
				t.Fatalf("empty range %q must not contain %s", raw, v)
			}
		}
	}
	for _, raw := range []string{">=1.9.0-rc.1 <2.0.0", ">=2.0.0-rc.1 <=2.0.0", ">=2.0.0-rc.1 <2.0.0-rc.5"} {
		if MustParseRange(raw).IsEmpty() {
			t.Fatalf("expected %q to be non-empty", raw)
		}
	}
}

func TestRange_ZeroValueMatchesAny(t *testing.T) {
	var r Range
	if !r.IsAny() || !r.Contains(MustParseVersion("0.0.1-alpha")) {
		t.Fatalf("expected zero Range to match any version")
	}
	if r.Contains(Version{}) {
		t.Fatalf("expected zero Version to never match")
	}
}

func TestRange_Intersect(t *testing.T) {
	r := MustParseRange(">=1.0.0").Intersect(MustParseRange("<=1.5.0")).Intersect(MustParseRange(">1.2.0"))
	if got := r.Canonical(); got != ">1.2.0 <=1.5.0" {
		t.Fatalf("unexpected intersection %q", got)
	}
	same := Exact(MustParseVersion("1.0.0")).Intersect(MustParseRange("<1.0.0"))
	if !same.IsEmpty() {
		t.Fatalf("expected inclusive/exclusive intersection at one point to be empty")
	}
}

func TestRange_StringKeepsRawText(t *testing.T) {
	r := MustParseRange(">= 4.0.0 < 5.0.0")
	if r.String() != ">= 4.0.0 < 5.0.0" {
		t.Fatalf("expected raw text, got %q", r.String())
	}
	if Between(Bound{Version: MustParseVersion("1.0.0"), Inclusive: true}, Bound{}).String() != ">=1.0.0" {
		t.Fatalf("expected canonical rendering for constructed range")
	}
}
