package target

import "testing"

func TestNameIsLastURISegment(t *testing.T) {
	tgt := Target{URI: "https://quest.fortuna-events.fr"}
	if got := tgt.Name(); got != "quest.fortuna-events.fr" {
		t.Errorf("Name() = %q, want host", got)
	}
	tgt = Target{URI: "https://github.com/fortuna-events/weft"}
	if got := tgt.Name(); got != "weft" {
		t.Errorf("Name() = %q, want %q", got, "weft")
	}
}

func TestLinkURL(t *testing.T) {
	tgt := Target{URI: "https://app.fortuna-events.fr"}
	want := "https://app.fortuna-events.fr?z=abc123"
	if got := tgt.LinkURL("abc123"); got != want {
		t.Errorf("LinkURL = %q, want %q", got, want)
	}
}

func TestNewTableRejectsDuplicateSeparator(t *testing.T) {
	_, err := NewTable(
		Target{URI: "https://a.example", Separator: '=', Color: "#ffffff"},
		Target{URI: "https://b.example", Separator: '=', Color: "#000000"},
	)
	if err == nil {
		t.Fatal("duplicate separator should be rejected")
	}
}

func TestNewTableRejectsDuplicateURI(t *testing.T) {
	_, err := NewTable(
		Target{URI: "https://a.example", Separator: '=', Color: "#ffffff"},
		Target{URI: "https://a.example", Separator: '@', Color: "#000000"},
	)
	if err == nil {
		t.Fatal("duplicate URI should be rejected")
	}
}

func TestBySeparator(t *testing.T) {
	tbl := Default()
	tgt, ok := tbl.BySeparator('?')
	if !ok {
		t.Fatal("separator '?' should be in the default table")
	}
	if tgt.URI != "https://quizz.fortuna-events.fr" {
		t.Errorf("BySeparator('?') = %s, want quizz", tgt.URI)
	}
	if _, ok := tbl.BySeparator('#'); ok {
		t.Error("unknown separator should not match")
	}
}
