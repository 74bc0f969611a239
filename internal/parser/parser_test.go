package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/fortuna-events/weft/internal/apperr"
	"github.com/fortuna-events/weft/internal/target"
)

func testTable(t *testing.T) target.Table {
	t.Helper()
	tbl, err := target.NewTable(
		target.Target{URI: "https://app.example", Separator: '=', Color: "#e6e6e6"},
		target.Target{URI: "https://quest.example", Separator: '$', Color: "#a1e6e6"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestParseSplitsFragments(t *testing.T) {
	data := `===== home
welcome text
second line
$$$$$ hunt
find the treasure`
	links, err := Parse([]byte(data), testTable(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	if links[0].Name != "home" || links[0].Text != "welcome text\nsecond line" {
		t.Errorf("links[0] = %q / %q", links[0].Name, links[0].Text)
	}
	if links[0].Target.URI != "https://app.example" {
		t.Errorf("links[0].Target = %s, want app", links[0].Target.URI)
	}
	if links[1].Name != "hunt" || links[1].Target.URI != "https://quest.example" {
		t.Errorf("links[1] = %q for %s", links[1].Name, links[1].Target.URI)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, data := range []string{"", "   \n\t\n"} {
		_, err := Parse([]byte(data), testTable(t))
		if !errors.Is(err, apperr.ErrEmptyData) {
			t.Errorf("Parse(%q) err = %v, want ErrEmptyData", data, err)
		}
	}
}

func TestParseDuplicateName(t *testing.T) {
	data := "===== twin\nfirst\n===== twin\nsecond"
	_, err := Parse([]byte(data), testTable(t))
	if !errors.Is(err, apperr.ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
}

func TestParseWrongRunLengthIsText(t *testing.T) {
	data := "===== home\n==== not a header\n====== nor this"
	links, err := Parse([]byte(data), testTable(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("len(links) = %d, want 1", len(links))
	}
	if links[0].Text != "==== not a header\n====== nor this" {
		t.Errorf("text = %q, want both lines kept", links[0].Text)
	}
}

func TestParseUnknownSeparatorIsText(t *testing.T) {
	data := "===== home\n##### comment line"
	links, err := Parse([]byte(data), testTable(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if links[0].Text != "##### comment line" {
		t.Errorf("text = %q, want unknown separator kept as text", links[0].Text)
	}
}

func TestParseIgnoresLeadingLines(t *testing.T) {
	data := "stray preamble\n===== home\nbody"
	links, err := Parse([]byte(data), testTable(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(links) != 1 || links[0].Text != "body" {
		t.Errorf("links = %v, preamble should be dropped", links)
	}
}

func TestParseIgnoresTrailingHeaderJunk(t *testing.T) {
	data := "=====\thome extra words ignored\nbody"
	links, err := Parse([]byte(data), testTable(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if links[0].Name != "home" {
		t.Errorf("name = %q, want %q", links[0].Name, "home")
	}
}

func TestParseNormalizesCRLF(t *testing.T) {
	data := "===== home\r\nline one\r\nline two"
	links, err := Parse([]byte(data), testTable(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if links[0].Text != "line one\nline two" {
		t.Errorf("text = %q, want CRLF normalized", links[0].Text)
	}
}

func TestAppendDebug(t *testing.T) {
	links, err := Parse([]byte("===== home\nbody\n$$$$$ hunt\nclue"), testTable(t))
	if err != nil {
		t.Fatal(err)
	}
	links = AppendDebug(links)
	if len(links) != 3 {
		t.Fatalf("len(links) = %d, want 3", len(links))
	}

	dbg := links[2]
	if dbg.Name != "DEBUG" || dbg.Target != DebugTarget {
		t.Errorf("debug fragment = %q for %s", dbg.Name, dbg.Target.URI)
	}
	if !strings.HasPrefix(dbg.Text, "Debug\n") {
		t.Errorf("debug text should open with Debug line: %q", dbg.Text)
	}
	for _, want := range []string{"home", "h&#x200B;o&#x200B;m&#x200B;e", "hunt", "h&#x200B;u&#x200B;n&#x200B;t"} {
		if !strings.Contains(dbg.Text, want) {
			t.Errorf("debug text missing %q:\n%s", want, dbg.Text)
		}
	}
}
