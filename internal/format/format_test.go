package format_test

import (
	"strings"
	"testing"
	"time"

	"whodunit/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("ID", "Name", "Score")
	tb.Row("S1", "Location soundness", 0.95)
	tb.Row("S2", "Liar recall", 0.88)
	out := tb.String()

	// ASCII mode uses StyleLight which has box-drawing chars
	if !strings.Contains(out, "ID") {
		t.Errorf("expected header 'ID' in output:\n%s", out)
	}
	if !strings.Contains(out, "Location soundness") {
		t.Errorf("expected 'Location soundness' in output:\n%s", out)
	}
	if !strings.Contains(out, "0.95") {
		t.Errorf("expected '0.95' in output:\n%s", out)
	}
	// Should NOT contain markdown pipe-only syntax (no leading/trailing |)
	// ASCII uses box-drawing characters from StyleLight
	if strings.Contains(out, "───") == false {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestASCII_HeaderCaseKept(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Time", "Hall", "Ann Carrow")
	tb.Row("12:00", ".", "?")
	tb.Footer("Total", "", "1")
	out := tb.String()

	for _, want := range []string{"Time", "Hall", "Ann Carrow", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	for _, upper := range []string{"TIME", "HALL", "ANN CARROW", "TOTAL"} {
		if strings.Contains(out, upper) {
			t.Errorf("header %q was upper-cased:\n%s", upper, out)
		}
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Time", "Hall", "Study")
	tb.Row("12:00", "a.", ".B")
	tb.Row("13:00", "?b", "A.")
	out := tb.String()

	// Markdown tables have | delimiters and --- separator
	if !strings.Contains(out, "| Time") {
		t.Errorf("expected markdown header with '| Time':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
	if !strings.Contains(out, ".B") {
		t.Errorf("expected '.B' in output:\n%s", out)
	}
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Round", "Changes")
	tb.Row(1, 100)
	tb.Row(2, 200)
	tb.Footer("TOTAL", 300)
	out := tb.String()

	if !strings.Contains(out, "TOTAL") {
		t.Errorf("expected footer 'TOTAL' in output:\n%s", out)
	}
	if !strings.Contains(out, "300") {
		t.Errorf("expected footer value '300' in output:\n%s", out)
	}
}

func TestColumns_RightAlign(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Name", "Value")
	tb.Row("statements", 12345)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	out := tb.String()

	if !strings.Contains(out, "12345") {
		t.Errorf("expected '12345' in output:\n%s", out)
	}
}

func TestSameData_DualFormat(t *testing.T) {
	build := func(m format.Mode) string {
		tb := format.NewTable(m)
		tb.Header("A", "B")
		tb.Row("x", "y")
		return tb.String()
	}

	ascii := build(format.ASCII)
	md := build(format.Markdown)

	if ascii == md {
		t.Error("ASCII and Markdown output should differ")
	}
	// Both should contain the data
	for _, out := range []string{ascii, md} {
		if !strings.Contains(out, "x") || !strings.Contains(out, "y") {
			t.Errorf("expected data in output:\n%s", out)
		}
	}
}

// --- Helper tests ---

func TestPercent(t *testing.T) {
	tests := map[float64]string{0: "0%", 0.5: "50%", 0.996: "100%", 1: "100%"}
	for in, want := range tests {
		if got := format.Percent(in); got != want {
			t.Errorf("Percent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]format.Mode{"": format.ASCII, "ASCII": format.ASCII, "md": format.Markdown, "markdown": format.Markdown} {
		got, err := format.ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := format.ParseMode("html"); err == nil {
		t.Error("ParseMode(html) should fail")
	}
}

func TestNames(t *testing.T) {
	if got := format.Names(nil); got != "-" {
		t.Errorf("Names(nil) = %q", got)
	}
	if got := format.Names([]string{"Ann", "Ben"}); got != "Ann, Ben" {
		t.Errorf("Names = %q", got)
	}
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{250 * time.Millisecond, "250ms"},
		{30 * time.Second, "30s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 0s"},
		{90 * time.Second, "1m 30s"},
		{5*time.Minute + 15*time.Second, "5m 15s"},
	}
	for _, tc := range tests {
		got := format.FmtDuration(tc.in)
		if got != tc.want {
			t.Errorf("FmtDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"ab", 3, "ab"},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range tests {
		got := format.Truncate(tc.in, tc.maxLen)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

func TestBoolMark(t *testing.T) {
	if format.BoolMark(true) != "✓" {
		t.Error("BoolMark(true) should be ✓")
	}
	if format.BoolMark(false) != "✗" {
		t.Error("BoolMark(false) should be ✗")
	}
}
