package safety

import (
	"strings"
	"testing"
)

func TestSanitize_RemovesDeniedChars(t *testing.T) {
	g := NewGate(0)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"angle brackets", "<script>hello</script>", "scripthello/script"},
		{"quotes and backtick", `say "hi" and 'bye' in a ` + "`code`" + ` block`, "say hi and bye in a code block"},
		{"ampersand", "salt & pepper", "salt  pepper"},
		{"clean input untouched", "what is the weather in Paris", "what is the weather in Paris"},
		{"surrounding whitespace trimmed", "  hello  ", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for _, c := range strippedChars {
				if strings.Contains(got, c) {
					t.Errorf("sanitized output still contains %q", c)
				}
			}
		})
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	g := NewGate(0)
	input := `weird <input> & "stuff"`
	if g.Sanitize(input) != g.Sanitize(input) {
		t.Error("Sanitize is not deterministic")
	}
}

func TestSanitize_TruncatesLongInput(t *testing.T) {
	g := NewGate(0)

	long := strings.Repeat("a", 2000)
	got := g.Sanitize(long)

	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated output missing marker, got suffix %q", got[len(got)-5:])
	}
	if n := len([]rune(got)); n != DefaultMaxInputLength+3 {
		t.Errorf("truncated length = %d, want %d", n, DefaultMaxInputLength+3)
	}

	short := strings.Repeat("a", 50)
	if g.Sanitize(short) != short {
		t.Error("short input should not be truncated")
	}
}

func TestCheck_SensitiveWords(t *testing.T) {
	g := NewGate(0)

	tests := []struct {
		input       string
		wantTrigger string
		wantOK      bool
	}{
		{"please delete my files", "delete", false},
		{"DESTROY the evidence", "destroy", false},
		{"what is my PaSsWoRd", "password", false},
		{"this is confidential information", "confidential", false},
		{"what's the weather in Paris", "", true},
		{"remind me to call mom tomorrow", "", true},
	}

	for _, tt := range tests {
		trigger, ok := g.Check(tt.input)
		if ok != tt.wantOK || trigger != tt.wantTrigger {
			t.Errorf("Check(%q) = (%q, %v), want (%q, %v)",
				tt.input, trigger, ok, tt.wantTrigger, tt.wantOK)
		}
	}
}
