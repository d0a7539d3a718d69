package format

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in      string
		version int
		want    string
	}{
		{"snake_case *bold*", MarkdownV1, `snake\_case \*bold\*`},
		{"[link](x)", MarkdownV1, `\[link](x)`},
		{"1.5 + (2)!", MarkdownV2, `1\.5 \+ \(2\)\!`},
		{"plain", MarkdownV2, "plain"},
	}
	for _, tc := range cases {
		got, err := EscapeMarkdown(tc.in, tc.version)
		if err != nil {
			t.Fatalf("EscapeMarkdown(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("EscapeMarkdown(%q, %d) = %q, want %q", tc.in, tc.version, got, tc.want)
		}
	}
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("expected error for unknown version")
	}
}

func TestDeref(t *testing.T) {
	token := "abc"
	if got := Deref(&token, "-"); got != "abc" {
		t.Fatalf("Deref = %q", got)
	}
	if got := Deref[string](nil, "-"); got != "-" {
		t.Fatalf("Deref(nil) = %q", got)
	}
}
