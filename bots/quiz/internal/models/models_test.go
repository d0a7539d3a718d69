package models

import "testing"

func TestIsBlankOption(t *testing.T) {
	cases := map[string]bool{
		"":      true,
		"   ":   true,
		"NaN":   true,
		"nan":   true,
		" NAN ": true,
		"Paris": false,
		"0":     false,
	}
	for in, want := range cases {
		if got := IsBlankOption(in); got != want {
			t.Errorf("IsBlankOption(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestQuestionOptionsOrder(t *testing.T) {
	q := Question{A: "a", B: "b", C: "c", D: "d"}
	opts := q.Options()
	if len(opts) != 4 {
		t.Fatalf("len = %d", len(opts))
	}
	for i, label := range []string{"A", "B", "C", "D"} {
		if opts[i].Label != label {
			t.Fatalf("option %d label = %q", i, opts[i].Label)
		}
	}
}
