package textutil

import "testing"

func TestFold(t *testing.T) {
	cases := map[string]string{
		"Hà Nội":        "ha noi",
		"  Đà   Nẵng ":  "da nang",
		"Hồ Chí Minh":   "ho chi minh",
		"REMOTE":        "remote",
		"":              "",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Fatalf("Fold(%q)=%q want %q", in, got, want)
		}
	}
}

func TestCompact(t *testing.T) {
	if got := Compact("Hà Nội"); got != "hanoi" {
		t.Fatalf("unexpected compact: %q", got)
	}
}
