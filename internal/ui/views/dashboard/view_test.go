package dashboard

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateIsRuneSafe(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a very long task title", 10, "a very lo…"},
		{"naïve überarbeitung", 10, "naïve übe…"},
		{"écrire la thèse", 8, "écrire …"},
	}
	for _, c := range cases {
		got := truncate(c.in, c.n)
		if got != c.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) produced invalid utf-8: %q", c.in, c.n, got)
		}
	}
}
