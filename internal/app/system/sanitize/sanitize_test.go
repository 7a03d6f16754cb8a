package sanitize_test

import (
	"testing"

	"github.com/convenehq/convene/internal/app/system/sanitize"
)

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"  spaced  ", "spaced"},
		{"<script>alert(1)</script>see you there", "see you there"},
		{"<b>bold</b> claim", "bold claim"},
		{"", ""},
	}
	for _, c := range cases {
		if got := sanitize.Text(c.in); got != c.want {
			t.Errorf("Text(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}
