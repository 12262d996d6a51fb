package format

import "testing"

func TestEscapeMarkdownV1(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"a*b", `a\*b`},
		{"a_b_c", `a\_b\_c`},
		{"code `here`", "code \\`here\\`"},
		{"[link]", `\[link]`},
		{`back\slash`, `back\\slash`},
	}
	for _, tc := range cases {
		got, err := EscapeMarkdown(tc.in, MarkdownV1)
		if err != nil {
			t.Fatalf("escape %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("escape %q = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("dot. dash-bang!", MarkdownV2)
	if err != nil {
		t.Fatal(err)
	}
	want := `dot\. dash\-bang\!`
	if got != want {
		t.Fatalf("got %q, expected %q", got, want)
	}
}

func TestEscapeMarkdownUnsupportedVersion(t *testing.T) {
	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("expected error for unknown version")
	}
}

func TestEscapeMDNeverFails(t *testing.T) {
	if got := EscapeMD("a*b"); got != `a\*b` {
		t.Fatalf("got %q", got)
	}
}
