package services

import "testing"

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"collapses spaces", "hello    world\t\ttabs", "hello world tabs"},
		{"drops blank lines", "first\n\n\nsecond", "first\nsecond"},
		{"trims lines", "  padded line  \n next ", "padded line\nnext"},
		{"control chars", "a\x00b\x07c", "a b c"},
		{"windows newlines", "one\r\ntwo", "one\ntwo"},
		{"empty", "", ""},
		{"only whitespace", "  \n \t \n  ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	in := "  Senior   Engineer\r\n\r\nGo,  Postgres\x0c\n"
	once := CleanText(in)
	if twice := CleanText(once); twice != once {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}
