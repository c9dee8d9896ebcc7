package translate

import (
	"strings"
	"testing"
)

func TestSplitIntoChunks(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		maxSize    int
		wantChunks int
	}{
		{
			name:       "empty text",
			text:       "",
			maxSize:    100,
			wantChunks: 0,
		},
		{
			name:       "short text stays whole",
			text:       "hello world",
			maxSize:    100,
			wantChunks: 1,
		},
		{
			name:       "paragraphs packed together when they fit",
			text:       "one\n\ntwo\n\nthree",
			maxSize:    100,
			wantChunks: 1,
		},
		{
			name:       "splits at paragraph boundary",
			text:       strings.Repeat("a", 60) + "\n\n" + strings.Repeat("b", 60),
			maxSize:    100,
			wantChunks: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitIntoChunks(tc.text, tc.maxSize)

			if len(got) != tc.wantChunks {
				t.Fatalf("got %d chunks, want %d: %q", len(got), tc.wantChunks, got)
			}
		})
	}
}

func TestSplitIntoChunks_PreservesContent(t *testing.T) {
	text := strings.Repeat("alpha ", 20) + "\n\n" + strings.Repeat("beta ", 20) + "\n\n" + strings.Repeat("gamma ", 20)

	chunks := SplitIntoChunks(text, 150)

	rejoined := strings.Join(chunks, "\n\n")

	if rejoined != text {
		t.Errorf("content changed across split:\n got %q\nwant %q", rejoined, text)
	}
}
