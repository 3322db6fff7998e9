package textutil_test

import (
	"strings"
	"testing"

	"filmintel/internal/textutil"
)

const sampleScript = `INT. LAB - NIGHT

Elena studies the console.

ELENA
We're out of time.

MARCUS (V.O.)
Then make time.

EXT. LAUNCH PAD - DAY

The rocket waits.

ELENA
Light it up.
`

func TestChunk(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxLength int
		want      int
	}{
		{"under limit", "short", 100, 1},
		{"exact limit", strings.Repeat("a", 10), 10, 1},
		{"two chunks", strings.Repeat("a", 15), 10, 2},
		{"many chunks", strings.Repeat("a", 95), 10, 10},
		{"zero limit returns whole text", "anything", 0, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chunks := textutil.Chunk(tc.text, tc.maxLength)
			if len(chunks) != tc.want {
				t.Fatalf("got %d chunks, want %d", len(chunks), tc.want)
			}
			if strings.Join(chunks, "") != tc.text {
				t.Fatal("chunks must reassemble to the original text")
			}
		})
	}
}

func TestExtractCharacterNames(t *testing.T) {
	names := textutil.ExtractCharacterNames(sampleScript)
	want := []string{"ELENA", "MARCUS"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestExtractCharacterNamesStripsParentheticals(t *testing.T) {
	names := textutil.ExtractCharacterNames("MARCUS (V.O.)\nHello.\n")
	if len(names) != 1 || names[0] != "MARCUS" {
		t.Fatalf("parenthetical must be stripped: %v", names)
	}
}

func TestSeparateDialogueAction(t *testing.T) {
	dialogue, action := textutil.SeparateDialogueAction(sampleScript)

	for _, want := range []string{"ELENA", "We're out of time.", "Then make time.", "Light it up."} {
		if !strings.Contains(dialogue, want) {
			t.Fatalf("dialogue missing %q:\n%s", want, dialogue)
		}
	}
	for _, want := range []string{"INT. LAB - NIGHT", "Elena studies the console.", "The rocket waits."} {
		if !strings.Contains(action, want) {
			t.Fatalf("action missing %q:\n%s", want, action)
		}
	}
	if strings.Contains(dialogue, "INT. LAB") {
		t.Fatal("scene headings must not leak into dialogue")
	}
}
