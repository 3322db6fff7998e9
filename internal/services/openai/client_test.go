package openai_test

import (
	"context"
	"errors"
	"testing"

	"filmintel/internal/services/openai"
)

func TestUnconfiguredClientFailsFast(t *testing.T) {
	client := openai.NewClient(openai.Config{Model: "gpt-4o"})
	if client.Configured() {
		t.Fatal("client without key must report unconfigured")
	}
	_, err := client.CompleteJSON(context.Background(), "system", "user")
	if !errors.Is(err, openai.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestCompleteRequiresPrompts(t *testing.T) {
	client := openai.NewClient(openai.Config{APIKey: "key", Model: "gpt-4o"})
	if _, err := client.Complete(context.Background(), "", "user"); err == nil {
		t.Fatal("empty system prompt must be rejected")
	}
	if _, err := client.Complete(context.Background(), "system", "   "); err == nil {
		t.Fatal("empty user prompt must be rejected")
	}
}

func TestDecodeModelJSON(t *testing.T) {
	type payload struct {
		Verdict string `json:"verdict"`
		Score   int    `json:"score"`
	}

	tests := []struct {
		name    string
		content string
		want    payload
		wantErr bool
	}{
		{
			name:    "plain object",
			content: `{"verdict":"green","score":7}`,
			want:    payload{Verdict: "green", Score: 7},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"verdict\":\"green\",\"score\":7}\n```",
			want:    payload{Verdict: "green", Score: 7},
		},
		{
			name:    "fence without language tag",
			content: "```\n{\"verdict\":\"amber\",\"score\":5}\n```",
			want:    payload{Verdict: "amber", Score: 5},
		},
		{
			name:    "leading prose",
			content: "Here is the assessment:\n{\"verdict\":\"red\",\"score\":2}\nHope this helps!",
			want:    payload{Verdict: "red", Score: 2},
		},
		{
			name:    "empty payload",
			content: "   ",
			wantErr: true,
		},
		{
			name:    "no json at all",
			content: "I cannot answer that.",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got payload
			err := openai.DecodeModelJSON(tc.content, &got)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecodeModelJSONArray(t *testing.T) {
	var got []string
	content := "```json\n[\"space\", \"heist\"]\n```"
	if err := openai.DecodeModelJSON(content, &got); err != nil {
		t.Fatalf("decode array: %v", err)
	}
	if len(got) != 2 || got[0] != "space" || got[1] != "heist" {
		t.Fatalf("unexpected array: %+v", got)
	}
}
