// Package textutil provides text processing utilities for screenplay
// handling: fixed-size chunking for model input windows, dialogue cue
// parsing, and dialogue/action separation.
package textutil

import (
	"regexp"
	"strings"
)

// dialogueCuePattern matches a screenplay character cue: an all-caps line,
// optionally with a parenthetical extension ("ELENA (V.O.)").
var dialogueCuePattern = regexp.MustCompile(`^\s*([A-Z][A-Z\s]*(?:\s*\(.*?\))?)\s*$`)

// sceneHeadingPattern matches transitions and slug lines that terminate a
// dialogue block.
var sceneHeadingPattern = regexp.MustCompile(`^\s*(INT\.|EXT\.|FADE IN:|FADE OUT\.|CUT TO:)`)

// Chunk splits text into pieces of at most maxLength bytes. Text at or
// under the limit comes back as a single chunk.
func Chunk(text string, maxLength int) []string {
	if maxLength <= 0 || len(text) <= maxLength {
		return []string{text}
	}
	chunks := make([]string, 0, len(text)/maxLength+1)
	for start := 0; start < len(text); start += maxLength {
		end := start + maxLength
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

// ExtractCharacterNames returns the distinct character names found in
// dialogue cues, in order of first appearance. Parenthetical extensions
// are stripped.
func ExtractCharacterNames(script string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, line := range strings.Split(script, "\n") {
		match := dialogueCuePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name := match[1]
		if idx := strings.Index(name, "("); idx >= 0 {
			name = name[:idx]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// SeparateDialogueAction splits a screenplay into its dialogue lines (cues
// plus the speech that follows them) and everything else. A blank line or
// a scene heading ends a dialogue block.
func SeparateDialogueAction(script string) (dialogue, action string) {
	var dialogueLines, actionLines []string
	inDialogue := false
	for _, line := range strings.Split(script, "\n") {
		switch {
		case dialogueCuePattern.MatchString(line):
			inDialogue = true
			dialogueLines = append(dialogueLines, line)
		case inDialogue && strings.TrimSpace(line) != "" && !sceneHeadingPattern.MatchString(line):
			dialogueLines = append(dialogueLines, line)
		default:
			inDialogue = false
			actionLines = append(actionLines, line)
		}
	}
	return strings.Join(dialogueLines, "\n"), strings.Join(actionLines, "\n")
}
