// Package analysis turns synopses and screenplays into structured
// creative and commercial assessments, grounding the synopsis report in
// retrieved market context when providers are configured.
package analysis

// ArcPoint is one sampled point of the emotional trajectory in a synopsis
// report. Intensity ranges -10..10.
type ArcPoint struct {
	Point     string `json:"point"`
	Intensity int    `json:"intensity"`
}

// KeyInsights summarizes the report's qualitative findings.
type KeyInsights struct {
	Summary        string   `json:"summary"`
	Genres         []string `json:"genres"`
	Themes         []string `json:"themes"`
	TargetAudience []string `json:"target_audience"`
}

// CharacterAttributes qualifies a report character for casting and appeal.
type CharacterAttributes struct {
	Archetype           string   `json:"archetype"`
	AudienceAppealScore int      `json:"audience_appeal_score"`
	ComparableActors    []string `json:"comparable_actors"`
}

// ReportCharacter is one character entry in a story impact report.
type ReportCharacter struct {
	Role             string              `json:"role"`
	DescriptionShort string              `json:"description_short"`
	Attributes       CharacterAttributes `json:"attributes"`
}

// PitchReadyCopy holds marketing-facing phrasing for the report.
type PitchReadyCopy struct {
	KeyPitchPoints []string `json:"key_pitch_points"`
	OneLiner       string   `json:"one_liner"`
}

// StoryImpactReport is the full synopsis assessment.
type StoryImpactReport struct {
	Title            string            `json:"title"`
	Logline          string            `json:"logline"`
	TopLevelScore    map[string]int    `json:"top_level_score"`
	EmotionalArcData []ArcPoint        `json:"emotional_arc_data"`
	KeyInsights      KeyInsights       `json:"key_insights"`
	Characters       []ReportCharacter `json:"characters"`
	PitchReadyCopy   PitchReadyCopy    `json:"pitch_ready_copy"`
}

// EmotionalArcPoint is one measured point of a screenplay's emotional
// trajectory. Valence and arousal range -10..10.
type EmotionalArcPoint struct {
	Point   string `json:"point"`
	Valence int    `json:"valence"`
	Arousal int    `json:"arousal"`
}

// Character is one analyzed screenplay character.
type Character struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Archetype   string `json:"archetype"`
	Description string `json:"description"`
}

// ScriptAnalysis is the full screenplay assessment.
type ScriptAnalysis struct {
	EmotionalArc []EmotionalArcPoint `json:"emotional_arc"`
	Characters   []Character         `json:"characters"`
	StoryScore   int                 `json:"story_score"`
	Tags         []string            `json:"tags"`
	Audience     []string            `json:"audience"`
}
