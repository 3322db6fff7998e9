package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"filmintel/internal/market"
	"filmintel/internal/services"
	"filmintel/internal/services/hf"
	"filmintel/internal/services/openai"
	"filmintel/internal/textutil"
)

const (
	// Screenplay length bounds: 500000 characters is roughly 250 pages.
	minScriptLen = 100
	maxScriptLen = 500000
	// shortScriptLen is the cutoff under which a script is analyzed in a
	// single model call.
	shortScriptLen = 6000
	// structureChunkSize splits long scripts for per-chunk structure calls.
	structureChunkSize = 20000
	// emotionSampleLen caps text sent to the emotion classifier.
	emotionSampleLen = 5000
	// tagsExcerptLen caps the excerpt sent for tags/audience suggestions.
	tagsExcerptLen = 10000
	// maxCharacters bounds the analyzed character list.
	maxCharacters = 5
)

// beatWeights emphasize the structurally loaded beats when scoring.
var beatWeights = map[string]float64{
	"Climax":             2.0,
	"All is Lost Moment": 1.5,
	"Midpoint":           1.2,
}

// ChatClient is the completion surface the analyzer needs.
type ChatClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteJSONWithModel(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// EmotionClient classifies text against an emotion label set.
type EmotionClient interface {
	ClassifyEmotions(ctx context.Context, text string) ([]hf.Emotion, error)
}

// ContextBuilder retrieves and formats comparable-movie market context.
type ContextBuilder interface {
	BuildContext(ctx context.Context, synopsis string) (string, []market.Record, error)
}

// Analyzer produces story impact reports and screenplay analyses.
type Analyzer struct {
	chat        ChatClient
	emotions    EmotionClient
	marketCtx   ContextBuilder
	reportModel string
	logger      *slog.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithReportModel overrides the model used for synopsis reports.
func WithReportModel(model string) Option {
	return func(a *Analyzer) {
		if strings.TrimSpace(model) != "" {
			a.reportModel = model
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds an Analyzer. emotions and marketCtx may be nil; the analyzer
// then omits measured emotional arcs and market grounding respectively.
func New(chat ChatClient, emotions EmotionClient, marketCtx ContextBuilder, opts ...Option) *Analyzer {
	a := &Analyzer{
		chat:      chat,
		emotions:  emotions,
		marketCtx: marketCtx,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeSynopsis produces a story impact report for a synopsis, grounded
// in retrieved market context when any provider returned comparables.
func (a *Analyzer) AnalyzeSynopsis(ctx context.Context, synopsis string) (*StoryImpactReport, error) {
	synopsis = strings.TrimSpace(synopsis)
	if synopsis == "" {
		return nil, services.Wrap(services.ErrValidation, "analysis", "synopsis", "synopsis cannot be empty", nil)
	}
	if a.chat == nil {
		return nil, services.Wrap(services.ErrConfiguration, "analysis", "synopsis", "chat model not configured", nil)
	}

	marketContext := a.buildMarketContext(ctx, synopsis)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if marketContext == "" {
		marketContext = genericMarketFallback
	}

	prompt := strings.NewReplacer(
		"%SYNOPSIS%", synopsis,
		"%MARKET_CONTEXT%", marketContext,
	).Replace(synopsisReportPrompt)

	content, err := a.chat.CompleteJSONWithModel(ctx, a.reportModel, jsonOnlySystemPrompt, prompt)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "analysis", "synopsis", "completion failed", err)
	}

	var parsed struct {
		StoryImpactReport *StoryImpactReport `json:"story_impact_report"`
	}
	if err := openai.DecodeModelJSON(content, &parsed); err != nil {
		return nil, services.Wrap(services.ErrExternal, "analysis", "synopsis", "parse report payload", err)
	}
	if parsed.StoryImpactReport == nil {
		return nil, services.Wrap(services.ErrExternal, "analysis", "synopsis", "report payload missing story_impact_report", nil)
	}
	return parsed.StoryImpactReport, nil
}

// buildMarketContext retrieves comparables fail-soft: any retrieval
// problem logs and yields an empty context.
func (a *Analyzer) buildMarketContext(ctx context.Context, synopsis string) string {
	if a.marketCtx == nil {
		return ""
	}
	text, records, err := a.marketCtx.BuildContext(ctx, synopsis)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Warn("market context retrieval failed", slog.Any("error", err))
		}
		return ""
	}
	a.logger.Debug("market context built", slog.Int("comparables", len(records)))
	return text
}

// AnalyzeScript analyzes a screenplay for narrative beats, characters,
// emotional arc, story score, and tags.
func (a *Analyzer) AnalyzeScript(ctx context.Context, script string) (*ScriptAnalysis, error) {
	if strings.TrimSpace(script) == "" {
		return nil, services.Wrap(services.ErrValidation, "analysis", "script", "screenplay cannot be empty", nil)
	}
	if len(script) < minScriptLen {
		return nil, services.Wrap(services.ErrValidation, "analysis", "script",
			fmt.Sprintf("screenplay too short (minimum %d characters)", minScriptLen), nil)
	}
	if len(script) > maxScriptLen {
		return nil, services.Wrap(services.ErrValidation, "analysis", "script", "screenplay exceeds maximum length", nil)
	}
	if a.chat == nil {
		return nil, services.Wrap(services.ErrConfiguration, "analysis", "script", "chat model not configured", nil)
	}

	isShort := len(script) <= shortScriptLen
	dialogue, _ := textutil.SeparateDialogueAction(script)

	structure, err := a.analyzeStructure(ctx, script, isShort)
	if err != nil {
		return nil, err
	}

	arc, err := a.emotionalArc(ctx, script, dialogue, structure.Beats, isShort)
	if err != nil {
		return nil, err
	}

	tags, audience, err := a.tagsAndAudience(ctx, script)
	if err != nil {
		return nil, err
	}

	return &ScriptAnalysis{
		EmotionalArc: arc,
		Characters:   structure.Characters,
		StoryScore:   storyScore(arc),
		Tags:         tags,
		Audience:     audience,
	}, nil
}

type structureResult struct {
	Beats      map[string]string `json:"beats"`
	Characters []Character       `json:"characters"`
}

// analyzeStructure identifies narrative beats and characters. Short
// scripts go through a single completion; long scripts are chunked and
// the per-chunk results merged (first seen wins for beats and names).
func (a *Analyzer) analyzeStructure(ctx context.Context, script string, isShort bool) (structureResult, error) {
	names := textutil.ExtractCharacterNames(script)
	if len(names) > maxCharacters {
		names = names[:maxCharacters]
	}
	characterList := strings.Join(names, ", ")

	if isShort {
		prompt := strings.NewReplacer(
			"%CHARACTERS%", characterList,
			"%SCRIPT%", script,
		).Replace(shortScriptStructurePrompt)
		content, err := a.chat.CompleteJSON(ctx, jsonOnlySystemPrompt, prompt)
		if err != nil {
			return structureResult{}, services.Wrap(services.ErrExternal, "analysis", "structure", "completion failed", err)
		}
		var result structureResult
		if err := openai.DecodeModelJSON(content, &result); err != nil {
			return structureResult{}, services.Wrap(services.ErrExternal, "analysis", "structure", "parse structure payload", err)
		}
		return result, nil
	}

	chunks := textutil.Chunk(script, structureChunkSize)
	merged := structureResult{Beats: make(map[string]string)}
	seenNames := make(map[string]struct{})
	for i, chunk := range chunks {
		prompt := strings.NewReplacer(
			"%CHUNK%", strconv.Itoa(i+1),
			"%TOTAL%", strconv.Itoa(len(chunks)),
			"%CHARACTERS%", characterList,
			"%SCRIPT%", chunk,
		).Replace(longScriptStructurePrompt)
		content, err := a.chat.CompleteJSON(ctx, jsonOnlySystemPrompt, prompt)
		if err != nil {
			return structureResult{}, services.Wrap(services.ErrExternal, "analysis", "structure", "completion failed", err)
		}
		var result structureResult
		if err := openai.DecodeModelJSON(content, &result); err != nil {
			return structureResult{}, services.Wrap(services.ErrExternal, "analysis", "structure", "parse structure payload", err)
		}
		for beat, text := range result.Beats {
			if _, exists := merged.Beats[beat]; !exists {
				merged.Beats[beat] = text
			}
		}
		for _, character := range result.Characters {
			if _, dup := seenNames[character.Name]; dup {
				continue
			}
			seenNames[character.Name] = struct{}{}
			merged.Characters = append(merged.Characters, character)
		}
	}
	if len(merged.Characters) > maxCharacters {
		merged.Characters = merged.Characters[:maxCharacters]
	}
	return merged, nil
}

// emotionalArc measures valence and arousal. Short scripts get a single
// overall point from their dialogue; long scripts get one point per
// identified beat. Without an emotion client the arc is omitted.
func (a *Analyzer) emotionalArc(ctx context.Context, script, dialogue string, beats map[string]string, isShort bool) ([]EmotionalArcPoint, error) {
	if a.emotions == nil {
		return nil, nil
	}

	sample := func(text string) string {
		if len(text) > emotionSampleLen {
			return text[:emotionSampleLen]
		}
		return text
	}

	if isShort {
		text := dialogue
		if strings.TrimSpace(text) == "" {
			text = script
		}
		scores, err := a.emotions.ClassifyEmotions(ctx, sample(text))
		if err != nil {
			return nil, services.Wrap(services.ErrExternal, "analysis", "emotions", "classification failed", err)
		}
		valence, arousal := valenceArousal(scores)
		return []EmotionalArcPoint{{Point: "Overall", Valence: valence, Arousal: arousal}}, nil
	}

	var arc []EmotionalArcPoint
	for _, beat := range beatOrder(beats) {
		text := beats[beat]
		// Early beats lean on dialogue tone rather than summary text.
		if beat == "Beginning" || beat == "End of Act I" {
			if strings.TrimSpace(dialogue) != "" {
				text = dialogue
			}
		}
		scores, err := a.emotions.ClassifyEmotions(ctx, sample(text))
		if err != nil {
			return nil, services.Wrap(services.ErrExternal, "analysis", "emotions", "classification failed", err)
		}
		valence, arousal := valenceArousal(scores)
		arc = append(arc, EmotionalArcPoint{Point: beat, Valence: valence, Arousal: arousal})
	}
	return arc, nil
}

// canonicalBeats is the presentation order for long-script arcs.
var canonicalBeats = []string{"Beginning", "End of Act I", "Midpoint", "All is Lost Moment", "Climax", "End"}

func beatOrder(beats map[string]string) []string {
	ordered := make([]string, 0, len(beats))
	for _, beat := range canonicalBeats {
		if _, ok := beats[beat]; ok {
			ordered = append(ordered, beat)
		}
	}
	for beat := range beats {
		known := false
		for _, existing := range ordered {
			if existing == beat {
				known = true
				break
			}
		}
		if !known {
			ordered = append(ordered, beat)
		}
	}
	return ordered
}

// storyScore sums |valence|+|arousal| per point, weighted toward the
// structurally loaded beats, scaled by 2.
func storyScore(arc []EmotionalArcPoint) int {
	var total float64
	for _, point := range arc {
		weight, ok := beatWeights[point.Point]
		if !ok {
			weight = 1.0
		}
		total += weight * float64(abs(point.Valence)+abs(point.Arousal))
	}
	return int(total * 2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (a *Analyzer) tagsAndAudience(ctx context.Context, script string) ([]string, []string, error) {
	excerpt := script
	if len(excerpt) > tagsExcerptLen {
		excerpt = excerpt[:tagsExcerptLen]
	}
	prompt := strings.ReplaceAll(tagsAudiencePrompt, "%SCRIPT%", excerpt)

	content, err := a.chat.CompleteJSON(ctx, jsonOnlySystemPrompt, prompt)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrExternal, "analysis", "tags", "completion failed", err)
	}

	var parsed struct {
		Tags     []string `json:"tags"`
		Audience []string `json:"audience"`
	}
	if err := openai.DecodeModelJSON(content, &parsed); err != nil {
		return nil, nil, services.Wrap(services.ErrExternal, "analysis", "tags", "parse tags payload", err)
	}
	return parsed.Tags, parsed.Audience, nil
}
