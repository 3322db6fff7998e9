package analysis

// jsonOnlySystemPrompt pins every structured completion to bare JSON.
const jsonOnlySystemPrompt = "You are a precise JSON generator. Always respond with valid JSON only, no explanations or additional text."

// genericMarketFallback replaces the market-context block when no provider
// data was available.
const genericMarketFallback = "No comparable-title market data is available for this synopsis. Ground your commercial assessment in the story content alone, drawing on general knowledge of genre performance."

const synopsisReportPrompt = `You are an expert Hollywood script and story analyst and data scientist. Analyze the following film synopsis and provide ONLY a valid JSON response with data-driven insights about its creative potential and commercial viability.

SYNOPSIS:
%SYNOPSIS%

MARKET CONTEXT:
%MARKET_CONTEXT%

Return ONLY a single JSON object with this exact structure. Do not include markdown, explanations, or additional text.

{
    "story_impact_report": {
        "title": "Professional Report Title",
        "logline": "A compelling, single-sentence logline summarizing the story's core conflict and stakes",
        "top_level_score": {
            "overall": 85,
            "narrative_strength": 78,
            "market_fit": 92
        },
        "emotional_arc_data": [
            {"point": "Beginning", "intensity": 2},
            {"point": "End of Act I", "intensity": 6},
            {"point": "Midpoint", "intensity": -4},
            {"point": "All is Lost Moment", "intensity": -8},
            {"point": "Climax", "intensity": 10},
            {"point": "End", "intensity": 7}
        ],
        "key_insights": {
            "summary": "A professional 2-3 sentence analysis of the story's core narrative strengths and market appeal.",
            "genres": ["Drama", "Thriller", "Sci-Fi"],
            "themes": ["Redemption", "Technology", "Family"],
            "target_audience": ["Millennials", "Sci-Fi Fans", "Urban Professionals"]
        },
        "characters": [
            {
                "role": "Protagonist",
                "description_short": "A brief description of their personality, goals, and arc.",
                "attributes": {
                    "archetype": "Reluctant Hero",
                    "audience_appeal_score": 8,
                    "comparable_actors": ["Ryan Gosling", "Tom Hardy", "Oscar Isaac"]
                }
            }
        ],
        "pitch_ready_copy": {
            "key_pitch_points": [
                "High-concept premise with universal emotional stakes",
                "Relatable protagonist with clear character arc",
                "Timely themes that resonate with current audiences"
            ],
            "one_liner": "A catchy tagline that captures the film's essence"
        }
    }
}

IMPORTANT: Return ONLY the JSON object above with real data for this specific synopsis. Ensure all values are valid JSON (use double quotes, no trailing commas).`

const shortScriptStructurePrompt = `You are a professional Hollywood script analyst. Analyze this short screenplay (3-4 pages).
Tasks:
1. Identify narrative beats (Beginning, Middle, End). For each, provide 1-2 paragraphs of the story text.
2. Assign roles and archetypes to these characters: %CHARACTERS%.
   Output as a JSON list of objects with fields: name, role, archetype, description.
Return a JSON object with 'beats' (object) and 'characters' (list).

Screenplay:
%SCRIPT%`

const longScriptStructurePrompt = `You are a professional Hollywood script analyst. Analyze screenplay chunk (%CHUNK%/%TOTAL%).
Tasks:
1. Identify narrative beats (Beginning, End of Act I, Midpoint, All is Lost Moment, Climax, End).
   For each, provide 2-4 paragraphs of the story text.
2. Assign roles and archetypes to these characters: %CHARACTERS%.
   Output as a JSON list of objects with fields: name, role, archetype, description.
Return a JSON object with 'beats' (object) and 'characters' (list).

Screenplay chunk:
%SCRIPT%`

const tagsAudiencePrompt = `Analyze the following screenplay. Suggest 3 genres, 3 themes, and 3 target audiences.
Return as JSON:
{
  "tags": ["", "", ""],
  "audience": ["", "", ""]
}

Screenplay (excerpt):
%SCRIPT%`
