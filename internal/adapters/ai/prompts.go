package ai

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/okian/matchday/internal/domain/model"
)

// Per-kind sampling settings.
var (
	headlineSettings = Request{Temperature: 0.7, MaxTokens: 150}
	summarySettings  = Request{Temperature: 0.6, MaxTokens: 400}
	winProbSettings  = Request{Temperature: 0.5, MaxTokens: 200}
	catchUpSettings  = Request{Temperature: 0.6, MaxTokens: 250}
	searchSettings   = Request{Temperature: 0.5, MaxTokens: 300}
)

func scoreLine(m model.Match) string {
	return fmt.Sprintf("%s %s vs %s %s", m.TeamA.Name, m.TeamA.Score, m.TeamB.Name, m.TeamB.Score)
}

func headlinePrompt(m model.Match) string {
	return fmt.Sprintf(`You are a sports headline writer. Generate a short, exciting one-line headline (max 15 words) for this live match:

Sport: %s
%s
Tournament: %s
Venue: %s

Respond in JSON format:
{"en": "English headline here", "hi": "Hindi headline here"}

Only output the JSON, nothing else.`, m.Sport, scoreLine(m), m.Tournament, m.Venue)
}

func summaryPrompt(m model.Match) string {
	if m.Sport == model.Cricket {
		return fmt.Sprintf(`You are a cricket commentator. Write a 3-4 sentence match summary for this cricket match at the current stage.

Teams: %s
Tournament: %s
Venue: %s
Status: %s

Respond in JSON: {"en": "English summary", "hi": "Hindi summary"}`, scoreLine(m), m.Tournament, m.Venue, m.Headline)
	}
	return fmt.Sprintf(`You are a football commentator. Write a 3-4 sentence match summary for this football match.

Teams: %s
Tournament: %s
Venue: %s
Phase: %s

Respond in JSON: {"en": "English summary", "hi": "Hindi summary"}`, scoreLine(m), m.Tournament, m.Venue, m.MatchPhase)
}

func winProbabilityPrompt(m model.Match) string {
	detail := "Overs: N/A"
	drawField := ""
	switch e := m.Extras.(type) {
	case *model.CricketExtras:
		if e.Overs != "" {
			detail = "Overs: " + e.Overs
		}
	case *model.FootballExtras:
		detail = "Minute: N/A"
		if e.Minute != nil {
			detail = "Minute: " + strconv.Itoa(*e.Minute)
		}
	}
	if m.Sport == model.Football {
		drawField = "\n  \"draw\": <0-100 probability>,"
	}
	return fmt.Sprintf(`You are a sports analyst. Given this live %s match, estimate win probability.

%s
Tournament: %s
%s
Status: %s

Respond in JSON:
{
  "teamA": <0-100 probability>,
  "teamB": <0-100 probability>,%s
  "confidence": "low" | "medium" | "high",
  "reasoning": "One sentence explanation"
}

Probabilities must sum to 100.`, m.Sport, scoreLine(m), m.Tournament, detail, m.Headline, drawField)
}

func catchUpPrompt(m model.Match, minutesAgo int) string {
	return fmt.Sprintf(`The user last checked this %s match %d minutes ago.
Current state: %s
Tournament: %s
Match status: %s
Headline: %s

Write a 2-3 sentence catch-up summary telling the user what likely happened since their last visit. Be specific about score changes and key moments.
Respond in JSON: {"en": "English catch-up", "hi": "Hindi catch-up"}`, m.Sport, minutesAgo, scoreLine(m), m.Tournament, m.Status, m.Headline)
}

type searchCandidate struct {
	ID         string       `json:"id"`
	Slug       string       `json:"slug"`
	Sport      model.Sport  `json:"sport"`
	Teams      string       `json:"teams"`
	Score      string       `json:"score"`
	Tournament string       `json:"tournament"`
	Status     model.Status `json:"status"`
	Headline   string       `json:"headline"`
}

func searchPrompt(query string, matches []model.Match) string {
	candidates := make([]searchCandidate, len(matches))
	for i, m := range matches {
		candidates[i] = searchCandidate{
			ID:         m.ID,
			Slug:       m.Slug,
			Sport:      m.Sport,
			Teams:      m.TeamA.Name + " vs " + m.TeamB.Name,
			Score:      m.TeamA.Score + " - " + m.TeamB.Score,
			Tournament: m.Tournament,
			Status:     m.Status,
			Headline:   m.Headline,
		}
	}
	listing, _ := json.MarshalIndent(candidates, "", "  ")

	return fmt.Sprintf(`You are a sports search assistant. Given these matches and the user's query, return the most relevant matches.

Matches:
%s

User query: %q

Respond in JSON:
{
  "matchIds": ["id1", "id2"],
  "response": "Natural language response to the query",
  "responseHi": "Hindi response"
}

If no matches are relevant, return empty matchIds and explain why.`, listing, query)
}
