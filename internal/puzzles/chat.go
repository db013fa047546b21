// internal/puzzles/chat.go
//
// Chat-completion puzzle source. Asks an OpenAI-compatible endpoint for four
// categories, pulls the JSON array out of the reply and validates it.

package puzzles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Joker666/nyt-connections-clone/internal/game"
)

const (
	chatSystemPrompt = "Always answer in JSON format only. Skip any text before the JSON, like sure here are more patterns."

	chatUserPrompt = `Below, each JSON line has a pattern that the 4 words follow:

[{"pattern":"Animal Groups","words":["colony","herd","pride","school"],"level":1},{"pattern":"Small Opening","words":["cranny","niche","nook","recess"],"level":2},{"pattern":"Paradigmatic","words":["classic","definitive","model","textbook"],"level":3},{"pattern":"Rhyming Compound Words","words":["backpack","bigwig","downtown","ragtag"],"level":4},{"pattern":"Cell Phone Modes","words":["focus","ring","silent","vibrate"],"level":5},{"pattern":"Romantic Beginnings","words":["connection","feelings","spark","vibe"],"level":6}]

Generate 4 more patterns and their associated 4 words similar to the above examples in JSON format. Do not reuse any of the examples. Only generate 4 patterns. Only return the examples in JSON format. Do not return anything besides the examples.`
)

// Chat asks an OpenAI-compatible chat completion endpoint for a fresh puzzle.
type Chat struct {
	endpoint    string
	temperature float64
	client      *http.Client
}

// NewChat builds a Chat provider. A zero timeout means 30s.
func NewChat(endpoint string, temperature float64, timeout time.Duration) *Chat {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Chat{endpoint: endpoint, temperature: temperature, client: &http.Client{Timeout: timeout}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Categories requests a puzzle and validates the reply. Levels are renumbered
// 1–4 in reply order since the model continues the numbering of the examples.
func (c *Chat) Categories(ctx context.Context) ([]game.Category, error) {
	body, err := json.Marshal(chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: chatUserPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   -1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("chat request: unexpected status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty chat response", ErrInvalidPuzzle)
	}
	content := cr.Choices[0].Message.Content
	log.Debug().Str("content", content).Msg("chat puzzle")

	var cats []game.Category
	if err := json.Unmarshal([]byte(extractArray(content)), &cats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}
	for i := range cats {
		cats[i].Level = i + 1
	}
	if err := Validate(cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// extractArray trims anything (prose, code fences) before the first '['
// and after the last ']'.
func extractArray(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[i:]
	}
	if j := strings.LastIndexByte(s, ']'); j >= 0 {
		s = s[:j+1]
	}
	return s
}
