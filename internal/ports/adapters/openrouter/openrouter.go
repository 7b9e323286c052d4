// Package openrouter adapts the natural-language action classifier onto the
// OpenRouter chat-completions API. The adapter only translates sentences to
// candidate actions; the editing core validates every action it returns.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/action"
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

const requestTimeout = 90 * time.Second

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{key: apiKey, model: model, baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Minute}}
}

func (a *Adapter) Classify(ctx context.Context, instruction string) ([]action.Action, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, errors.New("classify: empty instruction")
	}

	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": buildPrompt(instruction)},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name": "clipforge_actions",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"actions": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"action":   map[string]any{"type": "string"},
									"filename": map[string]any{"type": "string"},
									"start":    map[string]any{"type": "string"},
									"end":      map[string]any{"type": "string"},
									"speed":    map[string]any{"type": "number"},
									"text":     map[string]any{"type": "string"},
									"format":   map[string]any{"type": "string"},
								},
								"required": []string{"action", "filename"},
							},
						},
					},
					"required": []string{"actions"},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := a.baseURL + "/api/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("classifier timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("classifier status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("classifier status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw.Choices) == 0 {
		return nil, errors.New("classifier returned no choices")
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	clean, err := extractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var out struct {
		Actions []action.Action `json:"actions"`
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	return out.Actions, nil
}

func buildPrompt(instruction string) string {
	return "Translate the editing instruction into actions for a video editor. " +
		"Return strictly valid JSON (no markdown, no code fences) matching the provided schema. " +
		"Supported action values: cut, remove_segment, add_overlay, extract_audio, slow_motion, " +
		"add_subtitles, export, undo, redo. " +
		"Times are HH:MM:SS literals or the symbolic forms start, end, end-HH:MM:SS. " +
		"slow_motion speed is a fraction of normal playback (25% speed -> 0.25). " +
		"For add_overlay put the user's full overlay phrase in text. " +
		"For export set format to the target container. " +
		"Keep the user's filename verbatim." +
		"\n\nInstruction:\n" + instruction
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("classifier: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("classifier: unexpected content type %T", v)
	}
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("classifier: empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	// Best-effort: take the first JSON object found.
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}

	return "", fmt.Errorf("classifier: could not locate JSON object in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
