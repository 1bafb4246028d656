package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"goeha/internal/domain"
	"goeha/internal/drill"

	"go.uber.org/zap"
)

const (
	DefaultLLMURL   = "https://api.openai.com/v1/chat/completions"
	DefaultLLMModel = "gpt-4o-mini"
)

const systemPrompt = `You grade English to Korean vocabulary answers.
Reply with a single JSON object and nothing else:
{"correct": bool, "accepted": string, "corrected": string, "score": int, "feedback": string}
"correct" is true when the answer means the same as one of the reference meanings.
"accepted" is the reference meaning the answer matched, "corrected" is the answer with
spelling fixed, "score" is 0-100 and "feedback" is one short sentence in Korean.`

// LLMConfig configures the LLM grader
type LLMConfig struct {
	APIKey  string
	URL     string
	Model   string
	Timeout time.Duration
}

// LLM grades answers with an OpenAI compatible chat completions API
type LLM struct {
	cfg    LLMConfig
	client *http.Client
	logger *zap.Logger
}

// NewLLM creates an LLM grader
func NewLLM(cfg LLMConfig, logger *zap.Logger) (*LLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM grader requires an API key")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultLLMURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &LLM{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type llmVerdict struct {
	Correct   bool   `json:"correct"`
	Accepted  string `json:"accepted"`
	Corrected string `json:"corrected"`
	Score     int    `json:"score"`
	Feedback  string `json:"feedback"`
}

// Grade implements drill.Grader
func (g *LLM) Grade(ctx context.Context, word domain.Word, answer string) (drill.Verdict, error) {
	prompt := fmt.Sprintf(
		"Word: %s\nReference meanings: %s\nAnswer: %s",
		word.Word, strings.Join(word.Fragments(), ", "), strings.TrimSpace(answer),
	)

	request := chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return drill.Verdict{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return drill.Verdict{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return drill.Verdict{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return drill.Verdict{}, fmt.Errorf("failed to read response: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return drill.Verdict{}, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if response.Error != nil {
		return drill.Verdict{}, fmt.Errorf("API error: %s", response.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return drill.Verdict{}, fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if len(response.Choices) == 0 {
		return drill.Verdict{}, fmt.Errorf("no response choices returned")
	}

	verdict, err := parseVerdict(response.Choices[0].Message.Content)
	if err != nil {
		return drill.Verdict{}, err
	}

	g.logger.Debug("Answer graded",
		zap.Int64("word_id", word.ID),
		zap.Bool("correct", verdict.Correct),
		zap.Int("score", verdict.Score),
	)
	return verdict, nil
}

// parseVerdict reads the JSON object out of a model reply, tolerating
// markdown code fences around it
func parseVerdict(content string) (drill.Verdict, error) {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return drill.Verdict{}, fmt.Errorf("no JSON verdict in reply %q", content)
	}

	var v llmVerdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return drill.Verdict{}, fmt.Errorf("failed to decode verdict: %w", err)
	}

	if v.Score < 0 {
		v.Score = 0
	}
	if v.Score > 100 {
		v.Score = 100
	}

	return drill.Verdict{
		Correct:   v.Correct,
		Accepted:  v.Accepted,
		Corrected: v.Corrected,
		Score:     v.Score,
		Feedback:  v.Feedback,
	}, nil
}
