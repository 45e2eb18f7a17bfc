package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/A-bd-1999/medical-agent/internal/domain/analysis"
	"github.com/A-bd-1999/medical-agent/internal/infra/inference/prompt"
)

const maxTokens = 1024

// Predictor runs X-ray analysis through an OpenAI vision model. One instance
// per exam type so the registry stays a plain ExamType → Predictor map.
type Predictor struct {
	client *openai.Client
	model  string
	exam   domain.ExamType
}

func NewPredictor(apiKey, model string, exam domain.ExamType) *Predictor {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Predictor{client: openai.NewClient(apiKey), model: model, exam: exam}
}

// Predict sends the image to the vision model and decodes the JSON reply
// into the mapping shape the normalizer understands.
func (p *Predictor) Predict(ctx context.Context, imageRef string) (domain.RawOutput, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System(p.exam)},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt.User(imageRef)},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageRef}},
				},
			},
		},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(p.model, "o1") || strings.HasPrefix(p.model, "o3") || strings.HasPrefix(p.model, "o4") || strings.HasPrefix(p.model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var out map[string]any
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		// Model ignored the JSON instruction; hand the text through as-is and
		// let the normalizer decide.
		return domain.RawText(content), nil
	}
	if _, ok := out["model_name"]; !ok {
		out["model_name"] = p.model
	}
	return domain.RawMap(out), nil
}
