package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mobilindo/lapor-assistant/internal/domain"
)

// Fallback shown when the model returns an empty or unexpected response
// shape; it is a valid answer, not an error the caller must handle.
const emptyResponseFallback = "Maaf, saya tidak dapat menghasilkan respons saat ini."

// GeminiOptions configures the Vertex AI (Gemini) client. The datastore path
// points the retrieval tool at the incident-report corpus; when empty, answers
// are not grounded.
type GeminiOptions struct {
	Project  string
	Location string
	Model    string

	DatastorePath     string
	SystemInstruction string

	Temperature     float32
	TopP            float32
	Seed            int32
	MaxOutputTokens int32

	// DisableSafety turns every harm-category filter off.
	DisableSafety bool
}

type GeminiClient struct {
	client *genai.Client
	opts   GeminiOptions
}

// NewGeminiClient creates an LLMClient backed by Vertex AI.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	if opts.Project == "" || opts.Location == "" {
		return nil, fmt.Errorf("project and location are required for the Gemini client")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  opts.Project,
		Location: opts.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &GeminiClient{client: client, opts: opts}, nil
}

// GenerateReply implements domain.LLMClient. The assembled history is sent as
// the conversation contents; the reply is awaited in full.
func (c *GeminiClient) GenerateReply(ctx context.Context, history []domain.PromptTurn) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := genai.Role(genai.RoleUser)
		if t.Role == domain.PromptRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	temp := c.opts.Temperature
	topP := c.opts.TopP
	seed := c.opts.Seed

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.opts.SystemInstruction, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		Seed:              &seed,
		MaxOutputTokens:   c.opts.MaxOutputTokens,
	}

	if c.opts.DisableSafety {
		cfg.SafetySettings = safetyFiltersOff()
	}

	if c.opts.DatastorePath != "" {
		cfg.Tools = []*genai.Tool{
			{
				Retrieval: &genai.Retrieval{
					VertexAISearch: &genai.VertexAISearch{
						Datastore: c.opts.DatastorePath,
					},
				},
			},
		}
	}

	res, err := c.client.Models.GenerateContent(ctx, c.opts.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return emptyResponseFallback, nil
	}

	return text, nil
}

func safetyFiltersOff() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, cat := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdOff,
		})
	}
	return settings
}
