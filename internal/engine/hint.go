package engine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/pirate-latitudes/internal/models"
)

//go:embed prompts/hint.txt
var hintPrompt string

var hintTemplate = template.Must(template.New("hint").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(hintPrompt))

// HintRequest describes where the player is stuck.
type HintRequest struct {
	Title     string
	Narration string
	Commands  []string
	Question  string
	Inventory []string
	Health    int
}

func newHintRequest(st *models.GameState, scene *Scene) HintRequest {
	req := HintRequest{
		Title:     scene.Title,
		Narration: strings.TrimSpace(scene.Narration),
		Inventory: slices.Clone(st.Inventory),
		Health:    st.Health,
	}
	for name := range scene.Commands {
		req.Commands = append(req.Commands, name)
	}
	slices.Sort(req.Commands)
	if st.Pending != "" {
		if eff, ok := scene.Commands[st.Pending]; ok && eff.Prompt != nil {
			req.Question = strings.TrimSpace(eff.Prompt.Question)
		}
	}
	return req
}

// Hinter suggests what to try next.
type Hinter interface {
	Hint(ctx context.Context, req HintRequest) (string, error)
}

// StaticHinter lists the commands the scene understands.
type StaticHinter struct{}

func (StaticHinter) Hint(_ context.Context, req HintRequest) (string, error) {
	if len(req.Commands) == 0 {
		return "There is nothing left to do here but savour the moment.", nil
	}
	return fmt.Sprintf("The old navigator leans in: \"Here, a captain might try: %s.\"", strings.Join(req.Commands, ", ")), nil
}

// GeminiHinter asks a Gemini model for an in-character hint.
type GeminiHinter struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiHinter(ctx context.Context, apiKey, model string) (*GeminiHinter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiHinter{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

func (g *GeminiHinter) Close() error {
	return g.client.Close()
}

func (g *GeminiHinter) Hint(ctx context.Context, req HintRequest) (string, error) {
	prompt, err := renderHintPrompt(req)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}

func renderHintPrompt(req HintRequest) (string, error) {
	var buf bytes.Buffer
	if err := hintTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
