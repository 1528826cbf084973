package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	api "github.com/ollama/ollama/api"

	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/utils"
)

// Client is the generation backend. Generate returns the accumulated
// completion text; transport failures (timeout, connection refused) surface
// as errors and are never converted to placeholder content here.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type client struct {
	api   *api.Client
	log   *logger.Logger
	model string
}

func NewClient(log *logger.Logger) (Client, error) {
	serviceLog := log.With("client", "OllamaClient")

	baseURL := utils.GetEnv("OLLAMA_URL", "http://localhost:11434", log)
	model := utils.GetEnv("OLLAMA_MODEL", "llama3.2:3b", log)
	timeoutSeconds := utils.GetEnvAsInt("OLLAMA_TIMEOUT_SECONDS", 60, log)

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_URL %q: %w", baseURL, err)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}

	return &client{
		api:   api.NewClient(base, httpClient),
		log:   serviceLog,
		model: model,
	}, nil
}

func (c *client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

// GenerateJSON constrains the completion to valid JSON via the backend's
// format parameter. The output still gets normalized downstream; models lie.
func (c *client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, json.RawMessage(`"json"`))
}

func (c *client) generate(ctx context.Context, prompt string, format json.RawMessage) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
		Format: format,
	}

	var responseText string
	err := c.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
		responseText += resp.Response
		return nil
	})
	if err != nil {
		c.log.Warn("Generation call failed", "model", c.model, "error", err)
		return "", fmt.Errorf("failed to communicate with generation backend: %w", err)
	}
	return responseText, nil
}
