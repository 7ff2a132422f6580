package generate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultOllamaModel = "qwen2.5-coder:latest"

// OllamaGenerator produces candidate routines through a local Ollama server.
type OllamaGenerator struct {
	client *api.Client
	model  string
}

// NewOllamaGenerator creates a generator against the given host. An empty
// host falls back to OLLAMA_HOST and then the default local address.
func NewOllamaGenerator(host, model string) (*OllamaGenerator, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil || host != "" {
		if host == "" {
			host = "http://localhost:11434"
		}
		u, uerr := url.Parse(host)
		if uerr != nil {
			return nil, fmt.Errorf("ollama: bad host %q: %w", host, uerr)
		}
		client = api.NewClient(u, http.DefaultClient)
	}
	if strings.TrimSpace(model) == "" {
		model = defaultOllamaModel
		slog.Warn("generator model not set, using default", "model", model)
	}
	return &OllamaGenerator{client: client, model: model}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	slog.Debug("generating candidate via ollama", "model", g.model)

	stream := false
	genReq := &api.GenerateRequest{
		Model:  g.model,
		System: systemPrompt,
		Prompt: BuildPrompt(req),
		Stream: &stream,
	}

	var out strings.Builder
	err := g.client.Generate(ctx, genReq, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}

	source := ExtractSource(out.String())
	if source == "" {
		return "", fmt.Errorf("ollama: reply contained no source")
	}
	return source, nil
}
