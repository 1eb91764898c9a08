// Package insight gera narrativas de gráfico com um servidor Ollama.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diillson/fundraising-dashboard-go/internal/domain/repository"
	"github.com/diillson/fundraising-dashboard-go/internal/shared/types"
)

const promptTemplate = `You are a fundraising analyst for a charity that tracks pledges and donations by fiscal year (July to June).
Below is a chart from the fundraising dashboard, encoded as JSON (title, axis labels, series and reference lines).
Write three short, actionable insights for the fundraising team. Mention concrete months, chapters or amounts from the data.
Answer in plain text, one insight per line, without preamble.

Chart:
%s`

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaRepositoryImpl implementa o InsightRepository chamando /api/generate.
type OllamaRepositoryImpl struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewOllamaRepository cria o cliente. O timeout por pedido vem do contexto;
// o timeout do http.Client é só o teto.
func NewOllamaRepository(endpoint, model string, timeout time.Duration) repository.InsightRepository {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaRepositoryImpl{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configure aplica a seção insight do arquivo de configuração. Deve ser
// chamado antes do primeiro pedido.
func (r *OllamaRepositoryImpl) Configure(cfg types.InsightConfig) {
	if cfg.Endpoint != "" {
		r.endpoint = strings.TrimRight(cfg.Endpoint, "/")
	}
	if cfg.Model != "" {
		r.model = cfg.Model
	}
	if cfg.TimeoutSeconds > 0 {
		r.httpClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
}

// GenerateInsight envia o gráfico serializado e devolve o texto gerado.
func (r *OllamaRepositoryImpl) GenerateInsight(ctx context.Context, chartJSON string) (string, error) {
	jsonBody, err := json.Marshal(generateRequest{
		Model:  r.model,
		Prompt: fmt.Sprintf(promptTemplate, chartJSON),
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Ollama error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := strings.TrimSpace(genResp.Response)
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", r.model)
	}
	return text, nil
}
