// Package ai implementa el puerto AdvisoryService contra la API REST de
// Google Gemini usando únicamente net/http, sin SDK.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiService implementa AdvisoryService.
var _ ports.AdvisoryService = (*GeminiService)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// chatSystemPrompt define la personalidad del asistente conversacional.
	// El contexto del inventario se concatena en cada llamada.
	chatSystemPrompt = `Eres "MejiaBot", asistente experto en logística de PC Mejia.
Responde de forma profesional, breve y usa markdown para listas.
Contexto del inventario actual:
`
)

// GeminiService adaptador REST de Gemini. Las tareas de razonamiento
// (benchmarks, análisis, cortes de obra) usan proModel; búsqueda y chat usan
// el modelo rápido.
type GeminiService struct {
	apiKey     string
	model      string
	proModel   string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash"
// y proModel "gemini-1.5-pro". Con apiKey vacío el adaptador se construye
// igual y cada llamada devuelve un error explícito.
func NewGeminiService(apiKey, model, proModel string) *GeminiService {
	return &GeminiService{
		apiKey:   apiKey,
		model:    model,
		proModel: proModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"` // "application/json" → JSON puro garantizado
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// KPIBenchmarks contrasta los indicadores contra el estándar de la industria.
func (s *GeminiService) KPIBenchmarks(ctx context.Context, snapshot dto.KPISnapshot) (*dto.BenchmarkResult, error) {
	metrics, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar KPIs: %w", err)
	}

	prompt := fmt.Sprintf(`Analiza estos KPIs de inventario de PC Mejia contra el estándar de la industria eléctrica:
%s

Devuelve ÚNICAMENTE un objeto JSON con esta estructura exacta:
{
  "benchmarks": {"itr": "...", "dsi": "...", "str": "...", "deadStock": "...", "serviceLevel": "..."},
  "analysis": "<diagnóstico en español>",
  "actionPlan": ["<acción 1>", "<acción 2>", ...]
}
En "benchmarks" indica el rango de referencia de la industria para cada indicador.`, metrics)

	raw, err := s.generate(ctx, s.proModel, "", userTurn(prompt), "application/json", 1024)
	if err != nil {
		return nil, err
	}

	var result dto.BenchmarkResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, raw)
	}
	return &result, nil
}

// AnalyzeInventory diagnóstico estratégico del inventario.
func (s *GeminiService) AnalyzeInventory(ctx context.Context, summary, stagnantItems string) (*dto.InventoryAnalysis, error) {
	prompt := fmt.Sprintf(`Analiza este inventario de materiales eléctricos: %s
Items estancados: %s

Devuelve ÚNICAMENTE un objeto JSON con esta estructura exacta:
{
  "generalStatus": "<estado general en español>",
  "criticalItems": [{"name": "...", "reason": "..."}],
  "strategicActions": [{"title": "...", "detail": "..."}]
}`, summary, stagnantItems)

	raw, err := s.generate(ctx, s.proModel, "", userTurn(prompt), "application/json", 1024)
	if err != nil {
		return nil, err
	}

	var result dto.InventoryAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, raw)
	}
	return &result, nil
}

// SemanticSearch resuelve una búsqueda en lenguaje natural a SKUs del catálogo.
func (s *GeminiService) SemanticSearch(ctx context.Context, query, catalogContext string) ([]string, error) {
	prompt := fmt.Sprintf(`Eres un asistente técnico de almacén eléctrico. El usuario busca materiales usando lenguaje natural.
Tu tarea es identificar qué SKUs del catálogo satisfacen mejor su necesidad.

CATÁLOGO (SKU | Nombre | Categoría):
%s

CONSULTA DEL USUARIO: "%s"

Devuelve ÚNICAMENTE un objeto JSON {"recommendedSkus": ["...", ...]} con SKUs que existan en el catálogo proporcionado.`, catalogContext, query)

	raw, err := s.generate(ctx, s.model, "", userTurn(prompt), "application/json", 512)
	if err != nil {
		return nil, err
	}

	var result struct {
		RecommendedSKUs []string `json:"recommendedSkus"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, raw)
	}
	return result.RecommendedSKUs, nil
}

// ParseWorkReport extrae materiales y cantidades de un corte de obra.
func (s *GeminiService) ParseWorkReport(ctx context.Context, rawText, catalogContext string) (*dto.WorkReport, error) {
	prompt := fmt.Sprintf(`Extrae los materiales instalados de este corte de obra, casando cada renglón contra el catálogo.

CATÁLOGO (SKU | Nombre | Categoría):
%s

TEXTO DEL CORTE:
%s

Devuelve ÚNICAMENTE un objeto JSON con esta estructura exacta:
{
  "extractedItems": [{"itemName": "...", "quantity": <número>, "matchedSku": "...", "confidence": <0.0-1.0>}],
  "summary": "<resumen en español>"
}`, catalogContext, rawText)

	raw, err := s.generate(ctx, s.proModel, "", userTurn(prompt), "application/json", 2048)
	if err != nil {
		return nil, err
	}

	var report dto.WorkReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, raw)
	}

	// Clamp de confidence al rango [0, 1]
	for i := range report.ExtractedItems {
		if report.ExtractedItems[i].Confidence < 0 {
			report.ExtractedItems[i].Confidence = 0
		} else if report.ExtractedItems[i].Confidence > 1 {
			report.ExtractedItems[i].Confidence = 1
		}
	}
	return &report, nil
}

// Chat responde un mensaje con el historial previo como turnos de conversación.
func (s *GeminiService) Chat(ctx context.Context, history []dto.ChatMessage, message, contextData string) (string, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: message}},
	})

	text, err := s.generate(ctx, s.model, chatSystemPrompt+contextData, contents, "", 1024)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "No pude generar una respuesta.", nil
	}
	return text, nil
}

// generate hace la llamada HTTP común y devuelve el texto del primer candidato.
func (s *GeminiService) generate(ctx context.Context, model, systemText string, contents []geminiContent, mimeType string, maxTokens int) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}

	payload := geminiRequest{
		Contents: contents,
		GenerationConfig: genConfig{
			ResponseMIMEType: mimeType,
			Temperature:      0.2, // baja temperatura para respuestas más deterministas
			MaxOutputTokens:  maxTokens,
		},
	}
	if systemText != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemText}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}
	return strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text), nil
}

func userTurn(text string) []geminiContent {
	return []geminiContent{{Role: "user", Parts: []geminiPart{{Text: text}}}}
}
