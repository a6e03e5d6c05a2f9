package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pcmejia/inventario-obras/internal/application/dto"
	"github.com/pcmejia/inventario-obras/internal/application/usecases"
	"github.com/pcmejia/inventario-obras/internal/metrics"
)

// advisoryTimeout tope propio de las llamadas al asesor, por encima del
// timeout del cliente HTTP de Gemini.
const advisoryTimeout = 45 * time.Second

// AdvisoryHandler maneja los endpoints del asesor de IA. Todos son best-effort:
// un fallo del asesor devuelve 502 y no afecta al resto del dashboard.
type AdvisoryHandler struct {
	uc  *usecases.AdvisoryUseCase
	met *metrics.Metrics
}

// NewAdvisoryHandler construye el handler.
func NewAdvisoryHandler(uc *usecases.AdvisoryUseCase, met *metrics.Metrics) *AdvisoryHandler {
	return &AdvisoryHandler{uc: uc, met: met}
}

// Benchmarks contrasta los KPIs vigentes contra el estándar de la industria.
// POST /api/ai/benchmarks
func (h *AdvisoryHandler) Benchmarks(c *fiber.Ctx) error {
	return h.advise(c, "benchmarks", func(ctx context.Context) (any, error) {
		return h.uc.Benchmarks(ctx, ViewerFromCtx(c))
	})
}

// Analyze diagnóstico estratégico del inventario.
// POST /api/ai/analyze
func (h *AdvisoryHandler) Analyze(c *fiber.Ctx) error {
	return h.advise(c, "analyze", func(ctx context.Context) (any, error) {
		return h.uc.AnalyzeInventory(ctx, ViewerFromCtx(c))
	})
}

// Search búsqueda de materiales en lenguaje natural.
// POST /api/ai/search
func (h *AdvisoryHandler) Search(c *fiber.Ctx) error {
	var body struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	return h.advise(c, "search", func(ctx context.Context) (any, error) {
		skus, err := h.uc.Search(ctx, body.Query)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"recommendedSkus": skus}, nil
	})
}

// WorkReport interpreta un corte de obra en texto libre.
// POST /api/ai/work-report
func (h *AdvisoryHandler) WorkReport(c *fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	return h.advise(c, "work_report", func(ctx context.Context) (any, error) {
		return h.uc.ParseWorkReport(ctx, body.Text)
	})
}

// Chat responde un mensaje del asistente con el historial de la conversación.
// POST /api/ai/chat
func (h *AdvisoryHandler) Chat(c *fiber.Ctx) error {
	var body struct {
		History []dto.ChatMessage `json:"history"`
		Message string            `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	return h.advise(c, "chat", func(ctx context.Context) (any, error) {
		answer, err := h.uc.Chat(ctx, ViewerFromCtx(c), body.History, body.Message)
		if err != nil {
			return nil, err
		}
		return dto.MessageResponse{Message: answer}, nil
	})
}

func (h *AdvisoryHandler) advise(c *fiber.Ctx, operation string, fn func(context.Context) (any, error)) error {
	ctx, cancel := context.WithTimeout(c.Context(), advisoryTimeout)
	defer cancel()

	result, err := fn(ctx)
	if err != nil {
		h.met.AdvisoryCalls.WithLabelValues(operation, "error").Inc()
		if isDomainError(err) {
			return respondError(c, err)
		}
		// El asesor falló: el resto del dashboard sigue operativo.
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ADVISOR_UNAVAILABLE", Message: err.Error()})
	}

	h.met.AdvisoryCalls.WithLabelValues(operation, "ok").Inc()
	return c.JSON(result)
}
