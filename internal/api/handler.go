package api

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/pressmith/pr-agent/internal/api/middleware"
	"github.com/pressmith/pr-agent/internal/llm"
	"github.com/pressmith/pr-agent/internal/models"
	"github.com/pressmith/pr-agent/internal/workflow"
	"github.com/rs/zerolog"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Handler struct {
	engine *workflow.Engine
	logger *zerolog.Logger
}

func NewHandler(engine *workflow.Engine, logger *zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// POST /api/v1/statements
// Body: StatementRequest
// Returns: StatementResponse
//
// Provider failures are masked: the caller receives a 200 envelope with a
// deterministic fallback statement. Only validation failures and a
// missing/unconfigured provider surface as error statuses.
func (h *Handler) GenerateStatement(req *restful.Request, resp *restful.Response) {
	var stmtRequest models.StatementRequest
	if err := req.ReadEntity(&stmtRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := stmtRequest.Validate(); err != nil {
		h.logger.Warn().Err(err).Msg("Invalid statement request")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("topic", stmtRequest.Topic).
		Msg("Start statement generation")

	ctx := req.Request.Context()

	statement, err := h.engine.Run(ctx, stmtRequest.Topic)

	var cfgErr *llm.ConfigurationError
	if errors.As(err, &cfgErr) {
		h.logger.Error().Err(err).Msg("Generator service is not configured")
		middleware.HandleError(resp, errors.New("PR statement generator is not available"), http.StatusServiceUnavailable)
		return
	}

	if err != nil {
		h.logger.Warn().Err(err).Str("topic", stmtRequest.Topic).Msg("Provider call failed, returning fallback statement")
		resp.WriteHeaderAndEntity(http.StatusOK, models.StatementResponse{
			PRStatement: FallbackStatement(stmtRequest.Topic),
			Status:      models.StatusSuccess,
			Message:     "Provider unavailable, generated fallback statement",
		})
		return
	}

	h.logger.Info().
		Str("topic", stmtRequest.Topic).
		Int("statement_length", len(statement)).
		Msg("Statement generation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, models.StatementResponse{
		PRStatement: statement,
		Status:      models.StatusSuccess,
		Message:     "PR statement generated successfully",
	})
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
