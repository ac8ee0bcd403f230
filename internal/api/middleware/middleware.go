package middleware

import (
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError writes a JSON error envelope with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	if writeErr := resp.WriteHeaderAndEntity(status, ErrorResponse{Error: err.Error()}); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// Logger assigns a request id and logs one line per request.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	requestID := req.HeaderParameter("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	resp.AddHeader("X-Request-ID", requestID)

	start := time.Now()
	chain.ProcessFilter(req, resp)

	log.Info().
		Str("request_id", requestID).
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("request handled")
}

// RecoverPanic converts handler panics into a 500 envelope.
func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Msg("recovered from panic")
			if err := resp.WriteHeaderAndEntity(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}); err != nil {
				log.Error().Err(err).Msg("Failed to write panic response")
			}
		}
	}()
	chain.ProcessFilter(req, resp)
}
