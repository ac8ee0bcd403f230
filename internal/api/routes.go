package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/pressmith/pr-agent/internal/api/middleware"
	"github.com/pressmith/pr-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/statements").
			To(handler.GenerateStatement).
			Doc("Generate a PR statement for a topic").
			Metadata(restfulspec.KeyOpenAPITags, []string{"statements"}).
			Reads(models.StatementRequest{}).
			Writes(models.StatementResponse{}).
			Returns(200, "OK", models.StatementResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(503, "Service Unavailable", middleware.ErrorResponse{}))

	container.Add(ws)
}
