package v1

import (
	"github.com/gin-gonic/gin"

	"mew.ai/puml-api-gateway/app/interfaces/http/routes/v1/puml"
	"mew.ai/puml-api-gateway/app/interfaces/http/routes/v1/render"
)

type V1Route struct {
	pumlRoute   *puml.PumlRoute
	renderRoute *render.RenderRoute
}

func NewV1Route(pumlRoute *puml.PumlRoute, renderRoute *render.RenderRoute) *V1Route {
	return &V1Route{
		pumlRoute:   pumlRoute,
		renderRoute: renderRoute,
	}
}

func (v1Route *V1Route) RegisterRouter(router *gin.RouterGroup) {
	v1 := router.Group("/api/v1")
	v1Route.pumlRoute.RegisterRouter(v1.Group("/puml"))
	v1Route.renderRoute.RegisterRouter(v1.Group("/render"))
}
