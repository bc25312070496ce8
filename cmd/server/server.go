package main

import (
	"github.com/mileusna/crontab"

	"mew.ai/puml-api-gateway/app/domain/chat"
	"mew.ai/puml-api-gateway/app/domain/conversation"
	"mew.ai/puml-api-gateway/app/domain/cron"
	"mew.ai/puml-api-gateway/app/domain/diagram"
	"mew.ai/puml-api-gateway/app/domain/generation"
	"mew.ai/puml-api-gateway/app/infrastructure/renderer"
	httpserver "mew.ai/puml-api-gateway/app/interfaces/http"
	v1 "mew.ai/puml-api-gateway/app/interfaces/http/routes/v1"
	"mew.ai/puml-api-gateway/app/interfaces/http/routes/v1/puml"
	"mew.ai/puml-api-gateway/app/interfaces/http/routes/v1/render"
	"mew.ai/puml-api-gateway/app/utils/httpclients/openaicompat"
	"mew.ai/puml-api-gateway/config/environment_variables"
)

func init() {
	environment_variables.EnvironmentVariables.LoadFromEnv()
	openaicompat.Init()
}

func main() {
	plantumlRenderer := renderer.NewPlantUMLRenderer()
	cacheService := diagram.NewCacheService(plantumlRenderer)
	conversationService := conversation.NewConversationService()
	generationService := generation.NewGenerationService(openaicompat.NewClient())
	streamingService := chat.NewStreamingService()

	ctab := crontab.New()
	cron.NewService(cacheService, conversationService).Start(ctab)

	pumlRoute := puml.NewPumlRoute(cacheService, conversationService, generationService, streamingService)
	renderRoute := render.NewRenderRoute(cacheService)
	server := httpserver.NewHttpServer(v1.NewV1Route(pumlRoute, renderRoute))
	if err := server.Run(); err != nil {
		panic(err)
	}
}
