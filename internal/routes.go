package internal

import (
	"benchstore/internal/controllers"
	"benchstore/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/data.js", http.HandlerFunc(apiController.GetScript))
	routers.Get("/categories", http.HandlerFunc(apiController.GetCategories))
	routers.Get("/entries", http.HandlerFunc(apiController.GetEntries))
	routers.Post("/entries", http.HandlerFunc(apiController.AppendEntry))
	return routers
}
