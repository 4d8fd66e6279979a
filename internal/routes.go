package internal

import (
	"adforge/internal/controllers"
	"adforge/internal/gateway"
	"adforge/internal/providers"
	"adforge/internal/structures"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, navController *controllers.NavigationController, catalogController *controllers.CatalogController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/sessions", http.HandlerFunc(apiController.ListSessions))
	routers.Get("/api/session", http.HandlerFunc(apiController.GetSession))
	routers.Post("/api/session/delete", http.HandlerFunc(apiController.DeleteSession))
	routers.Post("/api/campaign", http.HandlerFunc(apiController.SubmitCampaign))
	routers.Post("/api/adset", http.HandlerFunc(apiController.SubmitAdSet))
	routers.Post("/api/adset/rename", http.HandlerFunc(apiController.RenameAdSet))
	routers.Post("/api/ad/refine", http.HandlerFunc(apiController.Refine))
	routers.Post("/api/ad/resize", http.HandlerFunc(apiController.Resize))
	routers.Post("/api/ad/variation", http.HandlerFunc(apiController.Variation))
	routers.Post("/api/ad/enhance", http.HandlerFunc(apiController.Enhance))
	routers.Post("/api/ad/animate", http.HandlerFunc(apiController.Animate))
	routers.Get("/api/tasks", http.HandlerFunc(apiController.Tasks))
	routers.Get("/api/view", http.HandlerFunc(navController.View))
	routers.Post("/api/nav", http.HandlerFunc(navController.Navigate))
	routers.Get("/api/catalog", http.HandlerFunc(catalogController.Catalog))
	routers.Get(gateway.MediaURLPrefix, http.StripPrefix(gateway.MediaURLPrefix, http.FileServer(http.Dir(conf.Gateway.MediaDir))))
	return routers
}
