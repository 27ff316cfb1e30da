package router

import "go.uber.org/fx"

var RouterModule = fx.Options(
	fx.Provide(NewAPIV1Router),
	fx.Provide(NewProjectRouter),
	fx.Provide(NewZoomOAuthConnectionRouter),
	fx.Provide(NewZoomOAuthAppRouter),
	fx.Provide(NewWebhookRouter),
	fx.Provide(NewExternalWebhookRouter),
)
