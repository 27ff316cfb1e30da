// Copyright (C) 2025 Attendee Labs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package integrations

import (
	"github.com/attendee-dev/attendee/integrations/webhook"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/shared"
	"go.uber.org/fx"
)

// Module provides all integration constructors
var Module = fx.Options(
	// Zoom API client
	fx.Provide(fx.Annotate(
		zoomint.NewClient,
		fx.As(new(shared.ZoomClientFacade)),
	)),

	// Webhook integration, also exposed as the dispatcher the connection
	// service notifies on state changes
	fx.Provide(webhook.NewWebhookIntegration),
	fx.Provide(func(integration *webhook.WebhookIntegration) shared.WebhookDispatcher { return integration }),
)
