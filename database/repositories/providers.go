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

package repositories

import (
	"github.com/attendee-dev/attendee/shared"
	"go.uber.org/fx"
)

// Module provides all repository constructors as their interfaces
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewOrgRepository, fx.As(new(shared.OrganizationRepository)))),
	fx.Provide(fx.Annotate(NewProjectRepository, fx.As(new(shared.ProjectRepository)))),
	fx.Provide(fx.Annotate(NewAPIKeyRepository, fx.As(new(shared.APIKeyRepository)))),
	fx.Provide(fx.Annotate(NewConfigRepository, fx.As(new(shared.ConfigRepository)))),
	fx.Provide(fx.Annotate(NewZoomOAuthAppRepository, fx.As(new(shared.ZoomOAuthAppRepository)))),
	fx.Provide(fx.Annotate(NewZoomOAuthConnectionRepository, fx.As(new(shared.ZoomOAuthConnectionRepository)))),
	fx.Provide(fx.Annotate(NewZoomMeetingMappingRepository, fx.As(new(shared.ZoomMeetingMappingRepository)))),
	fx.Provide(fx.Annotate(NewWebhookRepository, fx.As(new(shared.WebhookRepository)))),
	fx.Provide(fx.Annotate(NewWebhookDeliveryAttemptRepository, fx.As(new(shared.WebhookDeliveryAttemptRepository)))),
	fx.Provide(fx.Annotate(NewTaskRepository, fx.As(new(shared.TaskRepository)))),
)
