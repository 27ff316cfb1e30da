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

package middlewares

import (
	"log/slog"
	"strings"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
)

const (
	apiKeyCacheSize = 1024
	apiKeyCacheTTL  = 5 * time.Minute
)

// APIKeyMiddleware authenticates requests via the "Authorization: Token
// <key>" header. The key is hashed and looked up against the stored key
// hashes, plaintext keys never touch the database. Hits are cached for a
// few minutes so the hot path skips the database entirely - the price is
// that a revoked key keeps working until its cache entry expires.
func APIKeyMiddleware(apiKeyRepository shared.APIKeyRepository) echo.MiddlewareFunc {
	cache := expirable.NewLRU[string, models.Project](apiKeyCacheSize, nil, apiKeyCacheTTL)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, ok := strings.CutPrefix(ctx.Request().Header.Get("Authorization"), "Token ")
			if !ok || token == "" {
				return ctx.JSON(401, map[string]string{"error": "Invalid API key"})
			}

			keyHash := models.HashToken(strings.TrimSpace(token))

			if project, ok := cache.Get(keyHash); ok {
				shared.SetProject(ctx, project)
				return next(ctx)
			}

			apiKey, err := apiKeyRepository.FindByKeyHash(keyHash)
			if err != nil || apiKey.DisabledAt != nil {
				return ctx.JSON(401, map[string]string{"error": "Invalid API key"})
			}

			cache.Add(keyHash, apiKey.Project)

			// usage tracking is informational, a failed update must not
			// block the request
			if err := apiKeyRepository.MarkAsLastUsedNow(apiKey.ID); err != nil {
				slog.Warn("could not update api key last used timestamp", "err", err)
			}

			shared.SetProject(ctx, apiKey.Project)
			return next(ctx)
		}
	}
}
