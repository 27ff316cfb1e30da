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

package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/mocks"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signedZoomRequest(secret string, body string, at time.Time) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))

	req.Header.Set(zoomint.TimestampHeader, timestamp)
	req.Header.Set(zoomint.SignatureHeader, "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func TestZoomWebhookHandleEvent(t *testing.T) {
	e := echo.New()
	app := models.ZoomOAuthApp{ID: uuid.New(), ObjectID: "zoa_1", WebhookSecret: "hook-secret"}

	newContext := func(req *http.Request) (shared.Context, *httptest.ResponseRecorder) {
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("objectID")
		ctx.SetParamValues("zoa_1")
		return ctx, rec
	}

	t.Run("should answer 404 for an unknown app", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("ReadByObjectID", "zoa_1").Return(nil, fmt.Errorf("record not found"))

		ctx, rec := newContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))

		controller := NewZoomWebhookController(appRepository, nil, nil)

		err := controller.HandleEvent(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should reject a request signed with the wrong secret", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("ReadByObjectID", "zoa_1").Return(app, nil)

		body := `{"event":"endpoint.url_validation","payload":{"plainToken":"abc"}}`
		ctx, rec := newContext(signedZoomRequest("some-other-secret", body, time.Now()))

		controller := NewZoomWebhookController(appRepository, nil, nil)

		err := controller.HandleEvent(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid signature", errorMessage(t, rec))
	})

	t.Run("should reject a replayed request with a stale timestamp", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("ReadByObjectID", "zoa_1").Return(app, nil)

		body := `{"event":"endpoint.url_validation","payload":{"plainToken":"abc"}}`
		ctx, rec := newContext(signedZoomRequest("hook-secret", body, time.Now().Add(-10*time.Minute)))

		controller := NewZoomWebhookController(appRepository, nil, nil)

		err := controller.HandleEvent(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should answer the url validation challenge", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("ReadByObjectID", "zoa_1").Return(app, nil)

		body := `{"event":"endpoint.url_validation","payload":{"plainToken":"abc"}}`
		ctx, rec := newContext(signedZoomRequest("hook-secret", body, time.Now()))

		controller := NewZoomWebhookController(appRepository, nil, nil)

		err := controller.HandleEvent(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var response map[string]string
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "abc", response["plainToken"])
		assert.Equal(t, zoomint.ChallengeResponse("hook-secret", "abc"), response["encryptedToken"])
	})

	t.Run("should disconnect the connection on deauthorization", func(t *testing.T) {
		connection := models.ZoomOAuthConnection{ObjectID: "zoc_1", State: models.ZoomOAuthConnectionStateConnected, UserID: "zoom-user"}

		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("ReadByObjectID", "zoa_1").Return(app, nil)

		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByAppAndUserID", app.ID, "zoom-user").Return(connection, nil)

		connectionService := mocks.NewZoomOAuthConnectionService(t)
		connectionService.On("Disconnect", &connection, "User deauthorized the app").Return(nil)

		body := `{"event":"app_deauthorized","payload":{"user_id":"zoom-user","account_id":"zoom-account"}}`
		ctx, rec := newContext(signedZoomRequest("hook-secret", body, time.Now()))

		controller := NewZoomWebhookController(appRepository, connectionRepository, connectionService)

		err := controller.HandleEvent(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should acknowledge a deauthorization for an unknown user", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("ReadByObjectID", "zoa_1").Return(app, nil)

		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByAppAndUserID", app.ID, "ghost-user").Return(nil, fmt.Errorf("record not found"))

		connectionService := mocks.NewZoomOAuthConnectionService(t)

		body := `{"event":"app_deauthorized","payload":{"user_id":"ghost-user"}}`
		ctx, rec := newContext(signedZoomRequest("hook-secret", body, time.Now()))

		controller := NewZoomWebhookController(appRepository, connectionRepository, connectionService)

		err := controller.HandleEvent(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		connectionService.AssertNotCalled(t, "Disconnect", mock.Anything, mock.Anything)
	})

	t.Run("should acknowledge event types it does not handle", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("ReadByObjectID", "zoa_1").Return(app, nil)

		body := `{"event":"meeting.started","payload":{}}`
		ctx, rec := newContext(signedZoomRequest("hook-secret", body, time.Now()))

		controller := NewZoomWebhookController(appRepository, nil, nil)

		err := controller.HandleEvent(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
