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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/dtos"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/mocks"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const grantedScopes = "user:read:user user:read:zak meeting:read:list_meetings meeting:read:local_recording_token"

func jsonRequest(t *testing.T, method string, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.Nil(t, err)

	req := httptest.NewRequest(method, target, strings.NewReader(string(raw)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestZoomOAuthConnectionCreate(t *testing.T) {
	e := echo.New()
	project := models.Project{ID: uuid.New(), ObjectID: "proj_1"}

	t.Run("should reject a body that is not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("fantasy"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(nil, nil, nil, nil)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject a body without an authorization code", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/", map[string]string{"zoom_oauth_app_id": "zoa_1"})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(nil, nil, nil, nil)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an app id from another project", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("FindByObjectID", project.ID, "zoa_other").Return(nil, fmt.Errorf("record not found"))

		req := jsonRequest(t, http.MethodPost, "/", map[string]string{
			"zoom_oauth_app_id":  "zoa_other",
			"authorization_code": "code-1",
		})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(nil, appRepository, nil, nil)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Zoom OAuth app zoa_other does not exist in this project", errorMessage(t, rec))
	})

	t.Run("should surface a failed code exchange", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("FindByObjectID", project.ID, "zoa_1").Return(models.ZoomOAuthApp{ID: uuid.New(), ObjectID: "zoa_1", ClientID: "client-id", ClientSecret: "client-secret"}, nil)

		zoomClient := mocks.NewZoomClientFacade(t)
		zoomClient.On("ExchangeAuthorizationCode", mock.Anything, "client-id", "client-secret", "expired-code", "https://example.com/callback").
			Return(nil, fmt.Errorf("invalid grant"))

		req := jsonRequest(t, http.MethodPost, "/", map[string]string{
			"zoom_oauth_app_id":  "zoa_1",
			"authorization_code": "expired-code",
			"redirect_uri":       "https://example.com/callback",
		})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(nil, appRepository, nil, zoomClient)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Error exchanging access code for tokens: invalid grant", errorMessage(t, rec))
	})

	t.Run("should reject a token with missing scopes", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("FindByObjectID", project.ID, "zoa_1").Return(models.ZoomOAuthApp{ID: uuid.New(), ObjectID: "zoa_1"}, nil)

		zoomClient := mocks.NewZoomClientFacade(t)
		zoomClient.On("ExchangeAuthorizationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(zoomint.TokenResponse{AccessToken: "at", RefreshToken: "rt", Scope: "user:read:user user:read:zak"}, nil)

		req := jsonRequest(t, http.MethodPost, "/", map[string]string{
			"zoom_oauth_app_id":  "zoa_1",
			"authorization_code": "code-1",
		})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(nil, appRepository, nil, zoomClient)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Zoom OAuth token is missing the following required scopes: meeting:read:list_meetings, meeting:read:local_recording_token", errorMessage(t, rec))
	})

	t.Run("should reject an inactive zoom user", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("FindByObjectID", project.ID, "zoa_1").Return(models.ZoomOAuthApp{ID: uuid.New(), ObjectID: "zoa_1"}, nil)

		zoomClient := mocks.NewZoomClientFacade(t)
		zoomClient.On("ExchangeAuthorizationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(zoomint.TokenResponse{AccessToken: "at", RefreshToken: "rt", Scope: grantedScopes}, nil)
		zoomClient.On("GetMe", mock.Anything, "at").
			Return(zoomint.User{ID: "zoom-user", Status: "inactive"}, nil)

		req := jsonRequest(t, http.MethodPost, "/", map[string]string{
			"zoom_oauth_app_id":  "zoa_1",
			"authorization_code": "code-1",
		})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(nil, appRepository, nil, zoomClient)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Zoom user is not active", errorMessage(t, rec))
	})

	t.Run("should store the connection and enqueue the initial sync", func(t *testing.T) {
		app := models.ZoomOAuthApp{ID: uuid.New(), ObjectID: "zoa_1", ClientID: "client-id", ClientSecret: "client-secret"}

		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("FindByObjectID", project.ID, "zoa_1").Return(app, nil)

		zoomClient := mocks.NewZoomClientFacade(t)
		zoomClient.On("ExchangeAuthorizationCode", mock.Anything, "client-id", "client-secret", "code-1", "").
			Return(zoomint.TokenResponse{AccessToken: "at", RefreshToken: "rt", Scope: grantedScopes}, nil)
		zoomClient.On("GetMe", mock.Anything, "at").
			Return(zoomint.User{ID: "zoom-user", AccountID: "zoom-account", Status: "active"}, nil)

		var created *models.ZoomOAuthConnection
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.ZoomOAuthConnection)
		}).Return(nil)

		taskService := mocks.NewTaskService(t)
		taskService.On("Enqueue", models.TaskTypeSyncZoomOAuthConnection, mock.Anything).Return(nil)

		req := jsonRequest(t, http.MethodPost, "/", map[string]any{
			"zoom_oauth_app_id":  "zoa_1",
			"authorization_code": "code-1",
			"metadata":           map[string]any{"customer": "acme"},
		})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, appRepository, taskService, zoomClient)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		require.NotNil(t, created)
		assert.Equal(t, app.ID, created.ZoomOAuthAppID)
		assert.Equal(t, models.ZoomOAuthConnectionStateConnected, created.State)
		assert.Equal(t, "rt", created.RefreshToken())
		assert.Equal(t, "zoom-user", created.UserID)
		assert.Equal(t, "zoom-account", created.AccountID)

		var dto dtos.ZoomOAuthConnectionDTO
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, "zoa_1", dto.ZoomOAuthApp)
		assert.Equal(t, models.ZoomOAuthConnectionStateConnected, dto.State)
		assert.Equal(t, map[string]any{"customer": "acme"}, dto.Metadata)
	})

	t.Run("should answer created even when the sync enqueue fails", func(t *testing.T) {
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		appRepository.On("FindByObjectID", project.ID, "zoa_1").Return(models.ZoomOAuthApp{ID: uuid.New(), ObjectID: "zoa_1"}, nil)

		zoomClient := mocks.NewZoomClientFacade(t)
		zoomClient.On("ExchangeAuthorizationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(zoomint.TokenResponse{AccessToken: "at", RefreshToken: "rt", Scope: grantedScopes}, nil)
		zoomClient.On("GetMe", mock.Anything, "at").
			Return(zoomint.User{ID: "zoom-user", Status: "active"}, nil)

		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("Create", mock.Anything, mock.Anything).Return(nil)

		taskService := mocks.NewTaskService(t)
		taskService.On("Enqueue", models.TaskTypeSyncZoomOAuthConnection, mock.Anything).Return(fmt.Errorf("queue table gone"))

		req := jsonRequest(t, http.MethodPost, "/", map[string]string{
			"zoom_oauth_app_id":  "zoa_1",
			"authorization_code": "code-1",
		})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, appRepository, taskService, zoomClient)

		err := controller.Create(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestZoomOAuthConnectionList(t *testing.T) {
	e := echo.New()
	project := models.Project{ID: uuid.New(), ObjectID: "proj_1"}

	t.Run("should reject a malformed cursor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?cursor=!!!", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(nil, nil, nil, nil)

		err := controller.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid cursor", errorMessage(t, rec))
	})

	t.Run("should return a single page without cursors", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("ListPage", project.ID, (*shared.PageCursor)(nil), shared.DefaultPageSize).
			Return([]models.ZoomOAuthConnection{
				{ObjectID: "zoc_2", State: models.ZoomOAuthConnectionStateConnected, ZoomOAuthApp: models.ZoomOAuthApp{ObjectID: "zoa_1"}},
				{ObjectID: "zoc_1", State: models.ZoomOAuthConnectionStateDisconnected, ZoomOAuthApp: models.ZoomOAuthApp{ObjectID: "zoa_1"}},
			}, false, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var page shared.CursorPage[dtos.ZoomOAuthConnectionDTO]
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Nil(t, page.Next)
		assert.Nil(t, page.Previous)
		require.Len(t, page.Results, 2)
		assert.Equal(t, "zoc_2", page.Results[0].ID)
		assert.Equal(t, "zoa_1", page.Results[0].ZoomOAuthApp)
	})

	t.Run("should link to the next page when more rows exist", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("ListPage", project.ID, (*shared.PageCursor)(nil), shared.DefaultPageSize).
			Return([]models.ZoomOAuthConnection{{ID: uuid.New(), ObjectID: "zoc_9"}}, true, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/zoom_oauth_connections", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var page shared.CursorPage[dtos.ZoomOAuthConnectionDTO]
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &page))
		require.NotNil(t, page.Next)
		assert.Contains(t, *page.Next, "cursor=")
		assert.Nil(t, page.Previous)
	})
}

func TestZoomOAuthConnectionRead(t *testing.T) {
	e := echo.New()
	project := models.Project{ID: uuid.New(), ObjectID: "proj_1"}

	t.Run("should answer 404 for an unknown object id", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByObjectID", project.ID, "zoc_missing").Return(nil, fmt.Errorf("record not found"))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("objectID")
		ctx.SetParamValues("zoc_missing")
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.Read(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Zoom OAuth Connection not found", errorMessage(t, rec))
	})

	t.Run("should serialize the connection with its failure data", func(t *testing.T) {
		connection := models.ZoomOAuthConnection{ObjectID: "zoc_1", ZoomOAuthApp: models.ZoomOAuthApp{ObjectID: "zoa_1"}}
		connection.MarkDisconnected("Invalid or expired refresh token")

		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByObjectID", project.ID, "zoc_1").Return(connection, nil)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("objectID")
		ctx.SetParamValues("zoc_1")
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.Read(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var dto dtos.ZoomOAuthConnectionDTO
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, "zoc_1", dto.ID)
		assert.Equal(t, models.ZoomOAuthConnectionStateDisconnected, dto.State)
		assert.Equal(t, map[string]any{"error": "Invalid or expired refresh token"}, dto.ConnectionFailureData)
	})
}

func TestZoomOAuthConnectionPatch(t *testing.T) {
	e := echo.New()
	project := models.Project{ID: uuid.New(), ObjectID: "proj_1"}

	t.Run("should replace the metadata and nothing else", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByObjectID", project.ID, "zoc_1").
			Return(models.ZoomOAuthConnection{ObjectID: "zoc_1", State: models.ZoomOAuthConnectionStateConnected, UserID: "zoom-user"}, nil)

		var saved *models.ZoomOAuthConnection
		connectionRepository.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.ZoomOAuthConnection)
		}).Return(nil)

		req := jsonRequest(t, http.MethodPatch, "/", map[string]any{"metadata": map[string]any{"tier": "pro"}})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("objectID")
		ctx.SetParamValues("zoc_1")
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.Patch(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		require.NotNil(t, saved)
		assert.Equal(t, map[string]any{"tier": "pro"}, map[string]any(saved.Metadata))
		assert.Equal(t, "zoom-user", saved.UserID)
		assert.Equal(t, models.ZoomOAuthConnectionStateConnected, saved.State)
	})

	t.Run("should answer 404 for an unknown object id", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByObjectID", project.ID, "zoc_missing").Return(nil, fmt.Errorf("record not found"))

		req := jsonRequest(t, http.MethodPatch, "/", map[string]any{"metadata": map[string]any{}})
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("objectID")
		ctx.SetParamValues("zoc_missing")
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.Patch(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestZoomOAuthConnectionDelete(t *testing.T) {
	e := echo.New()
	project := models.Project{ID: uuid.New(), ObjectID: "proj_1"}

	t.Run("should delete and return the connection", func(t *testing.T) {
		connectionID := uuid.New()

		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByObjectID", project.ID, "zoc_1").
			Return(models.ZoomOAuthConnection{ID: connectionID, ObjectID: "zoc_1", ZoomOAuthApp: models.ZoomOAuthApp{ObjectID: "zoa_1"}}, nil)
		connectionRepository.On("Delete", mock.Anything, connectionID).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("objectID")
		ctx.SetParamValues("zoc_1")
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.Delete(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var dto dtos.ZoomOAuthConnectionDTO
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, "zoc_1", dto.ID)
	})

	t.Run("should answer 404 for an unknown object id", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		connectionRepository.On("FindByObjectID", project.ID, "zoc_missing").Return(nil, fmt.Errorf("record not found"))

		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		ctx := e.NewContext(req, rec)
		ctx.SetParamNames("objectID")
		ctx.SetParamValues("zoc_missing")
		shared.SetProject(ctx, project)

		controller := NewZoomOAuthConnectionController(connectionRepository, nil, nil, nil)

		err := controller.Delete(ctx)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
