// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
)

type ZoomSyncService struct {
	connectionRepository shared.ZoomOAuthConnectionRepository
	appRepository        shared.ZoomOAuthAppRepository
	mappingRepository    shared.ZoomMeetingMappingRepository
	connectionService    shared.ZoomOAuthConnectionService
	zoomClient           shared.ZoomClientFacade
}

func NewZoomSyncService(connectionRepository shared.ZoomOAuthConnectionRepository, appRepository shared.ZoomOAuthAppRepository, mappingRepository shared.ZoomMeetingMappingRepository, connectionService shared.ZoomOAuthConnectionService, zoomClient shared.ZoomClientFacade) *ZoomSyncService {
	return &ZoomSyncService{
		connectionRepository: connectionRepository,
		appRepository:        appRepository,
		mappingRepository:    mappingRepository,
		connectionService:    connectionService,
		zoomClient:           zoomClient,
	}
}

// SyncConnection refreshes the connection's access token, lists the meetings
// the user can access plus their personal meeting ID and upserts the meeting
// mappings. An authentication failure disconnects the connection and returns
// nil since retrying cannot help; every other failure is returned so the
// task engine retries with backoff.
func (s *ZoomSyncService) SyncConnection(ctx context.Context, connectionID uuid.UUID) error {
	connection, err := s.connectionRepository.Read(connectionID)
	if err != nil {
		return err
	}
	app, err := s.appRepository.Read(connection.ZoomOAuthAppID)
	if err != nil {
		return err
	}

	// record the attempt before doing anything, the scheduler uses this
	// timestamp to decide which connections are due
	syncStartedAt := time.Now()
	connection.LastAttemptedSyncAt = &syncStartedAt
	if err := s.connectionRepository.Save(nil, &connection); err != nil {
		return err
	}

	accessToken, err := refreshConnectionAccessToken(ctx, s.zoomClient, s.connectionRepository, &connection, app)
	if err != nil {
		return s.handleSyncError(&connection, err)
	}

	meetingIDs, err := s.zoomClient.ListMeetingIDs(ctx, accessToken)
	if err != nil {
		return s.handleSyncError(&connection, err)
	}

	user, err := s.zoomClient.GetMe(ctx, accessToken)
	if err != nil {
		return s.handleSyncError(&connection, err)
	}
	if user.PMI != 0 {
		meetingIDs = append(meetingIDs, strconv.FormatInt(user.PMI, 10))
	}

	if err := s.mappingRepository.UpsertMeetingIDs(nil, connection.ZoomOAuthAppID, connection.ID, meetingIDs); err != nil {
		return err
	}

	slog.Info("synced zoom oauth connection", "zoomOAuthConnectionId", connection.ObjectID, "meetingAmount", len(meetingIDs))

	now := time.Now()
	connection.State = models.ZoomOAuthConnectionStateConnected
	connection.ConnectionFailureData = nil
	connection.LastSuccessfulSyncStartedAt = &syncStartedAt
	connection.LastSuccessfulSyncAt = &now
	connection.LastAttemptedSyncAt = &now
	return s.connectionRepository.Save(nil, &connection)
}

func (s *ZoomSyncService) handleSyncError(connection *models.ZoomOAuthConnection, err error) error {
	if zoomint.IsAuthError(err) {
		slog.Info("zoom rejected the credentials, disconnecting", "zoomOAuthConnectionId", connection.ObjectID, "err", err)
		return s.connectionService.Disconnect(connection, err.Error())
	}
	return err
}

// refreshConnectionAccessToken exchanges the connection's refresh token for
// an access token. Zoom rotates refresh tokens, so a returned replacement is
// persisted before the access token is handed out - losing it would break
// the refresh chain for good.
func refreshConnectionAccessToken(ctx context.Context, zoomClient shared.ZoomClientFacade, connectionRepository shared.ZoomOAuthConnectionRepository, connection *models.ZoomOAuthConnection, app models.ZoomOAuthApp) (string, error) {
	if connection.Credentials == nil {
		return "", &zoomint.AuthError{Message: "No credentials found for zoom oauth connection"}
	}

	refreshToken := connection.RefreshToken()
	clientID := string(app.ClientID)
	clientSecret := string(app.ClientSecret)
	if refreshToken == "" || clientID == "" || clientSecret == "" {
		return "", &zoomint.AuthError{Message: "Missing refresh_token or client_secret"}
	}

	token, err := zoomClient.RefreshAccessToken(ctx, clientID, clientSecret, refreshToken)
	if err != nil {
		return "", err
	}

	if token.RefreshToken != "" && token.RefreshToken != refreshToken {
		connection.SetRefreshToken(token.RefreshToken)
		if err := connectionRepository.Save(nil, connection); err != nil {
			return "", err
		}
		slog.Info("stored rotated zoom refresh token", "zoomOAuthConnectionId", connection.ObjectID)
	}

	return token.AccessToken, nil
}
