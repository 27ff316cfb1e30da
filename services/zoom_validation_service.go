// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// invalidClientCredentialsMarker is the failure reason fragment written when
// a token refresh fails because of the app's client credentials. Only those
// connections are worth re-checking after the app's secret was corrected.
const invalidClientCredentialsMarker = "Invalid client_id or client_secret"

type ZoomValidationService struct {
	connectionRepository shared.ZoomOAuthConnectionRepository
	appRepository        shared.ZoomOAuthAppRepository
	connectionService    shared.ZoomOAuthConnectionService
	zoomClient           shared.ZoomClientFacade
}

func NewZoomValidationService(connectionRepository shared.ZoomOAuthConnectionRepository, appRepository shared.ZoomOAuthAppRepository, connectionService shared.ZoomOAuthConnectionService, zoomClient shared.ZoomClientFacade) *ZoomValidationService {
	return &ZoomValidationService{
		connectionRepository: connectionRepository,
		appRepository:        appRepository,
		connectionService:    connectionService,
		zoomClient:           zoomClient,
	}
}

// ValidateConnections re-checks the disconnected connections of an app after
// its client secret changed. The rechecks run concurrently with a small limit
// to keep the zoom api happy. A connection that refreshes successfully is
// reconnected; one that still fails is left alone and never aborts the sweep
// for the remaining connections.
func (s *ZoomValidationService) ValidateConnections(ctx context.Context, appID uuid.UUID) error {
	app, err := s.appRepository.Read(appID)
	if err != nil {
		return err
	}

	connections, err := s.connectionRepository.FindDisconnectedByAppID(appID)
	if err != nil {
		return err
	}

	group := errgroup.Group{}
	group.SetLimit(4)
	for i := range connections {
		connection := &connections[i]

		reason := connection.FailureReason()
		if reason == "" || !strings.Contains(reason, invalidClientCredentialsMarker) {
			continue
		}

		group.Go(func() error {
			accessToken, err := refreshConnectionAccessToken(ctx, s.zoomClient, s.connectionRepository, connection, app)
			if err != nil {
				slog.Info("zoom oauth connection still fails after credential update", "zoomOAuthConnectionId", connection.ObjectID, "err", err)
				return nil
			}
			if accessToken == "" {
				return nil
			}

			if err := s.connectionService.Reconnect(connection); err != nil {
				slog.Error("could not reconnect zoom oauth connection", "zoomOAuthConnectionId", connection.ObjectID, "err", err)
			}
			return nil
		})
	}

	return group.Wait()
}
