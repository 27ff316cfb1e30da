package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/attendee-dev/attendee/database/models"
	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/attendee-dev/attendee/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSyncConnection(t *testing.T) {
	appID := uuid.New()
	connectionID := uuid.New()

	newApp := func() models.ZoomOAuthApp {
		return models.ZoomOAuthApp{
			ID:           appID,
			ObjectID:     "zoa_1",
			ClientID:     databasetypes.EncryptedString("client-id"),
			ClientSecret: databasetypes.EncryptedString("client-secret"),
		}
	}

	newConnection := func() models.ZoomOAuthConnection {
		return models.ZoomOAuthConnection{
			ID:             connectionID,
			ObjectID:       "zoc_1",
			ZoomOAuthAppID: appID,
			State:          models.ZoomOAuthConnectionStateConnected,
			Credentials:    databasetypes.EncryptedJSONB{models.CredentialKeyRefreshToken: "rt-1"},
		}
	}

	t.Run("should upsert the meeting mappings and record the sync window", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		mappingRepository := mocks.NewZoomMeetingMappingRepository(t)
		connectionService := mocks.NewZoomOAuthConnectionService(t)
		zoomClient := mocks.NewZoomClientFacade(t)

		connectionRepository.On("Read", connectionID).Return(newConnection(), nil)
		appRepository.On("Read", appID).Return(newApp(), nil)

		// the same pointer gets saved repeatedly, so keep copies
		var saves []models.ZoomOAuthConnection
		connectionRepository.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saves = append(saves, *args.Get(1).(*models.ZoomOAuthConnection))
		}).Return(nil)

		zoomClient.On("RefreshAccessToken", mock.Anything, "client-id", "client-secret", "rt-1").Return(zoomint.TokenResponse{AccessToken: "at-1", RefreshToken: "rt-1"}, nil)
		zoomClient.On("ListMeetingIDs", mock.Anything, "at-1").Return([]string{"111222333", "444555666"}, nil)
		zoomClient.On("GetMe", mock.Anything, "at-1").Return(zoomint.User{ID: "user-1", PMI: 777888999}, nil)

		mappingRepository.On("UpsertMeetingIDs", mock.Anything, appID, connectionID, []string{"111222333", "444555666", "777888999"}).Return(nil)

		service := NewZoomSyncService(connectionRepository, appRepository, mappingRepository, connectionService, zoomClient)

		err := service.SyncConnection(context.Background(), connectionID)
		require.Nil(t, err)

		require.Len(t, saves, 2)
		// the attempt is recorded before talking to zoom
		assert.NotNil(t, saves[0].LastAttemptedSyncAt)
		assert.Nil(t, saves[0].LastSuccessfulSyncAt)

		final := saves[1]
		assert.Equal(t, models.ZoomOAuthConnectionStateConnected, final.State)
		assert.Nil(t, final.ConnectionFailureData)
		assert.Equal(t, final.LastAttemptedSyncAt, final.LastSuccessfulSyncAt)
		assert.Equal(t, saves[0].LastAttemptedSyncAt, final.LastSuccessfulSyncStartedAt)

		connectionService.AssertNotCalled(t, "Disconnect", mock.Anything, mock.Anything)
	})

	t.Run("should skip the personal meeting id when zoom reports none", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		mappingRepository := mocks.NewZoomMeetingMappingRepository(t)
		connectionService := mocks.NewZoomOAuthConnectionService(t)
		zoomClient := mocks.NewZoomClientFacade(t)

		connectionRepository.On("Read", connectionID).Return(newConnection(), nil)
		appRepository.On("Read", appID).Return(newApp(), nil)
		connectionRepository.On("Save", mock.Anything, mock.Anything).Return(nil)

		zoomClient.On("RefreshAccessToken", mock.Anything, "client-id", "client-secret", "rt-1").Return(zoomint.TokenResponse{AccessToken: "at-1", RefreshToken: "rt-1"}, nil)
		zoomClient.On("ListMeetingIDs", mock.Anything, "at-1").Return([]string{"111222333"}, nil)
		zoomClient.On("GetMe", mock.Anything, "at-1").Return(zoomint.User{ID: "user-1", PMI: 0}, nil)

		mappingRepository.On("UpsertMeetingIDs", mock.Anything, appID, connectionID, []string{"111222333"}).Return(nil)

		service := NewZoomSyncService(connectionRepository, appRepository, mappingRepository, connectionService, zoomClient)

		err := service.SyncConnection(context.Background(), connectionID)
		assert.Nil(t, err)
	})

	t.Run("should persist a rotated refresh token before listing meetings", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		mappingRepository := mocks.NewZoomMeetingMappingRepository(t)
		connectionService := mocks.NewZoomOAuthConnectionService(t)
		zoomClient := mocks.NewZoomClientFacade(t)

		connectionRepository.On("Read", connectionID).Return(newConnection(), nil)
		appRepository.On("Read", appID).Return(newApp(), nil)

		var saves []models.ZoomOAuthConnection
		connectionRepository.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saves = append(saves, *args.Get(1).(*models.ZoomOAuthConnection))
		}).Return(nil)

		zoomClient.On("RefreshAccessToken", mock.Anything, "client-id", "client-secret", "rt-1").Return(zoomint.TokenResponse{AccessToken: "at-1", RefreshToken: "rt-2"}, nil)
		zoomClient.On("ListMeetingIDs", mock.Anything, "at-1").Return([]string{}, nil)
		zoomClient.On("GetMe", mock.Anything, "at-1").Return(zoomint.User{ID: "user-1"}, nil)

		mappingRepository.On("UpsertMeetingIDs", mock.Anything, appID, connectionID, []string{}).Return(nil)

		service := NewZoomSyncService(connectionRepository, appRepository, mappingRepository, connectionService, zoomClient)

		err := service.SyncConnection(context.Background(), connectionID)
		require.Nil(t, err)

		// attempt stamp, rotated token, final sync result
		require.Len(t, saves, 3)
		assert.Equal(t, "rt-2", saves[1].RefreshToken())
	})

	t.Run("should disconnect the connection when zoom rejects the refresh token", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		mappingRepository := mocks.NewZoomMeetingMappingRepository(t)
		connectionService := mocks.NewZoomOAuthConnectionService(t)
		zoomClient := mocks.NewZoomClientFacade(t)

		connectionRepository.On("Read", connectionID).Return(newConnection(), nil)
		appRepository.On("Read", appID).Return(newApp(), nil)
		connectionRepository.On("Save", mock.Anything, mock.Anything).Return(nil)

		zoomClient.On("RefreshAccessToken", mock.Anything, "client-id", "client-secret", "rt-1").Return(zoomint.TokenResponse{}, &zoomint.AuthError{Message: "Invalid or expired refresh token"})

		connectionService.On("Disconnect", mock.Anything, "Invalid or expired refresh token").Return(nil)

		service := NewZoomSyncService(connectionRepository, appRepository, mappingRepository, connectionService, zoomClient)

		// an auth failure is terminal, retrying the task cannot help
		err := service.SyncConnection(context.Background(), connectionID)
		assert.Nil(t, err)

		mappingRepository.AssertNotCalled(t, "UpsertMeetingIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should disconnect the connection when no credentials are stored", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		mappingRepository := mocks.NewZoomMeetingMappingRepository(t)
		connectionService := mocks.NewZoomOAuthConnectionService(t)
		zoomClient := mocks.NewZoomClientFacade(t)

		connection := newConnection()
		connection.Credentials = nil

		connectionRepository.On("Read", connectionID).Return(connection, nil)
		appRepository.On("Read", appID).Return(newApp(), nil)
		connectionRepository.On("Save", mock.Anything, mock.Anything).Return(nil)

		connectionService.On("Disconnect", mock.Anything, "No credentials found for zoom oauth connection").Return(nil)

		service := NewZoomSyncService(connectionRepository, appRepository, mappingRepository, connectionService, zoomClient)

		err := service.SyncConnection(context.Background(), connectionID)
		assert.Nil(t, err)

		zoomClient.AssertNotCalled(t, "RefreshAccessToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should return transient zoom api errors for the task engine to retry", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		mappingRepository := mocks.NewZoomMeetingMappingRepository(t)
		connectionService := mocks.NewZoomOAuthConnectionService(t)
		zoomClient := mocks.NewZoomClientFacade(t)

		connectionRepository.On("Read", connectionID).Return(newConnection(), nil)
		appRepository.On("Read", appID).Return(newApp(), nil)
		connectionRepository.On("Save", mock.Anything, mock.Anything).Return(nil)

		apiErr := &zoomint.APIError{StatusCode: 429, Body: "rate limited"}
		zoomClient.On("RefreshAccessToken", mock.Anything, "client-id", "client-secret", "rt-1").Return(zoomint.TokenResponse{AccessToken: "at-1"}, nil)
		zoomClient.On("ListMeetingIDs", mock.Anything, "at-1").Return(nil, apiErr)

		service := NewZoomSyncService(connectionRepository, appRepository, mappingRepository, connectionService, zoomClient)

		err := service.SyncConnection(context.Background(), connectionID)
		assert.Equal(t, apiErr, err)

		connectionService.AssertNotCalled(t, "Disconnect", mock.Anything, mock.Anything)
	})

	t.Run("should stop when recording the sync attempt fails", func(t *testing.T) {
		connectionRepository := mocks.NewZoomOAuthConnectionRepository(t)
		appRepository := mocks.NewZoomOAuthAppRepository(t)
		mappingRepository := mocks.NewZoomMeetingMappingRepository(t)
		connectionService := mocks.NewZoomOAuthConnectionService(t)
		zoomClient := mocks.NewZoomClientFacade(t)

		connectionRepository.On("Read", connectionID).Return(newConnection(), nil)
		appRepository.On("Read", appID).Return(newApp(), nil)
		connectionRepository.On("Save", mock.Anything, mock.Anything).Return(fmt.Errorf("database down"))

		service := NewZoomSyncService(connectionRepository, appRepository, mappingRepository, connectionService, zoomClient)

		err := service.SyncConnection(context.Background(), connectionID)
		assert.NotNil(t, err)

		zoomClient.AssertNotCalled(t, "RefreshAccessToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
