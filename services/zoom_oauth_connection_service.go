package services

import (
	"log/slog"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
)

type ZoomOAuthConnectionService struct {
	repository shared.ZoomOAuthConnectionRepository
	dispatcher shared.WebhookDispatcher
}

func NewZoomOAuthConnectionService(repository shared.ZoomOAuthConnectionRepository, dispatcher shared.WebhookDispatcher) *ZoomOAuthConnectionService {
	return &ZoomOAuthConnectionService{
		repository: repository,
		dispatcher: dispatcher,
	}
}

// Disconnect marks the connection as disconnected, records the failure
// reason and notifies the project's webhook subscribers. Subscribers are
// only notified when the state actually changed.
func (s *ZoomOAuthConnectionService) Disconnect(connection *models.ZoomOAuthConnection, reason string) error {
	wasConnected := connection.State == models.ZoomOAuthConnectionStateConnected

	connection.MarkDisconnected(reason)
	if err := s.repository.Save(nil, connection); err != nil {
		return err
	}

	if wasConnected {
		s.dispatchStateChange(*connection)
	}
	return nil
}

// Reconnect marks the connection as connected again and clears its recorded
// failure.
func (s *ZoomOAuthConnectionService) Reconnect(connection *models.ZoomOAuthConnection) error {
	wasDisconnected := connection.State == models.ZoomOAuthConnectionStateDisconnected

	connection.MarkConnected()
	if err := s.repository.Save(nil, connection); err != nil {
		return err
	}

	if wasDisconnected {
		s.dispatchStateChange(*connection)
	}
	return nil
}

func (s *ZoomOAuthConnectionService) dispatchStateChange(connection models.ZoomOAuthConnection) {
	// the state change is already persisted at this point, notifying the
	// subscribers is best effort
	if err := s.dispatcher.DispatchConnectionStateChange(connection); err != nil {
		slog.Error("could not dispatch connection state change webhook", "zoomOAuthConnectionId", connection.ObjectID, "err", err)
	}
}
