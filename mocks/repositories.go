// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package mocks

import (
	"testing"
	"time"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
)

type APIKeyRepository struct {
	Repository[uuid.UUID, models.APIKey]
}

func NewAPIKeyRepository(t *testing.T) *APIKeyRepository {
	m := &APIKeyRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *APIKeyRepository) FindByKeyHash(keyHash string) (models.APIKey, error) {
	args := m.Called(keyHash)
	var apiKey models.APIKey
	if args.Get(0) != nil {
		apiKey = args.Get(0).(models.APIKey)
	}
	return apiKey, args.Error(1)
}

func (m *APIKeyRepository) MarkAsLastUsedNow(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

type ZoomOAuthAppRepository struct {
	Repository[uuid.UUID, models.ZoomOAuthApp]
}

func NewZoomOAuthAppRepository(t *testing.T) *ZoomOAuthAppRepository {
	m := &ZoomOAuthAppRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ZoomOAuthAppRepository) FindByProjectID(projectID uuid.UUID) (models.ZoomOAuthApp, error) {
	args := m.Called(projectID)
	var app models.ZoomOAuthApp
	if args.Get(0) != nil {
		app = args.Get(0).(models.ZoomOAuthApp)
	}
	return app, args.Error(1)
}

func (m *ZoomOAuthAppRepository) FindByObjectID(projectID uuid.UUID, objectID string) (models.ZoomOAuthApp, error) {
	args := m.Called(projectID, objectID)
	var app models.ZoomOAuthApp
	if args.Get(0) != nil {
		app = args.Get(0).(models.ZoomOAuthApp)
	}
	return app, args.Error(1)
}

func (m *ZoomOAuthAppRepository) ReadByObjectID(objectID string) (models.ZoomOAuthApp, error) {
	args := m.Called(objectID)
	var app models.ZoomOAuthApp
	if args.Get(0) != nil {
		app = args.Get(0).(models.ZoomOAuthApp)
	}
	return app, args.Error(1)
}

type ZoomOAuthConnectionRepository struct {
	Repository[uuid.UUID, models.ZoomOAuthConnection]
}

func NewZoomOAuthConnectionRepository(t *testing.T) *ZoomOAuthConnectionRepository {
	m := &ZoomOAuthConnectionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ZoomOAuthConnectionRepository) FindByObjectID(projectID uuid.UUID, objectID string) (models.ZoomOAuthConnection, error) {
	args := m.Called(projectID, objectID)
	var connection models.ZoomOAuthConnection
	if args.Get(0) != nil {
		connection = args.Get(0).(models.ZoomOAuthConnection)
	}
	return connection, args.Error(1)
}

func (m *ZoomOAuthConnectionRepository) ListPage(projectID uuid.UUID, cursor *shared.PageCursor, pageSize int) ([]models.ZoomOAuthConnection, bool, error) {
	args := m.Called(projectID, cursor, pageSize)
	var connections []models.ZoomOAuthConnection
	if args.Get(0) != nil {
		connections = args.Get(0).([]models.ZoomOAuthConnection)
	}
	return connections, args.Bool(1), args.Error(2)
}

func (m *ZoomOAuthConnectionRepository) FindByAppAndUserID(appID uuid.UUID, userID string) (models.ZoomOAuthConnection, error) {
	args := m.Called(appID, userID)
	var connection models.ZoomOAuthConnection
	if args.Get(0) != nil {
		connection = args.Get(0).(models.ZoomOAuthConnection)
	}
	return connection, args.Error(1)
}

func (m *ZoomOAuthConnectionRepository) FindDisconnectedByAppID(appID uuid.UUID) ([]models.ZoomOAuthConnection, error) {
	args := m.Called(appID)
	var connections []models.ZoomOAuthConnection
	if args.Get(0) != nil {
		connections = args.Get(0).([]models.ZoomOAuthConnection)
	}
	return connections, args.Error(1)
}

func (m *ZoomOAuthConnectionRepository) FindConnectedSyncStaleSince(cutoff time.Time) ([]models.ZoomOAuthConnection, error) {
	args := m.Called(cutoff)
	var connections []models.ZoomOAuthConnection
	if args.Get(0) != nil {
		connections = args.Get(0).([]models.ZoomOAuthConnection)
	}
	return connections, args.Error(1)
}

func (m *ZoomOAuthConnectionRepository) CountByAppID(appID uuid.UUID) (int64, error) {
	args := m.Called(appID)
	return args.Get(0).(int64), args.Error(1)
}

type ZoomMeetingMappingRepository struct {
	Repository[uuid.UUID, models.ZoomMeetingToConnectionMapping]
}

func NewZoomMeetingMappingRepository(t *testing.T) *ZoomMeetingMappingRepository {
	m := &ZoomMeetingMappingRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ZoomMeetingMappingRepository) UpsertMeetingIDs(tx shared.DB, appID uuid.UUID, connectionID uuid.UUID, meetingIDs []string) error {
	args := m.Called(tx, appID, connectionID, meetingIDs)
	return args.Error(0)
}

type WebhookRepository struct {
	Repository[uuid.UUID, models.WebhookSubscription]
}

func NewWebhookRepository(t *testing.T) *WebhookRepository {
	m := &WebhookRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *WebhookRepository) GetProjectWebhooks(projectID uuid.UUID) ([]models.WebhookSubscription, error) {
	args := m.Called(projectID)
	var subscriptions []models.WebhookSubscription
	if args.Get(0) != nil {
		subscriptions = args.Get(0).([]models.WebhookSubscription)
	}
	return subscriptions, args.Error(1)
}

func (m *WebhookRepository) FindByObjectID(projectID uuid.UUID, objectID string) (models.WebhookSubscription, error) {
	args := m.Called(projectID, objectID)
	var subscription models.WebhookSubscription
	if args.Get(0) != nil {
		subscription = args.Get(0).(models.WebhookSubscription)
	}
	return subscription, args.Error(1)
}

type WebhookDeliveryAttemptRepository struct {
	Repository[uuid.UUID, models.WebhookDeliveryAttempt]
}

func NewWebhookDeliveryAttemptRepository(t *testing.T) *WebhookDeliveryAttemptRepository {
	m := &WebhookDeliveryAttemptRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *WebhookDeliveryAttemptRepository) ReadWithSubscription(id uuid.UUID) (models.WebhookDeliveryAttempt, error) {
	args := m.Called(id)
	var attempt models.WebhookDeliveryAttempt
	if args.Get(0) != nil {
		attempt = args.Get(0).(models.WebhookDeliveryAttempt)
	}
	return attempt, args.Error(1)
}

type TaskRepository struct {
	Repository[uuid.UUID, models.Task]
}

func NewTaskRepository(t *testing.T) *TaskRepository {
	m := &TaskRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TaskRepository) ClaimDue(limit int) ([]models.Task, error) {
	args := m.Called(limit)
	var tasks []models.Task
	if args.Get(0) != nil {
		tasks = args.Get(0).([]models.Task)
	}
	return tasks, args.Error(1)
}
