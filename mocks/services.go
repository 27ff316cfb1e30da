// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/attendee-dev/attendee/database"
	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/integrations/zoomint"
	"github.com/stretchr/testify/mock"
)

type TaskService struct {
	mock.Mock
}

func NewTaskService(t *testing.T) *TaskService {
	m := &TaskService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TaskService) Enqueue(taskType models.TaskType, payload any) error {
	args := m.Called(taskType, payload)
	return args.Error(0)
}

func (m *TaskService) EnqueueAt(taskType models.TaskType, payload any, runAt time.Time) error {
	args := m.Called(taskType, payload, runAt)
	return args.Error(0)
}

type ConfigService struct {
	mock.Mock
}

func NewConfigService(t *testing.T) *ConfigService {
	m := &ConfigService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ConfigService) GetJSONConfig(key string, v any) error {
	args := m.Called(key, v)
	return args.Error(0)
}

func (m *ConfigService) SetJSONConfig(key string, v any) error {
	args := m.Called(key, v)
	return args.Error(0)
}

func (m *ConfigService) RemoveConfig(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type LeaderElector struct {
	mock.Mock
}

func NewLeaderElector(t *testing.T) *LeaderElector {
	m := &LeaderElector{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *LeaderElector) IsLeader() bool {
	args := m.Called()
	return args.Bool(0)
}

type ZoomOAuthConnectionService struct {
	mock.Mock
}

func NewZoomOAuthConnectionService(t *testing.T) *ZoomOAuthConnectionService {
	m := &ZoomOAuthConnectionService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ZoomOAuthConnectionService) Disconnect(connection *models.ZoomOAuthConnection, reason string) error {
	args := m.Called(connection, reason)
	return args.Error(0)
}

func (m *ZoomOAuthConnectionService) Reconnect(connection *models.ZoomOAuthConnection) error {
	args := m.Called(connection)
	return args.Error(0)
}

type WebhookDispatcher struct {
	mock.Mock
}

func NewWebhookDispatcher(t *testing.T) *WebhookDispatcher {
	m := &WebhookDispatcher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *WebhookDispatcher) DispatchConnectionStateChange(connection models.ZoomOAuthConnection) error {
	args := m.Called(connection)
	return args.Error(0)
}

type ZoomClientFacade struct {
	mock.Mock
}

func NewZoomClientFacade(t *testing.T) *ZoomClientFacade {
	m := &ZoomClientFacade{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ZoomClientFacade) ExchangeAuthorizationCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (zoomint.TokenResponse, error) {
	args := m.Called(ctx, clientID, clientSecret, code, redirectURI)
	var token zoomint.TokenResponse
	if args.Get(0) != nil {
		token = args.Get(0).(zoomint.TokenResponse)
	}
	return token, args.Error(1)
}

func (m *ZoomClientFacade) RefreshAccessToken(ctx context.Context, clientID, clientSecret, refreshToken string) (zoomint.TokenResponse, error) {
	args := m.Called(ctx, clientID, clientSecret, refreshToken)
	var token zoomint.TokenResponse
	if args.Get(0) != nil {
		token = args.Get(0).(zoomint.TokenResponse)
	}
	return token, args.Error(1)
}

func (m *ZoomClientFacade) ValidateClientCredentials(ctx context.Context, clientID, clientSecret string) (bool, error) {
	args := m.Called(ctx, clientID, clientSecret)
	return args.Bool(0), args.Error(1)
}

func (m *ZoomClientFacade) GetMe(ctx context.Context, accessToken string) (zoomint.User, error) {
	args := m.Called(ctx, accessToken)
	var user zoomint.User
	if args.Get(0) != nil {
		user = args.Get(0).(zoomint.User)
	}
	return user, args.Error(1)
}

func (m *ZoomClientFacade) ListMeetingIDs(ctx context.Context, accessToken string) ([]string, error) {
	args := m.Called(ctx, accessToken)
	var meetingIDs []string
	if args.Get(0) != nil {
		meetingIDs = args.Get(0).([]string)
	}
	return meetingIDs, args.Error(1)
}

type Broker struct {
	mock.Mock
}

func NewBroker(t *testing.T) *Broker {
	m := &Broker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Broker) Publish(ctx context.Context, message database.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *Broker) Subscribe(topic database.Channel) (<-chan map[string]any, error) {
	args := m.Called(topic)
	var messages <-chan map[string]any
	if args.Get(0) != nil {
		messages = args.Get(0).(<-chan map[string]any)
	}
	return messages, args.Error(1)
}
