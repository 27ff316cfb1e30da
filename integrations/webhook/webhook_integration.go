// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package webhook

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/attendee-dev/attendee/database/models"
	"github.com/attendee-dev/attendee/database/repositories"
	databasetypes "github.com/attendee-dev/attendee/database/types"
	"github.com/attendee-dev/attendee/dtos"
	"github.com/attendee-dev/attendee/shared"
	"github.com/attendee-dev/attendee/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// WebhookIntegration owns the outbound webhook surface: the subscription
// crud endpoints and the dispatch of connection state change events into
// delivery attempts. Actual delivery happens asynchronously in the task
// runner.
type WebhookIntegration struct {
	webhookRepository shared.WebhookRepository
	attemptRepository shared.WebhookDeliveryAttemptRepository
	appRepository     shared.ZoomOAuthAppRepository
	taskService       shared.TaskService
}

var _ shared.WebhookDispatcher = &WebhookIntegration{}

func NewWebhookIntegration(db shared.DB, taskService shared.TaskService) *WebhookIntegration {
	return &WebhookIntegration{
		webhookRepository: repositories.NewWebhookRepository(db),
		attemptRepository: repositories.NewWebhookDeliveryAttemptRepository(db),
		appRepository:     repositories.NewZoomOAuthAppRepository(db),
		taskService:       taskService,
	}
}

// Save creates a subscription for the authenticated project. The response
// is the only place the signing secret ever shows up in plaintext.
func (w *WebhookIntegration) Save(ctx shared.Context) error {
	var req dtos.WebhookSubscriptionCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": "invalid request data"})
	}
	if err := shared.V.Struct(req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}

	project := shared.GetProject(ctx)
	secret := models.NewWebhookSecret()

	subscription := models.WebhookSubscription{
		ProjectID: project.ID,
		URL:       req.URL,
		Secret:    databasetypes.EncryptedString(secret),
		Triggers:  strings.Join(utils.DeduplicateSlice(req.Triggers, func(t string) string { return t }), " "),
		IsActive:  true,
	}

	if err := w.webhookRepository.Create(nil, &subscription); err != nil {
		slog.Error("could not create webhook subscription", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not create webhook subscription"})
	}

	return ctx.JSON(201, dtos.WebhookSubscriptionWithSecretDTO{
		WebhookSubscriptionDTO: dtos.NewWebhookSubscriptionDTO(subscription),
		Secret:                 secret,
	})
}

func (w *WebhookIntegration) List(ctx shared.Context) error {
	project := shared.GetProject(ctx)

	subscriptions, err := w.webhookRepository.GetProjectWebhooks(project.ID)
	if err != nil {
		slog.Error("could not list webhook subscriptions", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not list webhook subscriptions"})
	}

	return ctx.JSON(200, utils.Map(subscriptions, dtos.NewWebhookSubscriptionDTO))
}

func (w *WebhookIntegration) Delete(ctx shared.Context) error {
	project := shared.GetProject(ctx)

	subscription, err := w.webhookRepository.FindByObjectID(project.ID, shared.GetParam(ctx, "objectID"))
	if err != nil {
		return ctx.JSON(404, map[string]string{"error": "Webhook not found"})
	}

	if err := w.webhookRepository.Delete(nil, subscription.ID); err != nil {
		slog.Error("could not delete webhook subscription", "err", err)
		return ctx.JSON(500, map[string]string{"error": "could not delete webhook subscription"})
	}

	return ctx.JSON(200, dtos.NewWebhookSubscriptionDTO(subscription))
}

// DispatchConnectionStateChange writes one delivery attempt per matching
// subscription and enqueues the delivery tasks. The payload is frozen into
// the attempt row here, so later reads of the connection cannot change what
// subscribers see for this transition.
func (w *WebhookIntegration) DispatchConnectionStateChange(connection models.ZoomOAuthConnection) error {
	app, err := w.appRepository.Read(connection.ZoomOAuthAppID)
	if err != nil {
		return errors.Wrap(err, "could not load zoom oauth app for webhook dispatch")
	}

	subscriptions, err := w.webhookRepository.GetProjectWebhooks(app.ProjectID)
	if err != nil {
		return errors.Wrap(err, "could not load webhook subscriptions")
	}

	payload, err := json.Marshal(dtos.NewZoomOAuthConnectionDTO(connection, app))
	if err != nil {
		return errors.Wrap(err, "could not marshal connection payload")
	}

	trigger := models.WebhookTriggerZoomOAuthConnectionStateChange

	for _, subscription := range subscriptions {
		if !subscription.IsActive || !utils.ContainsInWhitespaceSeparatedStringList(subscription.Triggers, string(trigger)) {
			continue
		}

		attempt := models.WebhookDeliveryAttempt{
			WebhookSubscriptionID: subscription.ID,
			Trigger:               trigger,
			Payload:               datatypes.JSON(payload),
			Status:                models.WebhookDeliveryStatusPending,
			IdempotencyKey:        uuid.New(),
		}

		if err := w.attemptRepository.Create(nil, &attempt); err != nil {
			return errors.Wrap(err, "could not create webhook delivery attempt")
		}

		if err := w.taskService.Enqueue(models.TaskTypeDeliverWebhook, models.DeliverWebhookPayload{
			WebhookDeliveryAttemptID: attempt.ID,
		}); err != nil {
			return errors.Wrap(err, "could not enqueue webhook delivery")
		}

		slog.Info("enqueued webhook delivery", "subscriptionId", subscription.ID, "attemptId", attempt.ID, "trigger", trigger)
	}

	return nil
}
