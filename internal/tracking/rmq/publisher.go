package rmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
	"github.com/DigamberMehta/Store2Door-sub001/internal/order/model"
)

func (c *Client) PublishStatusChanged(ctx context.Context, o *model.Order, previous model.OrderStatus) error {
	msg := StatusChangedMessage{
		OrderID:         o.ID,
		Status:          o.Status,
		PreviousStatus:  previous,
		DriverID:        o.DriverID,
		TrackingHistory: o.TrackingHistory,
		ChangedAt:       o.UpdatedAt,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal status message: %w", err)
	}

	routingKey := fmt.Sprintf("order.status.%s", o.Status)

	if err := c.Channel.PublishWithContext(
		ctx,
		c.Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		logger.Error("publish_status_changed", "failed to publish status event", "", o.ID, err.Error())
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	logger.Debug("publish_status_changed", "status event published", "", o.ID)
	return nil
}

func (c *Client) PublishDriverAvailability(ctx context.Context, driverID string, available bool) error {
	msg := DriverAvailabilityMessage{
		DriverID:    driverID,
		IsAvailable: available,
		ReportedAt:  time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal availability message: %w", err)
	}

	if err := c.Channel.PublishWithContext(
		ctx,
		c.Exchange,
		"driver.availability",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		logger.Error("publish_availability", "failed to publish availability", "", "", err.Error())
		return fmt.Errorf("failed to publish availability: %w", err)
	}

	logger.Debug("publish_availability", "availability published", "", "")
	return nil
}
