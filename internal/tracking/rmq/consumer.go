package rmq

import (
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
)

// ConsumeAssignments feeds dispatch assignment decisions into the handler.
// The dispatcher owns driver matching; this core only applies the resulting
// ready_for_pickup -> assigned transition.
func (c *Client) ConsumeAssignments(queueName string, handler func(msg AssignmentMessage)) error {
	deliveries, err := c.consume(queueName, "order.assignment")
	if err != nil {
		return err
	}

	go func() {
		for d := range deliveries {
			var msg AssignmentMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logger.Warn("consume_assignment", "failed to unmarshal assignment", "", "", err.Error())
				continue
			}
			handler(msg)
		}
	}()

	return nil
}

// ConsumeLocationPings is the AMQP ingress for driver positions. Both this
// path and the socket path converge on the broadcast hub.
func (c *Client) ConsumeLocationPings(queueName string, handler func(msg LocationPingMessage)) error {
	deliveries, err := c.consume(queueName, "driver.location.*")
	if err != nil {
		return err
	}

	go func() {
		for d := range deliveries {
			var msg LocationPingMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logger.Warn("consume_location", "failed to unmarshal location ping", "", "", err.Error())
				continue
			}
			handler(msg)
		}
	}()

	return nil
}

func (c *Client) consume(queueName, bindingKey string) (<-chan amqp.Delivery, error) {
	q, err := c.Channel.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := c.Channel.QueueBind(
		q.Name,
		bindingKey,
		c.Exchange,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := c.Channel.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	return deliveries, nil
}
