package rmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/logger"
)

type Client struct {
	Conn     *amqp.Connection
	Channel  *amqp.Channel
	Exchange string
}

func NewClient(conn *amqp.Connection, exchange string) (*Client, error) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("rmq_channel", "failed to open channel", "", "", err.Error())
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("rmq_channel", "channel opened successfully", "", "")
	return &Client{Conn: conn, Channel: ch, Exchange: exchange}, nil
}

func (c *Client) Close() error {
	if c.Channel != nil {
		if err := c.Channel.Close(); err != nil {
			logger.Warn("rmq_close_channel", "failed to close channel", "", "", err.Error())
			return fmt.Errorf("failed to close channel: %w", err)
		}
		logger.Info("rmq_close_channel", "channel closed", "", "")
	}
	return nil
}
