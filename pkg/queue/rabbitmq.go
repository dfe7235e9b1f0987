package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"yamdb/pkg/config"
	"yamdb/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	MailQueueName     = "mail_queue"
	MailExchange      = "mail"
	ConfirmationRoute = "confirmation_code"

	// AttemptsHeader counts how many times a task has been handed to the
	// consumer handler.
	AttemptsHeader      = "x-attempts"
	MaxDeliveryAttempts = 5
	RetryBackoff        = 2 * time.Second
)

// ConfirmationTask is the message handed to the mailer worker after signup.
type ConfirmationTask struct {
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	ConfirmationCode string    `json:"confirmation_code"`
	IssuedAt         time.Time `json:"issued_at"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		MailExchange, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		MailQueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		MailQueueName,     // queue name
		ConfirmationRoute, // routing key
		MailExchange,      // exchange
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SendConfirmationCode publishes the code for asynchronous delivery by the
// mailer worker.
func (c *Client) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	body, err := json.Marshal(ConfirmationTask{
		Email:            email,
		Username:         username,
		ConfirmationCode: code,
		IssuedAt:         time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		MailExchange,      // exchange
		ConfirmationRoute, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish confirmation task for %s: %v", username, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published confirmation task for %s to exchange=%s", username, MailExchange)
	return nil
}

// ConsumeConfirmationTasks hands every task to handler. A failed task is
// republished with its attempt count bumped and dropped once it reaches
// MaxDeliveryAttempts; malformed tasks are dropped right away.
func (c *Client) ConsumeConfirmationTasks(handler func(task ConfirmationTask) error) error {
	msgs, err := c.channel.Consume(
		MailQueueName, // queue
		"",            // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", MailQueueName)

	go func() {
		for msg := range msgs {
			var task ConfirmationTask
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal confirmation task: %v", err)
				msg.Nack(false, false)
				continue
			}

			if err := handler(task); err != nil {
				c.retry(msg, task, err)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

func (c *Client) retry(msg amqp.Delivery, task ConfirmationTask, cause error) {
	attempts := deliveryAttempts(msg.Headers) + 1
	if !shouldRetry(attempts) {
		c.logger.Error("[RABBITMQ] Dropping task for %s after %d attempts: %v", task.Username, attempts, cause)
		msg.Nack(false, false)
		return
	}

	c.logger.Warn("[RABBITMQ] Handler failed for %s (attempt %d/%d): %v", task.Username, attempts, MaxDeliveryAttempts, cause)
	time.Sleep(RetryBackoff * time.Duration(attempts))

	err := c.channel.PublishWithContext(context.Background(),
		MailExchange,
		ConfirmationRoute,
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			Headers:      withAttempts(msg.Headers, attempts),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to republish task for %s: %v", task.Username, err)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}

func shouldRetry(attempts int) bool {
	return attempts < MaxDeliveryAttempts
}

func deliveryAttempts(headers amqp.Table) int {
	switch v := headers[AttemptsHeader].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

func withAttempts(headers amqp.Table, attempts int) amqp.Table {
	out := make(amqp.Table, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out[AttemptsHeader] = int32(attempts)
	return out
}
