// Package events publishes catalog change notifications to RabbitMQ so
// downstream consumers (price monitors, storefront caches) can react without
// polling the catalog. Publishing is a synchronous, best-effort side effect:
// the catalog operation has already committed by the time an event goes out.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"grocer/internal/models"

	amqp "github.com/streadway/amqp"
)

const catalogQueue = "catalog_events"

// Publisher is the event sink the catalog services write to.
type Publisher interface {
	PublishProductCreated(product *models.Product) error
	PublishImportCompleted(batchID string, imported, failed int) error
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the catalog event queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		catalogQueue, // name
		true,         // durable (persists messages across broker restarts)
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", catalogQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s queue declared.", catalogQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishProductCreated publishes a product.created event.
func (c *Client) PublishProductCreated(product *models.Product) error {
	return c.publish(map[string]interface{}{
		"event":    "product.created",
		"id":       product.ID,
		"name":     product.Name,
		"price":    product.Price,
		"category": product.CategoryValue(),
	})
}

// PublishImportCompleted publishes a catalog.import.completed event with the
// batch accounting.
func (c *Client) PublishImportCompleted(batchID string, imported, failed int) error {
	return c.publish(map[string]interface{}{
		"event":    "catalog.import.completed",
		"batch_id": batchID,
		"imported": imported,
		"failed":   failed,
	})
}

func (c *Client) publish(payload map[string]interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",           // exchange: default exchange
		catalogQueue, // routing key: the queue name
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent catalog event: %s", body)
	return nil
}
