// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/model"
	q "github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/queue"
)

// PublishOrderApproved publishes an OrderApprovedEvent for an order
// whose stock was just reserved. Any error is logged and returned so
// the caller can choose to ignore it. Messages are marked persistent.
func PublishOrderApproved(ctx context.Context, order *model.Order) error {
	ev := q.OrderApprovedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		UserName:    order.UserName,
		UserEmail:   order.UserEmail,
		Status:      string(order.Status),
		Lines:       eventLines(order),
		TotalAmount: order.TotalAmount.StringFixed(2),
		ApprovedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	return publishJSON(ctx, q.OrderApprovedQueue, ev)
}

// PublishOrderCancelled publishes an OrderCancelledEvent after a user
// cancels an order for a refund and the stock has been released.
func PublishOrderCancelled(ctx context.Context, order *model.Order) error {
	ev := q.OrderCancelledEvent{
		OrderID:      order.ID,
		UserID:       order.UserID,
		UserName:     order.UserName,
		UserEmail:    order.UserEmail,
		Lines:        eventLines(order),
		RefundAmount: order.TotalAmount.StringFixed(2),
		CancelledAt:  time.Now().UTC().Format(time.RFC3339),
	}
	return publishJSON(ctx, q.OrderCancelledQueue, ev)
}

func eventLines(order *model.Order) []q.OrderEventLine {
	lines := make([]q.OrderEventLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, q.OrderEventLine{
			TicketClass:     string(l.Kind),
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase.StringFixed(2),
		})
	}
	return lines
}

// publishJSON opens a short-lived connection, declares the target
// queue (idempotent, durable) and publishes one persistent JSON
// message to it via the default exchange.
func publishJSON(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
