package kitchen

import (
	"context"
	"encoding/json"
	"log"

	"rasoi/internal/events"
)

// Worker consumes order events off the kitchen queue and dispatches
// tickets. It runs as a goroutine next to the HTTP server; losing the
// broker stops ticket creation but never blocks order taking.
type Worker struct {
	client  *events.AMQPClient
	service *Service
}

func NewWorker(client *events.AMQPClient, service *Service) *Worker {
	return &Worker{client: client, service: service}
}

// Run blocks until the delivery channel closes or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := w.client.Consume("kitchen-worker", 10)
	if err != nil {
		return err
	}

	log.Println("Kitchen worker consuming order events")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			var e events.Event
			if err := json.Unmarshal(d.Body, &e); err != nil {
				log.Printf("Kitchen worker: dropping malformed event: %v", err)
				d.Nack(false, false)
				continue
			}

			if err := w.handle(ctx, e); err != nil {
				log.Printf("Kitchen worker: failed to handle %s: %v", e.Name, err)
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) handle(ctx context.Context, e events.Event) error {
	if e.Name != events.OrderCreated {
		return nil
	}

	orderID, _ := e.Payload["order_id"].(string)
	if orderID == "" {
		return nil
	}

	o, err := w.service.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	tickets, err := w.service.Dispatch(ctx, o)
	if err != nil {
		return err
	}
	log.Printf("Kitchen worker: %s dispatched to %d station(s)", o.OrderNumber, len(tickets))
	return nil
}
