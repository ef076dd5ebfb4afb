package amqpbridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/notify"
)

// Exchange is the topic exchange transition snapshots are published to.
// Routing key per message: orders.<current-status>.
const Exchange = "orders.events"

// publisher is the slice of amqp.Channel the bridge needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Bridge re-publishes hub events to an AMQP broker so out-of-process
// boards and aggregators can follow the order flow. Strictly best-effort:
// publish failures are logged and dropped, they never reach the actor whose
// transition produced the event.
type Bridge struct {
	hub    *notify.Hub
	ch     publisher
	conn   *amqp.Connection
	logger *slog.Logger

	cancel func()
	done   chan struct{}
}

// Dial connects to the broker and declares the exchange.
func Dial(url string, hub *notify.Hub, logger *slog.Logger) (*Bridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	b := New(ch, hub, logger)
	b.conn = conn
	return b, nil
}

// New builds a bridge over an already-open channel.
func New(ch publisher, hub *notify.Hub, logger *slog.Logger) *Bridge {
	return &Bridge{hub: hub, ch: ch, logger: logger}
}

// Start subscribes to the hub and begins forwarding events.
func (b *Bridge) Start() {
	events, cancel := b.hub.Subscribe(notify.ScopeAll)
	b.cancel = cancel
	b.done = make(chan struct{})

	go func() {
		defer close(b.done)
		for event := range events {
			b.forward(event)
		}
	}()
}

// Stop unsubscribes, drains the forwarder, and closes broker resources.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
		<-b.done
	}
	if err := b.ch.Close(); err != nil {
		b.logger.Warn("amqp channel close failed", slog.String("error", err.Error()))
	}
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			b.logger.Warn("amqp connection close failed", slog.String("error", err.Error()))
		}
	}
}

// snapshot is the wire shape of one transition event: the full record, so
// consumers replace rather than merge.
type snapshot struct {
	ID              int64          `json:"id"`
	Table           *string        `json:"table"`
	GuestName       *string        `json:"guest_name"`
	Comments        *string        `json:"comments"`
	AllergyNotes    *string        `json:"allergy_notes"`
	Items           []snapshotItem `json:"items"`
	Status          string         `json:"status"`
	Previous        string         `json:"previous_status"`
	VoidReason      *string        `json:"void_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	SentToKitchenAt *time.Time     `json:"sent_to_kitchen_at"`
	ReadyAt         *time.Time     `json:"ready_at"`
	DeliveredAt     *time.Time     `json:"delivered_at"`
}

type snapshotItem struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func newSnapshot(event notify.Event) snapshot {
	o := event.Order
	items := make([]snapshotItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, snapshotItem{ItemID: it.ItemID, Name: it.Name, Quantity: it.Quantity})
	}
	return snapshot{
		ID:              o.ID,
		Table:           o.Table,
		GuestName:       o.GuestName,
		Comments:        o.Comments,
		AllergyNotes:    o.AllergyNotes,
		Items:           items,
		Status:          string(o.Status),
		Previous:        string(event.Previous),
		VoidReason:      o.VoidReason,
		CreatedAt:       o.CreatedAt,
		SentToKitchenAt: o.SentToKitchenAt,
		ReadyAt:         o.ReadyAt,
		DeliveredAt:     o.DeliveredAt,
	}
}

func (b *Bridge) forward(event notify.Event) {
	body, err := json.Marshal(newSnapshot(event))
	if err != nil {
		b.logger.Error("amqp event marshal failed", slog.Int64("order_id", event.Order.ID), slog.String("error", err.Error()))
		return
	}

	key := RoutingKey(event.Order.Status)
	err = b.ch.PublishWithContext(context.Background(), Exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		b.logger.Warn("amqp publish failed, event dropped",
			slog.Int64("order_id", event.Order.ID),
			slog.String("routing_key", key),
			slog.String("error", err.Error()),
		)
	}
}

// RoutingKey maps an order status to the topic routing key.
func RoutingKey(status model.OrderStatus) string {
	return "orders." + string(status)
}
