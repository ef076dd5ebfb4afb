package notify

import (
	"io"
	"log/slog"
	"testing"

	"github.com/callenovena/comanda/internal/domain/model"
)

func testHub(buffer int) *Hub {
	return NewHub(buffer, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func tableOrder(id int64, table string) model.Order {
	return model.Order{ID: id, Table: &table, Status: model.OrderStatusPendingWaiter}
}

func TestEventScopes(t *testing.T) {
	event := Event{Order: tableOrder(1, "5")}
	scopes := event.Scopes()
	if len(scopes) != 3 {
		t.Fatalf("expected role scopes plus table scope, got %v", scopes)
	}
	if scopes[0] != RoleScope(model.RoleWaiter) || scopes[1] != RoleScope(model.RoleKitchen) {
		t.Fatalf("unexpected role scopes %v", scopes)
	}
	if scopes[2] != TableScope("5") {
		t.Fatalf("unexpected table scope %v", scopes[2])
	}

	noTable := Event{Order: model.Order{ID: 2}}
	if len(noTable.Scopes()) != 2 {
		t.Fatalf("off-table order must only reach role scopes, got %v", noTable.Scopes())
	}
}

func TestHubDeliversToMatchingScopes(t *testing.T) {
	hub := testHub(4)

	waiter, cancelWaiter := hub.Subscribe(RoleScope(model.RoleWaiter))
	defer cancelWaiter()
	kitchen, cancelKitchen := hub.Subscribe(RoleScope(model.RoleKitchen))
	defer cancelKitchen()
	table, cancelTable := hub.Subscribe(TableScope("5"))
	defer cancelTable()
	otherTable, cancelOther := hub.Subscribe(TableScope("9"))
	defer cancelOther()

	hub.Publish(Event{Order: tableOrder(7, "5"), Previous: model.OrderStatusPendingWaiter, Current: model.OrderStatusConfirmed})

	for name, ch := range map[string]<-chan Event{"waiter": waiter, "kitchen": kitchen, "table": table} {
		select {
		case ev := <-ch:
			if ev.Order.ID != 7 || ev.Current != model.OrderStatusConfirmed {
				t.Fatalf("%s received unexpected event %+v", name, ev)
			}
		default:
			t.Fatalf("%s subscriber did not receive the event", name)
		}
	}

	select {
	case ev := <-otherTable:
		t.Fatalf("table 9 must not receive table 5 events, got %+v", ev)
	default:
	}
}

func TestHubDeliversExactlyOncePerSubscriber(t *testing.T) {
	hub := testHub(4)
	ch, cancel := hub.Subscribe(RoleScope(model.RoleWaiter))
	defer cancel()

	hub.Publish(Event{Order: tableOrder(1, "5")})

	<-ch
	select {
	case ev := <-ch:
		t.Fatalf("expected exactly one delivery, got second %+v", ev)
	default:
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := testHub(1)
	ch, cancel := hub.Subscribe(RoleScope(model.RoleKitchen))
	defer cancel()

	hub.Publish(Event{Order: model.Order{ID: 1}})
	hub.Publish(Event{Order: model.Order{ID: 2}})

	if got := len(ch); got != 1 {
		t.Fatalf("expected one buffered event, got %d", got)
	}
	if hub.Dropped() != 1 {
		t.Fatalf("expected one dropped event, got %d", hub.Dropped())
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := testHub(4)
	ch, cancel := hub.Subscribe(RoleScope(model.RoleWaiter))

	if hub.SubscriberCount(RoleScope(model.RoleWaiter)) != 1 {
		t.Fatal("expected one subscriber after subscribe")
	}

	cancel()
	cancel() // idempotent

	if hub.SubscriberCount(RoleScope(model.RoleWaiter)) != 0 {
		t.Fatal("expected no subscribers after cancel")
	}

	if _, open := <-ch; open {
		t.Fatal("expected channel to be closed after cancel")
	}

	// Publishing after cancel must not panic or deliver.
	hub.Publish(Event{Order: model.Order{ID: 3}})
}

func TestHubAllScopeSeesEveryEvent(t *testing.T) {
	hub := testHub(4)
	all, cancel := hub.Subscribe(ScopeAll)
	defer cancel()

	hub.Publish(Event{Order: tableOrder(1, "5")})
	hub.Publish(Event{Order: model.Order{ID: 2}})

	if got := len(all); got != 2 {
		t.Fatalf("expected all-scope to see both events, got %d", got)
	}
}
