package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/callenovena/comanda/internal/catalog"
	domainErrors "github.com/callenovena/comanda/internal/domain/errors"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/notify"
	testhelpers "github.com/callenovena/comanda/internal/test"
	"github.com/callenovena/comanda/internal/usecase"
)

func newTestFacade(t *testing.T) (*ComandaFacade, *testhelpers.OrderRepositoryStub, *notify.Hub) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	repo := testhelpers.NewOrderRepositoryStub()
	orders := usecase.NewOrderUseCase(repo)
	views := usecase.NewViewUseCase(repo, nil, 0)
	auth := usecase.NewAuthUseCase(testhelpers.HasherStub{}, testhelpers.StrategyStub{}, map[model.Role]string{
		model.RoleWaiter: "hash:1111",
	})
	hub := notify.NewHub(4, logger)
	return NewComandaFacade(orders, views, auth, hub, catalog.New(logger)), repo, hub
}

func submitDraft(t *testing.T, facade *ComandaFacade) *model.Order {
	t.Helper()
	table := "7"
	order, err := facade.SubmitOrder(context.Background(), model.OrderDraft{
		Table: &table,
		Items: []model.OrderItem{{ItemID: "ceviche-mixto", Name: "Ceviche Mixto", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return order
}

func TestFacadeSubmitOrderPublishes(t *testing.T) {
	facade, _, hub := newTestFacade(t)

	events, cancel := hub.Subscribe(notify.RoleScope(model.RoleWaiter))
	defer cancel()

	order := submitDraft(t, facade)
	if order.Status != model.OrderStatusPendingWaiter {
		t.Fatalf("unexpected status: %s", order.Status)
	}

	select {
	case ev := <-events:
		if ev.Current != model.OrderStatusPendingWaiter || ev.Previous != "" {
			t.Fatalf("unexpected event: %+v", ev)
		}
		if ev.Order.ID != order.ID {
			t.Fatalf("unexpected order id: %d", ev.Order.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("expected submit event")
	}
}

func TestFacadeSubmitOrderEmptyDoesNotPublish(t *testing.T) {
	facade, _, hub := newTestFacade(t)

	events, cancel := hub.Subscribe(notify.RoleScope(model.RoleWaiter))
	defer cancel()

	if _, err := facade.SubmitOrder(context.Background(), model.OrderDraft{}); !errors.Is(err, domainErrors.ErrEmptyOrder) {
		t.Fatalf("expected empty order error, got %v", err)
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFacadeAdvanceOrderPublishes(t *testing.T) {
	facade, _, hub := newTestFacade(t)
	order := submitDraft(t, facade)

	events, cancel := hub.Subscribe(notify.RoleScope(model.RoleKitchen))
	defer cancel()

	updated, err := facade.AdvanceOrder(context.Background(), order.ID, model.OrderStatusConfirmed, model.RoleWaiter, nil)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != model.OrderStatusConfirmed || updated.SentToKitchenAt == nil {
		t.Fatalf("unexpected order: %+v", updated)
	}

	select {
	case ev := <-events:
		if ev.Previous != model.OrderStatusPendingWaiter || ev.Current != model.OrderStatusConfirmed {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("expected transition event")
	}
}

func TestFacadeAdvanceOrderInvalidMoveDoesNotPublish(t *testing.T) {
	facade, _, hub := newTestFacade(t)
	order := submitDraft(t, facade)

	events, cancel := hub.Subscribe(notify.RoleScope(model.RoleWaiter))
	defer cancel()

	_, err := facade.AdvanceOrder(context.Background(), order.ID, model.OrderStatusReady, model.RoleKitchen, nil)
	if !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFacadeAdvanceOrderConcurrentSingleWinner(t *testing.T) {
	facade, repo, _ := newTestFacade(t)
	order := submitDraft(t, facade)
	if _, err := facade.AdvanceOrder(context.Background(), order.ID, model.OrderStatusConfirmed, model.RoleWaiter, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Waiter cancels while the kitchen marks the same order ready. Both
	// moves are legal from confirmed, so only the compare-and-set decides.
	reason := "guest left"
	start := make(chan struct{})
	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		_, err := facade.AdvanceOrder(context.Background(), order.ID, model.OrderStatusCancelled, model.RoleWaiter, &reason)
		results <- err
	}()
	go func() {
		defer wg.Done()
		<-start
		_, err := facade.AdvanceOrder(context.Background(), order.ID, model.OrderStatusReady, model.RoleKitchen, nil)
		results <- err
	}()
	close(start)
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		failures++
		if !errors.Is(err, domainErrors.ErrConflict) && !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("loser must observe conflict or invalid transition, got %v", err)
		}
	}
	if successes != 1 || failures != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d failures", successes, failures)
	}

	repo.Lock()
	stored := *repo.Orders[order.ID]
	repo.Unlock()
	switch stored.Status {
	case model.OrderStatusReady:
		if stored.ReadyAt == nil || stored.VoidReason != nil || stored.DeliveredAt != nil {
			t.Fatalf("ready record inconsistent: %+v", stored)
		}
	case model.OrderStatusCancelled:
		if stored.VoidReason == nil || *stored.VoidReason != reason || stored.ReadyAt != nil {
			t.Fatalf("cancelled record inconsistent: %+v", stored)
		}
	default:
		t.Fatalf("unexpected final status %s", stored.Status)
	}
}

func TestFacadeViews(t *testing.T) {
	facade, _, _ := newTestFacade(t)
	order := submitDraft(t, facade)

	pending, err := facade.PendingWaiter(context.Background())
	if err != nil || len(pending) != 1 || pending[0].Order.ID != order.ID {
		t.Fatalf("unexpected pending view: %v err=%v", pending, err)
	}

	if _, err := facade.AdvanceOrder(context.Background(), order.ID, model.OrderStatusConfirmed, model.RoleWaiter, nil); err != nil {
		t.Fatalf("advance: %v", err)
	}

	kitchen, err := facade.InKitchen(context.Background())
	if err != nil || len(kitchen) != 1 {
		t.Fatalf("unexpected kitchen view: %v err=%v", kitchen, err)
	}
	if kitchen[0].Deadline <= 0 {
		t.Fatalf("expected positive deadline, got %s", kitchen[0].Deadline)
	}

	if _, err := facade.AdvanceOrder(context.Background(), order.ID, model.OrderStatusReady, model.RoleKitchen, nil); err != nil {
		t.Fatalf("advance to ready: %v", err)
	}

	ready, err := facade.ReadyBoard(context.Background())
	if err != nil || len(ready) != 1 || ready[0].Order.Status != model.OrderStatusReady {
		t.Fatalf("unexpected ready view: %v err=%v", ready, err)
	}

	view, err := facade.Order(context.Background(), order.ID)
	if err != nil || view.Order.ID != order.ID {
		t.Fatalf("unexpected single view: %+v err=%v", view, err)
	}

	all, err := facade.Orders(context.Background(), nil)
	if err != nil || len(all) != 1 {
		t.Fatalf("unexpected list: %v err=%v", all, err)
	}
}

func TestFacadeLoginAndParseToken(t *testing.T) {
	facade, _, _ := newTestFacade(t)

	token, err := facade.Login(context.Background(), model.RoleWaiter, "1111")
	if err != nil || token != "token:waiter" {
		t.Fatalf("unexpected login result: %q err=%v", token, err)
	}

	if _, err := facade.Login(context.Background(), model.RoleWaiter, "0000"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	role, err := facade.ParseToken("anything")
	if err != nil || role != model.RoleWaiter {
		t.Fatalf("unexpected parse result: %s err=%v", role, err)
	}
}

func TestFacadePurgeOrdersBefore(t *testing.T) {
	facade, repo, _ := newTestFacade(t)
	order := submitDraft(t, facade)

	repo.Lock()
	repo.Orders[order.ID].CreatedAt = time.Now().Add(-48 * time.Hour)
	repo.Unlock()

	removed, err := facade.PurgeOrdersBefore(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil || removed != 1 {
		t.Fatalf("unexpected purge result: removed=%d err=%v", removed, err)
	}
}

func TestFacadeMenuEmptyCatalog(t *testing.T) {
	facade, _, _ := newTestFacade(t)
	if items := facade.Menu(); len(items) != 0 {
		t.Fatalf("expected empty menu, got %d items", len(items))
	}
}

func TestFacadeSubscribe(t *testing.T) {
	facade, _, _ := newTestFacade(t)

	events, cancel := facade.Subscribe(notify.TableScope("3"))
	defer cancel()
	if events == nil {
		t.Fatal("expected subscription channel")
	}
}
