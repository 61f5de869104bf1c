package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/entradahq/entrada/internal/domain"
	"github.com/entradahq/entrada/internal/testutil"
)

func TestPurchaseRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewPurchaseRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetEventForUpdate returns event and maps errors", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		eventID := testutil.InsertEvent(t, ctx, pool, "Concert", "25.50", 100, 100)

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			event, err := repo.GetEventForUpdate(txCtx, eventID)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if event.ID != eventID || event.AvailableTickets != 100 {
				t.Fatalf("unexpected event: %+v", event)
			}
			if event.Price.String() != "25.5" && event.Price.String() != "25.50" {
				t.Fatalf("unexpected price: %s", event.Price)
			}

			missingID := "00000000-0000-0000-0000-000000000001"
			if _, err := repo.GetEventForUpdate(txCtx, missingID); err != domain.ErrEventNotFound {
				t.Fatalf("expected ErrEventNotFound, got %v", err)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		if _, err := repo.GetEventForUpdate(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("DecrementAvailable refuses to go negative", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Concert", "10.00", 10, 3)

		remaining, err := repo.DecrementAvailable(ctx, eventID, 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if remaining != 1 {
			t.Fatalf("expected 1 remaining, got %d", remaining)
		}

		if _, err := repo.DecrementAvailable(ctx, eventID, 2); err != domain.ErrInsufficientTickets {
			t.Fatalf("expected ErrInsufficientTickets, got %v", err)
		}
	})

	t.Run("CreateOrder enforces id uniqueness", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Concert", "10.00", 10, 10)

		order := domain.Order{
			ID:         "ord-1",
			UserID:     "user-1",
			EventID:    eventID,
			Quantity:   2,
			UnitPrice:  mustDecimal(t, "10.00"),
			TotalPrice: mustDecimal(t, "20.00"),
			Status:     domain.OrderStatusValid,
			CreatedAt:  nowUTC(),
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := repo.CreateOrder(ctx, order); err != domain.ErrDuplicateOrder {
			t.Fatalf("expected ErrDuplicateOrder, got %v", err)
		}

		got, err := repo.GetOrderByID(ctx, "ord-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.Quantity != 2 || got.Status != domain.OrderStatusValid {
			t.Fatalf("unexpected order: %+v", got)
		}
		if !got.TotalPrice.Equal(order.TotalPrice) {
			t.Fatalf("expected total %s, got %s", order.TotalPrice, got.TotalPrice)
		}

		missing, err := repo.GetOrderByID(ctx, "missing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if missing != nil {
			t.Fatalf("expected nil, got %+v", missing)
		}
	})

	t.Run("rollback inside WithTx undoes the decrement", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Concert", "10.00", 10, 10)

		wantErr := domain.ErrDuplicateOrder
		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := repo.DecrementAvailable(txCtx, eventID, 4); err != nil {
				t.Fatalf("decrement: %v", err)
			}
			return wantErr
		})
		if err != wantErr {
			t.Fatalf("expected injected error, got %v", err)
		}

		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if event.AvailableTickets != 10 {
			t.Fatalf("expected rollback to restore 10 tickets, got %d", event.AvailableTickets)
		}
	})

	t.Run("UpdateOrderStatus enforces transitions", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Concert", "10.00", 10, 10)
		testutil.InsertOrder(t, ctx, pool, "ord-1", "user-1", eventID, 1, "valid")

		order, err := repo.UpdateOrderStatus(ctx, "ord-1", domain.OrderStatusUsed)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.Status != domain.OrderStatusUsed {
			t.Fatalf("expected used, got %s", order.Status)
		}

		if _, err := repo.UpdateOrderStatus(ctx, "ord-1", domain.OrderStatusCancelled); err != domain.ErrInvalidStatusTransition {
			t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
		}
		if _, err := repo.UpdateOrderStatus(ctx, "missing", domain.OrderStatusUsed); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("ListOrdersByUser and ListOrdersByEvent", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		eventID := testutil.InsertEvent(t, ctx, pool, "Concert", "10.00", 10, 10)
		otherID := testutil.InsertEvent(t, ctx, pool, "Theatre", "15.00", 10, 10)

		testutil.InsertOrder(t, ctx, pool, "ord-1", "user-1", eventID, 1, "valid")
		testutil.InsertOrder(t, ctx, pool, "ord-2", "user-1", otherID, 2, "valid")
		testutil.InsertOrder(t, ctx, pool, "ord-3", "user-2", eventID, 3, "used")

		byUser, err := repo.ListOrdersByUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("list by user: %v", err)
		}
		if len(byUser) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(byUser))
		}

		byEvent, err := repo.ListOrdersByEvent(ctx, eventID)
		if err != nil {
			t.Fatalf("list by event: %v", err)
		}
		if len(byEvent) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(byEvent))
		}
	})
}

// TestPurchaseRepository_RowLockSerialises drives two real transactions at the
// last ticket and asserts the row lock lets exactly one win.
func TestPurchaseRepository_RowLockSerialises(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewPurchaseRepository(pool)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	eventID := testutil.InsertEvent(t, ctx, pool, "Final Ticket", "10.00", 1, 1)

	buy := func(orderID string) error {
		return repo.WithTx(ctx, func(txCtx context.Context) error {
			event, err := repo.GetEventForUpdate(txCtx, eventID)
			if err != nil {
				return err
			}
			if event.AvailableTickets < 1 {
				return domain.ErrInsufficientTickets
			}
			if _, err := repo.DecrementAvailable(txCtx, eventID, 1); err != nil {
				return err
			}
			return repo.CreateOrder(txCtx, domain.Order{
				ID:         orderID,
				UserID:     "user",
				EventID:    eventID,
				Quantity:   1,
				UnitPrice:  mustDecimal(t, "10.00"),
				TotalPrice: mustDecimal(t, "10.00"),
				Status:     domain.OrderStatusValid,
				CreatedAt:  nowUTC(),
			})
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = buy("ord-race-" + string(rune('a'+n)))
		}(i)
	}
	wg.Wait()

	successes, losses := 0, 0
	for _, err := range errs {
		switch err {
		case nil:
			successes++
		case domain.ErrInsufficientTickets:
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d losses", successes, losses)
	}

	event, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if event.AvailableTickets != 0 {
		t.Fatalf("expected 0 tickets left, got %d", event.AvailableTickets)
	}
}
