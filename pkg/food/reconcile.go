package food

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/entities"
	"Food-Inventory-Backend/internal/metrics"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentStatusWrites bounds the per-item updates issued by one
// reconciliation.
const maxConcurrentStatusWrites = 8

// statusWriteFailed is reported to clients in place of the storage error.
const statusWriteFailed = "status write failed"

// reconcileStatuses recomputes the status of every item against now. Items
// whose stored label differs are written back, one independent update each;
// unchanged items cause no write. The returned items always carry the fresh
// label, whether or not their write succeeded.
func reconcileStatuses(
	ctx context.Context,
	repo FoodRepository,
	collector metrics.MetricsCollector,
	items []*entities.FoodItem,
	now time.Time,
) domain.StatusSyncReport {
	report := domain.StatusSyncReport{
		Checked: len(items),
		Failed:  []domain.StatusSyncFailure{},
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(maxConcurrentStatusWrites)

	for _, item := range items {
		fresh := string(ClassifyFreshness(now, item.ExpiryDate))
		if item.Status == fresh {
			continue
		}

		previous := item.Status
		item.Status = fresh
		item.StatusCheckedAt = now

		id := item.ID.String()
		g.Go(func() error {
			err := repo.UpdateFoodItemStatus(ctx, id, fresh, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnw("food item status write failed", "item_id", id, "status", fresh, "error", err)
				report.Failed = append(report.Failed, domain.StatusSyncFailure{
					ItemID: id,
					Error:  statusWriteFailed,
				})
				collector.RecordStatusSyncFailure()
				return nil
			}
			report.Updated++
			collector.RecordStatusTransition(previous, fresh)
			return nil
		})
	}

	// Workers never return an error; failures are collected in the report.
	_ = g.Wait()

	sort.Slice(report.Failed, func(i, j int) bool {
		return report.Failed[i].ItemID < report.Failed[j].ItemID
	})
	return report
}
