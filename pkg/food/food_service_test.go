package food

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/entities"
	"Food-Inventory-Backend/internal/metrics"
	"Food-Inventory-Backend/internal/utils/storage"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type fakeFoodRepository struct {
	mu            sync.Mutex
	items         map[string]*entities.FoodItem
	statusWrites  []string
	failStatusFor map[string]error
	addErr        error
}

func newFakeFoodRepository(items ...*entities.FoodItem) *fakeFoodRepository {
	r := &fakeFoodRepository{
		items:         map[string]*entities.FoodItem{},
		failStatusFor: map[string]error{},
	}
	for _, item := range items {
		r.items[item.ID.String()] = item
	}
	return r
}

func (r *fakeFoodRepository) AddFoodItem(_ context.Context, foodItem *entities.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return r.addErr
	}
	stored := *foodItem
	r.items[foodItem.ID.String()] = &stored
	return nil
}

func (r *fakeFoodRepository) GetFoodItemByID(_ context.Context, id string) (*entities.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeFoodRepository) UpdateFoodItem(_ context.Context, foodItem *entities.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *foodItem
	r.items[foodItem.ID.String()] = &stored
	return nil
}

func (r *fakeFoodRepository) UpdateFoodItemStatus(_ context.Context, id string, status string, checkedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusWrites = append(r.statusWrites, id)
	if err, ok := r.failStatusFor[id]; ok {
		return err
	}
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Status = status
	item.StatusCheckedAt = checkedAt
	return nil
}

func (r *fakeFoodRepository) DeleteFoodItem(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeFoodRepository) GetFoodItemsByUser(_ context.Context, userID string) ([]*entities.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.FoodItem
	for _, item := range r.items {
		if item.UserID.String() == userID {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (r *fakeFoodRepository) stored(id uuid.UUID) entities.FoodItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.items[id.String()]
}

type fakeUsers map[string]*entities.User

func (u fakeUsers) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendMail(to string, subject string, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
	err      error
}

func (s *fakeStorage) UploadFile(_ context.Context, fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	key := folder + "/" + fileName + ".png"
	s.uploaded = append(s.uploaded, key)
	return key, nil
}

func (s *fakeStorage) UpdateFile(_ context.Context, objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploaded = append(s.uploaded, objectKey)
	return objectKey, nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *fakeStorage) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, "https://cdn.test/") {
		return ""
	}
	return strings.TrimPrefix(link, "https://cdn.test/")
}

func (s *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

type serviceFixture struct {
	service *foodService
	repo    *fakeFoodRepository
	mailer  *fakeMailer
	storage *fakeStorage
	owner   *entities.User
}

func newServiceFixture(t *testing.T, items ...*entities.FoodItem) *serviceFixture {
	t.Helper()
	owner := &entities.User{ID: uuid.New(), Name: "Ana", Email: "ana@pantry.test"}
	for _, item := range items {
		if item.UserID == uuid.Nil {
			item.UserID = owner.ID
		}
	}

	f := &serviceFixture{
		repo:    newFakeFoodRepository(items...),
		mailer:  &fakeMailer{},
		storage: &fakeStorage{},
		owner:   owner,
	}
	svc := NewFoodService(
		f.repo,
		fakeUsers{owner.ID.String(): owner},
		f.storage,
		f.mailer,
		metrics.NewCollector(prometheus.NewRegistry()),
	).(*foodService)
	svc.now = func() time.Time { return testNow }
	f.service = svc
	return f
}

func newItem(name string, expiry time.Time, status domain.FreshnessStatus) *entities.FoodItem {
	return &entities.FoodItem{
		ID:                uuid.New(),
		Name:              name,
		Quantity:          "1",
		ManufacturingDate: expiry.AddDate(0, -1, 0),
		ExpiryDate:        expiry,
		Status:            string(status),
	}
}

func TestAddFoodItem(t *testing.T) {
	f := newServiceFixture(t)

	res, err := f.service.AddFoodItem(context.Background(), domain.AddFoodItemRequest{
		Name:              "  Yogurt ",
		Quantity:          "2",
		ManufacturingDate: "2026-03-01",
		ExpiryDate:        "2026-03-13",
	}, f.owner.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Yogurt", res.Name)
	assert.Equal(t, "2", res.Quantity)
	assert.Equal(t, domain.StatusExpiringSoon, res.Status)
	assert.Equal(t, 3, res.DaysUntilExpiry)

	stored := f.repo.stored(uuid.MustParse(res.ID))
	assert.Equal(t, string(domain.StatusExpiringSoon), stored.Status)
	assert.Equal(t, f.owner.ID, stored.UserID)
	assert.True(t, stored.StatusCheckedAt.Equal(testNow))
}

func TestAddFoodItem_AcceptsRFC3339Dates(t *testing.T) {
	f := newServiceFixture(t)

	res, err := f.service.AddFoodItem(context.Background(), domain.AddFoodItemRequest{
		Name:              "Cheese",
		Quantity:          "250 g",
		ManufacturingDate: "2026-02-01T00:00:00Z",
		ExpiryDate:        "2026-04-01T00:00:00Z",
	}, f.owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGood, res.Status)
}

func TestAddFoodItem_Rejected(t *testing.T) {
	valid := domain.AddFoodItemRequest{
		Name:              "Milk",
		Quantity:          "1",
		ManufacturingDate: "2026-03-01",
		ExpiryDate:        "2026-03-20",
	}

	tests := []struct {
		name    string
		mutate  func(r *domain.AddFoodItemRequest)
		wantErr error
	}{
		{"missing quantity", func(r *domain.AddFoodItemRequest) { r.Quantity = "" }, domain.ErrFoodFieldsRequired},
		{"blank name", func(r *domain.AddFoodItemRequest) { r.Name = "   " }, domain.ErrFoodFieldsRequired},
		{"missing expiry", func(r *domain.AddFoodItemRequest) { r.ExpiryDate = "" }, domain.ErrFoodFieldsRequired},
		{"bad expiry", func(r *domain.AddFoodItemRequest) { r.ExpiryDate = "20/03/2026" }, domain.ErrInvalidExpiryDate},
		{"bad manufacturing", func(r *domain.AddFoodItemRequest) { r.ManufacturingDate = "yesterday" }, domain.ErrInvalidManufacturingDate},
		{"made after expiry", func(r *domain.AddFoodItemRequest) { r.ManufacturingDate = "2026-03-25" }, domain.ErrManufacturedAfterExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			req := valid
			tt.mutate(&req)

			_, err := f.service.AddFoodItem(context.Background(), req, f.owner.ID.String())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.repo.items)
		})
	}
}

func TestAddFoodItem_PersistFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.addErr = errors.New("disk full")

	_, err := f.service.AddFoodItem(context.Background(), domain.AddFoodItemRequest{
		Name:              "Milk",
		Quantity:          "1",
		ManufacturingDate: "2026-03-01",
		ExpiryDate:        "2026-03-20",
	}, f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrPersistFoodItem)
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestReconcileUserItems_RelabelsStaleItems(t *testing.T) {
	stale := newItem("ham", testNow.AddDate(0, 0, -2), domain.StatusGood)
	fresh := newItem("rice", testNow.AddDate(0, 1, 0), domain.StatusGood)
	f := newServiceFixture(t, stale, fresh)

	res, err := f.service.ReconcileUserItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 2, res.StatusSync.Checked)
	assert.Equal(t, 1, res.StatusSync.Updated)
	assert.Empty(t, res.StatusSync.Failed)
	assert.Equal(t, []string{stale.ID.String()}, f.repo.statusWrites)

	require.Len(t, res.Items, 2)
	assert.Equal(t, domain.StatusExpired, res.Items[0].Status)
	assert.Equal(t, domain.StatusGood, res.Items[1].Status)

	assert.Equal(t, string(domain.StatusExpired), f.repo.stored(stale.ID).Status)
}

func TestReconcileUserItems_Idempotent(t *testing.T) {
	f := newServiceFixture(t,
		newItem("ham", testNow.AddDate(0, 0, -2), domain.StatusGood),
		newItem("eggs", testNow.AddDate(0, 0, 4), domain.StatusGood),
	)

	_, err := f.service.ReconcileUserItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	require.Len(t, f.repo.statusWrites, 2)

	res, err := f.service.ReconcileUserItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, res.StatusSync.Updated)
	assert.Len(t, f.repo.statusWrites, 2)
}

func TestReconcileUserItems_PartialFailure(t *testing.T) {
	broken := newItem("fish", testNow.AddDate(0, 0, -1), domain.StatusGood)
	ok := newItem("bread", testNow.AddDate(0, 0, 2), domain.StatusGood)
	f := newServiceFixture(t, broken, ok)
	f.repo.failStatusFor[broken.ID.String()] = errors.New("connection reset")

	res, err := f.service.ReconcileUserItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 2, res.StatusSync.Checked)
	assert.Equal(t, 1, res.StatusSync.Updated)
	require.Len(t, res.StatusSync.Failed, 1)
	assert.Equal(t, broken.ID.String(), res.StatusSync.Failed[0].ItemID)
	assert.Equal(t, statusWriteFailed, res.StatusSync.Failed[0].Error)
	assert.NotContains(t, res.StatusSync.Failed[0].Error, "connection reset")

	assert.Equal(t, string(domain.StatusExpiringSoon), f.repo.stored(ok.ID).Status)
	assert.Equal(t, string(domain.StatusGood), f.repo.stored(broken.ID).Status)

	// The caller still sees the recomputed label for the failed item.
	assert.Equal(t, domain.StatusExpired, res.Items[0].Status)
}

func TestReconcileUserItems_ManyItems(t *testing.T) {
	var items []*entities.FoodItem
	for i := 0; i < 40; i++ {
		items = append(items, newItem("item", testNow.AddDate(0, 0, i-20), ""))
	}
	f := newServiceFixture(t, items...)

	res, err := f.service.ReconcileUserItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 40, res.StatusSync.Checked)
	assert.Equal(t, 40, res.StatusSync.Updated)
	assert.Len(t, f.repo.statusWrites, 40)
}

func TestGetFoodItemByID(t *testing.T) {
	item := newItem("ham", testNow.AddDate(0, 0, -2), domain.StatusGood)
	strangers := newItem("caviar", testNow.AddDate(0, 0, 30), domain.StatusGood)
	strangers.UserID = uuid.New()
	f := newServiceFixture(t, item, strangers)
	ctx := context.Background()

	res, err := f.service.GetFoodItemByID(ctx, item.ID.String(), f.owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, res.Status)
	assert.Equal(t, -2, res.DaysUntilExpiry)
	assert.Equal(t, string(domain.StatusExpired), f.repo.stored(item.ID).Status)

	_, err = f.service.GetFoodItemByID(ctx, strangers.ID.String(), f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.GetFoodItemByID(ctx, uuid.NewString(), f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrFoodItemNotFound)

	_, err = f.service.GetFoodItemByID(ctx, "not-a-uuid", f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrFoodItemNotFound)
}

func TestGetFoodItems_FiltersOnFreshLabels(t *testing.T) {
	f := newServiceFixture(t,
		newItem("ham", testNow.AddDate(0, 0, -2), domain.StatusGood),
		newItem("eggs", testNow.AddDate(0, 0, 4), domain.StatusGood),
		newItem("rice", testNow.AddDate(0, 2, 0), domain.StatusGood),
	)
	ctx := context.Background()

	res, err := f.service.GetFoodItems(ctx, f.owner.ID.String(), string(domain.StatusGood), 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "rice", res.Items[0].Name)
	assert.EqualValues(t, 1, res.Pagination.Total)
	assert.Equal(t, 2, res.StatusSync.Updated)

	res, err = f.service.GetFoodItems(ctx, f.owner.ID.String(), "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Equal(t, defaultPageLimit, res.Pagination.Limit)

	_, err = f.service.GetFoodItems(ctx, f.owner.ID.String(), "mouldy", 1, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusFilter)
}

func TestGetFoodItems_FailedWriteKeepsFreshLabel(t *testing.T) {
	ham := newItem("ham", testNow.AddDate(0, 0, -2), domain.StatusGood)
	rice := newItem("rice", testNow.AddDate(0, 2, 0), domain.StatusGood)
	f := newServiceFixture(t, ham, rice)
	f.repo.failStatusFor[ham.ID.String()] = errors.New("connection reset")
	ctx := context.Background()

	res, err := f.service.GetFoodItems(ctx, f.owner.ID.String(), string(domain.StatusExpired), 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ham", res.Items[0].Name)
	assert.Equal(t, domain.StatusExpired, res.Items[0].Status)
	assert.Equal(t, -2, res.Items[0].DaysUntilExpiry)
	assert.EqualValues(t, 1, res.Pagination.Total)
	require.Len(t, res.StatusSync.Failed, 1)
	assert.Equal(t, ham.ID.String(), res.StatusSync.Failed[0].ItemID)

	res, err = f.service.GetFoodItems(ctx, f.owner.ID.String(), string(domain.StatusGood), 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "rice", res.Items[0].Name)
	assert.EqualValues(t, 1, res.Pagination.Total)

	// The stored label is still stale.
	assert.Equal(t, string(domain.StatusGood), f.repo.stored(ham.ID).Status)
}

func TestGetFoodItems_PagesInExpiryOrder(t *testing.T) {
	var items []*entities.FoodItem
	for i := 0; i < 5; i++ {
		items = append(items, newItem(fmt.Sprintf("item-%d", i), testNow.AddDate(0, 1, -i), domain.StatusGood))
	}
	f := newServiceFixture(t, items...)
	ctx := context.Background()

	res, err := f.service.GetFoodItems(ctx, f.owner.ID.String(), domain.StatusFilterAll, 1, 2)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "item-4", res.Items[0].Name)
	assert.Equal(t, "item-3", res.Items[1].Name)
	assert.EqualValues(t, 5, res.Pagination.Total)
	assert.EqualValues(t, 3, res.Pagination.TotalPages)

	res, err = f.service.GetFoodItems(ctx, f.owner.ID.String(), domain.StatusFilterAll, 3, 2)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "item-0", res.Items[0].Name)

	res, err = f.service.GetFoodItems(ctx, f.owner.ID.String(), domain.StatusFilterAll, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.EqualValues(t, 5, res.Pagination.Total)
}

func TestUpdateFoodItem_RecomputesStatus(t *testing.T) {
	item := newItem("milk", testNow.AddDate(0, 0, 20), domain.StatusGood)
	f := newServiceFixture(t, item)

	res, err := f.service.UpdateFoodItem(context.Background(), item.ID.String(), domain.UpdateFoodItemRequest{
		Quantity:   "3",
		ExpiryDate: "2026-03-12",
	}, f.owner.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "3", res.Quantity)
	assert.Equal(t, "milk", res.Name)
	assert.Equal(t, domain.StatusExpiringSoon, res.Status)
	assert.Equal(t, string(domain.StatusExpiringSoon), f.repo.stored(item.ID).Status)

	_, err = f.service.UpdateFoodItem(context.Background(), item.ID.String(), domain.UpdateFoodItemRequest{
		ManufacturingDate: "2026-04-01",
	}, f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrManufacturedAfterExpiry)
}

func TestDeleteFoodItem_RemovesImage(t *testing.T) {
	item := newItem("milk", testNow.AddDate(0, 0, 20), domain.StatusGood)
	item.ImageURL = "https://cdn.test/food-items/milk.png"
	f := newServiceFixture(t, item)

	require.NoError(t, f.service.DeleteFoodItem(context.Background(), item.ID.String(), f.owner.ID.String()))
	assert.Equal(t, []string{"food-items/milk.png"}, f.storage.deleted)
	assert.Empty(t, f.repo.items)
}

func TestUploadFoodImage(t *testing.T) {
	item := newItem("milk", testNow.AddDate(0, 0, 20), domain.StatusGood)
	f := newServiceFixture(t, item)

	res, err := f.service.UploadFoodImage(context.Background(), domain.UploadFoodImageRequest{
		FoodItemID: item.ID.String(),
		Image:      &multipart.FileHeader{Filename: "milk.png"},
	}, f.owner.ID.String())
	require.NoError(t, err)

	wantKey := "food-items/food-item-" + item.ID.String() + ".png"
	assert.Equal(t, "https://cdn.test/"+wantKey, res.ImageURL)
	assert.Equal(t, []string{wantKey}, f.storage.uploaded)
	assert.Equal(t, res.ImageURL, f.repo.stored(item.ID).ImageURL)

	f.storage.err = storage.ErrFileTypeNotAllowed
	_, err = f.service.UploadFoodImage(context.Background(), domain.UploadFoodImageRequest{
		FoodItemID: item.ID.String(),
		Image:      &multipart.FileHeader{Filename: "milk.exe"},
	}, f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
}

func TestUploadFoodImage_WithoutStorage(t *testing.T) {
	item := newItem("milk", testNow.AddDate(0, 0, 20), domain.StatusGood)
	f := newServiceFixture(t, item)
	f.service.s3 = nil

	_, err := f.service.UploadFoodImage(context.Background(), domain.UploadFoodImageRequest{
		FoodItemID: item.ID.String(),
	}, f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestGetDashboardStats(t *testing.T) {
	f := newServiceFixture(t,
		newItem("ham", testNow.AddDate(0, 0, -2), domain.StatusGood),
		newItem("eggs", testNow.AddDate(0, 0, 4), domain.StatusGood),
		newItem("rice", testNow.AddDate(0, 2, 0), domain.StatusGood),
		newItem("beans", testNow.AddDate(1, 0, 0), domain.StatusGood),
	)

	stats, err := f.service.GetDashboardStats(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalItems)
	assert.Equal(t, 2, stats.GoodItems)
	assert.Equal(t, 1, stats.ExpiringSoonItems)
	assert.Equal(t, 1, stats.ExpiredItems)
	assert.Equal(t, 2, stats.StatusSync.Updated)
}

func TestGetDashboardStats_FailedWrite(t *testing.T) {
	ham := newItem("ham", testNow.AddDate(0, 0, -2), domain.StatusGood)
	eggs := newItem("eggs", testNow.AddDate(0, 0, 4), domain.StatusGood)
	rice := newItem("rice", testNow.AddDate(0, 2, 0), domain.StatusGood)
	f := newServiceFixture(t, ham, eggs, rice)
	f.repo.failStatusFor[ham.ID.String()] = errors.New("connection reset")
	f.repo.failStatusFor[eggs.ID.String()] = errors.New("connection reset")

	stats, err := f.service.GetDashboardStats(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 1, stats.GoodItems)
	assert.Equal(t, 1, stats.ExpiringSoonItems)
	assert.Equal(t, 1, stats.ExpiredItems)
	assert.Equal(t, 0, stats.StatusSync.Updated)
	assert.Len(t, stats.StatusSync.Failed, 2)
}

func TestGetExpiringItems_FailedWrite(t *testing.T) {
	eggs := newItem("eggs", testNow.AddDate(0, 0, 4), domain.StatusGood)
	bread := newItem("bread", testNow.AddDate(0, 0, 1), domain.StatusGood)
	f := newServiceFixture(t, eggs, bread)
	f.repo.failStatusFor[eggs.ID.String()] = errors.New("connection reset")

	res, err := f.service.GetExpiringItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "bread", res.Items[0].Name)
	assert.Equal(t, "eggs", res.Items[1].Name)
	assert.Equal(t, 1, res.StatusSync.Updated)
	require.Len(t, res.StatusSync.Failed, 1)
	assert.Equal(t, eggs.ID.String(), res.StatusSync.Failed[0].ItemID)
	assert.Equal(t, string(domain.StatusGood), f.repo.stored(eggs.ID).Status)
}

func TestNotifyExpiringItems(t *testing.T) {
	f := newServiceFixture(t,
		newItem("eggs", testNow.AddDate(0, 0, 4), domain.StatusGood),
		newItem("<b>bread</b>", testNow.AddDate(0, 0, 1), domain.StatusGood),
		newItem("rice", testNow.AddDate(0, 2, 0), domain.StatusGood),
	)

	res, err := f.service.NotifyExpiringItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, 2, res.ItemCount)
	assert.Equal(t, "ana@pantry.test", res.Recipient)

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, "ana@pantry.test", mail.to)
	assert.Contains(t, mail.subject, "2 item(s)")
	assert.Contains(t, mail.body, "eggs")
	assert.Contains(t, mail.body, "&lt;b&gt;bread&lt;/b&gt;")
	assert.NotContains(t, mail.body, "rice")
}

func TestNotifyExpiringItems_NothingToSend(t *testing.T) {
	f := newServiceFixture(t, newItem("rice", testNow.AddDate(0, 2, 0), domain.StatusGood))

	res, err := f.service.NotifyExpiringItems(context.Background(), f.owner.ID.String())
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Empty(t, f.mailer.sent)
}

func TestNotifyExpiringItems_MailerFailure(t *testing.T) {
	f := newServiceFixture(t, newItem("eggs", testNow.AddDate(0, 0, 4), domain.StatusGood))
	f.mailer.err = errors.New("smtp down")

	_, err := f.service.NotifyExpiringItems(context.Background(), f.owner.ID.String())
	assert.ErrorIs(t, err, domain.ErrSendExpiringDigest)

	_, err = f.service.NotifyExpiringItems(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestFoodService_WithSQLite(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "ana@pantry.test")
	repo := NewFoodRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddFoodItem(ctx, &entities.FoodItem{
		UserID:            owner.ID,
		Name:              "ham",
		Quantity:          "1",
		ManufacturingDate: testNow.AddDate(0, -1, 0),
		ExpiryDate:        testNow.AddDate(0, 0, -3),
		Status:            string(domain.StatusGood),
	}))

	svc := NewFoodService(repo, nil, nil, &fakeMailer{}, metrics.NewCollector(prometheus.NewRegistry())).(*foodService)
	svc.now = func() time.Time { return testNow }

	res, err := svc.ReconcileUserItems(ctx, owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, res.StatusSync.Updated)

	items, err := repo.GetFoodItemsByUser(ctx, owner.ID.String())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, string(domain.StatusExpired), items[0].Status)
}
