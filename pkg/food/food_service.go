package food

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/entities"
	"Food-Inventory-Backend/internal/metrics"
	"Food-Inventory-Backend/internal/utils/mailing"
	"Food-Inventory-Backend/internal/utils/storage"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultPageLimit = 10

var dateLayouts = []string{"2006-01-02", time.RFC3339}

var expiringDigestTemplate = template.Must(template.New("digest").Parse(`<p>Hi {{.Name}},</p>
<p>The following items in your pantry are expiring soon:</p>
<ul>
{{- range .Items}}
<li>{{.Name}} ({{.Quantity}}) expires {{.ExpiryDate.Format "2006-01-02"}}, {{.DaysUntilExpiry}} day(s) left</li>
{{- end}}
</ul>`))

type (
	FoodService interface {
		AddFoodItem(ctx context.Context, req domain.AddFoodItemRequest, userID string) (domain.FoodItemResponse, error)
		UpdateFoodItem(ctx context.Context, id string, req domain.UpdateFoodItemRequest, userID string) (domain.FoodItemResponse, error)
		DeleteFoodItem(ctx context.Context, id string, userID string) error
		GetFoodItems(ctx context.Context, userID string, status string, page, limit int) (domain.FoodItemListResponse, error)
		GetFoodItemByID(ctx context.Context, id string, userID string) (domain.FoodItemResponse, error)
		UploadFoodImage(ctx context.Context, req domain.UploadFoodImageRequest, userID string) (domain.FoodItemResponse, error)
		GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error)
		GetExpiringItems(ctx context.Context, userID string) (domain.RefreshStatusResponse, error)
		NotifyExpiringItems(ctx context.Context, userID string) (domain.ExpiringDigestResponse, error)

		// ReconcileUserItems recomputes and persists the status of every
		// item the user owns.
		ReconcileUserItems(ctx context.Context, userID string) (domain.RefreshStatusResponse, error)
	}

	// UserLookup resolves the owner of food items, e.g. for e-mail digests.
	UserLookup interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	foodService struct {
		foodRepository FoodRepository
		users          UserLookup
		s3             storage.AwsS3
		mailer         mailing.Mailer
		metrics        metrics.MetricsCollector
		now            func() time.Time
	}
)

func NewFoodService(
	foodRepository FoodRepository,
	users UserLookup,
	s3 storage.AwsS3,
	mailer mailing.Mailer,
	collector metrics.MetricsCollector,
) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		users:          users,
		s3:             s3,
		mailer:         mailer,
		metrics:        collector,
		now:            time.Now,
	}
}

func (s *foodService) AddFoodItem(ctx context.Context, req domain.AddFoodItemRequest, userID string) (domain.FoodItemResponse, error) {
	name := strings.TrimSpace(req.Name)
	quantity := strings.TrimSpace(string(req.Quantity))
	if name == "" || quantity == "" || strings.TrimSpace(req.ManufacturingDate) == "" || strings.TrimSpace(req.ExpiryDate) == "" {
		return domain.FoodItemResponse{}, domain.ErrFoodFieldsRequired
	}

	manufacturingDate, err := parseDate(req.ManufacturingDate)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrInvalidManufacturingDate
	}

	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrInvalidExpiryDate
	}

	if manufacturingDate.After(expiryDate) {
		return domain.FoodItemResponse{}, domain.ErrManufacturedAfterExpiry
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrParseUUID
	}

	now := s.now()
	status := ClassifyFreshness(now, expiryDate)

	foodItem := &entities.FoodItem{
		ID:                uuid.New(),
		UserID:            userUUID,
		Name:              name,
		Quantity:          quantity,
		ManufacturingDate: manufacturingDate,
		ExpiryDate:        expiryDate,
		Status:            string(status),
		StatusCheckedAt:   now,
	}

	if err := s.foodRepository.AddFoodItem(ctx, foodItem); err != nil {
		return domain.FoodItemResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistFoodItem, err)
	}
	s.metrics.RecordItemCreated(foodItem.Status)

	return toFoodItemResponse(foodItem, now), nil
}

func (s *foodService) UpdateFoodItem(ctx context.Context, id string, req domain.UpdateFoodItemRequest, userID string) (domain.FoodItemResponse, error) {
	foodItem, err := s.getOwnedFoodItem(ctx, id, userID)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		foodItem.Name = name
	}

	if quantity := strings.TrimSpace(string(req.Quantity)); quantity != "" {
		foodItem.Quantity = quantity
	}

	if req.ManufacturingDate != "" {
		manufacturingDate, err := parseDate(req.ManufacturingDate)
		if err != nil {
			return domain.FoodItemResponse{}, domain.ErrInvalidManufacturingDate
		}
		foodItem.ManufacturingDate = manufacturingDate
	}

	if req.ExpiryDate != "" {
		expiryDate, err := parseDate(req.ExpiryDate)
		if err != nil {
			return domain.FoodItemResponse{}, domain.ErrInvalidExpiryDate
		}
		foodItem.ExpiryDate = expiryDate
	}

	if foodItem.ManufacturingDate.After(foodItem.ExpiryDate) {
		return domain.FoodItemResponse{}, domain.ErrManufacturedAfterExpiry
	}

	now := s.now()
	foodItem.Status = string(ClassifyFreshness(now, foodItem.ExpiryDate))
	foodItem.StatusCheckedAt = now

	if err := s.foodRepository.UpdateFoodItem(ctx, foodItem); err != nil {
		return domain.FoodItemResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistFoodItem, err)
	}

	return toFoodItemResponse(foodItem, now), nil
}

func (s *foodService) DeleteFoodItem(ctx context.Context, id string, userID string) error {
	foodItem, err := s.getOwnedFoodItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if foodItem.ImageURL != "" && s.s3 != nil {
		if objectKey := s.s3.GetObjectKeyFromLink(foodItem.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
				log.Warnw("failed to delete food item image", "item_id", id, "error", err)
			}
		}
	}

	if err := s.foodRepository.DeleteFoodItem(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistFoodItem, err)
	}
	return nil
}

func (s *foodService) GetFoodItems(ctx context.Context, userID string, status string, page, limit int) (domain.FoodItemListResponse, error) {
	if status != "" && status != domain.StatusFilterAll && !domain.FreshnessStatus(status).Valid() {
		return domain.FoodItemListResponse{}, domain.ErrInvalidStatusFilter
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	// Filtering runs on the reconciled labels so a failed status write
	// never moves an item into the wrong bucket.
	reconciled, err := s.ReconcileUserItems(ctx, userID)
	if err != nil {
		return domain.FoodItemListResponse{}, err
	}

	filtered := make([]domain.FoodItemResponse, 0, len(reconciled.Items))
	for _, item := range reconciled.Items {
		if status == "" || status == domain.StatusFilterAll || item.Status == domain.FreshnessStatus(status) {
			filtered = append(filtered, item)
		}
	}

	start := min((page-1)*limit, len(filtered))
	end := min(start+limit, len(filtered))

	return domain.FoodItemListResponse{
		Items:      filtered[start:end],
		Pagination: domain.NewPagination(page, limit, int64(len(filtered))),
		StatusSync: reconciled.StatusSync,
	}, nil
}

func (s *foodService) GetFoodItemByID(ctx context.Context, id string, userID string) (domain.FoodItemResponse, error) {
	foodItem, err := s.getOwnedFoodItem(ctx, id, userID)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	now := s.now()
	report := reconcileStatuses(ctx, s.foodRepository, s.metrics, []*entities.FoodItem{foodItem}, now)
	s.logStatusSync(userID, report)

	return toFoodItemResponse(foodItem, now), nil
}

func (s *foodService) UploadFoodImage(ctx context.Context, req domain.UploadFoodImageRequest, userID string) (domain.FoodItemResponse, error) {
	if s.s3 == nil {
		return domain.FoodItemResponse{}, domain.ErrStorageUnavailable
	}

	foodItem, err := s.getOwnedFoodItem(ctx, req.FoodItemID, userID)
	if err != nil {
		return domain.FoodItemResponse{}, err
	}

	fileName := fmt.Sprintf("food-item-%s", foodItem.ID.String())
	var objectKey string
	var uploadErr error

	if existingKey := s.s3.GetObjectKeyFromLink(foodItem.ImageURL); existingKey != "" {
		objectKey, uploadErr = s.s3.UpdateFile(ctx, existingKey, req.Image, storage.AllowImage...)
	} else {
		objectKey, uploadErr = s.s3.UploadFile(ctx, fileName, req.Image, "food-items", storage.AllowImage...)
	}

	if uploadErr != nil {
		if errors.Is(uploadErr, storage.ErrFileTypeNotAllowed) {
			return domain.FoodItemResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, uploadErr)
		}
		return domain.FoodItemResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistFoodItem, uploadErr)
	}

	now := s.now()
	foodItem.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	foodItem.Status = string(ClassifyFreshness(now, foodItem.ExpiryDate))
	foodItem.StatusCheckedAt = now

	if err := s.foodRepository.UpdateFoodItem(ctx, foodItem); err != nil {
		return domain.FoodItemResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistFoodItem, err)
	}

	return toFoodItemResponse(foodItem, now), nil
}

func (s *foodService) GetDashboardStats(ctx context.Context, userID string) (domain.DashboardStatsResponse, error) {
	reconciled, err := s.ReconcileUserItems(ctx, userID)
	if err != nil {
		return domain.DashboardStatsResponse{}, err
	}

	stats := domain.DashboardStatsResponse{
		TotalItems: len(reconciled.Items),
		StatusSync: reconciled.StatusSync,
	}
	for _, item := range reconciled.Items {
		switch item.Status {
		case domain.StatusGood:
			stats.GoodItems++
		case domain.StatusExpiringSoon:
			stats.ExpiringSoonItems++
		case domain.StatusExpired:
			stats.ExpiredItems++
		}
	}

	return stats, nil
}

func (s *foodService) GetExpiringItems(ctx context.Context, userID string) (domain.RefreshStatusResponse, error) {
	reconciled, err := s.ReconcileUserItems(ctx, userID)
	if err != nil {
		return domain.RefreshStatusResponse{}, err
	}

	expiring := make([]domain.FoodItemResponse, 0)
	for _, item := range reconciled.Items {
		if item.Status == domain.StatusExpiringSoon {
			expiring = append(expiring, item)
		}
	}

	return domain.RefreshStatusResponse{
		Items:      expiring,
		StatusSync: reconciled.StatusSync,
	}, nil
}

func (s *foodService) NotifyExpiringItems(ctx context.Context, userID string) (domain.ExpiringDigestResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ExpiringDigestResponse{}, domain.ErrUserNotFound
		}
		return domain.ExpiringDigestResponse{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	expiring, err := s.GetExpiringItems(ctx, userID)
	if err != nil {
		return domain.ExpiringDigestResponse{}, err
	}

	res := domain.ExpiringDigestResponse{
		Recipient: user.Email,
		ItemCount: len(expiring.Items),
	}
	if res.ItemCount == 0 {
		return res, nil
	}

	var body bytes.Buffer
	if err := expiringDigestTemplate.Execute(&body, map[string]any{
		"Name":  user.Name,
		"Items": expiring.Items,
	}); err != nil {
		return domain.ExpiringDigestResponse{}, fmt.Errorf("%w: %v", domain.ErrSendExpiringDigest, err)
	}

	subject := fmt.Sprintf("%d item(s) in your pantry are expiring soon", res.ItemCount)
	if err := s.mailer.SendMail(user.Email, subject, body.String()); err != nil {
		return domain.ExpiringDigestResponse{}, fmt.Errorf("%w: %v", domain.ErrSendExpiringDigest, err)
	}

	res.Sent = true
	return res, nil
}

func (s *foodService) ReconcileUserItems(ctx context.Context, userID string) (domain.RefreshStatusResponse, error) {
	foodItems, err := s.foodRepository.GetFoodItemsByUser(ctx, userID)
	if err != nil {
		return domain.RefreshStatusResponse{}, fmt.Errorf("%w: %v", domain.ErrLoadFoodItems, err)
	}

	now := s.now()
	report := reconcileStatuses(ctx, s.foodRepository, s.metrics, foodItems, now)
	s.logStatusSync(userID, report)

	items := make([]domain.FoodItemResponse, 0, len(foodItems))
	for _, item := range foodItems {
		items = append(items, toFoodItemResponse(item, now))
	}

	return domain.RefreshStatusResponse{
		Items:      items,
		StatusSync: report,
	}, nil
}

func (s *foodService) getOwnedFoodItem(ctx context.Context, id string, userID string) (*entities.FoodItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrFoodItemNotFound
	}

	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFoodItemNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrLoadFoodItems, err)
	}

	if foodItem.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}

	return foodItem, nil
}

func (s *foodService) logStatusSync(userID string, report domain.StatusSyncReport) {
	if len(report.Failed) == 0 {
		return
	}
	log.Warnw("food item status sync partially failed",
		"user_id", userID,
		"checked", report.Checked,
		"updated", report.Updated,
		"failed", len(report.Failed),
	)
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func toFoodItemResponse(item *entities.FoodItem, now time.Time) domain.FoodItemResponse {
	return domain.FoodItemResponse{
		ID:                item.ID.String(),
		Name:              item.Name,
		Quantity:          item.Quantity,
		ManufacturingDate: item.ManufacturingDate,
		ExpiryDate:        item.ExpiryDate,
		Status:            domain.FreshnessStatus(item.Status),
		DaysUntilExpiry:   DaysUntilExpiry(now, item.ExpiryDate),
		ImageURL:          item.ImageURL,
		CreatedAt:         item.CreatedAt,
	}
}
