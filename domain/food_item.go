package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"
	"time"
)

var (
	MessageSuccessAddFoodItem       = "food item added successfully"
	MessageSuccessUpdateFoodItem    = "food item updated successfully"
	MessageSuccessDeleteFoodItem    = "food item deleted successfully"
	MessageSuccessGetFoodItems      = "food items retrieved successfully"
	MessageSuccessUploadFoodImage   = "food item image uploaded successfully"
	MessageSuccessGetDashboardStats = "dashboard statistics retrieved successfully"
	MessageSuccessRefreshStatus     = "food item status refreshed successfully"
	MessageSuccessNotifyExpiring    = "expiring items digest sent successfully"

	MessageFailedAddFoodItem       = "failed to add food item"
	MessageFailedUpdateFoodItem    = "failed to update food item"
	MessageFailedDeleteFoodItem    = "failed to delete food item"
	MessageFailedGetFoodItems      = "failed to retrieve food items"
	MessageFailedUploadFoodImage   = "failed to upload food item image"
	MessageFailedGetDashboardStats = "failed to retrieve dashboard statistics"
	MessageFailedRefreshStatus     = "failed to refresh food item status"
	MessageFailedNotifyExpiring    = "failed to send expiring items digest"

	ErrFoodFieldsRequired       = fmt.Errorf("%w: all fields are required", ErrValidation)
	ErrInvalidExpiryDate        = fmt.Errorf("%w: invalid expiry date", ErrValidation)
	ErrInvalidManufacturingDate = fmt.Errorf("%w: invalid manufacturing date", ErrValidation)
	ErrManufacturedAfterExpiry  = fmt.Errorf("%w: manufacturing date is after expiry date", ErrValidation)
	ErrInvalidStatusFilter      = fmt.Errorf("%w: invalid status filter", ErrValidation)
	ErrInvalidImageFormat       = fmt.Errorf("%w: invalid image format", ErrValidation)
	ErrFoodItemNotFound         = fmt.Errorf("%w: food item not found", ErrNotFound)
	ErrUnauthorizedAccess       = fmt.Errorf("%w: unauthorized access to food item", ErrForbidden)
	ErrLoadFoodItems            = fmt.Errorf("%w: failed to load food items", ErrInternal)
	ErrPersistFoodItem          = fmt.Errorf("%w: failed to persist food item", ErrInternal)
	ErrSendExpiringDigest       = fmt.Errorf("%w: failed to send expiring items digest", ErrInternal)
	ErrStorageUnavailable       = fmt.Errorf("%w: image storage is not configured", ErrInternal)
)

// FreshnessStatus is the last computed freshness label of a food item.
type FreshnessStatus string

const (
	StatusGood         FreshnessStatus = "good"
	StatusExpiringSoon FreshnessStatus = "expiring soon"
	StatusExpired      FreshnessStatus = "expired"

	StatusFilterAll = "all"
)

func (s FreshnessStatus) Valid() bool {
	switch s {
	case StatusGood, StatusExpiringSoon, StatusExpired:
		return true
	}
	return false
}

// Quantity accepts either a JSON number or a JSON string and keeps its
// textual form, e.g. 3, 2.5 or "2 kg".
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a number or a string: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}

type (
	AddFoodItemRequest struct {
		Name              string   `json:"name" form:"name" validate:"required"`
		Quantity          Quantity `json:"quantity" form:"quantity" validate:"required"`
		ManufacturingDate string   `json:"manufacturing_date" form:"manufacturing_date" validate:"required"`
		ExpiryDate        string   `json:"expiry_date" form:"expiry_date" validate:"required"`
	}

	UpdateFoodItemRequest struct {
		Name              string   `json:"name" validate:"omitempty"`
		Quantity          Quantity `json:"quantity" validate:"omitempty"`
		ManufacturingDate string   `json:"manufacturing_date" validate:"omitempty"`
		ExpiryDate        string   `json:"expiry_date" validate:"omitempty"`
	}

	UploadFoodImageRequest struct {
		FoodItemID string                `json:"food_id" form:"food_id" validate:"required,uuid"`
		Image      *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	FoodItemResponse struct {
		ID                string          `json:"id"`
		Name              string          `json:"name"`
		Quantity          string          `json:"quantity"`
		ManufacturingDate time.Time       `json:"manufacturing_date"`
		ExpiryDate        time.Time       `json:"expiry_date"`
		Status            FreshnessStatus `json:"status"`
		DaysUntilExpiry   int             `json:"days_until_expiry"`
		ImageURL          string          `json:"image_url,omitempty"`
		CreatedAt         time.Time       `json:"created_at"`
	}

	FoodItemListResponse struct {
		Items      []FoodItemResponse `json:"items"`
		Pagination Pagination         `json:"pagination"`
		StatusSync StatusSyncReport   `json:"status_sync"`
	}

	// StatusSyncFailure is one item whose recomputed status could not be
	// written back.
	StatusSyncFailure struct {
		ItemID string `json:"item_id"`
		Error  string `json:"error"`
	}

	StatusSyncReport struct {
		Checked int                 `json:"checked"`
		Updated int                 `json:"updated"`
		Failed  []StatusSyncFailure `json:"failed"`
	}

	RefreshStatusResponse struct {
		Items      []FoodItemResponse `json:"items"`
		StatusSync StatusSyncReport   `json:"status_sync"`
	}

	DashboardStatsResponse struct {
		TotalItems        int              `json:"total_items"`
		GoodItems         int              `json:"good_items"`
		ExpiringSoonItems int              `json:"expiring_soon_items"`
		ExpiredItems      int              `json:"expired_items"`
		StatusSync        StatusSyncReport `json:"status_sync"`
	}

	ExpiringDigestResponse struct {
		Recipient string `json:"recipient"`
		ItemCount int    `json:"item_count"`
		Sent      bool   `json:"sent"`
	}
)
