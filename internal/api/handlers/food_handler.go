package handlers

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/internal/api/presenters"
	"Food-Inventory-Backend/internal/middleware"
	"Food-Inventory-Backend/pkg/food"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FoodHandler interface {
		AddFoodItem(c *fiber.Ctx) error
		UpdateFoodItem(c *fiber.Ctx) error
		DeleteFoodItem(c *fiber.Ctx) error
		GetFoodItems(c *fiber.Ctx) error
		GetFoodItemDetails(c *fiber.Ctx) error
		UploadFoodImage(c *fiber.Ctx) error
		GetDashboardStats(c *fiber.Ctx) error
		GetExpiringItems(c *fiber.Ctx) error
		NotifyExpiringItems(c *fiber.Ctx) error
		RefreshStatuses(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		validator   *validator.Validate
	}
)

func NewFoodHandler(foodService food.FoodService, validator *validator.Validate) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		validator:   validator,
	}
}

func (h *foodHandler) AddFoodItem(c *fiber.Ctx) error {
	req := new(domain.AddFoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddFoodItem, err)
	}

	res, err := h.foodService.AddFoodItem(c.Context(), *req, middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedAddFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFoodItem)
}

func (h *foodHandler) UpdateFoodItem(c *fiber.Ctx) error {
	req := new(domain.UpdateFoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateFoodItem, err)
	}

	res, err := h.foodService.UpdateFoodItem(c.Context(), c.Params("id"), *req, middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedUpdateFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateFoodItem)
}

func (h *foodHandler) DeleteFoodItem(c *fiber.Ctx) error {
	if err := h.foodService.DeleteFoodItem(c.Context(), c.Params("id"), middleware.AuthUserFrom(c).UserID); err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedDeleteFoodItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodItem)
}

func (h *foodHandler) GetFoodItems(c *fiber.Ctx) error {
	status := c.Query("status", domain.StatusFilterAll)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	res, err := h.foodService.GetFoodItems(c.Context(), middleware.AuthUserFrom(c).UserID, status, page, limit)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) GetFoodItemDetails(c *fiber.Ctx) error {
	item, err := h.foodService.GetFoodItemByID(c.Context(), c.Params("id"), middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) UploadFoodImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req := domain.UploadFoodImageRequest{
		FoodItemID: c.Params("id"),
		Image:      file,
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadFoodImage, err)
	}

	res, err := h.foodService.UploadFoodImage(c.Context(), req, middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedUploadFoodImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadFoodImage)
}

func (h *foodHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.foodService.GetDashboardStats(c.Context(), middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetDashboardStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetDashboardStats)
}

func (h *foodHandler) GetExpiringItems(c *fiber.Ctx) error {
	res, err := h.foodService.GetExpiringItems(c.Context(), middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) NotifyExpiringItems(c *fiber.Ctx) error {
	res, err := h.foodService.NotifyExpiringItems(c.Context(), middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedNotifyExpiring, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessNotifyExpiring)
}

func (h *foodHandler) RefreshStatuses(c *fiber.Ctx) error {
	res, err := h.foodService.ReconcileUserItems(c.Context(), middleware.AuthUserFrom(c).UserID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedRefreshStatus, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRefreshStatus)
}
