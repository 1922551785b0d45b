package handlers

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/internal/api/presenters"
	"Food-Inventory-Backend/internal/middleware"
	"Food-Inventory-Backend/pkg/recipe"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipeRecommendations(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService) RecipeHandler {
	return &recipeHandler{recipeService: recipeService}
}

func (h *recipeHandler) GetRecipeRecommendations(c *fiber.Ctx) error {
	req := domain.RecipeRecommendationRequest{
		CuisineType:     c.Query("cuisine_type"),
		DifficultyLevel: c.Query("difficulty_level"),
		PreparationTime: c.QueryInt("prep_time", 0),
	}

	res, err := h.recipeService.GetRecipeRecommendations(c.Context(), req, middleware.AuthUserFrom(c).UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNoIngredients) {
			return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageNoIngredients)
		}
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}
