package domain

import "fmt"

var (
	MessageSuccessGetRecipes = "success get recipes"
	MessageNoIngredients     = "no expiring items to recommend recipes for"

	MessageFailedGetRecipes = "failed to get recipes"

	ErrNoIngredients            = fmt.Errorf("%w: no ingredients available for recipe generation", ErrNotFound)
	ErrInvalidPreparationTime   = fmt.Errorf("%w: invalid preparation time", ErrValidation)
	ErrRecipeServiceUnavailable = fmt.Errorf("%w: recipe service is not configured", ErrInternal)
	ErrGeminiAPIFailed          = fmt.Errorf("%w: gemini API processing failed", ErrInternal)
)

type (
	RecipeRecommendationRequest struct {
		CuisineType     string `json:"cuisine_type,omitempty"`
		DifficultyLevel string `json:"difficulty_level,omitempty"`
		PreparationTime int    `json:"preparation_time,omitempty"` // in minutes
	}

	Recipe struct {
		ID              string   `json:"id"`
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		Ingredients     []string `json:"ingredients"`
		PrepTimeMinutes int      `json:"prep_time_minutes"`
		CookTimeMinutes int      `json:"cook_time_minutes"`
		Servings        int      `json:"servings"`
		DifficultyLevel string   `json:"difficulty_level"`
		CuisineType     string   `json:"cuisine_type"`
	}

	// RecipeRecommendationResponse lists recipes built around the items
	// that are expiring soon.
	RecipeRecommendationResponse struct {
		Recipes       []Recipe         `json:"recipes"`
		TotalRecipes  int              `json:"total_recipes"`
		ExpiringItems int              `json:"expiring_items"`
		StatusSync    StatusSyncReport `json:"status_sync"`
	}
)
