package recipe

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type (
	RecipeService interface {
		GetRecipeRecommendations(ctx context.Context, req domain.RecipeRecommendationRequest, userID string) (domain.RecipeRecommendationResponse, error)
	}

	// ExpiringItemLister returns the user's items labelled expiring soon
	// after their statuses have been reconciled.
	ExpiringItemLister interface {
		GetExpiringItems(ctx context.Context, userID string) (domain.RefreshStatusResponse, error)
	}

	HTTPClient interface {
		Do(req *http.Request) (*http.Response, error)
	}

	GeminiConfig struct {
		APIKey  string
		Model   string
		BaseURL string
	}

	recipeService struct {
		foodItems ExpiringItemLister
		client    HTTPClient
		config    GeminiConfig
	}

	geminiResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	generatedRecipe struct {
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		Ingredients     []string `json:"ingredients"`
		PrepTimeMinutes int      `json:"prepTimeMinutes"`
		CookTimeMinutes int      `json:"cookTimeMinutes"`
		Servings        int      `json:"servings"`
		DifficultyLevel string   `json:"difficultyLevel"`
		CuisineType     string   `json:"cuisineType"`
	}
)

func LoadGeminiConfig() GeminiConfig {
	return GeminiConfig{
		APIKey:  utils.GetConfig("GEMINI_API_KEY"),
		Model:   utils.GetConfig("GEMINI_MODEL"),
		BaseURL: defaultGeminiBaseURL,
	}
}

func NewRecipeService(foodItems ExpiringItemLister, client HTTPClient, config GeminiConfig) RecipeService {
	if config.BaseURL == "" {
		config.BaseURL = defaultGeminiBaseURL
	}
	return &recipeService{
		foodItems: foodItems,
		client:    client,
		config:    config,
	}
}

func (s *recipeService) GetRecipeRecommendations(ctx context.Context, req domain.RecipeRecommendationRequest, userID string) (domain.RecipeRecommendationResponse, error) {
	if req.PreparationTime < 0 {
		return domain.RecipeRecommendationResponse{}, domain.ErrInvalidPreparationTime
	}

	expiring, err := s.foodItems.GetExpiringItems(ctx, userID)
	if err != nil {
		return domain.RecipeRecommendationResponse{}, err
	}

	res := domain.RecipeRecommendationResponse{
		Recipes:       []domain.Recipe{},
		ExpiringItems: len(expiring.Items),
		StatusSync:    expiring.StatusSync,
	}
	if len(expiring.Items) == 0 {
		return res, domain.ErrNoIngredients
	}

	if s.config.APIKey == "" || s.config.Model == "" {
		return domain.RecipeRecommendationResponse{}, domain.ErrRecipeServiceUnavailable
	}

	recipes, err := s.generateRecipes(ctx, expiring.Items, req)
	if err != nil {
		return domain.RecipeRecommendationResponse{}, err
	}

	res.Recipes = recipes
	res.TotalRecipes = len(recipes)
	return res, nil
}

func (s *recipeService) generateRecipes(ctx context.Context, items []domain.FoodItemResponse, req domain.RecipeRecommendationRequest) ([]domain.Recipe, error) {
	prompt, err := buildPrompt(items, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailed, err)
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature": 0.7,
			"topP":        0.8,
			"topK":        40,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailed, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(s.config.BaseURL, "/"), s.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.config.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Errorw("gemini request rejected", "status", resp.StatusCode, "body", string(detail))
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrGeminiAPIFailed, resp.StatusCode)
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailed, err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, domain.ErrGeminiAPIFailed
	}

	return parseRecipes(geminiResp.Candidates[0].Content.Parts[0].Text)
}

func buildPrompt(items []domain.FoodItemResponse, req domain.RecipeRecommendationRequest) (string, error) {
	ingredients := make([]map[string]any, 0, len(items))
	for _, item := range items {
		ingredients = append(ingredients, map[string]any{
			"name":            item.Name,
			"quantity":        item.Quantity,
			"expiryDate":      item.ExpiryDate.Format("2006-01-02"),
			"daysUntilExpiry": item.DaysUntilExpiry,
		})
	}

	filters := map[string]any{}
	if req.CuisineType != "" {
		filters["cuisineType"] = req.CuisineType
	}
	if req.DifficultyLevel != "" {
		filters["difficultyLevel"] = req.DifficultyLevel
	}
	if req.PreparationTime > 0 {
		filters["maxPrepTimeMinutes"] = req.PreparationTime
	}

	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return "", err
	}
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"You are a professional chef recommending recipes that use up food before it spoils. "+
			"These pantry items are expiring soon (with quantities and expiry dates): %s. "+
			"Apply these preferences: %s. "+
			"Generate 5 realistic recipes, prioritising the items closest to expiry. "+
			"Respond with only a JSON array of objects with the fields "+
			"title, description, ingredients (array of strings), prepTimeMinutes, cookTimeMinutes, "+
			"servings, difficultyLevel, cuisineType.",
		string(ingredientsJSON),
		string(filtersJSON),
	), nil
}

// parseRecipes extracts the JSON array from the model's text. A single
// object is accepted as a one-element list.
func parseRecipes(text string) ([]domain.Recipe, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || start > end {
		start = strings.Index(text, "{")
		end = strings.LastIndex(text, "}")
		if start == -1 || end == -1 || start > end {
			return nil, fmt.Errorf("%w: invalid response format", domain.ErrGeminiAPIFailed)
		}
		text = "[" + text[start:end+1] + "]"
	} else {
		text = text[start : end+1]
	}

	var generated []generatedRecipe
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGeminiAPIFailed, err)
	}

	recipes := make([]domain.Recipe, 0, len(generated))
	for _, g := range generated {
		if strings.TrimSpace(g.Title) == "" {
			continue
		}
		recipe := domain.Recipe{
			ID:              uuid.NewString(),
			Title:           g.Title,
			Description:     g.Description,
			Ingredients:     g.Ingredients,
			PrepTimeMinutes: g.PrepTimeMinutes,
			CookTimeMinutes: g.CookTimeMinutes,
			Servings:        g.Servings,
			DifficultyLevel: g.DifficultyLevel,
			CuisineType:     g.CuisineType,
		}
		if recipe.Ingredients == nil {
			recipe.Ingredients = []string{}
		}
		if recipe.PrepTimeMinutes == 0 {
			recipe.PrepTimeMinutes = 15
		}
		if recipe.CookTimeMinutes == 0 {
			recipe.CookTimeMinutes = 30
		}
		if recipe.Servings == 0 {
			recipe.Servings = 4
		}
		if recipe.DifficultyLevel == "" {
			recipe.DifficultyLevel = "Medium"
		}
		if recipe.CuisineType == "" {
			recipe.CuisineType = "International"
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}
