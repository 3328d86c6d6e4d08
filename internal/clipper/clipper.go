// Package clipper imports recipes from web pages: it fetches a URL, strips
// the page down to its text, has the chat model extract the structured
// recipe and stores it.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"chef-agent/internal/llm"
	"chef-agent/internal/recipe"
)

// Clipper fetches and extracts recipes from URLs.
type Clipper struct {
	recipes    *recipe.Repository
	model      llm.ChatModel
	httpClient *http.Client
}

// extractedRecipe is the JSON shape the model is asked to produce.
type extractedRecipe struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	PrepTime    int      `json:"prep_time_minutes"`
	CookTime    int      `json:"cook_time_minutes"`
	Servings    int      `json:"servings"`
	DietType    string   `json:"diet_type"`
	Tags        []string `json:"tags"`
}

// NewClipper creates a Clipper.
func NewClipper(recipes *recipe.Repository, model llm.ChatModel) *Clipper {
	return &Clipper{
		recipes: recipes,
		model:   model,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

const extractionPrompt = `You are a recipe extraction expert. Extract the recipe details from the following page text.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "description": "One sentence summary",
  "ingredients": ["2 cups flour", "1 tsp salt", ...],
  "steps": ["Step 1 description", "Step 2 description", ...],
  "prep_time_minutes": 30,
  "cook_time_minutes": 20,
  "servings": 4,
  "diet_type": "one of: low-carb, vegetarian, vegan, high-protein, keto, mediterranean, gluten-free, paleo, or empty",
  "tags": ["dinner", "quick"]
}

Page text:
%s`

// ClipURL fetches the URL, extracts the recipe via the model and saves it
// for the given user. The returned recipe carries its stored ID.
func (c *Clipper) ClipURL(ctx context.Context, url, userID string) (*recipe.Recipe, error) {
	content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	reply, err := c.model.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: fmt.Sprintf(extractionPrompt, content)},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("recipe extraction failed: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(reply.Content)), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if extracted.Title == "" || len(extracted.Steps) == 0 {
		return nil, fmt.Errorf("page at %s does not look like a recipe", url)
	}

	rec := c.toRecipe(extracted, userID)
	if err := c.recipes.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save clipped recipe: %w", err)
	}
	return rec, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save model tokens.
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return strings.TrimSpace(doc.Find("body").Text()), nil
}

func (c *Clipper) toRecipe(e extractedRecipe, userID string) *recipe.Recipe {
	dt, err := recipe.ParseDietType(e.DietType)
	if err != nil {
		dt = ""
	}
	return &recipe.Recipe{
		Title:           e.Title,
		Description:     e.Description,
		Instructions:    strings.Join(e.Steps, "\n"),
		PrepTimeMinutes: e.PrepTime,
		CookTimeMinutes: e.CookTime,
		Servings:        e.Servings,
		DietType:        dt,
		UserID:          userID,
		Ingredients:     parseIngredients(e.Ingredients),
		Tags:            e.Tags,
	}
}

// parseIngredients turns "2 cups flour" style lines into structured
// ingredients: leading number, optional known unit, rest is the name.
func parseIngredients(lines []string) []recipe.Ingredient {
	var out []recipe.Ingredient
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, parseIngredientLine(line))
	}
	return out
}

var knownUnits = map[string]bool{
	"g": true, "kg": true, "ml": true, "l": true, "cup": true, "cups": true,
	"tbsp": true, "tsp": true, "oz": true, "lb": true, "lbs": true,
	"pieces": true, "cloves": true, "slices": true,
}

func parseIngredientLine(line string) recipe.Ingredient {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return recipe.Ingredient{Name: line}
	}

	qty := ""
	if isQuantity(fields[0]) {
		qty = fields[0]
		fields = fields[1:]
	}
	unit := ""
	if len(fields) > 1 && knownUnits[strings.ToLower(fields[0])] {
		unit = strings.ToLower(fields[0])
		fields = fields[1:]
	}
	return recipe.Ingredient{
		Name:     strings.Join(fields, " "),
		Quantity: qty,
		Unit:     unit,
	}
}

func isQuantity(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if num, den, found := strings.Cut(s, "/"); found {
		_, errN := strconv.Atoi(num)
		_, errD := strconv.Atoi(den)
		return errN == nil && errD == nil
	}
	return false
}

// stripCodeFence removes a wrapping markdown code fence if the model added
// one despite the instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
