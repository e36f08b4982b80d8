package catalog

import (
	"math/rand"
	"strings"

	"storefront-service/internal/models"
)

// FeaturedMinRating is the lowest rating a product may have to be featured
const FeaturedMinRating = 4.5

// Search filters products whose name, category or any single tag contains query,
// ignoring case. A blank query returns products unchanged. Input order is preserved.
func Search(products []models.Product, query string) []models.Product {
	if strings.TrimSpace(query) == "" {
		return products
	}

	q := strings.ToLower(query)
	out := make([]models.Product, 0)
	for _, p := range products {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Product, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.Name), lowerQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Category), lowerQuery) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

// ByCategory returns the products whose category equals category exactly
func ByCategory(products []models.Product, category string) []models.Product {
	out := make([]models.Product, 0)
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Featured picks up to n highly rated products in random order
func Featured(products []models.Product, n int, rng *rand.Rand) []models.Product {
	picks := make([]models.Product, 0)
	for _, p := range products {
		if p.Rating >= FeaturedMinRating {
			picks = append(picks, p)
		}
	}

	rng.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })

	if len(picks) > n {
		picks = picks[:n]
	}
	return picks
}
