package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrCategoryInvalid indicates an unknown gallery category.
var ErrCategoryInvalid = errors.New("gallery category is invalid")

// Category names one gallery section of the campaign site.
type Category string

const (
	CategoryHero            Category = "hero"
	CategoryEvents          Category = "events"
	CategoryActivities      Category = "activities"
	CategoryProposedActions Category = "proposed-actions"
)

var allCategories = []Category{
	CategoryHero,
	CategoryEvents,
	CategoryActivities,
	CategoryProposedActions,
}

// Categories returns every known gallery category.
func Categories() []Category {
	result := make([]Category, len(allCategories))
	copy(result, allCategories)
	return result
}

// ParseCategory validates a raw category value.
func ParseCategory(raw string) (Category, error) {
	candidate := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, category := range allCategories {
		if candidate == category {
			return category, nil
		}
	}
	return "", ErrCategoryInvalid
}

// StorageKey derives the persistence key for the category.
func (c Category) StorageKey() string {
	return "campaign-gallery-" + string(c)
}

// Item is one image in a gallery. ImageURL holds either a plain URL or an
// embedded data URI so persisted items never reference transient resources.
type Item struct {
	ID          int64  `json:"id"`
	ImageURL    string `json:"imageUrl"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Alt         string `json:"alt,omitempty"`
	Order       int    `json:"order"`
	Featured    bool   `json:"featured,omitempty"`
}

// sortByOrder orders items ascending by their order value, keeping the
// relative sequence of equal values.
func sortByOrder(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
}

// cloneItems returns an independent copy of items.
func cloneItems(items []Item) []Item {
	result := make([]Item, len(items))
	copy(result, items)
	return result
}

var seedData = map[Category][]Item{
	CategoryHero: {
		{
			ID:          1,
			ImageURL:    "https://images.unsplash.com/photo-1524069290683-0457abfe42c3?auto=format&fit=crop&w=1600&q=80",
			Title:       "Juntos por el barrio",
			Description: "Nuestra candidatura en la plaza central durante el lanzamiento de campaña.",
			Alt:         "Vecinos reunidos en la plaza central",
			Order:       0,
			Featured:    true,
		},
		{
			ID:          2,
			ImageURL:    "https://images.unsplash.com/photo-1529070538774-1843cb3265df?auto=format&fit=crop&w=1600&q=80",
			Title:       "Escuchamos a los vecinos",
			Description: "Recorridos casa por casa para recoger propuestas de la comunidad.",
			Alt:         "Equipo de campaña conversando con vecinos",
			Order:       1,
		},
	},
	CategoryEvents: {
		{
			ID:          1,
			ImageURL:    "https://images.unsplash.com/photo-1511578314322-379afb476865?auto=format&fit=crop&w=1600&q=80",
			Title:       "Asamblea abierta",
			Description: "Primera asamblea abierta del año en el centro comunitario.",
			Order:       0,
		},
		{
			ID:          2,
			ImageURL:    "https://images.unsplash.com/photo-1475721027785-f74eccf877e2?auto=format&fit=crop&w=1600&q=80",
			Title:       "Feria de propuestas",
			Description: "Mesas temáticas donde cada vecino sumó ideas al programa.",
			Order:       1,
		},
	},
	CategoryActivities: {
		{
			ID:          1,
			ImageURL:    "https://images.unsplash.com/photo-1559027615-cd4628902d4a?auto=format&fit=crop&w=1600&q=80",
			Title:       "Jornada de limpieza",
			Description: "Voluntarios recuperando el parque junto al río.",
			Order:       0,
		},
	},
	CategoryProposedActions: {
		{
			ID:          1,
			ImageURL:    "https://images.unsplash.com/photo-1497436072909-60f360e1d4b1?auto=format&fit=crop&w=1600&q=80",
			Title:       "Más espacios verdes",
			Description: "Propuesta de nuevos corredores verdes para el distrito.",
			Order:       0,
		},
		{
			ID:          2,
			ImageURL:    "https://images.unsplash.com/photo-1519389950473-47ba0277781c?auto=format&fit=crop&w=1600&q=80",
			Title:       "Aulas conectadas",
			Description: "Plan de equipamiento digital para las escuelas públicas.",
			Order:       1,
		},
	},
}

// SeedItems returns the default content for a category. Callers receive a
// fresh copy on every call.
func SeedItems(category Category) []Item {
	return cloneItems(seedData[category])
}
