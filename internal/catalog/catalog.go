package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Item is a menu entry. PrepTime zero means no item-specific rule; the
// category classification (or the caller's baseline) applies instead.
type Item struct {
	ID       string
	Name     string
	Category string
	PrepTime time.Duration
}

// FastCategoryPrepTime applies to items whose category is classified fast
// (cold dishes leave the kitchen quicker than the grill).
const FastCategoryPrepTime = 12 * time.Minute

// fastCategories are menu sections served without grill time.
var fastCategories = map[string]bool{
	"ceviches": true,
	"bebidas":  true,
	"postres":  true,
}

// Catalog is the read-only menu lookup. It is loaded once at startup and
// never mutated afterwards, so lookups need no locking.
type Catalog struct {
	items  map[string]Item
	logger *slog.Logger
}

// New builds an empty catalog.
func New(logger *slog.Logger) *Catalog {
	return &Catalog{items: make(map[string]Item), logger: logger}
}

// Load reads the base menu CSV and, when present, the promotions JSON.
// Missing files are not fatal: the order workflow must keep working with an
// empty menu, every item then falls back to the baseline prep time.
func Load(menuPath, promotionsPath string, logger *slog.Logger) *Catalog {
	c := New(logger)

	if err := c.loadCSV(menuPath); err != nil {
		logger.Warn("menu csv not loaded", slog.String("path", menuPath), slog.String("error", err.Error()))
	}
	if promotionsPath != "" {
		if err := c.loadPromotions(promotionsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("promotions not loaded", slog.String("path", promotionsPath), slog.String("error", err.Error()))
		}
	}

	logger.Info("menu catalog ready", slog.Int("items", len(c.items)))
	return c
}

// Lookup returns the menu item and whether it exists.
func (c *Catalog) Lookup(itemID string) (Item, bool) {
	item, ok := c.items[itemID]
	return item, ok
}

// Len returns the number of loaded items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns every menu entry ordered by id, so the menu endpoint serves
// a stable listing.
func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// PrepTime resolves the kitchen prep time for an item: explicit per-item
// metadata first, then the fast-category rule, zero for unknown items so
// the caller applies its baseline.
func (c *Catalog) PrepTime(itemID string) time.Duration {
	item, ok := c.items[itemID]
	if !ok {
		return 0
	}
	if item.PrepTime > 0 {
		return item.PrepTime
	}
	if fastCategories[strings.ToLower(item.Category)] {
		return FastCategoryPrepTime
	}
	return 0
}

// loadCSV reads item_id,name,category,prep_minutes rows. The header row
// defines column order; unknown columns are ignored.
func (c *Catalog) loadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		item := Item{
			ID:       field(record, cols, "item_id"),
			Name:     field(record, cols, "name"),
			Category: field(record, cols, "category"),
		}
		if item.ID == "" {
			continue
		}
		if minutes := field(record, cols, "prep_minutes"); minutes != "" {
			if n, err := strconv.Atoi(minutes); err == nil && n > 0 {
				item.PrepTime = time.Duration(n) * time.Minute
			}
		}
		c.items[item.ID] = item
	}

	return nil
}

type promotion struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	PrepMinutes int    `json:"prep_minutes"`
	Active      *bool  `json:"active"`
}

// loadPromotions merges active promotion entries over the base menu.
func (c *Catalog) loadPromotions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var promos []promotion
	if err := json.Unmarshal(data, &promos); err != nil {
		return err
	}

	for _, p := range promos {
		if p.ItemID == "" || (p.Active != nil && !*p.Active) {
			continue
		}
		item := Item{ID: p.ItemID, Name: p.Name, Category: p.Category}
		if item.Category == "" {
			item.Category = "promociones"
		}
		if p.PrepMinutes > 0 {
			item.PrepTime = time.Duration(p.PrepMinutes) * time.Minute
		}
		c.items[item.ID] = item
	}

	return nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
