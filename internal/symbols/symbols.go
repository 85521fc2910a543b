// Package symbols holds the read-only catalog of pictographic symbols shown
// on the board, grouped into categories.
package symbols

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
)

//go:embed symbols.json
var catalogJSON []byte

const (
	// CustomGlyph is the glyph given to typed symbols.
	CustomGlyph = "💬"

	// CustomColor is the color tag given to typed symbols.
	CustomColor = "bg-gray-100"

	customPrefix = "custom-"
)

// Symbol is an atomic selectable communication unit.
type Symbol struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	English  string `json:"en,omitempty"`
	Glyph    string `json:"img"`
	ColorTag string `json:"color"`
	IsCustom bool   `json:"isCustom,omitempty"`
}

// Category is an ordered group of symbols.
type Category struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	NameEn  string   `json:"nameEn"`
	Icon    string   `json:"icon"`
	Color   string   `json:"color"`
	Symbols []Symbol `json:"symbols"`
}

// Catalog is an immutable table of categories and their symbols.
type Catalog struct {
	categories []Category
	byID       map[string]Symbol
}

// Parse builds a catalog from its JSON form.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Categories []Category `json:"categories"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	c := &Catalog{
		categories: doc.Categories,
		byID:       make(map[string]Symbol),
	}
	for _, cat := range doc.Categories {
		for _, s := range cat.Symbols {
			if s.ID == "" {
				return nil, fmt.Errorf("category %q: symbol without id", cat.ID)
			}
			if _, dup := c.byID[s.ID]; dup {
				return nil, fmt.Errorf("duplicate symbol id %q", s.ID)
			}
			c.byID[s.ID] = s
		}
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogJSON)
		if err != nil {
			panic(fmt.Sprintf("embedded symbol catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Categories returns the categories in display order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Lookup returns the symbol with the given id.
func (c *Catalog) Lookup(id string) (Symbol, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// All returns every symbol in category order.
func (c *Catalog) All() []Symbol {
	out := make([]Symbol, 0, len(c.byID))
	for _, cat := range c.categories {
		out = append(out, cat.Symbols...)
	}
	return out
}

// Search returns the symbols whose text or English gloss contains query,
// ignoring case. An empty query matches nothing.
func (c *Catalog) Search(query string) []Symbol {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	// Casers carry state and are not shared between goroutines.
	fold := cases.Fold()
	q = fold.String(q)

	var out []Symbol
	for _, s := range c.All() {
		if strings.Contains(fold.String(s.Text), q) ||
			strings.Contains(fold.String(s.English), q) {
			out = append(out, s)
		}
	}
	return out
}

// Suggest returns symbols whose English gloss or text holds the characters
// of query in order, best match first. The board falls back to it when
// Search finds nothing, so typos such as "watr" still find Water.
func (c *Catalog) Suggest(query string) []Symbol {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	all := c.All()
	matches := fuzzy.FindFrom(q, glossSource(all))
	out := make([]Symbol, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}

type glossSource []Symbol

func (g glossSource) String(i int) string { return g[i].English + " " + g[i].Text }
func (g glossSource) Len() int            { return len(g) }

var (
	customMu   sync.Mutex
	lastCustom int64
)

// NewCustom creates an ad-hoc symbol for typed text. Ids are derived from
// the creation time and are strictly increasing within the process.
func NewCustom(text string) Symbol {
	customMu.Lock()
	n := time.Now().UnixNano()
	if n <= lastCustom {
		n = lastCustom + 1
	}
	lastCustom = n
	customMu.Unlock()

	return Symbol{
		ID:       customPrefix + strconv.FormatInt(n, 10),
		Text:     text,
		Glyph:    CustomGlyph,
		ColorTag: CustomColor,
		IsCustom: true,
	}
}
