// Package dealsource implements outbound.DealSource against the weekly
// flyer endpoints of the major Quebec grocery chains (IGA, Metro,
// Provigo, Maxi). A scrape failure — timeout, layout change, unknown
// store — degrades to a deterministic per-store fallback list rather
// than propagating an error, matching the fail-soft contract of
// outbound.DealSource.
package dealsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
)

// HTTPDealSource implements outbound.DealSource. It attempts a best-effort
// scrape of the store's public flyer page, falls back to a static
// per-store deal list on any failure, expands bilingual synonyms, and
// caches the result behind outbound.CacheRepository for cacheTTL.
type HTTPDealSource struct {
	client   *http.Client
	cache    outbound.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewHTTPDealSource(timeout, cacheTTL time.Duration, cache outbound.CacheRepository, logger *zap.Logger) *HTTPDealSource {
	return &HTTPDealSource{
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.Named("deal-source"),
	}
}

var _ outbound.DealSource = (*HTTPDealSource)(nil)

type storeProfile struct {
	displayName string
	flyerURL    string
	fallback    []mealplan.DealItem
}

var storeProfiles = map[string]storeProfile{
	"iga": {
		displayName: "IGA",
		flyerURL:    "https://www.iga.net/en/online_flyer",
		fallback: fallback(
			item("chicken breast", 8.99), item("salmon fillet", 9.99), item("ground beef", 5.99),
			item("pork chops", 6.99), item("broccoli", 2.99), item("carrots", 1.99),
			item("tomatoes", 3.49), item("potatoes", 4.99), item("onions", 2.49), item("bell peppers", 3.99),
		),
	},
	"metro": {
		displayName: "Metro",
		flyerURL:    "https://www.metro.ca/en/flyer",
		fallback: fallback(
			item("chicken thighs", 7.99), item("beef steak", 12.99), item("tilapia", 8.99),
			item("pork tenderloin", 9.99), item("zucchini", 2.49), item("mushrooms", 3.99),
			item("lettuce", 2.99), item("cucumbers", 1.99),
		),
	},
	"provigo": {
		displayName: "Provigo",
		flyerURL:    "https://www.provigo.ca/en/flyer",
		fallback: fallback(
			item("chicken legs", 6.99), item("ground pork", 5.49), item("cod fillet", 10.99),
			item("asparagus", 4.99), item("sweet potatoes", 3.99),
		),
	},
	"maxi": {
		displayName: "Maxi",
		flyerURL:    "https://www.maxi.ca/en/flyer",
		fallback: fallback(
			item("turkey breast", 8.99), item("shrimp", 11.99), item("spinach", 3.49), item("cauliflower", 3.99),
		),
	},
}

var genericFallback = fallback(
	item("chicken breast", 8.99), item("salmon", 9.99), item("ground beef", 5.99),
	item("broccoli", 2.99), item("carrots", 1.99),
)

func item(name string, price float64) mealplan.DealItem {
	p := price
	return mealplan.DealItem{Name: name, Price: &p, OnSale: true}
}

func fallback(items ...mealplan.DealItem) []mealplan.DealItem {
	return items
}

// productNamePattern is a best-effort regex extraction over the flyer
// page's raw HTML; it is a coarse substitute for the original scraper's
// CSS-selector matching and is expected to miss most pages — the static
// fallback is the path actually exercised in production.
var productNamePattern = regexp.MustCompile(`(?i)<(?:h2|h3|h4|span)[^>]*class="[^"]*(?:product|item|name|title)[^"]*"[^>]*>([^<]{3,60})</`)

// GetWeeklyDeals returns the bilingual-expanded deal set for store at
// postalCode, serving from cache when available.
func (d *HTTPDealSource) GetWeeklyDeals(ctx context.Context, store, postalCode string) ([]mealplan.DealItem, error) {
	cacheKey := fmt.Sprintf("dealsource:%s:%s", strings.ToLower(store), strings.ToUpper(strings.ReplaceAll(postalCode, " ", "")))

	if d.cache != nil {
		if raw, err := d.cache.Get(ctx, cacheKey); err == nil {
			var cached []mealplan.DealItem
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	items := d.fetch(ctx, store)
	expanded := expandBilingualSynonyms(items)

	if d.cache != nil {
		if raw, err := json.Marshal(expanded); err == nil {
			_ = d.cache.Set(ctx, cacheKey, raw, d.cacheTTL)
		}
	}

	return expanded, nil
}

func (d *HTTPDealSource) fetch(ctx context.Context, store string) []mealplan.DealItem {
	profile, ok := matchStoreProfile(store)
	if !ok {
		d.logger.Warn("unsupported store, using generic fallback deals", zap.String("store", store))
		return genericFallback
	}

	items, err := d.scrape(ctx, profile)
	if err != nil || len(items) == 0 {
		if err != nil {
			d.logger.Warn("flyer scrape failed, using fallback deals", zap.String("store", profile.displayName), zap.Error(err))
		}
		return profile.fallback
	}
	return items
}

func (d *HTTPDealSource) scrape(ctx context.Context, profile storeProfile) ([]mealplan.DealItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profile.flyerURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; mealprep-dealsource/1.0)")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flyer page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}

	matches := productNamePattern.FindAllStringSubmatch(string(body), 50)
	items := make([]mealplan.DealItem, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if len(name) > 2 {
			items = append(items, mealplan.DealItem{Name: strings.ToLower(name), OnSale: true})
		}
	}
	return items, nil
}

func matchStoreProfile(store string) (storeProfile, bool) {
	key := strings.ToLower(strings.TrimSpace(store))
	if profile, ok := storeProfiles[key]; ok {
		return profile, true
	}
	for k, profile := range storeProfiles {
		if strings.Contains(key, k) || strings.Contains(k, key) {
			return profile, true
		}
	}
	return storeProfile{}, false
}

// bilingualSynonyms mirrors the teacher domain's FR/EN keyword tables
// (mealprep.matcher's stopWords, mealprep.grouper's action keywords):
// deal-item names are expanded so a French recipe ingredient can match
// an English flyer entry and vice versa.
var bilingualSynonyms = map[string][]string{
	"chicken breast":   {"poitrine de poulet"},
	"chicken thighs":   {"hauts de cuisse de poulet"},
	"chicken legs":     {"cuisses de poulet"},
	"ground beef":      {"boeuf haché"},
	"ground pork":      {"porc haché"},
	"pork chops":       {"côtelettes de porc"},
	"pork tenderloin":  {"filet de porc"},
	"beef steak":       {"steak de boeuf"},
	"turkey breast":    {"poitrine de dinde"},
	"salmon fillet":    {"filet de saumon"},
	"salmon":           {"saumon"},
	"tilapia":          {"tilapia"},
	"cod fillet":       {"filet de morue"},
	"shrimp":           {"crevettes"},
	"broccoli":         {"brocoli"},
	"carrots":          {"carottes"},
	"tomatoes":         {"tomates"},
	"potatoes":         {"pommes de terre"},
	"sweet potatoes":   {"patates douces"},
	"onions":           {"oignons"},
	"bell peppers":     {"poivrons"},
	"zucchini":         {"courgette"},
	"mushrooms":        {"champignons"},
	"lettuce":          {"laitue"},
	"cucumbers":        {"concombres"},
	"asparagus":        {"asperges"},
	"spinach":          {"épinards"},
	"cauliflower":      {"chou-fleur"},
}

func expandBilingualSynonyms(items []mealplan.DealItem) []mealplan.DealItem {
	out := make([]mealplan.DealItem, 0, len(items))
	out = append(out, items...)
	for _, it := range items {
		for _, synonym := range bilingualSynonyms[it.Name] {
			out = append(out, mealplan.DealItem{Name: synonym, Price: it.Price, OnSale: it.OnSale})
		}
	}
	return out
}
