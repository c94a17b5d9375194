package scraper

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"sync"

	"github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// WooCategory — листинг WooCommerce: id категории магазина
// и категория таксономии по умолчанию для товаров из него.
type WooCategory struct {
	ID      int
	Default domain.Category
}

// WooCommerceScraper обходит магазин через WooCommerce Store API.
// Выбор изображения: первая картинка товара (обычно самый чистый кадр).
// Категории листингов обходятся параллельно с ограничением воркеров,
// страницы внутри категории — последовательно.
type WooCommerceScraper struct {
	source     string
	baseURL    string
	apiURL     string
	currency   string
	categories []WooCategory
	classifier *Classifier
	client     *http.Client
	userAgent  string
	pageSize   int
	workers    int
	logger     logger.Logger
}

func NewWooCommerceScraper(source, baseURL, currency string, categories []WooCategory,
	classifier *Classifier, scraperCfg *cfg.ScraperCfg, log logger.Logger) *WooCommerceScraper {
	pageSize := scraperCfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	workers := scraperCfg.CategoryWorkers
	if workers <= 0 {
		workers = 1
	}

	return &WooCommerceScraper{
		source:     source,
		baseURL:    baseURL,
		apiURL:     baseURL + "/wp-json/wc/store/v1/products",
		currency:   currency,
		categories: categories,
		classifier: classifier,
		client:     &http.Client{Timeout: scraperCfg.RequestTimeout},
		userAgent:  scraperCfg.UserAgent,
		pageSize:   pageSize,
		workers:    workers,
		logger:     log,
	}
}

// NewMatimliScraper — адаптер matimli.co.il (израильский fashion-ритейлер, WooCommerce).
func NewMatimliScraper(scraperCfg *cfg.ScraperCfg, log logger.Logger) *WooCommerceScraper {
	categories := []WooCategory{
		// Женские
		{222, domain.CategoryUpperBody}, // חולצות נשים
		{240, domain.CategoryUpperBody}, // טוניקות
		{230, domain.CategoryUpperBody}, // גופיות
		{225, domain.CategoryLowerBody}, // טייצים
		{224, domain.CategoryLowerBody}, // מכנסיים נשים
		{227, domain.CategoryDresses},   // שמלות
		{234, domain.CategoryUpperBody}, // עליוניות וג'קטים
		// Мужские
		{231, domain.CategoryUpperBody}, // חולצות T
		{241, domain.CategoryUpperBody}, // חולצות גברים
		{232, domain.CategoryUpperBody}, // מכופתרות גברים
		{237, domain.CategoryLowerBody}, // מכנסיים גברים
		{246, domain.CategoryLowerBody}, // ברמודות
		{238, domain.CategoryLowerBody}, // ג'ינסים גברים
		{247, domain.CategoryUpperBody}, // פולו
	}

	rules := []Rule{
		// Верх
		{"חולצ", domain.CategoryUpperBody},
		{"טופ", domain.CategoryUpperBody},
		{"גופי", domain.CategoryUpperBody},
		{"טוניק", domain.CategoryUpperBody},
		{"סריג", domain.CategoryUpperBody},
		{"קרדיגן", domain.CategoryUpperBody},
		{"ג'קט", domain.CategoryUpperBody},
		{"מעיל", domain.CategoryUpperBody},
		{"סווטשירט", domain.CategoryUpperBody},
		{"פולו", domain.CategoryUpperBody},
		{"מכופתר", domain.CategoryUpperBody},
		// Низ
		{"מכנס", domain.CategoryLowerBody},
		{"ג'ינס", domain.CategoryLowerBody},
		{"ברמודה", domain.CategoryLowerBody},
		{"שורט", domain.CategoryLowerBody},
		{"טייץ", domain.CategoryLowerBody},
		// Платья
		{"שמלה", domain.CategoryDresses},
		{"שמלת", domain.CategoryDresses},
	}

	return NewWooCommerceScraper(
		"matimli", "https://matimli.co.il", "ILS",
		categories, NewClassifier(rules), scraperCfg, log,
	)
}

type wooProduct struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Permalink string `json:"permalink"`
	Images    []struct {
		Src string `json:"src"`
	} `json:"images"`
	Prices struct {
		Price             string `json:"price"`
		CurrencyMinorUnit int    `json:"currency_minor_unit"`
	} `json:"prices"`
}

func (w *WooCommerceScraper) Source() string {
	return w.source
}

func (w *WooCommerceScraper) MapCategory(raw string, def domain.Category) domain.Category {
	return w.classifier.Classify(raw, def)
}

func (w *WooCommerceScraper) ScrapeAll(ctx context.Context) (ScrapeResult, error) {
	state := newRunState()
	sem := make(chan struct{}, w.workers)

	var wg sync.WaitGroup
	for _, category := range w.categories {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			w.scrapeCategory(ctx, category, state)
		}()
	}
	wg.Wait()

	return state.result(), ctx.Err()
}

// scrapeCategory последовательно листает страницы категории магазина.
// Остановка: ошибка страницы, пустая страница или неполная страница.
func (w *WooCommerceScraper) scrapeCategory(ctx context.Context, category WooCategory, state *runState) {
	for page := 1; ; page++ {
		if ctx.Err() != nil {
			return
		}

		url := fmt.Sprintf("%s?category=%d&per_page=%d&page=%d", w.apiURL, category.ID, w.pageSize, page)

		var products []wooProduct
		if err := getJSON(ctx, w.client, url, w.userAgent, &products); err != nil {
			w.logger.Warnf("%s: category %d page %d failed: %v", w.source, category.ID, page, err)
			return
		}

		if len(products) == 0 {
			return
		}

		for _, p := range products {
			nativeID := strconv.FormatInt(p.ID, 10)
			if !state.claim(nativeID) {
				continue
			}

			item, ok := w.parse(p, nativeID, category.Default)
			if !ok {
				state.drop()
				continue
			}

			state.append(*item)
		}

		if len(products) < w.pageSize {
			return
		}
	}
}

func (w *WooCommerceScraper) parse(p wooProduct, nativeID string, def domain.Category) (*domain.CatalogItem, bool) {
	if len(p.Images) == 0 || p.Images[0].Src == "" {
		w.logger.Debugf("%s: product %s has no images, dropped", w.source, nativeID)
		return nil, false
	}

	// Store API отдает цену в минорных единицах валюты
	price := decimal.Zero
	if p.Prices.Price != "" {
		parsed, err := decimal.NewFromString(p.Prices.Price)
		if err != nil {
			w.logger.Debugf("%s: product %s has bad price %q, dropped", w.source, nativeID, p.Prices.Price)
			return nil, false
		}

		minorUnit := p.Prices.CurrencyMinorUnit
		if minorUnit == 0 {
			minorUnit = 2
		}
		price = parsed.Shift(int32(-minorUnit))
	}

	name := html.UnescapeString(p.Name)

	productURL := p.Permalink
	if productURL == "" {
		productURL = fmt.Sprintf("%s/product/%s", w.baseURL, nativeID)
	}

	item := domain.NewCatalogItem(
		w.source, nativeID, name, price, w.currency,
		w.MapCategory(name, def),
		p.Images[0].Src, productURL,
	)

	if err := item.Validate(); err != nil {
		w.logger.Debugf("%s: product %s invalid: %v", w.source, nativeID, err)
		return nil, false
	}

	return item, true
}
