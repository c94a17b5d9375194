package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fitmatch-tech/catalog-backend/internal/cfg"
	"github.com/fitmatch-tech/catalog-backend/internal/domain"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ShopifyScraper обходит витрину Shopify через публичный /products.json.
// Выбор изображения: первая картинка галереи (обычно самый чистый кадр товара).
type ShopifyScraper struct {
	source          string
	baseURL         string
	currency        string
	defaultCategory domain.Category
	classifier      *Classifier
	client          *http.Client
	userAgent       string
	pageSize        int
	logger          logger.Logger
}

func NewShopifyScraper(source, baseURL, currency string, classifier *Classifier,
	defaultCategory domain.Category, scraperCfg *cfg.ScraperCfg, log logger.Logger) *ShopifyScraper {
	// Shopify отдает не больше 250 товаров на страницу
	const shopifyPageCap = 250

	pageSize := scraperCfg.PageSize
	if pageSize <= 0 || pageSize > shopifyPageCap {
		pageSize = shopifyPageCap
	}

	return &ShopifyScraper{
		source:          source,
		baseURL:         baseURL,
		currency:        currency,
		defaultCategory: defaultCategory,
		classifier:      classifier,
		client:          &http.Client{Timeout: scraperCfg.RequestTimeout},
		userAgent:       scraperCfg.UserAgent,
		pageSize:        pageSize,
		logger:          log,
	}
}

// NewRavenScraper — адаптер raven.co.il (израильский activewear, Shopify).
func NewRavenScraper(scraperCfg *cfg.ScraperCfg, log logger.Logger) *ShopifyScraper {
	rules := []Rule{
		// Верх — иврит
		{"טופ", domain.CategoryUpperBody},
		{"חולצה", domain.CategoryUpperBody},
		{"גוזיה", domain.CategoryUpperBody},
		{"קרופ", domain.CategoryUpperBody},
		{"סווטשירט", domain.CategoryUpperBody},
		{"ז'קט", domain.CategoryUpperBody},
		// Верх — английский
		{"top", domain.CategoryUpperBody},
		{"shirt", domain.CategoryUpperBody},
		{"bra", domain.CategoryUpperBody},
		{"jacket", domain.CategoryUpperBody},
		{"hoodie", domain.CategoryUpperBody},
		// Низ — иврит
		{"טייץ", domain.CategoryLowerBody},
		{"מכנס", domain.CategoryLowerBody},
		{"שורט", domain.CategoryLowerBody},
		{"לגינס", domain.CategoryLowerBody},
		// Низ — английский
		{"legging", domain.CategoryLowerBody},
		{"pants", domain.CategoryLowerBody},
		{"shorts", domain.CategoryLowerBody},
		// Комплекты
		{"סט", domain.CategoryFullBody},
		{"set", domain.CategoryFullBody},
		{"אוברול", domain.CategoryFullBody},
	}

	return NewShopifyScraper(
		"raven", "https://raven.co.il", "ILS",
		NewClassifier(rules), domain.CategoryUpperBody,
		scraperCfg, log,
	)
}

type shopifyProduct struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	ProductType string `json:"product_type"`
	Images      []struct {
		Src string `json:"src"`
	} `json:"images"`
	Variants []struct {
		Price string `json:"price"`
	} `json:"variants"`
}

type shopifyPage struct {
	Products []shopifyProduct `json:"products"`
}

func (s *ShopifyScraper) Source() string {
	return s.source
}

func (s *ShopifyScraper) MapCategory(raw string, def domain.Category) domain.Category {
	return s.classifier.Classify(raw, def)
}

// ScrapeAll постранично обходит /products.json.
// Остановка: ошибка страницы, пустая страница, неполная страница
// или страница без новых товаров — сломанные витрины повторяют
// последнюю страницу вместо пустого ответа.
func (s *ShopifyScraper) ScrapeAll(ctx context.Context) (ScrapeResult, error) {
	state := newRunState()

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return state.result(), err
		}

		url := fmt.Sprintf("%s/products.json?limit=%d&page=%d", s.baseURL, s.pageSize, page)

		var resp shopifyPage
		if err := getJSON(ctx, s.client, url, s.userAgent, &resp); err != nil {
			// Ошибка страницы обрезает пагинацию, собранное сохраняется
			s.logger.Warnf("%s: page %d failed: %v", s.source, page, err)
			break
		}

		if len(resp.Products) == 0 {
			break
		}

		newCount := 0
		for _, p := range resp.Products {
			nativeID := strconv.FormatInt(p.ID, 10)
			if !state.claim(nativeID) {
				continue
			}
			newCount++

			item, ok := s.parse(p, nativeID)
			if !ok {
				state.drop()
				continue
			}

			state.append(*item)
		}

		if newCount == 0 {
			break
		}

		if len(resp.Products) < s.pageSize {
			break
		}
	}

	return state.result(), nil
}

func (s *ShopifyScraper) parse(p shopifyProduct, nativeID string) (*domain.CatalogItem, bool) {
	if len(p.Images) == 0 {
		s.logger.Debugf("%s: product %s has no images, dropped", s.source, nativeID)
		return nil, false
	}

	price := decimal.Zero
	if len(p.Variants) > 0 && p.Variants[0].Price != "" {
		parsed, err := decimal.NewFromString(p.Variants[0].Price)
		if err != nil {
			s.logger.Debugf("%s: product %s has bad price %q, dropped", s.source, nativeID, p.Variants[0].Price)
			return nil, false
		}
		price = parsed
	}

	category := s.MapCategory(p.ProductType+" "+p.Title, s.defaultCategory)

	item := domain.NewCatalogItem(
		s.source, nativeID, p.Title, price, s.currency, category,
		p.Images[0].Src,
		fmt.Sprintf("%s/products/%s", s.baseURL, p.Handle),
	)

	if err := item.Validate(); err != nil {
		s.logger.Debugf("%s: product %s invalid: %v", s.source, nativeID, err)
		return nil, false
	}

	return item, true
}
