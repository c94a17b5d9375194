package redis

// rankedItemModel — схема хранения одной позиции выдачи в Redis.
// Цена хранится строкой, как и в payload индекса.
type rankedItemModel struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	Name       string  `json:"name"`
	Price      string  `json:"price"`
	Currency   string  `json:"currency"`
	Category   string  `json:"category"`
	ImageURL   string  `json:"image_url"`
	ProductURL string  `json:"product_url"`
	Score      float32 `json:"score"`
}
