package scraper

import (
	"strings"

	"github.com/fitmatch-tech/catalog-backend/internal/domain"
)

// Rule — пара (ключевое слово, категория).
type Rule struct {
	Keyword  string
	Category domain.Category
}

// Classifier отображает свободный текст товара в таксономию каталога
// по упорядоченному списку подстрочных правил: выигрывает первое
// совпадение в порядке объявления, без стемминга и токенизации.
// Ключевые слова смешивают иврит и английский, сравнение — точное
// вхождение подстроки после приведения к нижнему регистру.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify возвращает категорию первого совпавшего правила
// либо def, если ни одно правило не совпало.
func (c *Classifier) Classify(raw string, def domain.Category) domain.Category {
	lowered := strings.ToLower(raw)

	for _, r := range c.rules {
		if strings.Contains(lowered, r.Keyword) {
			return r.Category
		}
	}

	return def
}
