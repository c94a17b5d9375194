package scraper

import (
	"github.com/fitmatch-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// Registry хранит адаптеры источников, диспетчеризация — по имени источника.
type Registry struct {
	scrapers map[string]Scraper
	order    []string
}

func NewRegistry(scrapers ...Scraper) *Registry {
	r := &Registry{
		scrapers: make(map[string]Scraper, len(scrapers)),
	}

	for _, s := range scrapers {
		if _, ok := r.scrapers[s.Source()]; ok {
			continue
		}
		r.scrapers[s.Source()] = s
		r.order = append(r.order, s.Source())
	}

	return r
}

// Get возвращает адаптер по имени источника.
func (r *Registry) Get(name string) (Scraper, error) {
	s, ok := r.scrapers[name]
	if !ok {
		return nil, e.Wrap(whereami.WhereAmI(), e.Wrap(name, e.ErrUnknownSource))
	}

	return s, nil
}

// Sources возвращает имена источников в порядке регистрации.
func (r *Registry) Sources() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
