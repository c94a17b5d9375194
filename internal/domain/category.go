package domain

// Category — фиксированная таксономия категорий каталога.
// В payload индекса и в файлы каталога попадают только эти значения,
// исходный текст источника не сохраняется.
type Category string

const (
	CategoryUpperBody Category = "upper_body"
	CategoryLowerBody Category = "lower_body"
	CategoryDresses   Category = "dresses"
	CategoryShoes     Category = "shoes"
	CategoryFullBody  Category = "full_body"
)

// Categories перечисляет все допустимые значения таксономии.
var Categories = []Category{
	CategoryUpperBody,
	CategoryLowerBody,
	CategoryDresses,
	CategoryShoes,
	CategoryFullBody,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) Valid() bool {
	switch c {
	case CategoryUpperBody, CategoryLowerBody, CategoryDresses, CategoryShoes, CategoryFullBody:
		return true
	}
	return false
}
