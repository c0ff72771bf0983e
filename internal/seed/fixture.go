package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/tidwall/gjson"
)

//go:embed seed_products.json
var defaultFixture []byte

type Category struct {
	ID   *int64 // nil lets the sequence assign one
	Name string
}

type Product struct {
	ID    *int64
	Input *dto.ProductInput
}

type Fixture struct {
	Categories []Category
	Products   []Product
}

// LoadFixture reads the fixture at path, or the embedded one when path is empty.
func LoadFixture(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return ParseFixture(data)
}

// ParseFixture accepts {categories:[{id?,name}], products:[...]}. Product
// entries go through the same normalization as request bodies.
func ParseFixture(data []byte) (*Fixture, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("seed file is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	fx := &Fixture{}
	var parseErr error

	doc.Get("categories").ForEach(func(key, value gjson.Result) bool {
		name, err := model.NormalizeCategoryName(value.Get("name").String())
		if err != nil {
			parseErr = fmt.Errorf("seed category %d: %w", key.Int(), err)
			return false
		}
		fx.Categories = append(fx.Categories, Category{ID: optionalID(value), Name: name})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	doc.Get("products").ForEach(func(key, value gjson.Result) bool {
		in, err := dto.NormalizeProduct([]byte(value.Raw))
		if err != nil {
			parseErr = fmt.Errorf("seed product %d: %w", key.Int(), err)
			return false
		}
		if in.Title == nil || !in.Price.Valid {
			parseErr = fmt.Errorf("seed product %d: title and price are required", key.Int())
			return false
		}
		fx.Products = append(fx.Products, Product{ID: optionalID(value), Input: in})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return fx, nil
}

func optionalID(value gjson.Result) *int64 {
	id := value.Get("id")
	if id.Type != gjson.Number || id.Int() <= 0 {
		return nil
	}
	v := id.Int()
	return &v
}
