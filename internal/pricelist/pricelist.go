// Package pricelist decodes partner price lists.
//
// A price list is a YAML document naming the shop, the categories it sells
// in and its goods:
//
//	shop: Связной
//	categories:
//	  - id: 224
//	    name: Смартфоны
//	goods:
//	  - id: 4216292
//	    category: 224
//	    model: apple/iphone/xs-max
//	    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
//	    price: 110000
//	    price_rrc: 116990
//	    quantity: 14
//	    parameters:
//	      "Диагональ (дюйм)": 6.5
//	      Цвет: золотистый
package pricelist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ErlanBelekov/shop-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// MaxDocumentBytes caps the size of a price list. Larger documents are
// rejected rather than cut short.
const MaxDocumentBytes = 10 << 20

type document struct {
	Shop       string     `yaml:"shop"`
	URL        string     `yaml:"url"`
	Categories []category `yaml:"categories"`
	Goods      []good     `yaml:"goods"`
}

type category struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type good struct {
	ID         int64          `yaml:"id"`
	Category   int64          `yaml:"category"`
	Model      string         `yaml:"model"`
	Name       string         `yaml:"name"`
	Price      int64          `yaml:"price"`
	PriceRRC   int64          `yaml:"price_rrc"`
	Quantity   int            `yaml:"quantity"`
	Parameters map[string]any `yaml:"parameters"`
}

// Parse decodes and validates a price list. Validation errors wrap
// domain.ErrInvalidPriceList.
func Parse(r io.Reader) (*domain.PriceList, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read price list: %w", err)
	}
	if len(raw) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: price list exceeds %d MiB", domain.ErrInvalidPriceList, MaxDocumentBytes>>20)
	}

	var doc document
	if err := yaml.NewDecoder(bytes.NewReader(raw)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidPriceList)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPriceList, err)
	}

	if strings.TrimSpace(doc.Shop) == "" {
		return nil, fmt.Errorf("%w: shop name is required", domain.ErrInvalidPriceList)
	}

	pl := &domain.PriceList{
		Shop: strings.TrimSpace(doc.Shop),
		URL:  strings.TrimSpace(doc.URL),
	}

	known := make(map[int64]bool, len(doc.Categories))
	for _, c := range doc.Categories {
		if c.ID <= 0 || strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: category needs a positive id and a name", domain.ErrInvalidPriceList)
		}
		if known[c.ID] {
			return nil, fmt.Errorf("%w: duplicate category %d", domain.ErrInvalidPriceList, c.ID)
		}
		known[c.ID] = true
		pl.Categories = append(pl.Categories, domain.PriceListCategory{ID: c.ID, Name: strings.TrimSpace(c.Name)})
	}

	seen := make(map[int64]bool, len(doc.Goods))
	for i, g := range doc.Goods {
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: duplicate good %d", domain.ErrInvalidPriceList, g.ID)
		}
		seen[g.ID] = true
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("%w: good #%d has no name", domain.ErrInvalidPriceList, i+1)
		}
		if !known[g.Category] {
			return nil, fmt.Errorf("%w: good %d references unknown category %d", domain.ErrInvalidPriceList, g.ID, g.Category)
		}
		if g.Quantity < 0 || g.Price < 0 || g.PriceRRC < 0 {
			return nil, fmt.Errorf("%w: good %d has negative quantity or price", domain.ErrInvalidPriceList, g.ID)
		}

		pl.Goods = append(pl.Goods, domain.PriceListGood{
			ID:         g.ID,
			CategoryID: g.Category,
			Model:      g.Model,
			Name:       strings.TrimSpace(g.Name),
			Price:      g.Price,
			PriceRRC:   g.PriceRRC,
			Quantity:   g.Quantity,
			Parameters: parameters(g.Parameters),
		})
	}

	return pl, nil
}

func parameters(m map[string]any) []domain.ProductParameter {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]domain.ProductParameter, 0, len(names))
	for _, name := range names {
		params = append(params, domain.ProductParameter{Name: name, Value: fmt.Sprint(m[name])})
	}
	return params
}
