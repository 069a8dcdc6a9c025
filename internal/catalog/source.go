package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source supplies the products a catalog is built from. It is read once.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// Build loads src and freezes the result into a Catalog.
func Build(ctx context.Context, src Source) (*Catalog, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(products)
}

type StaticSource struct {
	Items []Product
}

func (s StaticSource) Load(ctx context.Context) ([]Product, error) {
	items := s.Items
	if items == nil {
		items = defaultProducts
	}
	out := make([]Product, len(items))
	copy(out, items)
	return out, nil
}

// FileSource reads a YAML document of the form:
//
//	products:
//	  - id: 1
//	    name: Nasi Goreng
//	    price: 15000
type FileSource struct {
	Path string
}

type fileDocument struct {
	Products []Product `yaml:"products"`
}

func (s FileSource) Load(ctx context.Context) ([]Product, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) ([]Product, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("parse catalog file: no products")
	}
	return doc.Products, nil
}
