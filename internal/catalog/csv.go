// Package catalog parses uploaded product catalogs into ProductRecords.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/feedlift/feedlift/internal/models"
)

// ParseCSV reads a header-keyed product CSV. Column aliases follow the
// upload format: "id" or "product_id", "title" or "name". Rows missing a
// required field or a positive price are skipped, not rejected; a
// malformed price value fails the whole parse.
func ParseCSV(r io.Reader) ([]models.ProductRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var products []models.ProductRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}

		field := func(names ...string) string {
			for _, name := range names {
				if i, ok := columns[name]; ok && i < len(row) {
					if v := strings.TrimSpace(row[i]); v != "" {
						return v
					}
				}
			}
			return ""
		}

		price := 0.0
		if raw := field("price"); raw != "" {
			price, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse price %q: %w", line, raw, err)
			}
		}

		p := models.ProductRecord{
			ProductID:   field("id", "product_id"),
			Title:       field("title", "name"),
			Description: field("description"),
			Price:       price,
			Currency:    field("currency"),
			Category:    field("category"),
			Brand:       field("brand"),
			SKU:         field("sku"),
			Color:       field("color"),
			Size:        field("size"),
			Material:    field("material"),
		}
		if p.ProductID == "" {
			p.ProductID = fmt.Sprintf("prod-%d", len(products)+1)
		}
		p.ApplyDefaults()

		if p.Title == "" || p.Description == "" || p.Price <= 0 || p.Category == "" || p.Brand == "" {
			continue
		}

		products = append(products, p)
	}

	return products, nil
}
