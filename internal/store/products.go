package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mobile-store/internal/models"
)

const productColumns = "id, name, brand, model, price, storage, color, image_url, description, stock, created_at"

// ProductFilter describes a catalog query. Zero values mean "no filter".
type ProductFilter struct {
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	Storage   string
	Color     string
	Search    string
	Platforms []string
	Sort      string
	Order     string
	Page      int
	Limit     int
}

var sortColumns = map[string]bool{
	"name":       true,
	"price":      true,
	"brand":      true,
	"created_at": true,
}

// buildWhere translates the filter into a WHERE clause with ? binds.
func buildWhere(f ProductFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	// Platform is a derived brand filter: iPhone means Apple, Android means
	// everything else. Selecting both covers the whole catalog, so the
	// clause is dropped entirely.
	if len(f.Platforms) > 0 {
		hasIPhone, hasAndroid := false, false
		for _, p := range f.Platforms {
			switch p {
			case "iPhone":
				hasIPhone = true
			case "Android":
				hasAndroid = true
			}
		}
		switch {
		case hasIPhone && hasAndroid:
			// no platform clause
		case hasIPhone:
			clauses = append(clauses, "brand = ?")
			args = append(args, "Apple")
		case hasAndroid:
			clauses = append(clauses, "brand != ?")
			args = append(args, "Apple")
		}
	}

	if f.Brand != "" {
		clauses = append(clauses, "brand = ?")
		args = append(args, f.Brand)
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.Storage != "" {
		clauses = append(clauses, "storage = ?")
		args = append(args, f.Storage)
	}
	if f.Color != "" {
		clauses = append(clauses, "color LIKE ?")
		args = append(args, "%"+f.Color+"%")
	}
	if f.Search != "" {
		clauses = append(clauses, "(name LIKE ? OR brand LIKE ? OR model LIKE ?)")
		term := "%" + f.Search + "%"
		args = append(args, term, term, term)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListProducts returns one page of the filtered catalog and the total row
// count before pagination.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM products"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	sortCol := f.Sort
	if !sortColumns[sortCol] {
		sortCol = "name"
	}
	dir := "ASC"
	if strings.EqualFold(f.Order, "DESC") {
		dir = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s %s LIMIT ? OFFSET ?",
		productColumns, where, sortCol, dir)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	products := []models.Product{}
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductFacets returns the distinct brand/storage/color values.
func (s *Store) ProductFacets(ctx context.Context) (*models.ProductFacets, error) {
	facets := &models.ProductFacets{}
	if err := s.db.SelectContext(ctx, &facets.Brands,
		"SELECT DISTINCT brand FROM products ORDER BY brand"); err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &facets.Storages,
		"SELECT DISTINCT storage FROM products ORDER BY storage"); err != nil {
		return nil, err
	}
	if err := s.db.SelectContext(ctx, &facets.Colors,
		"SELECT DISTINCT color FROM products ORDER BY color"); err != nil {
		return nil, err
	}
	return facets, nil
}
