package dao

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already taken")
)

type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
}

type CategoryDAO struct {
	db *gorm.DB
}

func NewCategoryDAO(db *gorm.DB) *CategoryDAO {
	return &CategoryDAO{
		db: db,
	}
}

func (d *CategoryDAO) Insert(ctx context.Context, category Category) (Category, error) {
	result := d.db.WithContext(ctx).Create(&category)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "uni_categories_name") {
			return Category{}, ErrCategoryNameTaken
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) FindByID(ctx context.Context, id int64) (Category, error) {
	var category Category

	result := d.db.WithContext(ctx).First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Category{}, ErrCategoryNotFound
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) Update(ctx context.Context, category Category) (Category, error) {
	result := d.db.WithContext(ctx).Save(&category)
	if result.Error != nil {
		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) Delete(ctx context.Context, id int64) error {
	result := d.db.WithContext(ctx).Delete(&Category{}, id)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (d *CategoryDAO) FindAll(ctx context.Context, from, size int) ([]Category, error) {
	var categories []Category

	result := d.db.WithContext(ctx).
		Order("id").
		Offset(from).
		Limit(size).
		Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}
