package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrCompilationNotFound = errors.New("compilation not found")

type Compilation struct {
	ID     int64  `gorm:"primaryKey"`
	Title  string `gorm:"not null"`
	Pinned bool
	Events []Event `gorm:"many2many:compilation_events;"`
}

type CompilationDAO struct {
	db *gorm.DB
}

func NewCompilationDAO(db *gorm.DB) *CompilationDAO {
	return &CompilationDAO{
		db: db,
	}
}

func (d *CompilationDAO) Insert(ctx context.Context, compilation Compilation) (Compilation, error) {
	result := d.db.WithContext(ctx).Create(&compilation)
	if result.Error != nil {
		return Compilation{}, result.Error
	}

	return compilation, nil
}

func (d *CompilationDAO) FindByID(ctx context.Context, id int64) (Compilation, error) {
	var compilation Compilation

	result := d.db.WithContext(ctx).Preload("Events").First(&compilation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Compilation{}, ErrCompilationNotFound
		}

		return Compilation{}, result.Error
	}

	return compilation, nil
}

func (d *CompilationDAO) Update(ctx context.Context, compilation Compilation, replaceEvents bool) (Compilation, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceEvents {
			if err := tx.Model(&compilation).Association("Events").Replace(compilation.Events); err != nil {
				return err
			}
		}

		return tx.Omit("Events").Save(&compilation).Error
	})
	if err != nil {
		return Compilation{}, err
	}

	return d.FindByID(ctx, compilation.ID)
}

func (d *CompilationDAO) Delete(ctx context.Context, id int64) error {
	result := d.db.WithContext(ctx).Select("Events").Delete(&Compilation{ID: id})
	if result.Error != nil {
		return result.Error
	}

	return nil
}

func (d *CompilationDAO) FindAll(ctx context.Context, pinned *bool, from, size int) ([]Compilation, error) {
	query := d.db.WithContext(ctx).Preload("Events")
	if pinned != nil {
		query = query.Where("pinned = ?", *pinned)
	}

	var compilations []Compilation
	result := query.Order("id").Offset(from).Limit(size).Find(&compilations)
	if result.Error != nil {
		return nil, result.Error
	}

	return compilations, nil
}
