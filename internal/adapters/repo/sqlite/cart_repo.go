package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/konamall/storefront/internal/domain"
)

// CartRepo keeps the cart line sequence in the local database so the cart
// survives restarts. Replace rewrites the whole sequence; the cart is small
// and the write path must stay dead simple.
type CartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Load(ctx context.Context) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := r.db.WithContext(ctx).Order("position").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *CartRepo) Replace(ctx context.Context, lines []domain.CartLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.CartLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}
