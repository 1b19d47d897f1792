package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artique/internal/models"
)

const newestFirst = "created_at DESC, id DESC"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListItems returns the newest items first. A limit <= 0 returns every row.
func (r *GormRepo) ListItems(ctx context.Context, offset, limit int) (int64, []models.Item, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := r.DB.WithContext(ctx).Model(&models.Item{}).Order(newestFirst)
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}

	items := make([]models.Item, 0)
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies fields only when the row exists and belongs to artistID.
// Both a missing row and a foreign row yield gorm.ErrRecordNotFound.
func (r *GormRepo) UpdateItem(ctx context.Context, id, artistID uint, fields map[string]any) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Item{}).
			Where("id = ? AND artist_id = ?", id, artistID).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteItem(ctx context.Context, id, artistID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND artist_id = ?", id, artistID).
		Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchItems is a case-insensitive substring match over name and description.
func (r *GormRepo) SearchItems(ctx context.Context, q string, offset, limit int) (int64, []models.Item, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	where := `LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Item{}).
		Where(where, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, 0)
	query := r.DB.WithContext(ctx).
		Model(&models.Item{}).
		Where(where, pattern, pattern).
		Order(newestFirst)
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
