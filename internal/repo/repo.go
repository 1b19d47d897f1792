package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artique/internal/models"
	"github.com/Skotchmaster/artique/pkg/db"
)

var ErrUserAlreadyExist = errors.New("user already exist")

type GormRepo struct {
	DB *gorm.DB
}

func New(gdb *gorm.DB) *GormRepo {
	return &GormRepo{DB: gdb}
}

func Migrate(ctx context.Context, gdb *gorm.DB) error {
	return db.Migrate(ctx, gdb, &models.User{}, &models.Item{})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return db.Ping(ctx, r.DB)
}
