package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/artique/internal/models"
	"github.com/Skotchmaster/artique/internal/repo"
	"github.com/Skotchmaster/artique/internal/transport"
	"github.com/Skotchmaster/artique/internal/util"
	"github.com/Skotchmaster/artique/pkg/logging"
)

type ItemService struct {
	Repo   *repo.GormRepo
	Index  Indexer
	Events Publisher
}

// List returns items newest first. page == 0 means no pagination.
func (s *ItemService) List(ctx context.Context, page, size int) (int64, []models.Item, error) {
	offset, limit := 0, 0
	if page > 0 {
		offset, limit = util.Calculate(page, size)
	}
	total, items, err := s.Repo.ListItems(ctx, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list items: %w", err)
	}
	return total, items, nil
}

func (s *ItemService) Get(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.Repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Create stores a new item owned by artistID. The owner never comes from
// the request body.
func (s *ItemService) Create(ctx context.Context, req transport.CreateItemRequest, artistID uint) (*models.Item, error) {
	l := logging.FromContext(ctx).With("svc", "items.create")

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	item, err := s.Repo.CreateItem(ctx, &models.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		ArtistID:    artistID,
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.index(ctx, item)
	publish(ctx, s.Events, TopicItemEvents, item.ID, itemEvent(EventItemCreated, item, time.Now().UTC()))
	l.Info("item_created", "item_id", item.ID, "artist_id", artistID)
	return item, nil
}

// Update changes the present fields of an item owned by requestorID. A
// missing item and someone else's item are indistinguishable to the caller.
func (s *ItemService) Update(ctx context.Context, id uint, req transport.PatchItemRequest, requestorID uint) (*models.Item, error) {
	l := logging.FromContext(ctx).With("svc", "items.update")

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	item, err := s.Repo.UpdateItem(ctx, id, requestorID, req.Fields())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrUnauthorized
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.index(ctx, item)
	publish(ctx, s.Events, TopicItemEvents, item.ID, itemEvent(EventItemUpdated, item, time.Now().UTC()))
	l.Info("item_updated", "item_id", item.ID)
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id, requestorID uint) error {
	l := logging.FromContext(ctx).With("svc", "items.delete")

	if err := s.Repo.DeleteItem(ctx, id, requestorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFoundOrUnauthorized
		}
		return fmt.Errorf("delete item: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			l.Warn("index_remove_failed", "item_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicItemEvents, id, itemEvent(EventItemDeleted, &models.Item{ID: id, ArtistID: requestorID}, time.Now().UTC()))
	l.Info("item_deleted", "item_id", id)
	return nil
}

// Search queries the search index when one is configured and falls back
// to the database when it is absent or failing.
func (s *ItemService) Search(ctx context.Context, q string, page, size int) (int64, []models.Item, error) {
	l := logging.FromContext(ctx).With("svc", "items.search")

	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query is blank", ErrValidation)
	}
	offset, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		l.Warn("index_search_failed", "reason", "falling back to database", "error", err)
	}

	total, items, err := s.Repo.SearchItems(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search items: %w", err)
	}
	return total, items, nil
}

func (s *ItemService) index(ctx context.Context, item *models.Item) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, *item); err != nil {
		logging.FromContext(ctx).Warn("index_put_failed", "item_id", item.ID, "error", err)
	}
}
