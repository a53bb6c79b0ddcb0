package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"order_ledger/internal/apperrors"
	"order_ledger/internal/models"
	"order_ledger/internal/redis"
	"order_ledger/internal/repository"
)

// CatalogService is the read-only menu collaborator. Single lookups go through
// a redis read-through cache; batched lookups always hit the database because
// the batch sync existence check must not trust a stale cache entry.
type CatalogService interface {
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	ListMenuItems(ids []uint) ([]models.MenuItem, error)
}

type catalogService struct {
	menuRepo repository.MenuRepository
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewCatalogService(menuRepo repository.MenuRepository, cache *redis.Client, cacheTTL time.Duration) CatalogService {
	return &catalogService{menuRepo: menuRepo, cache: cache, cacheTTL: cacheTTL}
}

func (s *catalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	if s.cache != nil {
		item, err := s.cache.GetMenuItem(ctx, id)
		if err == nil {
			return item, nil
		}
		if err != redis.ErrCacheMiss {
			log.Printf("Warning: menu cache read failed: %v", err)
		}
	}

	item, err := s.menuRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "menu item %d not found", id)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetMenuItem(ctx, item, s.cacheTTL); err != nil {
			log.Printf("Warning: menu cache write failed: %v", err)
		}
	}
	return item, nil
}

func (s *catalogService) ListMenuItems(ids []uint) ([]models.MenuItem, error) {
	return s.menuRepo.ListByIDs(ids)
}
