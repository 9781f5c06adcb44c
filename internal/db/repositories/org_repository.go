package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "koinonia/internal/models/gorm"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// OrgRepository resolves organizations by slug. Lookups are cached
// briefly: organizations carry no credential state, so a short TTL
// cannot leak stale privileges the way caching users would.
type OrgRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewOrgRepository(db *gorm.DB) *OrgRepository {
	return &OrgRepository{
		db:    db,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// FindBySlug returns the active organization for a slug.
func (r *OrgRepository) FindBySlug(ctx context.Context, slug string) (*gormModels.Organization, error) {
	key := "org_slug:" + slug
	if cached, found := r.cache.Get(key); found {
		if org, ok := cached.(*gormModels.Organization); ok {
			return org, nil
		}
	}

	var org gormModels.Organization
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("organization not found")
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}

	r.cache.Set(key, &org, cache.DefaultExpiration)
	return &org, nil
}
