package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/creatorspace/memberkit/internal/common"
	"github.com/creatorspace/memberkit/internal/kvstore"
	"github.com/creatorspace/memberkit/internal/logging"
	"github.com/creatorspace/memberkit/internal/models"
)

// usersKey holds the whole collection as one JSON object keyed by username.
const usersKey = "all_users"

// KVRepository stores the member collection as a single JSON blob in the
// key-value store. A corrupted blob is treated as an empty collection and is
// overwritten by the next write; the prior data is lost by design and the
// incident only shows up in the logs.
type KVRepository struct {
	store kvstore.Store
	log   logging.Logger
}

func NewKVRepository(store kvstore.Store, log logging.Logger) *KVRepository {
	return &KVRepository{store: store, log: log}
}

func (r *KVRepository) All(ctx context.Context) (map[string]models.User, error) {
	all := make(map[string]models.User)
	kvstore.Get(ctx, r.log, r.store, usersKey, &all)
	if all == nil {
		all = make(map[string]models.User)
	}
	return all, nil
}

func (r *KVRepository) Get(ctx context.Context, username string) (*models.User, error) {
	all, _ := r.All(ctx)
	u, ok := all[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *KVRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	all, _ := r.All(ctx)
	for _, u := range all {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *KVRepository) Upsert(ctx context.Context, user *models.User) error {
	all, _ := r.All(ctx)
	all[user.Username] = *user
	if !kvstore.Set(ctx, r.log, r.store, usersKey, all) {
		return fmt.Errorf("saving user %q: %w", user.Username, common.ErrInternal)
	}
	return nil
}
