package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/artique/internal/models"
	"github.com/Skotchmaster/artique/internal/repo"
	"github.com/Skotchmaster/artique/pkg/db"
	"github.com/Skotchmaster/artique/pkg/hash"
	"github.com/Skotchmaster/artique/pkg/tokens"
)

type published struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		switch ev := m.Event.(type) {
		case UserEvent:
			out = append(out, ev.Type)
		case ItemEvent:
			out = append(out, ev.Type)
		}
	}
	return out
}

type fakeIndexer struct {
	docs      map[uint]models.Item
	searchErr error
	searched  int
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{docs: map[uint]models.Item{}}
}

func (f *fakeIndexer) Put(_ context.Context, item models.Item) error {
	f.docs[item.ID] = item
	return nil
}

func (f *fakeIndexer) Remove(_ context.Context, id uint) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, q string, from, size int) (int64, []models.Item, error) {
	f.searched++
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	items := make([]models.Item, 0, len(f.docs))
	for _, it := range f.docs {
		items = append(items, it)
	}
	return int64(len(items)), items, nil
}

var errBoom = errors.New("boom")

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	require.NoError(t, repo.Migrate(ctx, gdb))
	return repo.New(gdb)
}

func newTestAuthService(t *testing.T, r *repo.GormRepo, events Publisher) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:   r,
		Hasher: hash.NewHasher(bcrypt.MinCost),
		Tokens: tokens.NewIssuer([]byte("service-test-secret"), time.Hour),
		Events: events,
	}
}
