// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
)

// NewDB opens a private in-memory sqlite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every pooled connection to :memory: would see its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewStore is NewDB wrapped in a repository.Store.
func NewStore(t testing.TB) (*repository.Store, *gorm.DB) {
	t.Helper()
	db := NewDB(t)
	return repository.NewStore(db), db
}

// SeedProfile inserts a profile (and its account id) with the given username.
func SeedProfile(t testing.TB, store *repository.Store, username string, rank *model.Rank) *model.Profile {
	t.Helper()
	id := uuid.New().String()
	p := &model.Profile{ID: id, UserID: id, Username: username, DisplayName: username}
	if rank != nil {
		p.RankID = &rank.ID
	}
	if err := store.Profiles.Create(context.Background(), p); err != nil {
		t.Fatalf("seed profile %s: %v", username, err)
	}
	got, err := store.Profiles.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload profile %s: %v", username, err)
	}
	return got
}

// SeedRank inserts a rank.
func SeedRank(t testing.TB, store *repository.Store, name string, priority int) *model.Rank {
	t.Helper()
	r := &model.Rank{Name: name, Color: model.DefaultRankColor, Priority: priority}
	if err := store.Ranks.Create(context.Background(), r); err != nil {
		t.Fatalf("seed rank %s: %v", name, err)
	}
	return r
}

// SeedPost inserts a post created at the given time so ordering is deterministic.
func SeedPost(t testing.TB, store *repository.Store, author *model.Profile, content string, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: author.ID, Content: content, CreatedAt: at}
	if err := store.Posts.Create(context.Background(), p); err != nil {
		t.Fatalf("seed post %q: %v", content, err)
	}
	return p
}

// Username returns a unique username for table-driven tests.
func Username(prefix string, i int) string { return fmt.Sprintf("%s_%03d", prefix, i) }
