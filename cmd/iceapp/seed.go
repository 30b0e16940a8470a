package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/pkg/database"
)

var seedOpts struct {
	users int
	posts int
	likes int
	conc  int
	reads int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo profiles, posts and likes, then time feed reads",
	RunE:  runSeed,
}

func init() {
	f := seedCmd.Flags()
	f.IntVar(&seedOpts.users, "users", 200, "profiles to create")
	f.IntVar(&seedOpts.posts, "posts", 2000, "posts to create")
	f.IntVar(&seedOpts.likes, "likes", 5000, "like toggles to issue")
	f.IntVar(&seedOpts.conc, "conc", 8, "concurrent writers")
	f.IntVar(&seedOpts.reads, "reads", 200, "feed reads to time")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedOpts.users < 1 || seedOpts.posts < 1 {
		return errors.New("seed: --users and --posts must be positive")
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if err := repository.AutoMigrate(db); err != nil {
		return err
	}

	ctx := cmd.Context()
	store := repository.NewStore(db)
	posts := service.NewPostService(store.Posts, store.Comments, store.Likes)
	feed := service.NewFeedService(store.Posts, store.Likes)
	out := cmd.OutOrStdout()

	// 只写 profile，不建账号：这些用户无法登录，仅用于压测数据
	profiles := make([]model.Profile, seedOpts.users)
	for i := range profiles {
		id := uuid.New().String()
		profiles[i] = model.Profile{ID: id, UserID: id, Username: "seed_" + id[:8], DisplayName: "Seed " + id[:4]}
	}
	if err := db.WithContext(ctx).Omit("Rank").CreateInBatches(&profiles, 500).Error; err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}

	postIDs := make([]string, seedOpts.posts)
	postLat, postDur, err := fanOut(ctx, seedOpts.posts, func(ctx context.Context, i int) error {
		author := profiles[rand.Intn(len(profiles))]
		p, err := posts.CreatePost(ctx, service.CreatePostInput{
			AuthorID: author.ID,
			Content:  fmt.Sprintf("seed post %d from %s", i, author.Username),
		})
		if err != nil {
			return err
		}
		postIDs[i] = p.ID
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	likeLat, likeDur, err := fanOut(ctx, seedOpts.likes, func(ctx context.Context, i int) error {
		_, err := posts.ToggleLike(ctx, postIDs[rand.Intn(len(postIDs))], profiles[rand.Intn(len(profiles))].ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("seed likes: %w", err)
	}

	viewer := &profiles[0]
	readLat := make([]time.Duration, 0, seedOpts.reads)
	r0 := time.Now()
	for i := 0; i < seedOpts.reads; i++ {
		st := time.Now()
		if _, err := feed.FetchFeed(ctx, viewer); err != nil {
			return fmt.Errorf("fetch feed: %w", err)
		}
		readLat = append(readLat, time.Since(st))
	}
	readDur := time.Since(r0)

	fmt.Fprintf(out, "users=%d posts=%d likes=%d conc=%d\n", seedOpts.users, seedOpts.posts, seedOpts.likes, seedOpts.conc)
	report(out, "create post", postDur, postLat)
	report(out, "toggle like", likeDur, likeLat)
	report(out, "fetch feed", readDur, readLat)
	return nil
}

// fanOut 用 conc 个 worker 执行 n 次 op，返回每次耗时与总耗时
func fanOut(ctx context.Context, n int, op func(context.Context, int) error) ([]time.Duration, time.Duration, error) {
	lat := make([]time.Duration, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(seedOpts.conc, 1))
	t0 := time.Now()
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			st := time.Now()
			err := op(gctx, i)
			lat[i] = time.Since(st)
			return err
		})
	}
	err := g.Wait()
	return lat, time.Since(t0), err
}

func report(w io.Writer, name string, total time.Duration, lat []time.Duration) {
	if len(lat) == 0 {
		return
	}
	fmt.Fprintf(w, "%-12s total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		name, total, total/time.Duration(len(lat)), pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
