package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hunter-sfcb/iceapp/config"
	"github.com/Hunter-sfcb/iceapp/internal/access"
	"github.com/Hunter-sfcb/iceapp/internal/api/handler"
	"github.com/Hunter-sfcb/iceapp/internal/api/middleware"
	"github.com/Hunter-sfcb/iceapp/internal/auth"
	"github.com/Hunter-sfcb/iceapp/internal/model"
	"github.com/Hunter-sfcb/iceapp/internal/repository"
	"github.com/Hunter-sfcb/iceapp/internal/service"
	"github.com/Hunter-sfcb/iceapp/internal/session"
	"github.com/Hunter-sfcb/iceapp/internal/testutil"
)

// countingAdmin 统计管理服务被调用的次数
type countingAdmin struct {
	service.AdminService
	calls atomic.Int32
}

func (a *countingAdmin) FetchAdminData(ctx context.Context, viewer *model.Profile) (*service.AdminData, error) {
	a.calls.Add(1)
	return a.AdminService.FetchAdminData(ctx, viewer)
}

func (a *countingAdmin) CreateRank(ctx context.Context, viewer *model.Profile, in service.CreateRankInput) (*service.AdminData, error) {
	a.calls.Add(1)
	return a.AdminService.CreateRank(ctx, viewer, in)
}

func (a *countingAdmin) SetUserRank(ctx context.Context, viewer *model.Profile, profileID string, rankID *string) (*service.AdminData, error) {
	a.calls.Add(1)
	return a.AdminService.SetUserRank(ctx, viewer, profileID, rankID)
}

func (a *countingAdmin) ToggleVerified(ctx context.Context, viewer *model.Profile, profileID string, current bool) (*service.AdminData, error) {
	a.calls.Add(1)
	return a.AdminService.ToggleVerified(ctx, viewer, profileID, current)
}

func (a *countingAdmin) TogglePremium(ctx context.Context, viewer *model.Profile, profileID string, current bool) (*service.AdminData, error) {
	a.calls.Add(1)
	return a.AdminService.TogglePremium(ctx, viewer, profileID, current)
}

type testApp struct {
	router *gin.Engine
	store  *repository.Store
	admin  *countingAdmin
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type feedData struct {
	Posts   []*model.Post `json:"posts"`
	Empty   bool          `json:"empty"`
	Message string        `json:"message"`
}

func newTestApp(t *testing.T, limiter *middleware.IPRateLimiter) *testApp {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, _ := testutil.NewStore(t)
	provider := auth.NewProvider(store.Accounts, auth.NewRedisTokenStore(client), config.JWTConfig{
		Secret: "router-test-secret",
		TTL:    time.Hour,
		Issuer: "iceapp-test",
	})
	factory := session.NewFactory(provider, store.Profiles)
	admin := &countingAdmin{AdminService: service.NewAdminService(store.Ranks, store.Profiles)}
	h := handler.New(
		factory,
		service.NewFeedService(store.Posts, store.Likes),
		service.NewPostService(store.Posts, store.Comments, store.Likes),
		admin,
		service.NewRelationshipService(store.Follows, store.Profiles),
	)
	r := NewRouter(h, factory, Options{Mode: gin.TestMode, ServiceName: "iceapp-test", AuthLimiter: limiter})
	return &testApp{router: r, store: store, admin: admin}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (a *testApp) signUp(t *testing.T, username string) string {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email":            username + "@example.com",
		"password":         "secret1",
		"confirm_password": "secret1",
		"username":         username,
		"display_name":     username,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignUpPasswordRules(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()

	code, env := app.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "a@example.com", "password": "secret1", "confirm_password": "secret2",
		"username": "a", "display_name": "A",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, session.ErrPasswordMismatch.Error(), env.Message)

	code, env = app.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "a@example.com", "password": "12345", "confirm_password": "12345",
		"username": "a", "display_name": "A",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, session.ErrPasswordTooShort.Error(), env.Message)

	_, err := app.store.Accounts.GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSignInAndSession(t *testing.T) {
	app := newTestApp(t, nil)
	app.signUp(t, "alice")

	code, env := app.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{"email": "alice@example.com", "password": "nope12"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid login credentials", env.Message)

	code, env = app.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token

	code, env = app.do(t, http.MethodGet, "/api/v1/auth/session", token, nil)
	require.Equal(t, http.StatusOK, code)
	st := decode[struct {
		Session struct {
			Identity *auth.Identity `json:"identity"`
			Profile  *model.Profile `json:"profile"`
		} `json:"session"`
	}](t, env.Data)
	require.NotNil(t, st.Session.Identity)
	require.NotNil(t, st.Session.Profile)
	assert.Equal(t, "alice", st.Session.Profile.Username)

	code, _ = app.do(t, http.MethodPost, "/api/v1/auth/signout", token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, http.MethodGet, "/api/v1/feed", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFeedRequiresSignIn(t *testing.T) {
	app := newTestApp(t, nil)

	code, _ := app.do(t, http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = app.do(t, http.MethodGet, "/api/v1/feed", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSignInWithStaleToken(t *testing.T) {
	app := newTestApp(t, nil)
	stale := app.signUp(t, "alice")

	code, _ := app.do(t, http.MethodPost, "/api/v1/auth/signout", stale, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := app.do(t, http.MethodPost, "/api/v1/auth/signin", stale, gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code, env.Message)
	fresh := decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token
	assert.NotEqual(t, stale, fresh)

	code, _ = app.do(t, http.MethodGet, "/api/v1/feed", fresh, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodGet, "/api/v1/auth/session", stale, nil)
	require.Equal(t, http.StatusOK, code)
	st := decode[struct {
		Session struct {
			Identity *auth.Identity `json:"identity"`
		} `json:"session"`
	}](t, env.Data)
	assert.Nil(t, st.Session.Identity)

	code, _ = app.do(t, http.MethodPost, "/api/v1/auth/signout", stale, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSignUpUsernameTaken(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	app.signUp(t, "alice")

	code, env := app.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": "other@example.com", "password": "secret1", "confirm_password": "secret1",
		"username": "alice", "display_name": "Other",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, session.UsernameTakenMessage, env.Message)

	_, err := app.store.Accounts.GetByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFeedMutationsRefetch(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.signUp(t, "alice")

	code, env := app.do(t, http.MethodGet, "/api/v1/feed", token, nil)
	require.Equal(t, http.StatusOK, code)
	feed := decode[feedData](t, env.Data)
	assert.True(t, feed.Empty)
	assert.Equal(t, handler.EmptyFeedMessage, feed.Message)
	assert.Empty(t, feed.Posts)

	code, env = app.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.ErrEmptyContent.Error(), env.Message)

	code, env = app.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{"content": "hello world"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	feed = decode[feedData](t, env.Data)
	require.Len(t, feed.Posts, 1)
	post := feed.Posts[0]
	assert.Equal(t, "hello world", post.Content)
	assert.False(t, post.IsLiked)
	require.NotNil(t, post.Author)
	assert.Equal(t, "alice", post.Author.Username)

	code, env = app.do(t, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, code)
	liked := decode[struct {
		Liked bool     `json:"liked"`
		Feed  feedData `json:"feed"`
	}](t, env.Data)
	assert.True(t, liked.Liked)
	require.Len(t, liked.Feed.Posts, 1)
	assert.True(t, liked.Feed.Posts[0].IsLiked)
	assert.EqualValues(t, 1, liked.Feed.Posts[0].LikesCount)

	code, env = app.do(t, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", token, nil)
	require.Equal(t, http.StatusOK, code)
	liked = decode[struct {
		Liked bool     `json:"liked"`
		Feed  feedData `json:"feed"`
	}](t, env.Data)
	assert.False(t, liked.Liked)
	assert.False(t, liked.Feed.Posts[0].IsLiked)
	assert.EqualValues(t, 0, liked.Feed.Posts[0].LikesCount)

	code, env = app.do(t, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", token, gin.H{"content": "first!"})
	require.Equal(t, http.StatusCreated, code)
	commented := decode[struct {
		Comments []*model.Comment `json:"comments"`
		Feed     feedData         `json:"feed"`
	}](t, env.Data)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "first!", commented.Comments[0].Content)
	assert.EqualValues(t, 1, commented.Feed.Posts[0].CommentsCount)

	code, _ = app.do(t, http.MethodPost, "/api/v1/posts/missing/like", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminForbiddenForNonOwner(t *testing.T) {
	app := newTestApp(t, nil)
	token := app.signUp(t, "plain")

	code, env := app.do(t, http.MethodGet, "/api/v1/admin", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, access.ErrForbidden.Error(), env.Message)

	code, _ = app.do(t, http.MethodPost, "/api/v1/admin/ranks", token, gin.H{"name": "VIP", "priority": 500})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = app.do(t, http.MethodGet, "/api/v1/admin", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	assert.Zero(t, app.admin.calls.Load())
}

func TestAdminAsOwner(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	ownerToken := app.signUp(t, "boss")
	app.signUp(t, "bob")
	_, err := service.GrantOwner(ctx, app.store.Ranks, app.store.Profiles, "boss")
	require.NoError(t, err)
	bob, err := app.store.Profiles.GetByUsername(ctx, "bob")
	require.NoError(t, err)

	code, env := app.do(t, http.MethodGet, "/api/v1/admin", ownerToken, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	data := decode[service.AdminData](t, env.Data)
	assert.Len(t, data.Users, 2)
	require.Len(t, data.Ranks, 1)

	code, env = app.do(t, http.MethodPost, "/api/v1/admin/ranks", ownerToken, gin.H{"name": "VIP", "color": "#FF0000", "priority": 500})
	require.Equal(t, http.StatusCreated, code, env.Message)
	data = decode[service.AdminData](t, env.Data)
	require.Len(t, data.Ranks, 2)
	assert.Equal(t, service.OwnerRankName, data.Ranks[0].Name)
	vipID := data.Ranks[1].ID

	code, env = app.do(t, http.MethodPut, "/api/v1/admin/users/"+bob.ID+"/rank", ownerToken, gin.H{"rank_id": vipID})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = app.do(t, http.MethodPost, "/api/v1/admin/users/"+bob.ID+"/premium", ownerToken, gin.H{"current": false})
	require.Equal(t, http.StatusOK, code, env.Message)
	data = decode[service.AdminData](t, env.Data)
	var got *model.Profile
	for _, u := range data.Users {
		if u.ID == bob.ID {
			got = u
		}
	}
	require.NotNil(t, got)
	assert.True(t, got.IsPremium)
	require.NotNil(t, got.PremiumUntil)
	assert.WithinDuration(t, time.Now().Add(service.PremiumDuration), *got.PremiumUntil, time.Minute)
	require.NotNil(t, got.Rank)
	assert.Equal(t, "VIP", got.Rank.Name)

	code, _ = app.do(t, http.MethodPost, "/api/v1/admin/users/"+bob.ID+"/verified", ownerToken, gin.H{"current": false})
	assert.Equal(t, http.StatusOK, code)
	refreshed, err := app.store.Profiles.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.IsVerified)
}

func TestFollowRoutes(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	aliceToken := app.signUp(t, "alice")
	app.signUp(t, "bob")
	alice, err := app.store.Profiles.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	bob, err := app.store.Profiles.GetByUsername(ctx, "bob")
	require.NoError(t, err)

	code, env := app.do(t, http.MethodPost, "/api/v1/relations/follow", aliceToken, gin.H{"profile_id": bob.ID})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"following":true,"changed":true}`, string(env.Data))

	code, env = app.do(t, http.MethodGet, "/api/v1/profiles/"+bob.ID+"/followers", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[struct {
		List []*model.Profile `json:"list"`
	}](t, env.Data)
	require.Len(t, page.List, 1)
	assert.Equal(t, alice.ID, page.List[0].ID)

	code, env = app.do(t, http.MethodGet, "/api/v1/profiles/"+bob.ID+"/follow-stats", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"followers":1,"following":0}`, string(env.Data))

	code, env = app.do(t, http.MethodPost, "/api/v1/relations/follow", aliceToken, gin.H{"profile_id": alice.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, service.ErrFollowSelf.Error(), env.Message)

	code, env = app.do(t, http.MethodPost, "/api/v1/relations/unfollow", aliceToken, gin.H{"profile_id": bob.ID})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"following":false,"changed":true}`, string(env.Data))
}

func TestAuthRateLimit(t *testing.T) {
	app := newTestApp(t, middleware.NewIPRateLimiter(0.001, 1))
	body := gin.H{"email": "x@example.com", "password": "secret1"}

	code, _ := app.do(t, http.MethodPost, "/api/v1/auth/signin", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, env := app.do(t, http.MethodPost, "/api/v1/auth/signin", "", body)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "too many requests", env.Message)
}
