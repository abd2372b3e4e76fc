package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/blog-engagement/config"
	"github.com/oksasatya/blog-engagement/internal/container"
	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/internal/infrastructure/memory"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/mailer"
)

type outbox struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (o *outbox) Send(_ context.Context, job mailer.EmailJob) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.jobs = append(o.jobs, job)
	return nil
}

func (o *outbox) last() mailer.EmailJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.jobs[len(o.jobs)-1]
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
	mail   *outbox
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	helpers.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { helpers.PasswordCost = bcrypt.DefaultCost })

	cfg := config.Load()
	cfg.StoreDriver = "memory"
	cfg.Env = "test"
	cfg.HTTPLogEnabled = false
	cfg.DebugMetricsEnabled = false
	cfg.ClientURL = "https://blog.test"
	cfg.RequireVerifiedReactions = false

	store := memory.NewStore()
	mail := &outbox{}
	container.SetConfig(cfg)
	container.SetLogger(helpers.NewNopLogger())
	container.SetRedis(nil)
	container.SetRabbitPub(nil)
	container.SetES(nil)
	container.SetPGPool(nil)
	container.SetMetrics(nil)
	container.SetJWT(helpers.NewJWTManager("engine-test-secret", time.Hour))
	container.SetRepositories(store.Users(), store.Posts())
	container.SetNotifier(mail)
	t.Cleanup(func() { container.SetNotifier(nil) })

	return &api{t: t, engine: NewEngine(), store: store, mail: mail}
}

// do sends body as JSON with the session cookie when given.
func (a *api) do(method, path, session string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: session})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// signup registers name and returns its id and session cookie value.
func (a *api) signup(name string) (string, string) {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": name, "email": name + "@example.com", "password": name + "-password",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var u struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &u))
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookie {
			return u.ID, c.Value
		}
	}
	a.t.Fatalf("no session cookie for %s", name)
	return "", ""
}

func (a *api) publish(session, title string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/posts", session, gin.H{"title": title, "body": "body of " + title})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &p))
	return p.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestRoutesRequireSession(t *testing.T) {
	a := newAPI(t)
	for _, path := range []string{"/api/posts", "/api/profile", "/api/users/search?q=x"} {
		w, env := a.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.False(t, env.Success)
	}
}

func TestRegisterValidatesPayload(t *testing.T) {
	a := newAPI(t)
	w, env := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"username": "al", "email": "nope", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	details := decode[map[string]string](t, env.Error)
	assert.Contains(t, details, "username")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")

	a.signup("alice")
	w, _ = a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice2", "email": "alice@example.com", "password": "another-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEngagementOverHTTP(t *testing.T) {
	a := newAPI(t)
	_, alice := a.signup("alice")
	_, bob := a.signup("bob")
	post := a.publish(alice, "Hello world")

	w, env := a.do(http.MethodPut, "/api/posts/"+post+"/likes", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rx := decode[entity.Reactions](t, env.Data)
	assert.Equal(t, 1, rx.Likes)

	w, env = a.do(http.MethodPut, "/api/posts/"+post+"/dislikes", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rx = decode[entity.Reactions](t, env.Data)
	assert.Equal(t, 0, rx.Likes)
	assert.Equal(t, 1, rx.Dislikes)

	w, _ = a.do(http.MethodPost, "/api/posts/"+post+"/claps", bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = a.do(http.MethodPost, "/api/posts/"+post+"/claps", bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, `"conflict"`, string(env.Error))
	w, _ = a.do(http.MethodPost, "/api/posts/"+post+"/claps", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = a.do(http.MethodGet, "/api/posts/"+post, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		PostViews int    `json:"post_views"`
		Claps     int    `json:"claps"`
		Body      string `json:"body"`
	}](t, env.Data)
	assert.Equal(t, 1, got.PostViews)
	assert.Equal(t, 1, got.Claps)
	assert.Equal(t, "body of Hello world", got.Body)

	w, _ = a.do(http.MethodGet, "/api/posts/not-a-uuid", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlockHidesPostsOverHTTP(t *testing.T) {
	a := newAPI(t)
	aliceID, alice := a.signup("alice")
	bobID, bob := a.signup("bob")
	post := a.publish(alice, "Members only")

	w, _ := a.do(http.MethodPut, "/api/users/"+aliceID+"/follow", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = a.do(http.MethodPut, "/api/users/"+aliceID+"/follow", bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = a.do(http.MethodPut, "/api/users/"+bobID+"/block", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, "/api/posts/"+post, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := a.do(http.MethodGet, "/api/posts", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, env = a.do(http.MethodGet, "/api/users/"+aliceID, bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[struct {
		Email     string            `json:"email"`
		Posts     []json.RawMessage `json:"posts"`
		Followers []struct {
			ID string `json:"id"`
		} `json:"followers"`
	}](t, env.Data)
	assert.Empty(t, profile.Email)
	assert.Empty(t, profile.Posts)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, bobID, profile.Followers[0].ID)

	w, _ = a.do(http.MethodPut, "/api/users/"+bobID+"/follow", bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileViewsCountOnce(t *testing.T) {
	a := newAPI(t)
	aliceID, _ := a.signup("alice")
	_, bob := a.signup("bob")

	w, env := a.do(http.MethodGet, "/api/users/"+aliceID+"/view", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[struct {
		ProfileViews int `json:"profile_views"`
	}](t, env.Data)
	assert.Equal(t, 1, views.ProfileViews)

	w, _ = a.do(http.MethodGet, "/api/users/"+aliceID+"/view", bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

var resetLink = regexp.MustCompile(`/reset-password/([A-Za-z0-9_-]{43})`)

func TestPasswordResetOverHTTP(t *testing.T) {
	a := newAPI(t)
	a.signup("alice")

	w, _ := a.do(http.MethodPost, "/api/auth/password/forgot", "", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, a.mail.jobs)

	w, _ = a.do(http.MethodPost, "/api/auth/password/forgot", "", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	m := resetLink.FindStringSubmatch(a.mail.last().Text)
	require.Len(t, m, 2)
	token := m[1]

	w, _ = a.do(http.MethodPut, "/api/auth/password/reset/garbage", "", gin.H{"password": "brand-new-password"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPut, "/api/auth/password/reset/"+token, "", gin.H{"password": "brand-new-password"})
	require.Equal(t, http.StatusOK, w.Code)
	w, env := a.do(http.MethodPut, "/api/auth/password/reset/"+token, "", gin.H{"password": "another-password"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `"invalid_or_expired"`, string(env.Error))

	w, _ = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "alice-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "brand-new-password"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminReconcileNeedsAdmin(t *testing.T) {
	a := newAPI(t)
	_, bob := a.signup("bob")

	w, _ := a.do(http.MethodPost, "/api/admin/relationships/reconcile", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	hash, err := helpers.HashPassword("admin-password")
	require.NoError(t, err)
	admin := &entity.User{Username: "root", Email: "root@example.com", Password: hash, Role: entity.RoleAdmin}
	require.NoError(t, a.store.Users().Create(context.Background(), admin))
	w, _ = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "root@example.com", "password": "admin-password"})
	require.Equal(t, http.StatusOK, w.Code)
	var session string
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookie {
			session = c.Value
		}
	}

	w, env := a.do(http.MethodPost, "/api/admin/relationships/reconcile", session, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"repaired":0}`, string(env.Data))
}
