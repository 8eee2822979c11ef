// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"cruisy/internal/cache"
	"cruisy/internal/catalog"
	"cruisy/internal/database"
	"cruisy/internal/kv"
	"cruisy/internal/middleware"
	"cruisy/internal/models"
	"cruisy/internal/profile"
	"cruisy/internal/render"
	"cruisy/internal/session"
	"cruisy/internal/store"
	"cruisy/internal/submission"
	"cruisy/internal/view"
)

const testPublicBase = "https://cruisytravel.com"

// testItineraries is the catalog served by fakeFetcher.
var testItineraries = []models.Itinerary{
	{ID: 42, Name: "Sunset Sail", Category: "Sailing", DestinationTag: "Key West", Price: "$79", Duration: "2 hours", BookingURL: "https://cruisytravel.com/book/sunset-sail"},
	{ID: 43, Name: "Reef Snorkel", Category: "Snorkeling", DestinationTag: "Key West", Price: "$59", Duration: "3 hours", BookingURL: "https://cruisytravel.com/book/reef-snorkel?ref=site"},
	{ID: 77, Name: "Everglades Airboat", Category: "Nature", DestinationTag: "Miami", Price: "$45", Duration: "90 minutes", BookingURL: "https://cruisytravel.com/book/airboat"},
}

// fakeFetcher implements catalog.Fetcher over a fixed list.
type fakeFetcher struct {
	mu    sync.Mutex
	list  []models.Itinerary
	err   error
	calls int
}

func (f *fakeFetcher) FetchAll(_ context.Context) ([]models.Itinerary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Itinerary(nil), f.list...), nil
}

func (f *fakeFetcher) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// failingChannel implements submission.Channel and always fails.
type failingChannel struct{}

func (failingChannel) Name() string { return "webhook" }
func (failingChannel) Send(_ context.Context, _ submission.Draft) (submission.Result, error) {
	return submission.Result{}, io.ErrUnexpectedEOF
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "cruisy")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "cruisy")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "card:*", "catalog:*", "kv:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB             *sql.DB
	Valkey         *redis.Client
	Renderer       *render.Renderer
	PortalSessions *session.Store
	AdminSessions  *session.Store
	Profiles       *profile.Store
	Fetcher        *fakeFetcher
	Catalog        *catalog.Service
	Submissions    *store.SubmissionStore
	UserStore      *store.UserStore
	CardCache      *cache.CardCache
	Portal         *Portal
	Public         *Public
	API            *API
	Admin          *Admin
	Auth           *Auth
}

// newTestEnv creates a complete test environment with all handler
// dependencies. Submissions are delivered over the clipboard channel.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithChannels(t, submission.Clipboard{})
}

// newTestEnvWithChannels is newTestEnv with a custom channel chain.
func newTestEnvWithChannels(t *testing.T, channels ...submission.Channel) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	portalSessions := session.NewStore(vk, session.PortalCookie, false)
	adminSessions := session.NewStore(vk, session.AdminCookie, false)
	profiles := profile.NewStore(kv.NewMemory())
	fetcher := &fakeFetcher{list: testItineraries}
	cat := catalog.New(fetcher, nil)
	submissions := store.NewSubmissionStore(db)
	userStore := store.NewUserStore(db)
	cardCache := cache.NewCardCache(vk, time.Minute)
	dispatcher := submission.NewDispatcher(channels...)

	return &testEnv{
		DB:             db,
		Valkey:         vk,
		Renderer:       renderer,
		PortalSessions: portalSessions,
		AdminSessions:  adminSessions,
		Profiles:       profiles,
		Fetcher:        fetcher,
		Catalog:        cat,
		Submissions:    submissions,
		UserStore:      userStore,
		CardCache:      cardCache,
		Portal:         NewPortal(renderer, portalSessions, profiles, cat, dispatcher, submissions, nil, cardCache, testPublicBase),
		Public:         NewPublic(renderer, profiles, cat, submissions, cardCache, testPublicBase),
		API:            NewAPI(cat, profiles, submissions, testPublicBase),
		Admin:          NewAdmin(renderer, adminSessions, submissions, profiles, cat, nil, cardCache, testPublicBase),
		Auth:           NewAuth(renderer, adminSessions, userStore),
	}
}

// saveProfile stores a complete profile for slug with the given selection.
func (env *testEnv) saveProfile(t *testing.T, slugValue string, sel ...int64) profile.Profile {
	t.Helper()
	p := profile.New("Test Ambassador", slugValue, slugValue+"@example.com")
	if err := env.Profiles.Save(context.Background(), slugValue, p, sel); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM submissions WHERE slug = $1", p.Slug)
	})
	return p
}

// portalSession returns portal session data for slug on the initial view.
func portalSession(slugValue string) *session.Data {
	return &session.Data{Slug: slugValue, View: view.Initial()}
}

// portalRequest builds a request that carries a stored portal session,
// both as cookie and in the context.
func (env *testEnv) portalRequest(t *testing.T, method, target string, form url.Values, sess *session.Data) *http.Request {
	t.Helper()
	return env.sessionRequest(t, env.PortalSessions, middleware.PortalKey, method, target, form, sess)
}

// adminRequest builds a request that carries a stored back-office session.
func (env *testEnv) adminRequest(t *testing.T, method, target string, form url.Values, sess *session.Data) *http.Request {
	t.Helper()
	return env.sessionRequest(t, env.AdminSessions, middleware.SessionKey, method, target, form, sess)
}

func (env *testEnv) sessionRequest(t *testing.T, sessions *session.Store, key any, method, target string, form url.Values, sess *session.Data) *http.Request {
	t.Helper()

	rec := httptest.NewRecorder()
	if _, err := sessions.Create(context.Background(), rec, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := formRequest(method, target, form)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req.WithContext(context.WithValue(req.Context(), key, sess))
}

// storedSession reads back the session persisted for req.
func storedSession(t *testing.T, sessions *session.Store, req *http.Request) *session.Data {
	t.Helper()
	data, err := sessions.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if data == nil {
		t.Fatal("session not found")
	}
	return data
}

// formRequest builds a request with an optional urlencoded form body.
func formRequest(method, target string, form url.Values) *http.Request {
	if form == nil {
		return httptest.NewRequest(method, target, nil)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// ctxWithSession adds back-office session data to a context.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testReviewer creates a back-office user with a unique email.
func (env *testEnv) testReviewer(t *testing.T) (*models.User, string) {
	t.Helper()
	const password = "review-pass-123"
	email := "reviewer-" + uuid.NewString()[:8] + "@cruisy.test"
	user, err := env.UserStore.Create(email, password, "Test Reviewer", models.RoleReviewer)
	if err != nil {
		t.Fatalf("create reviewer: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user, password
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
