package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	server "intern_insider/internal/adapters/http_server"
	"intern_insider/internal/app"
	"intern_insider/internal/domain"
)

type memRepo struct {
	mu      sync.Mutex
	reviews []domain.Review
	fail    error
	lastC   domain.FilterCriteria
}

func (m *memRepo) Create(ctx context.Context, r domain.Review) (domain.ReviewID, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = domain.ReviewID("r" + string(rune('0'+len(m.reviews))))
	m.reviews = append(m.reviews, r)
	return r.ID, nil
}

func (m *memRepo) IncrementLike(ctx context.Context, id domain.ReviewID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reviews {
		if m.reviews[i].ID == id {
			m.reviews[i].LikeCount++
			return m.reviews[i].LikeCount, nil
		}
	}
	return 0, &domain.NotFoundError{ID: id}
}

func (m *memRepo) Get(ctx context.Context, id domain.ReviewID) (domain.Review, error) {
	for _, r := range m.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Review{}, &domain.NotFoundError{ID: id}
}

func (m *memRepo) All(ctx context.Context, limit int) iter.Seq2[domain.Review, error] {
	return func(yield func(domain.Review, error) bool) {
		if m.fail != nil {
			yield(domain.Review{}, m.fail)
			return
		}
		for i, r := range m.reviews {
			if limit > 0 && i >= limit {
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

func (m *memRepo) Filter(ctx context.Context, c domain.FilterCriteria) ([]domain.Review, error) {
	m.lastC = c
	return []domain.Review{}, nil
}

func (m *memRepo) Popular(ctx context.Context, limit int) ([]domain.Review, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	if limit > len(m.reviews) {
		limit = len(m.reviews)
	}
	return m.reviews[:limit], nil
}

func (m *memRepo) Count(ctx context.Context) (int64, error) { return int64(len(m.reviews)), nil }

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func newTestServer(t *testing.T, repo *memRepo, rps int) *httptest.Server {
	t.Helper()
	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Q:        app.NewQueryService(repo),
		C:        app.NewCommandService(repo),
		Health:   pinger{},
		WriteRPS: rps,
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func seededRepo() *memRepo {
	rs := app.SampleReviews()
	for i := range rs {
		rs[i].ID = domain.ReviewID("r" + string(rune('0'+i)))
	}
	return &memRepo{reviews: rs}
}

const body = `{"company_name":"TechCorp","review_text":"Great","rating":4.5,
"remote_work_option":"Yes","department":"Computer Engineering","project_rating":4.8,
"meal_card":"Yes","technologies_used":["Go"],"feedback_date":"2024-10-12"}`

func TestListReviews(t *testing.T) {
	ts := newTestServer(t, seededRepo(), 0)

	res, err := http.Get(ts.URL + "/v1/reviews")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var got []app.ReviewView
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 || got[0].CompanyName != "TechCorp" || got[0].FeedbackDate != "2024-10-12" {
		t.Fatalf("unexpected: %+v", got)
	}
	if res.Header.Get("ETag") == "" {
		t.Fatalf("missing ETag")
	}
}

func TestListReviews_NotModified(t *testing.T) {
	ts := newTestServer(t, seededRepo(), 0)

	res, err := http.Get(ts.URL + "/v1/reviews")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	res.Body.Close()
	etag := res.Header.Get("ETag")

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/reviews", nil)
	req.Header.Set("If-None-Match", etag)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res.StatusCode)
	}
}

func TestListReviews_FilterParams(t *testing.T) {
	repo := seededRepo()
	ts := newTestServer(t, repo, 0)

	res, err := http.Get(ts.URL + "/v1/reviews?department=Data%20Science&min_rating=4&company=corp&limit=10")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	c := repo.lastC
	if c.DepartmentEquals == nil || *c.DepartmentEquals != "Data Science" ||
		c.MinRating == nil || *c.MinRating != 4 ||
		c.CompanyNameContains == nil || *c.CompanyNameContains != "corp" || c.Limit != 10 {
		t.Fatalf("criteria not parsed: %+v", c)
	}
}

func TestListReviews_BadParams(t *testing.T) {
	ts := newTestServer(t, seededRepo(), 0)
	for _, q := range []string{"?limit=-1", "?limit=101", "?limit=x", "?min_rating=high",
		"?min_rating=NaN", "?min_rating=Inf", "?min_rating=-Infinity"} {
		res, err := http.Get(ts.URL + "/v1/reviews" + q)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, res.StatusCode)
		}
	}
}

func TestListReviews_NonFiniteRatingNeverReachesStore(t *testing.T) {
	repo := seededRepo()
	ts := newTestServer(t, repo, 0)

	res, err := http.Get(ts.URL + "/v1/reviews?min_rating=NaN")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
	if repo.lastC.MinRating != nil {
		t.Fatalf("criteria reached the store: %+v", repo.lastC)
	}
}

func TestPopular_DefaultLimitAndOrder(t *testing.T) {
	ts := newTestServer(t, seededRepo(), 0)

	res, err := http.Get(ts.URL + "/v1/reviews/popular?limit=2")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	var got []app.ReviewView
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
}

func TestGetReview_NotFound(t *testing.T) {
	ts := newTestServer(t, seededRepo(), 0)

	res, err := http.Get(ts.URL + "/v1/reviews/missing")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestCreateAndLike(t *testing.T) {
	repo := &memRepo{}
	ts := newTestServer(t, repo, 0)

	res, err := http.Post(ts.URL+"/v1/reviews", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var created struct{ ID string }
	_ = json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated || created.ID == "" {
		t.Fatalf("status %d id %q", res.StatusCode, created.ID)
	}
	if loc := res.Header.Get("Location"); loc != "/v1/reviews/"+created.ID {
		t.Fatalf("location: %q", loc)
	}

	for want := int64(1); want <= 2; want++ {
		res, err = http.Post(ts.URL+"/v1/reviews/"+created.ID+"/like", "application/json", nil)
		if err != nil {
			t.Fatalf("POST like: %v", err)
		}
		var liked struct {
			ID        string `json:"id"`
			LikeCount int64  `json:"like_count"`
		}
		_ = json.NewDecoder(res.Body).Decode(&liked)
		res.Body.Close()
		if liked.LikeCount != want {
			t.Fatalf("like_count: want %d got %d", want, liked.LikeCount)
		}
	}

	res, err = http.Post(ts.URL+"/v1/reviews/nope/like", "application/json", nil)
	if err != nil {
		t.Fatalf("POST like: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCreate_ValidationProblem(t *testing.T) {
	repo := &memRepo{}
	ts := newTestServer(t, repo, 0)

	bad := strings.Replace(body, `"rating":4.5`, `"rating":9`, 1)
	res, err := http.Post(ts.URL+"/v1/reviews", "application/json", strings.NewReader(bad))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.StatusCode)
	}
	var p struct {
		Errors []domain.FieldError `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Errors) != 1 || p.Errors[0].Field != "rating" {
		t.Fatalf("unexpected field errors: %+v", p.Errors)
	}
	if len(repo.reviews) != 0 {
		t.Fatalf("invalid review was stored")
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	ts := newTestServer(t, &memRepo{}, 0)
	res, err := http.Post(ts.URL+"/v1/reviews", "application/json", strings.NewReader(`{"unknown":1}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestStoreFailuresMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&domain.ConnectionError{Op: "popular", Err: context.DeadlineExceeded}, http.StatusServiceUnavailable},
		{&domain.StorageError{Op: "popular", Err: errors.New("boom")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		repo := seededRepo()
		repo.fail = tc.err
		ts := newTestServer(t, repo, 0)

		res, err := http.Get(ts.URL + "/v1/reviews/popular")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != tc.want {
			t.Fatalf("%v: want %d got %d", tc.err, tc.want, res.StatusCode)
		}
	}
}

func TestThrottle_RejectsBurst(t *testing.T) {
	ts := newTestServer(t, seededRepo(), 1)

	var limited bool
	for i := 0; i < 5; i++ {
		res, err := http.Post(ts.URL+"/v1/reviews/r0/like", "application/json", nil)
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		res.Body.Close()
		if res.StatusCode == http.StatusTooManyRequests {
			limited = true
			if res.Header.Get("Retry-After") == "" {
				t.Fatalf("missing Retry-After")
			}
		}
	}
	if !limited {
		t.Fatalf("expected at least one 429")
	}
}

func TestHealthz(t *testing.T) {
	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Q:      app.NewQueryService(&memRepo{}),
		C:      app.NewCommandService(&memRepo{}),
		Health: pinger{err: &domain.ConnectionError{Op: "ping", Err: errors.New("down")}},
	})
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
