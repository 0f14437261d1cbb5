package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"intern_insider/internal/app"
	"intern_insider/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Q        *app.QueryService
	C        *app.CommandService
	Health   domain.HealthChecker
	WriteRPS int
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.healthz)
	s.mux.Route("/v1/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Get("/popular", h.popularReviews)
		r.Get("/{id}", h.getReview)

		r.Group(func(r chi.Router) {
			r.Use(Throttle(h.WriteRPS))
			r.Post("/", h.createReview)
			r.Post("/{id}/like", h.likeReview)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. Connection
// and storage failures are retryable from the client's point of view.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{
			Type: "about:blank", Title: "Invalid review", Status: http.StatusUnprocessableEntity,
			Detail: "one or more fields are invalid", Errors: ve.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
	case errors.Is(err, domain.ErrConnection):
		w.Header().Set("Retry-After", "5")
		writeProblem(w, http.StatusServiceUnavailable, "Store Unavailable", "the review store could not be reached, retry later")
	default:
		writeProblem(w, http.StatusInternalServerError, "Storage Error", "the review store failed to complete the request")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Encoding Error", "response could not be encoded")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// parseLimit reads ?limit=, returning def when absent.
func parseLimit(r *http.Request, def int) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return def, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l < 0 || l > app.MaxPageSize {
		return 0, false
	}
	return l, true
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.Ping(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, app.MaxPageSize)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 0 and 100")
		return
	}
	if limit == 0 {
		limit = app.MaxPageSize
	}
	crit := domain.FilterCriteria{Limit: limit}
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("company")); v != "" {
		crit.CompanyNameContains = &v
	}
	if v := strings.TrimSpace(q.Get("department")); v != "" {
		crit.DepartmentEquals = &v
	}
	if v := q.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			writeProblem(w, http.StatusBadRequest, "Invalid min_rating", "min_rating must be a finite number")
			return
		}
		crit.MinRating = &f
	}

	out, err := h.Q.Search(r.Context(), crit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, app.ToViews(out))
}

func (h *Handlers) popularReviews(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, app.DefaultPopularLimit)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 0 and 100")
		return
	}
	out, err := h.Q.Popular(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, app.ToViews(out))
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Q.Get(r.Context(), domain.ReviewID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, app.ToView(rv))
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var in app.ReviewInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON review object")
		return
	}
	id, err := h.C.Submit(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/reviews/"+string(id))
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(id)})
}

func (h *Handlers) likeReview(w http.ResponseWriter, r *http.Request) {
	id := domain.ReviewID(chi.URLParam(r, "id"))
	n, err := h.C.Like(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID        string `json:"id"`
		LikeCount int64  `json:"like_count"`
	}{string(id), n})
}
