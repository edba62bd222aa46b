package microservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/illmade-knight/go-vacario/pkg/cache"
	"github.com/illmade-knight/go-vacario/pkg/kvstore"
	"github.com/illmade-knight/go-vacario/pkg/vacation"
	"github.com/rs/zerolog"
)

const (
	maxBodyBytes    = 1 << 20
	defaultHTTPPort = ":8080"
)

// namespaceCache is the inspection surface every bounded cache exposes.
type namespaceCache interface {
	Namespace() string
	Capacity() int
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// CacheService exposes the day and activity caches over HTTP.
type CacheService struct {
	*BaseServer
	days       *vacation.DayCache
	activities *vacation.ActivityCache
	namespaces map[string]namespaceCache
	logger     zerolog.Logger
}

var _ Service = (*CacheService)(nil)

// NewCacheService creates the service and registers its routes on a new BaseServer.
// store is the backend both caches persist through; /readyz pings it. A nil cfg
// uses the default port.
func NewCacheService(
	cfg *Config,
	store kvstore.Store,
	days *vacation.DayCache,
	activities *vacation.ActivityCache,
	logger zerolog.Logger,
) (*CacheService, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if days == nil || activities == nil {
		return nil, errors.New("day and activity caches are required")
	}
	httpPort := defaultHTTPPort
	if cfg != nil && cfg.HTTPPort != "" {
		httpPort = cfg.HTTPPort
	}

	s := &CacheService{
		BaseServer: NewBaseServer(logger, httpPort),
		days:       days,
		activities: activities,
		namespaces: map[string]namespaceCache{
			days.Namespace():       days,
			activities.Namespace(): activities,
		},
		logger: logger.With().Str("component", "CacheService").Logger(),
	}

	mux := s.Mux()
	mux.HandleFunc("GET /days/{vacationID}", s.withRequestID(s.handleGetDays))
	mux.HandleFunc("PUT /days/{vacationID}", s.withRequestID(s.handlePutDays))
	mux.HandleFunc("GET /activities/{activityID}", s.withRequestID(s.handleGetActivity))
	mux.HandleFunc("PUT /activities/{activityID}", s.withRequestID(s.handlePutActivity))
	mux.HandleFunc("GET /caches/{namespace}", s.withRequestID(s.handleDescribeCache))
	mux.HandleFunc("DELETE /caches/{namespace}", s.withRequestID(s.handleClearCache))

	s.AddReadinessCheck("store", store.Ping)
	return s, nil
}

// CacheDescription is the body returned by GET /caches/{namespace}.
type CacheDescription struct {
	Namespace string   `json:"namespace"`
	Capacity  int      `json:"capacity"`
	Keys      []string `json:"keys"`
}

func (s *CacheService) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		logger := s.logger.With().Str("request_id", requestID).Str("method", r.Method).Str("path", r.URL.Path).Logger()
		next(w, r.WithContext(logger.WithContext(r.Context())))
	}
}

func (s *CacheService) handleGetDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.days.GetVacationDays(r.Context(), r.PathValue("vacationID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, days)
}

func (s *CacheService) handlePutDays(w http.ResponseWriter, r *http.Request) {
	var days []vacation.Day
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&days); err != nil {
		http.Error(w, "invalid days payload", http.StatusBadRequest)
		return
	}
	if err := s.days.SetVacationDays(r.Context(), r.PathValue("vacationID"), days); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *CacheService) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := s.activities.GetActivity(r.Context(), r.PathValue("activityID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, activity)
}

func (s *CacheService) handlePutActivity(w http.ResponseWriter, r *http.Request) {
	var activity vacation.Activity
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&activity); err != nil {
		http.Error(w, "invalid activity payload", http.StatusBadRequest)
		return
	}
	if err := s.activities.SetActivity(r.Context(), r.PathValue("activityID"), activity); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *CacheService) handleDescribeCache(w http.ResponseWriter, r *http.Request) {
	c, ok := s.namespaces[r.PathValue("namespace")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	keys, err := c.Keys(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, CacheDescription{
		Namespace: c.Namespace(),
		Capacity:  c.Capacity(),
		Keys:      keys,
	})
}

func (s *CacheService) handleClearCache(w http.ResponseWriter, r *http.Request) {
	c, ok := s.namespaces[r.PathValue("namespace")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := c.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response body.")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, cache.ErrEmptyKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Cache operation failed.")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
