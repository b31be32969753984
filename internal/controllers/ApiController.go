package controllers

import (
	"benchstore/internal/alert"
	"benchstore/internal/models"
	"benchstore/internal/providers"
	"benchstore/internal/services"
	"benchstore/internal/structures"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

var errCategoryNotFound = errors.New("category not found")

type ApiController struct {
	logger    providers.Logger
	service   services.BenchmarkServiceInterface
	cache     providers.CacheProviderInterface
	metrics   providers.MetricsProviderInterface
	notifier  providers.NotifierInterface
	threshold float64
	category  string
}

type categorySummary struct {
	Name       string `json:"name"`
	Entries    int    `json:"entries"`
	LatestDate int64  `json:"latestDate,omitempty"`
	LatestID   string `json:"latestCommit,omitempty"`
}

type appendResponse struct {
	Category string        `json:"category"`
	Entries  int           `json:"entries"`
	Alerts   []alert.Alert `json:"alerts"`
}

func NewApiController(conf *structures.Config, logger providers.Logger, service services.BenchmarkServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, notifier providers.NotifierInterface) *ApiController {
	return &ApiController{
		logger:    logger,
		service:   service,
		cache:     cache,
		metrics:   metrics,
		notifier:  notifier,
		threshold: conf.Alert.Threshold,
		category:  conf.Store.DefaultCategory,
	}
}

func (ac *ApiController) getCategory(r *http.Request) string {
	if c := r.URL.Query().Get("category"); c != "" {
		return c
	}
	if ac.category != "" {
		return ac.category
	}
	return services.DefaultCategory
}

func writeBody(w http.ResponseWriter, contentType string, status int, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// serveFromCacheOrCompute caches the rendered body under a revision-scoped
// key, so any append invalidates it implicitly. The key is taken before
// compute reads the service.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey, contentType string, compute func() ([]byte, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeBody(w, contentType, http.StatusOK, data)
		return
	}

	body, err := compute()
	if errors.Is(err, errCategoryNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Render %s: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, body)
	writeBody(w, contentType, http.StatusOK, body)
}

// GetScript serves the whole history as the data.js script the dashboard loads.
func (ac *ApiController) GetScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	key := providers.RevisionKey("script", ac.service.GetRevision())
	ac.serveFromCacheOrCompute(w, key, "application/javascript; charset=utf-8", func() ([]byte, error) {
		return models.Serialize(ac.service.GetSnapshot())
	})
}

func (ac *ApiController) GetCategories(w http.ResponseWriter, r *http.Request) {
	key := providers.RevisionKey("categories", ac.service.GetRevision())
	ac.serveFromCacheOrCompute(w, key, "application/json", func() ([]byte, error) {
		names := ac.service.GetCategories()
		out := make([]categorySummary, 0, len(names))
		for _, name := range names {
			s := categorySummary{Name: name, Entries: ac.service.GetEntryCount(name)}
			if latest, ok := ac.service.GetLatest(name); ok {
				s.LatestDate = latest.Date
				s.LatestID = latest.Commit.ID
			}
			out = append(out, s)
		}
		return json.Marshal(out)
	})
}

func (ac *ApiController) GetEntries(w http.ResponseWriter, r *http.Request) {
	category := ac.getCategory(r)
	key := providers.RevisionKey("entries", ac.service.GetRevision(), category)
	ac.serveFromCacheOrCompute(w, key, "application/json", func() ([]byte, error) {
		entries := ac.service.GetEntries(category)
		if entries == nil {
			return nil, errCategoryNotFound
		}
		return json.Marshal(entries)
	})
}

// AppendEntry records one benchmark run and answers with the regressions it
// shows against the previous run of the same category.
func (ac *ApiController) AppendEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var entry models.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		ac.logger.Warnf(providers.TypePost, "Rejected entry: %s", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	category := ac.getCategory(r)
	prev, _ := ac.service.GetLatest(category)

	if err := ac.service.Append(category, &entry); err != nil {
		if errors.Is(err, models.ErrInvalidEntry) {
			ac.logger.Warnf(providers.TypePost, "Rejected entry: %s", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		ac.logger.Errorf(providers.TypePost, "Append failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	resp := appendResponse{
		Category: category,
		Entries:  ac.service.GetEntryCount(category),
		Alerts:   alert.Compare(prev, &entry, ac.threshold),
	}
	if resp.Alerts == nil {
		resp.Alerts = []alert.Alert{}
	}
	ac.metrics.SetEntriesTotal(category, resp.Entries)

	ac.logger.Infof(providers.TypePost, "Appended %s to %q (%d benches, %d alerts)", entry.Commit.ID, resp.Category, len(entry.Benches), len(resp.Alerts))
	if len(resp.Alerts) > 0 {
		for range resp.Alerts {
			ac.metrics.IncAlerts(resp.Category)
		}
		if err := ac.notifier.Notify(r.Context(), alert.Message(resp.Category, resp.Alerts)); err != nil {
			ac.logger.Errorf(providers.TypePost, "Alert notification failed: %s", err)
		}
	}

	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeBody(w, "application/json", http.StatusCreated, body)
}
