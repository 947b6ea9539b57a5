package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"track-search-service/internal/api"
	"track-search-service/internal/search"
	"track-search-service/internal/soundcloud"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	port := getenv("PORT", "3000")

	homeURL := getenv("SOUNDCLOUD_BASE_URL", soundcloud.DefaultHomeURL)
	apiURL := getenv("SOUNDCLOUD_API_URL", soundcloud.DefaultAPIURL)

	cfg := search.Config{
		DefaultLimit:  getenvInt("SEARCH_DEFAULT_LIMIT", 10),
		MaxLimit:      getenvInt("SEARCH_MAX_LIMIT", 50),
		LookupTimeout: time.Duration(getenvInt("LOOKUP_TIMEOUT_MS", 8000)) * time.Millisecond,
	}

	sc := soundcloud.NewClient(homeURL, apiURL)
	orch := search.NewOrchestrator(sc, cfg)
	srv := api.NewServer(orch, cfg)

	origins := api.ParseAllowedOrigins(getenv("CORS_ALLOWED_ORIGINS", ""))
	if len(origins) == 0 {
		log.Printf("CORS_ALLOWED_ORIGINS is not set, allowing all origins")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(api.CORSMiddleware(origins))

	r.Get("/", srv.HandleRoot)
	r.Get("/health", srv.HandleHealth)
	r.Get("/search", srv.HandleSearch)

	log.Printf("track-search-service listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("track-search-service: %v", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	raw := os.Getenv(k)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
