package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ruudy-sib/cupcount/internal/port/primary"
	"github.com/ruudy-sib/cupcount/internal/port/secondary"
)

// Banner is the body served at the root path.
const Banner = "cupcount is running\n"

// Metrics is what the HTTP layer records: webhook outcomes and request timings.
type Metrics interface {
	secondary.Metrics
	RequestObserver
}

// RouterParams holds everything the router wires into handlers.
type RouterParams struct {
	WebhookService primary.WebhookService
	CounterService primary.CounterService
	ReportService  primary.ReportService
	HealthChecks   []secondary.HealthChecker
	Verifier       *SignatureVerifier
	Metrics        Metrics
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler http.Handler
	Logger         *zap.Logger
}

// NewRouter creates a gorilla/mux router with all application routes registered.
func NewRouter(p RouterParams) http.Handler {
	logger := p.Logger.Named("http")
	router := mux.NewRouter()

	router.Use(withRequestID, withTracing, withAccessLog(logger, p.Metrics))

	// Counter endpoints, plus the paths older clients still call.
	counterHandler := NewCounterHandler(p.CounterService, logger)
	router.Handle("/counter", counterHandler).Methods(http.MethodGet, http.MethodPost)
	router.Handle("/smirl.json", counterHandler).Methods(http.MethodGet)
	router.Handle("/set-total", counterHandler).Methods(http.MethodPost)

	webhookHandler := NewWebhookHandler(p.WebhookService, p.Verifier, p.Metrics, logger)
	router.Handle("/webhook", webhookHandler).Methods(http.MethodPost)
	router.Handle("/square-webhook", webhookHandler).Methods(http.MethodPost)

	itemsSoldHandler := NewItemsSoldHandler(p.ReportService, logger)
	router.Handle("/items-sold", itemsSoldHandler).Methods(http.MethodGet)
	router.Handle("/items-sold.json", itemsSoldHandler).Methods(http.MethodGet)

	router.Handle("/health", NewHealthHandler(p.HealthChecks)).Methods(http.MethodGet)

	metricsHandler := p.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	router.HandleFunc("/routes", func(w http.ResponseWriter, _ *http.Request) {
		respondText(w, http.StatusOK, strings.Join(listRoutes(router), "\n")+"\n")
	}).Methods(http.MethodGet)

	router.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		respondText(w, http.StatusOK, Banner)
	}).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("unknown route",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found", Code: "NOT_FOUND"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "method not allowed",
			Code:  "METHOD_NOT_ALLOWED",
		})
	})

	return router
}

// listRoutes returns "METHODS PATH" lines sorted by path.
func listRoutes(router *mux.Router) []string {
	var lines []string
	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"ANY"}
		}
		lines = append(lines, strings.Join(methods, ",")+" "+path)
		return nil
	})
	sort.Slice(lines, func(i, j int) bool {
		return routePath(lines[i]) < routePath(lines[j])
	})
	return lines
}

func routePath(line string) string {
	_, path, _ := strings.Cut(line, " ")
	return path
}
