package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pbinitiative/zencmmn/internal/config"
	"github.com/pbinitiative/zencmmn/internal/log"
	"github.com/pbinitiative/zencmmn/internal/otel"
	"github.com/pbinitiative/zencmmn/internal/rest/middleware"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CaseDefinitionEngine is the part of the cmmn engine the REST API serves.
type CaseDefinitionEngine interface {
	Name() string
	LoadFromBytes(ctx context.Context, xmlData []byte, resourceName string) ([]runtime.DeployedCaseDefinition, error)
	FindCaseDefinitionByKey(ctx context.Context, key int64) (runtime.DeployedCaseDefinition, error)
	FindCaseDefinitionsById(ctx context.Context, caseId string) ([]runtime.DeployedCaseDefinition, error)
	FindAllCaseDefinitions(ctx context.Context) ([]runtime.DeployedCaseDefinition, error)
	FindCaseDefinitionSource(ctx context.Context, key int64) ([]byte, error)
}

type Server struct {
	engine CaseDefinitionEngine
	addr   string
	server *http.Server
}

func NewServer(engine CaseDefinitionEngine, conf config.Config, requestMetrics *otel.RequestMetrics) *Server {
	r := chi.NewRouter()
	s := Server{
		engine: engine,
		addr:   conf.HttpServer.Addr,
		server: &http.Server{
			ReadHeaderTimeout: 3 * time.Second,
			Handler:           r,
			Addr:              conf.HttpServer.Addr,
		},
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Opentelemetry(conf, requestMetrics))
	r.Route(contextPath(conf.HttpServer.Context, "/v1"), func(r chi.Router) {
		r.Route("/case-definitions", func(r chi.Router) {
			r.Post("/", s.CreateCaseDefinition)
			r.With(middleware.StripEmptyQueryParams()).Get("/", s.GetCaseDefinitions)
			r.Get("/{caseDefinitionKey}", s.GetCaseDefinition)
			r.Get("/{caseDefinitionKey}/xml", s.GetCaseDefinitionXml)
		})
	})
	// register system endpoints
	r.Route(contextPath(conf.HttpServer.Context, "/system"), func(r chi.Router) {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
		r.Get("/status", s.GetStatus)
	})
	return &s
}

func contextPath(base string, path string) string {
	return strings.TrimSuffix(base, "/") + path
}

// Handler returns the router serving the API.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() (net.Listener, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	log.Info("ZenCmmn REST server listening on %s", listener.Addr())
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("Error starting server: %s", err)
		}
	}()
	return listener, nil
}

func (s *Server) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		log.Error("Error stopping server: %s", err)
	}
}

func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	definitions, err := s.engine.FindAllCaseDefinitions(r.Context())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJson(w, http.StatusOK, Status{
		Name:            s.engine.Name(),
		CaseDefinitions: len(definitions),
	})
}

func writeJson(w http.ResponseWriter, status int, resp any) {
	body, err := json.Marshal(resp)
	if err != nil {
		log.Error("Server error: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
