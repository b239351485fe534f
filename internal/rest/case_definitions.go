package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pbinitiative/zencmmn/internal/log"
	otelint "github.com/pbinitiative/zencmmn/internal/otel"
	"github.com/pbinitiative/zencmmn/internal/rest/apierror"
	"github.com/pbinitiative/zencmmn/pkg/cmmn"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	"github.com/pbinitiative/zencmmn/pkg/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderCorrelationId = "X-Correlation-Id"
	HeaderResourceName  = "X-Resource-Name"

	DefaultResourceName = "case-definition.cmmn"
	MaxDocumentSize     = 10 << 20
)

// CreateCaseDefinition deploys the CMMN document sent as the request body.
func (s *Server) CreateCaseDefinition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	correlationId := r.Header.Get(HeaderCorrelationId)
	if correlationId == "" {
		correlationId = uuid.NewString()
	}
	w.Header().Set(HeaderCorrelationId, correlationId)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(otelint.AttributeCorrelationId, correlationId))

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentSize))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, apierror.ApiError{
			Message: fmt.Sprintf("failed to read request body: %s", err),
			Type:    apierror.TypeBadRequest,
		})
		return
	}
	if len(data) == 0 {
		writeError(w, r, http.StatusBadRequest, apierror.ApiError{
			Message: "request body must contain a CMMN document",
			Type:    apierror.TypeBadRequest,
		})
		return
	}

	resourceName := r.URL.Query().Get("resourceName")
	if resourceName == "" {
		resourceName = r.Header.Get(HeaderResourceName)
	}
	if resourceName == "" {
		resourceName = DefaultResourceName
	}

	definitions, err := s.engine.LoadFromBytes(ctx, data, resourceName)
	if err != nil {
		log.Errorf(ctx, "deployment %s of %s failed: %s", correlationId, resourceName, err)
		writeEngineError(w, r, err)
		return
	}
	log.Infof(ctx, "deployment %s of %s resulted in %d case definitions", correlationId, resourceName, len(definitions))
	writeJson(w, http.StatusCreated, DeploymentResult{
		CorrelationId:   correlationId,
		CaseDefinitions: toCaseDefinitionsPage(definitions).Items,
	})
}

// GetCaseDefinitions lists all deployed case definitions, optionally only the versions of one caseId.
func (s *Server) GetCaseDefinitions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var definitions []runtime.DeployedCaseDefinition
	var err error
	if caseId := r.URL.Query().Get("caseId"); caseId != "" {
		definitions, err = s.engine.FindCaseDefinitionsById(ctx, caseId)
	} else {
		definitions, err = s.engine.FindAllCaseDefinitions(ctx)
	}
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJson(w, http.StatusOK, toCaseDefinitionsPage(definitions))
}

func (s *Server) GetCaseDefinition(w http.ResponseWriter, r *http.Request) {
	key, ok := caseDefinitionKey(w, r)
	if !ok {
		return
	}
	definition, err := s.engine.FindCaseDefinitionByKey(r.Context(), key)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJson(w, http.StatusOK, toCaseDefinitionDetail(definition))
}

func (s *Server) GetCaseDefinitionXml(w http.ResponseWriter, r *http.Request) {
	key, ok := caseDefinitionKey(w, r)
	if !ok {
		return
	}
	source, err := s.engine.FindCaseDefinitionSource(r.Context(), key)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(source)
}

func caseDefinitionKey(w http.ResponseWriter, r *http.Request) (int64, bool) {
	param := chi.URLParam(r, "caseDefinitionKey")
	key, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, apierror.ApiError{
			Message: fmt.Sprintf("invalid case definition key %q", param),
			Type:    apierror.TypeBadRequest,
		})
		return 0, false
	}
	return key, true
}

// writeEngineError maps engine failures to response codes: unknown keys are 404,
// documents that do not parse or compile are 400.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var engineErr *cmmn.EngineError
	var unmarshallingErr *cmmn.UnmarshallingError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, r, http.StatusNotFound, apierror.ApiError{Message: err.Error(), Type: apierror.TypeNotFound})
	case errors.As(err, &unmarshallingErr), errors.As(err, &engineErr):
		writeError(w, r, http.StatusBadRequest, apierror.ApiError{Message: err.Error(), Type: apierror.TypeBadRequest})
	default:
		writeError(w, r, http.StatusInternalServerError, apierror.ApiError{Message: err.Error(), Type: apierror.TypeError})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, resp apierror.ApiError) {
	log.Debugf(r.Context(), "%s %s failed with %d: %s", r.Method, r.URL.Path, status, resp.Message)
	writeJson(w, status, resp)
}
