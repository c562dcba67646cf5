package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/temirov/textgen/internal/inference"
)

const (
	rootPathConstant                 = "/"
	generatePathConstant             = "/generate"
	textQueryParameterConstant       = "text"
	welcomeMessageConstant           = "Welcome to the Text Generation API!"
	notFoundDetailConstant           = "Not Found"
	methodNotAllowedDetailConstant   = "Method Not Allowed"
	generationFailedDetailConstant   = "generation failed"
	fieldRequiredMessageConstant     = "field required"
	missingValueErrorTypeConstant    = "value_error.missing"
	queryLocationConstant            = "query"
	allowHeaderConstant              = "Allow"
	contentTypeHeaderConstant        = "Content-Type"
	jsonContentTypeConstant          = "application/json"
	generationFailedLogMessage       = "text generation failed"
	responseEncodingFailedLogMessage = "unable to encode response"
	generatorNotConfiguredMessage    = "text generator not configured"
)

// ErrGeneratorNotConfigured indicates the handler was built without a generator.
var ErrGeneratorNotConfigured = errors.New(generatorNotConfiguredMessage)

type welcomeResponse struct {
	Message string `json:"message"`
}

type generationResponse struct {
	Output string `json:"output"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type validationIssue struct {
	Location []string `json:"loc"`
	Message  string   `json:"msg"`
	Type     string   `json:"type"`
}

type validationErrorResponse struct {
	Detail []validationIssue `json:"detail"`
}

// APIHandler serves the text generation routes.
type APIHandler struct {
	generator inference.Generator
	logger    *zap.Logger
	mux       *http.ServeMux
}

// NewAPIHandler constructs the route table over generator.
func NewAPIHandler(generator inference.Generator, logger *zap.Logger) (*APIHandler, error) {
	if generator == nil {
		return nil, ErrGeneratorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := &APIHandler{generator: generator, logger: logger, mux: http.NewServeMux()}
	handler.mux.HandleFunc(rootPathConstant, handler.serveRoot)
	handler.mux.HandleFunc(generatePathConstant, handler.serveGenerate)
	return handler, nil
}

// ServeHTTP dispatches to the matching route.
func (handler *APIHandler) ServeHTTP(responseWriter http.ResponseWriter, request *http.Request) {
	handler.mux.ServeHTTP(responseWriter, request)
}

// The "/" pattern matches every path, so anything other than the root itself is a 404.
func (handler *APIHandler) serveRoot(responseWriter http.ResponseWriter, request *http.Request) {
	if request.URL.Path != rootPathConstant {
		handler.writeJSON(responseWriter, http.StatusNotFound, detailResponse{Detail: notFoundDetailConstant})
		return
	}
	if !handler.requireGet(responseWriter, request) {
		return
	}
	handler.writeJSON(responseWriter, http.StatusOK, welcomeResponse{Message: welcomeMessageConstant})
}

func (handler *APIHandler) serveGenerate(responseWriter http.ResponseWriter, request *http.Request) {
	if !handler.requireGet(responseWriter, request) {
		return
	}

	text := request.URL.Query().Get(textQueryParameterConstant)
	if len(text) == 0 {
		handler.writeJSON(responseWriter, http.StatusUnprocessableEntity, validationErrorResponse{Detail: []validationIssue{{
			Location: []string{queryLocationConstant, textQueryParameterConstant},
			Message:  fieldRequiredMessageConstant,
			Type:     missingValueErrorTypeConstant,
		}}})
		return
	}

	output, generationError := handler.generator.Generate(request.Context(), text)
	if generationError != nil {
		handler.logger.Error(generationFailedLogMessage, zap.Error(generationError))
		handler.writeJSON(responseWriter, http.StatusBadGateway, detailResponse{Detail: generationFailedDetailConstant})
		return
	}
	handler.writeJSON(responseWriter, http.StatusOK, generationResponse{Output: output})
}

func (handler *APIHandler) requireGet(responseWriter http.ResponseWriter, request *http.Request) bool {
	if request.Method == http.MethodGet {
		return true
	}
	responseWriter.Header().Set(allowHeaderConstant, http.MethodGet)
	handler.writeJSON(responseWriter, http.StatusMethodNotAllowed, detailResponse{Detail: methodNotAllowedDetailConstant})
	return false
}

func (handler *APIHandler) writeJSON(responseWriter http.ResponseWriter, statusCode int, payload any) {
	responseWriter.Header().Set(contentTypeHeaderConstant, jsonContentTypeConstant)
	responseWriter.WriteHeader(statusCode)
	if encodeError := json.NewEncoder(responseWriter).Encode(payload); encodeError != nil {
		handler.logger.Warn(responseEncodingFailedLogMessage, zap.Error(encodeError))
	}
}
