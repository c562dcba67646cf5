package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Hugging Face Inference API endpoint.
	DefaultBaseURL = "https://api-inference.huggingface.co"
	// DefaultModel is the instruction-tuned text2text model served by textgen.
	DefaultModel = "google/flan-t5-small"
	// DefaultTimeout bounds a single model request.
	DefaultTimeout = 30 * time.Second

	modelsPathSegmentConstant          = "models"
	contentTypeHeaderConstant          = "Content-Type"
	acceptHeaderConstant               = "Accept"
	authorizationHeaderConstant        = "Authorization"
	jsonContentTypeConstant            = "application/json"
	bearerTokenPrefixConstant          = "Bearer "
	maximumErrorBodyBytesConstant      = 4096
	requestEncodeErrorTemplateConstant = "unable to encode model request: %w"
	requestBuildErrorTemplateConstant  = "unable to build model request: %w"
	responseDecodeErrorTemplate        = "unable to decode model response: %w"
	requestLogMessageConstant          = "model request completed"
	modelFieldConstant                 = "model"
	statusCodeFieldConstant            = "status_code"
	durationFieldConstant              = "duration"
)

// HTTPGeneratorOptions configures an HTTPGenerator.
type HTTPGeneratorOptions struct {
	BaseURL    string
	Model      string
	APIToken   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type generationRequest struct {
	Inputs string `json:"inputs"`
}

type generationResult struct {
	GeneratedText string `json:"generated_text"`
}

type generationErrorBody struct {
	Error string `json:"error"`
}

// HTTPGenerator calls a hosted text2text model over HTTP.
type HTTPGenerator struct {
	endpoint string
	model    string
	apiToken string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPGenerator constructs an HTTPGenerator, filling unset options with defaults.
func NewHTTPGenerator(options HTTPGeneratorOptions) *HTTPGenerator {
	baseURL := strings.TrimRight(strings.TrimSpace(options.BaseURL), "/")
	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}
	model := strings.Trim(strings.TrimSpace(options.Model), "/")
	if len(model) == 0 {
		model = DefaultModel
	}
	client := options.HTTPClient
	if client == nil {
		timeout := options.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint := strings.Join([]string{baseURL, modelsPathSegmentConstant, model}, "/")
	return &HTTPGenerator{endpoint: endpoint, model: model, apiToken: strings.TrimSpace(options.APIToken), client: client, logger: logger}
}

// Endpoint returns the URL requests are sent to.
func (generator *HTTPGenerator) Endpoint() string {
	return generator.endpoint
}

// Generate posts {"inputs": text} and returns the first generated_text of the response list.
func (generator *HTTPGenerator) Generate(executionContext context.Context, text string) (string, error) {
	requestBody, encodeError := json.Marshal(generationRequest{Inputs: text})
	if encodeError != nil {
		return "", fmt.Errorf(requestEncodeErrorTemplateConstant, encodeError)
	}

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, generator.endpoint, bytes.NewReader(requestBody))
	if requestError != nil {
		return "", fmt.Errorf(requestBuildErrorTemplateConstant, requestError)
	}
	request.Header.Set(contentTypeHeaderConstant, jsonContentTypeConstant)
	request.Header.Set(acceptHeaderConstant, jsonContentTypeConstant)
	if len(generator.apiToken) > 0 {
		request.Header.Set(authorizationHeaderConstant, bearerTokenPrefixConstant+generator.apiToken)
	}

	startedAt := time.Now()
	response, responseError := generator.client.Do(request)
	if responseError != nil {
		return "", GenerationError{Cause: responseError}
	}
	defer response.Body.Close()

	generator.logger.Debug(requestLogMessageConstant,
		zap.String(modelFieldConstant, generator.model),
		zap.Int(statusCodeFieldConstant, response.StatusCode),
		zap.Duration(durationFieldConstant, time.Since(startedAt)),
	)

	if response.StatusCode != http.StatusOK {
		return "", GenerationError{StatusCode: response.StatusCode, Message: readErrorMessage(response.Body)}
	}

	var results []generationResult
	if decodeError := json.NewDecoder(response.Body).Decode(&results); decodeError != nil {
		return "", fmt.Errorf(responseDecodeErrorTemplate, decodeError)
	}
	if len(results) == 0 {
		return "", ErrEmptyGeneration
	}
	return results[0].GeneratedText, nil
}

func readErrorMessage(body io.Reader) string {
	rawBody, _ := io.ReadAll(io.LimitReader(body, maximumErrorBodyBytesConstant))
	var errorBody generationErrorBody
	if json.Unmarshal(rawBody, &errorBody) == nil && len(strings.TrimSpace(errorBody.Error)) > 0 {
		return strings.TrimSpace(errorBody.Error)
	}
	return strings.TrimSpace(string(rawBody))
}
