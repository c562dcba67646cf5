package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	requestLogMessageConstant = "http request"
	methodFieldConstant       = "method"
	pathFieldConstant         = "path"
	statusFieldConstant       = "status"
	durationFieldConstant     = "duration"
)

type statusRecordingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (writer *statusRecordingResponseWriter) WriteHeader(statusCode int) {
	writer.statusCode = statusCode
	writer.ResponseWriter.WriteHeader(statusCode)
}

// WithRequestLogging logs method, path, status and duration of every request.
// Query strings are not logged because they carry user prompts.
func WithRequestLogging(next http.Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		startedAt := time.Now()
		recordingWriter := &statusRecordingResponseWriter{ResponseWriter: responseWriter, statusCode: http.StatusOK}
		next.ServeHTTP(recordingWriter, request)
		logger.Info(requestLogMessageConstant,
			zap.String(methodFieldConstant, request.Method),
			zap.String(pathFieldConstant, request.URL.Path),
			zap.Int(statusFieldConstant, recordingWriter.statusCode),
			zap.Duration(durationFieldConstant, time.Since(startedAt)),
		)
	})
}
