package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
)

const (
	listenErrorTemplateConstant   = "unable to listen on %s: %w"
	serveErrorTemplateConstant    = "http server failed: %w"
	shutdownErrorTemplateConstant = "http server shutdown failed: %w"
	listeningLogMessageConstant   = "http server listening"
	shuttingDownLogMessage        = "http server shutting down"
	stoppedLogMessageConstant     = "http server stopped"
	addressFieldConstant          = "address"
	tcpNetworkConstant            = "tcp"
)

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	configuration Configuration
	httpServer    *http.Server
	logger        *zap.Logger
}

// New constructs a Server that serves handler with request logging.
func New(configuration Configuration, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	sanitized := configuration.Sanitize()
	return &Server{
		configuration: sanitized,
		httpServer: &http.Server{
			Addr:              sanitized.Address,
			Handler:           WithRequestLogging(handler, logger),
			ReadHeaderTimeout: sanitized.ReadHeaderTimeout,
		},
		logger: logger,
	}
}

// ListenAndServe listens on the configured address and serves until executionContext is done.
func (server *Server) ListenAndServe(executionContext context.Context) error {
	listener, listenError := net.Listen(tcpNetworkConstant, server.configuration.Address)
	if listenError != nil {
		return fmt.Errorf(listenErrorTemplateConstant, server.configuration.Address, listenError)
	}
	return server.Serve(executionContext, listener)
}

// Serve accepts connections on listener. When executionContext is done the server
// drains in-flight requests for at most ShutdownTimeout.
func (server *Server) Serve(executionContext context.Context, listener net.Listener) error {
	server.logger.Info(listeningLogMessageConstant, zap.String(addressFieldConstant, listener.Addr().String()))

	serveErrors := make(chan error, 1)
	go func() {
		serveErrors <- server.httpServer.Serve(listener)
	}()

	select {
	case serveError := <-serveErrors:
		if errors.Is(serveError, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf(serveErrorTemplateConstant, serveError)
	case <-executionContext.Done():
	}

	server.logger.Info(shuttingDownLogMessage)
	shutdownContext, cancel := context.WithTimeout(context.WithoutCancel(executionContext), server.configuration.ShutdownTimeout)
	defer cancel()
	if shutdownError := server.httpServer.Shutdown(shutdownContext); shutdownError != nil {
		return fmt.Errorf(shutdownErrorTemplateConstant, shutdownError)
	}
	<-serveErrors
	server.logger.Info(stoppedLogMessageConstant)
	return nil
}
