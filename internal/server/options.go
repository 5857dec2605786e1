package server

import (
	"log"
	"time"

	"github.com/agbru/besselj/internal/logging"
	"github.com/agbru/besselj/internal/service"
)

// Option configures a Server built by NewServer. Options that receive a nil
// value leave the default in place.
type Option func(*Server)

// WithLogger replaces the request and lifecycle logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger is WithLogger for a standard library logger.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLoggerAdapter(logger)
		}
	}
}

// WithService replaces the evaluation service, typically by a mock.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// WithRateLimiter replaces the per-client rate limiter.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		if rl != nil {
			s.rateLimiter = rl
		}
	}
}

// WithSecurityConfig replaces the whole security policy, limits included.
func WithSecurityConfig(config SecurityConfig) Option {
	return func(s *Server) {
		s.securityConfig = config
	}
}

// WithMaxOrder bounds |n| on /evaluate. It takes precedence over the
// MaxOrder of the application configuration.
func WithMaxOrder(maxOrder int) Option {
	return func(s *Server) {
		s.securityConfig.MaxOrder = maxOrder
	}
}

// WithMaxSegments bounds the rings and spokes of a /membrane grid.
func WithMaxSegments(maxSegments int) Option {
	return func(s *Server) {
		s.securityConfig.MaxSegments = maxSegments
	}
}

// WithTimeouts replaces the HTTP and per-request timeouts.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// Timeouts bounds the phases of request handling.
type Timeouts struct {
	// RequestTimeout bounds one evaluation or one membrane frame.
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DefaultServerTimeouts returns timeouts sized for requests that complete in
// well under a second; a full membrane frame is the slowest.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     2 * time.Minute,
	}
}
