package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/SscSPs/vaultline/internal/apperrors"
	"github.com/SscSPs/vaultline/internal/middleware"
	"github.com/SscSPs/vaultline/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// StoreFault converts a backing store error into ErrStoreTimeout or ErrStoreUnavailable,
// logs it and counts it. Errors that already carry one of those kinds are passed through.
// A call abandoned because ctx was cancelled is not a store fault and is returned as such.
func (s *BaseService) StoreFault(ctx context.Context, component string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		s.LogDebug(ctx, "Store call abandoned by caller", slog.String("component", component))
		return fmt.Errorf("%s store call abandoned: %w", component, ctx.Err())
	}

	kind := apperrors.ErrStoreUnavailable
	if isTimeout(err) {
		kind = apperrors.ErrStoreTimeout
	}

	label := "unavailable"
	if kind == apperrors.ErrStoreTimeout {
		label = "timeout"
	}
	metrics.StoreFaults.WithLabelValues(component, label).Inc()
	s.LogError(ctx, err, "Backing store fault", slog.String("component", component), slog.String("kind", label))

	if errors.Is(err, kind) {
		return err
	}
	return apperrors.NewStoreError(kind, component+" store call failed", err)
}

// isTimeout reports whether err is a deadline from the caller's context or from the
// store client's own socket deadlines.
func isTimeout(err error) bool {
	if errors.Is(err, apperrors.ErrStoreTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
