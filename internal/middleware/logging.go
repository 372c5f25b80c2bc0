package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// companyScoped is implemented by requests that target one company.
type companyScoped interface {
	GetCompany() string
}

// LoggingInterceptor logs one line per RPC. Rejected calls (bad input,
// unknown documents, missing credentials) log at WARN, failures at ERROR.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if id := GetOperatorID(ctx); id != "" {
				attrs = append(attrs, slog.String("operator_id", id), slog.String("operator_email", GetEmail(ctx)))
			}
			if c, ok := req.Any().(companyScoped); ok && c.GetCompany() != "" {
				attrs = append(attrs, slog.String("company", c.GetCompany()))
			}

			level, msg := slog.LevelInfo, "RPC ok"
			if err != nil {
				code := connect.CodeOf(err)
				attrs = append(attrs, slog.String("code", code.String()), slog.String("error", errorMessage(err)))
				switch code {
				case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
					connect.CodeUnauthenticated, connect.CodeFailedPrecondition:
					level, msg = slog.LevelWarn, "RPC rejected"
				default:
					level, msg = slog.LevelError, "RPC failed"
				}
			}
			logger.LogAttrs(ctx, level, msg, attrs...)
			return resp, err
		}
	}
}

func errorMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}
