// Package logger configures the process-wide slog logger and carries
// request-scoped loggers through context.Context.
//
// Components keep an injected *slog.Logger and prefer the request logger when
// one is present:
//
//	log := logger.FromContextOrDefault(ctx, s.logger)
package logger
