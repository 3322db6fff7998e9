// Package logging configures the process-wide slog logger.
//
// Loggers are constructed from Options (level, format, output paths) or
// directly from application config. The package also exposes thin Attr
// helpers so call sites stay terse, standardized field names for structured
// output, and context helpers that surface request correlation IDs in every
// log line emitted while handling a request.
package logging
