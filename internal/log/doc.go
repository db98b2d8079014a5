// Package log builds the slog loggers used by nsmarchive.
//
// Loggers are wrapped in a RedactingHandler that masks request credentials
// before they reach the output: values of header-like keys such as
// Authorization or Cookie, bearer and basic tokens, entries of header maps,
// and user:password pairs embedded in proxy or request URLs. Custom headers
// and proxy addresses come from user config files, so verbose logs would
// otherwise leak them.
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
