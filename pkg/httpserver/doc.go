// Package httpserver runs the API with graceful shutdown.
//
// A Server is built from Config, which carries HTTP_* environment tags, and
// serves one handler until its context ends or the process gets SIGINT or
// SIGTERM. Shutdown waits up to Config.ShutdownTimeout for in-flight requests
// and then runs the WithOnShutdown callbacks.
//
// LivenessHandler and ReadinessHandler back the /healthz and /readyz probes.
// Readiness runs its checks with the probe request's context.
package httpserver
