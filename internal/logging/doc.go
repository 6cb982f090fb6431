// Package logging wires slog into the outputs a transformnode process has
// available and keeps recent entries for the HTTP log endpoints.
//
// Call Initialize once at startup, then hand out per-module loggers:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{"planner": "debug"},
//	})
//
//	logger := logging.GetLogger("planner")
//	logger.Info("Plan resolved", "key", key)
//
// Per-module levels override the global one. Levels are live: a logger
// obtained before Initialize picks up the configured level afterwards.
//
// # Outputs
//
// Every record goes to up to three places at once:
//
//   - the systemd journal, when journald is reachable, tagged
//     SYSLOG_IDENTIFIER=transformnode with attributes as journal fields
//   - stdout, as text or JSON depending on Config.Format
//   - an in-process ring buffer, always
//
// The ring buffer backs GET /api/logs and the SSE stream; each entry
// carries a monotonic sequence number so clients that fetch history and
// then subscribe can drop duplicates. SetLogCallback lets the process
// forward entries to the event bus as they are recorded.
//
// # Journald
//
//	journalctl -t transformnode -f
//	journalctl -t transformnode -p err
//	journalctl -t transformnode MODULE=planner
//
// Structured attributes become uppercase journal fields, so any attr a
// logger attaches is filterable as shown with MODULE above.
package logging
