// Package http exposes the calendar services as a JSON API.
//
// The router serves the following endpoints. Timestamps are RFC 3339 and
// calendar days are YYYY-MM-DD:
//   - GET /events, POST /events: list events (optional `from`/`to` window) and
//     create one from the `eventRequest` payload defined in event_handler.go.
//   - GET|PUT|DELETE /events/{id}: fetch, replace or remove a single event.
//   - POST /events/{id}/move: reschedule to {"start"} keeping the duration.
//   - GET /events/{id}/conflicts: events overlapping the given one.
//   - GET /events/upcoming?days=N: events starting within the next N days.
//   - GET /events.ics, POST /events/import: iCalendar export and import.
//   - GET /views/day?date=&view=&ref=: the events of one grid cell.
//   - GET /views/hour?date=&hour=: the events of one week-grid hour cell.
//   - GET /views/month?ref=YYYY-MM and GET /views/week?ref=YYYY-MM-DD: whole grids.
//   - GET /views/agenda: events grouped by start day.
//   - GET /search?q=&colors=&all_day=: free-text and filter search.
//   - POST /navigation: applies a key press to a grid cursor.
//   - GET /health: liveness probe.
//
// Mutation responses carry conflict warnings; overlapping events are allowed.
package http
