// Package http provides HTTP handlers and middleware for the booking screen API.
//
// The router exposes the following endpoints:
//   - POST /screens: opens a booking screen on the current month. Response:
//     {"screen_id","view"} with status 201.
//   - GET /screens/{id}, DELETE /screens/{id}: render or discard a screen.
//   - POST /screens/{id}/month/next, POST /screens/{id}/month/prev: move the
//     displayed month and return the new view.
//   - POST /screens/{id}/date {"day"}, POST /screens/{id}/time {"slot"},
//     POST /screens/{id}/confirm: selection actions answering
//     {"screen_id","applied","view"}. Unknown slots yield 422.
//   - POST /screens/{id}/acknowledgement: closes the confirmation notice and
//     answers with "navigate_to"; the screen is discarded afterwards.
//   - POST /screens/{id}/tabs/{tab}: bottom tab presses. Tabs leading away
//     report "navigate_to" and discard the screen.
//   - GET /diagnostics: diagnostics journal entries, newest first.
//   - GET /healthz, GET /metrics.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
