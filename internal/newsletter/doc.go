// Package newsletter implements the subscriber registry and the campaign
// engine.
//
// The campaign engine owns the newsletter lifecycle (draft -> sending ->
// sent/failed) and the sequential bulk-send fan-out. The registry owns
// subscribe/unsubscribe/reactivate transitions. Both depend on the
// repository and dispatcher interfaces defined in this package; the pgx
// implementations live in internal/db, the dispatcher in internal/dispatch.
package newsletter
