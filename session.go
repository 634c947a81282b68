package scorecap

import "context"

// SessionManager launches and tears down authenticated browsing sessions
// bound to a persistent on-disk profile directory. The profile preserves
// cookies and local storage across process restarts, so a login completed
// in one session carries over to the next.
//
// At most one live session may hold a given profile directory; Start
// returns an EUNAVAILABLE error if the profile is held by another live
// process.
type SessionManager interface {
	Start(ctx context.Context, headless bool) (Session, error)
}

// Session wraps one browser profile and one active document handle.
// A Session is owned by a single capture task and must not be shared
// across concurrent captures.
type Session interface {
	// Open navigates the session's document handle to the URL and waits
	// for it to load. The returned Page is owned by the Session and is
	// invalidated by the next Open call.
	Open(ctx context.Context, url string) (Page, error)

	// Fetch downloads a resource through the session's network context,
	// carrying the session's cookies. Returns EUNAVAILABLE on transport
	// failure or a non-success response.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// IsLoggedIn reports whether the session appears to be authenticated.
	// This is a best-effort heuristic (absence of a login affordance on
	// the rendered home page), not a token check.
	IsLoggedIn(ctx context.Context) (bool, error)

	// BeginInteractiveLogin navigates to the login page so a human can
	// complete credential entry. It does not block; completion is
	// detected later via IsLoggedIn or CurrentURL.
	BeginInteractiveLogin(ctx context.Context) error

	// CurrentURL returns the URL the document handle is showing.
	CurrentURL(ctx context.Context) (string, error)

	// Close releases the browser process and the profile lock. Safe to
	// call after a partial Start and safe to call more than once.
	Close() error
}

// Page is a loaded document handle. Implementations hide the browser
// engine; callers work with rendered HTML and scroll offsets only.
type Page interface {
	// HTML returns the current rendered HTML of the page.
	HTML(ctx context.Context) (string, error)

	// Scroll scrolls the score viewport (or the window if no dedicated
	// scroll container exists) down by deltaY pixels.
	Scroll(ctx context.Context, deltaY int) error
}
