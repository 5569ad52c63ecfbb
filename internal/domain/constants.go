package domain

import "time"

// Service limits. These are compiled defaults; the HTTP and rate limit
// values can be overridden via configuration.
const (
	// Request limits
	MaxRequestBodySize = 64 * 1024 // 64 KB max JSON body
	MaxFindTextLength  = 16 * 1024 // Longest text scanned by a find request
	MaxAsYouTypeInput  = 64        // Keystrokes replayed by an as-you-type request
	MaxFindTries       = 100       // Cap on failed candidates per find request

	// Rate limiting (per client IP)
	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 1 * time.Minute

	// HTTP timeouts
	HTTPReadTimeout    = 10 * time.Second
	HTTPWriteTimeout   = 10 * time.Second
	HTTPIdleTimeout    = 60 * time.Second
	HTTPRequestTimeout = 5 * time.Second

	// Slow operations are logged at warn level.
	SlowLookupThreshold = 250 * time.Millisecond

	// Graceful shutdown
	GracefulShutdownTimeout = 30 * time.Second // Max time to drain connections on shutdown
	ShutdownDrainDelay      = 1 * time.Second  // Health checks report 503 before the listener closes
	ShutdownHTTPTimeout     = 20 * time.Second
	ShutdownOTELTimeout     = 5 * time.Second
)

// Defaults applied when a request leaves a field empty.
const (
	DefaultRegion   = "US"
	DefaultLeniency = "VALID"
	DefaultStyle    = "INTERNATIONAL"
)
