package main

import (
	"net/http"
	"time"
)

// Shared client for outbound notifier calls. The portal client keeps its own
// instance because it needs a cookie jar for the login session.
const externalHTTPTimeout = 30 * time.Second

var externalHTTPClient = &http.Client{
	Timeout: externalHTTPTimeout,
}
