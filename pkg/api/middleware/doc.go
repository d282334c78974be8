// Package middleware holds the HTTP wrappers of the constellation server.
//
// Every middleware has the shape func(http.Handler) http.Handler and is
// chained outermost first:
//
//	handler := middleware.Metrics(registry)(mux)
//	handler = middleware.RateLimit(limiter, clientIP, nil)(handler)
//	handler = middleware.BodySizeLimit(10 << 20)(handler)
//	handler = middleware.CORS(middleware.DefaultCORSConfig())(handler)
//	handler = middleware.Logging(logger)(handler)
//	handler = middleware.RequestID()(handler)
//	handler = middleware.PanicRecovery(logger)(handler)
//
// Metrics must wrap the mux directly: it reads the matched route pattern
// from the request after the mux has served it.
package middleware
