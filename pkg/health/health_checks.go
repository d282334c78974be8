package health

import (
	"context"
	"runtime"
)

// StoreCheck pings the catalog store. A store with nothing to ping is
// reported healthy.
func StoreCheck(name string, ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Details: map[string]any{"backend": name}}
		if ping == nil {
			check.Status = StatusHealthy
			check.Message = "Local store"
			return check
		}
		if err := ping(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}
		check.Status = StatusHealthy
		check.Message = "Connected"
		return check
	}
}

// CatalogCheck reports whether the owner's constellation is loaded. A server
// without one still answers discover requests, so it is only degraded.
func CatalogCheck(state func() (owner string, entries int)) CheckFunc {
	return func(ctx context.Context) Check {
		owner, entries := state()
		check := Check{Details: map[string]any{"entries": entries}}
		if owner == "" {
			check.Status = StatusDegraded
			check.Message = "No original constellation loaded"
			return check
		}
		check.Details["owner"] = owner
		check.Status = StatusHealthy
		check.Message = "Original constellation loaded"
		return check
	}
}

// SessionsCheck degrades once live games reach 90% of the cap, after which
// new games start evicting old ones.
func SessionsCheck(state func() (live, max int)) CheckFunc {
	return func(ctx context.Context) Check {
		live, max := state()
		check := Check{Details: map[string]any{"live": live, "max": max}}
		if max > 0 && live*10 >= max*9 {
			check.Status = StatusDegraded
			check.Message = "Session table nearly full"
			return check
		}
		check.Status = StatusHealthy
		return check
	}
}

// MemoryCheck degrades when the heap in use is above 90% of what the runtime
// has obtained from the OS.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	if getUsage == nil {
		getUsage = runtimeMemory
	}
	return func(ctx context.Context) Check {
		alloc, sys := getUsage()
		check := Check{Details: map[string]any{
			"allocBytes": alloc,
			"sysBytes":   sys,
		}}
		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
			return check
		}
		check.Status = StatusHealthy
		check.Message = "Memory usage normal"
		return check
	}
}

func runtimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc, m.Sys
}
