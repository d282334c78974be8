package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain helpers

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

// Constellation tags an entry with the constellation it concerns,
// e.g. Constellation("discovered", "rj").
func Constellation(kind, key string) Field {
	return String("constellation", kind+":"+key)
}

func ArtistID(id string) Field {
	return String("artist_id", id)
}

func Mode(mode string) Field {
	return String("mode", mode)
}

func Hops(n int) Field {
	return Int("hops", n)
}

func Attempts(n int) Field {
	return Int("attempts", n)
}

func Count(n int) Field {
	return Int("count", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
