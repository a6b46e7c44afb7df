package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Helpers shared by every loader in this package.  Each returns the
// default when the variable is unset or cannot be parsed.

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	b, _ := parseBool(k, d)
	return b
}

func envInt(k string, d int) int {
	n, _ := parseInt(k, d)
	return n
}

func envDur(k string, d time.Duration) time.Duration {
	dur, _ := parseDur(k, d)
	return dur
}

// The parse helpers report false when the variable is set but unusable.

func parseBool(k string, d bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "":
		return d, true
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return d, false
}

func parseInt(k string, d int) (int, bool) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d, false
	}
	return n, true
}

func parseDur(k string, d time.Duration) (time.Duration, bool) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d, true
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return d, false
	}
	return dur, true
}

// strictEnv reads typed variables and remembers every one it could not
// parse, so Load can report them together with the validation problems.
type strictEnv struct {
	problems []string
}

func (s *strictEnv) reject(k, kind string) {
	s.problems = append(s.problems, fmt.Sprintf("%s %q is not a valid %s", k, strings.TrimSpace(os.Getenv(k)), kind))
}

func (s *strictEnv) boolean(k string, d bool) bool {
	b, ok := parseBool(k, d)
	if !ok {
		s.reject(k, "bool")
	}
	return b
}

func (s *strictEnv) integer(k string, d int) int {
	n, ok := parseInt(k, d)
	if !ok {
		s.reject(k, "integer")
	}
	return n
}

func (s *strictEnv) duration(k string, d time.Duration) time.Duration {
	dur, ok := parseDur(k, d)
	if !ok {
		s.reject(k, "duration")
	}
	return dur
}
