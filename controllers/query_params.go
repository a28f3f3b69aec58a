package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Query-parameter normalization. Callers send filters as single scalars
// or comma-separated lists; everything is folded into one canonical
// shape here so the services never see raw strings.

// queryList splits a comma-separated query param into a slice, dropping
// empty segments. A missing param yields nil, meaning "no constraint".
func queryList(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

// queryTime parses an RFC3339 query param. The ok result is false only
// when the param is present but malformed.
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Bare dates are accepted for audit range filters
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, false
		}
	}
	return &t, true
}

// queryFloat parses a float query param
func queryFloat(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// queryInt parses an integer query param with a default
func queryInt(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// queryIntPtr parses an optional integer query param
func queryIntPtr(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// requestActor resolves the acting user for audit stamping. The hosting
// layer owns authentication; this service only records what it is told.
func requestActor(c *gin.Context) string {
	if actor := c.GetHeader("X-User"); actor != "" {
		return actor
	}
	return "system"
}
