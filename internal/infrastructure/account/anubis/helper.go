package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"net/http"
	"strings"
)

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errAnubisTransient)
}

// isRetryableStatus reports upstream statuses that say nothing about the
// token itself.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return statusCode >= http.StatusInternalServerError
}

// hashToken keys the principal cache so raw tokens never sit in memory
// longer than the request.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// buildURL joins the introspection path onto the base url. An absolute path
// replaces the base entirely.
func buildURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if strings.Contains(path, "://") {
		return path
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
