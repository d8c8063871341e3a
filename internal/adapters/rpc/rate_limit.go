package rpc

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// allowClient throttles per token, or per remote IP when auth is off.
func (s *Server) allowClient(w http.ResponseWriter, r *http.Request) bool {
	ok, wait := s.limiter.Allow(clientKey(r, extractToken(r)), time.Now())
	if ok {
		return true
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	return false
}

func clientKey(r *http.Request, token string) string {
	if strings.TrimSpace(token) != "" {
		return "token:" + token
	}
	remote := strings.TrimSpace(r.RemoteAddr)
	if remote == "" {
		return "ip:unknown"
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return "ip:" + remote
	}
	return "ip:" + host
}
