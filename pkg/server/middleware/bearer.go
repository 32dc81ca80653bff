package middleware

import (
	"net"
	"net/http"
	"regexp"

	"github.com/doodlesbykumbi/jot/pkg/audit"
	"github.com/doodlesbykumbi/jot/pkg/identity"
	"github.com/doodlesbykumbi/jot/pkg/jot"
)

var bearerRegex = regexp.MustCompile(`^Bearer (\S+)$`)

// TokenVerifier is middleware that validates bearer tokens
type TokenVerifier struct {
	candidates []jot.Algorithm
	options    []jot.DecodeOption
}

// NewTokenVerifier creates a new bearer token middleware. Presented tokens
// must verify against one of the candidate algorithms and satisfy the
// given decode options.
func NewTokenVerifier(candidates []jot.Algorithm, options ...jot.DecodeOption) *TokenVerifier {
	return &TokenVerifier{candidates: candidates, options: options}
}

// Middleware returns an HTTP middleware that validates bearer tokens
func (v *TokenVerifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := remoteIP(r)

		authHeader := r.Header.Get("Authorization")
		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Authorization missing"))
			return
		}

		tokenMatches := bearerRegex.FindStringSubmatch(authHeader)
		if len(tokenMatches) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Malformed authorization header"))
			return
		}

		claims, err := jot.DecodeAny(tokenMatches[1], v.candidates, v.options...)
		if err != nil {
			subject, tokenID := unverifiedDetails(tokenMatches[1])
			audit.Log(audit.VerifyEvent{
				Subject:      subject,
				TokenID:      tokenID,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: err.Error(),
			})

			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid or expired token"))
			return
		}

		id := identity.FromClaims(claims).WithRemoteIP(net.ParseIP(clientIP))
		audit.Log(audit.VerifyEvent{
			Subject:  id.Subject,
			TokenID:  id.TokenID,
			ClientIP: clientIP,
			Success:  true,
		})

		r = r.WithContext(identity.Set(r.Context(), id))
		next.ServeHTTP(w, r)
	})
}

// unverifiedDetails pulls subject and token ID out of a rejected token for
// the audit trail. The claims are untrusted at this point.
func unverifiedDetails(token string) (string, string) {
	_, claims, err := jot.Inspect(token)
	if err != nil {
		return "", ""
	}
	subject, _ := claims.Subject()
	tokenID, _ := claims.ID()
	return subject, tokenID
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
