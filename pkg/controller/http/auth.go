package http

import (
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// AuthMiddleware rejects requests without a valid HS256 signed bearer token
func AuthMiddleware(secret []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				handleError(w, r, goerr.New("authorization token is required", goerr.T(types.ErrTagUnauthorized)))
				return
			}

			token, err := jwt.Parse([]byte(raw),
				jwt.WithKey(jwa.HS256, secret),
				jwt.WithValidate(true),
			)
			if err != nil {
				handleError(w, r, goerr.Wrap(err, "invalid authorization token", goerr.T(types.ErrTagUnauthorized)))
				return
			}

			ctxlog.From(r.Context()).Debug("Authorized request", "subject", token.Subject())
			next.ServeHTTP(w, r)
		})
	}
}
