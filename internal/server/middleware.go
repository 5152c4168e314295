package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

type ctxKey int

const ctxKeyAuthor ctxKey = iota

const authRealm = `Basic realm="threepins"`

// authorMiddleware requires HTTP Basic credentials. With register set,
// unknown usernames are signed up on first use.
func authorMiddleware(logger *slog.Logger, store Store, register bool) func(http.Handler) http.Handler {
	check := authenticate
	if register {
		check = authenticateOrRegister
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", authRealm)
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			author, err := check(r.Context(), store, username, password)
			if errors.Is(err, errBadCredentials) {
				w.Header().Set("WWW-Authenticate", authRealm)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			if err != nil {
				logger.Error("authenticating author", "username", username, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAuthor, author)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func staffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorFrom(r).IsStaff {
			writeError(w, http.StatusForbidden, "staff only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func authorFrom(r *http.Request) Author {
	return r.Context().Value(ctxKeyAuthor).(Author)
}

// viewerFrom returns the author behind optional Basic credentials on a
// public route. Missing or wrong credentials just mean an anonymous viewer.
func viewerFrom(r *http.Request, store Store) (Author, bool) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return Author{}, false
	}
	a, err := authenticate(r.Context(), store, username, password)
	if err != nil {
		return Author{}, false
	}
	return a, true
}
