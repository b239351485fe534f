package middleware

import (
	"net/http"
	"slices"
)

// StripEmptyQueryParams drops empty values from the query, so `?caseId=` reads as no filter.
func StripEmptyQueryParams() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			for name, values := range query {
				values = slices.DeleteFunc(values, func(v string) bool { return v == "" })
				if len(values) == 0 {
					query.Del(name)
					continue
				}
				query[name] = values
			}
			r.URL.RawQuery = query.Encode()
			next.ServeHTTP(w, r)
		})
	}
}
