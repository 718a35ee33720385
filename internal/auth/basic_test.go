package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func basicRouter() *mux.Router {
	r := mux.NewRouter()
	sub := r.PathPrefix("/admin").Subrouter()
	sub.Use(BasicAuth("admin", "s3cret"))
	sub.HandleFunc("", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestBasicAuth(t *testing.T) {
	r := basicRouter()

	cases := []struct {
		name     string
		user     string
		pass     string
		withAuth bool
		want     int
	}{
		{"correct credentials", "admin", "s3cret", true, http.StatusOK},
		{"wrong password", "admin", "wrong", true, http.StatusUnauthorized},
		{"wrong username", "root", "s3cret", true, http.StatusUnauthorized},
		{"no credentials", "", "", false, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.withAuth {
			req.SetBasicAuth(tc.user, tc.pass)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
		if tc.want == http.StatusUnauthorized {
			if got := rec.Header().Get("WWW-Authenticate"); !strings.HasPrefix(got, "Basic") {
				t.Errorf("%s: WWW-Authenticate = %q, want Basic challenge", tc.name, got)
			}
		}
	}
}
