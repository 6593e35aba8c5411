package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoParam(name, param string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := httprouter.ParamsFromContext(r.Context()).ByName(param)
		_, _ = w.Write([]byte(name + ":" + value))
	})
}

func TestRouter_ConflictingRoutesGoToNextLayer(t *testing.T) {
	rt := New(WithRoutes(
		Route{Path: "/sales/:id", Method: http.MethodGet, Handler: echoParam("sale", "id")},
		Route{Path: "/sales/daily/:userId", Method: http.MethodGet, Handler: echoParam("daily", "userId")},
		Route{Path: "/sales/monthly/:userId", Method: http.MethodGet, Handler: echoParam("monthly", "userId")},
		Route{Path: "/users/expected-monthly-income", Method: http.MethodPut, Handler: echoParam("income", "")},
		Route{Path: "/users/:userId/change-password", Method: http.MethodPut, Handler: echoParam("password", "userId")},
	))

	assert.Equal(t, 2, rt.Layers())

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/sales/abc", "sale:abc"},
		{http.MethodGet, "/sales/daily/u1", "daily:u1"},
		{http.MethodGet, "/sales/monthly/u2", "monthly:u2"},
		{http.MethodGet, "/sales/daily", "sale:daily"},
		{http.MethodPut, "/users/expected-monthly-income", "income:"},
		{http.MethodPut, "/users/u9/change-password", "password:u9"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRouter_RegistrationOrderDoesNotMatter(t *testing.T) {
	rt := New(WithRoutes(
		Route{Path: "/sales/daily/:userId", Method: http.MethodGet, Handler: echoParam("daily", "userId")},
		Route{Path: "/sales/:id", Method: http.MethodGet, Handler: echoParam("sale", "id")},
	))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/s1", nil))
	assert.Equal(t, "sale:s1", rec.Body.String())

	rec = httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/daily/u1", nil))
	assert.Equal(t, "daily:u1", rec.Body.String())
}

func TestRouter_NotFound(t *testing.T) {
	rt := New(WithRoutes(
		Route{Path: "/sales/:id", Method: http.MethodGet, Handler: echoParam("sale", "id")},
		Route{Path: "/sales/daily/:userId", Method: http.MethodGet, Handler: echoParam("daily", "userId")},
	))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nada", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "RES_002")
}

func TestRouter_MethodNotAllowedOnSingleLayer(t *testing.T) {
	rt := New(WithRoutes(
		Route{Path: "/products", Method: http.MethodGet, Handler: echoParam("products", "")},
	))

	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "RES_003")
}

func TestRouter_RouteMiddlewaresRunInOrder(t *testing.T) {
	var calls []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	rt := New(WithRoutes(Route{
		Path:        "/users",
		Method:      http.MethodGet,
		Handler:     echoParam("users", ""),
		Middlewares: []func(http.Handler) http.Handler{mark("primeiro"), mark("segundo")},
	}))

	rt.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, []string{"primeiro", "segundo"}, calls)
}

func TestRouter_DuplicateRoutePanics(t *testing.T) {
	assert.Panics(t, func() {
		New(WithRoutes(
			Route{Path: "/products", Method: http.MethodGet, Handler: echoParam("a", "")},
			Route{Path: "/products", Method: http.MethodGet, Handler: echoParam("b", "")},
		))
	})
}
