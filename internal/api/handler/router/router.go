package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.AddRoutes(routes...)
		}
	}
)

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler // Lista de middlewares específicos para esta rota
}

// Router agrupa árvores do httprouter em camadas. Uma rota que conflita com
// as árvores existentes (ex.: /sales/:id e /sales/daily/:userId) vai para a
// próxima camada, consultada quando a anterior não encontra a rota.
type Router struct {
	layers []*httprouter.Router
}

type ConfigRouter func(router *Router)

func New(configs ...ConfigRouter) *Router {
	router := &Router{}
	router.addLayer()

	for _, config := range configs {
		config(router)
	}

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.layers[0].ServeHTTP(w, req)
}

// AddRoutes adiciona rotas ao router com seus middlewares específicos
func (r *Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		var handler http.Handler = route.Handler

		// Aplicar middlewares específicos da rota, do último para o primeiro
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			middleware := route.Middlewares[i]
			handler = middleware(handler)
		}

		r.register(route.Method, route.Path, handler)
	}
}

// Layers informa quantas árvores foram necessárias
func (r *Router) Layers() int {
	return len(r.layers)
}

func (r *Router) register(method, path string, handler http.Handler) {
	for _, layer := range r.layers {
		if tryHandle(layer, method, path, handler) {
			return
		}
	}

	layer := r.addLayer()
	if !tryHandle(layer, method, path, handler) {
		panic(fmt.Sprintf("rota %s %s não pode ser registrada", method, path))
	}

	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"layer":  len(r.layers) - 1,
	}).Debug("Rota registrada em nova camada")
}

// tryHandle registra a rota e reporta false quando o httprouter acusa conflito
func tryHandle(layer *httprouter.Router, method, path string, handler http.Handler) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			if msg, isString := rec.(string); isString && strings.Contains(msg, "conflicts") {
				ok = false
				return
			}
			panic(rec)
		}
	}()

	layer.Handler(method, path, handler)
	return true
}

func (r *Router) addLayer() *httprouter.Router {
	layer := httprouter.New()
	layer.NotFound = http.HandlerFunc(notFound)
	layer.MethodNotAllowed = http.HandlerFunc(methodNotAllowed)

	if n := len(r.layers); n > 0 {
		previous := r.layers[n-1]
		// Camadas intermediárias repassam o que não conhecem
		previous.NotFound = layer
		previous.RedirectTrailingSlash = false
		previous.RedirectFixedPath = false
		previous.HandleMethodNotAllowed = false
		previous.HandleOPTIONS = false
	}

	r.layers = append(r.layers, layer)
	return layer
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrRouteNotFound, "Rota não encontrada", nil)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não suportado", nil)
}
