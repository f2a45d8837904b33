// Package kernel assembles the HTTP handler from explicit dependencies:
// services, listeners, controllers, route table and the global middleware
// stack.
package kernel

import (
	"net/http"
	"time"

	"github.com/resellbd/resell-api/app/controllers"
	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/app/routes"
	"github.com/resellbd/resell-api/app/services"
	"github.com/resellbd/resell-api/pkg/cache"
	"github.com/resellbd/resell-api/pkg/event"
	"github.com/resellbd/resell-api/pkg/metrics"
	"github.com/resellbd/resell-api/pkg/middleware"
	"github.com/resellbd/resell-api/pkg/payment"
	"github.com/resellbd/resell-api/pkg/reqid"
	"github.com/resellbd/resell-api/pkg/response"
	"github.com/resellbd/resell-api/pkg/router"
)

// Deps are the process-level collaborators the kernel wires together.
// Cache may be nil (caching disabled).
type Deps struct {
	Store    *repositories.Store
	Cache    *cache.Cache
	Payments payment.Provider
	Currency string
	CacheTTL time.Duration
	CORS     middleware.CORSOptions
}

type HTTPKernel struct {
	router *router.Router
	events *event.Dispatcher
}

func NewHTTPKernel(d Deps) *HTTPKernel {
	events := event.NewDispatcher(4)

	products := services.NewProductService(d.Store, d.Cache, events, d.CacheTTL)
	orders := services.NewOrderService(d.Store, events)
	users := services.NewUserService(d.Store, events)
	payments := services.NewPaymentService(d.Payments, d.Currency)
	services.RegisterListeners(events, products)

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics
	//  2. Recovery
	//  3. Request ID
	//  4. Logger (reads the request ID)
	//  5. CORS
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(d.CORS))

	r.HandleFunc("/metrics", metrics.Handler())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not found")
	})

	routes.RegisterAPI(r, routes.Controllers{
		Products: controllers.NewProductController(products),
		Orders:   controllers.NewOrderController(orders),
		Users:    controllers.NewUserController(users),
		Payments: controllers.NewPaymentController(payments),
	})

	return &HTTPKernel{router: r, events: events}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

// Events exposes the dispatcher so callers can attach extra listeners.
func (k *HTTPKernel) Events() *event.Dispatcher { return k.events }

// Close drains pending async event listeners. Call after the HTTP server
// has stopped.
func (k *HTTPKernel) Close() { k.events.Close() }
