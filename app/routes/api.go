package routes

import (
	"github.com/resellbd/resell-api/app/controllers"
	"github.com/resellbd/resell-api/pkg/ctx"
	"github.com/resellbd/resell-api/pkg/router"
)

// Controllers is everything the route table dispatches to.
type Controllers struct {
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Users    *controllers.UserController
	Payments *controllers.PaymentController
}

func RegisterAPI(r *router.Router, c Controllers) {
	r.Get("/", "home", ctx.Wrap(controllers.Home))

	r.Post("/products", "products.store", ctx.Wrap(c.Products.Store))
	r.Get("/products", "products.index", ctx.Wrap(c.Products.Index))

	r.Post("/orders", "orders.store", ctx.Wrap(c.Orders.Store))
	r.Get("/orders", "orders.index", ctx.Wrap(c.Orders.Index))
	r.Get("/orders/{id}", "orders.show", ctx.Wrap(c.Orders.Show))
	r.Delete("/orders/{id}", "orders.destroy", ctx.Wrap(c.Orders.Destroy))
	r.Put("/orders/paid/{id}", "orders.paid", ctx.Wrap(c.Orders.Paid))

	admin := r.Group("/admin")
	admin.Get("/orders", "admin.orders", ctx.Wrap(c.Orders.All))

	r.Post("/users", "users.store", ctx.Wrap(c.Users.Store))
	r.Get("/users", "users.index", ctx.Wrap(c.Users.Index))
	r.Put("/users/admin/{id}", "users.admin", ctx.Wrap(c.Users.MakeAdmin))
	r.Put("/users/verify/{id}", "users.verify", ctx.Wrap(c.Users.Verify))
	r.Delete("/users/{id}", "users.destroy", ctx.Wrap(c.Users.Destroy))

	r.Post("/create-payment-intent", "payments.intent", ctx.Wrap(c.Payments.CreateIntent))
}
