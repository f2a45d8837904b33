package controllers

import (
	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/services"
	"github.com/resellbd/resell-api/pkg/ctx"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type paidInput struct {
	TransactionID string `json:"transactionId" validate:"required"`
}

// Store handles POST /orders. A repeat order for the same buyer and
// product answers 200 with acknowledged=false.
func (c *OrderController) Store(x *ctx.Context) {
	var order models.Order
	if !x.BindJSON(&order) {
		return
	}

	out, err := c.service.Create(x.Context(), &order)
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(out.Body())
}

// Index handles GET /orders?email=.
func (c *OrderController) Index(x *ctx.Context) {
	orders, err := c.service.ListByBuyer(x.Context(), x.Query("email"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(orders)
}

// Show handles GET /orders/{id}. A missing order renders as null.
func (c *OrderController) Show(x *ctx.Context) {
	order, err := c.service.Get(x.Context(), x.Param("id"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(order)
}

// All handles GET /admin/orders.
func (c *OrderController) All(x *ctx.Context) {
	orders, err := c.service.ListAll(x.Context())
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(orders)
}

// Destroy handles DELETE /orders/{id}.
func (c *OrderController) Destroy(x *ctx.Context) {
	res, err := c.service.Delete(x.Context(), x.Param("id"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(res)
}

// Paid handles PUT /orders/paid/{id}.
func (c *OrderController) Paid(x *ctx.Context) {
	var in paidInput
	if !x.BindJSON(&in) {
		return
	}

	res, err := c.service.MarkPaid(x.Context(), x.Param("id"), in.TransactionID)
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(res)
}
