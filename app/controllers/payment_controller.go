package controllers

import (
	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/services"
	"github.com/resellbd/resell-api/pkg/ctx"
)

type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

type intentInput struct {
	Price models.Amount `json:"price"`
}

// CreateIntent handles POST /create-payment-intent and answers
// {"clientSecret": "..."}.
func (c *PaymentController) CreateIntent(x *ctx.Context) {
	var in intentInput
	if !x.BindJSON(&in) {
		return
	}

	intent, err := c.service.CreateIntent(x.Context(), float64(in.Price))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(intent)
}
