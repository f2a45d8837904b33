package controllers

import (
	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/services"
	"github.com/resellbd/resell-api/pkg/ctx"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Store handles POST /products.
func (c *ProductController) Store(x *ctx.Context) {
	var product models.Product
	if !x.BindJSON(&product) {
		return
	}

	res, err := c.service.Create(x.Context(), &product)
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(res)
}

// Index handles GET /products?category=.
func (c *ProductController) Index(x *ctx.Context) {
	products, err := c.service.List(x.Context(), x.Query("category"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.OK(products)
}
