package controllers

import (
	"net/http"

	"github.com/resellbd/resell-api/pkg/ctx"
)

// Home handles GET / as a liveness probe.
func Home(x *ctx.Context) {
	x.String(http.StatusOK, "Resell BD API is running")
}
