package endpoints

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/currency"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

// Exchange is the slice of currency.Service the handlers need.
type Exchange interface {
	Rates(ctx context.Context, base string) (*currency.Rates, error)
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*currency.Conversion, error)
}

func CurrencyModule(fx Exchange) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/rates", func(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
			rates, err := fx.Rates(ctx.Request.Context(), ctx.DefaultQuery("base", "USD"))
			if err != nil {
				return nil, fxError(err)
			}
			return rates, nil
		})

		c.GET("/convert", func(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
			amount, err := decimal.NewFromString(ctx.Query("amount"))
			if err != nil {
				return nil, api.BadRequest("amount must be a number")
			}
			from, to := ctx.Query("from"), ctx.Query("to")
			if from == "" || to == "" {
				return nil, api.BadRequest("from and to are required")
			}
			conv, err := fx.Convert(ctx.Request.Context(), amount, from, to)
			if err != nil {
				return nil, fxError(err)
			}
			return conv, nil
		})
	})
}

func fxError(err error) *api.APIError {
	if errors.Is(err, currency.ErrUnknownCurrency) {
		return api.BadRequest(err.Error())
	}
	return api.Internal(err, "currency.exchange")
}
