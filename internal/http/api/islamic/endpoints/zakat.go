package endpoints

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/familyhub/internal/currency"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api"
	"github.com/Nixie-Tech-LLC/familyhub/internal/http/api/islamic/packets"
	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
)

const defaultZakatCurrency = "USD"

func (i *IslamicController) zakatConfig(ctx *gin.Context, familyID int) (*model.ZakatConfig, *api.APIError) {
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	cfg, err := i.store.GetZakatConfig(familyID, id)
	if err != nil {
		return nil, api.StoreError(err, "Config not found", "islamic.GetZakatConfig")
	}
	return cfg, nil
}

// POST /api/islamic/zakat/config
func (i *IslamicController) upsertZakatConfig(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.ZakatConfigRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.TotalDue.IsNegative() {
		return nil, api.BadRequest("total_due cannot be negative")
	}
	code := currency.Normalize(request.Currency)
	if code == "" {
		code = defaultZakatCurrency
	}

	cfg, err := i.store.UpsertZakatConfig(&model.ZakatConfig{
		FamilyID:  familyID,
		CreatedBy: user.ID,
		Year:      request.Year,
		TotalDue:  request.TotalDue,
		Currency:  code,
		Notes:     request.Notes,
	})
	if err != nil {
		return nil, api.Internal(err, "islamic.UpsertZakatConfig")
	}
	return packets.NewZakatConfig(*cfg), nil
}

// GET /api/islamic/zakat/config?year=
func (i *IslamicController) listZakatConfigs(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	year, apiErr := api.QueryInt(ctx, "year")
	if apiErr != nil {
		return nil, apiErr
	}
	configs, err := i.store.ListZakatConfigs(familyID, year)
	if err != nil {
		return nil, api.Internal(err, "islamic.ListZakatConfigs")
	}
	out := make([]packets.ZakatConfig, 0, len(configs))
	for _, c := range configs {
		out = append(out, packets.NewZakatConfig(c))
	}
	return out, nil
}

// GET /api/islamic/zakat/config/:id
func (i *IslamicController) getZakatConfig(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	cfg, apiErr := i.zakatConfig(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.NewZakatConfig(*cfg), nil
}

// PUT /api/islamic/zakat/config/:id
func (i *IslamicController) updateZakatConfig(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	cfg, apiErr := i.zakatConfig(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateZakatConfigRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if request.TotalDue != nil {
		if request.TotalDue.IsNegative() {
			return nil, api.BadRequest("total_due cannot be negative")
		}
		cfg.TotalDue = *request.TotalDue
	}
	if request.Currency != nil {
		code := currency.Normalize(*request.Currency)
		if code == "" {
			return nil, api.BadRequest("currency cannot be empty")
		}
		cfg.Currency = code
	}
	if request.Notes != nil {
		cfg.Notes = request.Notes
	}

	updated, err := i.store.UpdateZakatConfig(cfg)
	if err != nil {
		return nil, api.StoreError(err, "Config not found", "islamic.UpdateZakatConfig")
	}
	return packets.NewZakatConfig(*updated), nil
}

// DELETE /api/islamic/zakat/config/:id
func (i *IslamicController) deleteZakatConfig(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := i.store.DeleteZakatConfig(familyID, id); err != nil {
		return nil, api.StoreError(err, "Config not found", "islamic.DeleteZakatConfig")
	}
	return gin.H{"message": "Config deleted"}, nil
}

// GET /api/islamic/zakat/config/:id/convert?to=
func (i *IslamicController) convertZakatConfig(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	cfg, apiErr := i.zakatConfig(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	to := currency.Normalize(ctx.Query("to"))
	if to == "" {
		return nil, api.BadRequest("to is required")
	}

	conv, err := i.fx.Convert(ctx.Request.Context(), cfg.TotalDue, cfg.Currency, to)
	if err != nil {
		if errors.Is(err, currency.ErrUnknownCurrency) {
			return nil, api.BadRequest(err.Error())
		}
		return nil, api.Internal(err, "islamic.Convert")
	}
	return packets.ZakatConversion{
		ConfigID:  cfg.ID,
		From:      conv.From,
		To:        conv.To,
		Rate:      conv.Rate,
		Source:    conv.Source,
		TotalDue:  conv.Result,
		TotalPaid: cfg.TotalPaid.Mul(conv.Rate).Round(2),
		Remaining: cfg.Remaining().Mul(conv.Rate).Round(2),
	}, nil
}

// POST /api/islamic/zakat/payment
func (i *IslamicController) addZakatPayment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.ZakatPaymentRequest
	if apiErr := api.Bind(ctx, &request); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := requireDate(request.Date); apiErr != nil {
		return nil, apiErr
	}
	if !request.Amount.IsPositive() {
		return nil, api.BadRequest("amount must be greater than 0")
	}
	if _, err := i.store.GetZakatConfig(familyID, request.ConfigID); err != nil {
		return nil, api.StoreError(err, "Config not found", "islamic.GetZakatConfig")
	}

	payment, err := i.store.CreateZakatPayment(&model.ZakatPayment{
		ConfigID:           request.ConfigID,
		UserID:             user.ID,
		Date:               request.Date,
		Amount:             request.Amount,
		Recipient:          request.Recipient,
		Notes:              request.Notes,
		IsRecipientPrivate: request.IsRecipientPrivate,
	})
	if err != nil {
		return nil, api.Internal(err, "islamic.CreateZakatPayment")
	}
	return api.Created(payment), nil
}

// GET /api/islamic/zakat/payments/:id
func (i *IslamicController) listZakatPayments(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	cfg, apiErr := i.zakatConfig(ctx, familyID)
	if apiErr != nil {
		return nil, apiErr
	}
	payments, err := i.store.ListZakatPayments(cfg.ID)
	if err != nil {
		return nil, api.Internal(err, "islamic.ListZakatPayments")
	}
	out := make([]model.ZakatPayment, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.VisibleTo(user.ID))
	}
	return out, nil
}

// DELETE /api/islamic/zakat/payment/:id
func (i *IslamicController) deleteZakatPayment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	familyID, apiErr := api.FamilyOf(user)
	if apiErr != nil {
		return nil, apiErr
	}
	id, apiErr := api.IDParam(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := i.store.GetZakatPayment(familyID, id); err != nil {
		return nil, api.StoreError(err, "Payment not found", "islamic.GetZakatPayment")
	}
	if err := i.store.DeleteZakatPayment(id); err != nil {
		return nil, api.StoreError(err, "Payment not found", "islamic.DeleteZakatPayment")
	}
	return gin.H{"message": "Payment deleted"}, nil
}
