package pricing

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	pricingdto "github.com/angelmondragon/washline-backend/api/controllers/pricing/dto"
	"github.com/angelmondragon/washline-backend/api/validators"
	pricingsvc "github.com/angelmondragon/washline-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/washline-backend/pkg/errors"
	"github.com/angelmondragon/washline-backend/pkg/pagination"
	"github.com/angelmondragon/washline-backend/pkg/types"
)

func toRecordInput(payload pricingdto.PriceRecordRequest) pricingsvc.RecordInput {
	input := pricingsvc.RecordInput{
		ServiceID:    payload.ServiceID,
		OutletID:     payload.OutletID,
		MemberTier:   payload.MemberTier,
		IsExpress:    payload.IsExpress,
		EffectiveEnd: payload.EffectiveEnd,
	}
	if payload.Price != nil {
		input.Price = *payload.Price
	}
	if payload.EffectiveStart != nil {
		input.EffectiveStart = *payload.EffectiveStart
	}
	return input
}

func parseListParams(r *http.Request) (pricingsvc.ListParams, error) {
	params := pricingsvc.ListParams{}
	q := validators.QueryOf(r)

	limit, err := q.Int("limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return params, err
	}
	params.Limit = limit
	params.Cursor = q.String("cursor")

	if params.Filter.ServiceID, err = q.OptionalUUID("service_id"); err != nil {
		return params, err
	}
	if params.Filter.OutletID, err = q.OptionalUUID("outlet_id"); err != nil {
		return params, err
	}
	if params.Filter.IsExpress, err = q.OptionalBool("is_express"); err != nil {
		return params, err
	}
	if params.Filter.ActiveOn, err = q.OptionalDate("active_on"); err != nil {
		return params, err
	}
	tier, err := pricingsvc.ParseTierFilter(q.String("member_tier"))
	if err != nil {
		return params, validators.InvalidQuery(err, "member_tier")
	}
	params.Filter.Tier = tier
	return params, nil
}

func parseResolveRequest(r *http.Request) (pricingsvc.ResolveRequest, error) {
	req := pricingsvc.ResolveRequest{}
	q := validators.QueryOf(r)

	serviceID, err := q.RequiredUUID("service_id")
	if err != nil {
		return req, err
	}
	outletID, err := q.RequiredUUID("outlet_id")
	if err != nil {
		return req, err
	}
	date, err := q.RequiredDate("date")
	if err != nil {
		return req, err
	}
	express, err := q.OptionalBool("express")
	if err != nil {
		return req, err
	}

	req.ServiceID = serviceID
	req.OutletID = outletID
	req.Date = date
	req.Tier = types.TierOf(q.String("tier"))
	if express != nil {
		req.IsExpress = *express
	}
	return req, nil
}

func pathID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price record id")
	}
	return id, nil
}
