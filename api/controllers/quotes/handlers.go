package quotes

import (
	"net/http"

	quotedto "github.com/angelmondragon/washline-backend/api/controllers/quotes/dto"
	"github.com/angelmondragon/washline-backend/api/responses"
	"github.com/angelmondragon/washline-backend/api/validators"
	"github.com/angelmondragon/washline-backend/internal/quote"
	pkgerrors "github.com/angelmondragon/washline-backend/pkg/errors"
	"github.com/angelmondragon/washline-backend/pkg/logger"
)

// QuoteCreate prices an order-like request without persisting anything.
func QuoteCreate(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quotedto.QuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Quote(r.Context(), toQuoteRequest(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuote(result))
	}
}
