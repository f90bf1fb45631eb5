package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orbital-exchange/trading-api/internal/api/metrics"
	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// TradeHandler quotes trades and submits them to the dispatcher.
type TradeHandler struct {
	trades   ports.TradeService
	executor ports.TradeExecutor
	dedup    ports.TradeDedup
	log      zerolog.Logger
}

// NewTradeHandler wires the handler. dedup may be nil, in which case the
// Idempotency-Key header is ignored.
func NewTradeHandler(trades ports.TradeService, executor ports.TradeExecutor, dedup ports.TradeDedup, log zerolog.Logger) *TradeHandler {
	return &TradeHandler{trades: trades, executor: executor, dedup: dedup, log: log}
}

// Quote handles POST /v1/trades/quote.
//
// @Summary      Price a trade without applying it
// @Tags         trades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      quoteRequest  true  "Trade to price"
// @Success      200   {object}  domain.PendingTrade
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/trades/quote [post]
func (h *TradeHandler) Quote(c echo.Context) error {
	var req quoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	kind, err := domain.ParseTradeKind(req.Kind)
	if err != nil {
		return err
	}
	resource, err := domain.ParseResourceKind(req.Resource)
	if err != nil {
		return err
	}

	quote, err := h.trades.Quote(c.Request().Context(), ports.QuoteInput{
		Kind:     kind,
		PlanetID: req.PlanetID,
		Resource: resource,
		Amount:   req.Amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quote)
}

// Buy handles POST /v1/planets/:id/buy.
//
// @Summary      Buy resources from a planet
// @Tags         trades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string        true   "Planet id"
// @Param        Idempotency-Key  header    string        false  "Rejects a resubmission of the same trade"
// @Param        body             body      tradeRequest  true   "Resource and amount"
// @Success      200              {object}  domain.TradeReceipt
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      503              {object}  errorResponse
// @Router       /v1/planets/{id}/buy [post]
func (h *TradeHandler) Buy(c echo.Context) error {
	return h.submit(c, domain.TradeBuy, c.Param("id"))
}

// Sell handles POST /v1/trades/sell.
//
// @Summary      Sell resources to the market
// @Tags         trades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string        false  "Rejects a resubmission of the same trade"
// @Param        body             body      tradeRequest  true   "Resource and amount"
// @Success      200              {object}  domain.TradeReceipt
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      503              {object}  errorResponse
// @Router       /v1/trades/sell [post]
func (h *TradeHandler) Sell(c echo.Context) error {
	return h.submit(c, domain.TradeSell, "")
}

func (h *TradeHandler) submit(c echo.Context, kind domain.TradeKind, planetID string) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req tradeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resource, err := domain.ParseResourceKind(req.Resource)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	key := c.Request().Header.Get(headerIdempotencyKey)
	if key != "" && h.dedup != nil {
		first, err := h.dedup.Claim(ctx, claims.UserID, key)
		if err != nil {
			return err
		}
		if !first {
			metrics.IdempotencyTotal.WithLabelValues("hit").Inc()
			return domain.ErrDuplicateTrade
		}
		metrics.IdempotencyTotal.WithLabelValues("miss").Inc()
	}

	receipt, err := h.executor.Execute(ctx, ports.TradeRequest{
		Kind:     kind,
		UserID:   claims.UserID,
		PlanetID: planetID,
		Resource: resource,
		Amount:   req.Amount,
	})
	if err != nil {
		if key != "" && h.dedup != nil && notApplied(err) {
			if rerr := h.dedup.Release(context.WithoutCancel(ctx), claims.UserID, key); rerr != nil {
				h.log.Warn().Err(rerr).Str("user_id", claims.UserID).Msg("failed to release idempotency key")
			}
		}
		return err
	}
	return c.JSON(http.StatusOK, receipt)
}

// notApplied reports errors that prove the trade changed nothing, so its
// idempotency key may be reused. A partial trade keeps the key whatever it
// wraps, as do store failures whose outcome is unknown.
func notApplied(err error) bool {
	if errors.Is(err, domain.ErrPartialTrade) {
		return false
	}
	if errors.Is(err, domain.ErrTradeNotStarted) {
		return true
	}
	var shortfall *domain.ShortfallError
	return errors.As(err, &shortfall) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrUnknownResource) ||
		errors.Is(err, domain.ErrUnknownTradeKind) ||
		errors.Is(err, domain.ErrTradeConflict)
}
