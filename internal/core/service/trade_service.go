package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

const (
	defaultMaxAttempts = 8
	defaultRetryDelay  = 25 * time.Millisecond
)

// TradeService applies buys and sells against the ledger using versioned
// conditional writes. A write that loses a race returns ErrVersionConflict,
// and the whole read-validate-write cycle is repeated with fresh records.
//
// Without a TxRunner a buy is a two-step saga: the account write is reversed
// when the planet write loses a race. With a TxRunner both writes commit
// together and no compensation is needed.
type TradeService struct {
	ledger      ports.LedgerRepository
	prices      domain.PriceTable
	tx          ports.TxRunner
	maxAttempts int
	retryDelay  time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// TradeOption customises a TradeService.
type TradeOption func(*TradeService)

// WithTxRunner makes buys run both writes in one store transaction.
func WithTxRunner(tx ports.TxRunner) TradeOption {
	return func(s *TradeService) { s.tx = tx }
}

// WithRetry bounds how often a trade is retried after version conflicts and
// how long to wait between attempts. Non-positive values keep the defaults.
func WithRetry(maxAttempts int, delay time.Duration) TradeOption {
	return func(s *TradeService) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if delay > 0 {
			s.retryDelay = delay
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TradeOption {
	return func(s *TradeService) { s.now = now }
}

func NewTradeService(ledger ports.LedgerRepository, prices domain.PriceTable, logger zerolog.Logger, opts ...TradeOption) *TradeService {
	s := &TradeService{
		ledger:      ledger,
		prices:      prices,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Buy moves in.Amount units of in.Resource from the planet's stock into the
// player's holdings and debits their credits.
func (s *TradeService) Buy(ctx context.Context, in ports.BuyInput) (*domain.TradeReceipt, error) {
	if !in.Resource.Valid() {
		return nil, domain.ErrUnknownResource
	}
	if in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var receipt *domain.TradeReceipt
	attempts, err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		if s.tx == nil {
			receipt, err = s.buyOnce(ctx, in)
			return err
		}
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			receipt, err = s.buyOnce(txCtx, in)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}
	receipt.Attempts = attempts

	s.logger.Info().
		Str("trade_id", receipt.ID).
		Str("user_id", in.UserID).
		Str("planet_id", in.PlanetID).
		Str("resource", string(in.Resource)).
		Int64("amount", in.Amount).
		Int64("value", receipt.Value).
		Int("attempts", attempts).
		Msg("buy applied")

	return receipt, nil
}

func (s *TradeService) buyOnce(ctx context.Context, in ports.BuyInput) (*domain.TradeReceipt, error) {
	account, err := s.ledger.GetAccount(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	// The planet comes before the credits check: its overrides set the price.
	planet, err := s.ledger.GetPlanet(ctx, in.PlanetID)
	if err != nil {
		return nil, err
	}

	unitPrice, cost, err := planet.EffectivePrices(s.prices).Value(in.Resource, in.Amount)
	if err != nil {
		return nil, err
	}

	stock := planet.Resources.Get(in.Resource)
	affordable := maxUnits(account.Credits, unitPrice, stock)
	if account.Credits < cost {
		return nil, &domain.ShortfallError{
			Reason:    domain.ErrInsufficientCredits,
			Resource:  in.Resource,
			Requested: in.Amount,
			Required:  cost,
			Available: account.Credits,
			MaxAmount: affordable,
		}
	}
	if stock < in.Amount {
		return nil, &domain.ShortfallError{
			Reason:    domain.ErrInsufficientStock,
			Resource:  in.Resource,
			Requested: in.Amount,
			Required:  in.Amount,
			Available: stock,
			MaxAmount: affordable,
		}
	}

	held := account.Resources.Get(in.Resource)
	if held > math.MaxInt64-in.Amount {
		return nil, domain.ErrInvalidAmount
	}
	credits := account.Credits - cost
	debited, err := s.ledger.UpdateAccount(ctx, account.ID, ports.AccountPatch{
		Credits:   &credits,
		Resources: domain.Holdings{in.Resource: held + in.Amount},
	}, account.Version)
	if err != nil {
		return nil, err
	}

	depleted, err := s.ledger.UpdatePlanet(ctx, planet.ID, ports.PlanetPatch{
		Resources: domain.Holdings{in.Resource: stock - in.Amount},
	}, planet.Version)
	if err != nil {
		if s.tx != nil {
			return nil, err
		}
		return nil, s.compensateBuy(ctx, debited, in, cost, err)
	}

	return &domain.TradeReceipt{
		ID:          uuid.NewString(),
		Kind:        domain.TradeBuy,
		UserID:      account.ID,
		PlanetID:    planet.ID,
		Resource:    in.Resource,
		Amount:      in.Amount,
		UnitPrice:   unitPrice,
		Value:       cost,
		Credits:     debited.Credits,
		Holdings:    debited.Resources.Clone(),
		PlanetStock: depleted.Resources.Clone(),
		ExecutedAt:  s.now(),
	}, nil
}

// compensateBuy handles a failed planet write after the account was debited.
// A version conflict or a missing planet proves the planet write did not
// happen, so the debit is reversed and planetErr returned (a conflict is then
// retried). A store failure leaves the planet write's outcome unknown and is
// reported as a partial trade.
func (s *TradeService) compensateBuy(ctx context.Context, debited *domain.Account, in ports.BuyInput, cost int64, planetErr error) error {
	if !planetUnwritten(planetErr) {
		s.logger.Error().
			Err(planetErr).
			Str("user_id", in.UserID).
			Str("planet_id", in.PlanetID).
			Str("resource", string(in.Resource)).
			Int64("amount", in.Amount).
			Int64("cost", cost).
			Msg("planet write failed after account debit; manual reconciliation required")
		return fmt.Errorf("%w: planet %s: %w", domain.ErrPartialTrade, in.PlanetID, planetErr)
	}

	if err := s.refund(ctx, debited, in.Resource, in.Amount, cost); err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", in.UserID).
			Str("planet_id", in.PlanetID).
			Int64("cost", cost).
			Msg("refund after rejected planet write failed")
		return fmt.Errorf("%w: refund account %s: %w", domain.ErrPartialTrade, in.UserID, err)
	}

	s.logger.Debug().
		Str("user_id", in.UserID).
		Str("planet_id", in.PlanetID).
		Msg("planet write rejected, debit reversed")
	return planetErr
}

// planetUnwritten reports conditional-write failures that guarantee nothing
// was stored.
func planetUnwritten(err error) bool {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return false
	}
	return errors.Is(err, domain.ErrVersionConflict) || errors.Is(err, domain.ErrNotFound)
}

// refund reverses a buy's account write, re-reading the account whenever the
// conditional write loses a race.
func (s *TradeService) refund(ctx context.Context, account *domain.Account, r domain.ResourceKind, amount, cost int64) error {
	current := account
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		held := current.Resources.Get(r)
		if held < amount {
			return fmt.Errorf("holdings of %s already spent", r)
		}
		credits := current.Credits + cost
		_, err := s.ledger.UpdateAccount(ctx, current.ID, ports.AccountPatch{
			Credits:   &credits,
			Resources: domain.Holdings{r: held - amount},
		}, current.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
		if current, err = s.ledger.GetAccount(ctx, current.ID); err != nil {
			return err
		}
	}
	return domain.ErrTradeConflict
}

// Sell removes in.Amount units of in.Resource from the player's holdings and
// credits their account. Sold resources do not return to any planet.
func (s *TradeService) Sell(ctx context.Context, in ports.SellInput) (*domain.TradeReceipt, error) {
	unitPrice, value, err := s.prices.Value(in.Resource, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}

	var receipt *domain.TradeReceipt
	attempts, err := s.withRetry(ctx, func(ctx context.Context) error {
		account, err := s.ledger.GetAccount(ctx, in.UserID)
		if err != nil {
			return err
		}

		held := account.Resources.Get(in.Resource)
		if held < in.Amount {
			return &domain.ShortfallError{
				Reason:    domain.ErrInsufficientResources,
				Resource:  in.Resource,
				Requested: in.Amount,
				Required:  in.Amount,
				Available: held,
				MaxAmount: held,
			}
		}
		if account.Credits > math.MaxInt64-value {
			return domain.ErrInvalidAmount
		}

		credits := account.Credits + value
		updated, err := s.ledger.UpdateAccount(ctx, account.ID, ports.AccountPatch{
			Credits:   &credits,
			Resources: domain.Holdings{in.Resource: held - in.Amount},
		}, account.Version)
		if err != nil {
			return err
		}

		receipt = &domain.TradeReceipt{
			ID:         uuid.NewString(),
			Kind:       domain.TradeSell,
			UserID:     account.ID,
			Resource:   in.Resource,
			Amount:     in.Amount,
			UnitPrice:  unitPrice,
			Value:      value,
			Credits:    updated.Credits,
			Holdings:   updated.Resources.Clone(),
			ExecutedAt: s.now(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}
	receipt.Attempts = attempts

	s.logger.Info().
		Str("trade_id", receipt.ID).
		Str("user_id", in.UserID).
		Str("resource", string(in.Resource)).
		Int64("amount", in.Amount).
		Int64("value", value).
		Int("attempts", attempts).
		Msg("sell applied")

	return receipt, nil
}

// Quote prices a trade without touching any balance.
func (s *TradeService) Quote(ctx context.Context, in ports.QuoteInput) (*domain.PendingTrade, error) {
	if in.Kind != domain.TradeBuy && in.Kind != domain.TradeSell {
		return nil, domain.ErrUnknownTradeKind
	}

	prices := s.prices
	if in.PlanetID != "" {
		planet, err := s.ledger.GetPlanet(ctx, in.PlanetID)
		if err != nil {
			return nil, fmt.Errorf("quote: %w", err)
		}
		prices = planet.EffectivePrices(s.prices)
	}

	unitPrice, value, err := prices.Value(in.Resource, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}

	return &domain.PendingTrade{
		Kind:      in.Kind,
		PlanetID:  in.PlanetID,
		Resource:  in.Resource,
		Amount:    in.Amount,
		UnitPrice: unitPrice,
		Value:     value,
	}, nil
}

// withRetry runs op until it returns something other than a version
// conflict, giving up with ErrTradeConflict after maxAttempts. It returns the
// number of attempts made.
func (s *TradeService) withRetry(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil || !errors.Is(err, domain.ErrVersionConflict) {
			return attempt, err
		}
		if attempt >= s.maxAttempts {
			return attempt, fmt.Errorf("%w: %w", domain.ErrTradeConflict, err)
		}
		s.logger.Debug().Int("attempt", attempt).Msg("version conflict, retrying trade")
		if err := sleepWithContext(ctx, s.retryDelay*time.Duration(attempt)); err != nil {
			return attempt, err
		}
	}
}

// maxUnits is the largest buy that both credits and stock allow.
func maxUnits(credits, unitPrice, stock int64) int64 {
	if unitPrice <= 0 {
		return stock
	}
	return min(credits/unitPrice, stock)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
