package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/orbital-exchange/trading-api/internal/api/metrics"
	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned for trades that never reached a worker because the
// dispatcher shut down. Nothing was written for them.
var ErrStopped = fmt.Errorf("trade dispatcher stopped: %w: %w", domain.ErrTradeNotStarted, domain.ErrStoreUnavailable)

type result struct {
	receipt *domain.TradeReceipt
	err     error
}

type job struct {
	ctx   context.Context
	req   ports.TradeRequest
	reply chan result
}

// Dispatcher routes trades to a fixed set of workers using consistent hashing
// on the contended record: the planet for buys and the account for sells.
// Trades on the same key run one at a time in submission order, which keeps
// version conflicts between requests of one process rare.
type Dispatcher struct {
	workers []chan job
	trades  ports.TradeService
	log     zerolog.Logger

	// mu orders enqueues against shutdown: once closed is set no job can
	// enter a worker channel, so the workers' final drain sees every job.
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, trades ports.TradeService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		trades:  trades,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

var _ ports.TradeExecutor = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// jobs still queued at that point are answered with ErrStopped.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		<-ctx.Done()
		d.mu.Lock()
		d.closed = true
		close(d.done)
		d.mu.Unlock()
	}()
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Execute queues req on its shard and blocks until a worker has run it or
// rejected it at shutdown.
func (d *Dispatcher) Execute(ctx context.Context, req ports.TradeRequest) (*domain.TradeReceipt, error) {
	idx := d.shardIndex(shardKey(req))
	j := job{ctx: ctx, req: req, reply: make(chan result, 1)}

	if err := d.enqueue(ctx, idx, j); err != nil {
		return nil, err
	}

	// Once queued the request context governs the store calls, so wait for
	// the worker rather than abandoning a trade that may be mid-flight.
	r := <-j.reply
	return r.receipt, r.err
}

func (d *Dispatcher) enqueue(ctx context.Context, idx int, j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrStopped
	}
	select {
	case d.workers[idx] <- j:
		metrics.TradeQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func shardKey(req ports.TradeRequest) string {
	if req.Kind == domain.TradeBuy {
		return "planet:" + req.PlanetID
	}
	return "user:" + req.UserID
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan job) {
	defer d.wg.Done()
	depth := metrics.TradeQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		// A closed dispatcher starts nothing new, even with jobs still queued.
		select {
		case <-d.done:
			d.drain(ch, depth)
			return
		default:
		}

		select {
		case <-d.done:
			d.drain(ch, depth)
			return
		case j := <-ch:
			depth.Dec()
			if err := j.ctx.Err(); err != nil {
				j.reply <- result{err: err}
				continue
			}
			receipt, err := d.run(j.ctx, j.req)
			if err != nil && !expected(err) {
				d.log.Error().Err(err).
					Str("kind", string(j.req.Kind)).
					Str("user_id", j.req.UserID).
					Str("planet_id", j.req.PlanetID).
					Int("worker_id", id).
					Msg("trade failed")
			}
			j.reply <- result{receipt: receipt, err: err}
		}
	}
}

// drain rejects the jobs left in ch after shutdown without running them.
// Enqueues stop before done is closed, so ch only shrinks here.
func (d *Dispatcher) drain(ch <-chan job, depth prometheus.Gauge) {
	for {
		select {
		case j := <-ch:
			depth.Dec()
			j.reply <- result{err: ErrStopped}
		default:
			return
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, req ports.TradeRequest) (*domain.TradeReceipt, error) {
	start := time.Now()
	kind := string(req.Kind)

	var (
		receipt *domain.TradeReceipt
		err     error
	)
	switch req.Kind {
	case domain.TradeBuy:
		receipt, err = d.trades.Buy(ctx, ports.BuyInput{
			UserID:   req.UserID,
			PlanetID: req.PlanetID,
			Resource: req.Resource,
			Amount:   req.Amount,
		})
	case domain.TradeSell:
		receipt, err = d.trades.Sell(ctx, ports.SellInput{
			UserID:   req.UserID,
			Resource: req.Resource,
			Amount:   req.Amount,
		})
	default:
		return nil, domain.ErrUnknownTradeKind
	}

	metrics.TradeDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.TradesTotal.WithLabelValues(kind, metrics.TradeOutcome(err)).Inc()
	if err == nil {
		metrics.TradeAttempts.WithLabelValues(kind).Observe(float64(receipt.Attempts))
	}
	if errors.Is(err, domain.ErrPartialTrade) {
		metrics.PartialTradesTotal.Inc()
	}
	return receipt, err
}

// expected reports business rejections that need no error log.
func expected(err error) bool {
	var shortfall *domain.ShortfallError
	return errors.As(err, &shortfall) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrUnknownResource) ||
		errors.Is(err, context.Canceled)
}
