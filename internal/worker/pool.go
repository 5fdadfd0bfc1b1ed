package worker

import (
	"context"
	"sync"
	"time"

	"github.com/avc/rifa-storefront/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PoolConfig параметры очистки состояния посетителей
type PoolConfig struct {
	Workers      int
	QueueSize    int
	ScanInterval time.Duration
	TTL          time.Duration // Состояние старше TTL удаляется
	BatchSize    int           // Сколько посетителей берется за одно сканирование
}

const defaultBatchSize = 500

// Pool представляет пул воркеров, удаляющих заброшенное состояние посетителей
type Pool struct {
	cfg    PoolConfig
	queue  chan uuid.UUID
	repo   domain.StateRepository
	logger *zap.Logger
	now    func() time.Time
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewPool создает новый worker pool
func NewPool(cfg PoolConfig, repo domain.StateRepository, logger *zap.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = 10 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return &Pool{
		cfg:    cfg,
		queue:  make(chan uuid.UUID, cfg.QueueSize),
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Start запускает worker pool
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.wg.Add(1)
	go p.scanner(ctx)
}

// Stop останавливает worker pool и ждет завершения воркеров
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// worker удаляет состояние посетителей из очереди
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("janitor worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("janitor worker stopping", zap.Int("worker_id", id))
			return
		case visitorID := <-p.queue:
			p.purge(ctx, visitorID)
		}
	}
}

// scanner периодически ищет заброшенное состояние
func (p *Pool) scanner(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("janitor scanner stopping")
			return
		case <-ticker.C:
			p.scanStaleVisitors(ctx)
		}
	}
}

// scanStaleVisitors ставит в очередь посетителей, чье состояние не менялось дольше TTL
func (p *Pool) scanStaleVisitors(ctx context.Context) int {
	if p.cfg.TTL <= 0 {
		return 0
	}

	visitors, err := p.repo.ListStaleVisitors(ctx, p.now().Add(-p.cfg.TTL), p.cfg.BatchSize)
	if err != nil {
		p.logger.Error("failed to list stale visitors", zap.Error(err))
		return 0
	}

	queued := 0
	for _, visitorID := range visitors {
		select {
		case p.queue <- visitorID:
			queued++
		case <-ctx.Done():
			return queued
		default:
			// Очередь заполнена, посетитель попадет в следующее сканирование
			p.logger.Warn("janitor queue is full, skipping visitor", zap.String("visitor_id", visitorID.String()))
		}
	}
	return queued
}

// purge удаляет все состояние одного посетителя
func (p *Pool) purge(ctx context.Context, visitorID uuid.UUID) {
	if err := p.repo.DeleteVisitor(ctx, visitorID); err != nil {
		p.logger.Error("failed to delete visitor state",
			zap.String("visitor_id", visitorID.String()),
			zap.Error(err),
		)
		return
	}

	p.logger.Debug("visitor state deleted", zap.String("visitor_id", visitorID.String()))
}
