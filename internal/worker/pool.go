package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Event представляет аналитическое событие
type Event struct {
	Name      string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// PoolConfig содержит параметры пула отправки событий
type PoolConfig struct {
	Workers   int
	QueueSize int
	// Адрес приемника аналитики; пустой адрес отключает отправку
	AnalyticsAddress string
}

// Pool представляет пул воркеров, отправляющих аналитические события во
// внешний приемник. Публикация неблокирующая: при заполненной очереди
// событие отбрасывается — аналитика не должна влиять на путь заказа.
type Pool struct {
	cfg    PoolConfig
	queue  chan Event
	client *retryablehttp.Client
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewPool создает новый пул отправки событий
func NewPool(cfg PoolConfig, logger *zap.Logger) *Pool {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil
	client.HTTPClient.Timeout = 10 * time.Second

	return &Pool{
		cfg:    cfg,
		queue:  make(chan Event, cfg.QueueSize),
		client: client,
		logger: logger,
	}
}

// Start запускает воркеры пула
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop останавливает пул, дожидаясь отправки принятых событий
func (p *Pool) Stop() {
	close(p.queue)
	p.wg.Wait()
}

// Publish ставит событие в очередь отправки. Не блокирует вызывающего:
// при заполненной очереди событие теряется с предупреждением в логе.
func (p *Pool) Publish(event string, payload map[string]any) {
	if p.cfg.AnalyticsAddress == "" {
		return
	}

	select {
	case p.queue <- Event{Name: event, Payload: payload, CreatedAt: time.Now()}:
	default:
		p.logger.Warn("analytics queue is full, dropping event", zap.String("event", event))
	}
}

// worker отправляет события из очереди
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("analytics worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("analytics worker stopping", zap.Int("worker_id", id))
			return
		case event, ok := <-p.queue:
			if !ok {
				return
			}
			p.send(ctx, event)
		}
	}
}

// send отправляет одно событие; ошибки отправки не фатальны
func (p *Pool) send(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.String("event", event.Name), zap.Error(err))
		return
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", p.cfg.AnalyticsAddress+"/api/events", bytes.NewReader(body))
	if err != nil {
		p.logger.Error("failed to build analytics request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("failed to deliver event", zap.String("event", event.Name), zap.Error(err))
		return
	}
	defer resp.Body.Close() //nolint:errcheck

	p.logger.Debug("event delivered",
		zap.String("event", event.Name),
		zap.Int("status", resp.StatusCode),
	)
}
