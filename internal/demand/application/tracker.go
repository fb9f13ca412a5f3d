// Package application 需求追踪服务：定时聚合近期订单销量，按阈值给卖家写入热销提醒。
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/wyfcoding/storefront/internal/demand/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

const (
	// cycleLockKey 多副本共享的周期租约键
	cycleLockKey = "storefront:demand:cycle"
	// statsCacheKey 统计报告缓存键，每个周期结束后失效
	statsCacheKey = "storefront:demand:stats"
)

// State 追踪器运行状态
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
)

// Config 追踪器参数，零值字段取默认值
type Config struct {
	Threshold      int
	CheckInterval  time.Duration
	TrackingWindow time.Duration
	DedupWindow    time.Duration
	LockTTL        time.Duration
	StatsCacheTTL  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Threshold <= 0 {
		c.Threshold = 5
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = time.Hour
	}
	if c.TrackingWindow <= 0 {
		c.TrackingWindow = 24 * time.Hour
	}
	if c.DedupWindow <= 0 {
		c.DedupWindow = 6 * time.Hour
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 5 * time.Minute
	}
	if c.StatsCacheTTL <= 0 {
		c.StatsCacheTTL = 30 * time.Second
	}
	return c
}

// CycleResult 一次检查周期的摘要
type CycleResult struct {
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
	Orders     int       `json:"orders"`
	Products   int       `json:"products"`
	Categories int       `json:"categories"`
	Unresolved int       `json:"unresolved"`
	Created    int       `json:"created"`
	Suppressed int       `json:"suppressed"`
	Failures   int       `json:"failures"`
	Skipped    bool      `json:"skipped,omitempty"`
}

// Status 追踪器状态与最近一次周期
type Status struct {
	State          State        `json:"state"`
	Threshold      int          `json:"threshold"`
	CheckInterval  string       `json:"checkInterval"`
	TrackingWindow string       `json:"trackingWindow"`
	DedupWindow    string       `json:"dedupWindow"`
	LastCycle      *CycleResult `json:"lastCycle,omitempty"`
	LastError      string       `json:"lastError,omitempty"`
}

// Option 追踪器可选项
type Option func(*Tracker)

// WithLocker 启用跨副本租约
func WithLocker(l Locker) Option {
	return func(t *Tracker) { t.locker = l }
}

// WithReportCache 缓存 Stats 结果 StatsCacheTTL 时长
func WithReportCache(c ReportCache) Option {
	return func(t *Tracker) { t.reports = c }
}

// WithMetrics 记录周期指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Tracker 需求追踪器。
// 所有周期（定时、手动、下单触发）都在 cycleMu 下串行执行。
type Tracker struct {
	cfg      Config
	orders   OrderReader
	products ProductReader
	sellers  SellerReader
	store    NotificationStore
	locker   Locker
	reports  ReportCache
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	cycleMu sync.Mutex

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	lastCycle *CycleResult
	lastErr   error
}

// NewTracker 创建处于 stopped 状态的追踪器
func NewTracker(cfg Config, orders OrderReader, products ProductReader, sellers SellerReader, store NotificationStore, l *slog.Logger, opts ...Option) *Tracker {
	if l == nil {
		l = logger.Get()
	}
	t := &Tracker{
		cfg:      cfg.withDefaults(),
		orders:   orders,
		products: products,
		sellers:  sellers,
		store:    store,
		logger:   l,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start 进入 running 状态：立即同步执行一次检查，之后按 CheckInterval 周期执行。
// 已在运行时为空操作。ctx 取消与 Stop 效果相同。
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	t.mu.Unlock()

	t.logger.Info("Demand tracker started", "interval", t.cfg.CheckInterval, "threshold", t.cfg.Threshold)
	t.runCycle(loopCtx, "startup")
	go t.loop(loopCtx, done)
}

// Stop 取消后续调度并等待循环退出，进行中的周期会执行完。未运行时为空操作。
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	t.logger.Info("Demand tracker stopped")
}

// State 当前运行状态
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return StateRunning
	}
	return StateStopped
}

// Status 返回状态、参数与最近一次周期摘要
func (t *Tracker) Status() Status {
	st := Status{
		State:          t.State(),
		Threshold:      t.cfg.Threshold,
		CheckInterval:  t.cfg.CheckInterval.String(),
		TrackingWindow: t.cfg.TrackingWindow.String(),
		DedupWindow:    t.cfg.DedupWindow.String(),
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastCycle != nil {
		last := *t.lastCycle
		st.LastCycle = &last
	}
	if t.lastErr != nil {
		st.LastError = t.lastErr.Error()
	}
	return st
}

func (t *Tracker) loop(ctx context.Context, done chan struct{}) {
	ticker := time.NewTicker(t.cfg.CheckInterval)
	defer ticker.Stop()
	defer func() {
		t.mu.Lock()
		if t.done == done {
			t.cancel, t.done = nil, nil
		}
		t.mu.Unlock()
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runCycle(ctx, "schedule")
		}
	}
}

func (t *Tracker) runCycle(ctx context.Context, trigger string) {
	res, err := t.TriggerCheck(ctx)
	if err != nil {
		t.logger.Error("demand cycle failed", "trigger", trigger, "error", err)
		return
	}
	t.logger.Debug("demand cycle finished", "trigger", trigger, "created", res.Created, "suppressed", res.Suppressed)
}

// TriggerCheck 立即执行一次检查，不影响调度。
// 与其他周期串行；调用方取消 ctx 不会中断已开始的周期。
func (t *Tracker) TriggerCheck(ctx context.Context) (result CycleResult, err error) {
	ctx = context.WithoutCancel(ctx)
	t.cycleMu.Lock()
	defer t.cycleMu.Unlock()

	began := time.Now()
	now := t.now()
	result.StartedAt = now
	log := logger.Attach(ctx, t.logger)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("demand cycle panicked: %v", r)
			log.Error("demand cycle panicked", "panic", r, "stack", string(debug.Stack()))
		}
		elapsed := time.Since(began)
		result.DurationMs = elapsed.Milliseconds()
		t.metrics.ObserveCycle(cycleOutcome(result, err), elapsed)
		t.record(result, err)
	}()

	if t.locker != nil {
		lease, ok, lerr := t.locker.TryLock(ctx, cycleLockKey, t.cfg.LockTTL)
		if lerr != nil {
			return result, fmt.Errorf("acquire demand cycle lease: %w", lerr)
		}
		if !ok {
			result.Skipped = true
			log.Info("demand cycle skipped, lease held by another replica")
			return result, nil
		}
		defer func() {
			if rerr := lease.Release(ctx); rerr != nil {
				log.Warn("failed to release demand cycle lease", "error", rerr)
			}
		}()
	}

	err = t.checkDemand(ctx, log, now, &result)
	t.invalidateReport(ctx, log)
	return result, err
}

// Stats 计算当前窗口的销量概览，不写任何通知。商品解析失败时返回错误
func (t *Tracker) Stats(ctx context.Context) (*domain.Report, error) {
	log := logger.Attach(ctx, t.logger)
	if report := t.cachedReport(ctx, log); report != nil {
		return report, nil
	}

	since := t.now().Add(-t.cfg.TrackingWindow)
	orders, err := t.orders.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	snap := domain.Tally(orders)
	var scratch CycleResult
	resolved, err := t.resolve(ctx, log, snap, &scratch)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	report := domain.ComputeStats(orders, snap, domain.Categorize(snap, resolved), since, t.cfg.TrackingWindow)
	t.cacheReport(ctx, log, report)
	return report, nil
}

func (t *Tracker) cachedReport(ctx context.Context, log *slog.Logger) *domain.Report {
	if t.reports == nil {
		return nil
	}
	raw, err := t.reports.Get(ctx, statsCacheKey)
	if err != nil {
		log.Warn("failed to read cached demand stats", "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var report domain.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		log.Warn("discarding undecodable cached demand stats", "error", err)
		return nil
	}
	return &report
}

func (t *Tracker) cacheReport(ctx context.Context, log *slog.Logger, report *domain.Report) {
	if t.reports == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		log.Warn("failed to encode demand stats for cache", "error", err)
		return
	}
	if err := t.reports.Set(ctx, statsCacheKey, string(raw), t.cfg.StatsCacheTTL); err != nil {
		log.Warn("failed to cache demand stats", "error", err)
	}
}

func (t *Tracker) invalidateReport(ctx context.Context, log *slog.Logger) {
	if t.reports == nil {
		return
	}
	if err := t.reports.Delete(ctx, statsCacheKey); err != nil {
		log.Warn("failed to invalidate cached demand stats", "error", err)
	}
}

func (t *Tracker) checkDemand(ctx context.Context, log *slog.Logger, now time.Time, res *CycleResult) error {
	orders, err := t.orders.ListSince(ctx, now.Add(-t.cfg.TrackingWindow))
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	snap := domain.Tally(orders)
	resolved, _ := t.resolve(ctx, log, snap, res)
	categories := domain.Categorize(snap, resolved)
	res.Orders, res.Products, res.Categories = len(orders), len(snap.Products), len(categories)

	dedupSince := now.Add(-t.cfg.DedupWindow)
	for _, c := range categories {
		if c.Count >= t.cfg.Threshold {
			t.notifyCategory(ctx, log, c, dedupSince, res)
		}
	}

	var trending []domain.ProductSales
	for _, p := range snap.Products {
		if p.Count >= t.cfg.Threshold {
			trending = append(trending, p)
		}
	}
	if len(trending) == 0 {
		return nil
	}
	owners, err := t.owningSellers(ctx, trending, resolved)
	if err != nil {
		res.Failures++
		log.Error("failed to load owning sellers", "products", len(trending), "error", err)
		return nil
	}
	for _, p := range trending {
		t.notifyProduct(ctx, log, p, resolved, owners, dedupSince, res)
	}
	return nil
}

// owningSellers 一次批量查询所有热销商品的所属卖家
func (t *Tracker) owningSellers(ctx context.Context, trending []domain.ProductSales, resolved map[string]domain.ProductRef) (map[string]domain.SellerRef, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range trending {
		ref, ok := resolved[p.Name]
		if !ok || ref.SellerID == "" {
			continue
		}
		if _, dup := seen[ref.SellerID]; dup {
			continue
		}
		seen[ref.SellerID] = struct{}{}
		ids = append(ids, ref.SellerID)
	}
	owners := make(map[string]domain.SellerRef, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}
	sellers, err := t.sellers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range sellers {
		owners[s.ID] = s
	}
	return owners, nil
}

// resolve 优先按代表商品 ID 批量解析，订单行没有商品 ID 时按名称解析。
// 查询失败的商品只计入 Failures，不计入 Unresolved；返回的错误汇总所有查询失败。
func (t *Tracker) resolve(ctx context.Context, log *slog.Logger, snap domain.Snapshot, res *CycleResult) (map[string]domain.ProductRef, error) {
	resolved := make(map[string]domain.ProductRef, len(snap.Products))

	ids := make([]string, 0, len(snap.Products))
	for _, p := range snap.Products {
		if p.ProductID != "" {
			ids = append(ids, p.ProductID)
		}
	}
	var errs []error
	byID := make(map[string]domain.ProductRef, len(ids))
	byIDFailed := false
	if len(ids) > 0 {
		refs, err := t.products.FindByIDs(ctx, ids)
		if err != nil {
			res.Failures++
			byIDFailed = true
			errs = append(errs, fmt.Errorf("find products by id: %w", err))
			log.Error("failed to resolve products by id", "count", len(ids), "error", err)
		}
		for _, r := range refs {
			byID[r.ID] = r
		}
	}

	for _, p := range snap.Products {
		if p.ProductID != "" {
			if byIDFailed {
				continue
			}
			if ref, ok := byID[p.ProductID]; ok {
				resolved[p.Name] = ref
			} else {
				res.Unresolved++
				log.Debug("product not in catalog", "product_id", p.ProductID, "product_name", p.Name)
			}
			continue
		}
		ref, err := t.products.FindByName(ctx, p.Name)
		switch {
		case err != nil:
			res.Failures++
			errs = append(errs, fmt.Errorf("find product %q by name: %w", p.Name, err))
			log.Error("failed to resolve product by name", "product_name", p.Name, "error", err)
		case ref == nil:
			res.Unresolved++
			log.Debug("product not in catalog", "product_name", p.Name)
		default:
			resolved[p.Name] = *ref
		}
	}
	return resolved, errors.Join(errs...)
}

func (t *Tracker) notifyCategory(ctx context.Context, log *slog.Logger, sales domain.CategorySales, since time.Time, res *CycleResult) {
	sellers, err := t.sellers.FindByCategory(ctx, sales.Category)
	if err != nil {
		res.Failures++
		log.Error("failed to find sellers for category", "category", sales.Category, "error", err)
		return
	}
	if len(sellers) == 0 {
		log.Warn("trending category has no sellers", "category", sales.Category, "sales", sales.Count)
		return
	}
	for _, s := range sellers {
		t.deliver(ctx, log, domain.NewCategoryAlert(s, sales, t.cfg.TrackingWindow), since, res)
	}
}

func (t *Tracker) notifyProduct(ctx context.Context, log *slog.Logger, sales domain.ProductSales, resolved map[string]domain.ProductRef, owners map[string]domain.SellerRef, since time.Time, res *CycleResult) {
	ref, ok := resolved[sales.Name]
	if !ok || ref.SellerID == "" {
		log.Debug("high demand product has no owning seller", "product_name", sales.Name)
		return
	}
	seller, ok := owners[ref.SellerID]
	if !ok {
		log.Warn("owning seller not found", "seller_id", ref.SellerID, "product_name", sales.Name)
		return
	}
	t.deliver(ctx, log, domain.NewProductAlert(seller, ref, sales, t.cfg.TrackingWindow), since, res)
}

// deliver 去重窗口内已有同键提醒时跳过
func (t *Tracker) deliver(ctx context.Context, log *slog.Logger, alert domain.Alert, since time.Time, res *CycleResult) {
	exists, err := t.store.HasRecent(ctx, alert.Key(), since)
	if err != nil {
		res.Failures++
		log.Error("failed to check recent notifications", "seller_id", alert.SellerID, "kind", alert.Kind, "error", err)
		return
	}
	if exists {
		res.Suppressed++
		t.metrics.NotificationSuppressed(string(alert.Kind))
		log.Debug("demand notification suppressed", "seller_id", alert.SellerID, "kind", alert.Kind)
		return
	}
	if err := t.store.Insert(ctx, alert); err != nil {
		res.Failures++
		log.Error("failed to insert demand notification", "seller_id", alert.SellerID, "kind", alert.Kind, "error", err)
		return
	}
	res.Created++
	log.Info("demand notification sent",
		"seller_id", alert.SellerID,
		"seller_name", alert.SellerName,
		"kind", alert.Kind,
		"category", alert.Category,
		"product_name", alert.ProductName,
		"sales", alert.SalesCount)
}

func (t *Tracker) record(res CycleResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastCycle = &res
	t.lastErr = err
}

func cycleOutcome(res CycleResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case res.Skipped:
		return "skipped"
	case res.Failures > 0:
		return "partial"
	default:
		return "ok"
	}
}
