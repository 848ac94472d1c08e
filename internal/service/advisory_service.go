package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cropprospector/backend/internal/catalog"
	"github.com/cropprospector/backend/internal/domain"
	"github.com/cropprospector/backend/pkg/metrics"
	"github.com/cropprospector/backend/pkg/utils"
)

const (
	defaultMaxBatchSize     = 20
	defaultBatchConcurrency = 4
	defaultHistoryMaxLimit  = 100
	defaultHistoryLimit     = 20
	defaultSaveTimeout      = 5 * time.Second
)

// Option applies a configuration option to the AdvisoryService.
type Option func(*AdvisoryService)

// WithMaxBatchSize caps the number of inputs RecommendBatch accepts.
func WithMaxBatchSize(n int) Option {
	return func(s *AdvisoryService) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithBatchConcurrency bounds the goroutines used by one batch.
func WithBatchConcurrency(n int) Option {
	return func(s *AdvisoryService) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithHistoryMaxLimit caps how many history records one call returns.
func WithHistoryMaxLimit(n int) Option {
	return func(s *AdvisoryService) {
		if n > 0 {
			s.historyMaxLimit = n
		}
	}
}

// WithSaveTimeout bounds each background history write.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *AdvisoryService) {
		if d > 0 {
			s.saveTimeout = d
		}
	}
}

// AdvisoryService serves recommendations to the delivery layer and keeps the
// query history
type AdvisoryService struct {
	recommender *Recommender
	catalog     *catalog.Catalog
	repo        HistoryRepository
	metrics     *metrics.Manager
	log         *zap.Logger

	maxBatchSize     int
	batchConcurrency int
	historyMaxLimit  int
	saveTimeout      time.Duration
	now              func() time.Time

	wgBg sync.WaitGroup // tracks background goroutines for graceful shutdown
}

// NewAdvisoryService creates a new advisory service
func NewAdvisoryService(
	cat *catalog.Catalog,
	repo HistoryRepository,
	m *metrics.Manager,
	log *zap.Logger,
	opts ...Option,
) *AdvisoryService {
	s := &AdvisoryService{
		recommender:      NewRecommender(cat),
		catalog:          cat,
		repo:             repo,
		metrics:          m,
		log:              log.Named("advisory"),
		maxBatchSize:     defaultMaxBatchSize,
		batchConcurrency: defaultBatchConcurrency,
		historyMaxLimit:  defaultHistoryMaxLimit,
		saveTimeout:      defaultSaveTimeout,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *AdvisoryService) WaitBackground() {
	s.wgBg.Wait()
}

// Recommend validates the input, ranks crops, and records the query
func (s *AdvisoryService) Recommend(ctx context.Context, in domain.FarmerInput) (domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, err
	}
	if missing := in.Missing(); len(missing) > 0 {
		return domain.RecommendationResult{}, fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	start := time.Now()
	res, diag := s.recommender.RecommendWithDiagnostics(in)
	s.metrics.RecordRecommendation(
		soilLabel(in.SoilType), waterLabel(in.WaterAvailability),
		time.Since(start), diag.SoilFallback, diag.LocationFallback, diag.Penalised,
	)

	s.log.Debug("recommendation served",
		zap.String("location", in.Location),
		zap.String("soil", in.SoilType),
		zap.String("water", in.WaterAvailability),
		zap.String("top_crop", res.Crops[0].Name),
		zap.Bool("soil_fallback", diag.SoilFallback),
		zap.Bool("location_fallback", diag.LocationFallback),
		zap.Int("penalised", diag.Penalised),
	)

	s.saveHistory(in, res, diag)
	return res, nil
}

// RecommendBatch runs several inputs concurrently; results keep input order.
// Any invalid input rejects the whole batch.
func (s *AdvisoryService) RecommendBatch(ctx context.Context, inputs []domain.FarmerInput) ([]domain.RecommendationResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no inputs", ErrInvalidInput)
	}
	if len(inputs) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d inputs, max %d", ErrBatchTooLarge, len(inputs), s.maxBatchSize)
	}
	for i, in := range inputs {
		if missing := in.Missing(); len(missing) > 0 {
			return nil, fmt.Errorf("%w: input %d: missing %s", ErrInvalidInput, i, strings.Join(missing, ", "))
		}
	}

	results := make([]domain.RecommendationResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := s.Recommend(gctx, in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Options returns the values a client form should offer
func (s *AdvisoryService) Options() domain.FormOptions {
	return domain.FormOptions{
		Regions:     s.catalog.Regions(),
		SoilTypes:   s.catalog.SoilTypes(),
		WaterLevels: append([]domain.Option(nil), domain.WaterLevels...),
	}
}

// History returns recent queries, newest first. A non-positive limit selects
// the default page size.
func (s *AdvisoryService) History(ctx context.Context, limit int) ([]domain.QueryRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = utils.ClampInt(limit, 1, s.historyMaxLimit)

	records, err := s.repo.RecentQueries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("advisory: history: %w", err)
	}
	return records, nil
}

// Health checks the history store
func (s *AdvisoryService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}

// saveHistory persists a query summary asynchronously (tracked for graceful shutdown).
// Input strings are cloned because callers such as Fiber handlers hand over
// strings backed by buffers that are reused once the request returns.
func (s *AdvisoryService) saveHistory(in domain.FarmerInput, res domain.RecommendationResult, diag Diagnostics) {
	rec := domain.QueryRecord{
		ID:                uuid.NewString(),
		Location:          strings.Clone(in.Location),
		SoilType:          strings.Clone(in.SoilType),
		WaterAvailability: strings.Clone(in.WaterAvailability),
		TopCrop:           res.Crops[0].Name,
		TopProfit:         res.Crops[0].ProfitPerAcre,
		CropCount:         len(res.Crops),
		SoilFallback:      diag.SoilFallback,
		LocationFallback:  diag.LocationFallback,
		CreatedAt:         s.now().UTC(),
	}

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
		defer cancel()
		if err := s.repo.SaveQuery(bgCtx, rec); err != nil {
			s.metrics.RecordHistorySaveError()
			s.log.Warn("failed to save query history", zap.String("id", rec.ID), zap.Error(err))
		}
	}()
}
