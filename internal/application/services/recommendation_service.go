package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloomwell/maternity-ai/backend/internal/domain/entities"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/providers"
	"github.com/bloomwell/maternity-ai/backend/internal/domain/repositories"
	"github.com/bloomwell/maternity-ai/backend/internal/infrastructure/observability"
	apperrors "github.com/bloomwell/maternity-ai/backend/pkg/errors"
)

// searchPassageLimit is how many passages are requested per query; the prompt
// builder narrows this to its own context bound.
const searchPassageLimit = 12

// RecommendationService runs the pipeline: analyze profile, build query,
// retrieve passages, generate, normalize. Every stage failure degrades to the
// fallback result; nothing downstream of validation surfaces as an error.
type RecommendationService struct {
	analyzer   *ProfileAnalyzer
	queries    *QueryBuilder
	normalizer *ResponseNormalizer
	searcher   providers.PassageSearcher
	generator  providers.TextGenerator
	cache      providers.CacheProvider
	eventBus   providers.EventBus
	auditLog   repositories.RecommendationLogRepository
	forwarder  providers.ResultForwarder
	metrics    *observability.Metrics
}

// NewRecommendationService creates the pipeline service. Searcher and
// generator are required for non-fallback results; the remaining
// collaborators are optional side paths.
func NewRecommendationService(
	analyzer *ProfileAnalyzer,
	queries *QueryBuilder,
	normalizer *ResponseNormalizer,
	searcher providers.PassageSearcher,
	generator providers.TextGenerator,
) *RecommendationService {
	return &RecommendationService{
		analyzer:   analyzer,
		queries:    queries,
		normalizer: normalizer,
		searcher:   searcher,
		generator:  generator,
	}
}

// SetCache enables result caching for the expiry window.
func (s *RecommendationService) SetCache(cache providers.CacheProvider) {
	s.cache = cache
}

// SetEventBus enables outcome event publishing.
func (s *RecommendationService) SetEventBus(bus providers.EventBus) {
	s.eventBus = bus
}

// SetAuditLog enables the pipeline audit log.
func (s *RecommendationService) SetAuditLog(repo repositories.RecommendationLogRepository) {
	s.auditLog = repo
}

// SetForwarder enables posting results to the upstream callback.
func (s *RecommendationService) SetForwarder(forwarder providers.ResultForwarder) {
	s.forwarder = forwarder
}

// SetMetrics enables pipeline and cache instrumentation.
func (s *RecommendationService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Recommend runs the full pipeline for one profile. It always returns a
// well-formed result; degraded paths return the fallback result.
func (s *RecommendationService) Recommend(ctx context.Context, profile, healthStatus map[string]any) *entities.RecommendationResult {
	start := time.Now()

	record := s.analyzer.Analyze(profile, healthStatus)

	cacheKey := recommendationCacheKey(record)
	if cached := s.cachedResult(ctx, cacheKey); cached != nil {
		if s.metrics != nil {
			observability.RecordCacheHit(ctx, s.metrics, cacheKey)
		}
		log.Debug().Str("result_id", cached.ResultID).Msg("recommendation served from cache")
		return cached
	}
	if s.metrics != nil && s.cache != nil {
		observability.RecordCacheMiss(ctx, s.metrics, cacheKey)
	}

	result := s.runPipeline(ctx, record)

	if s.metrics != nil {
		observability.RecordPipelineMetric(ctx, s.metrics, result.Metadata.Fallback, time.Since(start))
	}

	s.storeResult(ctx, cacheKey, result)
	s.publishOutcome(ctx, record, result)
	s.logRun(ctx, record, result, time.Since(start))
	s.forwardResult(ctx, result)

	return result
}

func (s *RecommendationService) runPipeline(ctx context.Context, record entities.AnalysisRecord) *entities.RecommendationResult {
	ctx, span := observability.StartSpan(ctx, "recommendation.pipeline")
	defer span.End()

	if s.searcher == nil || s.generator == nil {
		err := apperrors.NewPipelineError("search and generation collaborators not configured", nil)
		observability.RecordError(span, err)
		log.Warn().Err(err).Msg("serving fallback")
		return s.Fallback(record)
	}

	query := s.queries.BuildSearchQuery(record)
	passages, err := s.searcher.Search(ctx, query, searchPassageLimit)
	if err != nil {
		wrapped := apperrors.NewExternalError("passage search failed", err)
		observability.RecordError(span, wrapped)
		log.Warn().Err(wrapped).Str("query", query).Msg("serving fallback")
		return s.Fallback(record)
	}
	if len(passages) == 0 {
		err := apperrors.NewRetrievalEmptyError("passage search returned nothing")
		observability.RecordError(span, err)
		log.Info().Err(err).Str("query", query).Msg("serving fallback")
		return s.Fallback(record)
	}

	prompt := s.queries.BuildPrompt(record, passages)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		wrapped := apperrors.NewExternalError("generation failed", err)
		observability.RecordError(span, wrapped)
		log.Warn().Err(wrapped).Msg("serving fallback")
		return s.Fallback(record)
	}
	if answer == "" {
		err := apperrors.NewGenerationEmptyError("generation returned no usable reply")
		observability.RecordError(span, err)
		log.Info().Err(err).Msg("serving fallback")
		return s.Fallback(record)
	}

	result := s.normalizer.Normalize(answer, record, passages)
	if len(result.Items) == 0 {
		log.Info().Msg("normalization yielded no items, serving fallback")
		return s.Fallback(record)
	}

	return &result
}

// Fallback returns the designated empty result: fixed identifier, zero items,
// fallback-flagged metadata.
func (s *RecommendationService) Fallback(record entities.AnalysisRecord) *entities.RecommendationResult {
	return &entities.RecommendationResult{
		ResultID:     entities.FallbackResultID,
		ExpiresInSec: entities.ResultExpirySeconds,
		Items:        []entities.RecommendationItem{},
		Metadata: entities.ResultMetadata{
			GestationalWeek: record.GestationalWeek,
			Fallback:        true,
		},
	}
}

func (s *RecommendationService) cachedResult(ctx context.Context, key string) *entities.RecommendationResult {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var result entities.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

func (s *RecommendationService) storeResult(ctx context.Context, key string, result *entities.RecommendationResult) {
	if s.cache == nil || result.Metadata.Fallback {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, entities.ResultExpirySeconds); err != nil {
		log.Warn().Err(err).Msg("failed to cache recommendation result")
	}
}

func (s *RecommendationService) publishOutcome(ctx context.Context, record entities.AnalysisRecord, result *entities.RecommendationResult) {
	if s.eventBus == nil {
		return
	}

	eventType := entities.EventRecommendationCreated
	if result.Metadata.Fallback {
		eventType = entities.EventRecommendationFallback
	}

	event := &entities.RecommendationEvent{
		ID:              uuid.New().String(),
		Type:            eventType,
		ResultID:        result.ResultID,
		GestationalWeek: record.GestationalWeek,
		ItemCount:       len(result.Items),
		CreatedAt:       time.Now(),
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelRecommendations, event); err != nil {
		log.Warn().Err(err).Msg("failed to publish recommendation event")
	}
}

func (s *RecommendationService) logRun(ctx context.Context, record entities.AnalysisRecord, result *entities.RecommendationResult, latency time.Duration) {
	if s.auditLog == nil {
		return
	}

	run := &entities.RecommendationRun{
		ResultID:        result.ResultID,
		GestationalWeek: record.GestationalWeek,
		DocumentsUsed:   result.Metadata.DocumentsUsed,
		ItemCount:       len(result.Items),
		Fallback:        result.Metadata.Fallback,
		LatencyMs:       latency.Milliseconds(),
	}
	if err := s.auditLog.LogRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("failed to write recommendation audit log")
	}
}

func (s *RecommendationService) forwardResult(ctx context.Context, result *entities.RecommendationResult) {
	if s.forwarder == nil || result.Metadata.Fallback {
		return
	}
	if err := s.forwarder.Forward(ctx, result); err != nil {
		log.Warn().Err(err).Str("result_id", result.ResultID).Msg("failed to forward result to backend")
	}
}

// recommendationCacheKey fingerprints the analysis record; identical profiles
// share a cached result within the expiry window.
func recommendationCacheKey(record entities.AnalysisRecord) string {
	data, _ := json.Marshal(record)
	sum := sha256.Sum256(data)
	return "recommendation:" + hex.EncodeToString(sum[:])
}
