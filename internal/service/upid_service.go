package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Siddarth2230/upid/internal/models"
	"github.com/Siddarth2230/upid/internal/repository"
	"github.com/Siddarth2230/upid/pkg/cache"
	"github.com/Siddarth2230/upid/pkg/idgen"
	"github.com/Siddarth2230/upid/pkg/log"
	"github.com/Siddarth2230/upid/pkg/metrics"
	"github.com/Siddarth2230/upid/pkg/upid"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("upid not found")
	ErrGenExhausted   = errors.New("failed to generate unique upid after retries")
)

const (
	// maxAttempts bounds regeneration after a unique-index conflict.
	maxAttempts = 6

	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// Repository persists issued records.
type Repository interface {
	SaveBatch(ctx context.Context, recs []*models.Record) error
	FindByID(ctx context.Context, id upid.UPID) (*models.Record, error)
	ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.Record, error)
	DeleteByID(ctx context.Context, id upid.UPID) error
}

// RemoteCache is the shared (L2) record cache.
type RemoteCache interface {
	Get(ctx context.Context, key string, v any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// UPIDService issues identifiers and answers lookups through an in-process
// LRU (L1), an optional shared cache (L2) and the repository.
type UPIDService struct {
	repo      Repository
	generator idgen.Generator
	l1        *cache.LRU[upid.UPID, models.Record]
	l2        RemoteCache
	now       func() time.Time
}

// NewUPIDService constructor. l2 may be nil.
func NewUPIDService(repo Repository, gen idgen.Generator, l2 RemoteCache, cacheSize int) *UPIDService {
	return &UPIDService{
		repo:      repo,
		generator: gen,
		l1:        cache.NewLRU[upid.UPID, models.Record](cacheSize),
		l2:        l2,
		now:       time.Now,
	}
}

// Parse decodes text and counts malformed input by error kind.
func (s *UPIDService) Parse(text string) (upid.UPID, error) {
	id, err := upid.Parse(text)
	if err != nil {
		metrics.DecodeErrors.WithLabelValues(upid.Kind(err)).Inc()
		return upid.Nil, err
	}
	return id, nil
}

// Inspect decodes text without touching storage.
func (s *UPIDService) Inspect(text string) (models.Decoded, error) {
	id, err := s.Parse(text)
	if err != nil {
		return models.Decoded{}, err
	}
	return models.NewDecoded(id), nil
}

// Issue generates and persists req.Count identifiers (default 1). The batch
// is stored atomically. If any generated id collides with a stored one the
// whole batch is regenerated.
func (s *UPIDService) Issue(ctx context.Context, req models.IssueRequest) ([]models.Record, error) {
	count := req.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > models.MaxBatch {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, models.MaxBatch)
	}
	if err := upid.ValidatePrefix(req.Prefix); err != nil {
		return nil, err
	}
	var at *time.Time
	if req.TimestampMs != nil {
		t := time.UnixMilli(*req.TimestampMs)
		at = &t
	}

	for i := 0; i < maxAttempts; i++ {
		ids, err := idgen.GenerateN(ctx, s.generator, req.Prefix, at, count)
		if err != nil {
			// generator failure is fatal
			return nil, err
		}

		now := s.now().UTC()
		batch := make([]*models.Record, len(ids))
		for j, id := range ids {
			batch[j] = &models.Record{
				ID:        id,
				Prefix:    id.PaddedPrefix(),
				Label:     req.Label,
				IssuedAt:  id.Time(),
				CreatedAt: now,
			}
		}

		if err := s.repo.SaveBatch(ctx, batch); err != nil {
			if repository.IsUniqueViolation(err) {
				metrics.Collisions.Inc()
				l := log.Ctx(ctx)
				l.Warn().
					Str(log.FieldPrefix, req.Prefix).
					Int(log.FieldCount, count).
					Msgf("upid collision, retrying batch (attempt %d/%d)", i+1, maxAttempts)
				continue
			}
			return nil, err
		}

		recs := make([]models.Record, len(batch))
		for j, rec := range batch {
			recs[j] = *rec
			s.cachePut(rec.ID, *rec)
		}
		metrics.IssuedTotal.Add(float64(len(recs)))

		l := log.Ctx(ctx)
		l.Info().
			Str(log.FieldPrefix, req.Prefix).
			Int(log.FieldCount, len(recs)).
			Msg("issued upids")
		return recs, nil
	}
	return nil, ErrGenExhausted
}

// cachePut and cacheEvict keep the l1 size gauge in step with the LRU.
func (s *UPIDService) cachePut(id upid.UPID, rec models.Record) {
	s.l1.Put(id, rec)
	metrics.CacheSize.WithLabelValues("l1").Set(float64(s.l1.Len()))
}

func (s *UPIDService) cacheEvict(id upid.UPID) {
	s.l1.Delete(id)
	metrics.CacheSize.WithLabelValues("l1").Set(float64(s.l1.Len()))
}

// Lookup returns the stored record for id. It returns ErrNotFound if id
// was never issued or has been revoked.
func (s *UPIDService) Lookup(ctx context.Context, id upid.UPID) (*models.Record, error) {
	// ===== L1 =====
	if rec, ok := s.l1.Get(id); ok {
		metrics.CacheHits.WithLabelValues("l1").Inc()
		return &rec, nil
	}
	metrics.CacheMisses.WithLabelValues("l1").Inc()

	key := id.String()

	// ===== L2 =====
	if s.l2 != nil {
		var rec models.Record
		err := s.l2.Get(ctx, key, &rec)
		switch {
		case err == nil:
			metrics.CacheHits.WithLabelValues("l2").Inc()
			s.cachePut(id, rec)
			return &rec, nil
		case errors.Is(err, cache.ErrCacheMiss):
			metrics.CacheMisses.WithLabelValues("l2").Inc()
		default:
			// a cache outage degrades to the database
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldUPID, key).Msg("l2 cache get failed")
		}
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	if s.l2 != nil {
		if err := s.l2.Set(ctx, key, rec); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldUPID, key).Msg("l2 cache set failed")
		}
	}
	s.cachePut(id, *rec)
	return rec, nil
}

// List returns issued records in creation order, optionally restricted to
// one prefix. The prefix is compared in its padded form, so "ab" and "abz"
// select the same records. A zero limit means DefaultListLimit.
func (s *UPIDService) List(ctx context.Context, prefix string, limit int) ([]models.Record, error) {
	if prefix != "" {
		p, err := upid.PadPrefix(prefix)
		if err != nil {
			return nil, err
		}
		prefix = p
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidRequest, MaxListLimit)
	}
	return s.repo.ListByPrefix(ctx, prefix, limit)
}

// Revoke deletes the record for id and evicts it from both caches.
func (s *UPIDService) Revoke(ctx context.Context, id upid.UPID) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return ErrNotFound
		}
		return err
	}

	s.cacheEvict(id)
	if s.l2 != nil {
		if err := s.l2.Delete(ctx, id.String()); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldUPID, id.String()).Msg("l2 cache delete failed")
		}
	}
	return nil
}
