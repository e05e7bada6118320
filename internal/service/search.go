package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wareongo/internal/agent"
	"wareongo/internal/model"
)

// WarehouseStore is the persistence the search service needs
type WarehouseStore interface {
	SearchWarehouses(ctx context.Context, filters *model.WarehouseFilters, limit, offset int) ([]model.Warehouse, error)
	LogSearch(ctx context.Context, entry *model.SearchLogEntry) error
}

// SearchService handles search business logic
type SearchService struct {
	repo      WarehouseStore
	annotator Annotator
	pageSize  int
	logSearch bool
	logger    *slog.Logger
}

// NewSearchService creates a new search service. pageSize values below one
// fall back to 5.
func NewSearchService(repo WarehouseStore, pageSize int, logSearch bool, logger *slog.Logger) *SearchService {
	if pageSize < 1 {
		pageSize = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		repo:      repo,
		pageSize:  pageSize,
		logSearch: logSearch,
		logger:    logger,
	}
}

// Search implements agent.Searcher. Page numbers start at 1.
func (s *SearchService) Search(ctx context.Context, filters model.WarehouseFilters, page int) ([]model.Warehouse, error) {
	if page < 1 {
		page = 1
	}
	startTime := time.Now()

	warehouses, err := s.repo.SearchWarehouses(ctx, &filters, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agent.ErrSearch, err)
	}
	s.annotator.Annotate(warehouses, &filters)

	took := time.Since(startTime).Milliseconds()
	s.logger.Info("Warehouse search",
		"page", page,
		"results", len(warehouses),
		"took_ms", took)

	if s.logSearch {
		ids := make([]int64, len(warehouses))
		for i, w := range warehouses {
			ids[i] = w.ID
		}
		entry := &model.SearchLogEntry{
			Filters:        &filters,
			Page:           page,
			ResultCount:    len(warehouses),
			WarehouseIDs:   ids,
			ResponseTimeMs: int(took),
		}
		// a lost log row must not fail the search
		if err := s.repo.LogSearch(ctx, entry); err != nil {
			s.logger.Warn("Failed to log search", "error", err)
		}
	}

	return warehouses, nil
}

var _ agent.Searcher = (*SearchService)(nil)
