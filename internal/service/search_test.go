package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareongo/internal/agent"
	"wareongo/internal/model"
)

type searchCall struct {
	filters       model.WarehouseFilters
	limit, offset int
}

type fakeStore struct {
	results   []model.Warehouse
	searchErr error
	logErr    error
	calls     []searchCall
	logged    []*model.SearchLogEntry
}

func (f *fakeStore) SearchWarehouses(_ context.Context, filters *model.WarehouseFilters, limit, offset int) ([]model.Warehouse, error) {
	f.calls = append(f.calls, searchCall{filters: *filters, limit: limit, offset: offset})
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeStore) LogSearch(_ context.Context, entry *model.SearchLogEntry) error {
	f.logged = append(f.logged, entry)
	return f.logErr
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func boolPtr(b bool) *bool    { return &b }

func TestSearchServicePaging(t *testing.T) {
	tests := []struct {
		page, pageSize        int
		wantLimit, wantOffset int
	}{
		{page: 1, pageSize: 5, wantLimit: 5, wantOffset: 0},
		{page: 3, pageSize: 5, wantLimit: 5, wantOffset: 10},
		{page: 0, pageSize: 5, wantLimit: 5, wantOffset: 0},
		{page: 2, pageSize: 0, wantLimit: 5, wantOffset: 5},
	}
	for _, tt := range tests {
		store := &fakeStore{}
		svc := NewSearchService(store, tt.pageSize, false, nil)

		_, err := svc.Search(context.Background(), model.WarehouseFilters{}, tt.page)
		require.NoError(t, err)
		require.Len(t, store.calls, 1)
		assert.Equal(t, tt.wantLimit, store.calls[0].limit)
		assert.Equal(t, tt.wantOffset, store.calls[0].offset)
		assert.Empty(t, store.logged)
	}
}

func TestSearchServiceLogsAndAnnotates(t *testing.T) {
	store := &fakeStore{results: []model.Warehouse{
		{ID: 9, City: strPtr("Bengaluru"), TotalSpaceSqft: []int64{45000}},
		{ID: 4, City: strPtr("Hosur")},
	}}
	svc := NewSearchService(store, 5, true, nil)
	filters := model.WarehouseFilters{Cities: []string{"Bengaluru", "Bangalore"}, SizeMin: intPtr(40000)}

	got, err := svc.Search(context.Background(), filters, 2)
	require.NoError(t, err)

	assert.Equal(t, []int64{9, 4}, []int64{got[0].ID, got[1].ID})
	assert.Equal(t, []string{ReasonLocationMatch, ReasonSizeFits}, got[0].MatchedReasons)
	assert.Equal(t, []string{ReasonGeneralMatch}, got[1].MatchedReasons)

	require.Len(t, store.logged, 1)
	entry := store.logged[0]
	assert.Equal(t, 2, entry.Page)
	assert.Equal(t, 2, entry.ResultCount)
	assert.Equal(t, []int64{9, 4}, entry.WarehouseIDs)
	assert.Equal(t, filters.Cities, entry.Filters.Cities)
}

func TestSearchServiceErrors(t *testing.T) {
	store := &fakeStore{searchErr: errors.New("connection refused")}
	_, err := NewSearchService(store, 5, true, nil).Search(context.Background(), model.WarehouseFilters{}, 1)
	assert.ErrorIs(t, err, agent.ErrSearch)
	assert.Empty(t, store.logged)

	store = &fakeStore{results: []model.Warehouse{{ID: 1}}, logErr: errors.New("table missing")}
	got, err := NewSearchService(store, 5, true, nil).Search(context.Background(), model.WarehouseFilters{}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
