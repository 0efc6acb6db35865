package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skus(records []ProductRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SKU
	}
	return out
}

func TestBulkIngestHeaderDetection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "header row is dropped",
			input: "SKU,Description\nA,1\nB,2",
			want:  []string{"A", "B"},
		},
		{
			name:  "lowercase header is dropped",
			input: "sku,description\nA,1",
			want:  []string{"A"},
		},
		{
			name:  "header substring match",
			input: "Product SKU,Notes\nA,1",
			want:  []string{"A"},
		},
		{
			name:  "no header keeps first row",
			input: "2953-20,Impact Driver\nA,1",
			want:  []string{"2953-20", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(&fakeGenerator{})
			added := s.BulkIngest(tt.input)
			assert.Equal(t, len(tt.want), added)
			assert.Equal(t, tt.want, skus(s.Products()))
		})
	}
}

func TestBulkIngestSkipsRowsWithoutSKU(t *testing.T) {
	s := newTestService(&fakeGenerator{})
	added := s.BulkIngest("A,1\n,orphan description\nB,2")

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"A", "B"}, skus(s.Products()))
}

func TestBulkIngestPrependsAsBlock(t *testing.T) {
	s := newTestService(&fakeGenerator{})
	s.BulkIngest("A,1\nB,2")
	s.BulkIngest("C,3\nD,4")

	// The newer batch sits ahead of the older one, in its own order.
	assert.Equal(t, []string{"C", "D", "A", "B"}, skus(s.Products()))
}

func TestBulkIngestRecordDefaults(t *testing.T) {
	s := newTestService(&fakeGenerator{})
	s.BulkIngest("2953-20,M18 FUEL Impact Driver")

	records := s.Products()
	require.Len(t, records, 1)
	rec := records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "2953-20", rec.SKU)
	assert.Equal(t, "M18 FUEL Impact Driver", rec.OriginalDescription)
	assert.Equal(t, StatusPending, rec.Status)
}

func TestBulkIngestEmptyInput(t *testing.T) {
	s := newTestService(&fakeGenerator{})
	assert.Equal(t, 0, s.BulkIngest(""))
	assert.Equal(t, 0, s.BulkIngest("sku,description\n"))
	assert.Empty(t, s.Products())
}

func TestManualSubmitRejectsEmptySKU(t *testing.T) {
	s := newTestService(&fakeGenerator{})
	_, err := s.ManualSubmit(context.Background(), "   ", "desc")
	assert.ErrorIs(t, err, ErrEmptySKU)
	assert.Empty(t, s.Products())
}

func TestManualSubmitGeneratesImmediately(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestService(gen)
	s.BulkIngest("A,1")

	rec, err := s.ManualSubmit(context.Background(), " 2953-20 ", " desc ")
	require.NoError(t, err)
	assert.Equal(t, "2953-20", rec.SKU)
	assert.Equal(t, "desc", rec.OriginalDescription)
	assert.Equal(t, StatusProcessing, rec.Status)

	// Manual records land at the head of the queue.
	assert.Equal(t, []string{"2953-20", "A"}, skus(s.Products()))

	require.Eventually(t, func() bool {
		got, ok := s.queue.Get(rec.ID)
		return ok && got.Status == StatusCompleted
	}, time.Second, 5*time.Millisecond)

	got, _ := s.queue.Get(rec.ID)
	assert.Equal(t, "Milwaukee 2953-20", got.GeneratedTitle)
}

func TestManualSubmitFailureMarksError(t *testing.T) {
	gen := &fakeGenerator{fail: map[string]bool{"X": true}}
	s := newTestService(gen)

	rec, err := s.ManualSubmit(context.Background(), "X", "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := s.queue.Get(rec.ID)
		return ok && got.Status == StatusError
	}, time.Second, 5*time.Millisecond)

	got, _ := s.queue.Get(rec.ID)
	assert.Contains(t, got.Error, "service unavailable")
}
