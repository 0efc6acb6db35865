package core

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/powertoolstore/forge/internal/csv"
)

// BulkIngest parses CSV text and prepends the resulting records, as one
// block, ahead of the existing queue. A first row whose first cell contains
// "sku" (case-insensitive) is treated as a header and dropped. Rows with an
// empty first cell are skipped. Returns the number of records added.
func (s *Service) BulkIngest(text string) int {
	rows := csv.Parse(text)
	if len(rows) > 0 && strings.Contains(strings.ToLower(rows[0][0]), "sku") {
		rows = rows[1:]
	}

	var batch []ProductRecord
	for _, row := range rows {
		sku := strings.TrimSpace(row[0])
		if sku == "" {
			continue
		}
		desc := ""
		if len(row) > 1 {
			desc = row[1]
		}
		batch = append(batch, ProductRecord{
			ID:                  uuid.NewString(),
			SKU:                 sku,
			OriginalDescription: desc,
			Status:              StatusPending,
		})
	}

	if len(batch) == 0 {
		return 0
	}

	s.queue.PrependBatch(batch)
	s.emit(EventQueueChanged, nil)
	s.log.Info("bulk ingest", "records", len(batch))
	return len(batch)
}

// ManualSubmit adds a single product at the head of the queue and generates
// its listing immediately, independent of any batch run. The record is
// returned in its initial processing state; the result arrives via events.
func (s *Service) ManualSubmit(ctx context.Context, sku, description string) (ProductRecord, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return ProductRecord{}, ErrEmptySKU
	}

	rec := ProductRecord{
		ID:                  uuid.NewString(),
		SKU:                 sku,
		OriginalDescription: strings.TrimSpace(description),
		Status:              StatusProcessing,
	}
	s.queue.PrependBatch([]ProductRecord{rec})
	s.emit(EventQueueChanged, nil)

	go func() {
		content, err := s.gen.Generate(context.WithoutCancel(ctx), rec.SKU, rec.OriginalDescription)
		if err != nil {
			s.log.Warn("manual generation failed", "sku", rec.SKU, "error", err)
			s.queue.Update(rec.ID, func(r *ProductRecord) {
				r.Status = StatusError
				r.Error = err.Error()
			})
		} else {
			s.queue.Update(rec.ID, func(r *ProductRecord) {
				r.Status = StatusCompleted
				r.GeneratedTitle = content.Title
				r.GeneratedCopy = content.HTML
				r.GeneratedTags = content.Tags
				r.PersonaUsed = content.Persona
				r.Error = ""
			})
		}
		if updated, ok := s.queue.Get(rec.ID); ok {
			s.emit(EventRecordUpdated, &updated)
		}
	}()

	return rec, nil
}
