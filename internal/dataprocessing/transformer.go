package dataprocessing

import (
	"context"
	"log/slog"

	"leadexporter/internal/config"
	apperrors "leadexporter/internal/errors"
	"leadexporter/internal/infrastructure"
	"leadexporter/pkg/contracts/domain"
)

// Transformer narrows lead tables to the required columns and splits them
// by sponsor. It holds no state between calls.
type Transformer struct {
	required []string
	category string
	logger   *slog.Logger
}

// NewTransformer creates a transformer over config.RequiredColumns keyed
// by config.CategoryColumn
func NewTransformer(logger *slog.Logger) *Transformer {
	return &Transformer{
		required: config.RequiredColumnSet(),
		category: config.CategoryColumn,
		logger:   infrastructure.WithComponent(logger, "transformer"),
	}
}

// Extract returns exactly the required columns of table, in their fixed
// order, with rows unchanged. Absent columns are reported together in a
// *errors.MissingColumnError.
func (t *Transformer) Extract(ctx context.Context, table *domain.Table) (*domain.Table, error) {
	extracted, missing := table.Select(t.required...)
	if len(missing) > 0 {
		t.logger.WarnContext(ctx, "Lead sheet is missing required columns",
			slog.Any("missing", missing))
		return nil, apperrors.NewMissingColumnError(missing...)
	}

	t.logger.DebugContext(ctx, "Required columns extracted",
		slog.Int("rows", extracted.Len()),
		slog.Int("dropped_columns", len(table.Columns())-len(t.required)))
	return extracted, nil
}

// Group splits table by the category column. Each partition holds the
// matching rows in input order without the category column. Rows with no
// category land in the unspecified partition.
func (t *Transformer) Group(ctx context.Context, table *domain.Table) (*domain.Partition, error) {
	if !table.HasColumn(t.category) {
		return nil, apperrors.NewMissingColumnError(t.category)
	}

	var order []domain.GroupKey
	seen := make(map[domain.GroupKey]bool)
	for i := 0; i < table.Len(); i++ {
		key := domain.KeyOf(table.Value(i, t.category))
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}

	partition := domain.NewPartition()
	for _, key := range order {
		sub := table.Filter(func(row domain.Row) bool {
			return domain.KeyOf(row.Get(t.category)) == key
		}).Drop(t.category)
		partition.Set(key, sub)

		t.logger.DebugContext(ctx, "Partition built",
			slog.String("sponsor", key.Label()),
			slog.Int("rows", sub.Len()))
	}

	t.logger.InfoContext(ctx, "Leads grouped by sponsor",
		slog.Int("rows", table.Len()),
		slog.Int("partitions", partition.Len()))
	return partition, nil
}
