package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"priceintel/internal/models"
)

// RecordKeywordUsage upserts a word into the lexicon: new words start at
// weight 1.0 with one occurrence, known words get their occurrence count
// bumped. Last-write-wins; concurrent callers may lose an increment.
func (d *DB) RecordKeywordUsage(ctx context.Context, word string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO keyword_weights (word, weight, occurrences, last_updated)
		VALUES ($1, 1.0, 1, NOW())
		ON CONFLICT (word) DO UPDATE
		SET occurrences = keyword_weights.occurrences + 1, last_updated = NOW()
	`, word)
	if err != nil {
		return fmt.Errorf("failed to record keyword usage: %w", err)
	}
	return nil
}

// GetKeywordWeight returns the learned weight for a word, or
// ErrKeywordNotFound if the lexicon has never seen it.
func (d *DB) GetKeywordWeight(ctx context.Context, word string) (float64, error) {
	var weight float64
	err := d.Pool.QueryRow(ctx, `
		SELECT weight FROM keyword_weights WHERE word = $1
	`, word).Scan(&weight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrKeywordNotFound
		}
		return 0, fmt.Errorf("failed to get keyword weight: %w", err)
	}
	return weight, nil
}

// AdjustKeywordWeight moves a word's weight by delta, clamped to the
// [MinKeywordWeight, MaxKeywordWeight] range. Clamping happens in SQL so
// concurrent adjustments cannot escape the bounds.
func (d *DB) AdjustKeywordWeight(ctx context.Context, word string, delta float64) error {
	tag, err := d.Pool.Exec(ctx, `
		UPDATE keyword_weights
		SET weight = LEAST($2::numeric, GREATEST($3::numeric, weight + $4::numeric)),
		    last_updated = NOW()
		WHERE word = $1
	`, word, models.MaxKeywordWeight, models.MinKeywordWeight, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust keyword weight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrKeywordNotFound
	}
	return nil
}

// ListKeywordWeights returns the lexicon ordered by weight then occurrences,
// for the learning report. A limit of 0 returns every row.
func (d *DB) ListKeywordWeights(ctx context.Context, limit int) ([]models.KeywordWeight, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT word, weight, occurrences, last_updated
		FROM keyword_weights
		ORDER BY weight DESC, occurrences DESC
		LIMIT NULLIF($1, 0)
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyword weights: %w", err)
	}
	defer rows.Close()

	var weights []models.KeywordWeight
	for rows.Next() {
		var w models.KeywordWeight
		if err := rows.Scan(&w.Word, &w.Weight, &w.Occurrences, &w.LastUpdated); err != nil {
			return nil, err
		}
		weights = append(weights, w)
	}
	return weights, rows.Err()
}
