package repositories

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"lazytravel/internal/models/db_models"
)

type IStopEmbeddingRepository interface {
	UpsertStopEmbedding(embedding db_models.StopEmbedding) error
	GetSimilarStopsByVector(vector pgvector.Vector, limit int) ([]ScoredStopEmbedding, error)
	DeleteStopEmbedding(stopID string) error
}

// ScoredStopEmbedding carries the cosine similarity computed by the database
// alongside the stored row.
type ScoredStopEmbedding struct {
	db_models.StopEmbedding
	Similarity float64 `gorm:"column:similarity"`
}

type stopEmbeddingRepository struct {
	db *gorm.DB
}

func NewStopEmbeddingRepository(db *gorm.DB) IStopEmbeddingRepository {
	return &stopEmbeddingRepository{db: db}
}

func (r *stopEmbeddingRepository) UpsertStopEmbedding(embedding db_models.StopEmbedding) error {
	return r.db.Save(&embedding).Error
}

func (r *stopEmbeddingRepository) GetSimilarStopsByVector(vector pgvector.Vector, limit int) ([]ScoredStopEmbedding, error) {
	if limit <= 0 {
		limit = 15
	}

	vecStr := vector.String()

	query := `
        SELECT *, (1 - (embedding <=> $1)) as similarity
        FROM stop_embeddings
        WHERE (1 - (embedding <=> $1)) > 0.7  -- Only return results with >70% similarity
        ORDER BY embedding <=> $1  -- Cosine distance (closer to 0 is better)
        LIMIT $2
    `

	var results []ScoredStopEmbedding
	if err := r.db.Raw(query, vecStr, limit).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stopEmbeddingRepository) DeleteStopEmbedding(stopID string) error {
	return r.db.Where("stop_id = ?", stopID).Delete(&db_models.StopEmbedding{}).Error
}
