package repositories

import (
	"context"

	"elvalg/internal/database"
	"elvalg/internal/logger"
	. "elvalg/internal/models"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, limit, offset int) ([]*Lead, error)
	CountByZone(ctx context.Context) ([]ZoneCount, error)
}

type leadRepository struct {
	db  database.DB
	log logger.Logger
}

func NewLead(db database.DB) LeadRepository {
	return &leadRepository{
		db:  db,
		log: logger.New("leadRepository"),
	}
}

func (r *leadRepository) Create(ctx context.Context, lead *Lead) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(lead).Error; err != nil {
		return log.Err("failed to create lead", err, "postalCode", lead.PostalCode)
	}

	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	log := r.log.Function("GetByID")

	var lead Lead
	if err := getDB(ctx, r.db).First(&lead, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get lead by id", notFound(err), "id", id)
	}

	return &lead, nil
}

// List returns the newest leads first. A non-positive limit returns all rows.
func (r *leadRepository) List(ctx context.Context, limit, offset int) ([]*Lead, error) {
	log := r.log.Function("List")

	query := getDB(ctx, r.db).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var leads []*Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, log.Err("failed to list leads", err, "limit", limit, "offset", offset)
	}

	return leads, nil
}

func (r *leadRepository) CountByZone(ctx context.Context) ([]ZoneCount, error) {
	log := r.log.Function("CountByZone")

	var counts []ZoneCount
	if err := getDB(ctx, r.db).
		Model(&Lead{}).
		Select("price_zone, COUNT(*) AS count").
		Group("price_zone").
		Order("price_zone").
		Scan(&counts).Error; err != nil {
		return nil, log.Err("failed to count leads by zone", err)
	}

	return counts, nil
}
