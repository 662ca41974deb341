package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/courtside/booking-engine/internal/core/domain"
)

const facilityCacheTTL = 5 * time.Minute

// FacilityRepository reads the externally-owned facility records, with
// a redis read-through cache in front of postgres. Facilities are
// read-only to the engine, so a short TTL is the only invalidation.
type FacilityRepository struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewFacilityRepository(db *sql.DB, rdb *redis.Client) *FacilityRepository {
	return &FacilityRepository{db: db, rdb: rdb}
}

func facilityCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("facility:%s", id)
}

func (r *FacilityRepository) GetBookable(ctx context.Context, id uuid.UUID) (*domain.Facility, error) {
	if r.rdb != nil {
		if raw, err := r.rdb.Get(ctx, facilityCacheKey(id)).Result(); err == nil {
			var f domain.Facility
			if err := json.Unmarshal([]byte(raw), &f); err == nil {
				if !f.IsBookable {
					return nil, domain.ErrFacilityNotBookable
				}
				return &f, nil
			}
		}
	}

	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, price_per_hour, commission_rate, operating_hours,
	       (is_active AND is_verified) AS is_bookable
	FROM facilities
	WHERE id = $1
	`, id)

	var f domain.Facility
	var hoursRaw []byte
	err := row.Scan(&f.ID, &f.Name, &f.PricePerHour, &f.CommissionRate, &hoursRaw, &f.IsBookable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFacilityNotBookable
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(hoursRaw, &f.OperatingHours); err != nil {
		return nil, fmt.Errorf("decode operating hours for facility %s: %w", id, err)
	}

	if r.rdb != nil {
		if raw, err := json.Marshal(&f); err == nil {
			if err := r.rdb.Set(ctx, facilityCacheKey(id), raw, facilityCacheTTL).Err(); err != nil {
				log.Printf("cache facility %s: %v", id, err)
			}
		}
	}

	if !f.IsBookable {
		return nil, domain.ErrFacilityNotBookable
	}
	return &f, nil
}
