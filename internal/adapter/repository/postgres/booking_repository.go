package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/courtside/booking-engine/internal/core/domain"
)

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
	pqSerializationFail  = "40001"
	pqDeadlockDetected   = "40P01"

	serializationRetries = 3
)

const bookingColumns = `id, code, facility_id, user_id, date, start_minute, end_minute,
	duration_minutes, total_amount, commission_amount, status,
	special_request, cancellation_reason, payment_ref,
	created_at, confirmed_at, cancelled_at`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking in one serializable transaction: the slot
// conflict and the user quota are re-checked against committed state,
// the code retry loop runs under a savepoint, and the persisted row
// itself is returned via INSERT ... RETURNING. A second query to
// re-read "the latest booking" is exactly the race this avoids. The
// exclusion constraint on the interval range backstops the overlap
// check under concurrent commits.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking, quota domain.UserQuota, nextCode func() string, maxCodeAttempts int) (*domain.Booking, error) {
	var out *domain.Booking

	err := r.withSerializableRetry(ctx, func(tx *sql.Tx) error {
		var conflict bool
		err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE facility_id = $1 AND date = $2
			  AND status IN ('pending', 'confirmed')
			  AND start_minute < $3 AND end_minute > $4
		)
		`, b.FacilityID, dateArg(b.Date), b.EndMinute, b.StartMinute).Scan(&conflict)
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrSlotConflict
		}

		if quota.MaxActive > 0 {
			var active int64
			err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM bookings
			WHERE user_id = $1 AND status IN ('pending', 'confirmed') AND date >= $2
			`, b.UserID, dateArg(quota.From)).Scan(&active)
			if err != nil {
				return err
			}
			if active >= int64(quota.MaxActive) {
				return domain.ErrUserBookingLimit
			}
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			if _, err := tx.ExecContext(ctx, "SAVEPOINT create_booking"); err != nil {
				return err
			}

			code := nextCode()
			row := tx.QueryRowContext(ctx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULL, NULL, $13, NULL, NULL)
			RETURNING `+bookingColumns,
				b.ID, code, b.FacilityID, b.UserID, dateArg(b.Date), b.StartMinute, b.EndMinute,
				b.DurationMinutes, b.TotalAmount, b.CommissionAmount, b.Status,
				b.SpecialRequest, b.CreatedAt,
			)

			created, err := scanBooking(row)
			if err == nil {
				out = created
				return nil
			}

			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				switch {
				case pqErr.Code == pqUniqueViolation && pqErr.Constraint == "bookings_code_key":
					// Code collision: roll back to the savepoint and
					// re-roll inside the same transaction.
					if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT create_booking"); rbErr != nil {
						return rbErr
					}
					continue
				case pqErr.Code == pqExclusionViolation:
					return domain.ErrSlotConflict
				}
			}
			return err
		}

		return domain.ErrCodeGenerationFailed
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// List applies the typed filter with positional parameters only; no
// query text is assembled from caller input.
func (r *BookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int64, error) {
	where := "TRUE"
	args := []any{}

	appendCond := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND %s $%d", cond, len(args))
	}

	if f.UserID != nil {
		appendCond("user_id =", *f.UserID)
	}
	if f.FacilityID != nil {
		appendCond("facility_id =", *f.FacilityID)
	}
	if f.Status != nil {
		appendCond("status =", *f.Status)
	}
	if f.Date != nil {
		appendCond("date =", dateArg(*f.Date))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	offsetPos := len(args) + 2
	args = append(args, f.PageSize, f.Page*f.PageSize)

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT `+bookingColumns+` FROM bookings WHERE `+where+`
		ORDER BY date ASC, start_minute ASC
		LIMIT $%d OFFSET $%d`, limitPos, offsetPos), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, rows.Err()
}

func (r *BookingRepository) ActiveByFacilityDate(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT `+bookingColumns+` FROM bookings
	WHERE facility_id = $1 AND date = $2 AND status IN ('pending', 'confirmed')
	ORDER BY start_minute ASC
	`, facilityID, dateArg(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *BookingRepository) CountActiveForUser(ctx context.Context, userID uuid.UUID, from time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM bookings
	WHERE user_id = $1 AND status IN ('pending', 'confirmed') AND date >= $2
	`, userID, dateArg(from)).Scan(&n)
	return n, err
}

// Confirm applies pending -> confirmed and records the verified payment
// in the same transaction. A previously processed eventID returns the
// current row unchanged, so redelivered payment events are harmless.
func (r *BookingRepository) Confirm(ctx context.Context, id uuid.UUID, paymentRef string, amount float64, eventID string, now time.Time) (*domain.Booking, error) {
	var out *domain.Booking

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}

		// Checked under the row lock: a concurrent delivery of the same
		// event blocks on lockBooking and then sees the marker here.
		var seen bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM processed_events WHERE id = $1)`, eventID).Scan(&seen); err != nil {
			return err
		}
		if seen {
			out = b
			return nil
		}

		if err := b.MarkConfirmed(now); err != nil {
			return err
		}
		b.PaymentRef = &paymentRef

		if _, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, confirmed_at = $2, payment_ref = $3 WHERE id = $4
		`, b.Status, b.ConfirmedAt, b.PaymentRef, b.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO payments (ref, booking_id, amount, status, created_at)
		VALUES ($1, $2, $3, 'completed', $4)
		ON CONFLICT (ref) DO NOTHING
		`, paymentRef, b.ID, amount, now); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO processed_events (id, event_key, processed_at) VALUES ($1, 'payment.verified', $2)
		`, eventID, now); err != nil {
			return err
		}

		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel locks the row, lets check veto against current state, then
// applies the cancellation and flips any completed payment to refunded
// with a full refund, all in one transaction: both happen or neither.
func (r *BookingRepository) Cancel(ctx context.Context, id uuid.UUID, reason string, now time.Time, check domain.TransitionCheck) (*domain.Booking, error) {
	var out *domain.Booking

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(b); err != nil {
				return err
			}
		}
		if err := b.MarkCancelled(reason, now); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, cancellation_reason = $2, cancelled_at = $3 WHERE id = $4
		`, b.Status, b.CancelReason, b.CancelledAt, b.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
		UPDATE payments SET status = 'refunded', refund_amount = amount
		WHERE booking_id = $1 AND status = 'completed'
		`, b.ID); err != nil {
			return err
		}

		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) Complete(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var out *domain.Booking

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		b, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := b.MarkCompleted(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, b.Status, b.ID); err != nil {
			return err
		}

		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) StalePending(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id FROM bookings
	WHERE status = 'pending' AND created_at < $1
	ORDER BY created_at ASC
	LIMIT $2
	`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func lockBooking(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Booking, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// withTx runs fn in a read-committed transaction. The deferred
// rollback also cleans up if fn panics; it is a no-op after commit.
func (r *BookingRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// withSerializableRetry runs fn at SERIALIZABLE isolation and retries
// serialization failures a bounded number of times with backoff. Any
// other error is surfaced immediately.
func (r *BookingRepository) withSerializableRetry(ctx context.Context, fn func(*sql.Tx) error) error {
	var lastErr error

	for attempt := 0; attempt <= serializationRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
			}
		}

		err := r.runSerializable(ctx, fn)
		if err == nil {
			return nil
		}
		if isSerializationFailure(err) {
			lastErr = err
			continue
		}
		return err
	}

	return domain.Internal("transaction retries exhausted", lastErr)
}

func (r *BookingRepository) runSerializable(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqSerializationFail || pqErr.Code == pqDeadlockDetected
}

// dateArg renders a calendar date for a DATE parameter, sidestepping
// timezone-sensitive timestamptz casts.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var specialRequest, cancelReason, paymentRef sql.NullString
	var confirmedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.Code, &b.FacilityID, &b.UserID, &b.Date, &b.StartMinute, &b.EndMinute,
		&b.DurationMinutes, &b.TotalAmount, &b.CommissionAmount, &b.Status,
		&specialRequest, &cancelReason, &paymentRef,
		&b.CreatedAt, &confirmedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	if specialRequest.Valid {
		b.SpecialRequest = &specialRequest.String
	}
	if cancelReason.Valid {
		b.CancelReason = &cancelReason.String
	}
	if paymentRef.Valid {
		b.PaymentRef = &paymentRef.String
	}
	if confirmedAt.Valid {
		b.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}

	return &b, nil
}
