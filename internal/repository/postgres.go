package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mergington/activities/internal/model"
)

// PostgresRepository is the pgx-backed ActivityRepository.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all activities with their rosters in a single join query.
func (r *PostgresRepository) List(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.name, a.description, a.schedule, a.max_participants, p.email
		 FROM activities a
		 LEFT JOIN participants p ON p.activity_id = a.id
		 ORDER BY a.created_at ASC, p.registered_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var (
		activities []model.Activity
		index      = map[string]int{}
	)
	for rows.Next() {
		var (
			a     model.Activity
			email *string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants, &email); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		i, ok := index[a.ID]
		if !ok {
			a.Participants = []model.Participant{}
			activities = append(activities, a)
			i = len(activities) - 1
			index[a.ID] = i
		}
		if email != nil {
			activities[i].Participants = append(activities[i].Participants, model.Participant{Email: *email})
		}
	}
	return activities, rows.Err()
}

// Get returns a single activity with its roster or ErrActivityNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*model.Activity, error) {
	var a model.Activity
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, schedule, max_participants
		 FROM activities WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT email FROM participants
		 WHERE activity_id = $1
		 ORDER BY registered_at ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	a.Participants = []model.Participant{}
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.Email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		a.Participants = append(a.Participants, p)
	}
	return &a, rows.Err()
}

// Create inserts a new activity with an empty roster.
func (r *PostgresRepository) Create(ctx context.Context, activity model.Activity) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO activities (id, name, description, schedule, max_participants, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		activity.ID, activity.Name, activity.Description, activity.Schedule,
		activity.MaxParticipants, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// AddParticipant registers an email inside a transaction that holds a
// row-level lock on the activity. SELECT ... FOR UPDATE serialises
// concurrent signups so the capacity check and the insert are atomic; two
// simultaneous signups for the last spot cannot both succeed.
func (r *PostgresRepository) AddParticipant(ctx context.Context, activityID, email string) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT max_participants FROM activities WHERE id = $1 FOR UPDATE`,
		activityID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("lock activity row: %w", err)
	}

	var dupCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants WHERE activity_id = $1 AND email = $2`,
		activityID, email,
	).Scan(&dupCount)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dupCount > 0 {
		return ErrAlreadyRegistered
	}

	var current int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants WHERE activity_id = $1`,
		activityID,
	).Scan(&current)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if current >= capacity {
		return ErrActivityFull
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO participants (id, activity_id, email, registered_at)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), activityID, email, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant deletes a registration, distinguishing an unknown
// activity from an unknown participant.
func (r *PostgresRepository) RemoveParticipant(ctx context.Context, activityID, email string) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM activities WHERE id = $1)`,
		activityID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check activity: %w", err)
	}
	if !exists {
		return ErrActivityNotFound
	}

	tag, err := r.db.Exec(ctx,
		`DELETE FROM participants WHERE activity_id = $1 AND email = $2`,
		activityID, email,
	)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	return nil
}
