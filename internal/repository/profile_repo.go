package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"parkinglot/internal/db"
)

const profileColumns = `profile_id, user_id, preference_area_id, role, priority, expired`

// ProfileView is a profile joined with its preferred area and lot.
type ProfileView struct {
	db.Profile
	PreferenceLotID    int64  `db:"preference_lot_id"`
	PreferenceLotName  string `db:"preference_lot_name"`
	PreferenceAreaName string `db:"preference_area_name"`
}

type ProfileStore interface {
	ProfileByUser(ctx context.Context, userID int64) (*ProfileView, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	AreaExists(ctx context.Context, areaID int64) (bool, error)
	CreateProfile(ctx context.Context, p *db.Profile) error
	UpdateProfile(ctx context.Context, userID int64, areaID *int64, role, priority *string, expired time.Time) (*db.Profile, error)
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(d *db.DB) ProfileStore {
	return &profileRepository{db: d.DB}
}

func (r *profileRepository) ProfileByUser(ctx context.Context, userID int64) (*ProfileView, error) {
	var v ProfileView
	err := r.db.GetContext(ctx, &v, `
		SELECT p.profile_id, p.user_id, p.preference_area_id, p.role, p.priority, p.expired,
			ar.parking_lot_id AS preference_lot_id,
			pl.name AS preference_lot_name,
			ar.name AS preference_area_name
		FROM profiles p
		JOIN areas ar ON ar.area_id = p.preference_area_id
		JOIN parking_lots pl ON pl.parking_lot_id = ar.parking_lot_id
		WHERE p.user_id = $1`, userID)
	if err != nil {
		return nil, noRows(err)
	}
	return &v, nil
}

func (r *profileRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return ok, nil
}

func (r *profileRepository) AreaExists(ctx context.Context, areaID int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM areas WHERE area_id = $1)`, areaID)
	if err != nil {
		return false, fmt.Errorf("area exists: %w", err)
	}
	return ok, nil
}

// CreateProfile inserts p and fills ProfileID. A second profile for the same
// user comes back as ErrIntegrityViolation.
func (r *profileRepository) CreateProfile(ctx context.Context, p *db.Profile) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO profiles (user_id, preference_area_id, role, priority, expired)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING profile_id`,
		p.UserID, p.PreferenceAreaID, p.Role, p.Priority, p.Expired,
	).Scan(&p.ProfileID)
	if err != nil {
		return translateError(fmt.Errorf("insert profile: %w", err))
	}
	return nil
}

// UpdateProfile applies the non-nil fields, always moves expired, and returns
// the updated row or nil when the user has no profile.
func (r *profileRepository) UpdateProfile(ctx context.Context, userID int64, areaID *int64, role, priority *string, expired time.Time) (*db.Profile, error) {
	var p db.Profile
	err := r.db.GetContext(ctx, &p, `
		UPDATE profiles
		SET preference_area_id = COALESCE($2, preference_area_id),
			role = COALESCE($3, role),
			priority = COALESCE($4, priority),
			expired = $5
		WHERE user_id = $1
		RETURNING `+profileColumns, userID, areaID, role, priority, expired)
	if err != nil {
		if err = noRows(err); err != nil {
			return nil, translateError(fmt.Errorf("update profile: %w", err))
		}
		return nil, nil
	}
	return &p, nil
}
