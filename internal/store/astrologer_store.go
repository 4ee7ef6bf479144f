package store

import (
	"context"
	"time"

	"github.com/lib/pq"
)

type AstrologerStore struct {
	db DB
}

func NewAstrologerStore(db DB) *AstrologerStore {
	return &AstrologerStore{db: db}
}

// Profile is an astrologer profile joined with the owning user's public
// fields. PerMinuteRate is the NUMERIC column as a decimal string, major
// units per minute.
type Profile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Bio           string    `json:"bio"`
	Languages     []string  `json:"languages"`
	Expertise     []string  `json:"expertise"`
	PerMinuteRate string    `json:"per_minute_rate"`
	IsOnline      bool      `json:"is_online"`
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
}

type profileRow struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	DisplayName   string         `db:"display_name"`
	Bio           string         `db:"bio"`
	Languages     pq.StringArray `db:"languages"`
	Expertise     pq.StringArray `db:"expertise"`
	PerMinuteRate string         `db:"per_minute_rate"`
	IsOnline      bool           `db:"is_online"`
	CreatedAt     time.Time      `db:"created_at"`
	Username      string         `db:"username"`
	Email         string         `db:"email"`
}

func (r profileRow) toProfile() Profile {
	return Profile{
		ID:            r.ID,
		UserID:        r.UserID,
		DisplayName:   r.DisplayName,
		Bio:           r.Bio,
		Languages:     []string(r.Languages),
		Expertise:     []string(r.Expertise),
		PerMinuteRate: r.PerMinuteRate,
		IsOnline:      r.IsOnline,
		CreatedAt:     r.CreatedAt,
		Username:      r.Username,
		Email:         r.Email,
	}
}

const profileColumns = `
	p.id, p.user_id, p.display_name, p.bio, p.languages, p.expertise,
	p.per_minute_rate, p.is_online, p.created_at,
	u.username, u.email
`

// Create inserts the empty profile made eagerly at astrologer signup:
// rate 0, offline, display name defaulted to the username.
func (s *AstrologerStore) Create(ctx context.Context, tx Execer, id, userID, displayName string) error {
	query := `
		INSERT INTO astrologer_profiles (id, user_id, display_name, per_minute_rate, is_online)
		VALUES ($1, $2, $3, 0, FALSE)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, displayName)
	return err
}

type UpsertProfileInput struct {
	ID            string
	UserID        string
	DisplayName   string
	Bio           string
	Languages     []string
	Expertise     []string
	PerMinuteRate string
	IsOnline      bool
}

// Upsert writes the astrologer's own profile, creating it if absent.
// Keyed on user_id: at most one profile per identity.
func (s *AstrologerStore) Upsert(ctx context.Context, tx Execer, input UpsertProfileInput) error {
	query := `
		INSERT INTO astrologer_profiles
			(id, user_id, display_name, bio, languages, expertise, per_minute_rate, is_online)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			languages = EXCLUDED.languages,
			expertise = EXCLUDED.expertise,
			per_minute_rate = EXCLUDED.per_minute_rate,
			is_online = EXCLUDED.is_online,
			updated_at = NOW()
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.DisplayName, input.Bio,
		pq.Array(input.Languages), pq.Array(input.Expertise),
		input.PerMinuteRate, input.IsOnline)
	return err
}

func (s *AstrologerStore) GetByID(ctx context.Context, profileID string) (Profile, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+profileColumns+`
		FROM astrologer_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`, profileID)
	if err != nil {
		return Profile{}, err
	}
	return row.toProfile(), nil
}

func (s *AstrologerStore) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+profileColumns+`
		FROM astrologer_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`, userID)
	if err != nil {
		return Profile{}, err
	}
	return row.toProfile(), nil
}

// List returns the directory: offline profiles only when includeOffline,
// optional case-insensitive substring match on display name, expertise or
// languages, ordered online-first, then rate ascending, then name.
func (s *AstrologerStore) List(ctx context.Context, includeOffline bool, query string) ([]Profile, error) {
	var rows []profileRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+profileColumns+`
		FROM astrologer_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE ($1 OR p.is_online)
		  AND ($2 = ''
			OR p.display_name ILIKE '%' || $2 || '%'
			OR EXISTS (SELECT 1 FROM unnest(p.expertise) AS e WHERE e ILIKE '%' || $2 || '%')
			OR EXISTS (SELECT 1 FROM unnest(p.languages) AS l WHERE l ILIKE '%' || $2 || '%'))
		ORDER BY p.is_online DESC, p.per_minute_rate ASC, p.display_name ASC
	`, includeOffline, query)
	if err != nil {
		return nil, err
	}
	profiles := make([]Profile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toProfile())
	}
	return profiles, nil
}

func (s *AstrologerStore) SetOnlineByUserID(ctx context.Context, tx Execer, userID string, online bool) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE astrologer_profiles
		SET is_online = $1, updated_at = NOW()
		WHERE user_id = $2
	`, online, userID)
	return err
}
