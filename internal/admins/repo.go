package admins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("admin not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Admin is a dashboard user linked to a hosted-identity-provider account.
type Admin struct {
	ID          string     `json:"id"`
	ProviderUID string     `json:"-"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type UpsertAdmin struct {
	ProviderUID string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Ensure creates or refreshes the admin row for a verified provider account.
func (r *Repo) Ensure(ctx context.Context, u UpsertAdmin) (*Admin, error) {
	if u.ProviderUID == "" {
		return nil, fmt.Errorf("provider uid required")
	}

	const q = `
insert into admins (provider_uid, email, display_name, photo_url, updated_at)
values ($1, $2, nullif($3,''), nullif($4,''), now())
on conflict (provider_uid) do update
set
  email = excluded.email,
  display_name = coalesce(excluded.display_name, admins.display_name),
  photo_url = coalesce(excluded.photo_url, admins.photo_url),
  updated_at = now()
returning id::text, provider_uid, email, display_name, photo_url, last_login_at, created_at, updated_at;
`
	var a Admin
	err := r.db.QueryRow(ctx, q, u.ProviderUID, u.Email, u.DisplayName, u.PhotoURL).
		Scan(&a.ID, &a.ProviderUID, &a.Email, &a.DisplayName, &a.PhotoURL, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) GetByProviderUID(ctx context.Context, uid string) (*Admin, error) {
	const q = `
select id::text, provider_uid, email, display_name, photo_url, last_login_at, created_at, updated_at
from admins
where provider_uid = $1;
`
	var a Admin
	err := r.db.QueryRow(ctx, q, uid).
		Scan(&a.ID, &a.ProviderUID, &a.Email, &a.DisplayName, &a.PhotoURL, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AdminIDByProviderUID satisfies auth.AdminChecker.
func (r *Repo) AdminIDByProviderUID(ctx context.Context, uid string) (string, error) {
	const q = `select id::text from admins where provider_uid = $1;`

	var id string
	err := r.db.QueryRow(ctx, q, uid).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) RecordLogin(ctx context.Context, uid string) error {
	const q = `update admins set last_login_at = now() where provider_uid = $1;`

	_, err := r.db.Exec(ctx, q, uid)
	return err
}
