package experience

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("experience entry not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Entry is one position on the experience timeline. A nil EndDate means the
// position is current.
type Entry struct {
	ID           int64      `json:"id"`
	Company      string     `json:"company"`
	Role         string     `json:"role"`
	Location     *string    `json:"location,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Description  string     `json:"description"`
	Technologies []string   `json:"technologies"`
	SortOrder    int        `json:"sort_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type EntryInput struct {
	Company      string
	Role         string
	Location     string
	StartDate    time.Time
	EndDate      *time.Time
	Description  string
	Technologies []string
	SortOrder    int
}

const entryCols = `
id, company, role, location, start_date, end_date, description, technologies, sort_order, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Company, &e.Role, &e.Location, &e.StartDate, &e.EndDate,
		&e.Description, &e.Technologies, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if e.Technologies == nil {
		e.Technologies = []string{}
	}
	return &e, nil
}

func (r *Repo) List(ctx context.Context) ([]Entry, error) {
	const q = `
select` + entryCols + `
from experiences
order by sort_order asc, start_date desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, 8)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, in EntryInput) (*Entry, error) {
	const q = `
insert into experiences (company, role, location, start_date, end_date, description, technologies, sort_order)
values ($1, $2, nullif($3,''), $4, $5, $6, $7, $8)
returning` + entryCols + `;
`
	return scanEntry(r.db.QueryRow(ctx, q,
		in.Company, in.Role, in.Location, in.StartDate, in.EndDate,
		in.Description, in.Technologies, in.SortOrder))
}

func (r *Repo) Update(ctx context.Context, id int64, in EntryInput) (*Entry, error) {
	const q = `
update experiences
set company = $2, role = $3, location = nullif($4,''), start_date = $5,
    end_date = $6, description = $7, technologies = $8, sort_order = $9,
    updated_at = now()
where id = $1
returning` + entryCols + `;
`
	return scanEntry(r.db.QueryRow(ctx, q, id,
		in.Company, in.Role, in.Location, in.StartDate, in.EndDate,
		in.Description, in.Technologies, in.SortOrder))
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `delete from experiences where id = $1;`

	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
