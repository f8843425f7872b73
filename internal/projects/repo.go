package projects

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("project not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Tags        []string  `json:"tags"`
	GithubURL   *string   `json:"github_url,omitempty"`
	LiveURL     *string   `json:"live_url,omitempty"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sort_order"`
	GithubStars *int      `json:"github_stars,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectInput struct {
	Title       string
	Description string
	ImageURL    string
	Tags        []string
	GithubURL   string
	LiveURL     string
	Featured    bool
	SortOrder   int
}

const projectCols = `
id, title, description, image_url, tags, github_url, live_url, featured, sort_order, github_stars, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Tags,
		&p.GithubURL, &p.LiveURL, &p.Featured, &p.SortOrder, &p.GithubStars,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context, featuredOnly bool) ([]Project, error) {
	q := `
select` + projectCols + `
from projects
order by sort_order asc, created_at desc;
`
	if featuredOnly {
		q = `
select` + projectCols + `
from projects
where featured
order by sort_order asc, created_at desc;
`
	}

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Project, error) {
	const q = `
select` + projectCols + `
from projects
where id = $1;
`
	return scanProject(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) Create(ctx context.Context, in ProjectInput) (*Project, error) {
	const q = `
insert into projects (title, description, image_url, tags, github_url, live_url, featured, sort_order)
values ($1, $2, nullif($3,''), $4, nullif($5,''), nullif($6,''), $7, $8)
returning` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q,
		in.Title, in.Description, in.ImageURL, in.Tags, in.GithubURL, in.LiveURL,
		in.Featured, in.SortOrder))
}

func (r *Repo) Update(ctx context.Context, id int64, in ProjectInput) (*Project, error) {
	const q = `
update projects
set title = $2, description = $3, image_url = nullif($4,''), tags = $5,
    github_url = nullif($6,''), live_url = nullif($7,''), featured = $8,
    sort_order = $9, updated_at = now()
where id = $1
returning` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, id,
		in.Title, in.Description, in.ImageURL, in.Tags, in.GithubURL, in.LiveURL,
		in.Featured, in.SortOrder))
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `delete from projects where id = $1;`

	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// ListWithGithubURL returns the projects the stats sync job cares about.
func (r *Repo) ListWithGithubURL(ctx context.Context) ([]Project, error) {
	const q = `
select` + projectCols + `
from projects
where github_url is not null;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStars(ctx context.Context, id int64, stars int) error {
	const q = `update projects set github_stars = $2, updated_at = now() where id = $1;`

	_, err := r.db.Exec(ctx, q, id, stars)
	return err
}
