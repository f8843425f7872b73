package contact

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("message not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

const messageCols = `
id, name, email, subject, message, read, created_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, in Submission) (*Message, error) {
	const q = `
insert into contact_messages (name, email, subject, message)
values ($1, $2, nullif($3,''), $4)
returning` + messageCols + `;
`
	return scanMessage(r.db.QueryRow(ctx, q, in.Name, in.Email, in.Subject, in.Message))
}

func (r *Repo) List(ctx context.Context, unreadOnly bool) ([]Message, error) {
	q := `
select` + messageCols + `
from contact_messages
order by created_at desc;
`
	if unreadOnly {
		q = `
select` + messageCols + `
from contact_messages
where not read
order by created_at desc;
`
	}

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0, 16)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// GetAndMarkRead returns a message and flips its read flag in one statement.
func (r *Repo) GetAndMarkRead(ctx context.Context, id int64) (*Message, error) {
	const q = `
update contact_messages
set read = true
where id = $1
returning` + messageCols + `;
`
	return scanMessage(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `delete from contact_messages where id = $1;`

	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
