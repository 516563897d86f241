package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
)

const columns = `id, name, subtitle, description, chain, stage, cost, created_at,
	image_cover, image_url, proj_img, requirements, how_to_steps, backers, comment`

// sqlStore holds the queries shared by both dialects. Statements are written
// with "?" placeholders and rebound for PostgreSQL.
type sqlStore struct {
	conn   *sql.DB
	dollar bool
}

func (s *sqlStore) rebind(query string) string {
	if !s.dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	return s.conn.Close()
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *sqlStore) List(ctx context.Context, page, pageSize int) (catalog.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}

	var total int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM airdrops").Scan(&total); err != nil {
		return catalog.Page{}, fmt.Errorf("count airdrops: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, s.rebind(`SELECT `+columns+` FROM airdrops
		ORDER BY created_at IS NULL, created_at DESC, id
		LIMIT ? OFFSET ?`), pageSize, (page-1)*pageSize)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("list airdrops: %w", err)
	}
	defer rows.Close()

	var records []airdrop.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return catalog.Page{}, fmt.Errorf("scan airdrop: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return catalog.Page{}, fmt.Errorf("list airdrops: %w", err)
	}
	return catalog.Page{Records: records, Total: total}, nil
}

func (s *sqlStore) Get(ctx context.Context, id string) (airdrop.Record, error) {
	row := s.conn.QueryRowContext(ctx, s.rebind(`SELECT `+columns+` FROM airdrops WHERE id = ?`), id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return airdrop.Record{}, fmt.Errorf("airdrop %q: %w", id, catalog.ErrNotFound)
	}
	if err != nil {
		return airdrop.Record{}, fmt.Errorf("get airdrop: %w", err)
	}
	return r, nil
}

func (s *sqlStore) Upsert(ctx context.Context, records []airdrop.Record) (int, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO airdrops (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			subtitle = excluded.subtitle,
			description = excluded.description,
			chain = excluded.chain,
			stage = excluded.stage,
			cost = excluded.cost,
			created_at = excluded.created_at,
			image_cover = excluded.image_cover,
			image_url = excluded.image_url,
			proj_img = excluded.proj_img,
			requirements = excluded.requirements,
			how_to_steps = excluded.how_to_steps,
			backers = excluded.backers,
			comment = excluded.comment`))
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return written, fmt.Errorf("upsert %q: id is empty", r.Name)
		}
		var created any
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Name, r.Subtitle, r.Description, r.Chain, r.Stage, r.Cost, created,
			r.CoverImage, r.LogoImage, r.ProjectImage, r.Requirements, r.HowToSteps,
			stringList(r.Backers), r.Comment,
		); err != nil {
			return written, fmt.Errorf("upsert %q: %w", r.ID, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return written, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (airdrop.Record, error) {
	var r airdrop.Record
	var name, subtitle, description, chain, stage sql.NullString
	var cover, logo, project, comment sql.NullString
	var cost sql.NullFloat64
	var created nullTime
	var backers stringList
	err := row.Scan(&r.ID, &name, &subtitle, &description, &chain, &stage, &cost, &created,
		&cover, &logo, &project, &r.Requirements, &r.HowToSteps, &backers, &comment)
	if err != nil {
		return airdrop.Record{}, err
	}
	r.Name = name.String
	r.Subtitle = subtitle.String
	r.Description = description.String
	r.Chain = chain.String
	r.Stage = stage.String
	r.Cost = max(cost.Float64, 0)
	r.CreatedAt = created.Time
	r.CoverImage = cover.String
	r.LogoImage = logo.String
	r.ProjectImage = project.String
	r.Backers = backers
	r.Comment = comment.String
	return r, nil
}

// nullTime accepts native timestamps and the text forms SQLite stores.
type nullTime struct {
	Time time.Time
}

func (t *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case string:
		t.Time, _ = airdrop.ParseTimestamp(v)
	case []byte:
		t.Time, _ = airdrop.ParseTimestamp(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

// stringList is stored as a JSON array.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported list type %T", src)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		*l = nil
		return nil
	}
	*l = out
	return nil
}
