package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pokerhand-api/server/engine"
)

//go:embed schema.sql
var schema embed.FS

// ErrDisabled is returned by a nil *DB, i.e. when no DATABASE_URL is set.
var ErrDisabled = errors.New("persistence disabled")

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Writes
------------------------------*/

// Evaluation is one table verdict to persist.
type Evaluation struct {
	Source  string // "single" or "table"
	TableID string // empty for the house deck
	Hands   []engine.PokerHand
	Result  engine.PokerTableResult
	Agrees  *bool // library cross-check, nil when not run
}

// SaveEvaluation writes the evaluation and its hands atomically and
// returns the evaluation id.
func (db *DB) SaveEvaluation(ctx context.Context, ev Evaluation) (int64, error) {
	if db == nil {
		return 0, ErrDisabled
	}
	if len(ev.Hands) != len(ev.Result.HandResults) {
		return 0, errors.New("hands and results differ in length")
	}
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // safe if already committed

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO evaluations(source, table_id, hand_count, winning_player, winner, library_agrees)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, ev.Source, optString(ev.TableID), len(ev.Hands), ev.Result.WinningPlayer, ev.Result.Winner, optBool(ev.Agrees)).Scan(&id)
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for i, h := range ev.Hands {
		res := ev.Result.HandResults[i]
		ranks, err := json.Marshal(res.Ranks)
		if err != nil {
			return 0, err
		}
		batch.Queue(`
			INSERT INTO evaluation_hands(
				evaluation_id, position, player_number, cards,
				rank_value, category, rank_description, ranks
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, id, i, res.PlayerNumber, cardStrings(h.Cards),
			res.RankValue, res.Category().Key(), res.RankDescription, ranks)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, err
	}
	return id, tx.Commit(ctx)
}

/* -----------------------------
   Reads
------------------------------*/

type HandRow struct {
	PlayerNumber    int      `json:"playerNumber"`
	Cards           []string `json:"cards"`
	RankValue       int64    `json:"rankValue"`
	Category        string   `json:"category"`
	RankDescription string   `json:"rankDescription"`
}

type EvaluationRow struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Source        string    `json:"source"`
	TableID       *string   `json:"table_id"`
	WinningPlayer int       `json:"winning_player"`
	Winner        string    `json:"winner"`
	LibraryAgrees *bool     `json:"library_agrees"`
	Hands         []HandRow `json:"hands"`
}

// RecentEvaluations returns the latest evaluations, newest first, with
// their hands in table order.
func (db *DB) RecentEvaluations(ctx context.Context, limit int) ([]EvaluationRow, error) {
	if db == nil {
		return nil, ErrDisabled
	}
	rows, err := db.Query(ctx, `
		SELECT id, created_at, source, table_id::text, winning_player, winner, library_agrees
		  FROM evaluations
		 ORDER BY id DESC
		 LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []EvaluationRow{}
	index := map[int64]int{}
	for rows.Next() {
		var r EvaluationRow
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Source, &r.TableID, &r.WinningPlayer, &r.Winner, &r.LibraryAgrees); err != nil {
			return nil, err
		}
		r.Hands = []HandRow{}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	hrows, err := db.Query(ctx, `
		SELECT evaluation_id, player_number, cards, rank_value, category, rank_description
		  FROM evaluation_hands
		 WHERE evaluation_id = ANY($1)
		 ORDER BY evaluation_id, position
	`, ids)
	if err != nil {
		return nil, err
	}
	defer hrows.Close()
	for hrows.Next() {
		var evID int64
		var h HandRow
		if err := hrows.Scan(&evID, &h.PlayerNumber, &h.Cards, &h.RankValue, &h.Category, &h.RankDescription); err != nil {
			return nil, err
		}
		if i, ok := index[evID]; ok {
			out[i].Hands = append(out[i].Hands, h)
		}
	}
	return out, hrows.Err()
}

type CategoryCount struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Hands       int    `json:"hands"`
	Wins        int    `json:"wins"`
}

// CategoryCounts reports, per category, how many stored hands landed in
// it and how many of those won their table. Categories come back
// strongest first.
func (db *DB) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	if db == nil {
		return nil, ErrDisabled
	}
	rows, err := db.Query(ctx, `
		SELECT h.category,
		       COUNT(*)::int AS hands,
		       SUM(CASE WHEN h.player_number = e.winning_player THEN 1 ELSE 0 END)::int AS wins
		  FROM evaluation_hands h
		  JOIN evaluations e ON e.id = h.evaluation_id
		 GROUP BY h.category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	got := map[string]CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Hands, &c.Wins); err != nil {
			return nil, err
		}
		got[c.Category] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orderCategories(got), nil
}

func orderCategories(got map[string]CategoryCount) []CategoryCount {
	out := make([]CategoryCount, 0, engine.NumCategories)
	for c := engine.RoyalFlush; c < engine.NumCategories; c++ {
		row := got[c.Key()]
		row.Category = c.Key()
		row.Description = c.Description()
		out = append(out, row)
	}
	return out
}

func cardStrings(cards []engine.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func optString(s string) any {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return nil
}

func optBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return 50
	case n > 500:
		return 500
	}
	return n
}
