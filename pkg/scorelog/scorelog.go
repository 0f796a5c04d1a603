// Package scorelog records scoreboard traffic into a SQLite database so
// scores survive reconnects and can be queried after the bot exits.
package scorelog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/go-mclib/legacy/pkg/client"
	"github.com/go-mclib/legacy/pkg/packets"
)

const (
	queueSize     = 4096
	commitEvery   = 256
	commitMaxWait = time.Second
)

var ErrClosed = errors.New("scorelog: store closed")

// Score is the latest value of one player on an objective.
type Score struct {
	Player string
	Value  int32
}

// Store appends scoreboard events from a single writer goroutine. Record
// methods never block; when the queue is full the event is dropped and
// counted.
type Store struct {
	Logger *log.Logger

	db *sql.DB

	mu     sync.RWMutex
	closed bool
	ch     chan req
	wg     sync.WaitGroup

	seq     int64 // owned by the writer goroutine
	dropped atomic.Uint64
	failed  atomic.Uint64
}

type reqKind int

const (
	reqScore reqKind = iota + 1
	reqObjective
	reqFlush
)

type req struct {
	kind reqKind
	at   string

	score     packets.S2CUpdateScore
	objective packets.S2CScoreboardObjective
	done      chan error
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	var last sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(seq) FROM (SELECT seq FROM scores UNION ALL SELECT seq FROM objectives)`).Scan(&last); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		Logger: log.New(io.Discard, "", 0),
		db:     db,
		ch:     make(chan req, queueSize),
		seq:    last.Int64,
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			seq INTEGER PRIMARY KEY,
			objective TEXT NOT NULL,
			player TEXT NOT NULL,
			value INTEGER NOT NULL,
			removed INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_objective_player ON scores(objective, player, seq);`,
		`CREATE TABLE IF NOT EXISTS objectives (
			seq INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			display_name TEXT NOT NULL,
			kind TEXT NOT NULL,
			action INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_objectives_name ON objectives(name, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Attach records every score and objective packet c receives.
func (s *Store) Attach(c *client.Client) {
	c.OnScoreboardUpdate(func(ctx *client.Context[*packets.S2CUpdateScore]) {
		s.RecordScore(ctx.Payload)
	})
	c.OnScoreboardAction(func(ctx *client.Context[*packets.S2CScoreboardObjective]) {
		s.RecordObjective(ctx.Payload)
	})
}

func (s *Store) RecordScore(p *packets.S2CUpdateScore) {
	s.enqueue(req{kind: reqScore, score: *p})
}

func (s *Store) RecordObjective(p *packets.S2CScoreboardObjective) {
	s.enqueue(req{kind: reqObjective, objective: *p})
}

// Dropped returns how many events were lost to a full queue.
func (s *Store) Dropped() uint64 { return s.dropped.Load() }

// Failed returns how many events the database refused or lost in a failed
// commit.
func (s *Store) Failed() uint64 { return s.failed.Load() }

func (s *Store) enqueue(r req) {
	r.at = time.Now().UTC().Format(time.RFC3339Nano)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- r:
	default:
		if s.dropped.Add(1) == 1 {
			s.Logger.Println("scorelog: queue full, dropping events")
		}
	}
}

// Flush waits until every event queued so far is committed.
func (s *Store) Flush(ctx context.Context) error {
	done := make(chan error, 1)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	select {
	case s.ch <- req{kind: reqFlush, done: done}:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Latest returns the current score of every player on objective, ordered by
// player name. Scores set before the objective was last created or removed
// are ignored.
func (s *Store) Latest(ctx context.Context, objective string) ([]Score, error) {
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.player, s.value, s.removed
		FROM scores s
		JOIN (
			SELECT player, MAX(seq) AS seq FROM scores
			WHERE (objective = ? OR objective = '')
			  AND seq > (SELECT COALESCE(MAX(seq), 0) FROM objectives WHERE name = ? AND action IN (?, ?))
			GROUP BY player
		) latest ON s.seq = latest.seq
		ORDER BY s.player`,
		objective, objective, packets.ObjectiveAdd, packets.ObjectiveRemove)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var (
			sc      Score
			removed bool
		)
		if err := rows.Scan(&sc.Player, &sc.Value, &removed); err != nil {
			return nil, err
		}
		if !removed {
			out = append(out, sc)
		}
	}
	return out, rows.Err()
}

// Close commits pending events and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()

	s.wg.Wait()
	return s.db.Close()
}

func (s *Store) loop() {
	ctx := context.Background()

	insertScore, err := s.db.Prepare(`INSERT INTO scores(seq,objective,player,value,removed,recorded_at) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		s.Logger.Printf("scorelog: prepare: %v", err)
	}
	insertObjective, err := s.db.Prepare(`INSERT INTO objectives(seq,name,display_name,kind,action,recorded_at) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		s.Logger.Printf("scorelog: prepare: %v", err)
	}
	defer func() {
		if insertScore != nil {
			_ = insertScore.Close()
		}
		if insertObjective != nil {
			_ = insertObjective.Close()
		}
	}()

	var (
		tx         *sql.Tx
		opCount    int
		lastCommit = time.Now()
	)
	commit := func() error {
		if tx == nil {
			return nil
		}
		err := tx.Commit()
		if err != nil {
			s.failed.Add(uint64(opCount))
			err = fmt.Errorf("commit %d rows: %w", opCount, err)
		}
		tx = nil
		opCount = 0
		lastCommit = time.Now()
		return err
	}
	write := func(r req) error {
		if tx == nil {
			txx, err := s.db.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			tx = txx
		}
		// seq only advances once the row is in the transaction.
		seq := s.seq + 1
		var err error
		switch r.kind {
		case reqScore:
			if insertScore == nil {
				return errors.New("no score statement")
			}
			p := r.score
			removed := p.Objective == "" || !p.HasValue()
			_, err = tx.Stmt(insertScore).Exec(seq, p.Objective, p.Player, p.Value, removed, r.at)
		case reqObjective:
			if insertObjective == nil {
				return errors.New("no objective statement")
			}
			p := r.objective
			_, err = tx.Stmt(insertObjective).Exec(seq, p.Name, p.Value, p.Type, p.Mode, r.at)
		}
		if err != nil {
			return err
		}
		s.seq = seq
		return nil
	}

	ticker := time.NewTicker(commitMaxWait)
	defer ticker.Stop()
	for {
		select {
		case r, ok := <-s.ch:
			if !ok {
				if err := commit(); err != nil {
					s.Logger.Printf("scorelog: %v", err)
				}
				return
			}
			if r.kind == reqFlush {
				r.done <- commit()
				continue
			}
			if err := write(r); err != nil {
				// A failed insert only undoes itself; keep the rows before it.
				s.failed.Add(1)
				s.Logger.Printf("scorelog: write: %v", err)
				if err := commit(); err != nil {
					s.Logger.Printf("scorelog: %v", err)
				}
				continue
			}
			opCount++
			if opCount >= commitEvery {
				if err := commit(); err != nil {
					s.Logger.Printf("scorelog: %v", err)
				}
			}
		case <-ticker.C:
			if time.Since(lastCommit) >= commitMaxWait {
				if err := commit(); err != nil {
					s.Logger.Printf("scorelog: %v", err)
				}
			}
		}
	}
}
