package scorelog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mclib/legacy/pkg/client"
	"github.com/go-mclib/legacy/pkg/packets"
)

func open(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func addObjective(s *Store, name string) {
	s.RecordObjective(&packets.S2CScoreboardObjective{Name: name, Mode: packets.ObjectiveAdd, Value: name, Type: packets.ObjectiveInteger})
}

func setScore(s *Store, objective, player string, v int32) {
	s.RecordScore(&packets.S2CUpdateScore{Player: player, Action: packets.ScoreUpsert, Objective: objective, Value: v})
}

func removeScore(s *Store, objective, player string) {
	s.RecordScore(&packets.S2CUpdateScore{Player: player, Action: packets.ScoreRemove, Objective: objective})
}

func TestLatestFollowsUpdates(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "scores.db"))
	ctx := context.Background()

	addObjective(s, "kills")
	setScore(s, "kills", "alice", 1)
	setScore(s, "kills", "bob", 2)
	setScore(s, "kills", "alice", 5)
	removeScore(s, "kills", "bob")

	got, err := s.Latest(ctx, "kills")
	require.NoError(t, err)
	assert.Equal(t, []Score{{Player: "alice", Value: 5}}, got)
}

func TestRemoveFromEveryObjective(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "scores.db"))
	ctx := context.Background()

	addObjective(s, "kills")
	addObjective(s, "deaths")
	setScore(s, "kills", "alice", 3)
	setScore(s, "deaths", "alice", 1)
	setScore(s, "deaths", "bob", 4)
	removeScore(s, "", "alice")

	kills, err := s.Latest(ctx, "kills")
	require.NoError(t, err)
	assert.Empty(t, kills)

	deaths, err := s.Latest(ctx, "deaths")
	require.NoError(t, err)
	assert.Equal(t, []Score{{Player: "bob", Value: 4}}, deaths)
}

func TestEmptyObjectiveUpsertRemoves(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "scores.db"))
	ctx := context.Background()

	addObjective(s, "kills")
	addObjective(s, "deaths")
	setScore(s, "kills", "alice", 3)
	setScore(s, "deaths", "alice", 1)
	setScore(s, "", "alice", 9)

	for _, o := range []string{"kills", "deaths"} {
		got, err := s.Latest(ctx, o)
		require.NoError(t, err)
		assert.Empty(t, got, o)
	}
}

func TestObjectiveRecreateResets(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "scores.db"))
	ctx := context.Background()

	addObjective(s, "kills")
	setScore(s, "kills", "alice", 3)
	s.RecordObjective(&packets.S2CScoreboardObjective{Name: "kills", Mode: packets.ObjectiveRemove})

	got, err := s.Latest(ctx, "kills")
	require.NoError(t, err)
	assert.Empty(t, got)

	addObjective(s, "kills")
	setScore(s, "kills", "bob", 1)
	got, err = s.Latest(ctx, "kills")
	require.NoError(t, err)
	assert.Equal(t, []Score{{Player: "bob", Value: 1}}, got)
}

func TestReopenContinuesSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	addObjective(s, "kills")
	setScore(s, "kills", "alice", 7)
	require.NoError(t, s.Close())

	s = open(t, path)
	got, err := s.Latest(ctx, "kills")
	require.NoError(t, err)
	assert.Equal(t, []Score{{Player: "alice", Value: 7}}, got)

	setScore(s, "kills", "alice", 8)
	got, err = s.Latest(ctx, "kills")
	require.NoError(t, err)
	assert.Equal(t, []Score{{Player: "alice", Value: 8}}, got)
}

func TestRefusedRowKeepsBatch(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "scores.db"))
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `CREATE TRIGGER refuse BEFORE INSERT ON scores
		WHEN NEW.player = 'mallory' BEGIN SELECT RAISE(ABORT, 'refused'); END;`)
	require.NoError(t, err)

	addObjective(s, "kills")
	setScore(s, "kills", "alice", 1)
	setScore(s, "kills", "mallory", 5)
	setScore(s, "kills", "bob", 2)

	got, err := s.Latest(ctx, "kills")
	require.NoError(t, err)
	assert.Equal(t, []Score{{Player: "alice", Value: 1}, {Player: "bob", Value: 2}}, got)
	assert.Equal(t, uint64(1), s.Failed())

	var maxSeq int64
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM scores`).Scan(&maxSeq))
	assert.Equal(t, int64(3), maxSeq)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	setScore(s, "kills", "alice", 1)
	assert.ErrorIs(t, s.Flush(context.Background()), ErrClosed)
}

func TestAttach(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "scores.db"))
	c := client.New()
	assert.NotPanics(t, func() { s.Attach(c) })
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
