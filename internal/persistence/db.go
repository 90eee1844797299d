// Package persistence keeps an append-only SQLite journal of a play session:
// milestones, highlights and periodic relationship snapshots. The journal is
// an audit trail; the simulation never loads its state back from it.
package persistence

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/relations"
)

// Journal wraps a SQLite connection scoped to one session.
type Journal struct {
	conn    *sqlx.DB
	session string
}

// Open opens or creates a SQLite journal at the given path and starts a new
// session in it.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{conn: conn, session: uuid.NewString()}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

// Session returns the id stamped on every row this journal writes.
func (j *Journal) Session() string {
	return j.session
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS milestones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		tick INTEGER NOT NULL,
		a INTEGER NOT NULL,
		b INTEGER NOT NULL,
		stage TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS highlights (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		seq INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		text TEXT NOT NULL,
		UNIQUE (session, seq)
	);

	CREATE TABLE IF NOT EXISTS relationships (
		session TEXT NOT NULL,
		id_low INTEGER NOT NULL,
		id_high INTEGER NOT NULL,
		affinity REAL NOT NULL,
		attraction REAL NOT NULL,
		trust REAL NOT NULL,
		irritation REAL NOT NULL,
		skin_time REAL NOT NULL,
		trend REAL NOT NULL,
		charge TEXT NOT NULL,
		is_acquaintances INTEGER NOT NULL,
		is_friends INTEGER NOT NULL,
		is_soulmates INTEGER NOT NULL,
		is_nemesis INTEGER NOT NULL,
		is_crushing INTEGER NOT NULL,
		is_dating INTEGER NOT NULL,
		is_lovers INTEGER NOT NULL,
		last_contact_tick INTEGER NOT NULL,
		snapshot_tick INTEGER NOT NULL,
		PRIMARY KEY (session, id_low, id_high)
	);

	CREATE TABLE IF NOT EXISTS session_meta (
		session TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (session, key)
	);

	CREATE INDEX IF NOT EXISTS idx_milestones_session ON milestones(session, id);
	CREATE INDEX IF NOT EXISTS idx_highlights_session ON highlights(session, tick);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// MilestoneRow is a journaled milestone.
type MilestoneRow struct {
	Session string         `db:"session" json:"session"`
	Tick    uint64         `db:"tick" json:"tick"`
	A       agents.AgentID `db:"a" json:"a"`
	B       agents.AgentID `db:"b" json:"b"`
	Stage   string         `db:"stage" json:"stage"`
}

// RecordMilestone appends one milestone notification.
func (j *Journal) RecordMilestone(m relations.Milestone) error {
	_, err := j.conn.Exec(
		"INSERT INTO milestones (session, tick, a, b, stage) VALUES (?, ?, ?, ?, ?)",
		j.session, m.Tick, m.A, m.B, m.Stage.String(),
	)
	if err != nil {
		return fmt.Errorf("record milestone %v: %w", m.Stage, err)
	}
	return nil
}

// RecentMilestones returns the newest milestones of this session, newest
// first.
func (j *Journal) RecentMilestones(limit int) ([]MilestoneRow, error) {
	var rows []MilestoneRow
	err := j.conn.Select(&rows,
		"SELECT session, tick, a, b, stage FROM milestones WHERE session = ? ORDER BY id DESC LIMIT ?",
		j.session, limit,
	)
	return rows, err
}

// RecordHighlights appends highlights. A highlight whose sequence number is
// already journaled is skipped, so overlapping batches are safe to record.
func (j *Journal) RecordHighlights(hs []relations.Highlight) (int, error) {
	if len(hs) == 0 {
		return 0, nil
	}

	tx, err := j.conn.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		"INSERT OR IGNORE INTO highlights (session, seq, tick, category, text) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, h := range hs {
		res, err := stmt.Exec(j.session, h.Seq, h.Tick, h.Category.String(), h.Text)
		if err != nil {
			return 0, fmt.Errorf("insert highlight: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	return added, tx.Commit()
}

// HighlightCount returns how many highlights this session has journaled.
func (j *Journal) HighlightCount() (int, error) {
	var n int
	err := j.conn.Get(&n, "SELECT COUNT(*) FROM highlights WHERE session = ?", j.session)
	return n, err
}

// RelationRow is one relationship as of a snapshot.
type RelationRow struct {
	Session         string         `db:"session" json:"session"`
	IDLow           agents.AgentID `db:"id_low" json:"id_low"`
	IDHigh          agents.AgentID `db:"id_high" json:"id_high"`
	Affinity        float64        `db:"affinity" json:"affinity"`
	Attraction      float64        `db:"attraction" json:"attraction"`
	Trust           float64        `db:"trust" json:"trust"`
	Irritation      float64        `db:"irritation" json:"irritation"`
	SkinTime        float64        `db:"skin_time" json:"skin_time"`
	Trend           float64        `db:"trend" json:"trend"`
	Charge          string         `db:"charge" json:"charge"`
	IsAcquaintances bool           `db:"is_acquaintances" json:"is_acquaintances"`
	IsFriends       bool           `db:"is_friends" json:"is_friends"`
	IsSoulmates     bool           `db:"is_soulmates" json:"is_soulmates"`
	IsNemesis       bool           `db:"is_nemesis" json:"is_nemesis"`
	IsCrushing      bool           `db:"is_crushing" json:"is_crushing"`
	IsDating        bool           `db:"is_dating" json:"is_dating"`
	IsLovers        bool           `db:"is_lovers" json:"is_lovers"`
	LastContactTick uint64         `db:"last_contact_tick" json:"last_contact_tick"`
	SnapshotTick    uint64         `db:"snapshot_tick" json:"snapshot_tick"`
}

func relationRow(session string, tick uint64, st relations.State) RelationRow {
	return RelationRow{
		Session:         session,
		IDLow:           st.IDLow,
		IDHigh:          st.IDHigh,
		Affinity:        st.Affinity,
		Attraction:      st.Attraction,
		Trust:           st.Trust,
		Irritation:      st.Irritation,
		SkinTime:        st.SkinTime,
		Trend:           st.Trend,
		Charge:          st.Charge.String(),
		IsAcquaintances: st.IsAcquaintances,
		IsFriends:       st.IsFriends,
		IsSoulmates:     st.IsSoulmates,
		IsNemesis:       st.IsNemesis,
		IsCrushing:      st.IsCrushing,
		IsDating:        st.IsDating,
		IsLovers:        st.IsLovers,
		LastContactTick: st.LastContactTick,
		SnapshotTick:    tick,
	}
}

// SnapshotRelations replaces this session's relationship rows with states.
func (j *Journal) SnapshotRelations(tick uint64, states []relations.State) error {
	tx, err := j.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM relationships WHERE session = ?", j.session); err != nil {
		return err
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO relationships
		(session, id_low, id_high, affinity, attraction, trust, irritation, skin_time,
		 trend, charge, is_acquaintances, is_friends, is_soulmates, is_nemesis,
		 is_crushing, is_dating, is_lovers, last_contact_tick, snapshot_tick)
		VALUES (:session, :id_low, :id_high, :affinity, :attraction, :trust, :irritation, :skin_time,
		 :trend, :charge, :is_acquaintances, :is_friends, :is_soulmates, :is_nemesis,
		 :is_crushing, :is_dating, :is_lovers, :last_contact_tick, :snapshot_tick)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, st := range states {
		if _, err := stmt.Exec(relationRow(j.session, tick, st)); err != nil {
			return fmt.Errorf("insert relationship %d-%d: %w", st.IDLow, st.IDHigh, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("relationships snapshotted", "tick", tick, "pairs", len(states))
	return nil
}

// Relationships returns this session's latest snapshot ordered by pair.
func (j *Journal) Relationships() ([]RelationRow, error) {
	var rows []RelationRow
	err := j.conn.Select(&rows,
		"SELECT * FROM relationships WHERE session = ? ORDER BY id_low, id_high", j.session)
	return rows, err
}

// SaveMeta stores a key-value pair for this session.
func (j *Journal) SaveMeta(key, value string) error {
	_, err := j.conn.Exec(
		"INSERT OR REPLACE INTO session_meta (session, key, value) VALUES (?, ?, ?)",
		j.session, key, value,
	)
	return err
}

// GetMeta retrieves a metadata value for this session.
func (j *Journal) GetMeta(key string) (string, error) {
	var value string
	err := j.conn.Get(&value, "SELECT value FROM session_meta WHERE session = ? AND key = ?", j.session, key)
	return value, err
}

// SaveTick records the last tick the session reached.
func (j *Journal) SaveTick(tick uint64) error {
	if err := j.SaveMeta("last_tick", strconv.FormatUint(tick, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}
