package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table layouts follow the shape ent's migrate package generates, so the
// same migrator can diff them against an existing database file.
var (
	tasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
		{Name: "completed", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	tasksTable = &schema.Table{
		Name:       "tasks",
		Columns:    tasksColumns,
		PrimaryKey: []*schema.Column{tasksColumns[0]},
		Indexes: []*schema.Index{
			{Name: "task_created_at", Columns: []*schema.Column{tasksColumns[3]}},
			{Name: "task_completed", Columns: []*schema.Column{tasksColumns[2]}},
		},
	}

	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	snapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_timestamp", Columns: []*schema.Column{snapshotsColumns[2]}},
		},
	}

	dailyStatsColumns = []*schema.Column{
		{Name: "day", Type: field.TypeString, Unique: true, Size: 10},
		{Name: "seconds", Type: field.TypeInt64, Default: 0},
	}
	dailyStatsTable = &schema.Table{
		Name:       "daily_stats",
		Columns:    dailyStatsColumns,
		PrimaryKey: []*schema.Column{dailyStatsColumns[0]},
	}

	studySessionsColumns = append(eventColumns(),
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "day", Type: field.TypeString, Size: 10},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt},
		&schema.Column{Name: "skipped", Type: field.TypeBool, Default: false},
	)
	studySessionsTable = eventTable("study_sessions", studySessionsColumns, "day")

	xpEventsColumns = append(eventColumns(),
		&schema.Column{Name: "amount", Type: field.TypeInt},
		&schema.Column{Name: "reason", Type: field.TypeString},
		&schema.Column{Name: "total", Type: field.TypeInt},
		&schema.Column{Name: "level", Type: field.TypeInt},
	)
	xpEventsTable = eventTable("xp_events", xpEventsColumns, "reason")

	awardEventsColumns = append(eventColumns(),
		&schema.Column{Name: "award_type", Type: field.TypeString},
		&schema.Column{Name: "rarity", Type: field.TypeString},
		&schema.Column{Name: "reason", Type: field.TypeString},
	)
	awardEventsTable = eventTable("award_events", awardEventsColumns, "award_type")

	llmRequestEventsColumns = append(eventColumns(),
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	llmRequestEventsTable = eventTable("llm_request_events", llmRequestEventsColumns, "purpose")

	// Tables lists every table the store owns, in creation order.
	Tables = []*schema.Table{
		tasksTable,
		snapshotsTable,
		dailyStatsTable,
		studySessionsTable,
		xpEventsTable,
		awardEventsTable,
		llmRequestEventsTable,
	}
)

// eventColumns returns the columns shared by every event table: an
// autoincrement id, the global sequence and a wall-clock timestamp.
func eventColumns() []*schema.Column {
	return []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
}

func eventTable(name string, cols []*schema.Column, indexed string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_sequence", Columns: []*schema.Column{cols[1]}},
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
		},
	}
	for _, c := range cols {
		if c.Name == indexed {
			t.Indexes = append(t.Indexes, &schema.Index{
				Name:    name + "_" + indexed,
				Columns: []*schema.Column{c},
			})
		}
	}
	return t
}

// migrate creates or alters the tables to match the layouts above.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
