package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a row addressed by ID does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// TaskRecord is a persisted task-list entry.
type TaskRecord struct {
	ID          string
	Text        string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// TaskRepo manages the task list.
type TaskRepo interface {
	Create(ctx context.Context, t *TaskRecord) error
	Update(ctx context.Context, t *TaskRecord) error
	// Delete removes a task. Returns ErrNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error
	// Get returns the task or ErrNotFound.
	Get(ctx context.Context, id string) (*TaskRecord, error)
	// List returns all tasks in creation order.
	List(ctx context.Context) ([]TaskRecord, error)
	// DeleteCompleted removes completed tasks and reports how many went.
	DeleteCompleted(ctx context.Context) (int, error)
	// DeleteAll removes every task and reports how many went.
	DeleteAll(ctx context.Context) (int, error)
}

// SnapshotData captures the dashboard state at a point in time.
type SnapshotData struct {
	Version  int                   `json:"version"`
	Progress *ProgressSnapshotData `json:"progress,omitempty"`
	Timer    *TimerSnapshotData    `json:"timer,omitempty"`
	Mixer    *MixerSnapshotData    `json:"mixer,omitempty"`
}

// ProgressSnapshotData holds the gamification counters.
type ProgressSnapshotData struct {
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	Streak        int    `json:"streak"`
	LastStudyDate string `json:"last_study_date,omitempty"`
	// CompletedTasks counts every completion, including re-completions.
	CompletedTasks int `json:"completed_tasks"`
}

// TimerSnapshotData holds the pomodoro settings and position.
type TimerSnapshotData struct {
	StudySecs     int    `json:"study_secs"`
	BreakSecs     int    `json:"break_secs"`
	RemainingSecs int    `json:"remaining_secs"`
	Phase         string `json:"phase"`
	AutoStart     bool   `json:"auto_start"`
}

// MixerSnapshotData holds the ambient mixer state.
type MixerSnapshotData struct {
	Playing bool                `json:"playing"`
	Tracks  []TrackSnapshotData `json:"tracks"`
}

// TrackSnapshotData is one mixer channel.
type TrackSnapshotData struct {
	Name   string  `json:"name"`
	File   string  `json:"file,omitempty"`
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted,omitempty"`
}

// Snapshot represents a point-in-time capture of dashboard state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages dashboard state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// DayStat is the study time recorded for one calendar day.
type DayStat struct {
	Day     string // YYYY-MM-DD
	Seconds int64
}

// StatsRepo stores per-day study time.
type StatsRepo interface {
	// AddStudySeconds adds n seconds to day, creating the row if needed.
	AddStudySeconds(ctx context.Context, day string, n int64) error
	// Range returns the recorded days in [from, to], oldest first.
	// Days without study time are omitted.
	Range(ctx context.Context, from, to string) ([]DayStat, error)
	// All returns every recorded day, oldest first.
	All(ctx context.Context) ([]DayStat, error)
}

// StudySessionEventData captures one finished study phase.
type StudySessionEventData struct {
	SessionID    string
	Day          string
	DurationSecs int
	Skipped      bool
}

// StudySessionRecord is a persisted study session.
type StudySessionRecord struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	Day          string
	DurationSecs int
	Skipped      bool
}

// XPEventData captures one XP grant.
type XPEventData struct {
	Amount int
	Reason string
	Total  int
	Level  int
}

// XPEventRecord is a persisted XP grant.
type XPEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	Amount    int
	Reason    string
	Total     int
	Level     int
}

// AwardEventData captures an achievement award.
type AwardEventData struct {
	AwardType string
	Rarity    string
	Reason    string
}

// AwardEventRecord is a persisted award.
type AwardEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	AwardType string
	Rarity    string
	Reason    string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a persisted LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendStudySession(ctx context.Context, data StudySessionEventData) error
	QueryStudySessions(ctx context.Context, opts QueryOpts) ([]StudySessionRecord, error)
	// CompletedSessionCount counts non-skipped sessions recorded on day.
	CompletedSessionCount(ctx context.Context, day string) (int, error)

	AppendXP(ctx context.Context, data XPEventData) error
	QueryXPEvents(ctx context.Context, opts QueryOpts) ([]XPEventRecord, error)

	AppendAward(ctx context.Context, data AwardEventData) error
	QueryAwards(ctx context.Context, opts QueryOpts) ([]AwardEventRecord, error)
	// AwardCounts returns award counts by type and the overall total.
	AwardCounts(ctx context.Context) (map[string]int, int, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
	// GetLLMEvent returns the event with the given ID, or nil if missing.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
