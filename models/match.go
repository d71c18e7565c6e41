package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCanceled   MatchStatus = "canceled"
)

// Match is one match-play match of a session. The score columns are a
// snapshot of the replayed hole results, refreshed in the same transaction
// that records a hole; hole_results stays the source of truth.
type Match struct {
	ID         int         `json:"id" db:"id"`
	SessionID  int         `json:"session_id" db:"session_id"`
	MatchNo    int         `json:"match_no" db:"match_no"`
	TotalHoles int         `json:"total_holes" db:"total_holes"`
	Status     MatchStatus `json:"status" db:"status"`
	Score      int         `json:"score" db:"score"`
	Thru       int         `json:"thru" db:"thru"`
	Dormie     bool        `json:"dormie" db:"dormie"`
	Winner     *string     `json:"winner,omitempty" db:"winner"`
	Display    string      `json:"display" db:"display"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	Players []MatchPlayer `json:"players,omitempty" db:"-"`
	Holes   []HoleResult  `json:"holes,omitempty" db:"-"`
	Presses []Press       `json:"presses,omitempty" db:"-"`
}

// MatchPlayer seats a player on a side with the strokes the card gives them.
// Strokes caches the per-hole allocation computed when the match was created.
type MatchPlayer struct {
	ID              int     `json:"id" db:"id"`
	MatchID         int     `json:"match_id" db:"match_id"`
	UserID          int     `json:"user_id" db:"user_id"`
	Side            string  `json:"side" db:"side"`
	CourseHandicap  int     `json:"course_handicap" db:"course_handicap"`
	Strokes         []int64 `json:"strokes" db:"strokes"`
	DisplayName     string  `json:"display_name" db:"-"`
	HandicapAtDraft float64 `json:"handicap_at_draft" db:"handicap_at_draft"`

	User *User `json:"user,omitempty" db:"-"`
}

func (p MatchPlayer) StrokesInts() []int {
	return toInts(p.Strokes)
}

// HoleResult is one decided hole. Winner holds side_a, side_b or halved.
type HoleResult struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	Hole      int       `json:"hole" db:"hole"`
	Winner    string    `json:"winner" db:"winner"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Scores []HoleScore `json:"scores,omitempty" db:"-"`
}

// HoleScore is one player's gross on a decided hole, with the strokes they
// received there.
type HoleScore struct {
	ID           int  `json:"id" db:"id"`
	HoleResultID int  `json:"hole_result_id" db:"hole_result_id"`
	UserID       int  `json:"user_id" db:"user_id"`
	Gross        int  `json:"gross" db:"gross"`
	Strokes      int  `json:"strokes" db:"strokes"`
	CountedBest  bool `json:"counted_best" db:"counted_best"`
}

// Press is a side bet riding on a match from a start hole to the end of the
// round. Its standing is always recomputed from the parent match's holes.
type Press struct {
	ID            int       `json:"id" db:"id"`
	MatchID       int       `json:"match_id" db:"match_id"`
	ParentPressID *int      `json:"parent_press_id,omitempty" db:"parent_press_id"`
	Side          string    `json:"side" db:"side"`
	StartHole     int       `json:"start_hole" db:"start_hole"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Score   int     `json:"score" db:"-"`
	Thru    int     `json:"thru" db:"-"`
	Closed  bool    `json:"closed" db:"-"`
	Winner  *string `json:"winner,omitempty" db:"-"`
	Display string  `json:"display" db:"-"`
}
