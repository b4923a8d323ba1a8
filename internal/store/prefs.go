package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Keys shared with the web app.
const (
	KeyAudioMuted    = "verbski-audio-muted"
	KeyDailyGoal     = "verbski-daily-goal"
	KeyDailyProgress = "verbski-daily-progress"
)

// Daily goal bounds.
const (
	DefaultDailyGoal = 5
	MinDailyGoal     = 1
	MaxDailyGoal     = 20
)

// Muted reports the persisted mute flag. Anything but "true" is unmuted.
func (s *Store) Muted() (bool, error) {
	v, _, err := s.Get(context.Background(), KeyAudioMuted)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetMuted persists the mute flag.
func (s *Store) SetMuted(muted bool) error {
	return s.Set(context.Background(), KeyAudioMuted, strconv.FormatBool(muted))
}

// DailyGoal returns the number of correct answers wanted per day.
// Missing or out-of-range values read as DefaultDailyGoal.
func (s *Store) DailyGoal(ctx context.Context) (int, error) {
	v, ok, err := s.Get(ctx, KeyDailyGoal)
	if err != nil || !ok {
		return DefaultDailyGoal, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < MinDailyGoal || n > MaxDailyGoal {
		return DefaultDailyGoal, nil
	}
	return n, nil
}

// SetDailyGoal clamps goal into range, stores it and returns the stored value.
func (s *Store) SetDailyGoal(ctx context.Context, goal int) (int, error) {
	goal = max(MinDailyGoal, min(MaxDailyGoal, goal))
	return goal, s.Set(ctx, KeyDailyGoal, strconv.Itoa(goal))
}

type dailyProgress struct {
	Date    string `json:"date"`
	Correct int    `json:"correct"`
}

func day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// DailyProgress returns the correct answers recorded on today's date.
// A record from any other day reads as zero.
func (s *Store) DailyProgress(ctx context.Context, today time.Time) (int, error) {
	v, ok, err := s.Get(ctx, KeyDailyProgress)
	if err != nil || !ok {
		return 0, err
	}
	var p dailyProgress
	if err := json.Unmarshal([]byte(v), &p); err != nil {
		log.Warn("ignoring unreadable daily progress", "value", v, "error", err)
		return 0, nil
	}
	if p.Date != day(today) {
		return 0, nil
	}
	return p.Correct, nil
}

// RecordCorrect adds one correct answer for today and returns the new count.
func (s *Store) RecordCorrect(ctx context.Context, today time.Time) (int, error) {
	n, err := s.DailyProgress(ctx, today)
	if err != nil {
		return 0, err
	}
	n++
	b, err := json.Marshal(dailyProgress{Date: day(today), Correct: n})
	if err != nil {
		return 0, err
	}
	return n, s.Set(ctx, KeyDailyProgress, string(b))
}
