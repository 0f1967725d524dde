// Package capacity computes per-day booking capacity from the technician
// schedule: which express windows still have techs free, and a coarse
// capacity state used by the booking flow for pricing and date ordering.
package capacity

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bluepeak/home-services-platform/internal/housecall"
	"github.com/bluepeak/home-services-platform/pkg/logging"
)

// State is a coarse label summarizing how busy a given date is.
type State string

const (
	// StateFeeWaived means the date is wide open; the dispatch fee is waived
	// to fill the board.
	StateFeeWaived State = "FEE_WAIVED"
	// StateLimited means some windows remain but the board is filling up.
	StateLimited State = "LIMITED"
	// StateNextDay means the date is effectively full; callers are steered
	// to the next day.
	StateNextDay State = "NEXT_DAY"
)

// Window is a discrete schedulable time range with a known count of
// available technicians.
type Window struct {
	TimeSlot       string `json:"time_slot"`
	AvailableTechs int    `json:"available_techs"`
}

// Overall summarizes a date's capacity.
type Overall struct {
	Score int   `json:"score"`
	State State `json:"state"`
}

// Snapshot is the capacity picture for one calendar date.
type Snapshot struct {
	Overall        Overall  `json:"overall"`
	ExpressWindows []Window `json:"unique_express_windows"`
}

// Schedule is the slice of the CRM the calculator reads from.
type Schedule interface {
	JobsScheduledOn(ctx context.Context, date time.Time) ([]housecall.Job, error)
}

// windowSpec is one entry in the fixed express-window grid.
type windowSpec struct {
	label     string
	startHour int
	endHour   int
}

// The working day runs 08:00-19:00 split into four express windows. Window
// start times line up with the dispatcher's MORNING/MIDDAY/AFTERNOON/EVENING
// bucket anchors.
var windowGrid = []windowSpec{
	{"08:00 - 11:00", 8, 11},
	{"11:00 - 14:00", 11, 14},
	{"14:00 - 17:00", 14, 17},
	{"17:00 - 19:00", 17, 19},
}

// Calculator derives capacity snapshots from the live schedule. Snapshots
// are optionally cached; callers always get a fresh computation when the
// cache misses or is unavailable.
type Calculator struct {
	schedule  Schedule
	cache     *SnapshotCache
	headcount int
	logger    *logging.Logger
}

// NewCalculator creates a calculator over the given schedule. headcount is
// the number of dispatchable technicians; cache may be nil.
func NewCalculator(schedule Schedule, headcount int, cache *SnapshotCache, logger *logging.Logger) *Calculator {
	if logger == nil {
		logger = logging.Default()
	}
	if headcount < 1 {
		headcount = 1
	}
	return &Calculator{
		schedule:  schedule,
		cache:     cache,
		headcount: headcount,
		logger:    logger,
	}
}

// Calculate returns the capacity snapshot for a date. zip currently only
// keys the cache; service-area pricing by zip rides on the same snapshot.
func (c *Calculator) Calculate(ctx context.Context, date time.Time, zip string) (*Snapshot, error) {
	if c.cache != nil {
		if snap, ok := c.cache.Get(ctx, date, zip); ok {
			return snap, nil
		}
	}

	jobs, err := c.schedule.JobsScheduledOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("capacity: load schedule for %s: %w", date.Format("2006-01-02"), err)
	}

	snap := c.compute(date, jobs)

	if c.cache != nil {
		c.cache.Put(ctx, date, zip, snap)
	}
	return snap, nil
}

func (c *Calculator) compute(date time.Time, jobs []housecall.Job) *Snapshot {
	booked := make([]int, len(windowGrid))
	for _, job := range jobs {
		if job.ScheduledStart == nil {
			continue
		}
		hour := job.ScheduledStart.Hour()
		for i, w := range windowGrid {
			if hour >= w.startHour && hour < w.endHour {
				booked[i]++
				break
			}
		}
	}

	windows := make([]Window, 0, len(windowGrid))
	totalFree := 0
	for i, w := range windowGrid {
		free := c.headcount - booked[i]
		if free <= 0 {
			continue
		}
		totalFree += free
		windows = append(windows, Window{TimeSlot: w.label, AvailableTechs: free})
	}

	score := c.score(date, totalFree)
	return &Snapshot{
		Overall:        Overall{Score: score, State: stateFor(score, len(windows))},
		ExpressWindows: windows,
	}
}

// score maps free tech-windows to 0-100, damped on weekends when the crew
// runs lighter than the nominal headcount.
func (c *Calculator) score(date time.Time, totalFree int) int {
	max := c.headcount * len(windowGrid)
	raw := float64(totalFree) / float64(max)
	switch date.Weekday() {
	case time.Saturday:
		raw *= 0.8
	case time.Sunday:
		raw *= 0.6
	}
	return int(math.Round(raw * 100))
}

func stateFor(score, openWindows int) State {
	if openWindows == 0 {
		return StateNextDay
	}
	switch {
	case score >= 70:
		return StateFeeWaived
	case score >= 30:
		return StateLimited
	default:
		return StateNextDay
	}
}
