package compliance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

// Sources groups the stores the rules read from.
type Sources struct {
	Punches   punch.Repository
	Vacations leave.VacationRepository
	Contracts employee.ContractRepository
}

// Options tunes an Evaluator. Zero values fall back to defaults.
type Options struct {
	Thresholds  *Thresholds
	Location    *time.Location
	Locale      Locale
	ReadTimeout time.Duration
	Now         func() time.Time
}

// Evaluator runs the individual compliance rules. Every rule reads its own
// inputs and returns nil when a read fails, times out or is cancelled.
type Evaluator struct {
	src         Sources
	rules       rules
	readTimeout time.Duration
	now         func() time.Time
}

// rules is the pure half of the evaluator: no reads, only arithmetic over
// already fetched records.
type rules struct {
	th     Thresholds
	night  NightWindow
	loc    *time.Location
	locale Locale
}

func NewEvaluator(src Sources, opts Options) *Evaluator {
	th := DefaultThresholds()
	if opts.Thresholds != nil {
		th = *opts.Thresholds
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Locale == "" {
		opts.Locale = LocaleEN
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Evaluator{
		src: src,
		rules: rules{
			th:     th,
			night:  th.Night(),
			loc:    opts.Location,
			locale: opts.Locale,
		},
		readTimeout: opts.ReadTimeout,
		now:         opts.Now,
	}
}

// Now returns the evaluator's current time in its location.
func (e *Evaluator) Now() time.Time {
	return e.now().In(e.rules.loc)
}

// Location is the zone civil dates are interpreted in.
func (e *Evaluator) Location() *time.Location {
	return e.rules.loc
}

// read runs fetch under the per-read timeout. Failures and cancellation are
// logged and reported as !ok.
func read[T any](ctx context.Context, e *Evaluator, rule alarm.Kind, subjectID string, fetch func(context.Context) (T, error)) (T, bool) {
	var zero T

	readCtx, cancel := context.WithTimeout(ctx, e.readTimeout)
	defer cancel()

	out, err := fetch(readCtx)
	if err == nil {
		err = readCtx.Err()
	}
	if err != nil {
		logger.WarnKV(ctx, "compliance rule skipped",
			"rule", string(rule),
			"employee_id", subjectID,
			"error", err.Error(),
		)
		return zero, false
	}
	return out, true
}

func (e *Evaluator) punches(ctx context.Context, rule alarm.Kind, subjectID string, kind *punch.Kind, r calendar.Range) ([]punch.Event, bool) {
	return read(ctx, e, rule, subjectID, func(ctx context.Context) ([]punch.Event, error) {
		return e.src.Punches.FetchPunches(ctx, subjectID, kind, r.Start, r.End)
	})
}

// paddedRange starts a day early so sessions that began the previous evening
// are rebuilt whole before clipping.
func (e *Evaluator) paddedRange(start, end calendar.Date) calendar.Range {
	return calendar.DatesRange(start.AddDays(-1), end, e.rules.loc)
}

// ========================================
// RULES
// ========================================

func (e *Evaluator) LateClockIns(ctx context.Context, subjectID string, week schedule.Week, start, end calendar.Date) []alarm.Candidate {
	kind := punch.KindClockIn
	events, ok := e.punches(ctx, alarm.KindLateClockIn, subjectID, &kind, calendar.DatesRange(start, end, e.rules.loc))
	if !ok {
		return nil
	}
	return e.rules.lateClockIns(subjectID, events, week, start, end)
}

func (e *Evaluator) MissedClockIns(ctx context.Context, subjectID string, week schedule.Week, start, end calendar.Date) []alarm.Candidate {
	kind := punch.KindClockIn
	events, ok := e.punches(ctx, alarm.KindMissedClockIn, subjectID, &kind, calendar.DatesRange(start, end, e.rules.loc))
	if !ok {
		return nil
	}
	return e.rules.missedClockIns(subjectID, events, week, start, end, e.Now())
}

func (e *Evaluator) MissedClockOuts(ctx context.Context, subjectID string, week schedule.Week, start, end calendar.Date) []alarm.Candidate {
	// Overnight shifts clock out on the following date.
	events, ok := e.punches(ctx, alarm.KindMissedClockOut, subjectID, nil, calendar.DatesRange(start, end.AddDays(1), e.rules.loc))
	if !ok {
		return nil
	}
	return e.rules.missedClockOuts(subjectID, events, week, start, end, e.Now())
}

func (e *Evaluator) Overtime(ctx context.Context, subjectID string, week schedule.Week, start, end calendar.Date) []alarm.Candidate {
	events, ok := e.punches(ctx, alarm.KindOvertime, subjectID, nil, e.paddedRange(start, end))
	if !ok {
		return nil
	}
	now := e.Now()
	return e.rules.overtime(subjectID, e.rules.segments(events, now), week, start, end)
}

func (e *Evaluator) Shortfall(ctx context.Context, subjectID string, week schedule.Week, start, end calendar.Date) []alarm.Candidate {
	events, ok := e.punches(ctx, alarm.KindWorkShortfall, subjectID, nil, e.paddedRange(start, end))
	if !ok {
		return nil
	}
	now := e.Now()
	return e.rules.shortfall(subjectID, e.rules.segments(events, now), week, start, end, now)
}

func (e *Evaluator) WorkedVacation(ctx context.Context, subjectID string, start, end calendar.Date) []alarm.Candidate {
	vacations, ok := read(ctx, e, alarm.KindWorkedVacation, subjectID, func(ctx context.Context) ([]leave.VacationPeriod, error) {
		return e.src.Vacations.FetchVacations(ctx, subjectID, start, end)
	})
	if !ok || len(vacations) == 0 {
		return nil
	}

	events, ok := e.punches(ctx, alarm.KindWorkedVacation, subjectID, nil, e.paddedRange(start, end))
	if !ok {
		return nil
	}
	now := e.Now()
	return e.rules.workedVacation(subjectID, e.rules.segments(events, now), vacations, start, end)
}

func (e *Evaluator) WeeklyLimit(ctx context.Context, subjectID string, start, end calendar.Date) []alarm.Candidate {
	firstMonday := calendar.WeekStart(start)
	lastSunday := calendar.WeekStart(end).AddDays(6)

	events, ok := e.punches(ctx, alarm.KindWeeklyLimitExceeded, subjectID, nil, e.paddedRange(firstMonday, lastSunday))
	if !ok {
		return nil
	}
	now := e.Now()
	return e.rules.weeklyLimit(subjectID, e.rules.segments(events, now), start, end)
}

// AnnualLimit checks year-to-date hours of year, or the whole year when it is
// already over, against the contracted weekly hours times the weeks per year.
func (e *Evaluator) AnnualLimit(ctx context.Context, subjectID string, year int) []alarm.Candidate {
	weekly, ok := read(ctx, e, alarm.KindAnnualLimitExceeded, subjectID, func(ctx context.Context) (*float64, error) {
		return e.src.Contracts.FetchWeeklyContractHours(ctx, subjectID)
	})
	if !ok || weekly == nil || *weekly <= 0 {
		return nil
	}

	now := e.Now()
	window, ok := e.rules.yearWindow(year, now)
	if !ok {
		return nil
	}

	events, ok := e.punches(ctx, alarm.KindAnnualLimitExceeded, subjectID, nil, e.paddedRange(calendar.YearStart(year), calendar.DateOf(window.End)))
	if !ok {
		return nil
	}
	return e.rules.annualLimit(subjectID, e.rules.segments(events, now), *weekly, year, window)
}

// ========================================
// PURE RULE FUNCTIONS
// ========================================

func (r rules) candidate(kind alarm.Kind, subjectID string, date calendar.Date, hoursInvolved float64, f facts) alarm.Candidate {
	f.Date = date
	f.Hours = hoursInvolved
	return alarm.Candidate{
		Kind:          kind,
		SubjectID:     subjectID,
		Date:          date,
		Description:   r.locale.describe(kind, f),
		HoursInvolved: hoursInvolved,
	}
}

// segments rebuilds the sessions with every punch read in r.loc, so the
// end-of-day cut and the night window follow the configured zone.
func (r rules) segments(events []punch.Event, now time.Time) []Segment {
	local := make([]punch.Event, len(events))
	for i, e := range events {
		e.Timestamp = e.Timestamp.In(r.loc)
		local[i] = e
	}
	return BuildSegments(local, now.In(r.loc))
}

// firstClockIns maps each local date to its earliest active clock-in.
func (r rules) firstClockIns(events []punch.Event) map[calendar.Date]time.Time {
	first := make(map[calendar.Date]time.Time)
	for _, e := range events {
		if !e.Active || e.Kind != punch.KindClockIn {
			continue
		}
		ts := e.Timestamp.In(r.loc)
		date := calendar.DateOf(ts)
		if cur, ok := first[date]; !ok || ts.Before(cur) {
			first[date] = ts
		}
	}
	return first
}

func (r rules) lateClockIns(subjectID string, events []punch.Event, week schedule.Week, start, end calendar.Date) []alarm.Candidate {
	first := r.firstClockIns(events)

	var out []alarm.Candidate
	for _, date := range calendar.Days(start, end) {
		day, working := week.WorkingOn(date)
		if !working {
			continue
		}
		ts, ok := first[date]
		if !ok {
			continue
		}

		delay := ts.Sub(day.StartOn(date, r.loc))
		if delay <= r.th.LateGrace {
			continue
		}
		h := float64(delay.Milliseconds()) / msPerHour
		out = append(out, r.candidate(alarm.KindLateClockIn, subjectID, date, h, facts{Start: day.Start, End: day.End}))
	}
	return out
}

func (r rules) missedClockIns(subjectID string, events []punch.Event, week schedule.Week, start, end calendar.Date, now time.Time) []alarm.Candidate {
	first := r.firstClockIns(events)
	today := calendar.DateOf(now.In(r.loc))

	var out []alarm.Candidate
	for _, date := range calendar.Days(start, end) {
		if !date.Before(today) {
			break
		}
		day, working := week.WorkingOn(date)
		if !working {
			continue
		}
		if _, ok := first[date]; ok {
			continue
		}
		out = append(out, r.candidate(alarm.KindMissedClockIn, subjectID, date, 0, facts{Start: day.Start, End: day.End}))
	}
	return out
}

func (r rules) missedClockOuts(subjectID string, events []punch.Event, week schedule.Week, start, end calendar.Date, now time.Time) []alarm.Candidate {
	first := r.firstClockIns(events)

	var out []alarm.Candidate
	for _, date := range calendar.Days(start, end) {
		day, working := week.WorkingOn(date)
		if !working {
			continue
		}
		clockIn, ok := first[date]
		if !ok {
			continue
		}

		scheduledEnd := day.EndOn(date, r.loc)
		if !now.After(scheduledEnd.Add(r.th.MissedClockOutGrace)) {
			continue
		}

		// A clock-out belongs to the shift when it follows the first clock-in
		// and falls no later than the end of the scheduled end's date.
		closing := calendar.EndOfDay(scheduledEnd)
		clockedOut := false
		for _, e := range events {
			if !e.Active || e.Kind != punch.KindClockOut {
				continue
			}
			if !e.Timestamp.Before(clockIn) && !e.Timestamp.After(closing) {
				clockedOut = true
				break
			}
		}
		if clockedOut {
			continue
		}
		out = append(out, r.candidate(alarm.KindMissedClockOut, subjectID, date, 0, facts{Start: day.Start, End: day.End}))
	}
	return out
}

func (r rules) workedOn(segments []Segment, date calendar.Date) int64 {
	window := calendar.DayRange(date, r.loc)
	return SumSegments(segments, &window, r.night).WorkedMs
}

func (r rules) overtime(subjectID string, segments []Segment, week schedule.Week, start, end calendar.Date) []alarm.Candidate {
	tolerance := r.th.OvertimeTolerance.Milliseconds()

	var out []alarm.Candidate
	for _, date := range calendar.Days(start, end) {
		scheduled := week.ScheduledMsOn(date)
		worked := r.workedOn(segments, date)
		if worked <= scheduled+tolerance {
			continue
		}
		day, _ := week.WorkingOn(date)
		out = append(out, r.candidate(alarm.KindOvertime, subjectID, date, float64(worked-scheduled)/msPerHour, facts{
			Start:     day.Start,
			End:       day.End,
			Worked:    float64(worked) / msPerHour,
			Scheduled: float64(scheduled) / msPerHour,
		}))
	}
	return out
}

func (r rules) shortfall(subjectID string, segments []Segment, week schedule.Week, start, end calendar.Date, now time.Time) []alarm.Candidate {
	tolerance := r.th.ShortfallTolerance.Milliseconds()
	today := calendar.DateOf(now.In(r.loc))

	var out []alarm.Candidate
	for _, date := range calendar.Days(start, end) {
		if !date.Before(today) {
			break
		}
		day, working := week.WorkingOn(date)
		if !working {
			continue
		}
		scheduled := day.ScheduledMs()
		worked := r.workedOn(segments, date)
		if worked >= scheduled-tolerance {
			continue
		}
		out = append(out, r.candidate(alarm.KindWorkShortfall, subjectID, date, float64(scheduled-worked)/msPerHour, facts{
			Start:     day.Start,
			End:       day.End,
			Worked:    float64(worked) / msPerHour,
			Scheduled: float64(scheduled) / msPerHour,
		}))
	}
	return out
}

func (r rules) workedVacation(subjectID string, segments []Segment, vacations []leave.VacationPeriod, start, end calendar.Date) []alarm.Candidate {
	onVacation := func(date calendar.Date) bool {
		for _, v := range vacations {
			if v.Covers(date) {
				return true
			}
		}
		return false
	}

	var out []alarm.Candidate
	for _, date := range calendar.Days(start, end) {
		if !onVacation(date) {
			continue
		}
		worked := r.workedOn(segments, date)
		if worked <= 0 {
			continue
		}
		out = append(out, r.candidate(alarm.KindWorkedVacation, subjectID, date, float64(worked)/msPerHour, facts{}))
	}
	return out
}

func (r rules) weeklyLimit(subjectID string, segments []Segment, start, end calendar.Date) []alarm.Candidate {
	limitMs := decimal.NewFromFloat(r.th.WeeklyLimitHours).Mul(decimal.NewFromFloat(msPerHour)).IntPart()
	seen := make(map[calendar.Date]struct{})

	var out []alarm.Candidate
	for _, date := range calendar.Days(start, end) {
		monday := calendar.WeekStart(date)
		if _, dup := seen[monday]; dup {
			continue
		}
		seen[monday] = struct{}{}

		window := calendar.WeekRange(monday, r.loc)
		worked := SumSegments(segments, &window, r.night).WorkedMs
		if worked <= limitMs {
			continue
		}
		out = append(out, r.candidate(alarm.KindWeeklyLimitExceeded, subjectID, monday, float64(worked-limitMs)/msPerHour, facts{
			Worked: float64(worked) / msPerHour,
			Limit:  r.th.WeeklyLimitHours,
		}))
	}
	return out
}

// yearWindow is January 1st through now for the running year and the whole
// year for past years. Future years have nothing to measure.
func (r rules) yearWindow(year int, now time.Time) (calendar.Range, bool) {
	window := calendar.DatesRange(calendar.YearStart(year), calendar.YearEnd(year), r.loc)
	if now.Before(window.Start) {
		return calendar.Range{}, false
	}
	if now.Before(window.End) {
		window.End = now
	}
	return window, true
}

func (r rules) annualLimit(subjectID string, segments []Segment, weeklyHours float64, year int, window calendar.Range) []alarm.Candidate {
	limit := decimal.NewFromFloat(weeklyHours).Mul(decimal.NewFromInt(int64(r.th.WeeksPerYear)))
	limitMs := limit.Mul(decimal.NewFromFloat(msPerHour)).IntPart()

	worked := SumSegments(segments, &window, r.night).WorkedMs
	if worked <= limitMs {
		return nil
	}

	limitHours, _ := limit.Float64()
	return []alarm.Candidate{
		r.candidate(alarm.KindAnnualLimitExceeded, subjectID, calendar.YearStart(year), float64(worked-limitMs)/msPerHour, facts{
			Worked: float64(worked) / msPerHour,
			Limit:  limitHours,
			Year:   year,
		}),
	}
}
