package compliance

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/calendar"
)

// ts parses "2006-01-02 15:04:05" or "2006-01-02 15:04" in UTC.
func ts(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	panic("bad timestamp " + s)
}

func ev(kind punch.Kind, at string) punch.Event {
	return punch.Event{ID: string(kind) + "@" + at, SubjectID: "emp-1", Kind: kind, Timestamp: ts(at), Active: true}
}

func in(at string) punch.Event         { return ev(punch.KindClockIn, at) }
func out(at string) punch.Event        { return ev(punch.KindClockOut, at) }
func breakStart(at string) punch.Event { return ev(punch.KindBreakStart, at) }
func breakEnd(at string) punch.Event   { return ev(punch.KindBreakEnd, at) }

// shift is a clock-in/clock-out pair on one date.
func shift(date, from, to string) []punch.Event {
	return []punch.Event{in(date + " " + from), out(date + " " + to)}
}

func clock(s string) *calendar.Clock {
	c := calendar.MustParseClock(s)
	return &c
}

// officeWeek is Monday to Friday, 09:00 to 17:00.
func officeWeek() schedule.Week {
	week := make(schedule.Week)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		week[wd] = schedule.Day{
			Weekday: wd,
			Start:   calendar.MustParseClock("09:00"),
			End:     calendar.MustParseClock("17:00"),
			Working: true,
		}
	}
	return week
}

// officeRows is officeWeek as stored rows for the given dates.
func officeRows(start, end string) []schedule.Row {
	var rows []schedule.Row
	for _, d := range calendar.Days(calendar.MustParseDate(start), calendar.MustParseDate(end)) {
		row := schedule.Row{Date: d}
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			row.MorningStart = clock("09:00")
			row.MorningEnd = clock("12:00")
			row.AfternoonStart = clock("13:00")
			row.AfternoonEnd = clock("17:00")
			row.AfternoonEnabled = true
		}
		rows = append(rows, row)
	}
	return rows
}

func fixedNow(s string) func() time.Time {
	t := ts(s)
	return func() time.Time { return t }
}

func testRules() rules {
	return rules{th: DefaultThresholds(), night: DefaultNightWindow, loc: time.UTC, locale: LocaleEN}
}

func kinds(cs []alarm.Candidate) []alarm.Kind {
	out := make([]alarm.Kind, len(cs))
	for i, c := range cs {
		out[i] = c.Kind
	}
	return out
}

func dates(cs []alarm.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Date.String()
	}
	return out
}

// ========================================
// COLLABORATOR FAKES
// ========================================

type fakePunches struct {
	events []punch.Event
	err    error
	block  bool
	calls  atomic.Int32

	mu     sync.Mutex
	ranges []calendar.Range
}

func (f *fakePunches) FetchPunches(ctx context.Context, subjectID string, kind *punch.Kind, from, to time.Time) ([]punch.Event, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.ranges = append(f.ranges, calendar.Range{Start: from, End: to})
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}

	var out []punch.Event
	for _, e := range f.events {
		if e.SubjectID != subjectID {
			continue
		}
		if kind != nil && e.Kind != *kind {
			continue
		}
		if e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeSchedules struct {
	rows  map[string][]schedule.Row
	err   error
	calls atomic.Int32
}

func (f *fakeSchedules) FetchScheduleRows(_ context.Context, subjectID string, start, end calendar.Date) ([]schedule.Row, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	var out []schedule.Row
	for _, r := range f.rows[subjectID] {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeVacations struct {
	periods []leave.VacationPeriod
	err     error
}

func (f *fakeVacations) FetchVacations(_ context.Context, subjectID string, start, end calendar.Date) ([]leave.VacationPeriod, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []leave.VacationPeriod
	for _, v := range f.periods {
		if v.SubjectID == subjectID && !v.EndDate.Before(start) && !v.StartDate.After(end) {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeContracts struct {
	hours map[string]*float64
	err   error
}

func (f *fakeContracts) FetchWeeklyContractHours(_ context.Context, subjectID string) (*float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hours[subjectID], nil
}

type fakeEmployees struct {
	byID    map[string]employee.Employee
	listErr error
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployees) ListEvaluable(context.Context) ([]employee.Employee, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []employee.Employee
	for _, e := range f.byID {
		if e.HasSupervisor() {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeAlarms de-duplicates on the alarm key like the real store.
type fakeAlarms struct {
	mu       sync.Mutex
	stored   map[alarm.Key]alarm.Alarm
	seq      int
	notified []string
	err      error
}

func newFakeAlarms() *fakeAlarms {
	return &fakeAlarms{stored: make(map[alarm.Key]alarm.Alarm)}
}

func (f *fakeAlarms) UpsertCandidates(_ context.Context, companyID string, candidates []alarm.Candidate) ([]alarm.Alarm, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var inserted []alarm.Alarm
	for _, c := range candidates {
		if _, dup := f.stored[c.Key()]; dup {
			continue
		}
		f.seq++
		a := alarm.Alarm{ID: fmt.Sprintf("alarm-%d", f.seq), CompanyID: companyID, Candidate: c}
		f.stored[c.Key()] = a
		inserted = append(inserted, a)
	}
	return inserted, nil
}

func (f *fakeAlarms) List(_ context.Context, filter alarm.AlarmFilter) ([]alarm.Alarm, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []alarm.Alarm
	for _, a := range f.stored {
		if a.CompanyID == filter.CompanyID && (filter.SupervisorID == "" || a.SupervisorID == filter.SupervisorID) {
			all = append(all, a)
		}
	}
	total := int64(len(all))
	from := min((filter.Page-1)*filter.Limit, len(all))
	to := min(from+filter.Limit, len(all))
	return all[from:to], total, nil
}

func (f *fakeAlarms) MarkNotified(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, ids...)
	return nil
}

// fakeNotifier stores every queued request immediately unless storeFails is
// set, in which case nothing is ever persisted.
type fakeNotifier struct {
	mu         sync.Mutex
	queued     []notification.CreateNotificationRequest
	storeFails bool
}

func (f *fakeNotifier) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	f.mu.Lock()
	f.queued = append(f.queued, req)
	f.mu.Unlock()

	if !f.storeFails && req.OnPersisted != nil {
		req.OnPersisted(ctx)
	}
	return nil
}

func (f *fakeNotifier) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, r := range reqs {
		_ = f.QueueNotification(ctx, r)
	}
	return nil
}

func (f *fakeNotifier) Subscribe(context.Context, string) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	return ch, func() { close(ch) }
}

func (f *fakeNotifier) Stop() {}
