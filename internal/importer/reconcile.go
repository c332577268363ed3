package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"github.com/wurt83ow/worktravel/internal/workday"
	"github.com/wurt83ow/worktravel/internal/workerpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MaxReportedErrors caps the error list of an import result.
const MaxReportedErrors = 10

// StatusKeywords are the labels that turn a city cell into a rest day.
var StatusKeywords = []string{"Riposo", "Festivo", "Compleanno", "Riunione", "Ferie", "Malattia"}

// RowState is the terminal state of an imported row.
type RowState int

const (
	Pending RowState = iota
	SkippedDuplicate
	SkippedEmpty
	RestDay
	WorkDay
	Failed
)

func (s RowState) String() string {
	switch s {
	case SkippedDuplicate:
		return "skipped (duplicate)"
	case SkippedEmpty:
		return "skipped (empty)"
	case RestDay:
		return "rest day"
	case WorkDay:
		return "work day"
	case Failed:
		return "failed"
	}

	return "pending"
}

type Log interface {
	Info(string, ...zapcore.Field)
}

// Writer stores the accepted rows in one call.
type Writer interface {
	PutWorkdays(context.Context, []models.Workday) error
}

// Batch is one import request.
type Batch struct {
	Rows   []models.ImportRow
	UserID string
	// ExistingDates is a snapshot of the user's stored ISO dates taken before the scan.
	ExistingDates map[string]struct{}
	Cities        workday.Directory
	Settings      models.Settings
}

// RowOutcome is the evaluation of a single row.
type RowOutcome struct {
	Line    int
	State   RowState
	Workday models.Workday
	Err     error
}

type Reconciler struct {
	writer      Writer
	concurrency int
	log         Log
}

func NewReconciler(writer Writer, concurrency int, log Log) *Reconciler {
	return &Reconciler{
		writer:      writer,
		concurrency: concurrency,
		log:         log,
	}
}

// ImportBatch evaluates every row, then inserts the accepted ones with a
// single batch write. A failing row never aborts the batch.
func (r *Reconciler) ImportBatch(ctx context.Context, b Batch) (models.ImportResult, error) {
	outcomes := r.Evaluate(b)

	res := models.ImportResult{
		Message:  "Import completato",
		RowsRead: len(b.Rows),
		Errors:   []string{},
	}

	var (
		accepted []models.Workday
		seen     = make(map[string]struct{})
	)

	for _, o := range outcomes {
		switch o.State {
		case SkippedDuplicate, SkippedEmpty:
			res.Skipped++
		case Failed:
			res.Errors = append(res.Errors, fmt.Sprintf("Riga %d: %v", o.Line, o.Err))
		case RestDay, WorkDay:
			// the same date twice in one file: first row wins
			if _, dup := seen[o.Workday.Date]; dup {
				res.Skipped++
				continue
			}
			seen[o.Workday.Date] = struct{}{}
			accepted = append(accepted, o.Workday)
		}
	}

	if len(accepted) > 0 {
		if err := r.writer.PutWorkdays(ctx, accepted); err != nil {
			r.log.Info("batch insert failed: ", zap.Error(err))
			res.Errors = append(res.Errors, fmt.Sprintf("Errore batch insert: %v", err))

			var pe *storage.PartialWriteError
			if errors.As(err, &pe) {
				res.Imported = pe.Written
			}
		} else {
			res.Imported = len(accepted)
		}
	}

	if len(res.Errors) > MaxReportedErrors {
		res.Errors = res.Errors[:MaxReportedErrors]
	}

	r.log.Info("import finished",
		zap.String("user_id", b.UserID),
		zap.Int("rows_read", res.RowsRead),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", len(res.Errors)))

	return res, nil
}

// Evaluate runs every row through the worker pool and returns the outcomes in row order.
func (r *Reconciler) Evaluate(b Batch) []RowOutcome {
	outcomes := make([]RowOutcome, len(b.Rows))

	tasks := make([]*workerpool.Task, len(b.Rows))
	for i := range b.Rows {
		tasks[i] = workerpool.NewTask(func(data interface{}) error {
			idx := data.(int)
			outcomes[idx] = r.evaluateRow(b, b.Rows[idx], idx)
			return outcomes[idx].Err
		}, i)
	}

	pool := workerpool.NewPool(tasks, r.concurrency, r.log)
	pool.Run()

	if errs := pool.Errors(); len(errs) > 0 {
		r.log.Info("rows rejected", zap.Int("count", len(errs)), zap.Error(errs[0]))
	}

	return outcomes
}

func (r *Reconciler) evaluateRow(b Batch, row models.ImportRow, idx int) RowOutcome {
	out := RowOutcome{Line: row.Line, State: Pending}
	if out.Line == 0 {
		out.Line = idx + 1
	}

	fail := func(err error) RowOutcome {
		out.State = Failed
		out.Err = err
		return out
	}

	if strings.TrimSpace(row.Date) == "" {
		out.State = SkippedEmpty
		return out
	}

	date, err := workday.NormalizeDate(row.Date)
	if err != nil {
		return fail(err)
	}

	if _, exists := b.ExistingDates[date]; exists {
		out.State = SkippedDuplicate
		return out
	}

	city := strings.TrimSpace(row.City)
	status := strings.Trim(row.Status, "- ")

	if kw, ok := MatchKeyword(city); ok {
		status = kw
		city = ""
	}

	var wd models.Workday

	switch {
	case status != "":
		wd, err = workday.RestDay(date, status)
		out.State = RestDay
	case city != "":
		wd, err = workday.Derive(date, city, b.Cities, b.Settings)
		if err == nil {
			r.overlayObserved(&wd, row)
		}
		out.State = WorkDay
	default:
		out.State = SkippedEmpty
		return out
	}

	if err != nil {
		return fail(err)
	}

	wd.ID = uuid.New().String()
	wd.UserID = b.UserID
	wd.CreatedAt = time.Now()
	out.Workday = wd

	return out
}

// overlayObserved keeps the sheet's store times as actual punches when they
// differ from the derived schedule.
func (r *Reconciler) overlayObserved(wd *models.Workday, row models.ImportRow) {
	pairs := []struct {
		sheet   string
		derived string
		dst     *string
	}{
		{row.ArrivalAtStore, wd.ArrivalAtStore, &wd.ActualArrivalAtStore},
		{row.ExitFromStore, wd.ExitFromStore, &wd.ActualExitFromStore},
		{row.ReturnHome, wd.ReturnHome, &wd.ActualReturnHome},
	}

	for _, p := range pairs {
		m, err := workday.ParseClock(p.sheet)
		if err != nil {
			continue
		}
		if v := workday.FormatClock(m); v != p.derived {
			*p.dst = v
		}
	}

	if row.MinutesOutbound != 0 && row.MinutesOutbound != wd.TravelMinutesOutbound {
		r.log.Info("imported travel minutes differ from city directory",
			zap.String("date", wd.Date),
			zap.Int("sheet", row.MinutesOutbound),
			zap.Int("derived", wd.TravelMinutesOutbound))
	}
}

// MatchKeyword finds a reserved status keyword inside a city cell, ignoring case.
func MatchKeyword(city string) (string, bool) {
	lower := strings.ToLower(city)
	for _, kw := range StatusKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw, true
		}
	}

	return "", false
}
