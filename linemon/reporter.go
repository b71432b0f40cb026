package linemon

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/timberwise/sortline/protocol"
)

// Reporter receives run telemetry. *Client posts it to the line
// monitor; Noop discards it.
type Reporter interface {
	StartRun(ctx context.Context, startedAt time.Time) (string, error)
	AddBoard(ctx context.Context, board Board) error
	AddFault(ctx context.Context, fault Fault) error
	AddModeChange(ctx context.Context, change ModeChange) error
	Done(ctx context.Context) error
}

type noopReporter struct{}

var _ Reporter = noopReporter{}

// Noop returns a Reporter that discards all telemetry
func Noop() Reporter {
	return noopReporter{}
}

// AddBoard implements Reporter.
func (n noopReporter) AddBoard(ctx context.Context, board Board) error {
	return nil
}

// AddFault implements Reporter.
func (n noopReporter) AddFault(ctx context.Context, fault Fault) error {
	return nil
}

// AddModeChange implements Reporter.
func (n noopReporter) AddModeChange(ctx context.Context, change ModeChange) error {
	return nil
}

// Done implements Reporter.
func (n noopReporter) Done(ctx context.Context) error {
	return nil
}

// StartRun implements Reporter.
func (n noopReporter) StartRun(ctx context.Context, startedAt time.Time) (string, error) {
	return "", nil
}

const requestTimeout = 5 * time.Second

// Recorder translates the controller's outbound lines into reporter
// calls. It is fed from the runner's output tee, outside the tick
// loop, so a slow line monitor never stalls the line itself.
type Recorder struct {
	reporter  Reporter
	lastFault string
	lastMode  string
}

func NewRecorder(r Reporter) *Recorder {
	return &Recorder{reporter: r}
}

// HandleLine inspects one outbound line. The ready banner opens the
// run, measurement lines become boards, and pause lines become faults.
// SYSTEM_PAUSED repeats as a heartbeat while paused, so consecutive
// pauses of the same type are reported once.
func (rec *Recorder) HandleLine(line string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch {
	case line == protocol.ReadyBanner:
		if _, err := rec.reporter.StartRun(ctx, time.Now()); err != nil {
			slog.Warn("starting line-monitor run", "error", err)
		}
	case strings.HasPrefix(line, "L:"):
		board, err := ParseBoardLine(line)
		if err != nil {
			slog.Warn("parsing measurement line", "line", line, "error", err)
			return
		}
		if err := rec.reporter.AddBoard(ctx, board); err != nil {
			slog.Warn("reporting board", "error", err)
		}
	case strings.HasPrefix(line, "SYSTEM_PAUSED:"):
		errType := strings.TrimPrefix(line, "SYSTEM_PAUSED:")
		if errType == rec.lastFault {
			return
		}
		rec.lastFault = errType

		if err := rec.reporter.AddFault(ctx, Fault{Type: errType, RaisedAt: time.Now()}); err != nil {
			slog.Warn("reporting fault", "error", err)
		}
	case strings.HasPrefix(line, "ERROR_CLEARED:"):
		rec.lastFault = ""
	case strings.HasPrefix(line, "SYSTEM_STATUS:mode="):
		mode, _, _ := strings.Cut(strings.TrimPrefix(line, "SYSTEM_STATUS:mode="), ",")
		if mode == rec.lastMode {
			return
		}
		rec.lastMode = mode

		if err := rec.reporter.AddModeChange(ctx, ModeChange{Mode: mode, At: time.Now()}); err != nil {
			slog.Warn("reporting mode change", "error", err)
		}
	}
}

// Close ends the run
func (rec *Recorder) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return rec.reporter.Done(ctx)
}

// ParseBoardLine reads one "L:..." measurement line into a Board
func ParseBoardLine(line string) (Board, error) {
	board := Board{MeasuredAt: time.Now()}

	_, err := fmt.Sscanf(line, "L:%d ms (Adjusted: %d ms) | Length: %f in", &board.RawMs, &board.AdjustedMs, &board.LengthIn)
	if err != nil {
		return Board{}, fmt.Errorf("error parsing measurement: %w", err)
	}

	return board, nil
}
