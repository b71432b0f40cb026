package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.bug.st/serial"

	"github.com/timberwise/sortline/controller"
	"github.com/timberwise/sortline/linemon"
	"github.com/timberwise/sortline/monitor"
	"github.com/timberwise/sortline/sim"
)

type config struct {
	Port        string `env:"SORTLINE_PORT" envDefault:"/dev/ttyACM0"`
	Baud        int    `env:"SORTLINE_BAUD" envDefault:"115200"`
	HTTPAddr    string `env:"SORTLINE_HTTP_ADDR" envDefault:":8080"`
	LinemonAddr string `env:"SORTLINE_LINEMON_ADDR"`
}

const (
	snapshotInterval = 250 * time.Millisecond
	demoBoardLength  = 26.0
)

func main() {
	var simMode, gpioMode bool
	var portFlag string
	var boardEvery time.Duration
	flag.BoolVar(&simMode, "sim", false, "run against the simulated line instead of a serial port")
	flag.BoolVar(&gpioMode, "gpio", false, "drive the line hardware directly over GPIO")
	flag.StringVar(&portFlag, "port", "", "serial port (overrides SORTLINE_PORT)")
	flag.DurationVar(&boardEvery, "board-every", 0, "in sim mode, feed a board at this interval")
	flag.Parse()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parsing environment", "error", err)
		os.Exit(1)
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}

	reporter := linemon.Noop()
	if cfg.LinemonAddr != "" {
		reporter = linemon.NewClient(cfg.LinemonAddr)
	}
	rec := linemon.NewRecorder(reporter)
	defer rec.Close()

	mon := monitor.New()
	go func() {
		slog.Info("monitor listening", "addr", cfg.HTTPAddr)
		if err := http.ListenAndServe(cfg.HTTPAddr, mon.Handler()); err != nil {
			slog.Error("monitor server", "error", err)
		}
	}()

	var err error
	switch {
	case simMode && gpioMode:
		err = errors.New("-sim and -gpio are mutually exclusive")
	case simMode:
		err = runSim(mon, rec, boardEvery)
	case gpioMode:
		err = runGPIO(mon, rec)
	default:
		err = runSerial(cfg, mon, rec)
	}
	if err != nil {
		slog.Error("runner stopped", "error", err)
		os.Exit(1)
	}
}

// runSerial bridges the console to the controller board: stdin goes
// down the port, the board's lines come back to stdout and fan out to
// the monitor and the line-monitor recorder.
func runSerial(cfg config, mon *monitor.Server, rec *linemon.Recorder) error {
	mode := &serial.Mode{BaudRate: cfg.Baud}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.Port, err)
	}
	defer port.Close()

	slog.Info("connected", "port", cfg.Port, "baud", cfg.Baud)

	go func() {
		if _, err := io.Copy(port, os.Stdin); err != nil {
			slog.Warn("stdin relay", "error", err)
		}
	}()

	tee := newLineTee(os.Stdout, mon.PublishLine, rec.HandleLine)
	_, err = io.Copy(tee, port)
	return err
}

// runSim runs the control core in-process against the software line.
// Commands still arrive on stdin; boards arrive on a timer when
// -board-every is set.
func runSim(mon *monitor.Server, rec *linemon.Recorder, boardEvery time.Duration) error {
	line := sim.NewLine(0)
	slog.Info("simulated line running", "board_every", boardEvery)

	feed := func() { line.FeedBoard(demoBoardLength) }
	return runLoop(controller.Hardware{Drive: line, Gates: line, Beam: line},
		mon, rec, boardEvery, feed)
}

// runGPIO runs the control core against the real line over the GPIO
// header. Only built for linux; elsewhere openHardware reports that.
func runGPIO(mon *monitor.Server, rec *linemon.Recorder) error {
	hw, cleanup, err := openHardware()
	if err != nil {
		return err
	}
	defer cleanup()

	slog.Info("gpio line running")
	return runLoop(hw, mon, rec, 0, nil)
}

// runLoop is the in-process control loop shared by the sim and gpio
// modes: stdin feeds the command channel, the controller ticks at 1ms,
// and snapshots go to the monitor from the loop goroutine.
func runLoop(hw controller.Hardware, mon *monitor.Server, rec *linemon.Recorder, boardEvery time.Duration, feedBoard func()) error {
	tee := newLineTee(os.Stdout, mon.PublishLine, rec.HandleLine)

	ctrl, err := controller.New(controller.DefaultConfig(), hw, tee, nil)
	if err != nil {
		return err
	}
	if err := ctrl.Start(); err != nil {
		return err
	}

	in := make(chan []byte)
	go func() {
		defer close(in)
		buf := make([]byte, 64)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				b := make([]byte, n)
				copy(b, buf[:n])
				in <- b
			}
			if err != nil {
				return
			}
		}
	}()

	var boards <-chan time.Time
	if boardEvery > 0 && feedBoard != nil {
		t := time.NewTicker(boardEvery)
		defer t.Stop()
		boards = t.C
	}

	ticks := time.NewTicker(time.Millisecond)
	defer ticks.Stop()
	snapshots := time.NewTicker(snapshotInterval)
	defer snapshots.Stop()

	for {
		select {
		case b, ok := <-in:
			if !ok {
				return nil
			}
			ctrl.Feed(b)
		case <-boards:
			feedBoard()
		case <-ticks.C:
			ctrl.Tick()
		case <-snapshots.C:
			mon.SetState(ctrl.Snapshot())
		}
	}
}

// lineTee passes raw bytes through to dst and hands every complete
// line, stripped of its \r\n, to the sinks
type lineTee struct {
	dst   io.Writer
	buf   []byte
	sinks []func(string)
}

func newLineTee(dst io.Writer, sinks ...func(string)) *lineTee {
	return &lineTee{dst: dst, sinks: sinks}
}

func (t *lineTee) Write(p []byte) (int, error) {
	n, err := t.dst.Write(p)

	t.buf = append(t.buf, p[:n]...)
	for {
		i := bytes.IndexByte(t.buf, '\n')
		if i < 0 {
			break
		}

		line := strings.TrimRight(string(t.buf[:i]), "\r")
		t.buf = append(t.buf[:0], t.buf[i+1:]...)

		for _, sink := range t.sinks {
			sink(line)
		}
	}

	return n, err
}
