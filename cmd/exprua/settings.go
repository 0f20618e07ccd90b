package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"exprua/internal/config"
	"exprua/internal/driver"
	"exprua/internal/observ"
	"exprua/internal/prof"
	"exprua/internal/trace"
	"exprua/internal/units"
)

var errEmptyVarName = errors.New("--var: expected name=expression")

// settings is the merged view of exprua.toml and the command line.
type settings struct {
	cfg      config.Config
	color    bool // stdout
	errColor bool // stderr
	quiet    bool
	timings  bool
	tracer   trace.Tracer
	timer    *observ.Timer
}

// loadSettings discovers the config file, applies flag overrides and opens
// the tracer. The returned cleanup flushes and closes it; failed dumps a
// ring tracer to stderr.
func loadSettings(cmd *cobra.Command) (*settings, func(failed bool), error) {
	flags := cmd.Flags()

	explicit, err := flags.GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Discover(explicit, wd)
	if err != nil {
		return nil, nil, err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	s := &settings{cfg: cfg}
	s.quiet, _ = flags.GetBool("quiet")
	s.timings, _ = flags.GetBool("timings")
	s.color = wantsColor(cfg.Output.Color, cmd.OutOrStdout())
	s.errColor = wantsColor(cfg.Output.Color, cmd.ErrOrStderr())
	if s.timings {
		s.timer = observ.NewTimer()
	}

	tcfg, err := cfg.TraceSetup()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace config: %w", err)
	}
	if tcfg.OutputPath == "" || tcfg.OutputPath == "-" {
		// Close трейсера не должен закрывать stderr
		tcfg.Output = struct{ io.Writer }{cmd.ErrOrStderr()}
	}
	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	profiler, err := prof.Start(profileOptions(cmd))
	if err != nil {
		_ = tracer.Close()
		return nil, nil, err
	}

	cleanup := func(failed bool) {
		if err := profiler.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
		if ring, ok := ringOf(tracer); ok && failed {
			if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return s, cleanup, nil
}

// ringOf finds the in-memory ring behind ring and both modes.
func ringOf(t trace.Tracer) (*trace.RingTracer, bool) {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t, true
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil, false
}

// profileOptions reads the runtime profiling flags.
func profileOptions(cmd *cobra.Command) prof.Options {
	flags := cmd.Flags()
	var opts prof.Options
	opts.CPU, _ = flags.GetString("cpu-profile")
	opts.Mem, _ = flags.GetString("mem-profile")
	opts.Trace, _ = flags.GetString("runtime-trace")
	return opts
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Output.Color, _ = flags.GetString("color")
	}
	if flags.Changed("precision") {
		cfg.Engine.Precision, _ = flags.GetInt("precision")
	}
	if flags.Changed("max-depth") {
		cfg.Engine.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("check-arity") {
		cfg.Engine.CheckArity, _ = flags.GetBool("check-arity")
	}
	if flags.Changed("trace") {
		cfg.Trace.Output, _ = flags.GetString("trace")
		// --trace без уровня включает фазы
		if !flags.Changed("trace-level") && strings.EqualFold(cfg.Trace.Level, "off") {
			cfg.Trace.Level = "phase"
		}
	}
	if flags.Changed("trace-level") {
		cfg.Trace.Level, _ = flags.GetString("trace-level")
	}
	if flags.Changed("trace-mode") {
		cfg.Trace.Mode, _ = flags.GetString("trace-mode")
	}
	if flags.Changed("trace-ring-size") {
		cfg.Trace.RingSize, _ = flags.GetInt("trace-ring-size")
	}

	vars, err := flags.GetStringArray("var")
	if err != nil {
		return fmt.Errorf("failed to get var flag: %w", err)
	}
	for _, kv := range vars {
		name, src, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("%w, got %q", errEmptyVarName, kv)
		}
		cfg.Vars = append(cfg.Vars, config.Var{Name: name, Source: strings.TrimSpace(src)})
	}
	return nil
}

// wantsColor resolves auto|on|off for w; auto needs a terminal.
func wantsColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// sessionOptions maps the settings onto a driver session.
func (s *settings) sessionOptions() driver.Options {
	vars := make([]driver.Var, 0, len(s.cfg.Vars))
	for _, v := range s.cfg.Vars {
		vars = append(vars, driver.Var{Name: v.Name, Source: v.Source})
	}
	return driver.Options{
		MaxDepth:   s.cfg.Engine.MaxDepth,
		Precision:  s.cfg.Engine.Precision,
		CheckArity: s.cfg.Engine.CheckArity,
		Vars:       vars,
		Tracer:     s.tracer,
		Timer:      s.timer,
	}
}

// precision returns the rendering precision with the engine default applied.
func (s *settings) precision() int {
	if s.cfg.Engine.Precision > 0 {
		return s.cfg.Engine.Precision
	}
	return units.DefaultPrecision
}

// printTimings writes the timer summary to stderr when --timings is set.
func (s *settings) printTimings(cmd *cobra.Command) {
	if s.timer == nil || s.quiet {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
}
