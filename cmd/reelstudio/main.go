package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/reelstudio/internal/config"
	"github.com/ivlev/reelstudio/internal/director"
	"github.com/ivlev/reelstudio/internal/engine"
	"github.com/ivlev/reelstudio/internal/export"
	"github.com/ivlev/reelstudio/internal/logging"
	"github.com/ivlev/reelstudio/internal/source"
	"github.com/ivlev/reelstudio/internal/studio"
	"github.com/ivlev/reelstudio/internal/system"
	"github.com/ivlev/reelstudio/internal/ui"
)

var version = "dev"

type options struct {
	configPath string
	idea       string
	format     string
	background string
	tempoTrim  float64
	script     string
	resume     bool
	headless   bool
	previewFor time.Duration
	interval   time.Duration
	exportDir  string
	print      bool
	stats      bool

	// names of the flags given on the command line
	set map[string]bool
}

func parseFlags(args []string) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs := flag.NewFlagSet("reelstudio", flag.ContinueOnError)

	fs.StringVar(&o.configPath, "config", os.Getenv("REELSTUDIO_CONFIG"), "Путь к файлу настроек (.yaml или .toml)")
	fs.StringVar(&o.idea, "idea", "", "Идея ролика для генерации сценария")
	fs.StringVar(&o.format, "format", "", "Формат: fast-hype, story-builder, calm-craft")
	fs.StringVar(&o.background, "background", "", "Фон: neon-lab, city-glide, studio-soft")
	fs.Float64Var(&o.tempoTrim, "tempo-trim", 0, "Поправка темпа от -0.3 до 0.5")
	fs.StringVar(&o.script, "script", "", "Файл сценария или - для stdin (по умолчанию: самый свежий .txt в input/scripts/)")
	fs.BoolVar(&o.resume, "resume", false, "Продолжить с последнего экспортированного blueprint")
	fs.BoolVar(&o.headless, "headless", false, "Проиграть превью без интерфейса")
	fs.DurationVar(&o.previewFor, "preview-for", 0, "Длительность превью в режиме -headless")
	fs.DurationVar(&o.interval, "interval", 0, "Период тика воспроизведения")
	fs.StringVar(&o.exportDir, "export", "", "Экспортировать blueprint, раскадровку и QR в папку")
	fs.BoolVar(&o.print, "print", false, "Вывести сценарий, сцены и метрики и выйти")
	fs.BoolVar(&o.stats, "stats", false, "Показать загрузку системы")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// loadConfig reads the config file, if any, and applies the command-line overrides.
func loadConfig(o *options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	if o.set["idea"] {
		cfg.Idea = o.idea
	}
	if o.set["format"] {
		cfg.Format = o.format
	}
	if o.set["background"] {
		cfg.Background = o.background
	}
	if o.set["tempo-trim"] {
		cfg.TempoBoost = o.tempoTrim
	}
	if o.set["preview-for"] {
		cfg.PreviewFor = o.previewFor
	}
	if o.set["interval"] {
		cfg.TickInterval = o.interval
	}
	if o.set["export"] {
		cfg.ExportDir = o.exportDir
	}
	if o.set["stats"] {
		cfg.ShowStats = o.stats
	}
	cfg.BuildVersion = version

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}

func run(ctx context.Context, o *options, out io.Writer) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}

	system.InitResourceLimits()

	id := uuid.NewString()
	logger, closer, err := logging.Setup(cfg.LogFile, id, slog.LevelInfo)
	if err != nil {
		log.Printf("[!] Лог не открыт, продолжаем без него: %v", err)
		logger = logging.Discard()
	} else {
		defer closer.Close()
	}
	logger.Info("reelstudio starting", "version", cfg.BuildVersion, "format", cfg.Format)

	var (
		engineOpts []engine.Option
		refresh    <-chan struct{}
		advances   chan engine.Snapshot
	)
	interactive := !o.headless && !o.print && !o.set["export"] && !o.set["stats"]
	switch {
	case o.headless:
		advances = make(chan engine.Snapshot, 16)
		engineOpts = append(engineOpts, engine.WithTickHandler(func(s engine.Snapshot) {
			if !s.Advanced {
				return
			}
			select {
			case advances <- s:
			default:
			}
		}))
	case interactive:
		var opt engine.Option
		refresh, opt = ui.Refresh()
		engineOpts = append(engineOpts, opt)
	}

	session, err := studio.NewWithID(id, cfg, logger, engineOpts...)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := prepareSession(session, o, cfg, out); err != nil {
		return err
	}

	if cfg.ShowStats {
		if err := printStats(ctx, out); err != nil {
			log.Printf("[!] %v", err)
		}
	}

	if o.print {
		printReport(out, session.View())
	}
	if o.headless {
		if err := runHeadless(ctx, session, advances, cfg.PreviewFor, out); err != nil {
			return err
		}
	}
	if o.set["export"] {
		if err := runExport(ctx, session, cfg, out); err != nil {
			return err
		}
	}
	if !interactive {
		return nil
	}
	return ui.Run(ctx, session, refresh, cfg.Autoplay)
}

// prepareSession applies -resume or a script source on top of the generated script.
func prepareSession(s *studio.Session, o *options, cfg *config.Config, out io.Writer) error {
	if o.resume {
		path, err := director.FindLatestBlueprint(cfg.ExportDir)
		if err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		bp, err := director.ReadBlueprint(path)
		if err != nil {
			return err
		}
		if err := s.Restore(bp); err != nil {
			return fmt.Errorf("resume %s: %w", path, err)
		}
		fmt.Fprintf(out, "[*] Восстановлен blueprint: %s\n", path)
		return nil
	}

	var src source.Source
	switch {
	case o.script != "":
		src = source.Open(o.script)
	case cfg.InputDir != "":
		latest, err := system.FindLatestScript(cfg.InputDir)
		if err != nil {
			// no saved scripts: keep the generated one
			return nil
		}
		src = source.NewFileSource(latest)
	default:
		return nil
	}

	script, err := src.Script()
	if err != nil {
		return err
	}
	s.SetScript(script)
	s.Sync()
	fmt.Fprintf(out, "[*] Выбран сценарий: %s (%d сцен)\n", src.Name(), len(s.View().Scenes))
	return nil
}

func runHeadless(ctx context.Context, s *studio.Session, advances <-chan engine.Snapshot, d time.Duration, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	r := s.View()
	fmt.Fprintf(out, "[*] Превью %s: %s, темп %.2fx\n", d, r.Format.Label, r.Tempo)
	printScene(out, r.ActiveIndex, len(r.Scenes), r.Current)

	g, gctx := errgroup.WithContext(ctx)
	s.Play(gctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				s.Pause()
				return nil
			case snap := <-advances:
				if len(snap.Scenes) == 0 {
					continue
				}
				printScene(out, snap.ActiveIndex, len(snap.Scenes), snap.Scenes[snap.ActiveIndex])
			}
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}

	r = s.View()
	fmt.Fprintf(out, "[+++] Превью завершено на сцене %d/%d (%.0f%%)\n", r.ActiveIndex+1, len(r.Scenes), r.GlobalProgress)
	return nil
}

func printScene(out io.Writer, index, total int, sc director.Scene) {
	fmt.Fprintf(out, "[>] %d/%d %s: %s (%.1fs)\n", index+1, total, sc.Tag, sc.Copy, sc.Duration)
}

func runExport(ctx context.Context, s *studio.Session, cfg *config.Config, out io.Writer) error {
	bp := s.Blueprint()
	paths, err := export.Run(ctx, bp, cfg.ExportDir,
		export.YAMLExporter{},
		export.StoryboardExporter{Width: cfg.CardWidth, Height: cfg.CardHeight},
		export.QRExporter{Size: cfg.QRSize},
	)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintf(out, "[*] %s\n", filepath.ToSlash(p))
	}
	fmt.Fprintf(out, "[+++] Успех! Экспортировано файлов: %d в %s\n", len(paths), cfg.ExportDir)
	return nil
}

func printReport(out io.Writer, r studio.Readout) {
	fmt.Fprintf(out, "[*] Формат: %s (%s), фон: %s\n", r.Format.Label, r.Format.ID, r.Background.Label)
	fmt.Fprintf(out, "[*] Идея: %s\n\n", r.Idea)
	fmt.Fprintln(out, r.Script)
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTAG\tSEC\tMOTION\tOVERLAY\tBEAT")
	for i, sc := range r.Scenes {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%s\t%s\n", i+1, sc.Tag, sc.Duration, sc.Motion, sc.Overlay, sc.Beat)
	}
	tw.Flush()

	fmt.Fprintf(out, "\n[*] Хронометраж: %.1fs | темп: %.2fx | удержание: %d | сцен: %d\n",
		r.Runtime, r.Tempo, r.RetentionScore, len(r.Scenes))

	labels := make([]string, 0, len(r.Stages))
	for _, st := range r.Stages {
		labels = append(labels, fmt.Sprintf("%s [%s]", st.Label, st.Status))
	}
	fmt.Fprintf(out, "[*] Этапы: %s\n", strings.Join(labels, ", "))
}

func printStats(ctx context.Context, out io.Writer) error {
	st, err := system.CollectStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, st.String())
	return nil
}
