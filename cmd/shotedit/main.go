/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"shotedit/internal/config"
	"shotedit/internal/crash"
	"shotedit/internal/export"
	"shotedit/internal/field"
	applog "shotedit/internal/log"
	"shotedit/internal/script"
	"shotedit/internal/stylepack"
	"shotedit/internal/surface"
	"shotedit/internal/ui"
	"shotedit/internal/version"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	headStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// errUsage makes main print the usage text and exit with code 2.
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, headStyle.Render("shotedit - screenshot annotation editor"))
	fmt.Fprintf(w, "Version: %s\n\n", version.String())
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  shotedit version|-v|--version                 Show version")
	fmt.Fprintln(w, "  shotedit annotate <in> <script.json> <out>    Replay an annotation script and write the result")
	fmt.Fprintln(w, "  shotedit render <in> <out>                    Convert an image or bundle (png, jpg, bmp, tiff, pdf, shot)")
	fmt.Fprintln(w, "  shotedit autocrop <in> <out>                  Crop away a uniform border")
	fmt.Fprintln(w, "  shotedit info <bundle.shot>                   Print bundle details")
	fmt.Fprintln(w, "  shotedit copy <bundle.shot>                   Copy all elements to the system clipboard")
	fmt.Fprintln(w, "  shotedit paste <in> <out.shot>                Paste elements from the system clipboard")
	fmt.Fprintln(w, "  shotedit style list                           List saved styles")
	fmt.Fprintln(w, "  shotedit style save <name>                    Save the remembered field values as a style")
	fmt.Fprintln(w, "  shotedit style apply <name> <in> <out>        Apply a style to every element")
	fmt.Fprintln(w, "  shotedit style export <pack.zip>              Bundle all styles into a pack")
	fmt.Fprintln(w, "  shotedit style install <pack.zip>             Install the styles of a pack")
	fmt.Fprintln(w, "  shotedit config [init]                        Show or create the user configuration")
	fmt.Fprintln(w, "  shotedit ui <in>                              Launch desktop UI (build with -tags fyne)")
}

// app carries what every command needs.
type app struct {
	cfg  config.AppConfig
	opts surface.Options
	out  io.Writer
	log  *slog.Logger
	cb   surface.Clipboard
	// styles is the directory of saved styles.
	styles string
	// sess is salvaged by crash.Recover when a command panics.
	sess *crash.Session
}

func main() {
	cfg, cerr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if cerr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cerr))
	}
	opts, oerr := surface.OptionsFromConfig(cfg)
	if oerr != nil {
		l.Warn("config partly ignored", slog.Any("err", oerr))
	}

	a := &app{cfg: cfg, opts: opts, out: os.Stdout, log: l, cb: systemClipboard{}}
	if p, err := config.ConfigPath(); err == nil {
		a.styles = filepath.Join(filepath.Dir(p), "styles")
	}
	defer func() { crash.Recover(a.sess) }()

	l.Debug("start", slog.Int("args", len(os.Args)))
	err := a.run(context.Background(), os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		usage(os.Stdout)
		os.Exit(2)
	default:
		l.Error("command failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, errStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	need := func(n int) error {
		if len(args)-1 < n {
			return fmt.Errorf("%w: %s needs %d arguments", errUsage, args[0], n)
		}
		return nil
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(a.out, "shotedit", version.String())
		return nil
	case "annotate":
		if err := need(3); err != nil {
			return err
		}
		return a.annotate(ctx, args[1], args[2], args[3])
	case "render":
		if err := need(2); err != nil {
			return err
		}
		return a.convert(args[1], args[2], nil)
	case "autocrop":
		if err := need(2); err != nil {
			return err
		}
		return a.convert(args[1], args[2], func(s *surface.Surface) error {
			if !s.AutoCrop() {
				return script.ErrNoCrop
			}
			return nil
		})
	case "info":
		if err := need(1); err != nil {
			return err
		}
		return a.info(args[1])
	case "copy":
		if err := need(1); err != nil {
			return err
		}
		return a.copy(args[1])
	case "paste":
		if err := need(2); err != nil {
			return err
		}
		return a.paste(args[1], args[2])
	case "style":
		return a.style(args[1:])
	case "config":
		return a.config(len(args) > 1 && args[1] == "init")
	case "ui":
		if err := need(1); err != nil {
			return err
		}
		return ui.Run(args[1])
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// open loads a document and registers it for crash salvage.
func (a *app) open(path string) (*surface.Surface, error) {
	s, err := export.Open(path, a.opts)
	if err != nil {
		return nil, err
	}
	a.sess = &crash.Session{
		Dir:      filepath.Dir(path),
		Title:    filepath.Base(path),
		Elements: s,
		Keep:     a.cfg.Output.TemplateKeep,
	}
	return s, nil
}

func (a *app) save(s *surface.Surface, path string) error {
	if filepath.Ext(path) == "" {
		path += "." + a.cfg.Output.Format
	}
	err := export.Save(s, path, export.Options{PDF: export.PDFOptions{DPI: a.cfg.Output.PDFDPI}})
	if err != nil {
		return err
	}
	a.log.Info("written", slog.String("path", path))
	fmt.Fprintln(a.out, okStyle.Render("Wrote"), path)
	return nil
}

func (a *app) annotate(ctx context.Context, in, scriptPath, out string) error {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	sc, err := script.Parse(data)
	if err != nil {
		return err
	}
	s, err := a.open(in)
	if err != nil {
		return err
	}
	defer s.Dispose()
	if err := script.Run(ctx, s, sc); err != nil {
		return err
	}
	return a.save(s, out)
}

func (a *app) convert(in, out string, edit func(*surface.Surface) error) error {
	s, err := a.open(in)
	if err != nil {
		return err
	}
	defer s.Dispose()
	if edit != nil {
		if err := edit(s); err != nil {
			return err
		}
	}
	return a.save(s, out)
}

func (a *app) info(path string) error {
	b, err := export.ReadBundle(path)
	if err != nil {
		return err
	}
	m := b.Manifest
	row := func(k string, v any) { fmt.Fprintf(a.out, "%s %v\n", keyStyle.Render(fmt.Sprintf("%-9s", k+":")), v) }
	row("ID", m.ID)
	row("Title", m.Title)
	row("Source", m.Source)
	if !m.Taken.IsZero() {
		row("Taken", m.Taken.Format("2006-01-02 15:04:05"))
	}
	row("Saved", m.Saved.Format("2006-01-02 15:04:05"))
	row("Size", fmt.Sprintf("%dx%d", m.Width, m.Height))
	row("Elements", m.Elements)
	if m.Version != "" {
		row("Version", m.Version)
	}
	return nil
}

func (a *app) copy(path string) error {
	s, err := a.open(path)
	if err != nil {
		return err
	}
	defer s.Dispose()
	s.SelectAll()
	n := len(s.Selected())
	if n == 0 {
		return fmt.Errorf("%s has no elements", filepath.Base(path))
	}
	if err := s.CopySelected(a.cb); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	fmt.Fprintln(a.out, okStyle.Render("Copied"), n, "elements")
	return nil
}

func (a *app) paste(in, out string) error {
	s, err := a.open(in)
	if err != nil {
		return err
	}
	defer s.Dispose()
	if err := s.Paste(a.cb); err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	return a.save(s, out)
}

func (a *app) config(create bool) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if create {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.SaveFile(path, config.Defaults()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, okStyle.Render("Created"), path)
		return nil
	}
	c := a.cfg
	fmt.Fprintln(a.out, keyStyle.Render("config:"), path)
	fmt.Fprintf(a.out, "undo depth %d, auto-crop difference %d, font %q, counter start %d\n",
		c.Editor.UndoMaxDepth, c.Editor.AutoCropDifference, c.Editor.DefaultFontFamily, c.Editor.CounterStart)
	fmt.Fprintf(a.out, "output %s at %g dpi, keep %d autosaves, %d remembered field values\n",
		c.Output.Format, c.Output.PDFDPI, c.Output.TemplateKeep, len(c.Editor.LastUsed))
	return nil
}

func (a *app) style(args []string) error {
	if a.styles == "" {
		return errors.New("no styles directory")
	}
	need := func(n int) error {
		if len(args)-1 < n {
			return fmt.Errorf("%w: style needs a subcommand and %d arguments", errUsage, n)
		}
		return nil
	}
	if err := need(0); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		all, err := stylepack.List(a.styles)
		for _, st := range all {
			fmt.Fprintf(a.out, "%s %d values %s\n", keyStyle.Render(st.Name), len(st.Values), st.Description)
		}
		return err
	case "save":
		if err := need(1); err != nil {
			return err
		}
		d := a.opts.Defaults
		if d == nil {
			d = field.NewDefaults()
		}
		path, err := stylepack.Save(a.styles, stylepack.FromDefaults(args[1], d))
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, okStyle.Render("Saved"), path)
		return nil
	case "apply":
		if err := need(3); err != nil {
			return err
		}
		st, err := stylepack.Load(a.styles, args[1])
		if err != nil {
			return err
		}
		return a.convert(args[2], args[3], func(s *surface.Surface) error {
			s.SelectAll()
			n, err := st.Apply(s)
			if err != nil {
				a.log.Warn("style partly applied", slog.String("style", st.Name), slog.Any("err", err))
			}
			a.log.Info("style applied", slog.String("style", st.Name), slog.Int("fields", n))
			s.DeselectAll()
			return nil
		})
	case "export":
		if err := need(1); err != nil {
			return err
		}
		n, err := stylepack.ExportPack(a.styles, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, okStyle.Render("Exported"), n, "styles to", args[1])
		return nil
	case "install":
		if err := need(1); err != nil {
			return err
		}
		n, err := stylepack.InstallPack(a.styles, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, okStyle.Render("Installed"), n, "styles")
		return nil
	}
	return fmt.Errorf("%w: unknown style command %q", errUsage, args[0])
}
