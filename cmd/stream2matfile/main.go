/*
 * main.go, part of seismat.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// stream2matfile reads a miniSEED stream from a file or URL and writes one
// MAT file per trace.
//
//	stream2matfile [flags] [file or URL]
//
// Without a source, the BW.BGLD example from examples.obspy.org is
// downloaded.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rmera/seismat/config"
	"github.com/rmera/seismat/convert"
	"github.com/rmera/seismat/internal/logger"
	"github.com/rmera/seismat/load"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is the whole program, minus the process handling.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stream2matfile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: stream2matfile [flags] [file or URL]\n\nWith no source, %s is read.\n\nFlags:\n", config.DefaultSource)
		fs.PrintDefaults()
	}
	cfgPath := fs.String("config", "", "YAML configuration `file`")
	dir := fs.String("dir", "", "output `directory` (default: current directory)")
	prefix := fs.String("prefix", "", "file name prefix (default \"obspy.stream.\")")
	compress := fs.Bool("compress", false, "store the variables zlib-compressed")
	plot := fs.Bool("plot", false, "also save a PNG plot of each trace")
	sel := fs.String("select", "", "only convert traces whose NET.STA.LOC.CHA id matches this `pattern`")
	retries := fs.Uint("retries", 0, "download retries (default 3)")
	maxDownload := fs.String("max-download", "", "largest accepted download, e.g. 100MB (default 512MB)")
	level := fs.String("log-level", "", "log level: debug, info, warn or error (default warn)")
	jsonLog := fs.Bool("json-log", false, "log in JSON format")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "stream2matfile: expected at most one source, got %d\n", fs.NArg())
		fs.Usage()
		return exitUsage
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(stderr, "stream2matfile: %v\n", err)
			return exitFailure
		}
	}
	//flags given explicitly win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Output.Dir = *dir
		case "prefix":
			cfg.Output.Prefix = *prefix
		case "compress":
			cfg.Output.Compress = *compress
		case "plot":
			cfg.Output.Plot = *plot
		case "retries":
			cfg.Fetch.Retries = *retries
		case "max-download":
			cfg.Fetch.MaxDownload = *maxDownload
		case "log-level":
			cfg.Log.Level = *level
		case "json-log":
			cfg.Log.JSON = *jsonLog
		}
	})
	if fs.NArg() == 1 {
		cfg.Fetch.Source = fs.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "stream2matfile: %v\n", err)
		return exitUsage
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.JSON, stderr); err != nil {
		fmt.Fprintf(stderr, "stream2matfile: %v\n", err)
		return exitUsage
	}
	if err := convertSource(ctx, cfg, *sel, stdout); err != nil {
		logger.Logger.WithField("source", cfg.Fetch.Source).Error(err)
		fmt.Fprintf(stderr, "stream2matfile: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func convertSource(ctx context.Context, cfg *config.Config, sel string, stdout io.Writer) error {
	source := cfg.Fetch.Source
	if !load.IsURL(source) {
		if _, err := os.Stat(source); err != nil {
			return pkgerrors.Errorf("%s is neither a URL nor an existing file", source)
		}
	}
	delay, _ := cfg.DelayDuration()
	timeout, _ := cfg.TimeoutDuration()
	maxSize, _ := cfg.MaxDownloadSize()
	st, err := load.Read(ctx, source,
		load.Retries(cfg.Fetch.Retries),
		load.Delay(delay),
		load.MaxSize(maxSize),
		load.Client(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return err
	}
	if st, err = st.Select(sel); err != nil {
		return pkgerrors.Wrap(err, "select")
	}
	fmt.Fprintln(stdout, st)
	err = convert.Stream2MatFile(st,
		convert.Dir(cfg.Output.Dir),
		convert.Prefix(cfg.Output.Prefix),
		convert.Compress(cfg.Output.Compress),
		convert.Plot(cfg.Output.Plot),
	)
	if err != nil {
		return pkgerrors.Wrap(err, "converting")
	}
	//traces sharing an id share a file.
	written := make(map[string]bool, st.Len())
	for _, tr := range st {
		path := filepath.Join(cfg.Output.Dir, convert.FileName(cfg.Output.Prefix, tr))
		if !written[path] {
			written[path] = true
			fmt.Fprintln(stdout, path)
		}
	}
	logger.Logger.WithFields(logrus.Fields{"source": source, "traces": st.Len()}).Info("done")
	return nil
}
