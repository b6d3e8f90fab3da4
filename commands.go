package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/czerwonk/ping_stats/config"
	"github.com/czerwonk/ping_stats/pingstats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// runParse parses every configured source, or in when there is none, and
// writes the result to out.
func runParse(cfg *config.Config, in io.Reader, out io.Writer, format string, unit rttUnit) error {
	var sources []*source
	if len(cfg.Sources) == 0 {
		m, err := pingstats.ParseReader(in)
		if err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		sources = []*source{newParsedSource(stdinSource, m)}
	} else {
		sources = sourcesFromConfig(cfg)
	}

	views := make([]metricsView, 0, len(sources))
	for _, s := range sources {
		m, err := s.get()
		if err != nil {
			return fmt.Errorf("%s: %w", s.path(), err)
		}
		views = append(views, newMetricsView(s.path(), m))
	}

	if err := writeMetrics(out, format, views); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}

	if cfg.Metrics.Textfile == "" {
		return nil
	}

	return writeTextfile(cfg.Metrics.Textfile, newCollectorRegistry(cfg, sources, unit))
}

// runSummarize aggregates structured result lines read from paths, or from
// in when no path is given.
func runSummarize(paths []string, in io.Reader, out io.Writer, format string) error {
	results := make([]pingstats.Result, 0)

	if len(paths) == 0 {
		r, err := pingstats.ParseResultLines(in)
		if err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		results = r
	}

	for _, path := range paths {
		r, err := readResultFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, r...)
	}

	log.Debugf("summarizing %d results", len(results))
	return writeSummary(out, format, pingstats.Summarize(results))
}

func readResultFile(path string) ([]pingstats.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open result file: %w", err)
	}
	defer f.Close()

	return pingstats.ParseResultLines(f)
}

func runServe(cfg *config.Config, unit rttUnit) error {
	sources := sourcesFromConfig(cfg)
	if len(sources) == 0 {
		return errors.New("no sources to serve")
	}

	w, err := watchSources(sources)
	if err != nil {
		return err
	}
	defer w.Close()

	srv := &http.Server{
		Addr:              cfg.Web.ListenAddress,
		Handler:           newServeMux(cfg.Web.TelemetryPath, newCollectorRegistry(cfg, sources, unit)),
		ReadHeaderTimeout: cfg.Web.ReadTimeout.Duration(),
	}

	log.Infof("Starting ping_stats (Version: %s)", version)
	log.Infof("Listening for %s on %s", cfg.Web.TelemetryPath, cfg.Web.ListenAddress)
	return srv.ListenAndServe()
}

func newCollectorRegistry(cfg *config.Config, sources []*source, unit rttUnit) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(newStatsCollector(sources, newCustomLabelSet(cfg.Sources), unit))

	return reg
}

func newServeMux(metricsPath string, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, indexHTML, metricsPath)
	})

	l := log.New()
	l.Level = log.ErrorLevel

	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog:      l,
		ErrorHandling: promhttp.ContinueOnError,
	})
	mux.Handle(metricsPath, h)

	return mux
}

func writeTextfile(path string, reg *prometheus.Registry) error {
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("cannot write metrics textfile: %w", err)
	}

	log.Infof("wrote metrics to %s", path)
	return nil
}

const indexHTML = `<!doctype html>
<html>
<head>
	<meta charset="UTF-8">
	<title>ping_stats (Version ` + version + `)</title>
</head>
<body>
	<h1>ping_stats</h1>
	<p><a href="%s">Metrics</a></p>
	<h2>More information:</h2>
	<p><a href="https://github.com/czerwonk/ping_stats">github.com/czerwonk/ping_stats</a></p>
</body>
</html>
`
