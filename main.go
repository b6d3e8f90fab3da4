package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/czerwonk/ping_stats/config"
	"github.com/czerwonk/ping_stats/pingstats"
	log "github.com/sirupsen/logrus"
)

const version string = "0.1.0"

var (
	showVersion  = kingpin.Flag("version", "Print version information").Default().Bool()
	configFile   = kingpin.Flag("config.path", "Path to config file").Default("").String()
	logLevel     = kingpin.Flag("log.level", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error, fatal]").Default("info").String()
	logFormat    = kingpin.Flag("log.format", "Log format. Valid choices: [text, json]").Default("text").String()
	outputFormat = kingpin.Flag("output", "Output format").Short('o').Default("text").Enum("text", "json", "yaml")
	rttMode      = kingpin.Flag("metrics.rttunit", "Export round trip times as either millis (default), or seconds (best practice), or both. Valid choices: [ms, s, both]").Default("ms").String()
	textfile     = kingpin.Flag("metrics.textfile", "Write parsed results in Prometheus text format to this file").Default("").String()

	parseCmd   = kingpin.Command("parse", "Parse ping output from files or stdin").Default()
	parseFiles = parseCmd.Arg("files", "Files containing ping output (stdin if omitted)").ExistingFiles()

	summarizeCmd   = kingpin.Command("summarize", "Summarize structured result lines (host=<host> status=OK|FAIL [latency_ms=<ms>])")
	summarizeFiles = summarizeCmd.Arg("files", "Files containing result lines (stdin if omitted)").ExistingFiles()

	serveCmd      = kingpin.Command("serve", "Expose parsed ping output files as Prometheus metrics")
	serveFiles    = serveCmd.Arg("files", "Files containing ping output").Strings()
	listenAddress = serveCmd.Flag("web.listen-address", "Address on which to expose metrics and web interface").Default(":9428").String()
	metricsPath   = serveCmd.Flag("web.telemetry-path", "Path under which to expose metrics").Default("/metrics").String()
	readTimeout   = serveCmd.Flag("web.read-timeout", "Timeout for reading request headers").Default("10s").Duration()
)

func main() {
	cmd := kingpin.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := setLogLevel(*logLevel); err != nil {
		kingpin.FatalUsage("%v", err)
	}
	if err := setLogFormat(*logFormat); err != nil {
		kingpin.FatalUsage("%v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		kingpin.FatalUsage("could not load config.path: %v", err)
	}

	unit := rttUnitFromString(cfg.Metrics.RTTUnit)
	if unit == rttInvalid {
		kingpin.FatalUsage("metrics.rttunit must be `ms` for millis, or `s` for seconds, or `both`")
	}
	log.Debugf("rtt units: %s", unit)

	switch cmd {
	case parseCmd.FullCommand():
		err = runParse(cfg, os.Stdin, os.Stdout, *outputFormat, unit)
	case summarizeCmd.FullCommand():
		err = runSummarize(*summarizeFiles, os.Stdin, os.Stdout, *outputFormat)
	case serveCmd.FullCommand():
		err = runServe(cfg, unit)
	}

	if err != nil {
		log.Errorln(err)
		if pingstats.IsParseError(err) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func printVersion() {
	fmt.Println("ping_stats")
	fmt.Printf("Version: %s\n", version)
	fmt.Println("Parser and metric exporter for ping output")
}

func loadConfig() (*config.Config, error) {
	if *configFile == "" {
		cfg := config.Config{}
		addFlagToConfig(&cfg)

		return &cfg, nil
	}

	f, err := os.Open(*configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load config file: %w", err)
	}
	defer f.Close()

	cfg, err := config.FromYAML(f)
	if err == nil {
		addFlagToConfig(cfg)
	}

	return cfg, err
}

// addFlagToConfig updates cfg with command line flag values, unless the
// config has non-zero values.
func addFlagToConfig(cfg *config.Config) {
	if len(cfg.Sources) == 0 {
		for _, path := range commandFiles() {
			cfg.Sources = append(cfg.Sources, config.SourceConfig{Path: path})
		}
	}
	if cfg.Metrics.RTTUnit == "" {
		cfg.Metrics.RTTUnit = *rttMode
	}
	if cfg.Metrics.Textfile == "" {
		cfg.Metrics.Textfile = *textfile
	}
	if cfg.Web.ListenAddress == "" {
		cfg.Web.ListenAddress = *listenAddress
	}
	if cfg.Web.TelemetryPath == "" {
		cfg.Web.TelemetryPath = *metricsPath
	}
	if cfg.Web.TelemetryPath == "" {
		log.Warnln("web.telemetry-path is empty, correcting to `/metrics`")
		cfg.Web.TelemetryPath = "/metrics"
	} else if cfg.Web.TelemetryPath[0] != '/' {
		cfg.Web.TelemetryPath = "/" + cfg.Web.TelemetryPath
	}
	if cfg.Web.ReadTimeout == 0 {
		cfg.Web.ReadTimeout.Set(*readTimeout)
	}
}

func commandFiles() []string {
	switch {
	case len(*parseFiles) > 0:
		return *parseFiles
	case len(*serveFiles) > 0:
		return *serveFiles
	}

	return nil
}
