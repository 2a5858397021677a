package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pressfolio/contentcore/pkg/converter"
	"github.com/pressfolio/contentcore/pkg/fidelity"
)

var (
	envFile    = flag.String("env", ".env", "Path to environment file")
	inputFile  = flag.String("in", "", "Input file ('-' for stdin is not supported; pass a path)")
	outputFile = flag.String("out", "", "Output file (defaults to stdout)")
	fromFormat = flag.String("from", "auto", "Input format (auto, markdown, html, json)")
	toFormat   = flag.String("to", "markdown", "Output format (markdown, html, json)")
	importHTML = flag.Bool("import", false, "Treat input as foreign HTML and import it as markdown")
	check      = flag.Bool("check", false, "Round-trip the result and report fidelity")
	threshold  = flag.Int("threshold", fidelity.DefaultThreshold, "Fidelity warning threshold (0-100)")
	logLevel   = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debugf("No env file loaded from %s: %v", *envFile, err)
	}
	if v := os.Getenv("CONTENTCONV_THRESHOLD"); v != "" && !flagWasSet("threshold") {
		if n, err := strconv.Atoi(v); err == nil {
			*threshold = n
		} else {
			logger.Warnf("Ignoring invalid CONTENTCONV_THRESHOLD=%q", v)
		}
	}

	if *inputFile == "" {
		logger.Fatal("Input file must be specified")
	}
	content, err := os.ReadFile(*inputFile)
	if err != nil {
		logger.Fatalf("Failed to read input file: %v", err)
	}

	var output string
	if *importHTML {
		output, err = converter.ImportHTML(string(content))
		if err != nil {
			logger.Fatalf("Import failed: %v", err)
		}
	} else {
		from := converter.Format(*fromFormat)
		if *fromFormat == "auto" {
			from = converter.Detect(string(content))
			logger.Debugf("Detected input format: %s", from)
		}
		output, err = converter.Convert(string(content), from, converter.Format(*toFormat))
		if err != nil {
			logger.Fatalf("Conversion failed: %v", err)
		}

		if *check {
			back, err := converter.Convert(output, converter.Format(*toFormat), from)
			if err != nil {
				logger.Fatalf("Round-trip conversion failed: %v", err)
			}
			result := fidelity.Validate(string(content), back, *threshold)
			logger.Infof("Fidelity %d (report %s)", result.Fidelity, result.ReportID)
			for _, w := range result.Warnings {
				logger.Warn(w)
			}
		}
	}

	if *outputFile == "" {
		os.Stdout.WriteString(output + "\n")
		return
	}
	if err := os.WriteFile(*outputFile, []byte(output+"\n"), 0o644); err != nil {
		logger.Fatalf("Failed to write output file: %v", err)
	}
	logger.Infof("Wrote %s", *outputFile)
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
