package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shuu880/slack-log-viewer/pkg/archive"
	"github.com/shuu880/slack-log-viewer/pkg/query"
)

func main() {
	// Define command-line flags
	var (
		dumpsPath = flag.String("dumps", "dumps", "Path to the export root directory")
		channel   = flag.String("channel", "", "Restrict output to one channel")
		from      = flag.String("from", "", "Lower time bound (epoch, YYYY-MM-DD or RFC 3339)")
		to        = flag.String("to", "", "Upper time bound (epoch, YYYY-MM-DD or RFC 3339)")
		search    = flag.String("q", "", "Case-insensitive substring to search for")
		tsSearch  = flag.String("ts", "", "Timestamp to search for (raw ts or datetime)")
		joins     = flag.Bool("joins", false, "Include channel-join notices")
		show      = flag.Int("show", 0, "Print the first N matching messages")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	startTime := time.Now()
	arch := archive.LoadDirectory(*dumpsPath)
	report := arch.Report()
	duration := time.Since(startTime)

	fmt.Println("=== Load Complete ===")
	fmt.Printf("Duration: %s\n", duration.Round(time.Millisecond))
	fmt.Printf("Export root: %s\n", report.Path)
	fmt.Printf("Files read: %d\n", report.Files)
	fmt.Printf("Files skipped: %d\n", report.SkippedFiles)
	fmt.Printf("Messages loaded: %d\n", report.Records)
	fmt.Printf("Records skipped: %d\n", report.SkippedRecords)
	fmt.Printf("Duplicates dropped: %d\n", report.Duplicates)

	if len(report.Warnings) > 0 {
		fmt.Printf("\nWarnings: %d\n", len(report.Warnings))
		// Show first 10 warnings
		for i, warn := range report.Warnings {
			if i >= 10 {
				fmt.Printf("... and %d more warnings\n", len(report.Warnings)-10)
				break
			}
			if warn.File != "" {
				fmt.Printf("  - %s: %s\n", warn.File, warn.Detail)
			} else {
				fmt.Printf("  - %s\n", warn.Detail)
			}
		}
	}

	filter := query.Filter{
		Channel:      *channel,
		Query:        *search,
		Timestamp:    *tsSearch,
		IncludeJoins: *joins,
	}
	var err error
	if filter.From, err = query.ParseTimeBound(*from, false); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from: %v\n", err)
		os.Exit(1)
	}
	if filter.To, err = query.ParseTimeBound(*to, true); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -to: %v\n", err)
		os.Exit(1)
	}
	if err := filter.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid filter: %v\n", err)
		os.Exit(1)
	}

	matched := filter.Apply(arch.Messages())
	stats := query.Compute(matched, filter.From, filter.To)

	fmt.Println("\n=== Archive ===")
	fmt.Printf("Matching messages: %d\n", stats.Summary.Messages)
	fmt.Printf("Unique users: %d\n", stats.Summary.UniqueUsers)
	if stats.Summary.Messages > 0 {
		fmt.Printf("Period: %s to %s\n",
			stats.Summary.First.UTC().Format("2006-01-02 15:04:05"),
			stats.Summary.Last.UTC().Format("2006-01-02 15:04:05"))
	}

	fmt.Println("\nChannels:")
	for _, ch := range arch.Channels() {
		if *channel != "" && ch.Name != *channel {
			continue
		}
		fmt.Printf("  %-24s %6d messages  %s to %s\n",
			ch.Name, ch.Messages,
			ch.First.UTC().Format("2006-01-02"),
			ch.Last.UTC().Format("2006-01-02"))
	}

	if *show > 0 {
		fmt.Println("\n=== Messages ===")
		for i, m := range matched {
			if i >= *show {
				fmt.Printf("... and %d more messages\n", len(matched)-*show)
				break
			}
			fmt.Printf("[%s] #%s %s: %s\n",
				m.Time.UTC().Format("2006-01-02 15:04:05"), m.Channel, m.User, m.Text)
		}
	}
}

func printUsage() {
	fmt.Println("Slack Log Viewer Inspection Tool")
	fmt.Println("\nUsage:")
	fmt.Println("  inspect -dumps <path> [options]")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  # Summarize an export directory")
	fmt.Println("  inspect -dumps ./dumps")
	fmt.Println("\n  # Search one channel for a phrase")
	fmt.Println("  inspect -dumps ./dumps -channel general -q deploy -show 20")
	fmt.Println("\n  # Show what happened on one day")
	fmt.Println("  inspect -dumps ./dumps -from 2024-05-01 -to 2024-05-01 -show 50")
}
