package subtitles

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"dubsync/internal/services"
)

const cueSeparator = "-->"

// Parse reads a WebVTT-style subtitle track and returns its cues in order of
// appearance. Malformed timestamps and unreadable input wrap services.ErrParse.
func Parse(path string) ([]Cue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "parsing", "open", path, err)
	}
	defer file.Close()

	var (
		cues      []Cue
		pending   Cue
		textParts []string
		open      bool
	)

	flush := func() {
		text := strings.TrimSpace(strings.Join(textParts, " "))
		if open && text != "" && pending.End > pending.Start {
			pending.Index = len(cues)
			pending.Text = text
			cues = append(cues, pending)
		}
		textParts = textParts[:0]
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "WEBVTT" {
			continue
		}

		if strings.Contains(line, cueSeparator) {
			flush()
			parts := strings.SplitN(line, cueSeparator, 2)
			start, err := parseTimestamp(strings.TrimSpace(parts[0]))
			if err != nil {
				return nil, services.Wrap(services.ErrParse, "parsing", "timestamp", fmt.Sprintf("line %d", lineNo), err)
			}
			// The end field may carry cue settings after the timestamp.
			endField := strings.TrimSpace(parts[1])
			if fields := strings.Fields(endField); len(fields) > 0 {
				endField = fields[0]
			}
			end, err := parseTimestamp(endField)
			if err != nil {
				return nil, services.Wrap(services.ErrParse, "parsing", "timestamp", fmt.Sprintf("line %d", lineNo), err)
			}
			pending = Cue{Start: start, End: end}
			open = true
			continue
		}

		if open {
			textParts = append(textParts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrParse, "parsing", "read", path, err)
	}
	flush()

	return cues, nil
}

// parseTimestamp converts HH:MM:SS.mmm or MM:SS.mmm (hours and milliseconds
// optional) into seconds.
func parseTimestamp(value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	var seconds float64
	if len(parts) == 3 {
		hours, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		seconds += hours * 3600
	}

	minutes, err := strconv.ParseFloat(parts[len(parts)-2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	seconds += minutes * 60

	secField := parts[len(parts)-1]
	secParts := strings.SplitN(secField, ".", 2)
	secs, err := strconv.ParseFloat(secParts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	seconds += secs
	if len(secParts) == 2 {
		millis, err := strconv.ParseFloat(secParts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		scale := 1.0
		for range secParts[1] {
			scale *= 10
		}
		seconds += millis / scale
	}

	return seconds, nil
}
