package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// EpisodeRecord describes one completed evaluation episode.
type EpisodeRecord struct {
	ID           int
	StartingMark string
	Outcome      string
	Moves        int
	Duration     time.Duration
}

// Writer persists run records as CSV under a timestamped results directory.
type Writer struct {
	baseDir string
}

func NewWriter(name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("results", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	return &Writer{baseDir: baseDir}, nil
}

// Dir returns the directory records are written under.
func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) WriteEpisodeRecords(records []EpisodeRecord) error {
	path := filepath.Join(w.baseDir, "episode_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create episode records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "starting_mark", "outcome", "moves", "duration_us"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write episode records header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.StartingMark,
			r.Outcome,
			strconv.Itoa(r.Moves),
			strconv.FormatInt(r.Duration.Microseconds(), 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write episode record: %w", err)
		}
	}
	return nil
}

func (w *Writer) WriteSummary(s Summary) error {
	path := filepath.Join(w.baseDir, "summary.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"games", "wins", "draws", "losses"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	row := []string{
		strconv.Itoa(s.Games()),
		strconv.Itoa(s.Wins),
		strconv.Itoa(s.Draws),
		strconv.Itoa(s.Losses),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
