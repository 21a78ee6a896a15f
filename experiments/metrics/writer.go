package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig names one policy taking part in an experiment.
// The search settings only apply to the "mcts" kind.
type AgentConfig struct {
	ID         int
	Kind       string // "rule", "random" or "mcts"
	Goroutines int
	Episodes   int
	Duration   time.Duration
	Cutoff     int
}

type GameRecord struct {
	ID     int
	Agents []int // AgentConfig.ID per faction, in turn order
	GameMetric
}

type TurnRecord struct {
	Game int // GameRecord.ID
	TurnMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates <root>/<name>/<timestamp> to hold the experiment files.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Goroutines),
			strconv.Itoa(config.Episodes),
			config.Duration.String(),
			strconv.Itoa(config.Cutoff),
		})
	}
	return w.write("agent_configs.csv", []string{"id", "kind", "goroutines", "episodes", "duration", "cutoff"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "nato", "warsaw", "non_aligned", "starting_player", "winner", "turns", "actions", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		agents := make([]string, 3)
		for i := range agents {
			if i < len(record.Agents) {
				agents[i] = strconv.Itoa(record.Agents[i])
			}
		}
		row := []string{strconv.Itoa(record.ID)}
		row = append(row, agents...)
		row = append(row,
			record.StartingPlayer.ShortName(),
			record.Winner.ShortName(),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.TotalActions),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		)
		rows = append(rows, row)
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteTurnRecords(records []TurnRecord) error {
	header := []string{"game", "turn", "player", "actions", "rejected", "attacks", "conquests", "capped", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Turn),
			record.Player.ShortName(),
			strconv.Itoa(record.Actions),
			strconv.Itoa(record.Rejected),
			strconv.Itoa(record.Attacks),
			strconv.Itoa(record.Conquests),
			strconv.FormatBool(record.Capped),
			record.Duration.String(),
		})
	}
	return w.write("turn_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", file, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
