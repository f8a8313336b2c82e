package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/quoridor/model"
)

type Config struct {
	Port      string
	Walls     int
	Start     model.Color
	Volume    int
	ReplayDir string
	LogLevel  log.Level
}

func DefaultConfig() Config {
	return Config{
		Port:      "8080",
		Walls:     model.DefaultWalls,
		Start:     model.Black,
		Volume:    50,
		ReplayDir: "data",
		LogLevel:  log.InfoLevel,
	}
}

// LoadConfig reads the environment; bad values keep the default.
func LoadConfig() Config {
	c := DefaultConfig()
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	} else {
		log.Printf("Defaulting to port %s", c.Port)
	}
	c.Walls = envInt("QUORIDOR_WALLS", c.Walls, 0, 20)
	c.Volume = envInt("QUORIDOR_VOLUME", c.Volume, 0, 100)
	if v := os.Getenv("QUORIDOR_START"); v != "" {
		if col, err := parseColor(v); err == nil {
			c.Start = col
		} else {
			log.Warnf("QUORIDOR_START %q ignored: %v", v, err)
		}
	}
	if v := os.Getenv("QUORIDOR_REPLAY_DIR"); v != "" {
		c.ReplayDir = v
	}
	if v := os.Getenv("QUORIDOR_LOG"); v != "" {
		if lvl, err := log.ParseLevel(v); err == nil {
			c.LogLevel = lvl
		} else {
			log.Warnf("QUORIDOR_LOG %q ignored: %v", v, err)
		}
	}
	return c
}

func envInt(key string, def, min, max int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < min || n > max {
		log.Warnf("%s %q ignored, want %d..%d", key, v, min, max)
		return def
	}
	return n
}

// LoadReplay reads a recorded game from the replay directory. The start
// colour is whoever made the first record.
func LoadReplay(cfg Config, name string) ([]model.TurnRecord, model.Color, error) {
	file, err := ebitenutil.OpenFile(filepath.Join(cfg.ReplayDir, filepath.Base(name)))
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()
	records, err := readReplay(file)
	if err != nil {
		return nil, 0, fmt.Errorf("replay %s: %w", name, err)
	}
	start := cfg.Start
	if len(records) > 0 {
		start = records[0].Color
	}
	return records, start, nil
}

// readReplay parses one record per line in TurnRecord notation:
//
//	B 4,8 m 4,7
//	W 4,0 h 3,3
//
// Blank lines and lines starting with # are skipped.
func readReplay(reader io.Reader) ([]model.TurnRecord, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	records := make([]model.TurnRecord, 0)
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		r, err := parseRecord(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseRecord(s string) (r model.TurnRecord, err error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return r, fmt.Errorf("want 4 fields, got %d", len(fields))
	}
	if r.Color, err = parseColor(fields[0]); err != nil {
		return r, err
	}
	if r.From, err = parseCell(fields[1]); err != nil {
		return r, err
	}
	if !r.From.OnBoard() {
		return r, fmt.Errorf("cell %s off board", r.From)
	}
	to, err := parseCell(fields[3])
	if err != nil {
		return r, err
	}
	switch fields[2] {
	case "m":
		if !to.OnBoard() {
			return r, fmt.Errorf("cell %s off board", to)
		}
		r.Action = model.MoveTo(to)
	case "h", "v":
		if !to.OnWallGrid() {
			return r, fmt.Errorf("wall %s off grid", to)
		}
		r.Action = model.WallAt(to, fields[2] == "v")
	default:
		return r, fmt.Errorf("unknown action %q", fields[2])
	}
	return r, nil
}

func parseColor(s string) (model.Color, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B", "BLACK":
		return model.Black, nil
	case "W", "WHITE":
		return model.White, nil
	}
	return 0, fmt.Errorf("unknown colour %q", s)
}

func parseCell(s string) (model.Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.Cell{}, fmt.Errorf("bad cell %q", s)
	}
	x, err := strconv.Atoi(parts[0])
	if err != nil {
		return model.Cell{}, fmt.Errorf("bad cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return model.Cell{}, fmt.Errorf("bad cell %q: %w", s, err)
	}
	return model.Cell{X: x, Y: y}, nil
}
