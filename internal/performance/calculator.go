// Package performance invokes the external pp calculator as a black-box
// subprocess. The binary receives the request on argv and prints a single
// JSON object with pp and star rating.
package performance

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Request describes one pp calculation.
type Request struct {
	MapID    int32
	Mode     uint8
	Mods     int32
	Accuracy float64 // percent, 0..100
}

// Result is the calculator's output.
type Result struct {
	PP    float64 `json:"pp"`
	Stars float64 `json:"stars"`
}

// Calculator runs pp calculations.
type Calculator interface {
	Calculate(ctx context.Context, req Request) (Result, error)
}

// SubprocessCalculator shells out to the configured binary.
type SubprocessCalculator struct {
	binPath string
	mapsDir string
}

// NewSubprocessCalculator creates a calculator using the binary at binPath
// reading .osu files from mapsDir.
func NewSubprocessCalculator(binPath, mapsDir string) *SubprocessCalculator {
	return &SubprocessCalculator{binPath: binPath, mapsDir: mapsDir}
}

// Calculate runs one calculation. A non-zero exit or unparseable output
// is returned as an error; callers surface it as a chat message when the
// request was user-initiated.
func (c *SubprocessCalculator) Calculate(ctx context.Context, req Request) (Result, error) {
	cmd := exec.CommandContext(ctx, c.binPath,
		"--maps-dir", c.mapsDir,
		"--map", strconv.FormatInt(int64(req.MapID), 10),
		"--mode", strconv.Itoa(int(req.Mode)),
		"--mods", strconv.FormatInt(int64(req.Mods), 10),
		"--acc", strconv.FormatFloat(req.Accuracy, 'f', 4, 64),
	)

	out, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("running pp calculator for map %d: %w", req.MapID, err)
	}

	var res Result
	if err := json.Unmarshal(out, &res); err != nil {
		return Result{}, fmt.Errorf("decoding pp calculator output: %w", err)
	}
	return res, nil
}
