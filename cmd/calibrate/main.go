// Package main finds the target neighbor count for which the initial fluid
// lattice reconstructs its rest density.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/shallows/config"
)

// evalRecord is one row of calibrate_log.csv.
type evalRecord struct {
	Eval            int     `csv:"eval"`
	TargetNeighbors float64 `csv:"target_neighbors"`
	DensityRatio    float64 `csv:"density_ratio"`
	Loss            float64 `csv:"loss"`
}

// neighborRange maps the optimizer's unbounded coordinate onto [Min, Max].
type neighborRange struct {
	Min, Max float64
}

// Denormalize converts a normalized coordinate to a neighbor count, clamped to the range.
func (r neighborRange) Denormalize(x float64) float64 {
	return r.Min + (r.Max-r.Min)*math.Max(0, math.Min(1, x))
}

// Normalize is the inverse of Denormalize inside the range.
func (r neighborRange) Normalize(n float64) float64 {
	return (n - r.Min) / (r.Max - r.Min)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	minNeighbors := flag.Float64("min", 6, "Lower bound on the target neighbor count")
	maxNeighbors := flag.Float64("max", 60, "Upper bound on the target neighbor count")
	maxEvals := flag.Int("max-evals", 40, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for the evaluation log and calibrated config")
	flag.Parse()

	if !(*maxNeighbors > *minNeighbors) || *minNeighbors <= 0 {
		log.Fatalf("invalid neighbor range [%v, %v]", *minNeighbors, *maxNeighbors)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	evaluator, err := NewEvaluator(cfg)
	if err != nil {
		log.Fatalf("failed to prepare evaluator: %v", err)
	}

	bounds := neighborRange{Min: *minNeighbors, Max: *maxNeighbors}
	initX := []float64{bounds.Normalize(math.Max(bounds.Min, math.Min(bounds.Max, cfg.Physics.TargetNeighbors)))}

	var records []*evalRecord
	best := evalRecord{Loss: math.Inf(1)}
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			n := bounds.Denormalize(x[0])
			loss, ratio, err := evaluator.Loss(n)
			if err != nil {
				log.Printf("evaluation at %.3f failed: %v", n, err)
				return math.Inf(1)
			}
			// Penalize leaving the range so the simplex walks back in
			if x[0] < 0 || x[0] > 1 {
				loss += math.Abs(x[0] - math.Max(0, math.Min(1, x[0])))
			}

			rec := &evalRecord{Eval: len(records) + 1, TargetNeighbors: n, DensityRatio: ratio, Loss: loss}
			records = append(records, rec)
			if loss < best.Loss {
				best = *rec
			}

			fmt.Printf("Eval %d/%d: neighbors=%.3f ratio=%.5f (best=%.3f) | elapsed: %s\n",
				rec.Eval, *maxEvals, n, ratio, best.TargetNeighbors, time.Since(startTime).Round(time.Millisecond))
			return loss
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 8,
		},
	}
	method := &optimize.NelderMead{
		SimplexSize: 0.1,
	}

	fmt.Printf("Calibrating target_neighbors in [%.1f, %.1f], max_evals=%d\n", bounds.Min, bounds.Max, *maxEvals)

	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if len(records) == 0 {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", len(records), time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Best target_neighbors: %.4f (density ratio %.6f)\n", best.TargetNeighbors, best.DensityRatio)

	if *outputDir == "" {
		return
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	f, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&records, f); err != nil {
		log.Printf("failed to write evaluation log: %v", err)
	}

	cfg.Physics.TargetNeighbors = best.TargetNeighbors
	configOutPath := filepath.Join(*outputDir, "calibrated_config.yaml")
	if err := cfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write calibrated config: %v", err)
	} else {
		fmt.Printf("Calibrated config saved to: %s\n", configOutPath)
	}
}
