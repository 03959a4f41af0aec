package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"aperturesynth/pkg/config"
	"aperturesynth/pkg/imageio"
	"aperturesynth/pkg/metrics"
	"aperturesynth/pkg/reconstruction"
	"aperturesynth/pkg/visualization"
)

func main() {
	// Parse command line arguments
	scenePath := flag.String("scene", "", "Grayscale scene image (PNG, JPEG or TIFF)")
	maskPath := flag.String("mask", "", "Non-circular pupil mask image, same size as the scene")
	baselinePath := flag.String("baseline", "", "Optional circular pupil mask for the baseline comparison")
	configPath := flag.String("config", "", "YAML configuration file (defaults are used if missing)")
	writeConfig := flag.String("write-config", "", "Write the default configuration to this path and exit")
	numAngles := flag.Int("angles", 0, "Number of pupil rotations between 0 and 180 degrees")
	snr := flag.Float64("snr", 0, "Signal-to-noise ratio assumed by the Wiener filter")
	interp := flag.String("interp", "", "Mask rotation interpolation: nearest, bilinear or catmullrom")
	numWorkers := flag.Int("workers", 0, "Number of parallel workers (default: all available cores)")
	outputDir := flag.String("out", "", "Directory to write images and reports")
	saveIntermediary := flag.Bool("save-intermediary", false, "Save per-angle masks, MTFs and frames")
	htmlReport := flag.Bool("html", false, "Write an interactive HTML report")
	quiet := flag.Bool("quiet", false, "Only print the final metrics")
	flag.Parse()

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("Failed to write default configuration: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *writeConfig)
		return
	}

	// Validate inputs
	if *scenePath == "" || *maskPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration, then let explicitly set flags override it
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "angles":
			cfg.Synthesis.NumAngles = *numAngles
		case "snr":
			cfg.Synthesis.SNR = *snr
		case "interp":
			cfg.Synthesis.Interpolation = *interp
		case "workers":
			cfg.Processing.NumWorkers = *numWorkers
		case "out":
			cfg.Output.Dir = *outputDir
		case "save-intermediary":
			cfg.Output.SaveIntermediaryResults = *saveIntermediary
		case "html":
			cfg.Output.HTMLReport = *htmlReport
		case "quiet":
			cfg.Output.Verbose = !*quiet
		}
	})

	params, err := reconstruction.ParamsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("ROTATING APERTURE SYNTHESIS WITH WIENER RECONSTRUCTION")
	fmt.Println("================================")

	// Load input images
	inputs := reconstruction.Inputs{}
	if inputs.Scene, err = imageio.Load(*scenePath); err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if inputs.Mask, err = imageio.Load(*maskPath); err != nil {
		log.Fatalf("Failed to load pupil mask: %v", err)
	}
	if *baselinePath != "" {
		if inputs.Baseline, err = imageio.Load(*baselinePath); err != nil {
			log.Fatalf("Failed to load baseline mask: %v", err)
		}
	}

	// Run the reconstruction pipeline
	startTime := time.Now()
	result, err := reconstruction.Run(context.Background(), inputs, params)
	if err != nil {
		log.Fatalf("Reconstruction failed: %v", err)
	}
	processingTime := time.Since(startTime)

	fmt.Printf("\nReconstruction completed successfully in %.2f seconds!\n\n", processingTime.Seconds())
	printReport("Reconstructed", result.Quality)
	if result.BaselineQuality != nil {
		printReport("Circular aperture baseline", *result.BaselineQuality)
	}

	// Write outputs
	dir := cfg.Output.Dir
	viewer := visualization.NewViewer(inputs.Scene, result)
	if err := viewer.SaveImages(dir); err != nil {
		log.Fatalf("Failed to save images: %v", err)
	}
	fmt.Printf("Images saved to: %s\n", dir)

	if cfg.Output.PlotHistograms {
		path := filepath.Join(dir, visualization.HistogramFile)
		if err := viewer.PlotHistograms(path); err != nil {
			log.Printf("Warning: Failed to plot histograms: %v", err)
		} else {
			fmt.Printf("Histogram plot saved to: %s\n", path)
		}
	}

	if cfg.Output.HTMLReport {
		path := filepath.Join(dir, visualization.ReportFile)
		if err := viewer.WriteReport(path); err != nil {
			log.Printf("Warning: Failed to write HTML report: %v", err)
		} else {
			fmt.Printf("HTML report saved to: %s\n", path)
		}
	}

	if cfg.Output.SaveIntermediaryResults {
		path := filepath.Join(dir, cfg.Output.IntermediaryDir)
		if err := viewer.SaveSampleSequence(path); err != nil {
			log.Printf("Warning: Failed to save intermediary results: %v", err)
		} else {
			fmt.Println("\nIntermediary results saved to:")
			fmt.Printf("%s\n", path)
			fmt.Println("- masks: Rotated pupil masks")
			fmt.Println("- mtfs: MTF magnitude for each rotation")
			fmt.Println("- frames: Simulated frame magnitude for each rotation")
		}
	}
}

// printReport prints the quality metrics of one comparison
func printReport(title string, r metrics.Report) {
	fmt.Printf("%s vs original:\n", title)
	if r.Similarity.Defined {
		fmt.Printf("- Histogram cosine similarity: %.4f\n", r.Similarity.Score)
	} else {
		fmt.Printf("- Histogram cosine similarity: undefined (empty histogram)\n")
	}
	fmt.Printf("- Root Mean Square Error (RMSE): %.4f\n", r.RMSE)
	fmt.Printf("- Structural Similarity Index (SSIM): %.4f\n", r.SSIM)
	fmt.Printf("- Entropy Difference: %.4f\n\n", r.EntropyDiff)
}
