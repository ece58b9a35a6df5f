package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-flat-raytracer/pkg/geometry"
	"github.com/df07/go-flat-raytracer/pkg/output"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

// appConfig holds settings that come from the environment rather than flags
type appConfig struct {
	OutputDir string
	ScenesDir string
	S3        output.S3Config
}

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// loadConfig reads an optional .env file and then the process environment
func loadConfig(envFile string) appConfig {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	return appConfig{
		OutputDir: getEnv("RAYTRACER_OUTPUT_DIR", "output"),
		ScenesDir: getEnv("RAYTRACER_SCENES_DIR", "scenes"),
		S3: output.S3Config{
			Endpoint:  os.Getenv("RAYTRACER_S3_ENDPOINT"),
			Region:    getEnv("RAYTRACER_S3_REGION", "us-east-1"),
			Bucket:    os.Getenv("RAYTRACER_S3_BUCKET"),
			AccessKey: os.Getenv("RAYTRACER_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("RAYTRACER_S3_SECRET_KEY"),
			Prefix:    os.Getenv("RAYTRACER_S3_PREFIX"),
		},
	}
}

// createScene resolves the scene argument against the built-ins and the scenes directory
func createScene(sceneType, scenesDir string, overrides geometry.CameraConfig) (*scene.Scene, error) {
	return scene.Load(sceneType, scenesDir, overrides)
}

// outputName turns a scene argument such as "scenes/primitives.yaml" into a directory-safe name
func outputName(sceneType string) string {
	name := strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))
	name = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	if name == "" || name == "." {
		return "scene"
	}
	return name
}

// resolvePolicy picks the flag value if set, otherwise the policy stored in the scene
func resolvePolicy(flagValue string, s *scene.Scene) (renderer.HitPolicy, error) {
	if flagValue != "" {
		return renderer.ParseHitPolicy(flagValue)
	}
	return renderer.ParseHitPolicy(s.HitPolicy)
}

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene: built-in name, scene name in the scenes directory, or path to a .yaml file")
	help := flag.Bool("help", false, "Show help information")
	fov := flag.Float64("fov", 0, "Vertical field of view in degrees (0 = scene default)")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	height := flag.Int("height", 0, "Image height in pixels (0 = scene default)")
	policy := flag.String("policy", "", "Hit policy: 'nearest', 'first' or 'last' (empty = scene default)")
	workers := flag.Int("workers", 1, "Render goroutines (0 = number of CPUs)")
	scale := flag.Int("scale", 1, "Integer upscale factor applied before saving")
	out := flag.String("out", "", "Output file (default output/<scene>/render_<timestamp>.png)")
	envFile := flag.String("config", ".env", "Optional .env file with RAYTRACER_* settings")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Flat Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Printf("  built-in: %s\n", strings.Join(scene.BuiltinNames(), ", "))
		fmt.Println("  any .yaml file in the scenes directory (RAYTRACER_SCENES_DIR)")
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
		return
	}

	if err := run(*sceneType, *envFile, *out, *policy, *workers, *scale,
		geometry.CameraConfig{VFov: *fov, Width: *width, Height: *height}); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sceneType, envFile, outPath, policyName string, workers, scale int, overrides geometry.CameraConfig) error {
	cfg := loadConfig(envFile)
	logger := renderer.NewDefaultLogger()

	fmt.Println("Starting Flat Raytracer...")

	selectedScene, err := createScene(sceneType, cfg.ScenesDir, overrides)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}

	camera, err := geometry.NewCamera(selectedScene.CameraConfig)
	if err != nil {
		return fmt.Errorf("configuring camera: %w", err)
	}

	hitPolicy, err := resolvePolicy(policyName, selectedScene)
	if err != nil {
		return err
	}

	raytracer := renderer.NewRaytracer(selectedScene, camera, logger)
	raytracer.SetHitPolicy(hitPolicy)
	raytracer.SetWorkers(workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, stats, err := raytracer.RenderImage(ctx)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	fmt.Printf("Render completed in %v\n", stats.Elapsed)
	fmt.Printf("Pixels hit: %d of %d (%.1f%%), intersection tests: %d, average luminance %.3f\n",
		stats.HitPixels, stats.TotalPixels, stats.HitRatio()*100, stats.IntersectionTests,
		renderer.CalculateAverageLuminance(img))

	final := output.Scale(img, scale)

	filename := outPath
	if filename == "" {
		filename = output.TimestampedPath(cfg.OutputDir, outputName(sceneType), time.Now(), "png")
	}
	if err := output.Save(final, filename); err != nil {
		return fmt.Errorf("saving image: %w", err)
	}
	fmt.Printf("Render saved as %s\n", filename)

	if cfg.S3.Enabled() {
		publisher, err := output.NewS3Publisher(cfg.S3)
		if err != nil {
			return fmt.Errorf("creating S3 publisher: %w", err)
		}
		key, err := publisher.Publish(ctx, filepath.Base(filename), final)
		if err != nil {
			return fmt.Errorf("publishing render: %w", err)
		}
		fmt.Printf("Render published as s3://%s/%s\n", cfg.S3.Bucket, key)
	}

	return nil
}
