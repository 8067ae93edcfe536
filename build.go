//go:build ignore

// build.go - genaidash build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	module  = "genaidash"
	cmdPath = "./cmd/genaidash"
)

var (
	distDir = "dist"

	// release platforms as GOOS/GOARCH
	platforms = []string{"linux/amd64", "linux/arm64", "darwin/arm64", "windows/amd64"}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	fmt.Printf("%s%s build%s\n\n", colorCyan, module, colorReset)
	startTime := time.Now()

	switch *target {
	case "build":
		buildBinary(runtime.GOOS, runtime.GOARCH, *verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "release":
		clean()
		runTests(*verbose)
		for _, p := range platforms {
			goos, goarch, _ := strings.Cut(p, "/")
			buildBinary(goos, goarch, *verbose)
		}
	default:
		printError(fmt.Sprintf("Unknown target: %s", *target))
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printInfo(msg string)    { fmt.Printf("%s[INFO]%s %s\n", colorCyan, colorReset, msg) }
func printSuccess(msg string) { fmt.Printf("%s[OK]%s %s\n", colorGreen, colorReset, msg) }
func printError(msg string)   { fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg) }
func printWarning(msg string) { fmt.Printf("%s[WARN]%s %s\n", colorYellow, colorReset, msg) }

func buildBinary(goos, goarch string, verbose bool) {
	name := module
	if goos != runtime.GOOS || goarch != runtime.GOARCH {
		name = fmt.Sprintf("%s-%s-%s", module, goos, goarch)
	}
	if goos == "windows" {
		name += ".exe"
	}
	outputPath := filepath.Join(distDir, name)

	printInfo(fmt.Sprintf("Building %s...", name))

	ldflags := fmt.Sprintf("-s -w -X %[1]s/pkg/contracts.BuildTime=%[2]s -X %[1]s/pkg/contracts.GitCommit=%[3]s -X %[1]s/pkg/contracts.GitBranch=%[4]s",
		module, time.Now().UTC().Format(time.RFC3339), gitOutput("rev-parse", "--short", "HEAD"), gitOutput("rev-parse", "--abbrev-ref", "HEAD"))

	args := []string{"build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, cmdPath}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
		fmt.Printf("go %s\n", strings.Join(args, " "))
	}

	cmd := exec.Command("go", args...)
	// modernc.org/sqlite is pure Go, so every target builds without cgo
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+goos, "GOARCH="+goarch)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", name, float64(info.Size())/1024/1024))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
		return
	}
	printSuccess("Build artifacts cleaned")
}

// gitOutput returns the trimmed output of a git command, or "unknown"
func gitOutput(args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		printWarning(fmt.Sprintf("git %s failed, using \"unknown\"", strings.Join(args, " ")))
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
