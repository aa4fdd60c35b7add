package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/knvi/stgv/parallel"
	"github.com/knvi/stgv/steg"
)

// reportCapacity prints how many message bytes fit the image given on the
// command line, or every image in it when the argument is a folder.
func reportCapacity(cli *CLI) error {
	info, err := os.Stat(cli.Image)
	if err != nil {
		return fmt.Errorf("could not stat %q: %w", cli.Image, err)
	}
	if info.IsDir() {
		return reportDirCapacity(cli.Image, cli.Method)
	}

	capBytes, err := probeCapacity(cli.Image)
	if err != nil {
		return err
	}
	fmt.Printf("Image               %s\n", cli.Image)
	fmt.Printf("Encoding Method     %s\n", cli.Method)
	fmt.Printf("Max Message Length  %s\n", humanize.Bytes(uint64(capBytes)))
	return nil
}

// reportDirCapacity scans every regular file in dir on the worker pool and
// reports per-image capacity plus totals. Probing only reads image headers,
// so the scan is cheap even for large folders.
func reportDirCapacity(dir, method string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	pool := parallel.Start(0)

	var totalBytes, scannedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		pool.Do(func(filePath string) func() {
			return func() {
				capBytes, err := probeCapacity(filePath)
				if err != nil {
					errCount.Add(1)
					slog.Error("could not read image", "file", filePath, "error", err)
					return
				}
				scannedCount.Add(1)
				totalBytes.Add(uint64(capBytes))
				slog.Info("capacity", "file", filePath, "method", method,
					"bytes", capBytes, "size", humanize.Bytes(uint64(capBytes)))
			}
		}(filepath.Join(dir, file.Name())))
	}

	pool.Wait(true)

	scanned := scannedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "images", scanned, "errors", errors,
		"total", humanize.Bytes(totalBytes.Load()))

	if errors > 0 {
		return fmt.Errorf("error reading %d files", errors)
	}
	return nil
}

// probeCapacity reads just enough of the file to learn its dimensions.
func probeCapacity(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer f.Close()

	conf, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("could not read image %q: %w", path, err)
	}
	return steg.Capacity(conf.Width, conf.Height), nil
}
