package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/knvi/stgv/steg"
)

type CLI struct {
	Decode         bool              `short:"d" help:"Decode a message from the image."`
	Compress       bool              `short:"c" help:"Compress the message before encoding, decompress it after decoding."`
	CheckMaxLength bool              `short:"C" help:"Report the maximum message size the image can carry, then exit."`
	Method         string            `short:"m" enum:"lsb,rsb" default:"lsb" help:"Bit encoding method (lsb, rsb)."`
	Distribution   steg.Distribution `default:"sequential" help:"Pixel distribution: sequential, or linear (linear-N when decoding)."`
	Seed           string            `short:"s" help:"Seed for random significant bit encoding."`
	MaxBit         uint8             `short:"N" name:"max-bit" help:"Highest significant bit the rsb method may modify (1-4)."`
	Output         string            `short:"o" type:"path" help:"Output file; stdout if not given."`
	Input          string            `short:"i" type:"path" help:"File holding the message to encode; stdin if not given."`
	Image          string            `arg:"" type:"path" help:"Carrier image, or a folder of images when checking capacity."`
}

func (c *CLI) Validate(kctx *kong.Context) error {
	if c.Method == "rsb" {
		if c.Seed == "" {
			return fmt.Errorf("rsb method requires --seed")
		}
		if c.MaxBit < 1 || c.MaxBit > 4 {
			return fmt.Errorf("max-bit must be between 1-4, got %d", c.MaxBit)
		}
	}
	if c.Decode && c.Input != "" {
		return fmt.Errorf("--input conflicts with --decode")
	}
	return nil
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("stgv"),
		kong.Description("A steganography tool for images."),
	)

	if err := run(&cli); err != nil {
		slog.Error("stgv failed", "error", err)
		os.Exit(1)
	}
}
