package main

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"

	"github.com/knvi/stgv/bit"
	"github.com/knvi/stgv/cmp"
	"github.com/knvi/stgv/steg"
)

func run(cli *CLI) error {
	if cli.CheckMaxLength {
		return reportCapacity(cli)
	}

	img, err := loadImage(cli.Image)
	if err != nil {
		return err
	}

	strategy, err := newStrategy(cli)
	if err != nil {
		return err
	}
	codec := steg.New(strategy, &cli.Distribution)

	if cli.Decode {
		return runDecode(cli, codec, img)
	}
	return runEncode(cli, codec, img)
}

func newStrategy(cli *CLI) (bit.Strategy, error) {
	if cli.Method == "rsb" {
		return bit.NewRSB(cli.MaxBit, cli.Seed)
	}
	return bit.LSB{}, nil
}

func loadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image %q: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return toRGBA(src), nil
}

// toRGBA copies any decoded image into an RGBA grid with bounds at (0,0).
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func runEncode(cli *CLI, codec *steg.Codec, img *image.RGBA) error {
	msg, err := readMessage(cli.Input)
	if err != nil {
		return err
	}
	if cli.Compress {
		if msg, err = cmp.Compress(msg); err != nil {
			return err
		}
	}

	if err := codec.CheckFits(img, len(msg)); err != nil {
		return fmt.Errorf("%w (%s > %s); try the compression flag, a larger image or less data",
			err, humanize.Bytes(uint64(len(msg))), humanize.Bytes(uint64(codec.MaxBytes(img))))
	}

	out, err := codec.Encode(img, msg)
	if err != nil {
		return fmt.Errorf("could not encode message into image: %w", err)
	}

	if cli.Distribution.Kind == steg.Linear {
		slog.Info("note: linear distribution length needed to decode",
			"distribution", cli.Distribution.String())
	}

	if cli.Output == "" {
		return writeImage(os.Stdout, out, "png")
	}
	return save(out, cli.Output)
}

func runDecode(cli *CLI, codec *steg.Codec, img *image.RGBA) error {
	msg, err := codec.Decode(img)
	if err != nil {
		return fmt.Errorf("could not decode message from image: %w", err)
	}
	if cli.Compress {
		if msg, err = cmp.Decompress(msg); err != nil {
			return err
		}
	}

	if cli.Output == "" {
		fmt.Println(string(msg))
		return nil
	}
	if err := os.WriteFile(cli.Output, msg, 0o644); err != nil {
		return fmt.Errorf("could not write message to %q: %w", cli.Output, err)
	}
	return nil
}

func readMessage(path string) ([]byte, error) {
	if path == "" {
		msg, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read message from stdin: %w", err)
		}
		return msg, nil
	}
	msg, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read message file %q: %w", path, err)
	}
	return msg, nil
}
