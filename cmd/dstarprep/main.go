// Command dstarprep preps images for D-STAR picture transfer
// (ID-52-friendly baseline JPG).
//
// Usage:
//
//	dstarprep [flags] <file-or-folder>
//
// Examples:
//
//	dstarprep photo.jpg
//	dstarprep --size 320x240 --max-kb 60 vacation/
//	dstarprep --watermark "K0PRA|Parker, Colorado" --caption "Pikes Peak" photo.jpg
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dstarprep "github.com/ethanx/dstar-image-prep"
)

func newRootCommand() *cobra.Command {
	var (
		outDir    string
		size      string
		maxKB     int
		mode      string
		watermark string
		caption   string
		prefix    string
		suffix    string
	)

	cmd := &cobra.Command{
		Use:           "dstarprep [flags] <file-or-folder>",
		Short:         "Prep images for D-STAR picture transfer (ID-52-friendly baseline JPG)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(size, maxKB, mode, watermark, caption, prefix, suffix)
			if err != nil {
				return err
			}

			_, err = dstarprep.Run(cmd.Context(), args[0], outDir, opts, dstarprep.BatchOptions{
				OnLog: func(line string) { fmt.Println(line) },
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "OUT", "Output folder")
	cmd.Flags().StringVar(&size, "size", "640x480", "Target size like 640x480")
	cmd.Flags().IntVar(&maxKB, "max-kb", 200, "Max file size in KB")
	cmd.Flags().StringVar(&mode, "mode", "cover", "cover=crop, contain=letterbox, exact=distort")
	cmd.Flags().StringVar(&watermark, "watermark", "", "Watermark text, use | for 2 lines (e.g. \"K0PRA|Parker, Colorado\")")
	cmd.Flags().StringVar(&caption, "caption", "", "Optional caption line (landmark, elevation, event name)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Prefix added to output filename")
	cmd.Flags().StringVar(&suffix, "suffix", "", "Suffix added to output filename")

	return cmd
}

func buildOptions(size string, maxKB int, mode, watermark, caption, prefix, suffix string) (dstarprep.Options, error) {
	w, h, err := dstarprep.ParseTargetSize(size)
	if err != nil {
		return dstarprep.Options{}, err
	}
	m, err := dstarprep.ParseFitMode(mode)
	if err != nil {
		return dstarprep.Options{}, err
	}
	if maxKB <= 0 {
		return dstarprep.Options{}, fmt.Errorf("%w: max-kb %d must be positive", dstarprep.ErrInvalidConfig, maxKB)
	}

	opts := dstarprep.DefaultOptions()
	opts.Target = dstarprep.TargetSpec{Width: w, Height: h, Mode: m}
	opts.Budget = dstarprep.DefaultBudget(maxKB)
	opts.Watermark.Identity = watermark
	opts.Watermark.Caption = caption
	opts.Naming = dstarprep.OutputNaming{Prefix: prefix, Suffix: suffix}
	return opts, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
