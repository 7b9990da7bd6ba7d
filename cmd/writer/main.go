// Command writer erases a range of physical eraseblocks on a NAND
// partition and writes a payload into them, optionally wrapped in a
// UBI volume.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/southpole/ubiflash/internal/bytesource"
	"github.com/southpole/ubiflash/internal/cliutil"
	"github.com/southpole/ubiflash/internal/flashdev"
	"github.com/southpole/ubiflash/internal/writer"
)

const version = "ubiflash-writer 0.1.0"

func main() {
	fs := flag.NewFlagSet("writer", flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  writer [OPTIONS] MTD_DEVICE [INPUTFILE]\nOptions:\n")
		fs.PrintDefaults()
	}

	blocks := fs.Int("b", 0, "number of PEBs to erase/write (default: to device end)")
	clean := fs.Bool("c", false, "write JFFS2 clean markers on the first page of each written PEB")
	stdin := fs.Bool("i", false, "read payload from stdin; mutually exclusive with INPUTFILE")
	skip := fs.Int64("k", 0, "skip N bytes into the input file (forbidden with stdin)")
	length := fs.Int64("l", 0, "cap payload length at N bytes")
	volID := fs.Uint("n", 0, "UBI volume id")
	volName := fs.String("N", "", "UBI volume name (required when UBI mode has a payload)")
	start := fs.Int("s", 0, "first PEB index")
	volLEBs := fs.Int("S", 0, "volume-LEB count (0 = reserve 20 spares, -k = total-k, N = verbatim)")
	ubiMode := fs.Bool("u", false, "write a UBI-formatted image instead of a raw payload")
	quiet := fs.Bool("q", false, "decrease verbosity")
	verbose := fs.Bool("v", false, "increase verbosity")
	showVersion := fs.Bool("V", false, "print version and exit")

	fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version)
		return
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		os.Exit(1)
	}
	mtdPath := fs.Arg(0)
	inputPath := fs.Arg(1)

	if *stdin && inputPath != "" {
		cliutil.Fatalf("writer: -i and INPUTFILE are mutually exclusive")
	}
	if *skip != 0 && *stdin {
		cliutil.Fatalf("writer: -k cannot be combined with -i")
	}
	havePayload := *stdin || inputPath != ""
	if !havePayload && (*skip != 0 || *length != 0) {
		cliutil.Fatalf("writer: -k and -l require an input source")
	}

	level := 1
	if *quiet {
		level = 0
	}
	if *verbose {
		level = 2
	}
	log := &cliutil.Logger{Level: level}

	dev, err := flashdev.Open(mtdPath)
	cliutil.Die("writer: open "+mtdPath, err)
	defer dev.Close()

	geo, err := dev.Info()
	cliutil.Die("writer: device info", err)

	startPEB := *start
	endPEB := geo.PEBCount()
	if *blocks > 0 {
		endPEB = startPEB + *blocks
	}

	var src *bytesource.Source
	var payloadSize int64

	switch {
	case *stdin:
		src = bytesource.FromStdin(*length)
		payloadSize = *length
	case inputPath != "":
		f, err := os.Open(inputPath)
		cliutil.Die("writer: open "+inputPath, err)
		defer f.Close()
		src, err = bytesource.FromFile(f, *skip, *length)
		cliutil.Die("writer: "+inputPath, err)
		payloadSize = src.Size()
	}

	mode := writer.ModeRaw
	if *ubiMode {
		mode = writer.ModeUBI
	}

	cfg := writer.Config{
		Mode:         mode,
		CleanMarkers: *clean,
		VolID:        uint32(*volID),
		VolName:      *volName,
		StartPEB:     startPEB,
		EndPEB:       endPEB,
	}

	if mode == writer.ModeUBI {
		totalLEBs := cfg.WindowPEBs() - 2
		resolved, err := writer.ResolveVolLEBs(*volLEBs, totalLEBs)
		cliutil.Die("writer: -S", err)
		cfg.VolLEBs = resolved
	}

	if err := writer.Validate(geo, cfg, payloadSize, havePayload); err != nil {
		cliutil.Fatalf("writer: %v", err)
	}

	if err := writer.Run(dev, geo, cfg, src, payloadSize, log); err != nil {
		cliutil.Fatalf("writer: %v", err)
	}
}
