// Command extractor walks a previously-written UBI image file, locates
// a volume by index or name, and writes its reconstructed logical
// data to a plain output file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/southpole/ubiflash/internal/cliutil"
	"github.com/southpole/ubiflash/internal/extractor"
)

const version = "ubiflash-extractor 0.1.0"

func main() {
	fs := flag.NewFlagSet("extractor", flag.ExitOnError)
	fs.Usage = func() {
		os.Stderr.WriteString("Usage:\n  extractor -o OUT -p PEBSIZE [-i IDX | -n NAME] [-s] [-v] IMAGE\nOptions:\n")
		fs.PrintDefaults()
	}

	out := fs.String("o", "", "output file path (required)")
	pebSize := fs.String("p", "", "PEB size, accepts a KiB/MiB suffix (required)")
	idx := fs.Int("i", -1, "volume index [0, 128)")
	name := fs.String("n", "", "volume name")
	skipBad := fs.Bool("s", false, "skip PEBs that fail header validation instead of aborting")
	verbose := fs.Bool("v", false, "increase verbosity")
	showVersion := fs.Bool("V", false, "print version and exit")

	fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version)
		return
	}

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	imagePath := fs.Arg(0)

	if *out == "" || *pebSize == "" {
		cliutil.Fatalf("extractor: -o and -p are required")
	}
	if (*idx >= 0) == (*name != "") {
		cliutil.Fatalf("extractor: exactly one of -i or -n is required")
	}

	pebBytes, err := cliutil.ParseSize(*pebSize)
	cliutil.Die("extractor: -p", err)

	level := 1
	if *verbose {
		level = 2
	}
	log := &cliutil.Logger{Level: level}

	image, err := os.Open(imagePath)
	cliutil.Die("extractor: open "+imagePath, err)
	defer image.Close()

	outFile, err := os.OpenFile(*out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	cliutil.Die("extractor: create "+*out, err)
	defer outFile.Close()

	cfg := extractor.Config{
		PEBSize:  pebBytes,
		VolIndex: *idx,
		VolName:  *name,
		SkipBad:  *skipBad,
	}

	if err := extractor.Run(image, outFile, cfg, log); err != nil {
		cliutil.Fatalf("extractor: %v", err)
	}
}
