// Command arc is an interactive front end for the arithmetic coder. It asks
// for a mode and a pair of file paths, then compresses or decompresses and
// reports sizes, compression ratio and elapsed time.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/smolin/arc"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	sc := bufio.NewScanner(os.Stdin)

	fmt.Println("1) Compress (Arithmetic)")
	fmt.Println("2) Decompress (Arithmetic)")
	mode := prompt(sc, "Choose: ")
	if mode != "1" && mode != "2" {
		fmt.Println("Wrong choice")
		os.Exit(1)
	}
	inPath := prompt(sc, "Input file: ")
	outPath := prompt(sc, "Output file: ")

	start := time.Now()
	if err := run(mode, inPath, outPath); err != nil {
		log.Fatalf("%+v", err)
	}
	elapsed := time.Since(start)

	switch mode {
	case "1":
		inSz := fileSize(inPath)
		outSz := fileSize(outPath)
		fmt.Println("Compressed OK")
		fmt.Printf("Input:  %d bytes\n", inSz)
		fmt.Printf("Output: %d bytes\n", outSz)
		fmt.Printf("Compression: %.2f%%\n", (1-float64(outSz)/float64(inSz))*100)
	case "2":
		fmt.Println("Decompressed OK")
	}
	fmt.Printf("Time: %d ms\n", elapsed.Milliseconds())
}

// run performs the selected operation. A failed run removes the output
// file, so failures leave nothing behind.
func run(mode, inPath, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "")
	}
	switch mode {
	case "1":
		err = arc.Compress(out, inPath)
	case "2":
		var in *os.File
		in, err = os.Open(inPath)
		if err != nil {
			err = errors.Wrap(err, "")
		} else {
			err = arc.Decompress(out, in)
			in.Close()
		}
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outPath)
		return err
	}
	return nil
}

func prompt(sc *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !sc.Scan() {
		fmt.Println()
		os.Exit(1)
	}
	return sc.Text()
}

func fileSize(name string) int64 {
	fi, err := os.Stat(name)
	if err != nil {
		return 0
	}
	return fi.Size()
}
