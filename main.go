package main

import (
	"flag"
	"fmt"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var concurrency = flag.Uint("threads", 8, "number of concurrent signature checks")
var logFile = flag.String("log", "", "location to store warnings about unreadable entries (default stderr)")
var progressMode = flag.String("progress", "auto", "show a progress bar: one of [auto, always, never]")

// findPNGs checks every regular file below root and returns the resolved
// absolute path of each one that starts with the PNG signature, sorted.
func findPNGs(root string, threads uint, progress *progressbar.ProgressBar) []string {
	files, errors := walkFiles(root)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			err, ok := <-errors
			if !ok {
				return
			}
			log.Println("warning:", err)
		}
	}()

	var (
		mu    sync.Mutex
		found []string
		wg    sync.WaitGroup
	)
	if threads == 0 {
		threads = 1
	}
	wg.Add(int(threads))

	thread := func() {
		defer wg.Done()

		for path := range files {
			ok, err := hasSignature(path)
			_ = progress.Add(1)
			if err != nil {
				log.Printf("warning: %s: %v\n", path, err)
				continue
			}
			if !ok {
				continue
			}

			resolved, err := resolvePath(path)
			if err != nil {
				log.Printf("warning: cannot resolve %s: %v\n", path, err)
				continue
			}

			mu.Lock()
			found = append(found, resolved)
			mu.Unlock()
		}
	}

	for i := uint(0); i < threads; i++ {
		go thread()
	}

	wg.Wait()
	<-drained

	sort.Strings(found)
	return found
}

func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func newProgress(mode string) (*progressbar.ProgressBar, bool) {
	switch mode {
	case "always":
		return progressbar.Default(-1, "scanning"), true
	case "never":
		return progressbar.DefaultSilent(-1), true
	case "auto":
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return progressbar.Default(-1, "scanning"), true
		}
		return progressbar.DefaultSilent(-1), true
	}
	return nil, false
}

func main() {
	flag.Parse()

	usage := func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: findpng [flags] <directory>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		usage()
	}

	root := flag.Arg(0)
	if stat, err := os.Stat(root); err != nil || !stat.IsDir() {
		_, _ = fmt.Fprintf(os.Stderr, "Error: '%s' is not a valid directory\n\n", root)
		usage()
	}
	// the starting directory itself may be a link; everything below it is not followed
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: cannot resolve '%s': %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	progress, ok := newProgress(*progressMode)
	if !ok {
		_, _ = fmt.Fprintf(os.Stderr, "Invalid progress mode %q!\n\n", *progressMode)
		usage()
	}

	if len(*logFile) > 0 {
		logStream, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		defer logStream.Close()
		log.SetOutput(logStream)
	}

	found := findPNGs(root, *concurrency, progress)
	_ = progress.Finish()

	for _, path := range found {
		fmt.Println(path)
	}

	if len(found) == 0 {
		fmt.Println("findpng: No PNG file found")
	}
}
