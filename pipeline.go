package indexpal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const batchWorkers = 10

func convertible(file string) bool {
	switch filepath.Ext(file) {
	case ".png", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

// outputName places the converted file next to its source, keeping GIFs
// animated and turning everything else into an indexed PNG.
func outputName(file string) string {
	ext := ".png"
	if filepath.Ext(file) == ".gif" {
		ext = ".gif"
	}
	return strings.TrimSuffix(file, filepath.Ext(file)) + "-indexed" + ext
}

func (ip *IndexPal) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !convertible(file) {
				return nil
			}

			// Skip our own previous output
			if strings.HasSuffix(strings.TrimSuffix(file, filepath.Ext(file)), "-indexed") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (ip *IndexPal) convertWorker(ctx context.Context, in <-chan string, opts ConvertOptions) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := ip.ConvertFile(file, outputName(file), opts); err != nil {
				ip.logger.Printf("failed to convert \"%s\": %v\n", file, err)
				errc <- err
				return
			}
			ip.logger.Printf("converted \"%s\"\n", file)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch walks path and converts every image file found, fanning the work out
// across a fixed pool of workers. The first error cancels the walk.
func (ip *IndexPal) Batch(path string, opts ConvertOptions) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := ip.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < batchWorkers; i++ {
		errc, err := ip.convertWorker(ctx, files, opts)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
