package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpgo/simreport/internal/logging"
	"github.com/rpgo/simreport/internal/report"
)

// maxConcurrentRenders bounds the formats rendered at the same time.
const maxConcurrentRenders = 4

// Result is the outcome of publishing one format.
type Result struct {
	Format string
	Path   string
	Err    error
}

// Publish renders rep with f into dir/base.<ext>. Output goes to a
// temporary file in dir that is renamed into place only after a complete
// render, so a failed render never leaves a partial file behind.
func Publish(dir, base string, f Formatter, rep *report.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	final := filepath.Join(dir, base+"."+f.Ext())
	tmp, err := os.CreateTemp(dir, "."+base+"-*."+f.Ext()+".tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = f.Render(rep, tmp); err != nil {
		return "", fmt.Errorf("render %s: %w", f.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("rename to %s: %w", final, err)
	}
	return final, nil
}

// PublishAll publishes rep in every named format concurrently. Each format
// is independent; results are returned in the order of names and carry
// either the written path or the error of that format alone.
func PublishAll(dir, base string, names []string, rep *report.Report, logger logging.Logger) []Result {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	results := make([]Result, len(names))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentRenders)

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			res := Result{Format: NormalizeFormatName(name)}
			f := GetFormatterByName(name)
			if f == nil {
				res.Err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
				logger.Errorf("format %s: %v", name, res.Err)
				results[i] = res
				return
			}
			logger.Debugf("rendering %s", f.Name())
			res.Path, res.Err = Publish(dir, base, f, rep)
			if res.Err != nil {
				logger.Errorf("format %s: %v", f.Name(), res.Err)
			} else {
				logger.Infof("wrote %s", res.Path)
			}
			results[i] = res
		}(i, name)
	}

	wg.Wait()
	return results
}
