package shared

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter emits user-facing progress and summary lines to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
}

type flusher interface {
	Flush() error
}

type writerReporter struct {
	writer io.Writer
	mutex  *sync.Mutex
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer, flushing buffered writers
// after every line so progress appears immediately. A nil or discarding writer falls back to stdout.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil || writer == io.Discard {
		writer = os.Stdout
	}
	return writerReporter{writer: writer, mutex: &sync.Mutex{}}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	if reporter.writer == nil {
		return
	}
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()

	fmt.Fprintf(reporter.writer, format, args...)
	if flushableWriter, implementsFlush := reporter.writer.(flusher); implementsFlush {
		_ = flushableWriter.Flush()
	}
}
