package pointio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/cheggaaa/pb/v3/termutil"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/mmap"
)

// Stdin is the source name that reads standard input.
const Stdin = "-"

// Source is an opened point file. Plain files are memory mapped,
// `.zst` files are decompressed on the fly.
type Source struct {
	Name string
	// Size of the file on disk, -1 for stdin
	Size int64

	r       io.Reader
	bar     *pb.ProgressBar
	closers []func() error
}

// Open opens name for reading; an empty name or "-" reads stdin.
// When progress is set a progress bar over the file size is drawn on stderr.
func Open(name string, progress bool) (*Source, error) {
	src := &Source{Name: name, Size: -1}
	if name == "" || name == Stdin {
		src.Name = "stdin"
		src.r = os.Stdin
		return src, nil
	}

	var raw io.Reader
	if strings.HasSuffix(name, ".zst") {
		file, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("can`t open file error: %w", err)
		}
		src.closers = append(src.closers, file.Close)
		if stat, err := file.Stat(); err == nil {
			src.Size = stat.Size()
		}
		raw = file
	} else {
		file, err := mmap.Open(name)
		if err != nil {
			return nil, fmt.Errorf("can`t open file error: %w", err)
		}
		src.closers = append(src.closers, file.Close)
		src.Size = int64(file.Len())
		raw = io.NewSectionReader(file, 0, src.Size)
	}

	if progress && src.Size > 0 {
		src.bar = newBar(src.Size, "reading "+name)
		raw = src.bar.NewProxyReader(raw)
	}

	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(raw)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("can`t create zstd reader: %w", err)
		}
		src.closers = append(src.closers, func() error {
			dec.Close()
			return nil
		})
		raw = dec
	}

	src.r = raw
	return src, nil
}

func (s *Source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *Source) Close() error {
	if s.bar != nil {
		s.bar.Finish()
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func newBar(size int64, name string) *pb.ProgressBar {
	bar := pb.New64(size)
	bar.Set("prefix", name)
	bar.Set(pb.Bytes, true)
	bar.SetWriter(os.Stderr)
	bar.SetRefreshRate(time.Second)
	if w, err := termutil.TerminalWidth(); w == 0 || err != nil {
		bar.SetTemplateString(`{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{speed . }} {{rtime . "ETA %s"}}{{with string . "suffix"}} {{.}}{{end}}` + "\n")
	}
	return bar.Start()
}
