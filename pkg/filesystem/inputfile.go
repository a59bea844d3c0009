package filesystem

import (
	"bufio"
	"fmt"
	"os"
	"sync"
)

type Type int

const (
	Main Type = iota
	Test
)

func (t Type) String() string {
	if t == Test {
		return "TEST"
	}
	return "MAIN"
}

// InputFile is an indexed source file.
type InputFile struct {
	// Path is slash separated and relative to the base directory.
	Path    string
	AbsPath string
	Type    Type

	once     sync.Once
	contents []string
	err      error
}

func (f *InputFile) String() string {
	return f.Path
}

// Lines returns the file contents split by line; it is read once and cached.
func (f *InputFile) Lines() ([]string, error) {
	f.once.Do(func() {
		fd, err := os.Open(f.AbsPath)
		if err != nil {
			f.err = err
			return
		}
		defer fd.Close()

		s := bufio.NewScanner(fd)
		s.Buffer(make([]byte, 64*1024), 1024*1024)
		for s.Scan() {
			f.contents = append(f.contents, s.Text())
		}
		f.err = s.Err()
	})
	return f.contents, f.err
}

// SelectLine checks that line exists in the file.
func (f *InputFile) SelectLine(line int) error {
	lines, err := f.Lines()
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Path, err)
	}
	if line < 1 || line > len(lines) {
		return fmt.Errorf("%s: line %d out of range [1, %d]", f.Path, line, len(lines))
	}
	return nil
}
