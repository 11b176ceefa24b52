package preprocessor

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ---------------- Line reader ----------------

type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line without its trailing newline. A last line with
// no newline is returned like any other.
func (lr *lineReader) next() (line string, ok bool, err error) {
	s, err := lr.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	if len(s) == 0 && err == io.EOF {
		return "", false, io.EOF
	}
	return strings.TrimSuffix(s, "\n"), true, nil
}

// ---------------- Frames ----------------

// Frame is one open input file. Line is the number of the line most
// recently read from it.
type Frame struct {
	Ref  string
	Path string
	Line int

	f  *os.File
	lr *lineReader
}

// Next returns the next line without its newline. ok is false once the file
// is exhausted; that is not an error.
func (fr *Frame) Next() (line string, ok bool, err error) {
	line, ok, err = fr.lr.next()
	if err == io.EOF {
		return "", false, nil
	}
	if err != nil || !ok {
		return "", false, err
	}
	fr.Line++
	return line, true, nil
}

func (fr *Frame) close() error {
	if fr.f == nil {
		return nil
	}
	err := fr.f.Close()
	fr.f = nil
	return err
}

// ---------------- Stack ----------------

// FileStack holds the files currently open, innermost on top.
type FileStack struct {
	frames []*Frame
}

// Push opens ref and makes it the top frame.
func (s *FileStack) Push(ref string) (*Frame, error) {
	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	fr := &Frame{Ref: ref, Path: abs, f: f, lr: newLineReader(f)}
	s.frames = append(s.frames, fr)
	return fr, nil
}

// PushAs is Push for a file already resolved to path but referenced as ref.
func (s *FileStack) PushAs(ref, path string) (*Frame, error) {
	fr, err := s.Push(path)
	if err != nil {
		return nil, err
	}
	fr.Ref = ref
	return fr, nil
}

// Pop removes the top frame and releases its file.
func (s *FileStack) Pop() (*Frame, error) {
	if len(s.frames) == 0 {
		return nil, nil
	}
	fr := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return fr, fr.close()
}

func (s *FileStack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *FileStack) Len() int    { return len(s.frames) }
func (s *FileStack) Empty() bool { return len(s.frames) == 0 }

// Close releases every frame still on the stack.
func (s *FileStack) Close() error {
	var first error
	for !s.Empty() {
		if _, err := s.Pop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
