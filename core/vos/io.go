package vos

import "io"

// VIO holds the standard streams of a process.
type VIO interface {
	Stdin() io.Reader
	Stdout() io.Writer
	Stderr() io.Writer
}

// NewVIOAdapter bundles the given streams, nil readers always report EOF and
// nil writers discard.
func NewVIOAdapter(stdin io.Reader, stdout, stderr io.Writer) *VIOAdapter {
	return &VIOAdapter{
		IStdin:  readerOrEmpty(stdin),
		IStdout: writerOrDiscard(stdout),
		IStderr: writerOrDiscard(stderr),
	}
}

// NewNullIO creates a valid /dev/null style I/O, reads return EOF and writes
// are discarded.
func NewNullIO() VIO {
	return NewVIOAdapter(nil, nil, nil)
}

type VIOAdapter struct {
	IStdin  io.Reader
	IStdout io.Writer
	IStderr io.Writer
}

var _ VIO = (*VIOAdapter)(nil)

func (pr *VIOAdapter) Stdin() io.Reader {
	return pr.IStdin
}

func (pr *VIOAdapter) Stdout() io.Writer {
	return pr.IStdout
}

func (pr *VIOAdapter) Stderr() io.Writer {
	return pr.IStderr
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func readerOrEmpty(r io.Reader) io.Reader {
	if r == nil {
		return eofReader{}
	}
	return r
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
