// Package report renders lint results in the configured output format.
package report

import (
	"fmt"
	"hookdeps/internal/core/app"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/shared/util"
	"hookdeps/internal/ui/report/formats"
	"io"
	"strings"

	"github.com/google/uuid"
)

const (
	FormatText  = "text"
	FormatTSV   = "tsv"
	FormatSARIF = "sarif"
)

// Options selects the rendering of one report.
type Options struct {
	Format      string
	ProjectRoot string
	Color       bool
	// RunID identifies the run in SARIF output; a random one is used when nil.
	RunID uuid.UUID
}

func Render(files []app.FileResult, opts Options) ([]byte, error) {
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		return []byte(formats.TextReport{ProjectRoot: opts.ProjectRoot, Color: opts.Color}.Generate(files)), nil
	case FormatTSV:
		return []byte(formats.GenerateTSV(opts.ProjectRoot, files)), nil
	case FormatSARIF:
		id := opts.RunID
		if id == uuid.Nil {
			id = uuid.New()
		}
		data, err := formats.GenerateSARIF(opts.ProjectRoot, files, id)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "encode sarif")
		}
		return append(data, '\n'), nil
	default:
		return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("unknown output format %q", opts.Format))
	}
}

func Write(w io.Writer, files []app.FileResult, opts Options) error {
	data, err := Render(files, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile renders to path, creating parent directories. Styling is never
// applied to files.
func WriteFile(path string, files []app.FileResult, opts Options) error {
	opts.Color = false
	data, err := Render(files, opts)
	if err != nil {
		return err
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write report"), errors.CtxPath, path)
	}
	return nil
}
