package gen

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// bannerRule frames the separator comment of single-file blocks.
var bannerRule = "-- " + strings.Repeat("=", 60) + "\n"

// withFile creates (or truncates) name, hands a buffered writer to fn and
// flushes and closes the file on every return path. Flush and close errors
// are joined into the returned error.
func withFile(name string, fn func(w *bufio.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	w := bufio.NewWriter(f)
	err = fn(w)
	if ferr := w.Flush(); ferr != nil {
		err = errors.Join(err, ferr)
	}
	return err
}

// writer writes rendered tables sequentially, in table order, and records
// every written path in the manifest.
type writer struct {
	cfg      *Config
	manifest *Manifest
}

// write writes the shared Go file, all rendered tables and the manifest.
func (w *writer) write(ctx context.Context, shared []byte, out []*rendered) error {
	if shared != nil {
		if err := w.writeBytes(DBFile, shared); err != nil {
			return err
		}
		w.manifest.Access = append(w.manifest.Access, DBFile)
	}
	var err error
	if !w.cfg.SkipSQL && w.cfg.OutputMode == OutputSingle {
		rel := w.cfg.SQLFile
		w.manifest.SQL = append(w.manifest.SQL, rel)
		err = withFile(w.abs(rel), func(sql *bufio.Writer) error {
			return w.writeTables(ctx, out, sql)
		})
		if err != nil && !IsGenerationError(err) {
			err = NewGenerationError("write", rel, "", err)
		}
	} else {
		err = w.writeTables(ctx, out, nil)
	}
	if err != nil {
		return err
	}
	return w.writeManifest()
}

// writeTables writes each table in order. In single-file mode, scripts go to
// the shared writer; otherwise each script gets its own file.
func (w *writer) writeTables(ctx context.Context, out []*rendered, shared *bufio.Writer) error {
	for _, r := range out {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, p := range r.plan.Procedures {
			if r.scripts == nil {
				break
			}
			var err error
			if shared != nil {
				err = writeBlock(shared, p, r.scripts[i])
				if err != nil {
					err = NewGenerationError("write", w.cfg.SQLFile, p.Name, err)
				}
			} else {
				err = w.writeScript(p, r.scripts[i])
			}
			if err != nil {
				return err
			}
		}
		if r.transfer != nil {
			rel := w.cfg.transferFile(r.plan.Table)
			if err := w.writeBytes(rel, r.transfer); err != nil {
				return err
			}
			w.manifest.Transfer = append(w.manifest.Transfer, rel)
		}
		if r.access != nil {
			rel := w.cfg.accessFile(r.plan.Table)
			if err := w.writeBytes(rel, r.access); err != nil {
				return err
			}
			w.manifest.Access = append(w.manifest.Access, rel)
		}
	}
	return nil
}

// writeScript writes one procedure to its own file, preceded by a USE
// header when a database is configured.
func (w *writer) writeScript(p *Procedure, script []byte) error {
	rel := path.Join(SQLDir, p.File)
	err := withFile(w.abs(rel), func(f *bufio.Writer) error {
		if w.cfg.Database != "" {
			if _, err := f.WriteString("USE " + QuoteIdent(w.cfg.Database) + "\nGO\n\n"); err != nil {
				return err
			}
		}
		_, err := f.Write(script)
		return err
	})
	if err != nil {
		return NewGenerationError("write", rel, "", err)
	}
	w.manifest.SQL = append(w.manifest.SQL, rel)
	return nil
}

// writeBlock appends one procedure to the shared file, preceded by a
// separator banner.
func writeBlock(f *bufio.Writer, p *Procedure, script []byte) error {
	// Write errors are sticky; the last write reports them.
	f.WriteString(bannerRule)
	f.WriteString("-- " + p.QualifiedName() + "\n")
	f.WriteString(bannerRule)
	f.Write(script)
	_, err := f.WriteString("\n")
	return err
}

func (w *writer) writeBytes(rel string, b []byte) error {
	err := withFile(w.abs(rel), func(f *bufio.Writer) error {
		_, err := f.Write(b)
		return err
	})
	if err != nil {
		return NewGenerationError("write", rel, "", err)
	}
	return nil
}

func (w *writer) writeManifest() error {
	err := withFile(w.abs(ManifestFile), func(f *bufio.Writer) error {
		return w.manifest.Encode(f)
	})
	if err != nil {
		return NewGenerationError("write", ManifestFile, "manifest", err)
	}
	return nil
}

// abs maps a slash-separated output-relative path to the file system.
func (w *writer) abs(rel string) string {
	return filepath.Join(w.cfg.OutputPath, filepath.FromSlash(rel))
}
