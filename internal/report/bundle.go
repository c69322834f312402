package report

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Harshitk-cp/keml-analysis/internal/service"
	"github.com/rotisserie/eris"
)

// WriteBundle writes every report of an analysis into dir, named after base,
// and returns the written paths in creation order.
func WriteBundle(dir, base string, a *service.Analysis, distinguished string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "report: create dir %s", dir)
	}
	prefix := filepath.Join(dir, base)
	var paths []string

	writeFile := func(path string, write func(io.Writer) error) error {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "report: create %s", path)
		}
		if err := write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "report: close %s", path)
		}
		paths = append(paths, path)
		return nil
	}

	if err := writeFile(prefix+"-general.csv", func(w io.Writer) error {
		return WriteGeneral(w, a.Stats)
	}); err != nil {
		return nil, err
	}
	if err := writeFile(prefix+"-arguments.csv", func(w io.Writer) error {
		return WriteArgumentMatrix(w, a.Stats)
	}); err != nil {
		return nil, err
	}
	if err := writeFile(prefix+"-logic-arguments.csv", func(w io.Writer) error {
		return WriteLogicArguments(w, a.Conversation, a.Argumentation)
	}); err != nil {
		return nil, err
	}

	infos := a.Conversation.AllInformation()
	for _, ws := range a.Sweep {
		weight := prefix + "-w" + strconv.Itoa(ws.Weight)
		for _, c := range ws.Configs {
			if err := writeFile(weight+"-"+c.Configuration.Name+"-trust.csv", func(w io.Writer) error {
				return WriteTrustTable(w, infos, c.Result)
			}); err != nil {
				return nil, err
			}
		}

		wb, err := TrustWorkbook(infos, ws, distinguished)
		if err != nil {
			return nil, eris.Wrapf(err, "report: build trust workbook for weight %d", ws.Weight)
		}
		if err := writeFile(weight+"-trust.xlsx", wb.Write); err != nil {
			return nil, eris.Wrap(err, "report: write trust workbook")
		}
	}

	wb, err := ScoresWorkbook(a.Argumentation, distinguished)
	if err != nil {
		return nil, eris.Wrap(err, "report: build scores workbook")
	}
	if err := writeFile(prefix+"-scores-trust.xlsx", wb.Write); err != nil {
		return nil, eris.Wrap(err, "report: write scores workbook")
	}
	return paths, nil
}

// Zip archives the regular files below dir with paths relative to dir.
func Zip(w io.Writer, dir string) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(entry, f)
		return err
	})
	if err != nil {
		return eris.Wrapf(err, "report: zip %s", dir)
	}
	return eris.Wrap(zw.Close(), "report: close zip")
}
