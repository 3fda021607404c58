package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vegasq/policycat/internal/output"
	"github.com/vegasq/policycat/internal/reader"
)

// writeTable renders t in format to path, or to the command's stdout when
// path is empty. An empty table, as returned after a bounded request timed
// out, is skipped with a warning and leaves path untouched. Files are
// written to a temporary sibling and renamed into place once complete.
func (a *app) writeTable(cmd *cobra.Command, format, path string, t *reader.Table) error {
	if t.IsEmpty() {
		a.logger.Warn().Str("format", format).Str("file", path).Msg("no data received, output skipped")
		return nil
	}

	var opts []output.Option
	if a.raw {
		opts = append(opts, output.Raw())
	}

	if path == "" {
		formatter, err := output.New(format, cmd.OutOrStdout(), opts...)
		if err != nil {
			return err
		}
		return formatter.Format(t)
	}

	formatter, err := output.New(format, nil, opts...)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	formatter.SetOutput(tmp)
	if err := formatter.Format(t); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	committed = true
	return nil
}
