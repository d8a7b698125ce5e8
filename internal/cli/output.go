package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// writeFile writes b to a temp file next to path and renames it over path,
// so readers never see a half-written network file.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// flagBinding ties a viper key to a command flag.
type flagBinding struct {
	key  string
	flag string
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings ...flagBinding) error {
	for _, b := range bindings {
		if err := v.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			return fmt.Errorf("binding --%s to %s: %w", b.flag, b.key, err)
		}
	}
	return nil
}
