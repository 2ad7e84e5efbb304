// Package socdesc loads a Starlark description of the surrounding system
// bus: the regions it declares, its IO windows, and the reset vector. A
// description file calls the region, io_window and reset_vector builtins at
// the top level; declaration order is preserved.
package socdesc

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sarchlab/vexii/config"
	"github.com/sarchlab/vexii/memmap"
)

// A Description is the loaded system-bus view.
type Description struct {
	Bus            *memmap.SystemBus
	ResetVector    uint64
	HasResetVector bool

	names map[string]bool
}

// Load reads and evaluates a description file.
func Load(path string) (*Description, error) {
	return LoadSource(path, nil)
}

// LoadSource evaluates a description. src may be nil (read from filename),
// a string, or a byte slice, following the Starlark ExecFile convention.
func LoadSource(filename string, src any) (*Description, error) {
	d := &Description{
		Bus:   memmap.NewSystemBus(),
		names: make(map[string]bool),
	}

	builtins := starlark.StringDict{
		"region":       starlark.NewBuiltin("region", d.region),
		"io_window":    starlark.NewBuiltin("io_window", d.ioWindow),
		"reset_vector": starlark.NewBuiltin("reset_vector", d.resetVector),
	}

	opts := syntax.FileOptions{}
	thread := &starlark.Thread{Name: "socdesc"}

	_, err := starlark.ExecFileOptions(&opts, thread, filename, src, builtins)
	if err != nil {
		return nil, &config.Error{
			Field:  "soc description",
			Reason: err.Error(),
		}
	}

	return d, nil
}

func (d *Description) region(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var (
		name           string
		origin, size   uint64
		mode           = "rwx"
		cached, linker bool
	)

	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name,
		"origin", &origin,
		"size", &size,
		"mode?", &mode,
		"cached?", &cached,
		"linker?", &linker,
	)
	if err != nil {
		return nil, err
	}

	if d.names[name] {
		return nil, fmt.Errorf("region %q declared twice", name)
	}
	d.names[name] = true

	accessMode, err := memmap.ParseAccessMode(mode)
	if err != nil {
		return nil, err
	}

	d.Bus.AddRegion(name, origin, size, accessMode, cached, linker)

	return starlark.None, nil
}

func (d *Description) ioWindow(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var origin, size uint64

	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"origin", &origin,
		"size", &size,
	)
	if err != nil {
		return nil, err
	}

	d.Bus.AddIOWindow(origin, size)

	return starlark.None, nil
}

func (d *Description) resetVector(
	_ *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var addr uint64

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"addr", &addr); err != nil {
		return nil, err
	}

	if d.HasResetVector {
		return nil, fmt.Errorf("reset vector declared twice")
	}

	d.ResetVector = addr
	d.HasResetVector = true

	return starlark.None, nil
}
