// Package filesystem routes every file operation of the application through a swappable afero backend.
//
// Production code runs on the OS filesystem; tests switch to an in-memory backend so that
// persisted library state never touches the developer's disk.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs installs a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// CanSymlink reports whether the active backend supports symbolic links.
func CanSymlink() bool {
	_, ok := backend.Fs.(afero.Linker)
	return ok
}

// Symlink creates newname as a symbolic link to oldname on backends that support it.
func Symlink(oldname, newname string) error {
	linker, ok := backend.Fs.(afero.Linker)
	if !ok {
		return afero.ErrNoSymlink
	}
	return linker.SymlinkIfPossible(oldname, newname)
}
