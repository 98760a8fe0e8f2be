package migrate

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Pledge to the kernel the syscalls a migration session needs on OpenBSD:
// filesystem access for the schema dir, flock for the creation lock, and
// the network for the server conversation.
func Pledge() error {
	const promises = "stdio rpath wpath cpath flock inet dns tty"
	if err := unix.Pledge(promises, ""); err != nil {
		return err
	}
	return nil
}

// Unveil only the schema directories the program works in.
func Unveil(paths []string) error {
	for _, p := range paths {
		if err := unix.Unveil(p, "rwc"); err != nil {
			return errors.Wrapf(err, "unveil %s", p)
		}
	}
	if err := unix.UnveilBlock(); err != nil {
		return errors.Wrap(err, "unveil block")
	}
	return nil
}
