//go:build unix && !linux

package platform

import "syscall"

// ChildProcAttr returns process attributes that put the child in its own
// process group. Pdeathsig is not available on non-Linux platforms.
func ChildProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}
