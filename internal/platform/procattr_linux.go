package platform

import "syscall"

// ChildProcAttr returns process attributes that put the child in its own
// process group, so terminal signals reach it only through the parent.
// Pdeathsig is a Linux-only safety net: if the CLI dies unexpectedly, the
// kernel sends SIGTERM to the direct child.
func ChildProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
