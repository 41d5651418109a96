// Package tasks holds what the demo tasks share: the boot-time kernel surface
// they are started through and the semaphore numbers they agree on.
package tasks

import "rugos/kernel"

// Spawner creates tasks and IPC objects. Both *kernel.Kernel (before Run)
// and *kernel.Context (from inside a task) satisfy it.
type Spawner interface {
	CreateTask(entry kernel.Entry, arg int, class kernel.Class, name kernel.Name) (kernel.TaskID, error)
	InitChannel() (kernel.ChannelID, error)
	InitSemaphore(id kernel.SemID, count int) error
}

var (
	_ Spawner = (*kernel.Kernel)(nil)
	_ Spawner = (*kernel.Context)(nil)
)

const (
	// SemPrint serializes printer jobs on the serial port.
	SemPrint kernel.SemID = 0
	// SemPrintSpace counts free entries in the active printer channel.
	SemPrintSpace kernel.SemID = 1
	// SemFrame lets one interleave writer emit its whole sequence at a time.
	SemFrame kernel.SemID = 5
)
