// Package config loads the boot configuration: the cyclic-executive table,
// the sporadic execution bound and the demo task set.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"rugos/kernel"
)

// Demo names accepted in File.Demos.
const (
	DemoUptime     = "uptime"
	DemoPrinter    = "printer"
	DemoInterleave = "interleave"
	DemoBlink      = "blink"
)

var knownDemos = []string{DemoUptime, DemoPrinter, DemoInterleave, DemoBlink}

// File is the YAML boot file.
type File struct {
	Kernel  Kernel   `yaml:"kernel"`
	Demos   []string `yaml:"demos,omitempty"`
	Printer Printer  `yaml:"printer,omitempty"`
	Blink   Blink    `yaml:"blink,omitempty"`
	Uptime  Uptime   `yaml:"uptime,omitempty"`
}

type Kernel struct {
	// MaxExecutionTime bounds sporadic and idle runs, in milliseconds.
	MaxExecutionTime uint64 `yaml:"max_execution_time,omitempty"`
	Schedule         []Slot `yaml:"schedule"`
}

// Slot is one cyclic-executive entry. Name is a periodic task name or "idle".
type Slot struct {
	Name     SlotName `yaml:"name"`
	MaxSlice uint64   `yaml:"max_slice"`
}

// SlotName is a periodic task name; kernel.IdleSlot marks an idle slot.
type SlotName kernel.Name

func (n *SlotName) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: slot name must be a scalar", node.Line)
	}
	if strings.EqualFold(node.Value, "idle") {
		*n = SlotName(kernel.IdleSlot)
		return nil
	}
	v, err := strconv.ParseUint(node.Value, 0, 16)
	if err != nil {
		return fmt.Errorf("line %d: slot name %q: want a number or \"idle\"", node.Line, node.Value)
	}
	if kernel.Name(v) == kernel.IdleSlot {
		return fmt.Errorf("line %d: slot name %d is reserved for idle slots", node.Line, v)
	}
	*n = SlotName(v)
	return nil
}

func (n SlotName) MarshalYAML() (interface{}, error) {
	if kernel.Name(n) == kernel.IdleSlot {
		return "idle", nil
	}
	return uint16(n), nil
}

func (n SlotName) String() string {
	if kernel.Name(n) == kernel.IdleSlot {
		return "idle"
	}
	return strconv.Itoa(int(n))
}

type Printer struct {
	// Message is printed on the serial port, one character per pump run.
	Message string `yaml:"message,omitempty"`
	// Period is the pump's device period in milliseconds.
	Period uint16 `yaml:"period,omitempty"`
}

type Blink struct {
	// Period is the LED half-period in milliseconds.
	Period uint16 `yaml:"period,omitempty"`
}

type Uptime struct {
	Period uint16 `yaml:"period,omitempty"`
}

// Default returns the configuration used when no boot file is given: the
// robot controller's three periodic slots of 10 ms each.
func Default() *File {
	return &File{
		Kernel: Kernel{
			MaxExecutionTime: uint64(kernel.DefaultMaxExecutionTime),
			Schedule: []Slot{
				{Name: 10, MaxSlice: 10},
				{Name: 15, MaxSlice: 10},
				{Name: 20, MaxSlice: 10},
			},
		},
		Demos:   append([]string(nil), knownDemos...),
		Printer: Printer{Message: "rugos: hello from the sporadic printer\n", Period: 5},
		Blink:   Blink{Period: 500},
		Uptime:  Uptime{Period: 10},
	}
}

// Load reads and validates a boot file. Fields missing from the file keep
// their Default values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a boot file.
func Parse(data []byte) (*File, error) {
	f := Default()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the table against the kernel's limits.
func (f *File) Validate() error {
	var errs []error
	if len(f.Kernel.Schedule) > kernel.MaxSlots {
		errs = append(errs, fmt.Errorf("schedule has %d slots, max %d", len(f.Kernel.Schedule), kernel.MaxSlots))
	}
	for i, s := range f.Kernel.Schedule {
		if s.MaxSlice == 0 {
			errs = append(errs, fmt.Errorf("schedule slot %d (%s): max_slice must be positive", i, s.Name))
		}
	}
	for _, d := range f.Demos {
		if !isKnownDemo(d) {
			errs = append(errs, fmt.Errorf("unknown demo %q", d))
		}
	}
	if f.HasDemo(DemoPrinter) && f.Printer.Period == 0 {
		errs = append(errs, errors.New("printer.period must be positive"))
	}
	if f.HasDemo(DemoBlink) && f.Blink.Period == 0 {
		errs = append(errs, errors.New("blink.period must be positive"))
	}
	if f.HasDemo(DemoUptime) && f.Uptime.Period == 0 {
		errs = append(errs, errors.New("uptime.period must be positive"))
	}
	return errors.Join(errs...)
}

// HasDemo reports whether demo name is enabled.
func (f *File) HasDemo(name string) bool {
	for _, d := range f.Demos {
		if d == name {
			return true
		}
	}
	return false
}

// KernelConfig converts the file into a kernel.Config.
func (f *File) KernelConfig() kernel.Config {
	cfg := kernel.Config{MaxExecutionTime: kernel.Millis(f.Kernel.MaxExecutionTime)}
	for _, s := range f.Kernel.Schedule {
		cfg.Schedule = append(cfg.Schedule, kernel.Slot{Name: kernel.Name(s.Name), MaxSlice: kernel.Millis(s.MaxSlice)})
	}
	return cfg
}

// MajorFrame is the sum of the slot budgets: the longest time one trip
// through the table can take.
func (f *File) MajorFrame() uint64 {
	var total uint64
	for _, s := range f.Kernel.Schedule {
		total += s.MaxSlice
	}
	return total
}

func isKnownDemo(name string) bool {
	for _, d := range knownDemos {
		if d == name {
			return true
		}
	}
	return false
}
