// Package wfsm provides declarative state machines for image-region
// widgets: buttons, checkboxes, toggle switches, radio options.
//
// The engine is in package 'core'.  Package 'config' builds FSMs from
// JSON or YAML, 'widgets' has built-in widgets, 'sio' hosts FSMs and
// drives them with pointer input, and 'tools' renders and analyzes
// them.  Command-line tools are in `cmd`.
package wfsm
