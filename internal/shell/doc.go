// Package shell is the brewshell front end.
//
// Session executes one command line at a time: the built-ins (help,
// commands, devices, time, history, quit, exit) and, for anything else, a
// device command routed by package router. Shell puts an ishell prompt in
// front of a Session; the one-shot CLI calls Session directly.
//
// Tables are rendered with lipgloss; errors are printed to stderr in red as
// "Error: ...".
package shell
