// Package handler turns device sub-commands into driver calls.
//
// Each driver kind gets one command table (Commands): a default read, an
// optional state-literal setter, zero-parameter and one-parameter
// sub-commands. Tables are built once per device by New; package router
// decides which entry an argument list selects.
//
// Every operation opens its own driver handle through a Connector, makes its
// driver call and closes the handle again. No session state is carried
// between commands.
package handler
