// Package router turns a device command line into one handler operation.
//
// The first word names a device in the registry; the remaining words are
// disambiguated by count. Arity, sub-command and parameter errors are
// reported before any driver is opened, and the process is never aborted:
// every failure comes back as an Outcome with a typed error.
//
// Usage:
//
//	r, err := router.New(reg, connect.NewSerial(), router.Options{})
//	if err != nil {
//	    return err
//	}
//	out := r.Route(ctx, []string{"tank1", "set", "65.5"}, os.Stdout)
//	if out.Err != nil {
//	    fmt.Fprintln(os.Stderr, "Error:", out.Err)
//	}
package router
