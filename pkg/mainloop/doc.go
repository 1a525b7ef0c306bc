// Package mainloop defines the abstract timer/fd/child-watch contract the
// runtime depends on.
//
// No specific epoll/kqueue/GLib implementation is required here —
// only the interface a node's Open may use to schedule
// future work. This package defines that interface plus one concrete,
// time.Timer-backed implementation, sufficient to drive the builtin
// wallclock-minute source node.
package mainloop
