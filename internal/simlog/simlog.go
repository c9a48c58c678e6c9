// Package simlog wraps glog with the handful of leveled messages the
// scheduler and signal engine produce: time advance and thread join
// at -v=1, per-signal activation at -v=2, kept off the hot evaluation
// path by construction (glog itself short-circuits disabled verbosity
// cheaply).
package simlog

import "github.com/golang/glog"

const (
	// VScheduler covers time-advance and worker join/spawn messages.
	VScheduler glog.Level = 1
	// VSignal covers per-signal activation messages — noisier, only
	// worth enabling while debugging a specific IR.
	VSignal glog.Level = 2
)

func Schedulerf(format string, args ...interface{}) {
	if glog.V(VScheduler) {
		glog.Infof(format, args...)
	}
}

func Signalf(format string, args ...interface{}) {
	if glog.V(VSignal) {
		glog.Infof(format, args...)
	}
}

// Fatalf reports a construction error and aborts, matching the
// original simulator's perror/exit(1) pair for elaboration failures.
func Fatalf(format string, args ...interface{}) {
	glog.Fatalf(format, args...)
}
