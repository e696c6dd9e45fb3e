// Package cliargs pre-extracts the two out-of-band CLI tokens from the raw
// argument list before the hosted option parser runs: the image classpath and
// the optional watch-pid of the driver process.
package cliargs

import (
	"os"
	"slices"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

const (
	// ClasspathFlag carries the image classpath, required exactly once.
	ClasspathFlag = "-imagecp"
	// WatchPidFlag carries the process id of the external driver to watch.
	WatchPidFlag = "-watchpid"
)

// WatchPidNone is the sentinel for "watchdog not requested".
const WatchPidNone = -1

// ExtractClasspath removes the classpath marker and its value from args and
// returns the classpath entries split on the host path list separator, plus
// the remaining arguments. The marker must appear exactly once and must be
// followed by a value.
func ExtractClasspath(args []string) (entries []string, rest []string, err error) {
	idx := slices.Index(args, ClasspathFlag)
	if idx == -1 {
		return nil, nil, ferrors.Configurationf("Missing '%s <image classpath>' argument.", ClasspathFlag)
	}
	if idx+1 >= len(args) {
		return nil, nil, ferrors.Configurationf("Missing <image classpath> for '%s <image classpath>' argument.", ClasspathFlag)
	}
	value := args[idx+1]
	rest = append(append([]string{}, args[:idx]...), args[idx+2:]...)
	if slices.Contains(rest, ClasspathFlag) {
		return nil, nil, ferrors.Configurationf("The '%s <image classpath>' argument may only be specified once.", ClasspathFlag)
	}
	entries = strings.Split(value, string(os.PathListSeparator))
	return entries, rest, nil
}

// ExtractWatchPid removes the watch-pid marker and its value from args and
// returns the parsed process id. If the marker is absent it returns
// WatchPidNone and the arguments unmodified.
func ExtractWatchPid(args []string) (pid int, rest []string, err error) {
	idx := slices.Index(args, WatchPidFlag)
	if idx == -1 {
		return WatchPidNone, args, nil
	}
	if idx+1 >= len(args) {
		return 0, nil, ferrors.Configurationf("ProcessID must be provided after the '%s' argument.", WatchPidFlag)
	}
	value := args[idx+1]
	pid, perr := strconv.Atoi(value)
	if perr != nil || pid < 0 {
		return 0, nil, ferrors.Configurationf("Invalid ProcessID '%s' provided after the '%s' argument.", value, WatchPidFlag)
	}
	rest = append(append([]string{}, args[:idx]...), args[idx+2:]...)
	return pid, rest, nil
}
