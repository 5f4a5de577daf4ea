// Contracts between the emulator core and its embedding host.
//
// The core never talks to the outside world directly. Scrolled-off
// lines, title changes and diagnostics all go through the callback
// types collected here, so a host can pick the ones it cares about.
package handler
