// Package waitlist implements the waitlist signup flow: the view state store,
// the verification submitter, the stats fetcher and the pure view renderer.
//
// A Flow owns one user's state. Front ends (the web UI, the terminal UI and
// the headless join command) drive it through Join, ViewStats and Back, and
// redraw from Snapshot values delivered to Config.OnChange.
package waitlist
