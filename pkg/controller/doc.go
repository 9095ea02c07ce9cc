// Package controller drives a rewrite session: it submits the form, moves the
// view between its pending, result and error states, and implements the two
// result actions (copy to clipboard and save to file).
//
// The controller never looks regions up by itself; the View, the Controls and
// the collaborators of each action are injected at construction.
package controller
