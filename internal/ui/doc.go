// Package ui renders request progress in the terminal with Bubble Tea.
//
// Runner is the root model. It owns a status.Controller, draws its state
// through StatusBar, lists request activity in an ActivityWindow and, for
// exports, hosts the filename field.
package ui
