// Package training carries approval signals to the training dataset
// consumer. The approval service notifies without waiting; a Listener drains
// the queue into a handler.
package training
