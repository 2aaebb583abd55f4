// Package messaging defines the generic queue contract used to hand training
// signals from the approval service to their consumers.
package messaging
