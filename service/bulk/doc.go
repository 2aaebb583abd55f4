// Package bulk runs approvals over many content ids in fixed-size chunks.
// Items of a chunk are processed concurrently; chunks are separated by a
// pause and cancellation is honoured only between chunks.
package bulk
