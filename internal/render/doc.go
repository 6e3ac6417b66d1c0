// Package render turns recorded demos into video files by replaying each one
// through the engine with -timedemo and -viddump. Jobs run strictly in order
// with a cooldown between them, during which the operator can interrupt the
// batch and append more demos to the queue.
package render
