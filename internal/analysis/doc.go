// Package analysis estimates oscillation periods of recorded trajectories.
package analysis
