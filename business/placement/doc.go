// Package placement scores KCSE results against post-secondary course requirements.
//
// Everything here is a pure function of its arguments: grade points, mean grade,
// cluster points, requirement checks and recommendation ranking. Loading courses
// and storing results is done by the callers.
package placement
