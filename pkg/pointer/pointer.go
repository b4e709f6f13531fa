// Package pointer returns pointers to literals e.g. for optional
// settings that distinguish unset from the zero value
package pointer

func Bool(b bool) *bool {
	o := b
	return &o
}
