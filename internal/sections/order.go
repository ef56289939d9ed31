package sections

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSectionNotFound reports an operation on a section id absent from the list.
var ErrSectionNotFound = errors.New("sections: section not found")

// Normalize sorts the list by order (stable on current position for ties)
// and renumbers it contiguously from zero, restoring the strictly
// increasing, gap-free invariant after any mutation.
func Normalize(list []Section) []Section {
	out := CloneSections(list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Insert places a section at the requested position (clamped to the list
// bounds) and renumbers. A negative position appends.
func Insert(list []Section, section Section, position int) []Section {
	out := CloneSections(list)
	if position < 0 || position > len(out) {
		position = len(out)
	}
	out = append(out, Section{})
	copy(out[position+1:], out[position:])
	out[position] = section.Clone()
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Remove drops the section with the given id and renumbers.
func Remove(list []Section, sectionID string) ([]Section, error) {
	index := indexOf(list, sectionID)
	if index < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, sectionID)
	}
	out := make([]Section, 0, len(list)-1)
	for i, section := range list {
		if i == index {
			continue
		}
		out = append(out, section.Clone())
	}
	for i := range out {
		out[i].Order = i
	}
	return out, nil
}

// Move relocates the section with the given id to the target position
// (clamped) and renumbers.
func Move(list []Section, sectionID string, position int) ([]Section, error) {
	index := indexOf(list, sectionID)
	if index < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, sectionID)
	}
	moved := list[index].Clone()
	remaining, err := Remove(list, sectionID)
	if err != nil {
		return nil, err
	}
	return Insert(remaining, moved, position), nil
}

// Find returns the section with the given id.
func Find(list []Section, sectionID string) (Section, bool) {
	index := indexOf(list, sectionID)
	if index < 0 {
		return Section{}, false
	}
	return list[index], true
}

func indexOf(list []Section, sectionID string) int {
	for i, section := range list {
		if section.ID == sectionID {
			return i
		}
	}
	return -1
}
