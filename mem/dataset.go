package mem

import (
	"github.com/go-riffle/riffle"
	"github.com/go-riffle/riffle/errors"
)

// dataset is an eagerly computed collection of erased elements. A grouped
// dataset stores its entries key by key instead of as flat elements.
type dataset struct {
	elems   []interface{}
	groups  []group
	grouped bool
}

// group is a single key's entry in a grouped dataset. Grouping preserves
// first-seen key order and, within a key, value arrival order.
type group struct {
	key    interface{}
	values []interface{}
}

// asElements presents this dataset as a flat element sequence, synthesizing
// fresh KeyGroup carriers for a grouped dataset
func (d *dataset) asElements() []interface{} {
	if !d.grouped {
		return d.elems
	}
	els := make([]interface{}, len(d.groups))
	for i, g := range d.groups {
		els[i] = riffle.KeyGroup{Key: g.key, Values: &sliceValueCursor{values: g.values}}
	}
	return els
}

// sliceCursor iterates over a slice of erased elements
type sliceCursor struct {
	elems []interface{}
	next  int
}

// HasNext returns true iff this Cursor contains more elements
func (c *sliceCursor) HasNext() bool {
	return c.next < len(c.elems)
}

// Next returns the next element, or an errors.NoMoreValuesError if none remain
func (c *sliceCursor) Next() (interface{}, error) {
	if c.next >= len(c.elems) {
		return nil, errors.NoMoreValuesError{}
	}
	el := c.elems[c.next]
	c.next++
	return el, nil
}

// sliceValueCursor iterates over the stored values of a single group
type sliceValueCursor struct {
	values []interface{}
	next   int
}

// HasNextValue returns true iff this ValueCursor contains more values
func (c *sliceValueCursor) HasNextValue() bool {
	return c.next < len(c.values)
}

// NextValue returns the next value, or an errors.NoMoreValuesError if none remain
func (c *sliceValueCursor) NextValue() (interface{}, error) {
	if c.next >= len(c.values) {
		return nil, errors.NoMoreValuesError{}
	}
	v := c.values[c.next]
	c.next++
	return v, nil
}
