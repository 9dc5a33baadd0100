// Package classfile provides a structural model of the JVM class file format.
// It parses a compiled class into constant pool, field, method and attribute
// tables, allows appending a single annotated field, and serializes the
// result deterministically. Everything that is not touched by a mutation is
// preserved byte-for-byte across a parse/serialize round trip.
package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed indicates a class file whose binary structure cannot be parsed.
var ErrMalformed = errors.New("malformed class file")

// Magic is the class file magic number.
const Magic = 0xCAFEBABE

// Constant pool tags (JVMS table 4.4-A).
const (
	TagUTF8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// Constant is one constant pool entry. Data holds the raw bytes after the
// tag. Long and Double entries occupy two pool slots; the second slot is a
// zero-valued placeholder with Tag 0.
type Constant struct {
	Tag  uint8
	Data []byte
}

// Attribute is one entry of an attribute table. Data is kept raw.
type Attribute struct {
	NameIndex uint16
	Data      []byte
}

// Member is a field_info or method_info entry.
type Member struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// Class is the parsed representation of one class file.
type Class struct {
	Minor       uint16
	Major       uint16
	Constants   []Constant // index 0 is an unused placeholder
	AccessFlags uint16
	ThisClass   uint16
	SuperClass  uint16
	Interfaces  []uint16
	Fields      []Member
	Methods     []Member
	Attributes  []Attribute
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) u1() (uint8, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrMalformed, r.pos)
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u2() (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrMalformed, r.pos)
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u4() (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("%w: truncated at offset %d", ErrMalformed, r.pos)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("%w: truncated at offset %d", ErrMalformed, r.pos)
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// constantSize returns the number of data bytes following a constant tag.
// UTF8 entries are variable and handled separately. Returns -1 for unknown
// tags.
func constantSize(tag uint8) int {
	switch tag {
	case TagInteger, TagFloat:
		return 4
	case TagLong, TagDouble:
		return 8
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		return 2
	case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType, TagDynamic, TagInvokeDynamic:
		return 4
	case TagMethodHandle:
		return 3
	default:
		return -1
	}
}

// Parse reads a class file from its binary representation.
func Parse(data []byte) (*Class, error) {
	r := &reader{data: data}

	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%08X", ErrMalformed, magic)
	}

	c := &Class{}
	if c.Minor, err = r.u2(); err != nil {
		return nil, err
	}
	if c.Major, err = r.u2(); err != nil {
		return nil, err
	}

	cpCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	// Valid constant pool indices are 1..cpCount-1. Slot 0 stays empty.
	c.Constants = make([]Constant, 1, cpCount)
	for i := uint16(1); i < cpCount; i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}

		var cdata []byte
		if tag == TagUTF8 {
			n, err := r.u2()
			if err != nil {
				return nil, err
			}
			body, err := r.bytes(int(n))
			if err != nil {
				return nil, err
			}
			cdata = make([]byte, 2+int(n))
			binary.BigEndian.PutUint16(cdata, n)
			copy(cdata[2:], body)
		} else {
			size := constantSize(tag)
			if size < 0 {
				return nil, fmt.Errorf("%w: unknown constant tag %d at index %d", ErrMalformed, tag, i)
			}
			if cdata, err = r.bytes(size); err != nil {
				return nil, err
			}
		}
		c.Constants = append(c.Constants, Constant{Tag: tag, Data: cdata})

		// Long and Double take two pool slots.
		if tag == TagLong || tag == TagDouble {
			c.Constants = append(c.Constants, Constant{})
			i++
		}
	}

	if c.AccessFlags, err = r.u2(); err != nil {
		return nil, err
	}
	if c.ThisClass, err = r.u2(); err != nil {
		return nil, err
	}
	if c.SuperClass, err = r.u2(); err != nil {
		return nil, err
	}

	ifCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	c.Interfaces = make([]uint16, 0, ifCount)
	for i := uint16(0); i < ifCount; i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		c.Interfaces = append(c.Interfaces, idx)
	}

	if c.Fields, err = parseMembers(r); err != nil {
		return nil, err
	}
	if c.Methods, err = parseMembers(r); err != nil {
		return nil, err
	}
	if c.Attributes, err = parseAttributes(r); err != nil {
		return nil, err
	}

	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.remaining())
	}
	return c, nil
}

func parseMembers(r *reader) ([]Member, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	members := make([]Member, 0, count)
	for i := uint16(0); i < count; i++ {
		var m Member
		if m.AccessFlags, err = r.u2(); err != nil {
			return nil, err
		}
		if m.NameIndex, err = r.u2(); err != nil {
			return nil, err
		}
		if m.DescriptorIndex, err = r.u2(); err != nil {
			return nil, err
		}
		if m.Attributes, err = parseAttributes(r); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func parseAttributes(r *reader) ([]Attribute, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, count)
	for i := uint16(0); i < count; i++ {
		var a Attribute
		if a.NameIndex, err = r.u2(); err != nil {
			return nil, err
		}
		length, err := r.u4()
		if err != nil {
			return nil, err
		}
		if a.Data, err = r.bytes(int(length)); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// Bytes serializes the class back into its binary representation.
func (c *Class) Bytes() []byte {
	var buf bytes.Buffer

	writeU4(&buf, Magic)
	writeU2(&buf, c.Minor)
	writeU2(&buf, c.Major)

	writeU2(&buf, uint16(len(c.Constants)))
	for i := 1; i < len(c.Constants); i++ {
		entry := c.Constants[i]
		if entry.Tag == 0 {
			continue // second slot of a Long/Double
		}
		buf.WriteByte(entry.Tag)
		buf.Write(entry.Data)
	}

	writeU2(&buf, c.AccessFlags)
	writeU2(&buf, c.ThisClass)
	writeU2(&buf, c.SuperClass)

	writeU2(&buf, uint16(len(c.Interfaces)))
	for _, idx := range c.Interfaces {
		writeU2(&buf, idx)
	}

	writeMembers(&buf, c.Fields)
	writeMembers(&buf, c.Methods)
	writeAttributes(&buf, c.Attributes)

	return buf.Bytes()
}

func writeMembers(buf *bytes.Buffer, members []Member) {
	writeU2(buf, uint16(len(members)))
	for _, m := range members {
		writeU2(buf, m.AccessFlags)
		writeU2(buf, m.NameIndex)
		writeU2(buf, m.DescriptorIndex)
		writeAttributes(buf, m.Attributes)
	}
}

func writeAttributes(buf *bytes.Buffer, attrs []Attribute) {
	writeU2(buf, uint16(len(attrs)))
	for _, a := range attrs {
		writeU2(buf, a.NameIndex)
		writeU4(buf, uint32(len(a.Data)))
		buf.Write(a.Data)
	}
}

func writeU2(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU4(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// UTF8 returns the string value of the constant pool entry at index, if it
// is a UTF8 entry.
func (c *Class) UTF8(index uint16) (string, bool) {
	if int(index) >= len(c.Constants) || index == 0 {
		return "", false
	}
	entry := c.Constants[index]
	if entry.Tag != TagUTF8 || len(entry.Data) < 2 {
		return "", false
	}
	return string(entry.Data[2:]), true
}

// Name returns the fully qualified name of the class in dotted form.
func (c *Class) Name() (string, error) {
	if int(c.ThisClass) >= len(c.Constants) {
		return "", fmt.Errorf("%w: this_class index %d out of range", ErrMalformed, c.ThisClass)
	}
	entry := c.Constants[c.ThisClass]
	if entry.Tag != TagClass || len(entry.Data) < 2 {
		return "", fmt.Errorf("%w: this_class is not a class constant", ErrMalformed)
	}
	nameIdx := binary.BigEndian.Uint16(entry.Data)
	name, ok := c.UTF8(nameIdx)
	if !ok {
		return "", fmt.Errorf("%w: class name index %d is not UTF8", ErrMalformed, nameIdx)
	}
	return strings.ReplaceAll(name, "/", "."), nil
}
