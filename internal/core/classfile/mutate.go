package classfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Field access flag for injected fields. JUnit requires rule fields to be
// public instance fields.
const accPublic = 0x0001

// runtimeVisibleAnnotations is the attribute name used to carry annotations
// retained for reflection.
const runtimeVisibleAnnotations = "RuntimeVisibleAnnotations"

// HasField reports whether the class declares a field with the given name.
func (c *Class) HasField(name string) bool {
	for _, f := range c.Fields {
		if n, ok := c.UTF8(f.NameIndex); ok && n == name {
			return true
		}
	}
	return false
}

// FieldNames returns the names of all declared fields in declaration order.
func (c *Class) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if n, ok := c.UTF8(f.NameIndex); ok {
			names = append(names, n)
		}
	}
	return names
}

// AddAnnotatedField appends one public field with the given name and type
// descriptor, carrying a single runtime-visible annotation of the given
// annotation type descriptor. Only the constant pool and the field table are
// modified; every other structure is left untouched.
func (c *Class) AddAnnotatedField(name, descriptor, annotationDescriptor string) error {
	if len(c.Fields) >= 0xFFFF {
		return fmt.Errorf("%w: field table full", ErrMalformed)
	}

	nameIdx, err := c.utf8Index(name)
	if err != nil {
		return err
	}
	descIdx, err := c.utf8Index(descriptor)
	if err != nil {
		return err
	}
	attrNameIdx, err := c.utf8Index(runtimeVisibleAnnotations)
	if err != nil {
		return err
	}
	annoTypeIdx, err := c.utf8Index(annotationDescriptor)
	if err != nil {
		return err
	}

	// RuntimeVisibleAnnotations payload: one annotation, no element-value
	// pairs (the marker annotation carries no elements).
	var anno bytes.Buffer
	writeU2(&anno, 1) // num_annotations
	writeU2(&anno, annoTypeIdx)
	writeU2(&anno, 0) // num_element_value_pairs

	c.Fields = append(c.Fields, Member{
		AccessFlags:     accPublic,
		NameIndex:       nameIdx,
		DescriptorIndex: descIdx,
		Attributes: []Attribute{
			{NameIndex: attrNameIdx, Data: anno.Bytes()},
		},
	})
	return nil
}

// utf8Index returns the constant pool index of a UTF8 entry with the given
// value, appending a new entry if none exists yet.
func (c *Class) utf8Index(value string) (uint16, error) {
	for i := 1; i < len(c.Constants); i++ {
		entry := c.Constants[i]
		if entry.Tag == TagUTF8 && len(entry.Data) >= 2 && string(entry.Data[2:]) == value {
			return uint16(i), nil
		}
	}

	if len(value) > 0xFFFF {
		return 0, fmt.Errorf("%w: UTF8 constant too long (%d bytes)", ErrMalformed, len(value))
	}
	if len(c.Constants) >= 0xFFFF {
		return 0, fmt.Errorf("%w: constant pool full", ErrMalformed)
	}

	data := make([]byte, 2+len(value))
	binary.BigEndian.PutUint16(data, uint16(len(value)))
	copy(data[2:], value)
	c.Constants = append(c.Constants, Constant{Tag: TagUTF8, Data: data})
	return uint16(len(c.Constants) - 1), nil
}
