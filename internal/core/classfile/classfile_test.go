package classfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// testClassBuilder assembles a minimal but structurally valid class file.
type testClassBuilder struct {
	buf bytes.Buffer
}

func (b *testClassBuilder) u1(v uint8)  { b.buf.WriteByte(v) }
func (b *testClassBuilder) u2(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *testClassBuilder) u4(v uint32) { binary.Write(&b.buf, binary.BigEndian, v) }

func (b *testClassBuilder) utf8(s string) {
	b.u1(TagUTF8)
	b.u2(uint16(len(s)))
	b.buf.WriteString(s)
}

// buildTestClass returns the bytes of a class named internalName (slash
// form) with one int field "existing" and one method "<init>()V" whose Code
// attribute holds a single return instruction. A Long constant exercises the
// two-slot constant pool rule.
func buildTestClass(t *testing.T, internalName string) []byte {
	t.Helper()

	var b testClassBuilder
	b.u4(Magic)
	b.u2(0)  // minor
	b.u2(52) // major (Java 8)

	b.u2(12) // constant_pool_count: 10 entries, Long takes two slots
	b.utf8(internalName)      // 1
	b.u1(TagClass)            // 2
	b.u2(1)
	b.utf8("java/lang/Object") // 3
	b.u1(TagClass)             // 4
	b.u2(3)
	b.utf8("existing") // 5
	b.utf8("I")        // 6
	b.utf8("<init>")   // 7
	b.utf8("()V")      // 8
	b.utf8("Code")     // 9
	b.u1(TagLong)      // 10 (and slot 11)
	b.u4(0)
	b.u4(42)

	b.u2(0x0021) // access_flags: public super
	b.u2(2)      // this_class
	b.u2(4)      // super_class
	b.u2(0)      // interfaces_count

	// fields
	b.u2(1)
	b.u2(0x0002) // private
	b.u2(5)      // existing
	b.u2(6)      // I
	b.u2(0)      // no attributes

	// methods
	b.u2(1)
	b.u2(0x0001) // public
	b.u2(7)      // <init>
	b.u2(8)      // ()V
	b.u2(1)      // one attribute
	b.u2(9)      // Code
	b.u4(13)     // attribute_length
	b.u2(1)      // max_stack
	b.u2(1)      // max_locals
	b.u4(1)      // code_length
	b.u1(0xb1)   // return
	b.u2(0)      // exception_table_length
	b.u2(0)      // attributes_count

	// class attributes
	b.u2(0)

	return b.buf.Bytes()
}

func TestParse_RoundTripIsByteIdentical(t *testing.T) {
	data := buildTestClass(t, "com/example/FooTest")

	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	out := c.Bytes()
	if !bytes.Equal(data, out) {
		t.Fatalf("round trip changed bytes: in=%d out=%d", len(data), len(out))
	}
}

func TestParse_Name(t *testing.T) {
	c, err := Parse(buildTestClass(t, "com/example/FooTest"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	name, err := c.Name()
	if err != nil {
		t.Fatalf("Name failed: %v", err)
	}
	if name != "com.example.FooTest" {
		t.Errorf("expected com.example.FooTest, got %s", name)
	}
}

func TestParse_RejectsMalformedInput(t *testing.T) {
	valid := buildTestClass(t, "Foo")

	badMagic := append([]byte{}, valid...)
	badMagic[0] = 0xDE

	badTag := append([]byte{}, valid...)
	badTag[10] = 99 // first constant tag

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", badMagic},
		{"truncated header", valid[:6]},
		{"truncated pool", valid[:20]},
		{"unknown constant tag", badTag},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestAddAnnotatedField_PreservesExistingMembers(t *testing.T) {
	data := buildTestClass(t, "com/example/FooTest")

	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	err = c.AddAnnotatedField("FooTest_timeout_abc", "Lorg/junit/rules/Timeout;", "Lorg/junit/Rule;")
	if err != nil {
		t.Fatalf("AddAnnotatedField failed: %v", err)
	}

	patched, err := Parse(c.Bytes())
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}

	if len(patched.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(patched.Fields))
	}
	if len(patched.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(patched.Methods))
	}

	// Original member entries must be untouched.
	original, _ := Parse(data)
	if got, want := patched.Fields[0], original.Fields[0]; got.AccessFlags != want.AccessFlags ||
		got.NameIndex != want.NameIndex || got.DescriptorIndex != want.DescriptorIndex {
		t.Errorf("pre-existing field changed: got %+v want %+v", got, want)
	}
	if !bytes.Equal(patched.Methods[0].Attributes[0].Data, original.Methods[0].Attributes[0].Data) {
		t.Error("method Code attribute changed")
	}

	if !patched.HasField("FooTest_timeout_abc") {
		t.Error("injected field not found after reparse")
	}
	if !patched.HasField("existing") {
		t.Error("pre-existing field lost")
	}
}

func TestAddAnnotatedField_AnnotationEncoding(t *testing.T) {
	c, err := Parse(buildTestClass(t, "Foo"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if err := c.AddAnnotatedField("f", "LBar;", "LAnno;"); err != nil {
		t.Fatalf("AddAnnotatedField failed: %v", err)
	}

	field := c.Fields[len(c.Fields)-1]
	if len(field.Attributes) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(field.Attributes))
	}

	attr := field.Attributes[0]
	if name, _ := c.UTF8(attr.NameIndex); name != "RuntimeVisibleAnnotations" {
		t.Errorf("expected RuntimeVisibleAnnotations, got %s", name)
	}
	if len(attr.Data) != 6 {
		t.Fatalf("expected 6 byte payload, got %d", len(attr.Data))
	}
	if n := binary.BigEndian.Uint16(attr.Data[0:]); n != 1 {
		t.Errorf("expected 1 annotation, got %d", n)
	}
	typeIdx := binary.BigEndian.Uint16(attr.Data[2:])
	if desc, _ := c.UTF8(typeIdx); desc != "LAnno;" {
		t.Errorf("expected LAnno; type descriptor, got %s", desc)
	}
	if pairs := binary.BigEndian.Uint16(attr.Data[4:]); pairs != 0 {
		t.Errorf("expected 0 element-value pairs, got %d", pairs)
	}
}

func TestUTF8Index_ReusesExistingConstants(t *testing.T) {
	c, err := Parse(buildTestClass(t, "Foo"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	before := len(c.Constants)
	// "I" already exists in the pool; only the field name should be new.
	if err := c.AddAnnotatedField("a", "I", "I"); err != nil {
		t.Fatalf("AddAnnotatedField failed: %v", err)
	}

	// One new UTF8 for the name, one for RuntimeVisibleAnnotations.
	if got := len(c.Constants) - before; got != 2 {
		t.Errorf("expected 2 new constants, got %d", got)
	}
}
