package dataset

import (
	"fmt"
	"math/bits"
	"strings"
)

// Field names one of the seven measure columns.
type Field uint8

const (
	FieldEnrolInfant Field = iota
	FieldEnrolChild
	FieldEnrolAdult
	FieldDemoChild
	FieldDemoAdult
	FieldBioChild
	FieldBioAdult
	fieldCount
)

var fieldNames = [fieldCount]string{
	"enrol_infant", "enrol_child", "enrol_adult",
	"demo_child", "demo_adult",
	"bio_child", "bio_adult",
}

func (f Field) String() string {
	if f >= fieldCount {
		return fmt.Sprintf("field(%d)", uint8(f))
	}
	return fieldNames[f]
}

// ParseField resolves a column name such as "demo_adult".
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown measure field %q", name)
}

// FieldSet is a bitmask of measure columns.
type FieldSet uint16

const (
	DemoFields  = FieldSet(1<<FieldDemoChild | 1<<FieldDemoAdult)
	BioFields   = FieldSet(1<<FieldBioChild | 1<<FieldBioAdult)
	EnrolFields = FieldSet(1<<FieldEnrolInfant | 1<<FieldEnrolChild | 1<<FieldEnrolAdult)
	OpsFields   = DemoFields | BioFields
	AllMeasures = OpsFields | EnrolFields
)

// Fields builds a set from individual fields.
func Fields(fs ...Field) FieldSet {
	var s FieldSet
	for _, f := range fs {
		s |= 1 << f
	}
	return s
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool { return s&(1<<f) != 0 }

// Len returns the number of fields in the set.
func (s FieldSet) Len() int { return bits.OnesCount16(uint16(s)) }

// Fields lists the members in column order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, s.Len())
	for f := Field(0); f < fieldCount; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) String() string {
	names := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		names = append(names, f.String())
	}
	return strings.Join(names, ",")
}
