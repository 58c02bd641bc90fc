package prompt

import (
	"strings"
	"testing"

	"github.com/phrazzld/specialist-portraits/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKnownSpecialty(t *testing.T) {
	t.Parallel()

	b := MustNewBuilder(DefaultOptions())
	got := b.Build(domain.NewRecord(
		domain.FieldName, "Dr. Priya Sharma",
		domain.FieldSpecialty, "Gynecologist",
		domain.FieldGender, "female",
	))

	want := "Professional headshot portrait of a female gynecologist, South Asian Indian appearance, " +
		"medical doctor, warm and reassuring expression, white coat, stethoscope, " + DefaultQualitySuffix
	assert.Equal(t, want, got)
}

func TestBuildUnknownSpecialtyUsesGenericDetail(t *testing.T) {
	t.Parallel()

	b := MustNewBuilder(DefaultOptions())
	got := b.Build(domain.NewRecord(
		domain.FieldName, "Alex Doe",
		domain.FieldSpecialty, "Dermatologist",
		domain.FieldGender, "male",
	))

	assert.True(t, strings.HasPrefix(got, "Professional headshot portrait of a male dermatologist, professional appearance, "))
	assert.Contains(t, got, GenericDetail)
}

func TestBuildEmptyRecord(t *testing.T) {
	t.Parallel()

	b := MustNewBuilder(DefaultOptions())
	got := b.Build(domain.Record{})

	require.NotEmpty(t, got)
	assert.Contains(t, got, "portrait of a person healthcare professional")
	assert.Contains(t, got, GenericDetail)
	assert.Contains(t, got, "professional appearance")
}

func TestBuildMissingSpecialtyAndGender(t *testing.T) {
	t.Parallel()

	b := MustNewBuilder(DefaultOptions())
	got := b.Build(domain.NewRecord(domain.FieldName, "Meera Krishnan"))

	assert.Contains(t, got, "portrait of a person healthcare professional")
	assert.Contains(t, got, "South Asian Indian appearance")
}

func TestBuildInjectedTableAndPolicy(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(Options{
		SpecialtyDetails: map[string]string{"Dentist": "bright smile, dental clinic"},
		Style:            NeutralPolicy{},
		QualitySuffix:    "studio light",
	})
	require.NoError(t, err)

	got := b.Build(domain.NewRecord(
		domain.FieldName, "Ravi Kumar",
		domain.FieldSpecialty, "Dentist",
		domain.FieldGender, "male",
	))
	assert.Equal(t,
		"Professional headshot portrait of a male dentist, professional appearance, bright smile, dental clinic, studio light",
		got)

	// Stock specialties are not merged into an injected table.
	got = b.Build(domain.NewRecord(domain.FieldSpecialty, "Gynecologist"))
	assert.Contains(t, got, GenericDetail)
}

func TestBuildCustomTemplate(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(Options{Template: "{{.Name}} the {{.Specialty}}"})
	require.NoError(t, err)
	assert.Equal(t, "Leela Menon the therapist",
		b.Build(domain.NewRecord(domain.FieldName, "Leela Menon", domain.FieldSpecialty, "Therapist")))

	_, err = NewBuilder(Options{Template: "{{.Name"})
	assert.Error(t, err)
}

func TestBuilderCopiesTable(t *testing.T) {
	t.Parallel()

	table := map[string]string{"Dentist": "original"}
	b := MustNewBuilder(Options{SpecialtyDetails: table})
	table["Dentist"] = "mutated"

	assert.Contains(t, b.Build(domain.NewRecord(domain.FieldSpecialty, "Dentist")), "original")
}

func TestNameFragmentPolicy(t *testing.T) {
	t.Parallel()

	p := NameFragmentPolicy{Fragments: []string{"", "Sun"}, Match: "matched"}

	assert.Equal(t, "matched", p.Descriptor("Sunita Rao"))
	assert.Equal(t, NeutralDescriptor, p.Descriptor("Jane Smith"), "empty fragments never match")
	assert.Equal(t, NeutralDescriptor, NeutralPolicy{}.Descriptor("Priya Sharma"))
	assert.Equal(t, "South Asian Indian", DefaultStylePolicy().Descriptor("Anything by Dr. Who"))
}
