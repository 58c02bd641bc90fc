package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/specialist-portraits/internal/domain"
)

// Placeholders substituted for missing record fields.
const (
	DefaultName      = "Doctor"
	DefaultSpecialty = "Healthcare Professional"
	DefaultGender    = "person"
)

// GenericDetail is the specialty clause for specialties missing from the table.
const GenericDetail = "healthcare professional, confident expression, professional attire"

// DefaultQualitySuffix is appended to every prompt.
const DefaultQualitySuffix = "professional lighting, high quality portrait, medical setting background, " +
	"confident and trustworthy demeanor, shot with professional camera, 8K resolution, realistic, photorealistic"

// DefaultTemplate lays out the prompt parts. It is parsed with text/template
// and executed against templateData.
const DefaultTemplate = "Professional headshot portrait of a {{.Gender}} {{.Specialty}}, " +
	"{{.Descriptor}} appearance, {{.Detail}}, {{.Suffix}}"

// DefaultSpecialtyDetails returns a fresh copy of the stock specialty table.
func DefaultSpecialtyDetails() map[string]string {
	return map[string]string{
		"Gynecologist":     "medical doctor, warm and reassuring expression, white coat, stethoscope",
		"Nutritionist":     "nutrition expert, friendly smile, professional attire, clean background",
		"Ayurvedic Expert": "traditional medicine practitioner, serene expression, traditional Indian attire or white coat",
		"Therapist":        "mental health professional, compassionate expression, professional office setting",
		"Fitness Coach":    "fitness trainer, energetic and motivating expression, athletic wear or professional fitness attire",
	}
}

// Options configures a Builder. Zero values are replaced by the defaults above.
type Options struct {
	// SpecialtyDetails maps an exact specialty label to its descriptive clause.
	SpecialtyDetails map[string]string

	// GenericDetail is used when a specialty is not in SpecialtyDetails.
	GenericDetail string

	// Style chooses the appearance descriptor from the name.
	Style StylePolicy

	// QualitySuffix is the fixed lighting/resolution/realism tail.
	QualitySuffix string

	// Template overrides DefaultTemplate.
	Template string
}

// DefaultOptions returns Options populated with the stock tables and policy.
func DefaultOptions() Options {
	return Options{
		SpecialtyDetails: DefaultSpecialtyDetails(),
		GenericDetail:    GenericDetail,
		Style:            DefaultStylePolicy(),
		QualitySuffix:    DefaultQualitySuffix,
		Template:         DefaultTemplate,
	}
}

// templateData represents the data passed to the prompt template
type templateData struct {
	Name       string
	Gender     string
	Specialty  string
	Descriptor string
	Detail     string
	Suffix     string
}

// Builder composes prompts for specialist records. It is safe for concurrent
// use once constructed.
type Builder struct {
	details       map[string]string
	genericDetail string
	style         StylePolicy
	suffix        string
	tmpl          *template.Template
}

// NewBuilder validates opts and returns a Builder. It fails only when a
// custom template does not parse.
func NewBuilder(opts Options) (*Builder, error) {
	defaults := DefaultOptions()
	if opts.SpecialtyDetails == nil {
		opts.SpecialtyDetails = defaults.SpecialtyDetails
	}
	if opts.GenericDetail == "" {
		opts.GenericDetail = defaults.GenericDetail
	}
	if opts.Style == nil {
		opts.Style = defaults.Style
	}
	if opts.QualitySuffix == "" {
		opts.QualitySuffix = defaults.QualitySuffix
	}
	if opts.Template == "" {
		opts.Template = defaults.Template
	}

	tmpl, err := template.New("portrait").Option("missingkey=zero").Parse(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	details := make(map[string]string, len(opts.SpecialtyDetails))
	for k, v := range opts.SpecialtyDetails {
		details[k] = v
	}

	return &Builder{
		details:       details,
		genericDetail: opts.GenericDetail,
		style:         opts.Style,
		suffix:        opts.QualitySuffix,
		tmpl:          tmpl,
	}, nil
}

// MustNewBuilder is NewBuilder for options known to be valid.
func MustNewBuilder(opts Options) *Builder {
	b, err := NewBuilder(opts)
	if err != nil {
		panic(err)
	}
	return b
}

// Build returns the prompt for r. It never fails; missing or non-string
// fields are replaced by the package placeholders.
func (b *Builder) Build(r domain.Record) string {
	name := r.StringOr(domain.FieldName, DefaultName)
	specialty := r.StringOr(domain.FieldSpecialty, DefaultSpecialty)
	gender := r.StringOr(domain.FieldGender, DefaultGender)

	detail, ok := b.details[specialty]
	if !ok {
		detail = b.genericDetail
	}

	data := templateData{
		Name:       name,
		Gender:     gender,
		Specialty:  strings.ToLower(specialty),
		Descriptor: b.style.Descriptor(name),
		Detail:     detail,
		Suffix:     b.suffix,
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil || buf.Len() == 0 {
		return fallback(data)
	}
	return buf.String()
}

// fallback renders the default layout without a template.
func fallback(d templateData) string {
	return fmt.Sprintf("Professional headshot portrait of a %s %s, %s appearance, %s, %s",
		d.Gender, d.Specialty, d.Descriptor, d.Detail, d.Suffix)
}
