package form

// Tone choices offered by the built-in CV form.
const (
	ToneKeepOriginal = "Keep original style"
	ToneAdaptToOffer = "Adapt to job offer tone"
)

// CompanyField is the field the download action reads to name its file.
const CompanyField = "company"

// CVDefinition returns the built-in CV rewrite form.
func CVDefinition() Definition {
	return Definition{
		Endpoint: DefaultEndpoint,
		Fields: []Field{
			{Name: "summary", Label: "Professional summary", Multiline: true},
			{Name: "experience1", Label: "Experience 1", Multiline: true},
			{Name: "experience2", Label: "Experience 2", Help: "Optional", Multiline: true},
			{Name: "education", Label: "Education", Multiline: true},
			{Name: "skills", Label: "Skills", Multiline: true},
			{Name: "languages", Label: "Languages"},
			{Name: "additional", Label: "Additional sections", Help: "Optional", Multiline: true},
			{Name: "job_description", Label: "Job description", Help: "Paste the full job offer", Multiline: true},
			{Name: CompanyField, Label: "Company"},
			{Name: "industry", Label: "Industry"},
			{
				Name:    "tone",
				Label:   "Tone",
				Default: ToneKeepOriginal,
				Options: []string{ToneKeepOriginal, ToneAdaptToOffer},
			},
		},
	}
}
