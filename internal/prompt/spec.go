package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/haneulclass/saengibu-backend/internal/neis"
)

// Spec is the declaration format for one record type's prompt skeleton.
type Spec struct {
	Type neis.RecordType
	// Body is a go template over Input.
	Body string
}

type compiledSpec struct {
	render func(Input) string
}

func compileSpec(s Spec) (compiledSpec, error) {
	if !s.Type.Valid() {
		return compiledSpec{}, fmt.Errorf("invalid record type in prompt spec")
	}
	t, err := template.New(s.Type.Label()).Option("missingkey=zero").Parse(s.Body)
	if err != nil {
		return compiledSpec{}, fmt.Errorf("%s prompt template parse: %w", s.Type.Label(), err)
	}
	return compiledSpec{
		render: func(in Input) string {
			var b bytes.Buffer
			_ = t.Execute(&b, in)
			return strings.TrimSpace(b.String()) + "\n"
		},
	}, nil
}
