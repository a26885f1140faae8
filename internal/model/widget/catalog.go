package widget

import (
	_ "embed"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed widgets.yaml
var defaultCatalog []byte

type catalog struct {
	Widgets []Widget `yaml:"widgets" validate:"required,min=1,dive"`
}

// Seed returns the widgets shipped with the site.
func Seed() []Widget {
	widgets, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return widgets
}

// LoadFile reads a widget catalogue from path. An empty path yields Seed().
func LoadFile(path string) ([]Widget, error) {
	if path == "" {
		return Seed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("widget").With("path", path).Wrapf(err, "failed to read widget catalogue")
	}

	return Parse(data)
}

// Parse decodes and validates a YAML widget catalogue.
func Parse(data []byte) ([]Widget, error) {
	var result catalog
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.In("widget").Wrapf(err, "failed to parse widget catalogue")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.In("widget").Wrapf(err, "failed to validate widget catalogue")
	}

	seen := make(map[string]struct{}, len(result.Widgets))
	for _, w := range result.Widgets {
		if _, dup := seen[w.ID]; dup {
			return nil, oops.In("widget").With("id", w.ID).Errorf("duplicate widget id %q", w.ID)
		}
		seen[w.ID] = struct{}{}

		if err := checkKind(w); err != nil {
			return nil, err
		}
	}

	return result.Widgets, nil
}

func checkKind(w Widget) error {
	errs := oops.In("widget").With("id", w.ID)

	switch w.Kind {
	case KindAssistant:
		fb := w.Fallback
		if fb.Frustrated == "" || fb.EducationNudge == "" || fb.DemoSuggestion == "" || len(fb.Generic) == 0 {
			return errs.Errorf("assistant widget %q needs frustrated, education_nudge, demo_suggestion and generic fallbacks", w.ID)
		}
		for _, text := range fb.Generic {
			if text == "" {
				return errs.Errorf("assistant widget %q has an empty generic fallback", w.ID)
			}
		}
		fu := w.FollowUps
		if w.FollowUpProbability > 0 && (fu.Discover == "" || fu.DemoReminder == "" || fu.UseCase == "" || fu.Invitation == "" || len(fu.Pool) == 0) {
			return errs.Errorf("assistant widget %q enables follow-ups without a complete follow-up set", w.ID)
		}
	case KindSupport:
		if w.Fallback.Echo == "" {
			return errs.Errorf("support widget %q needs an echo fallback", w.ID)
		}
	}

	return nil
}
