// Package validation checks configuration and task file definitions.
//
// Struct tag validation uses go-playground/validator and reports fields by
// their mapstructure names, so messages match the keys written in start.yml:
//
//	type TracingConfig struct {
//	    SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
//	}
//	err := validation.Validate(cfg)
//
// Validator collects errors for checks that tags cannot express:
//
//	v := validation.New()
//	v.Custom(step.Task != "" || step.Pipeline != "", "steps[0]", "needs task or pipeline")
//	err := v.Validate()
//
// Both return an errors.AppError coded INVALID_CONFIG with the field errors
// under Details["fields"].
package validation
