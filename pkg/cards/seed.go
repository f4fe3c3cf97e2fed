package cards

import (
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/cardmap/pkg/errors"
)

// Spec describes one card in a seed file.
type Spec struct {
	Name                  string        `yaml:"name" validate:"required"`
	Issuer                string        `yaml:"issuer" validate:"required"`
	Country               string        `yaml:"country" validate:"required"`
	Currency              string        `yaml:"currency" validate:"oneof=CAD USD"`
	RewardProgram         string        `yaml:"reward_program" validate:"required"`
	PointValue            *float64      `yaml:"point_value,omitempty" validate:"omitempty,gt=0"` // CAD or USD cents, per Currency
	AnnualFee             Amount        `yaml:"annual_fee" validate:"gte=0"`
	BaseRate              float64       `yaml:"base_rate" validate:"gte=0"`
	EarningRates          yaml.MapSlice `yaml:"earning_rates,omitempty"`
	SignupBonus           *Bonus        `yaml:"signup_bonus,omitempty"`
	ForeignTransactionFee *float64      `yaml:"foreign_tx_fee,omitempty" validate:"omitempty,gte=0,lt=1"`
	CardType              string        `yaml:"card_type,omitempty" validate:"omitempty,oneof=personal business"`
	Category              string        `yaml:"category,omitempty"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// specValidator reports fields by their seed (yaml) names.
func specValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			return v.Interface().(Amount).Value
		}, Amount{})
	})
	return validate
}

// Validate checks the fields every card needs. Only the first failing
// field is reported.
func (s Spec) Validate() error {
	err := specValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewValidationError("", s.Name, err.Error())
	}

	fe := fieldErrs[0]
	msg := describe(fe)
	if s.Name != "" {
		msg = "card " + s.Name + ": " + msg
	}
	return errors.NewValidationError(fe.Field(), fe.Value(), msg)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	}
	return "failed " + fe.Tag()
}

// Seed is the declarative source of the database.
type Seed struct {
	Version    string     `yaml:"version"`
	Sources    []string   `yaml:"sources,omitempty"`
	Notes      []string   `yaml:"notes,omitempty"`
	Valuations Valuations `yaml:"valuations,omitempty"` // Added to or replacing the defaults
	Cards      []Spec     `yaml:"cards"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	seed, err := ParseSeed(data)
	if err != nil {
		var perr *errors.ParseError
		if errors.As(err, &perr) {
			perr.File = path
		}
		return nil, err
	}
	return seed, nil
}

// ParseSeed decodes a YAML seed.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.UnmarshalWithOptions(data, &seed, yaml.Strict()); err != nil {
		return nil, errors.NewParseError("yaml", "", yaml.FormatError(err, false, true), err)
	}
	return &seed, nil
}
