// Package passwords implements the password strength validator chain.
//
// Each validator independently rejects a candidate password. The chain runs
// all of them and reports every failure at once.
package passwords

import (
	"errors"
	"fmt"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/ar4ie13/tutorialplatform/internal/passwords/config"
	"github.com/hashicorp/go-multierror"
)

// Validator names accepted by NewChain.
const (
	UserAttributeSimilarity = "user_attribute_similarity"
	MinimumLength           = "minimum_length"
	CommonPassword          = "common_password"
	NumericPassword         = "numeric_password"
)

// Attributes are user fields a password is compared against, e.g. username or email
type Attributes map[string]string

// Validator checks a single password rule
type Validator interface {
	Validate(password string, attrs Attributes) error
	HelpText() string
}

// ValidationError describes a single failed rule
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var ErrUnknownValidator = errors.New("unknown password validator")

type factory func(opts map[string]any) (Validator, error)

var factories = map[string]factory{
	UserAttributeSimilarity: newSimilarityValidator,
	MinimumLength:           newMinimumLengthValidator,
	CommonPassword:          newCommonPasswordValidator,
	NumericPassword:         func(map[string]any) (Validator, error) { return numericValidator{}, nil },
}

// Chain is an ordered list of validators
type Chain struct {
	validators []Validator
}

// NewChain builds validators from configuration keeping the configured order
func NewChain(confs []config.ValidatorConf) (*Chain, error) {
	c := &Chain{validators: make([]Validator, 0, len(confs))}
	for _, conf := range confs {
		f, ok := factories[conf.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownValidator, conf.Name)
		}
		v, err := f(conf.Options)
		if err != nil {
			return nil, fmt.Errorf("password validator %q: %w", conf.Name, err)
		}
		c.validators = append(c.validators, v)
	}
	return c, nil
}

// Validate runs every validator and returns all failures.
// The returned error matches apperrors.ErrPasswordValidation.
func (c *Chain) Validate(password string, attrs Attributes) error {
	var errs *multierror.Error
	for _, v := range c.validators {
		if err := v.Validate(password, attrs); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if errs == nil {
		return nil
	}
	errs.ErrorFormat = listFormat
	return fmt.Errorf("%w: %w", apperrors.ErrPasswordValidation, errs)
}

// HelpTexts describes the rules in chain order
func (c *Chain) HelpTexts() []string {
	texts := make([]string, 0, len(c.validators))
	for _, v := range c.validators {
		texts = append(texts, v.HelpText())
	}
	return texts
}

// Messages extracts per-rule messages from an error returned by Validate
func Messages(err error) []string {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		if err == nil {
			return nil
		}
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func listFormat(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	s := fmt.Sprintf("%d problems:", len(errs))
	for _, err := range errs {
		s += " " + err.Error()
	}
	return s
}

func intOption(opts map[string]any, key string, def int) (int, error) {
	raw, ok := opts[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("option %q must be an integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("option %q must be an integer, got %T", key, raw)
	}
}

func floatOption(opts map[string]any, key string, def float64) (float64, error) {
	raw, ok := opts[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("option %q must be a number, got %T", key, raw)
	}
}

func stringsOption(opts map[string]any, key string, def []string) ([]string, error) {
	raw, ok := opts[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("option %q must contain strings, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("option %q must be a list of strings, got %T", key, raw)
	}
}
