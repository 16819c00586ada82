package passwords

import (
	"bufio"
	"bytes"
	"compress/gzip"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ccojocar/zxcvbn-go/frequency"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	defaultMinLength     = 8
	defaultMaxSimilarity = 0.7
)

var defaultUserAttributes = []string{"username", "first_name", "last_name", "email"}

var nonWord = regexp.MustCompile(`\W+`)

// commonPasswordsGz extends the frequency list with long keyboard walks and
// repeated words, one password per line.
//
//go:embed common-passwords.txt.gz
var commonPasswordsGz []byte

const frequencyListName = "Passwords"

// similarityValidator rejects passwords too close to one of the user attributes
type similarityValidator struct {
	attributes    []string
	maxSimilarity float64
}

func newSimilarityValidator(opts map[string]any) (Validator, error) {
	maxSim, err := floatOption(opts, "max_similarity", defaultMaxSimilarity)
	if err != nil {
		return nil, err
	}
	if maxSim < 0.1 {
		return nil, fmt.Errorf("max_similarity must be at least 0.1")
	}
	attrs, err := stringsOption(opts, "user_attributes", defaultUserAttributes)
	if err != nil {
		return nil, err
	}
	return &similarityValidator{attributes: attrs, maxSimilarity: maxSim}, nil
}

func (v *similarityValidator) Validate(password string, attrs Attributes) error {
	password = strings.ToLower(password)
	pwd := strings.Split(password, "")

	for _, name := range v.attributes {
		value := attrs[name]
		if value == "" {
			continue
		}
		value = strings.ToLower(value)
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if part == "" || v.exceedsLengthRatio(password, part) {
				continue
			}
			m := difflib.NewMatcher(pwd, strings.Split(part, ""))
			if m.QuickRatio() >= v.maxSimilarity {
				return &ValidationError{
					Code:    "password_too_similar",
					Message: fmt.Sprintf("The password is too similar to the %s.", strings.ReplaceAll(name, "_", " ")),
				}
			}
		}
	}
	return nil
}

// exceedsLengthRatio skips values too short to be similar to a long password
func (v *similarityValidator) exceedsLengthRatio(password, value string) bool {
	pwdLen := utf8.RuneCountInString(password)
	valueLen := utf8.RuneCountInString(value)
	bound := v.maxSimilarity / 2 * float64(pwdLen)
	return pwdLen >= 10*valueLen && float64(valueLen) < bound
}

func (v *similarityValidator) HelpText() string {
	return "Your password can't be too similar to your other personal information."
}

type minimumLengthValidator struct {
	minLength int
}

func newMinimumLengthValidator(opts map[string]any) (Validator, error) {
	n, err := intOption(opts, "min_length", defaultMinLength)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("min_length must be positive, got %d", n)
	}
	return &minimumLengthValidator{minLength: n}, nil
}

// MinLength reports configured length
func (v *minimumLengthValidator) MinLength() int {
	return v.minLength
}

func (v *minimumLengthValidator) Validate(password string, _ Attributes) error {
	if utf8.RuneCountInString(password) < v.minLength {
		return &ValidationError{
			Code:    "password_too_short",
			Message: fmt.Sprintf("This password is too short. It must contain at least %d characters.", v.minLength),
		}
	}
	return nil
}

func (v *minimumLengthValidator) HelpText() string {
	return fmt.Sprintf("Your password must contain at least %d characters.", v.minLength)
}

type commonPasswordValidator struct {
	passwords map[string]struct{}
}

func newCommonPasswordValidator(opts map[string]any) (Validator, error) {
	list, err := stringsOption(opts, "passwords", nil)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	if list == nil {
		if err = loadCommonPasswords(set); err != nil {
			return nil, err
		}
	}
	for _, p := range list {
		set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	return &commonPasswordValidator{passwords: set}, nil
}

// loadCommonPasswords fills set with the frequency list and the embedded supplement
func loadCommonPasswords(set map[string]struct{}) error {
	freq, ok := frequency.Lists[frequencyListName]
	if !ok {
		return fmt.Errorf("frequency list %q is not available", frequencyListName)
	}
	for _, p := range freq.List {
		set[strings.ToLower(p)] = struct{}{}
	}

	zr, err := gzip.NewReader(bytes.NewReader(commonPasswordsGz))
	if err != nil {
		return fmt.Errorf("failed to open common passwords: %w", err)
	}
	defer zr.Close()

	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			set[strings.ToLower(line)] = struct{}{}
		}
	}
	if err = sc.Err(); err != nil {
		return fmt.Errorf("failed to read common passwords: %w", err)
	}
	return nil
}

func (v *commonPasswordValidator) Validate(password string, _ Attributes) error {
	if _, ok := v.passwords[strings.ToLower(strings.TrimSpace(password))]; ok {
		return &ValidationError{
			Code:    "password_too_common",
			Message: "This password is too common.",
		}
	}
	return nil
}

func (v *commonPasswordValidator) HelpText() string {
	return "Your password can't be a commonly used password."
}

type numericValidator struct{}

func (numericValidator) Validate(password string, _ Attributes) error {
	if password == "" {
		return nil
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	return &ValidationError{
		Code:    "password_entirely_numeric",
		Message: "This password is entirely numeric.",
	}
}

func (numericValidator) HelpText() string {
	return "Your password can't be entirely numeric."
}
