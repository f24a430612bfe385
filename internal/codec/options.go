// Package codec serializes the answer options of choice questions.
//
// An option list is stored as "value=text" pairs joined by "|", e.g. "1=Yes|2=No".
// Only the first "=" of a pair separates the value, so texts may contain "=".
// Texts must not contain "|".
package codec

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	OptionsSeparator = "|"
	ValueSeparator   = "="
)

type Option struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

// Encode joins options into their stored form
func Encode(options []Option) string {
	parts := make([]string, len(options))
	for i, option := range options {
		parts[i] = strconv.Itoa(option.Value) + ValueSeparator + option.Text
	}
	return strings.Join(parts, OptionsSeparator)
}

// Decode parses a stored option string. Values that are not numbers decode as 0.
func Decode(s string) []Option {
	if s == "" {
		return []Option{}
	}

	parts := strings.Split(s, OptionsSeparator)
	options := make([]Option, 0, len(parts))
	for _, part := range parts {
		valueStr, text, _ := strings.Cut(part, ValueSeparator)
		options = append(options, Option{
			Value: ToInteger(valueStr),
			Text:  text,
		})
	}
	return options
}

// ToInteger converts s to an integer the lenient way: decimals truncate toward
// zero, values beyond the int range saturate and garbage is 0
func ToInteger(s string) int {
	s = strings.TrimSpace(s)
	if value, err := strconv.Atoi(s); err == nil {
		return value
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	switch {
	case math.IsNaN(value):
		return 0
	case value >= math.MaxInt:
		return math.MaxInt
	case value <= math.MinInt:
		return math.MinInt
	}
	return int(value)
}

// Contains reports whether value is one of the option values
func Contains(options []Option, value int) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

// TextFor returns the text of the option carrying value
func TextFor(options []Option, value int) (string, bool) {
	for _, option := range options {
		if option.Value == value {
			return option.Text, true
		}
	}
	return "", false
}

// JoinSelection encodes the selected values of a multiple answer question
func JoinSelection(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, OptionsSeparator)
}

// SplitSelection decodes a multiple answer selection.
// ok is false when the selection is empty or any element is not an integer.
func SplitSelection(s string) (values []int, ok bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	for _, part := range strings.Split(s, OptionsSeparator) {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}
